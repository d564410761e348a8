// Package input translates terminal events into simulation inputs
package input

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/simloop/engine"
	"github.com/lixenwraith/simloop/event"
)

const eventBufferSize = 100

// Pump reads tcell events on its own goroutine and forwards them to the shared state once per frame
// Ctrl-C stops the shared state instead of being forwarded
type Pump struct {
	screen tcell.Screen
	events chan tcell.Event
	done   chan struct{}
	logger zerolog.Logger
}

// NewPump starts polling screen; Close stops the polling goroutine
func NewPump(screen tcell.Screen, logger zerolog.Logger) *Pump {
	p := &Pump{
		screen: screen,
		events: make(chan tcell.Event, eventBufferSize),
		done:   make(chan struct{}),
		logger: logger,
	}
	go p.poll()
	return p
}

func (p *Pump) poll() {
	defer close(p.events)
	for {
		ev := p.screen.PollEvent()
		if ev == nil {
			// Screen finalized
			return
		}
		select {
		case p.events <- ev:
		case <-p.done:
			return
		}
	}
}

// Close stops forwarding; the poll goroutine exits on its next event or when the screen is finalized
func (p *Pump) Close() {
	select {
	case <-p.done:
	default:
		close(p.done)
	}
}

// Update implements engine.Presenter, draining pending events without blocking
func (p *Pump) Update(state *engine.SharedState) error {
	for {
		select {
		case ev, ok := <-p.events:
			if !ok {
				return nil
			}
			if err := p.forward(state, ev); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func (p *Pump) forward(state *engine.SharedState, ev tcell.Event) error {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if isInterrupt(ev) {
			p.logger.Info().Msg("interrupt received")
			state.Stop()
			return nil
		}
		in, ok := TranslateKey(ev)
		if !ok {
			return nil
		}
		return state.PushEvent(in)
	case *tcell.EventResize:
		p.screen.Sync()
		w, h := ev.Size()
		return state.PushEvent(event.Resize{Width: w, Height: h})
	}
	return nil
}

// isInterrupt matches Ctrl-C whether reported as a control key or as a rune with ModCtrl
func isInterrupt(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyCtrlC {
		return true
	}
	return ev.Key() == tcell.KeyRune && ev.Modifiers()&tcell.ModCtrl != 0 && (ev.Rune() == 'c' || ev.Rune() == 'C')
}
