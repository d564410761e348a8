package input

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/simloop/engine"
	"github.com/lixenwraith/simloop/event"
)

func TestTranslateKey(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want event.KeyPress
		ok   bool
	}{
		{"Rune", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), event.KeyPress{Key: event.KeyRune, Rune: 'x'}, true},
		{"ShiftRune", tcell.NewEventKey(tcell.KeyRune, 'X', tcell.ModShift), event.KeyPress{Key: event.KeyRune, Rune: 'X', Mod: event.ModShift}, true},
		{"Escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), event.KeyPress{Key: event.KeyEscape}, true},
		{"Enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), event.KeyPress{Key: event.KeyEnter}, true},
		{"AltUp", tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModAlt), event.KeyPress{Key: event.KeyUp, Mod: event.ModAlt}, true},
		{"F5", tcell.NewEventKey(tcell.KeyF5, 0, tcell.ModNone), event.KeyPress{Key: event.KeyF5}, true},
		{"CtrlF", tcell.NewEventKey(tcell.KeyCtrlF, 0, tcell.ModCtrl), event.KeyPress{Key: event.KeyRune, Rune: 'f', Mod: event.ModCtrl}, true},
		{"Unmapped", tcell.NewEventKey(tcell.KeyF40, 0, tcell.ModNone), event.KeyPress{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := TranslateKey(tt.ev)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func newSimPump(t *testing.T) (*Pump, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(20, 10)
	p := NewPump(screen, zerolog.Nop())
	t.Cleanup(func() {
		p.Close()
		screen.Fini()
	})
	return p, screen
}

// pumpUntil drives Update until cond holds or the deadline passes
func pumpUntil(t *testing.T, p *Pump, state *engine.SharedState, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		require.NoError(t, p.Update(state))
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached before deadline")
}

func TestPumpForwardsKeys(t *testing.T) {
	p, screen := newSimPump(t)
	state := engine.NewSharedState()

	screen.InjectKey(tcell.KeyRune, 'a', tcell.ModNone)
	screen.InjectKey(tcell.KeyLeft, 0, tcell.ModNone)

	var got []event.Input
	pumpUntil(t, p, state, func() bool {
		batch, err := state.TakeEvents()
		require.NoError(t, err)
		for _, in := range batch {
			// Screens may report their size on startup
			if in.Type() == event.InputKeyPress {
				got = append(got, in)
			}
		}
		return len(got) >= 2
	})

	assert.Equal(t, []event.Input{
		event.KeyPress{Key: event.KeyRune, Rune: 'a'},
		event.KeyPress{Key: event.KeyLeft},
	}, got)
	assert.True(t, state.Running())
}

func TestPumpCtrlCStops(t *testing.T) {
	p, screen := newSimPump(t)
	state := engine.NewSharedState()

	screen.InjectKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)

	pumpUntil(t, p, state, func() bool { return !state.Running() })

	events, err := state.TakeEvents()
	require.NoError(t, err)
	for _, in := range events {
		k, ok := in.(event.KeyPress)
		assert.False(t, ok && k.Rune == 'c' && k.Mod.Has(event.ModCtrl), "ctrl-c must not be forwarded")
	}
}

func TestPumpUpdateDoesNotBlock(t *testing.T) {
	p, _ := newSimPump(t)
	state := engine.NewSharedState()

	done := make(chan struct{})
	go func() {
		defer close(done)
		assert.NoError(t, p.Update(state))
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Update blocked with no pending events")
	}
}
