package engine

import (
	"time"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/simloop/config"
	"github.com/lixenwraith/simloop/core"
)

// Presenter is one presentation-side step run every frame, typically an input source
type Presenter interface {
	Update(state *SharedState) error
}

// RequestSink executes requests of the kinds it accepts
type RequestSink interface {
	Accepts(kind core.RequestKind) bool
	HandleRequest(r core.Request) error
}

// Frame is the draw batch observed by the presentation side for one frame
type Frame struct {
	Number   uint64
	Commands []core.DrawCommand
	Fresh    bool // false means Commands is the batch already shown
}

// FrameSink consumes the draw batch of every frame
type FrameSink interface {
	DrawFrame(f Frame) error
}

// Game wires a World on its own goroutine to presentation collaborators on the caller's goroutine
type Game struct {
	cfg    config.Config
	logger zerolog.Logger
	clock  Clock

	presenters []Presenter
	sinks      []RequestSink
	frames     []FrameSink
}

// GameOption configures a Game
type GameOption func(*Game)

// WithPresenters appends per-frame presentation steps, run in the given order
func WithPresenters(p ...Presenter) GameOption {
	return func(g *Game) {
		g.presenters = append(g.presenters, p...)
	}
}

// WithRequestSinks appends request handlers
func WithRequestSinks(s ...RequestSink) GameOption {
	return func(g *Game) {
		g.sinks = append(g.sinks, s...)
	}
}

// WithFrameSinks appends draw batch consumers
func WithFrameSinks(f ...FrameSink) GameOption {
	return func(g *Game) {
		g.frames = append(g.frames, f...)
	}
}

// WithGameLogger sets the logger of the game and its scheduler
func WithGameLogger(l zerolog.Logger) GameOption {
	return func(g *Game) {
		g.logger = l
	}
}

// WithGameClock sets the scheduler clock
func WithGameClock(c Clock) GameOption {
	return func(g *Game) {
		g.clock = c
	}
}

// NewGame creates a game; the configuration is validated by Run
func NewGame(cfg config.Config, opts ...GameOption) *Game {
	g := &Game{
		cfg:    cfg,
		logger: zerolog.Nop(),
		clock:  NewSystemClock(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Run starts the simulation goroutine, runs init on it, and drives the presentation loop until stopped
// It returns after the simulation goroutine has exited
func (g *Game) Run(init func(h *Handle) error) error {
	if err := g.cfg.Validate(); err != nil {
		return err
	}

	scheduler, err := NewTickScheduler(g.cfg.TicksPerSecond,
		WithClock(g.clock),
		WithLogger(g.logger.With().Str("goroutine", "simulation").Logger()),
	)
	if err != nil {
		return err
	}

	state := NewSharedState()
	world := NewWorld()

	sim := core.Go(func() error {
		defer func() {
			if r := recover(); r != nil {
				state.Stop()
				panic(r)
			}
		}()
		if err := scheduler.Start(world, state, init); err != nil {
			return err
		}
		return scheduler.Run(world, state)
	})

	presentErr := g.present(state, scheduler)
	if presentErr != nil {
		g.logger.Error().Err(presentErr).Msg("presentation stopped on error")
	}
	state.Stop()

	simErr := g.join(<-sim)
	g.logger.Info().
		Uint64("ticks", scheduler.Ticks()).
		Uint64("batches", state.Published()).
		Msg("game stopped")
	if presentErr != nil {
		return presentErr
	}
	return simErr
}

// present runs frames until the running flag clears
func (g *Game) present(state *SharedState, scheduler *TickScheduler) error {
	ticker := time.NewTicker(g.cfg.FrameInterval())
	defer ticker.Stop()

	var frame uint64
	for state.Running() {
		frame++
		if err := g.frame(state, frame); err != nil {
			return err
		}
		if g.cfg.MaxTicks > 0 && scheduler.Ticks() >= uint64(g.cfg.MaxTicks) {
			g.logger.Info().Int("max_ticks", g.cfg.MaxTicks).Msg("tick limit reached")
			state.Stop()
			break
		}
		<-ticker.C
	}
	return nil
}

// frame performs one presentation step: inputs, requests, then drawing
func (g *Game) frame(state *SharedState, number uint64) error {
	for _, p := range g.presenters {
		if err := p.Update(state); err != nil {
			return eris.Wrap(err, "presenter failed")
		}
	}

	unhandled, err := Dispatch(state, g.sinks...)
	if err != nil {
		return err
	}
	for _, r := range unhandled {
		g.logger.Debug().Str("kind", r.Kind().String()).Msgf("no sink for %T", r)
	}

	if len(g.frames) == 0 {
		return nil
	}
	cmds, fresh, err := state.TakeDrawCommands()
	if err != nil {
		return err
	}
	f := Frame{Number: number, Commands: cmds, Fresh: fresh}
	for _, fs := range g.frames {
		if err := fs.DrawFrame(f); err != nil {
			return eris.Wrapf(err, "frame %d", number)
		}
	}
	return nil
}

// join converts the simulation goroutine outcome into an error
func (g *Game) join(o core.Outcome) error {
	if o.Crashed() {
		g.logger.Error().
			Interface("panic", o.Panic).
			Bytes("stack", o.Stack).
			Msg("simulation goroutine panicked")
		return eris.Wrapf(ErrSimulationCrashed, "%v", o.Panic)
	}
	return o.Err
}

// Dispatch drains the request queue and routes each request to every sink accepting its kind
// A StopRequest clears the running flag; requests no sink accepted are returned in order
func Dispatch(state *SharedState, sinks ...RequestSink) ([]core.Request, error) {
	requests, err := state.TakeRequests()
	if err != nil {
		return nil, err
	}

	var unhandled []core.Request
	for _, r := range requests {
		if _, ok := r.(core.StopRequest); ok {
			state.Stop()
			continue
		}
		handled := false
		for _, s := range sinks {
			if !s.Accepts(r.Kind()) {
				continue
			}
			handled = true
			if err := s.HandleRequest(r); err != nil {
				return unhandled, eris.Wrapf(err, "%s request %T", r.Kind(), r)
			}
		}
		if !handled {
			unhandled = append(unhandled, r)
		}
	}
	return unhandled, nil
}
