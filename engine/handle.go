package engine

import (
	"github.com/rs/zerolog"

	"github.com/lixenwraith/simloop/core"
	"github.com/lixenwraith/simloop/event"
)

// Handle is the capability surface given to init and to every system during a tick
// It is valid only for the call it was passed to
type Handle struct {
	w      *World
	state  *SharedState
	events []event.Input
	tick   uint64
	logger zerolog.Logger
}

// NewHandle builds a handle over w and state for tick; events are the inputs drained for that tick
func NewHandle(w *World, state *SharedState, tick uint64, events []event.Input, logger zerolog.Logger) *Handle {
	return &Handle{
		w:      w,
		state:  state,
		events: events,
		tick:   tick,
		logger: logger,
	}
}

func (h *Handle) world() *World { return h.w }

// Stop clears the shared running flag; the current tick still completes
func (h *Handle) Stop() {
	h.state.Stop()
}

// Running reports the shared running flag
func (h *Handle) Running() bool {
	return h.state.Running()
}

// Send queues a request for the presentation side
func (h *Handle) Send(r core.Request) error {
	return h.state.PushRequest(r)
}

// SendAll queues requests in order under a single lock
func (h *Handle) SendAll(rs ...core.Request) error {
	return h.state.PushRequests(rs...)
}

// Draw appends a command to this tick's draw list
func (h *Handle) Draw(cmd core.DrawCommand) {
	h.w.pushDraw(cmd)
}

// AddEntity allocates an entity and returns a builder for its components
func (h *Handle) AddEntity() *EntityBuilder {
	return h.w.NewEntity()
}

// Events returns the inputs drained at the start of this tick, oldest first
func (h *Handle) Events() []event.Input {
	return h.events
}

// Tick returns the tick number, 0 during init
func (h *Handle) Tick() uint64 {
	return h.tick
}

// Logger returns the logger scoped to the current component type
func (h *Handle) Logger() *zerolog.Logger {
	return &h.logger
}
