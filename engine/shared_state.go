package engine

import (
	"sync"
	"sync/atomic"

	"github.com/rotisserie/eris"

	"github.com/lixenwraith/simloop/core"
	"github.com/lixenwraith/simloop/event"
)

// guard is a mutex that becomes permanently unusable once a holder panics
type guard struct {
	mu       sync.Mutex
	poisoned atomic.Bool
	name     string
}

// run executes fn under the lock; a panic in fn poisons the guard and propagates
func (g *guard) run(fn func()) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.poisoned.Load() {
		return eris.Wrapf(ErrPoisoned, "%s", g.name)
	}

	done := false
	defer func() {
		if !done {
			g.poisoned.Store(true)
		}
	}()
	fn()
	done = true
	return nil
}

// SharedState is the only state crossing between the simulation and presentation goroutines
// Each field has its own lock so the two sides contend only on the field in use
type SharedState struct {
	running atomic.Bool

	eventsGuard guard
	events      []event.Input

	requestsGuard guard
	requests      []core.Request

	// fresh is written only under drawGuard
	drawGuard guard
	draw      []core.DrawCommand
	fresh     atomic.Bool
	published atomic.Uint64
}

// NewSharedState returns a running state with empty queues
// The empty initial batch counts as fresh so the first frame clears the screen
func NewSharedState() *SharedState {
	s := &SharedState{
		eventsGuard:   guard{name: "events"},
		requestsGuard: guard{name: "requests"},
		drawGuard:     guard{name: "draw"},
	}
	s.running.Store(true)
	s.fresh.Store(true)
	return s
}

// Running reports whether the system should keep going
func (s *SharedState) Running() bool {
	return s.running.Load()
}

// Stop clears the running flag; idempotent and never restarted
func (s *SharedState) Stop() {
	s.running.Store(false)
}

// PushEvent appends an input for the next tick
func (s *SharedState) PushEvent(ev event.Input) error {
	return s.eventsGuard.run(func() {
		s.events = append(s.events, ev)
	})
}

// TakeEvents removes and returns every queued input, oldest first
func (s *SharedState) TakeEvents() ([]event.Input, error) {
	var batch []event.Input
	err := s.eventsGuard.run(func() {
		batch = s.events
		s.events = nil
	})
	return batch, err
}

// PushRequest appends a request for the presentation side
func (s *SharedState) PushRequest(r core.Request) error {
	return s.requestsGuard.run(func() {
		s.requests = append(s.requests, r)
	})
}

// PushRequests appends requests preserving their order
func (s *SharedState) PushRequests(rs ...core.Request) error {
	return s.requestsGuard.run(func() {
		s.requests = append(s.requests, rs...)
	})
}

// TakeRequests removes and returns every queued request, oldest first
func (s *SharedState) TakeRequests() ([]core.Request, error) {
	var batch []core.Request
	err := s.requestsGuard.run(func() {
		batch = s.requests
		s.requests = nil
	})
	return batch, err
}

// PublishDrawCommands replaces the current batch wholesale and marks it fresh
// An unconsumed previous batch is discarded
func (s *SharedState) PublishDrawCommands(batch []core.DrawCommand) error {
	return s.drawGuard.run(func() {
		s.draw = batch
		s.fresh.Store(true)
		s.published.Add(1)
	})
}

// TakeDrawCommands returns the latest batch and whether it was published since the previous take
// A batch is reported fresh at most once; a stale result still carries the last batch
func (s *SharedState) TakeDrawCommands() ([]core.DrawCommand, bool, error) {
	var (
		batch []core.DrawCommand
		fresh bool
	)
	err := s.drawGuard.run(func() {
		batch = s.draw
		fresh = s.fresh.Swap(false)
	})
	return batch, fresh, err
}

// Published returns the number of batches published so far
func (s *SharedState) Published() uint64 {
	return s.published.Load()
}
