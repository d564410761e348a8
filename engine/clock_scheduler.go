package engine

import (
	"sync/atomic"
	"time"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// TickScheduler drives a World at a fixed rate on the calling goroutine
// Each tick drains inputs, updates the world, publishes its draw list and sleeps the remainder of the interval
type TickScheduler struct {
	ticksPerSecond int
	tickInterval   time.Duration
	clock          Clock
	logger         zerolog.Logger

	tickStart time.Time
	lastSleep time.Duration

	// Tick counter for debugging and metrics
	tickCount atomic.Uint64
}

// SchedulerOption configures a TickScheduler
type SchedulerOption func(*TickScheduler)

// WithClock replaces the system clock
func WithClock(c Clock) SchedulerOption {
	return func(ts *TickScheduler) {
		ts.clock = c
	}
}

// WithLogger sets the logger handed to systems through the Handle
func WithLogger(l zerolog.Logger) SchedulerOption {
	return func(ts *TickScheduler) {
		ts.logger = l
	}
}

// NewTickScheduler creates a scheduler running ticksPerSecond ticks
func NewTickScheduler(ticksPerSecond int, opts ...SchedulerOption) (*TickScheduler, error) {
	if ticksPerSecond <= 0 {
		return nil, eris.Wrapf(ErrInvalidTickRate, "got %d", ticksPerSecond)
	}
	ts := &TickScheduler{
		ticksPerSecond: ticksPerSecond,
		tickInterval:   time.Second / time.Duration(ticksPerSecond),
		clock:          NewSystemClock(),
		logger:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(ts)
	}
	ts.tickStart = ts.clock.Now()
	return ts, nil
}

// Interval returns the fixed tick period
func (ts *TickScheduler) Interval() time.Duration {
	return ts.tickInterval
}

// Ticks returns the number of completed Update calls
func (ts *TickScheduler) Ticks() uint64 {
	return ts.tickCount.Load()
}

// LastSleep returns the duration slept after the most recent tick
func (ts *TickScheduler) LastSleep() time.Duration {
	return ts.lastSleep
}

// Start runs init once with a tick-0 handle and publishes whatever it drew
// An init error stops the shared state
func (ts *TickScheduler) Start(w *World, state *SharedState, init func(h *Handle) error) error {
	if init != nil {
		h := NewHandle(w, state, 0, nil, ts.logger.With().Str("system", "init").Logger())
		if err := init(h); err != nil {
			state.Stop()
			return eris.Wrap(err, "init failed")
		}
	}
	if err := state.PublishDrawCommands(w.TakeDrawCommands()); err != nil {
		state.Stop()
		return err
	}
	ts.tickStart = ts.clock.Now()
	return nil
}

// Update performs one tick
// The draw list is published even when the world update fails; on failure no sleep happens
func (ts *TickScheduler) Update(w *World, state *SharedState) error {
	events, err := state.TakeEvents()
	if err != nil {
		return eris.Wrap(err, "failed to drain events")
	}

	tick := ts.tickCount.Load() + 1
	h := NewHandle(w, state, tick, events, ts.logger.With().Uint64("tick", tick).Logger())
	updateErr := w.Update(h)
	publishErr := state.PublishDrawCommands(w.TakeDrawCommands())
	ts.tickCount.Store(tick)

	if updateErr != nil {
		return eris.Wrapf(updateErr, "tick %d", tick)
	}
	if publishErr != nil {
		return eris.Wrap(publishErr, "failed to publish draw commands")
	}

	ts.awaitNextTick()
	return nil
}

// awaitNextTick sleeps whatever remains of the interval and restarts the tick timer
// A tick that overran sleeps zero, no catch-up is attempted
func (ts *TickScheduler) awaitNextTick() {
	elapsed := ts.clock.Now().Sub(ts.tickStart)
	sleep := ts.tickInterval - elapsed
	if sleep < 0 {
		sleep = 0
	}
	ts.lastSleep = sleep
	if sleep > 0 {
		ts.clock.Sleep(sleep)
	}
	ts.tickStart = ts.clock.Now()
}

// Run ticks until the running flag clears or a tick fails
// A failure stops the shared state and is returned without retry
func (ts *TickScheduler) Run(w *World, state *SharedState) error {
	ts.logger.Info().
		Int("tps", ts.ticksPerSecond).
		Dur("interval", ts.tickInterval).
		Msg("simulation started")

	for state.Running() {
		if err := ts.Update(w, state); err != nil {
			state.Stop()
			ts.logger.Error().Err(err).Uint64("tick", ts.Ticks()).Msg("simulation stopped on error")
			return err
		}
	}

	ts.logger.Info().Uint64("ticks", ts.Ticks()).Msg("simulation stopped")
	return nil
}
