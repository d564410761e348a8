package engine

import "github.com/rotisserie/eris"

var (
	// ErrTypeNotRegistered is returned by strict lookups for a component type that has no store yet
	ErrTypeNotRegistered = eris.New("component type not registered")

	// ErrStoreTypeMismatch signals a store registered under a type key holds a different component type
	ErrStoreTypeMismatch = eris.New("component store type mismatch")

	// ErrComponentNotFound is returned when an entity has no component of the requested type
	ErrComponentNotFound = eris.New("component not found")

	// ErrPoisoned is returned by every access to a shared field whose previous holder panicked
	ErrPoisoned = eris.New("shared state poisoned")

	// ErrInvalidTickRate rejects a non-positive ticks-per-second value
	ErrInvalidTickRate = eris.New("ticks per second must be positive")

	// ErrSimulationCrashed wraps a panic recovered from the simulation goroutine
	ErrSimulationCrashed = eris.New("simulation crashed")
)
