package core

import (
	"runtime/debug"
)

// Outcome reports how a goroutine launched with Go ended
type Outcome struct {
	Err   error
	Panic any // Recovered value, nil on normal return
	Stack []byte
}

// Crashed reports whether the goroutine terminated abnormally
func (o Outcome) Crashed() bool {
	return o.Panic != nil
}

// Go runs fn in a new goroutine with panic recovery
// Use this instead of the 'go' keyword for long-lived loops whose failure must reach a joiner
// The returned channel receives exactly one Outcome and is then closed
func Go(fn func() error) <-chan Outcome {
	done := make(chan Outcome, 1)
	go func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				done <- Outcome{Panic: r, Stack: debug.Stack()}
			}
		}()
		done <- Outcome{Err: fn()}
	}()
	return done
}
