package engine

import (
	"sync"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/simloop/core"
	"github.com/lixenwraith/simloop/event"
)

func TestRunningFlagNeverRestarts(t *testing.T) {
	s := NewSharedState()
	require.True(t, s.Running())

	s.Stop()
	for i := 0; i < 10; i++ {
		assert.False(t, s.Running())
		s.Stop()
	}
}

func TestTakeEventsIsDestructive(t *testing.T) {
	s := NewSharedState()
	require.NoError(t, s.PushEvent(event.KeyPress{Key: event.KeyRune, Rune: 'a'}))
	require.NoError(t, s.PushEvent(event.Resize{Width: 80, Height: 24}))

	first, err := s.TakeEvents()
	require.NoError(t, err)
	assert.Equal(t, []event.Input{
		event.KeyPress{Key: event.KeyRune, Rune: 'a'},
		event.Resize{Width: 80, Height: 24},
	}, first)

	second, err := s.TakeEvents()
	require.NoError(t, err)
	assert.Empty(t, second)
}

func TestTakeRequestsPreservesOrder(t *testing.T) {
	s := NewSharedState()
	require.NoError(t, s.PushRequest(core.EnableFullscreen{}))
	require.NoError(t, s.PushRequests(core.DisableFullscreen{}, core.StopRequest{}))

	reqs, err := s.TakeRequests()
	require.NoError(t, err)
	assert.Equal(t, []core.Request{core.EnableFullscreen{}, core.DisableFullscreen{}, core.StopRequest{}}, reqs)

	reqs, err = s.TakeRequests()
	require.NoError(t, err)
	assert.Empty(t, reqs)
}

func TestLatestDrawBatchWins(t *testing.T) {
	s := NewSharedState()
	b1 := []core.DrawCommand{core.Rectangle{Rect: core.NewRect(0, 0, 1, 1), Color: core.Red}}
	b2 := []core.DrawCommand{
		core.Circle{X: 5, Y: 5, Radius: 2, Color: core.Green},
		core.FilledCircle{X: 1, Y: 1, Radius: 1, Color: core.Blue},
	}

	require.NoError(t, s.PublishDrawCommands(b1))
	require.NoError(t, s.PublishDrawCommands(b2))

	got, fresh, err := s.TakeDrawCommands()
	require.NoError(t, err)
	assert.True(t, fresh)
	assert.Equal(t, b2, got)
	assert.Equal(t, uint64(2), s.Published())
}

func TestDrawBatchFreshAtMostOnce(t *testing.T) {
	s := NewSharedState()

	// Initial empty batch is fresh so the first frame clears
	got, fresh, err := s.TakeDrawCommands()
	require.NoError(t, err)
	assert.True(t, fresh)
	assert.Empty(t, got)

	_, fresh, err = s.TakeDrawCommands()
	require.NoError(t, err)
	assert.False(t, fresh)

	batch := []core.DrawCommand{core.Texture{ID: "ball"}}
	require.NoError(t, s.PublishDrawCommands(batch))

	got, fresh, _ = s.TakeDrawCommands()
	assert.True(t, fresh)
	assert.Equal(t, batch, got)

	got, fresh, _ = s.TakeDrawCommands()
	assert.False(t, fresh)
	assert.Equal(t, batch, got, "stale take still returns the last batch")
}

func TestPanicPoisonsOnlyThatField(t *testing.T) {
	s := NewSharedState()
	require.NoError(t, s.PublishDrawCommands(nil))

	assert.Panics(t, func() {
		_ = s.drawGuard.run(func() {
			panic("renderer exploded")
		})
	})

	_, _, err := s.TakeDrawCommands()
	assert.True(t, eris.Is(err, ErrPoisoned))
	err = s.PublishDrawCommands(nil)
	assert.True(t, eris.Is(err, ErrPoisoned))

	// Other fields keep working
	require.NoError(t, s.PushEvent(event.Resize{Width: 1, Height: 1}))
	require.NoError(t, s.PushRequest(core.StopRequest{}))
	assert.True(t, s.Running())
}

func TestConcurrentEventProducers(t *testing.T) {
	const (
		producers = 4
		perWorker = 500
	)
	s := NewSharedState()

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				ev := event.Resize{Width: p, Height: i}
				assert.NoError(t, s.PushEvent(ev))
			}
		}(p)
	}

	done := make(chan struct{})
	var drained []event.Input
	go func() {
		defer close(done)
		for len(drained) < producers*perWorker {
			batch, err := s.TakeEvents()
			assert.NoError(t, err)
			drained = append(drained, batch...)
		}
	}()

	wg.Wait()
	<-done

	require.Len(t, drained, producers*perWorker)
	next := make([]int, producers)
	for _, in := range drained {
		r := in.(event.Resize)
		assert.Equal(t, next[r.Width], r.Height, "producer %d out of order", r.Width)
		next[r.Width]++
	}
}

func TestConcurrentPublishAndTake(t *testing.T) {
	s := NewSharedState()
	const batches = 1000

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < batches; i++ {
			batch := []core.DrawCommand{core.Circle{X: i}}
			assert.NoError(t, s.PublishDrawCommands(batch))
		}
	}()

	last := -1
	for s.Published() < batches {
		batch, fresh, err := s.TakeDrawCommands()
		require.NoError(t, err)
		if !fresh || len(batch) == 0 {
			continue
		}
		x := batch[0].(core.Circle).X
		assert.Greater(t, x, last, "a fresh batch must be newer than the previous one")
		last = x
	}
	wg.Wait()
}
