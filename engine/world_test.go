package engine

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/simloop/core"
)

type position struct {
	X, Y int
}

type velocity struct {
	DX, DY int
}

type tag struct{}

func TestEntityIDsStrictlyIncrease(t *testing.T) {
	w := NewWorld()
	h := newTestHandle(w)

	assert.Equal(t, core.Entity(0), w.CreateEntity())
	prev := core.Entity(0)
	for i := 1; i < 100; i++ {
		var e core.Entity
		if i%2 == 0 {
			e = w.CreateEntity()
		} else {
			e = h.AddEntity().Build()
		}
		assert.Equal(t, prev+1, e)
		prev = e
	}
	assert.Equal(t, 100, w.CountEntity())
	assert.Equal(t, core.Entity(0), w.Entities()[0])
}

func TestHandleSendAllKeepsOrder(t *testing.T) {
	state := NewSharedState()
	h := NewHandle(NewWorld(), state, 1, nil, zerolog.Nop())

	require.NoError(t, h.Send(core.PlaySound{Sound: core.SoundBeep}))
	require.NoError(t, h.SendAll(core.DisableFullscreen{}, core.StopRequest{}))

	reqs, err := state.TakeRequests()
	require.NoError(t, err)
	assert.Equal(t, []core.Request{core.PlaySound{Sound: core.SoundBeep}, core.DisableFullscreen{}, core.StopRequest{}}, reqs)
}

func TestAddedComponentObservedByNextUpdate(t *testing.T) {
	w := NewWorld()
	e := w.CreateEntity()
	AddComponent(w, e, position{X: 7, Y: -3})

	var observed position
	AddSystem(w, func(h *Handle, got core.Entity, p *position) error {
		if got == e {
			observed = *p
		}
		return nil
	})

	require.NoError(t, w.Update(newTestHandle(w)))
	assert.Equal(t, position{X: 7, Y: -3}, observed)
}

func TestPositionIncrementScenario(t *testing.T) {
	w := NewWorld()
	h := newTestHandle(w)
	a := With(h.AddEntity(), position{X: 0}).Build()
	b := With(h.AddEntity(), position{X: 10}).Build()

	var order []core.Entity
	AddSystem(h, func(h *Handle, e core.Entity, p *position) error {
		p.X++
		order = append(order, e)
		return nil
	})

	require.NoError(t, w.Update(h))

	pa, err := GetComponent[position](w, a)
	require.NoError(t, err)
	pb, err := GetComponent[position](w, b)
	require.NoError(t, err)
	assert.Equal(t, 1, pa.X)
	assert.Equal(t, 11, pb.X)
	assert.Equal(t, []core.Entity{a, b}, order)
}

func TestRemoveComponentThenRead(t *testing.T) {
	w := NewWorld()
	var entities []core.Entity
	for i := 0; i < 10; i++ {
		e := w.CreateEntity()
		AddComponent(w, e, position{X: i})
		entities = append(entities, e)
	}

	RemoveComponent[position](w, entities[3])

	_, err := GetComponent[position](w, entities[3])
	assert.True(t, eris.Is(err, ErrComponentNotFound))
	assert.NotContains(t, Query[position](w), entities[3])
	assert.Equal(t, 9, CountComponents[position](w))
}

func TestStrictReadRequiresRegistration(t *testing.T) {
	w := NewWorld()

	_, err := GetComponent[velocity](w, 1)
	assert.True(t, eris.Is(err, ErrTypeNotRegistered))

	_, err = LookupStore[velocity](w)
	assert.True(t, eris.Is(err, ErrTypeNotRegistered))

	// Removal and clear of an unknown type are no-ops and do not register it
	RemoveComponent[velocity](w, 1)
	ClearComponents[velocity](w)
	assert.Empty(t, w.ComponentTypes())

	Register[velocity](w)
	_, err = GetComponent[velocity](w, 1)
	assert.True(t, eris.Is(err, ErrComponentNotFound))
	assert.Equal(t, 0, CountComponents[velocity](w))
}

func TestUpdateFollowsTypeRegistrationOrder(t *testing.T) {
	w := NewWorld()
	e := w.CreateEntity()

	var trace []string
	AddSystem(w, func(h *Handle, _ core.Entity, _ *velocity) error {
		trace = append(trace, "velocity")
		return nil
	})
	AddSystem(w, func(h *Handle, _ core.Entity, _ *tag) error {
		trace = append(trace, "tag")
		return nil
	})
	AddSystem(w, func(h *Handle, _ core.Entity, _ *position) error {
		trace = append(trace, "position")
		return nil
	})
	AddComponent(w, e, position{})
	AddComponent(w, e, tag{})
	AddComponent(w, e, velocity{})

	for i := 0; i < 5; i++ {
		trace = trace[:0]
		require.NoError(t, w.Update(newTestHandle(w)))
		assert.Equal(t, []string{"velocity", "tag", "position"}, trace)
	}
}

func TestStoreCreatedDuringUpdateRunsNextTick(t *testing.T) {
	w := NewWorld()
	e := w.CreateEntity()
	AddComponent(w, e, position{})

	velocityRuns := 0
	AddSystem(w, func(h *Handle, e core.Entity, _ *position) error {
		if !HasComponent[velocity](h, e) {
			AddComponent(h, e, velocity{DX: 1})
			AddSystem(h, func(h *Handle, _ core.Entity, _ *velocity) error {
				velocityRuns++
				return nil
			})
		}
		return nil
	})

	require.NoError(t, w.Update(newTestHandle(w)))
	assert.Equal(t, 0, velocityRuns)

	require.NoError(t, w.Update(newTestHandle(w)))
	assert.Equal(t, 1, velocityRuns)
}

func TestSystemCanSpawnEntitiesThroughHandle(t *testing.T) {
	w := NewWorld()
	AddComponent(w, w.CreateEntity(), position{})
	AddSystem(w, func(h *Handle, _ core.Entity, _ *position) error {
		With(h.AddEntity(), position{X: 99})
		return nil
	})

	require.NoError(t, w.Update(newTestHandle(w)))
	assert.Equal(t, 2, CountComponents[position](w))

	require.NoError(t, w.Update(newTestHandle(w)))
	assert.Equal(t, 4, CountComponents[position](w))
}

func TestWorldUpdateStopsAtFirstFailingStore(t *testing.T) {
	w := NewWorld()
	e := w.CreateEntity()
	AddComponent(w, e, position{})
	AddComponent(w, e, velocity{})

	boom := eris.New("boom")
	velocityRan := false
	AddSystem(w, func(h *Handle, _ core.Entity, _ *position) error { return boom })
	AddSystem(w, func(h *Handle, _ core.Entity, _ *velocity) error {
		velocityRan = true
		return nil
	})

	err := w.Update(newTestHandle(w))
	assert.True(t, eris.Is(err, boom))
	assert.False(t, velocityRan)
}

func TestDrawCommandsCollectedPerTick(t *testing.T) {
	w := NewWorld()
	h := newTestHandle(w)

	h.Draw(core.FilledRectangle{Rect: core.NewRect(0, 0, 4, 4), Color: core.Red})
	h.Draw(core.Circle{X: 2, Y: 2, Radius: 1, Color: core.Blue})

	batch := w.TakeDrawCommands()
	require.Len(t, batch, 2)
	assert.Equal(t, core.DrawFilledRectangle, batch[0].Kind())
	assert.Equal(t, core.DrawCircle, batch[1].Kind())
	assert.Empty(t, w.TakeDrawCommands())
}

func TestDestroyEntityRemovesAllComponents(t *testing.T) {
	w := NewWorld()
	e := With(With(w.NewEntity(), position{X: 1}), velocity{DX: 1}).Build()
	other := With(w.NewEntity(), position{X: 2}).Build()

	w.DestroyEntity(e)

	assert.False(t, HasComponent[position](w, e))
	assert.False(t, HasComponent[velocity](w, e))
	assert.True(t, HasComponent[position](w, other))
}

func TestHandleSendQueuesRequest(t *testing.T) {
	w := NewWorld()
	state := NewSharedState()
	h := NewHandle(w, state, 3, nil, zerolog.Nop())

	require.NoError(t, h.Send(core.PlaySound{Sound: core.SoundBeep, Volume: 1}))
	require.NoError(t, h.Send(core.EnableFullscreen{}))

	reqs, err := state.TakeRequests()
	require.NoError(t, err)
	assert.Equal(t, []core.Request{core.PlaySound{Sound: core.SoundBeep, Volume: 1}, core.EnableFullscreen{}}, reqs)
	assert.Equal(t, uint64(3), h.Tick())

	h.Stop()
	assert.False(t, h.Running())
	h.Stop()
	assert.False(t, state.Running())
}
