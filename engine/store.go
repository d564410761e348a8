package engine

import (
	"reflect"

	"github.com/rotisserie/eris"

	"github.com/lixenwraith/simloop/core"
)

// System is per-entity logic attached to the store of component type C
// It receives the handle of the current tick and a pointer into the store, writes through it persist
type System[C any] func(h *Handle, e core.Entity, c *C) error

// Store is a generic container for a specific component type C
// Entities and components are parallel dense arrays; index maps an entity to its slot
// A store is owned by the simulation goroutine and is not safe for concurrent use
type Store[C any] struct {
	entities   []core.Entity
	components []C
	index      map[core.Entity]int
	systems    []System[C]

	// Mutations issued while Update iterates are queued and applied once it returns
	updating bool
	pending  []func()
}

// NewStore creates an empty store for type C
func NewStore[C any]() *Store[C] {
	return &Store[C]{
		entities:   make([]core.Entity, 0, 64),
		components: make([]C, 0, 64),
		index:      make(map[core.Entity]int),
	}
}

// AddComponent inserts the component of e, replacing any existing one in place
func (s *Store[C]) AddComponent(e core.Entity, c C) {
	if s.updating {
		s.pending = append(s.pending, func() { s.addComponent(e, c) })
		return
	}
	s.addComponent(e, c)
}

func (s *Store[C]) addComponent(e core.Entity, c C) {
	if i, ok := s.index[e]; ok {
		s.components[i] = c
		return
	}
	s.index[e] = len(s.entities)
	s.entities = append(s.entities, e)
	s.components = append(s.components, c)
}

// RemoveComponent deletes the component of e by swapping the last slot into its place
func (s *Store[C]) RemoveComponent(e core.Entity) {
	if s.updating {
		s.pending = append(s.pending, func() { s.removeComponent(e) })
		return
	}
	s.removeComponent(e)
}

func (s *Store[C]) removeComponent(e core.Entity) {
	i, ok := s.index[e]
	if !ok {
		return
	}
	last := len(s.entities) - 1
	if i != last {
		s.entities[i] = s.entities[last]
		s.components[i] = s.components[last]
		s.index[s.entities[i]] = i
	}
	var zero C
	s.components[last] = zero
	s.entities = s.entities[:last]
	s.components = s.components[:last]
	delete(s.index, e)
}

// GetComponent returns a copy of the component of e
func (s *Store[C]) GetComponent(e core.Entity) (C, bool) {
	if i, ok := s.index[e]; ok {
		return s.components[i], true
	}
	var zero C
	return zero, false
}

// HasComponent checks if e has a component in this store
func (s *Store[C]) HasComponent(e core.Entity) bool {
	_, ok := s.index[e]
	return ok
}

// AllEntity returns a copy of the entities in slot order
func (s *Store[C]) AllEntity() []core.Entity {
	result := make([]core.Entity, len(s.entities))
	copy(result, s.entities)
	return result
}

// Each calls fn with every entity and a copy of its component in slot order
func (s *Store[C]) Each(fn func(e core.Entity, c C)) {
	for i, e := range s.entities {
		fn(e, s.components[i])
	}
}

// CountEntity returns the number of entities with this component
func (s *Store[C]) CountEntity() int {
	return len(s.entities)
}

// CountSystem returns the number of attached systems
func (s *Store[C]) CountSystem() int {
	return len(s.systems)
}

// AddSystem appends a system; systems run in registration order
func (s *Store[C]) AddSystem(sys System[C]) {
	if s.updating {
		s.pending = append(s.pending, func() { s.systems = append(s.systems, sys) })
		return
	}
	s.systems = append(s.systems, sys)
}

// ClearAllComponent removes every component, systems are kept
func (s *Store[C]) ClearAllComponent() {
	if s.updating {
		s.pending = append(s.pending, s.clearAllComponent)
		return
	}
	s.clearAllComponent()
}

func (s *Store[C]) clearAllComponent() {
	clear(s.components)
	s.entities = s.entities[:0]
	s.components = s.components[:0]
	clear(s.index)
}

// ClearSystems detaches every system, components are kept
func (s *Store[C]) ClearSystems() {
	if s.updating {
		s.pending = append(s.pending, func() { s.systems = nil })
		return
	}
	s.systems = nil
}

// ComponentType returns the reflected component type
func (s *Store[C]) ComponentType() reflect.Type {
	return reflect.TypeFor[C]()
}

// Update runs every system, in registration order, against every entity, in slot order
// The system list and entity set are fixed at entry; the first error aborts the update
func (s *Store[C]) Update(h *Handle) error {
	if s.updating {
		return eris.Errorf("store %s is already updating", s.ComponentType())
	}
	if len(s.systems) == 0 || len(s.entities) == 0 {
		return nil
	}

	s.updating = true
	defer func() {
		s.updating = false
		s.flush()
	}()

	systems := s.systems
	count := len(s.entities)
	for _, sys := range systems {
		for i := 0; i < count; i++ {
			if err := sys(h, s.entities[i], &s.components[i]); err != nil {
				return eris.Wrapf(err, "system on %s failed for entity %d", s.ComponentType(), s.entities[i])
			}
		}
	}
	return nil
}

// flush applies mutations queued during Update in issue order
func (s *Store[C]) flush() {
	for len(s.pending) > 0 {
		ops := s.pending
		s.pending = nil
		for _, op := range ops {
			op()
		}
	}
}
