package engine

import (
	"reflect"

	"github.com/rotisserie/eris"

	"github.com/lixenwraith/simloop/core"
)

// World owns every entity and component store of the simulation
// Only the simulation goroutine touches a World
type World struct {
	nextEntityID core.Entity
	entities     []core.Entity

	// Stores keyed by component type; order preserves first-registration order for updates
	stores map[reflect.Type]AnyStore
	order  []AnyStore

	// Draw commands issued during the current tick
	draw []core.DrawCommand
}

// NewWorld creates an empty world
func NewWorld() *World {
	return &World{
		stores: make(map[reflect.Type]AnyStore),
	}
}

// Accessor is implemented by *World and *Handle so the generic component functions accept either
type Accessor interface {
	world() *World
}

func (w *World) world() *World { return w }

// CreateEntity allocates the next entity id, starting at 0; ids are never reused
func (w *World) CreateEntity() core.Entity {
	id := w.nextEntityID
	w.nextEntityID++
	w.entities = append(w.entities, id)
	return id
}

// NewEntity allocates an entity and returns a builder for attaching components
func (w *World) NewEntity() *EntityBuilder {
	return &EntityBuilder{world: w, entity: w.CreateEntity()}
}

// Entities returns a copy of every allocated entity in allocation order
func (w *World) Entities() []core.Entity {
	result := make([]core.Entity, len(w.entities))
	copy(result, w.entities)
	return result
}

// CountEntity returns the number of allocated entities
func (w *World) CountEntity() int {
	return len(w.entities)
}

// DestroyEntity removes every component of e, the id stays allocated
func (w *World) DestroyEntity(e core.Entity) {
	for _, s := range w.order {
		s.RemoveComponent(e)
	}
}

// ComponentTypes returns the registered component types in update order
func (w *World) ComponentTypes() []reflect.Type {
	result := make([]reflect.Type, len(w.order))
	for i, s := range w.order {
		result[i] = s.ComponentType()
	}
	return result
}

// Update runs every store once, in registration order
// Stores registered during the pass are first visited on the next call
func (w *World) Update(h *Handle) error {
	stores := w.order
	base := h.logger
	defer func() { h.logger = base }()

	for _, s := range stores {
		if s.CountSystem() == 0 {
			continue
		}
		h.logger = base.With().Str("component", s.ComponentType().String()).Logger()
		if err := s.Update(h); err != nil {
			return err
		}
	}
	return nil
}

// TakeDrawCommands returns the commands issued since the previous call and starts a new list
func (w *World) TakeDrawCommands() []core.DrawCommand {
	batch := w.draw
	w.draw = nil
	return batch
}

func (w *World) pushDraw(cmd core.DrawCommand) {
	w.draw = append(w.draw, cmd)
}

func (w *World) registerStore(t reflect.Type, s AnyStore) {
	w.stores[t] = s
	w.order = append(w.order, s)
}

// ===== GENERIC ACCESS =====

// GetStore returns the store for C, creating and registering it on first use
func GetStore[C any](a Accessor) *Store[C] {
	w := a.world()
	t := reflect.TypeFor[C]()
	if s, ok := w.stores[t]; ok {
		typed, ok := s.(*Store[C])
		if !ok {
			panic(eris.Wrapf(ErrStoreTypeMismatch, "key %s holds %T", t, s))
		}
		return typed
	}
	s := NewStore[C]()
	w.registerStore(t, s)
	return s
}

// LookupStore returns the store for C without creating it
func LookupStore[C any](a Accessor) (*Store[C], error) {
	w := a.world()
	t := reflect.TypeFor[C]()
	s, ok := w.stores[t]
	if !ok {
		return nil, eris.Wrapf(ErrTypeNotRegistered, "%s", t)
	}
	typed, ok := s.(*Store[C])
	if !ok {
		return nil, eris.Wrapf(ErrStoreTypeMismatch, "key %s holds %T", t, s)
	}
	return typed, nil
}

// Register creates the store for C if it does not exist yet
func Register[C any](a Accessor) {
	GetStore[C](a)
}

// AddComponent attaches c to e, replacing an existing component of the same type
func AddComponent[C any](a Accessor, e core.Entity, c C) {
	GetStore[C](a).AddComponent(e, c)
}

// AddSystem attaches sys to the store of C
func AddSystem[C any](a Accessor, sys System[C]) {
	GetStore[C](a).AddSystem(sys)
}

// RemoveComponent detaches the C component of e, no-op when the type or component is absent
func RemoveComponent[C any](a Accessor, e core.Entity) {
	if s, err := LookupStore[C](a); err == nil {
		s.RemoveComponent(e)
	}
}

// ClearComponents removes every C component, no-op when the type is unregistered
func ClearComponents[C any](a Accessor) {
	if s, err := LookupStore[C](a); err == nil {
		s.ClearAllComponent()
	}
}

// ClearSystems detaches every system of C, no-op when the type is unregistered
func ClearSystems[C any](a Accessor) {
	if s, err := LookupStore[C](a); err == nil {
		s.ClearSystems()
	}
}

// GetComponent returns a copy of the C component of e
func GetComponent[C any](a Accessor, e core.Entity) (C, error) {
	var zero C
	s, err := LookupStore[C](a)
	if err != nil {
		return zero, err
	}
	c, ok := s.GetComponent(e)
	if !ok {
		return zero, eris.Wrapf(ErrComponentNotFound, "%s on entity %d", reflect.TypeFor[C](), e)
	}
	return c, nil
}

// HasComponent checks if e has a C component
func HasComponent[C any](a Accessor, e core.Entity) bool {
	s, err := LookupStore[C](a)
	return err == nil && s.HasComponent(e)
}

// CountComponents returns the number of C components, zero when the type is unregistered
func CountComponents[C any](a Accessor) int {
	s, err := LookupStore[C](a)
	if err != nil {
		return 0
	}
	return s.CountEntity()
}

// Query returns the entities holding a C component
func Query[C any](a Accessor) []core.Entity {
	s, err := LookupStore[C](a)
	if err != nil {
		return nil
	}
	return s.AllEntity()
}
