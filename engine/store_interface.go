package engine

import (
	"reflect"

	"github.com/lixenwraith/simloop/core"
)

// AnyStore provides type-erased operations over a Store
// World keeps every store behind this interface so it can update and clear them uniformly
type AnyStore interface {
	// Update runs every system of the store against every entity it holds
	Update(h *Handle) error

	// RemoveComponent deletes the component of e, no-op when absent
	RemoveComponent(e core.Entity)

	// HasComponent checks if e has a component in this store
	HasComponent(e core.Entity) bool

	// CountEntity returns the number of entities with this component
	CountEntity() int

	// CountSystem returns the number of systems attached to this store
	CountSystem() int

	// ClearAllComponent removes all components, systems are kept
	ClearAllComponent()

	// ComponentType returns the reflected component type
	ComponentType() reflect.Type
}
