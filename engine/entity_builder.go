package engine

import "github.com/lixenwraith/simloop/core"

// EntityBuilder chains component attachment onto a freshly allocated entity
//
// Example:
//
//	ball := engine.With(engine.With(h.AddEntity(), Position{X: 10}), Velocity{DX: 1}).Build()
type EntityBuilder struct {
	world  *World
	entity core.Entity
}

// With attaches c to the builder's entity and returns the builder
// Components land in their stores immediately, Build only reports the id
func With[C any](eb *EntityBuilder, c C) *EntityBuilder {
	AddComponent(eb.world, eb.entity, c)
	return eb
}

// Build returns the entity id
func (eb *EntityBuilder) Build() core.Entity {
	return eb.entity
}
