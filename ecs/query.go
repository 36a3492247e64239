package ecs

import (
	"slices"

	"github.com/milk9111/gridchase/ecs/component"
)

// IntersectEntities returns entity ids present in both sets.
func IntersectEntities(a, b *SparseSet) []int {
	if a == nil || b == nil {
		return nil
	}
	if len(a.denseEntities) > len(b.denseEntities) {
		a, b = b, a
	}
	out := make([]int, 0, len(a.denseEntities))
	for _, id := range a.denseEntities {
		if b.Has(id) {
			out = append(out, id)
		}
	}
	return out
}

// Query returns the entities that carry every listed component, ordered by
// entity id.
func Query(w *World, ids ...component.ComponentID) []Entity {
	if w == nil || len(ids) == 0 {
		return nil
	}
	stores := make([]*SparseSet, 0, len(ids))
	for _, id := range ids {
		s := w.store(id, false)
		if s == nil {
			return nil
		}
		stores = append(stores, s)
	}

	if len(stores) == 1 {
		return w.handles(slices.Sorted(slices.Values(stores[0].Entities())))
	}
	matched := IntersectEntities(stores[0], stores[1])
	for _, s := range stores[2:] {
		matched = slices.DeleteFunc(matched, func(id int) bool { return !s.Has(id) })
	}
	slices.Sort(matched)
	return w.handles(matched)
}

func (w *World) handles(ids []int) []Entity {
	out := make([]Entity, 0, len(ids))
	for _, id := range ids {
		if e, ok := w.entities.handle(id); ok {
			out = append(out, e)
		}
	}
	return out
}
