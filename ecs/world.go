package ecs

import "github.com/milk9111/gridchase/ecs/component"

// World owns entities, their components, the event queue and system order.
type World struct {
	entities  entityStore
	stores    map[component.ComponentID]*SparseSet
	events    EventQueue
	scheduler *Scheduler
	turn      int
}

// NewWorld creates an empty world.
func NewWorld() *World {
	return &World{
		stores:    make(map[component.ComponentID]*SparseSet),
		scheduler: NewScheduler(),
	}
}

// AddSystem appends a system to the update order.
func (w *World) AddSystem(s System) {
	if w == nil {
		return
	}
	w.scheduler.Add(s)
}

// Update runs every system once, advances the turn counter and drops any
// events nobody took.
func (w *World) Update() {
	if w == nil {
		return
	}
	w.turn++
	w.scheduler.Update(w)
	w.events.flush()
}

// Turn returns the number of the update in progress, or of the last finished
// one between updates. It starts at 0 before the first update.
func (w *World) Turn() int {
	if w == nil {
		return 0
	}
	return w.turn
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

func (w *World) store(id component.ComponentID, create bool) *SparseSet {
	s := w.stores[id]
	if s == nil && create {
		if w.stores == nil {
			w.stores = make(map[component.ComponentID]*SparseSet)
		}
		s = &SparseSet{}
		w.stores[id] = s
	}
	return s
}

// CreateEntity allocates a new entity.
func CreateEntity(w *World) Entity {
	return w.entities.create()
}

// DestroyEntity removes e and all of its components. It returns false when e
// was already dead.
func DestroyEntity(w *World, e Entity) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	id := int(e.id())
	for _, s := range w.stores {
		s.Remove(id)
	}
	return w.entities.destroy(e)
}

// IsAlive reports whether e is a live handle.
func IsAlive(w *World, e Entity) bool {
	return w != nil && w.entities.isAlive(e)
}

// Entities returns the live entities in id order.
func Entities(w *World) []Entity {
	if w == nil {
		return nil
	}
	return w.entities.live()
}
