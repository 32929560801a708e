package ecs

import (
	"github.com/milk9111/mayfly/ecs/component"
	"github.com/milk9111/mayfly/timer"
)

// DefaultDeltaSeconds is the frame length used until SetDeltaSeconds is called.
const DefaultDeltaSeconds = 1.0 / 60.0

// World owns entities, their components, and the per-frame services systems
// share: the frame clock, timers and the event queue.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]*SparseSet
	events   EventQueue
	timers   *timer.Manager

	dt    float64
	frame uint64
}

// NewWorld creates an empty world.
func NewWorld() *World {
	return &World{
		stores: make(map[component.ComponentID]*SparseSet),
		timers: timer.NewManager(),
		dt:     DefaultDeltaSeconds,
	}
}

// CreateEntity allocates a new entity.
func CreateEntity(w *World) Entity {
	if w == nil {
		return 0
	}
	return w.entities.create()
}

// DestroyEntity removes e and all of its components.
func DestroyEntity(w *World, e Entity) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	for _, s := range w.stores {
		s.removeSlot(e)
	}
	return w.entities.destroy(e)
}

// IsAlive reports whether e refers to a live entity.
func IsAlive(w *World, e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

// Entities returns every live entity in slot order.
func Entities(w *World) []Entity {
	if w == nil {
		return nil
	}
	return w.entities.entities()
}

func (w *World) store(id component.ComponentID, create bool) *SparseSet {
	s, ok := w.stores[id]
	if !ok && create {
		if w.stores == nil {
			w.stores = make(map[component.ComponentID]*SparseSet)
		}
		s = &SparseSet{}
		w.stores[id] = s
	}
	return s
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

// Timers returns the timer service advanced by the timer system.
func (w *World) Timers() *timer.Manager {
	if w == nil {
		return nil
	}
	return w.timers
}

// DeltaSeconds returns the simulation time covered by the current frame.
func (w *World) DeltaSeconds() float64 {
	if w == nil {
		return 0
	}
	return w.dt
}

// SetDeltaSeconds sets the frame length; negative values are treated as zero.
func (w *World) SetDeltaSeconds(dt float64) {
	if w == nil {
		return
	}
	if dt < 0 {
		dt = 0
	}
	w.dt = dt
}

// Frame returns the number of completed frames.
func (w *World) Frame() uint64 {
	if w == nil {
		return 0
	}
	return w.frame
}

// EndFrame drops undrained events and advances the frame counter.
func (w *World) EndFrame() {
	if w == nil {
		return
	}
	w.events.flush()
	w.frame++
}
