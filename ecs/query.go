package ecs

import "github.com/milk9111/mayfly/ecs/component"

// entitiesOf snapshots the live entities of a store so callbacks may add or
// remove components while iterating.
func entitiesOf(w *World, id component.ComponentID) []Entity {
	s := w.store(id, false)
	if s.Len() == 0 {
		return nil
	}
	out := make([]Entity, 0, s.Len())
	for _, e := range s.Entities() {
		if w.entities.isAlive(e) {
			out = append(out, e)
		}
	}
	return out
}

// ForEach calls fn for every entity with component a.
func ForEach[A any](w *World, a component.ComponentKind[A], fn func(Entity, *A)) {
	if w == nil || fn == nil {
		return
	}
	for _, e := range entitiesOf(w, a.ID()) {
		va, ok := Get(w, e, a)
		if !ok {
			continue
		}
		fn(e, va)
	}
}

// ForEach2 calls fn for every entity with components a and b.
func ForEach2[A, B any](w *World, a component.ComponentKind[A], b component.ComponentKind[B], fn func(Entity, *A, *B)) {
	if w == nil || fn == nil {
		return
	}
	for _, e := range entitiesOf(w, a.ID()) {
		va, ok := Get(w, e, a)
		if !ok {
			continue
		}
		vb, ok := Get(w, e, b)
		if !ok {
			continue
		}
		fn(e, va, vb)
	}
}

// ForEach3 calls fn for every entity with components a, b and c.
func ForEach3[A, B, C any](w *World, a component.ComponentKind[A], b component.ComponentKind[B], c component.ComponentKind[C], fn func(Entity, *A, *B, *C)) {
	if w == nil || fn == nil {
		return
	}
	for _, e := range entitiesOf(w, a.ID()) {
		va, ok := Get(w, e, a)
		if !ok {
			continue
		}
		vb, ok := Get(w, e, b)
		if !ok {
			continue
		}
		vc, ok := Get(w, e, c)
		if !ok {
			continue
		}
		fn(e, va, vb, vc)
	}
}
