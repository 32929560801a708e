package ecs

import (
	"fmt"

	"github.com/milk9111/mayfly/ecs/component"
)

// Add attaches value to e, replacing any existing component of the same kind.
func Add[T any](w *World, e Entity, kind component.ComponentKind[T], value *T) error {
	if w == nil || !w.entities.isAlive(e) {
		return fmt.Errorf("%w: %s", component.ErrEntityNotAlive, e)
	}
	if !kind.Valid() {
		return component.ErrInvalidComponentKind
	}
	if value == nil {
		return component.ErrNilComponent
	}
	w.store(kind.ID(), true).Set(e, value)
	return nil
}

// Get returns e's component of the given kind.
func Get[T any](w *World, e Entity, kind component.ComponentKind[T]) (*T, bool) {
	if w == nil || !w.entities.isAlive(e) {
		return nil, false
	}
	v, ok := w.store(kind.ID(), false).Get(e).(*T)
	return v, ok
}

// Has reports whether e has a component of the given kind.
func Has[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	return w.store(kind.ID(), false).Has(e)
}

// Remove detaches e's component of the given kind.
func Remove[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	if w == nil {
		return false
	}
	return w.store(kind.ID(), false).Remove(e)
}

// First returns any live entity that has the given kind.
func First[T any](w *World, kind component.ComponentKind[T]) (Entity, bool) {
	if w == nil {
		return 0, false
	}
	for _, e := range w.store(kind.ID(), false).Entities() {
		if w.entities.isAlive(e) {
			return e, true
		}
	}
	return 0, false
}
