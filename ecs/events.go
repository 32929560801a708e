package ecs

import "github.com/milk9111/mayfly/common"

// Event is a generic ECS event payload.
type Event struct {
	Type string
	Data any
}

const (
	EventLanded      = "landed"
	EventModeChanged = "mode_changed"
)

// LandedEvent is emitted when a falling body reaches walkable ground.
type LandedEvent struct {
	Entity Entity
	Hit    common.HitResult
}

// ModeChangedEvent is emitted when a body's movement mode changes.
type ModeChangedEvent struct {
	Entity Entity
	From   common.MovementMode
	To     common.MovementMode
}

// EventQueue is a simple FIFO queue cleared at the end of every frame.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Peek returns pending events without removing them.
func (q *EventQueue) Peek() []Event {
	if q == nil {
		return nil
	}
	return q.items
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.items = nil
}
