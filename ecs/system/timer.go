package system

import "github.com/milk9111/mayfly/ecs"

// TimerSystem advances the world timers by the frame's delta, firing any
// callbacks that come due.
type TimerSystem struct{}

func NewTimerSystem() *TimerSystem {
	return &TimerSystem{}
}

func (s *TimerSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	w.Timers().Advance(w.DeltaSeconds())
}
