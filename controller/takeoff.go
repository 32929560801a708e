package controller

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/mayfly/timer"
	"go.uber.org/zap"
)

type TakeoffPhase int

const (
	TakeoffInactive TakeoffPhase = iota
	TakeoffInProgress
)

func (p TakeoffPhase) String() string {
	if p == TakeoffInProgress {
		return "in_progress"
	}
	return "inactive"
}

// TakeoffState tracks a scripted takeoff. While InProgress the character is
// pinned to the guide path, anchored at the location it took off from.
type TakeoffState struct {
	Phase   TakeoffPhase
	Elapsed float64
	Anchor  mgl64.Vec3
	Timer   timer.Handle
}

func (s TakeoffState) Active() bool {
	return s.Phase == TakeoffInProgress
}

// Takeoff starts following the guide path. A takeoff already in progress is
// left alone. Without a guide path the character lunges instead.
func (c *CharacterController) Takeoff() {
	if c.takeoff.Active() {
		c.log.Debug("takeoff already in progress", zap.Float64("elapsed", c.takeoff.Elapsed))
		return
	}
	if c.path == nil {
		c.Lunge()
		return
	}

	c.takeoff = TakeoffState{
		Phase:  TakeoffInProgress,
		Anchor: c.body.Location(),
	}
	c.takeoff.Timer = c.timers.SetTimer(c.tuning.TakeoffDuration, c.TakeoffEnded)
	c.log.Debug("takeoff started", zap.Float64("duration", c.tuning.TakeoffDuration))
}

// TakeoffEnded releases the character from the guide path and launches it
// along the path's exit tangent.
func (c *CharacterController) TakeoffEnded() {
	if !c.takeoff.Active() {
		return
	}
	c.takeoff.Phase = TakeoffInactive
	c.takeoff.Elapsed = c.tuning.TakeoffDuration
	c.takeoff.Timer = 0

	length := c.path.Length()
	from := c.path.LocationAtDistance(takeoffExitFrom * length)
	to := c.path.LocationAtDistance(takeoffExitTo * length)
	exit := c.body.Rotation().RotateVector(to.Sub(from))

	if c.impulseAlong("takeoff", exit, c.tuning.LungeStrength) {
		c.log.Debug("takeoff ended")
	}
}

// CancelTakeoff drops a takeoff in progress without the exit impulse.
func (c *CharacterController) CancelTakeoff() bool {
	if !c.takeoff.Active() {
		return false
	}
	c.timers.Clear(c.takeoff.Timer)
	c.takeoff = TakeoffState{}
	return true
}

// tickTakeoff pins the body to the guide path. It reports whether a takeoff
// is in progress, in which case the rest of the frame update is skipped.
func (c *CharacterController) tickTakeoff() bool {
	if !c.takeoff.Active() {
		return false
	}
	if !c.timers.IsActive(c.takeoff.Timer) {
		// the timer was dropped without calling back
		c.takeoff.Phase = TakeoffInactive
		c.takeoff.Timer = 0
		return false
	}

	c.takeoff.Elapsed = c.timers.Elapsed(c.takeoff.Timer)
	progress := c.takeoff.Elapsed / c.tuning.TakeoffDuration
	local := c.path.LocationAtDistance(progress * c.path.Length())
	c.body.SetLocation(c.takeoff.Anchor.Add(c.body.Rotation().RotateVector(local)))
	return true
}
