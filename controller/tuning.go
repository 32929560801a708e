package controller

import (
	"errors"
	"fmt"
)

var ErrInvalidTuning = errors.New("controller: invalid tuning")

// Tuning holds the designer-facing constants of a character. A controller
// copies it on construction and never changes it.
type Tuning struct {
	// TurnSpeed is the base turn rate in degrees per second.
	TurnSpeed float64
	// TurnSpeedScaling multiplies TurnSpeed by how far off-target the facing is.
	TurnSpeedScaling float64
	LungeStrength    float64
	BackstepStrength float64
	// SpringArmVelocityFactor converts speed (cm/s) into extra boom length (cm).
	SpringArmVelocityFactor float64
	MaxVelocity             float64
	// TakeoffDuration is how long the character follows the guide path, in seconds.
	TakeoffDuration float64
}

func DefaultTuning() Tuning {
	return Tuning{
		TurnSpeed:               200,
		TurnSpeedScaling:        200,
		LungeStrength:           250000,
		BackstepStrength:        150000,
		SpringArmVelocityFactor: 0.2,
		MaxVelocity:             3000,
		TakeoffDuration:         0.6,
	}
}

func (t Tuning) Validate() error {
	checks := []struct {
		name string
		v    float64
		ok   bool
	}{
		{"turn_speed", t.TurnSpeed, t.TurnSpeed >= 0},
		{"turn_speed_scaling", t.TurnSpeedScaling, t.TurnSpeedScaling >= 0},
		{"lunge_strength", t.LungeStrength, t.LungeStrength >= 0},
		{"backstep_strength", t.BackstepStrength, t.BackstepStrength >= 0},
		{"spring_arm_velocity_factor", t.SpringArmVelocityFactor, t.SpringArmVelocityFactor >= 0},
		{"max_velocity", t.MaxVelocity, t.MaxVelocity > 0},
		{"takeoff_duration", t.TakeoffDuration, t.TakeoffDuration > 0},
	}
	for _, c := range checks {
		if !c.ok {
			return fmt.Errorf("%w: %s=%v", ErrInvalidTuning, c.name, c.v)
		}
	}
	return nil
}
