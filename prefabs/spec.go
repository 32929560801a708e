package prefabs

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/mayfly/common"
	"github.com/milk9111/mayfly/controller"
	"gopkg.in/yaml.v3"
)

const (
	CharacterSpecFile = "character.yaml"
	CameraSpecFile    = "camera.yaml"
	LevelSpecFile     = "level.yaml"
)

func LoadSpec[T any](filename string) (T, error) {
	var spec T
	if err := decodeInto(filename, &spec); err != nil {
		var zero T
		return zero, err
	}
	return spec, nil
}

// decodeInto unmarshals over out, keeping any field the file leaves out.
func decodeInto(filename string, out any) error {
	data, err := Load(filename)
	if err != nil {
		return fmt.Errorf("prefabs: load %s: %w", filename, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}
	return nil
}

type TransformSpec struct {
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Z     float64 `yaml:"z"`
	Pitch float64 `yaml:"pitch"`
	Yaw   float64 `yaml:"yaw"`
	Roll  float64 `yaml:"roll"`
}

func (t TransformSpec) Location() mgl64.Vec3 {
	return mgl64.Vec3{t.X, t.Y, t.Z}
}

func (t TransformSpec) Rotation() common.Rotator {
	return common.Rotator{Pitch: t.Pitch, Yaw: t.Yaw, Roll: t.Roll}
}

type BodySpec struct {
	Mode            string  `yaml:"mode"`
	Mass            float64 `yaml:"mass"`
	Radius          float64 `yaml:"radius"`
	HalfHeight      float64 `yaml:"half_height"`
	MaxWalkSpeed    float64 `yaml:"max_walk_speed"`
	MaxFlySpeed     float64 `yaml:"max_fly_speed"`
	MaxAcceleration float64 `yaml:"max_acceleration"`
	BrakingWalking  float64 `yaml:"braking_walking"`
	BrakingFlying   float64 `yaml:"braking_flying"`
	JumpZVelocity   float64 `yaml:"jump_z_velocity"`
	AirControl      float64 `yaml:"air_control"`
}

// MovementMode parses Mode; an empty mode starts the body walking.
func (b BodySpec) MovementMode() (common.MovementMode, error) {
	switch b.Mode {
	case "", "walking":
		return common.MovementWalking, nil
	case "falling":
		return common.MovementFalling, nil
	case "flying":
		return common.MovementFlying, nil
	case "swimming":
		return common.MovementSwimming, nil
	case "custom":
		return common.MovementCustom, nil
	case "none":
		return common.MovementNone, nil
	}
	return common.MovementNone, fmt.Errorf("prefabs: unknown movement mode %q", b.Mode)
}

type TuningSpec struct {
	LungeStrength    float64 `yaml:"lunge_strength"`
	BackstepStrength float64 `yaml:"backstep_strength"`
	TurnSpeed        float64 `yaml:"turn_speed"`
	TurnSpeedScaling float64 `yaml:"turn_speed_scaling"`
	SpringArmFactor  float64 `yaml:"spring_arm_velocity_factor"`
	MaxVelocity      float64 `yaml:"max_velocity"`
	TakeoffDuration  float64 `yaml:"takeoff_duration"`
}

func tuningSpecFrom(t controller.Tuning) TuningSpec {
	return TuningSpec{
		LungeStrength:    t.LungeStrength,
		BackstepStrength: t.BackstepStrength,
		TurnSpeed:        t.TurnSpeed,
		TurnSpeedScaling: t.TurnSpeedScaling,
		SpringArmFactor:  t.SpringArmVelocityFactor,
		MaxVelocity:      t.MaxVelocity,
		TakeoffDuration:  t.TakeoffDuration,
	}
}

func (t TuningSpec) Tuning() controller.Tuning {
	return controller.Tuning{
		LungeStrength:           t.LungeStrength,
		BackstepStrength:        t.BackstepStrength,
		TurnSpeed:               t.TurnSpeed,
		TurnSpeedScaling:        t.TurnSpeedScaling,
		SpringArmVelocityFactor: t.SpringArmFactor,
		MaxVelocity:             t.MaxVelocity,
		TakeoffDuration:         t.TakeoffDuration,
	}
}

// PathSpec describes the takeoff curve either as literal control points or
// as a script that produces them.
type PathSpec struct {
	Points [][3]float64       `yaml:"points"`
	Script string             `yaml:"script"`
	Params map[string]float64 `yaml:"params"`
}

type CharacterSpec struct {
	Name        string        `yaml:"name"`
	Transform   TransformSpec `yaml:"transform"`
	Body        BodySpec      `yaml:"body"`
	Tuning      TuningSpec    `yaml:"tuning"`
	TakeoffPath *PathSpec     `yaml:"takeoff_path"`
}

// LoadCharacterSpec reads a character prefab. Tuning values the file leaves
// out keep their defaults.
func LoadCharacterSpec(filename string) (*CharacterSpec, error) {
	spec := CharacterSpec{Tuning: tuningSpecFrom(controller.DefaultTuning())}
	if err := decodeInto(filename, &spec); err != nil {
		return nil, err
	}
	if err := spec.Tuning.Tuning().Validate(); err != nil {
		return nil, fmt.Errorf("prefabs: %s: %w", filename, err)
	}
	if _, err := spec.Body.MovementMode(); err != nil {
		return nil, fmt.Errorf("prefabs: %s: %w", filename, err)
	}
	return &spec, nil
}

type CameraSpec struct {
	Name       string  `yaml:"name"`
	Zoom       float64 `yaml:"zoom"`
	Smoothness float64 `yaml:"smoothness"`
}

func LoadCameraSpec(filename string) (*CameraSpec, error) {
	spec, err := LoadSpec[CameraSpec](filename)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type ObstacleSpec struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Depth  float64 `yaml:"depth"`
	Height float64 `yaml:"height"`
}

type LevelSpec struct {
	Name      string         `yaml:"name"`
	Obstacles []ObstacleSpec `yaml:"obstacles"`
}

func LoadLevelSpec(filename string) (*LevelSpec, error) {
	spec, err := LoadSpec[LevelSpec](filename)
	if err != nil {
		return nil, err
	}
	for i, o := range spec.Obstacles {
		if o.Width <= 0 || o.Depth <= 0 {
			return nil, fmt.Errorf("prefabs: %s: obstacle %d needs a positive width and depth", filename, i)
		}
	}
	return &spec, nil
}
