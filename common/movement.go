package common

import "github.com/go-gl/mathgl/mgl64"

// MovementMode selects the gravity and friction rules a body moves under.
type MovementMode int

const (
	MovementNone MovementMode = iota
	MovementWalking
	MovementFalling
	MovementFlying
	MovementSwimming
	MovementCustom
)

func (m MovementMode) String() string {
	switch m {
	case MovementWalking:
		return "walking"
	case MovementFalling:
		return "falling"
	case MovementFlying:
		return "flying"
	case MovementSwimming:
		return "swimming"
	case MovementCustom:
		return "custom"
	default:
		return "none"
	}
}

// Grounded reports whether the mode keeps the body on a walkable surface.
func (m MovementMode) Grounded() bool {
	return m == MovementWalking
}

// HitResult describes a blocking contact.
type HitResult struct {
	Location mgl64.Vec3
	Normal   mgl64.Vec3
}
