package component

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/mayfly/common"
)

// Camera trails the player at the end of its spring arm.
type Camera struct {
	Pivot     mgl64.Vec3
	Location  mgl64.Vec3
	Rotation  common.Rotator
	ArmLength float64

	// Zoom is screen pixels per world centimetre in the top-down view.
	Zoom       float64
	Smoothness float64
}

var CameraComponent = NewComponent[Camera]()
