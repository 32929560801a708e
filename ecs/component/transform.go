package component

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/mayfly/common"
)

// Transform places an entity in world space (cm, degrees).
type Transform struct {
	Location mgl64.Vec3
	Rotation common.Rotator
}

var TransformComponent = NewComponent[Transform]()
