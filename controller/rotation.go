package controller

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/mayfly/common"
)

// interpNormalRotationTo turns the unit vector current toward target along
// the great circle between them by at most speedDeg*dt degrees. It returns
// target once the step covers the remaining angle.
func interpNormalRotationTo(current, target mgl64.Vec3, dt, speedDeg float64) mgl64.Vec3 {
	cur, ok := common.SafeNormal(current)
	if !ok {
		return target
	}
	tgt, ok := common.SafeNormal(target)
	if !ok {
		return current
	}

	angle := math.Acos(mgl64.Clamp(cur.Dot(tgt), -1, 1))
	step := mgl64.DegToRad(speedDeg) * math.Max(dt, 0)
	if angle <= step {
		return target
	}

	axis := cur.Cross(tgt)
	if l := axis.Len(); l > 1e-12 {
		axis = axis.Mul(1 / l)
	} else if cur.Dot(tgt) > 0 {
		return target
	} else {
		// opposite directions: any perpendicular axis is a shortest path
		axis = perpendicular(cur)
	}
	return mgl64.QuatRotate(step, axis).Rotate(cur)
}

func perpendicular(v mgl64.Vec3) mgl64.Vec3 {
	other := common.AxisZ
	if math.Abs(v.Z()) > 0.9 {
		other = common.AxisY
	}
	n, _ := common.SafeNormal(v.Cross(other))
	return n
}
