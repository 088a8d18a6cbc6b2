package sim

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	worldUp  = r3.Vec{Y: 1}
	worldX   = r3.Vec{X: 1}
	localFwd = r3.Vec{Z: -1}
)

// NewTransform returns an unrotated transform at p.
func NewTransform(p r3.Vec) Transform {
	return Transform{Translation: p, Rotation: identity}
}

// Forward is the direction the transform looks along, its rotated -Z. A
// zero Rotation is treated as the identity.
func (t Transform) Forward() r3.Vec {
	if t.Rotation == (r3.Rotation{}) {
		return localFwd
	}
	return t.Rotation.Rotate(localFwd)
}

// YawPitch decomposes the rotation into yaw about world Y and pitch about
// the yawed X axis.
func (t Transform) YawPitch() (yaw, pitch float64) {
	return directionYawPitch(t.Forward())
}

// Yaw returns the rotation about world Y only.
func (t Transform) Yaw() float64 {
	yaw, _ := t.YawPitch()
	return yaw
}

// directionYawPitch returns the yaw and pitch that turn -Z onto dir. A
// vertical dir has no defined yaw and yields 0.
func directionYawPitch(dir r3.Vec) (yaw, pitch float64) {
	dir = r3.Unit(dir)
	pitch = math.Asin(max(-1, min(1, dir.Y)))
	if math.Abs(dir.X) < 1e-9 && math.Abs(dir.Z) < 1e-9 {
		return 0, pitch
	}
	return math.Atan2(-dir.X, -dir.Z), pitch
}

// yawRotation rotates by yaw about world Y.
func yawRotation(yaw float64) r3.Rotation {
	return r3.NewRotation(yaw, worldUp)
}

// yawPitchRotation applies pitch about local X first, then yaw about world Y.
func yawPitchRotation(yaw, pitch float64) r3.Rotation {
	return r3.Rotation(quat.Mul(
		quat.Number(yawRotation(yaw)),
		quat.Number(r3.NewRotation(pitch, worldX)),
	))
}

// lookTo returns the rotation whose forward is dir, with world Y as the up
// reference. A zero dir has no direction and yields the identity.
func lookTo(dir r3.Vec) r3.Rotation {
	if r3.Norm(dir) < 1e-9 {
		return identity
	}
	return yawPitchRotation(directionYawPitch(dir))
}
