// package common contains common helpers that are used throughout this engine. They are not interface-wrapped structs,
// just plain functions and constants over the mgl32 math types.
//
// The engine uses a right-handed, Y-up coordinate system where local forward is -Z and local right is +X.
package common

import (
	"github.com/go-gl/mathgl/mgl32"
)

var (
	// AxisX is the world/local right axis.
	AxisX = mgl32.Vec3{1, 0, 0}
	// AxisY is the world/local up axis.
	AxisY = mgl32.Vec3{0, 1, 0}
	// AxisZ is the world/local backward axis (forward is -Z).
	AxisZ = mgl32.Vec3{0, 0, 1}
)

// YawRotation builds the rotation for a horizontal heading in degrees.
// Positive yaw turns to the right (clockwise seen from above), so the rotation is applied around +Y with
// the angle negated.
//
// Parameters:
//   - degrees: yaw angle in degrees (unbounded)
//
// Returns:
//   - mgl32.Quat: rotation around the Y axis
func YawRotation(degrees float32) mgl32.Quat {
	return mgl32.QuatRotate(-mgl32.DegToRad(degrees), AxisY)
}

// PitchRotation builds the rotation for a vertical look angle in degrees.
// Positive pitch looks down, negative pitch looks up.
//
// Parameters:
//   - degrees: pitch angle in degrees
//
// Returns:
//   - mgl32.Quat: rotation around the X axis
func PitchRotation(degrees float32) mgl32.Quat {
	return mgl32.QuatRotate(-mgl32.DegToRad(degrees), AxisX)
}

// LocalPlanar maps a 2D input vector onto the local horizontal plane.
// Input x becomes local right (+X) and input y becomes local forward (-Z). Vectors longer than one
// (keyboard diagonals) are normalized; shorter ones (analog sticks, zero) are kept as they are.
//
// Parameters:
//   - v: the input vector
//
// Returns:
//   - mgl32.Vec3: the local-space direction, with length at most 1
func LocalPlanar(v mgl32.Vec2) mgl32.Vec3 {
	local := mgl32.Vec3{v.X(), 0, -v.Y()}
	if l := local.Len(); l > 1 {
		local = local.Mul(1 / l)
	}
	return local
}
