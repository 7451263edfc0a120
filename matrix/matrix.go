// Package matrix builds the column-major 4x4 matrices used for rendering and picking.
//
// All matrices follow the column-vector convention: Mul(a, b) transforms by b
// first, then a. Element (row r, column c) lives at index c*4+r.
package matrix

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Up is the fixed world up vector used by view construction.
var Up = mgl32.Vec3{0, 1, 0}

// Perspective returns a symmetric-frustum projection from vertical fov (radians).
// Depth maps with z' = (far+near)/(near-far) and w' = -z.
func Perspective(fovy, aspect, near, far float32) mgl32.Mat4 {
	return mgl32.Perspective(fovy, aspect, near, far)
}

// View returns a look-at view matrix from eye toward target with world up.
// forward = normalize(target-eye), right = normalize(forward x up), up' = right x forward.
func View(eye, target mgl32.Vec3) mgl32.Mat4 {
	return mgl32.LookAtV(eye, target, Up)
}

// Mul returns a*b.
func Mul(a, b mgl32.Mat4) mgl32.Mat4 {
	return a.Mul4(b)
}

// Model composes scale, a Y-axis rotation and translation (T * Ry * S).
func Model(position mgl32.Vec3, yaw float32, scale mgl32.Vec3) mgl32.Mat4 {
	s, c := sincos(yaw)
	return mgl32.Mat4{
		c * scale[0], 0, -s * scale[0], 0,
		0, scale[1], 0, 0,
		s * scale[2], 0, c * scale[2], 0,
		position[0], position[1], position[2], 1,
	}
}

// InverseModel returns the inverse of Model in closed form (S^-1 * Ry^T * T^-1).
// ok is false when any scale component is zero and the model is singular.
func InverseModel(position mgl32.Vec3, yaw float32, scale mgl32.Vec3) (inv mgl32.Mat4, ok bool) {
	if scale[0] == 0 || scale[1] == 0 || scale[2] == 0 {
		return mgl32.Mat4{}, false
	}
	s, c := sincos(yaw)
	ix, iy, iz := 1/scale[0], 1/scale[1], 1/scale[2]
	px, py, pz := position[0], position[1], position[2]

	return mgl32.Mat4{
		c * ix, 0, s * iz, 0,
		0, iy, 0, 0,
		-s * ix, 0, c * iz, 0,
		-(c*px - s*pz) * ix, -py * iy, -(s*px + c*pz) * iz, 1,
	}, true
}

// TransformPoint applies m to a point (w = 1).
func TransformPoint(m mgl32.Mat4, p mgl32.Vec3) mgl32.Vec3 {
	return m.Mul4x1(p.Vec4(1)).Vec3()
}

// TransformDirection applies m to a direction (w = 0).
func TransformDirection(m mgl32.Mat4, d mgl32.Vec3) mgl32.Vec3 {
	return m.Mul4x1(d.Vec4(0)).Vec3()
}

func sincos(a float32) (s, c float32) {
	sf, cf := math.Sincos(float64(a))
	return float32(sf), float32(cf)
}
