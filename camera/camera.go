// Package camera provides the orbit camera used by the scene view.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/scenecore/matrix"
)

// Limits bounds the orbit parameters.
type Limits struct {
	MinPitch, MaxPitch       float32
	MinDistance, MaxDistance float32

	// DistanceFloor keeps the back-solve finite when the eye sits on the target.
	DistanceFloor float32

	// Fallback replaces a lens passed to New that cannot produce a finite
	// projection. A zero Fallback means DefaultLens.
	Fallback Lens
}

// Lens holds the perspective projection parameters.
type Lens struct {
	FOV    float32 // vertical, radians
	Aspect float32
	Near   float32
	Far    float32
}

// DefaultLens is used when neither the requested lens nor Limits.Fallback is
// valid.
var DefaultLens = Lens{FOV: 1, Aspect: 1, Near: 0.1, Far: 100}

// Valid reports whether the lens yields a finite perspective matrix:
// 0 < FOV < pi, Aspect > 0 and 0 < Near < Far, all finite.
func (l Lens) Valid() bool {
	for _, v := range []float32{l.FOV, l.Aspect, l.Near, l.Far} {
		if !finite(v) {
			return false
		}
	}
	return l.FOV > 0 && l.FOV < math.Pi &&
		l.Aspect > 0 &&
		l.Near > 0 && l.Far > l.Near
}

// Orbit is a camera that circles a target point.
// The eye position is derived from the orbit parameters and never stored.
type Orbit struct {
	Target   mgl32.Vec3
	Yaw      float32 // radians around +Y, 0 looks down -Z from +Z
	Pitch    float32 // radians above the XZ plane
	Distance float32

	FOV       float32 // vertical, radians
	Aspect    float32
	Near, Far float32

	limits Limits
}

// New creates an orbit camera whose initial view matches a plain look-at
// camera at eye aimed at the origin.
//
// The target is always the origin here; an off-origin focal point cannot be
// expressed at creation time and must be set afterwards with Focus or Pan.
// An invalid lens is replaced whole by limits.Fallback (or DefaultLens), and
// a non-finite eye is treated as sitting on the target.
func New(eye mgl32.Vec3, fov, aspect, near, far float32, limits Limits) *Orbit {
	lens := Lens{FOV: fov, Aspect: aspect, Near: near, Far: far}
	if !lens.Valid() {
		lens = limits.Fallback
		if !lens.Valid() {
			lens = DefaultLens
		}
	}

	c := &Orbit{
		FOV:    lens.FOV,
		Aspect: lens.Aspect,
		Near:   lens.Near,
		Far:    lens.Far,
		limits: limits,
	}

	if !finite(eye[0]) || !finite(eye[1]) || !finite(eye[2]) {
		eye = c.Target
	}
	offset := eye.Sub(c.Target)
	dist := offset.Len()
	if dist < limits.DistanceFloor {
		dist = limits.DistanceFloor
	}

	c.Yaw = float32(math.Atan2(float64(offset[0]), float64(offset[2])))
	c.Pitch = float32(math.Asin(float64(clamp(offset[1]/dist, -1, 1))))
	c.Distance = dist
	c.clampAll()
	return c
}

// Limits returns the camera's clamp ranges.
func (c *Orbit) Limits() Limits {
	return c.limits
}

// Eye returns the derived eye position:
// target + distance * (sin(yaw)cos(pitch), sin(pitch), cos(yaw)cos(pitch)).
func (c *Orbit) Eye() mgl32.Vec3 {
	sy, cy := math.Sincos(float64(c.Yaw))
	sp, cp := math.Sincos(float64(c.Pitch))
	dir := mgl32.Vec3{float32(sy * cp), float32(sp), float32(cy * cp)}
	return c.Target.Add(dir.Mul(c.Distance))
}

// Orbit rotates around the target, clamping pitch.
func (c *Orbit) Orbit(dYaw, dPitch float32) {
	c.Yaw += dYaw
	c.Pitch = clamp(c.Pitch+dPitch, c.limits.MinPitch, c.limits.MaxPitch)
}

// Zoom moves toward (negative) or away from (positive) the target, clamped.
func (c *Orbit) Zoom(dDistance float32) {
	c.Distance = clamp(c.Distance+dDistance, c.limits.MinDistance, c.limits.MaxDistance)
}

// Pan shifts the target in the world X/Y plane.
func (c *Orbit) Pan(dx, dy float32) {
	c.Target[0] += dx
	c.Target[1] += dy
}

// Focus moves the target, keeping yaw, pitch and distance.
func (c *Orbit) Focus(target mgl32.Vec3) {
	c.Target = target
}

// SetAspect updates the projection aspect ratio after a viewport resize.
func (c *Orbit) SetAspect(aspect float32) {
	if aspect > 0 && finite(aspect) {
		c.Aspect = aspect
	}
}

// View returns the look-at matrix for the derived eye.
func (c *Orbit) View() mgl32.Mat4 {
	return matrix.View(c.Eye(), c.Target)
}

// Projection returns the perspective matrix.
func (c *Orbit) Projection() mgl32.Mat4 {
	return matrix.Perspective(c.FOV, c.Aspect, c.Near, c.Far)
}

// ViewProjection returns Projection * View.
func (c *Orbit) ViewProjection() mgl32.Mat4 {
	return matrix.Mul(c.Projection(), c.View())
}

func (c *Orbit) clampAll() {
	c.Pitch = clamp(c.Pitch, c.limits.MinPitch, c.limits.MaxPitch)
	c.Distance = clamp(c.Distance, c.limits.MinDistance, c.limits.MaxDistance)
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}

func finite(x float32) bool {
	f := float64(x)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
