// Package components defines ECS components for the scene engine.
package components

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Entity is the engine-facing entity identifier. It equals the entity's
// index in every per-entity table and is never reused.
type Entity uint32

// Transform places an entity in the world.
// Only Rotation.Y is used (yaw-style spin); X and Z are carried for layout.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Vec3
	Scale    mgl32.Vec3
}

// Velocity is an entity's linear velocity in world units per second.
type Velocity struct {
	Linear mgl32.Vec3
}

// Slot is present on every entity and holds its selection and drag state.
type Slot struct {
	ID         Entity
	Selected   bool
	Dragging   bool
	DragOffset mgl32.Vec3 // entity position minus plane hit point at drag start
}

// Ray is a world-space ray. Direction need not be normalized.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// NewRay builds a ray from six scalars, the form hosts pass across the boundary.
func NewRay(ox, oy, oz, dx, dy, dz float32) Ray {
	return Ray{
		Origin:    mgl32.Vec3{ox, oy, oz},
		Direction: mgl32.Vec3{dx, dy, dz},
	}
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Finite reports whether every origin and direction component is a finite
// number.
func (r Ray) Finite() bool {
	return FiniteVec3(r.Origin) && FiniteVec3(r.Direction)
}

// FiniteVec3 reports whether no component of v is NaN or infinite.
func FiniteVec3(v mgl32.Vec3) bool {
	for _, c := range v {
		if !FiniteFloat(c) {
			return false
		}
	}
	return true
}

// FiniteFloat reports whether x is neither NaN nor infinite.
func FiniteFloat(x float32) bool {
	f := float64(x)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
