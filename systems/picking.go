package systems

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/scenecore/components"
	"github.com/pthm-cable/scenecore/matrix"
	"github.com/pthm-cable/scenecore/store"
)

// NoHit is returned by Pick when the ray misses every entity.
const NoHit = -1

// SelectMode decides how a hit changes the selection.
type SelectMode uint8

const (
	SelectReplace  SelectMode = iota // Clear all, then select the hit
	SelectAdditive                   // Select the hit, keep others
	SelectToggle                     // Flip the hit only
)

// ModeFor maps the host's flag pair to a SelectMode. Toggle wins over additive.
func ModeFor(additive, toggle bool) SelectMode {
	switch {
	case toggle:
		return SelectToggle
	case additive:
		return SelectAdditive
	default:
		return SelectReplace
	}
}

// PickResult describes the nearest hit of a pick ray.
type PickResult struct {
	Entity   components.Entity
	Distance float32 // ray parameter of the hit
}

// PickingSystem resolves world rays against entity boxes.
type PickingSystem struct {
	store   *store.Store
	epsilon float32
}

// NewPickingSystem creates a new picking system.
func NewPickingSystem(s *store.Store, epsilon float32) *PickingSystem {
	return &PickingSystem{store: s, epsilon: epsilon}
}

// Cast finds the nearest entity hit by ray without touching the selection.
// Entities are scanned in ascending id order; a later hit replaces the
// current best only when strictly nearer.
func (p *PickingSystem) Cast(ray components.Ray) (PickResult, bool) {
	if !ray.Finite() || ray.Direction.Len() < p.epsilon {
		return PickResult{}, false
	}

	best := PickResult{}
	found := false
	p.store.Each(func(id components.Entity, _ *components.Slot, t *components.Transform) bool {
		if t == nil {
			return true
		}
		inv, ok := matrix.InverseModel(t.Position, t.Rotation[1], t.Scale)
		if !ok {
			return true
		}
		local := components.Ray{
			Origin:    matrix.TransformPoint(inv, ray.Origin),
			Direction: matrix.TransformDirection(inv, ray.Direction),
		}
		dist, hit := intersectUnitBox(local, parallelEpsilon(p.epsilon, t.Scale))
		if hit && (!found || dist < best.Distance) {
			best = PickResult{Entity: id, Distance: dist}
			found = true
		}
		return true
	})
	return best, found
}

// Pick casts ray and applies the selection policy to the hit entity.
// It returns the hit id, or NoHit with the selection left untouched.
func (p *PickingSystem) Pick(ray components.Ray, mode SelectMode) int {
	res, ok := p.Cast(ray)
	if !ok {
		return NoHit
	}

	if mode == SelectReplace {
		p.store.Each(func(_ components.Entity, slot *components.Slot, _ *components.Transform) bool {
			slot.Selected = false
			return true
		})
	}

	slot, err := p.store.Slot(res.Entity)
	if err != nil {
		return NoHit
	}
	if mode == SelectToggle {
		slot.Selected = !slot.Selected
	} else {
		slot.Selected = true
	}
	return int(res.Entity)
}

// IntersectUnitBox intersects a local-space ray with [-0.5, 0.5]^3 using the
// slab method. It returns the entry parameter, or the exit parameter when the
// origin is inside the box. An axis whose direction is below eps is treated
// as parallel: it passes only if the origin lies within that slab. Rays with
// a NaN or infinite component miss.
func IntersectUnitBox(ray components.Ray, eps float32) (float32, bool) {
	return intersectUnitBox(ray, mgl32.Vec3{eps, eps, eps})
}

// parallelEpsilon converts the world-space parallel threshold into local
// space. The inverse model divides each local direction axis by the scale on
// that axis, so the threshold shrinks by the same factor and a box's size
// never changes which world rays count as parallel.
func parallelEpsilon(eps float32, scale mgl32.Vec3) mgl32.Vec3 {
	var out mgl32.Vec3
	for axis := 0; axis < 3; axis++ {
		out[axis] = eps / abs(scale[axis])
	}
	return out
}

func intersectUnitBox(ray components.Ray, eps mgl32.Vec3) (float32, bool) {
	if !ray.Finite() {
		return 0, false
	}

	tMin := float32(-math.MaxFloat32)
	tMax := float32(math.MaxFloat32)
	constrained := false

	for axis := 0; axis < 3; axis++ {
		o := ray.Origin[axis]
		d := ray.Direction[axis]

		if abs(d) < eps[axis] {
			if o < -0.5 || o > 0.5 {
				return 0, false
			}
			continue
		}
		constrained = true

		t1 := (-0.5 - o) / d
		t2 := (0.5 - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tMin {
			tMin = t1
		}
		if t2 < tMax {
			tMax = t2
		}
		if tMin > tMax {
			return 0, false
		}
	}

	// Every axis parallel: the direction is effectively zero
	if !constrained || tMax < 0 {
		return 0, false
	}
	t := tMax
	if tMin >= 0 {
		t = tMin
	}
	if !components.FiniteFloat(t) {
		return 0, false
	}
	return t, true
}

// abs returns the absolute value of a float32.
func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
