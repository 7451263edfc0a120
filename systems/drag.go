package systems

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/scenecore/components"
	"github.com/pthm-cable/scenecore/store"
)

// DragSystem moves dragging entities along a horizontal plane under a ray.
//
// The state machine is implicit in the slots: Idle when no slot is dragging,
// Dragging otherwise. The current ray is shared by all dragging entities and
// is updated independently of Begin/End.
type DragSystem struct {
	store   *store.Store
	planeY  float32
	epsilon float32

	ray    components.Ray
	hasRay bool
}

// NewDragSystem creates a drag system anchored to the plane y = planeY.
func NewDragSystem(s *store.Store, planeY, epsilon float32) *DragSystem {
	return &DragSystem{store: s, planeY: planeY, epsilon: epsilon}
}

// Begin starts dragging every selected entity that has a transform, recording
// each one's offset from the plane hit point. It returns the number of
// entities that entered the drag; zero when the ray misses the plane.
func (d *DragSystem) Begin(ray components.Ray) int {
	hit, ok := IntersectPlane(ray, d.planeY, d.epsilon)
	if !ok {
		return 0
	}

	n := 0
	d.store.Each(func(_ components.Entity, slot *components.Slot, t *components.Transform) bool {
		if !slot.Selected || t == nil {
			return true
		}
		slot.Dragging = true
		slot.DragOffset = t.Position.Sub(hit)
		n++
		return true
	})

	d.ray = ray
	d.hasRay = true
	return n
}

// UpdateRay records the latest pointer ray. It is applied on the next Update.
func (d *DragSystem) UpdateRay(ray components.Ray) {
	d.ray = ray
	d.hasRay = true
}

// End clears every dragging flag and discards the current ray.
// It returns the number of entities that were dragging.
func (d *DragSystem) End() int {
	n := 0
	d.store.Each(func(_ components.Entity, slot *components.Slot, _ *components.Transform) bool {
		if slot.Dragging {
			n++
		}
		slot.Dragging = false
		return true
	})
	d.ray = components.Ray{}
	d.hasRay = false
	return n
}

// Active reports whether any entity is dragging.
func (d *DragSystem) Active() bool {
	active := false
	d.store.Each(func(_ components.Entity, slot *components.Slot, _ *components.Transform) bool {
		active = slot.Dragging
		return !active
	})
	return active
}

// Ray returns the current drag ray, if one is held.
func (d *DragSystem) Ray() (components.Ray, bool) {
	return d.ray, d.hasRay
}

// Update places every dragging entity at the current ray's plane hit plus its
// stored offset. Frames where the ray misses the plane leave positions as is.
func (d *DragSystem) Update() {
	if !d.hasRay {
		return
	}
	hit, ok := IntersectPlane(d.ray, d.planeY, d.epsilon)
	if !ok {
		return
	}

	d.store.Each(func(_ components.Entity, slot *components.Slot, t *components.Transform) bool {
		if slot.Dragging && t != nil {
			t.Position = hit.Add(slot.DragOffset)
		}
		return true
	})
}

// IntersectPlane intersects ray with the horizontal plane y = planeY.
// Rays parallel to the plane, crossing it behind the origin, or carrying a
// NaN or infinite component miss, as does a hit too far away to represent.
func IntersectPlane(ray components.Ray, planeY, eps float32) (mgl32.Vec3, bool) {
	if !ray.Finite() || !components.FiniteFloat(planeY) {
		return mgl32.Vec3{}, false
	}
	dy := ray.Direction[1]
	if abs(dy) < eps {
		return mgl32.Vec3{}, false
	}
	t := (planeY - ray.Origin[1]) / dy
	if t < 0 || !components.FiniteFloat(t) {
		return mgl32.Vec3{}, false
	}
	hit := ray.At(t)
	hit[1] = planeY
	if !components.FiniteVec3(hit) {
		return mgl32.Vec3{}, false
	}
	return hit, true
}
