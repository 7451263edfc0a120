package engine

import (
	"fmt"

	"github.com/pthm-cable/scenecore/components"
	"github.com/pthm-cable/scenecore/systems"
)

// Pick casts a world ray against every entity box and updates the selection:
// toggle flips the hit entity, additive adds it, otherwise it replaces the
// selection. It returns the hit id, or NoHit (-1) leaving selection unchanged.
func (e *Engine) Pick(ox, oy, oz, dx, dy, dz float32, additive, toggle bool) int {
	hit := e.picking.Pick(components.NewRay(ox, oy, oz, dx, dy, dz), systems.ModeFor(additive, toggle))
	if e.collector != nil {
		e.collector.RecordPick(hit != NoHit)
	}
	e.log.Debug("pick", "hit", hit, "additive", additive, "toggle", toggle)
	return hit
}

// Hover returns the entity nearest along the ray without touching the
// selection, or NoHit.
func (e *Engine) Hover(ox, oy, oz, dx, dy, dz float32) int {
	res, ok := e.picking.Cast(components.NewRay(ox, oy, oz, dx, dy, dz))
	if !ok {
		return NoHit
	}
	return int(res.Entity)
}

// BeginDrag anchors every selected entity to the point where the ray meets
// the drag plane. A ray that misses the plane starts nothing.
func (e *Engine) BeginDrag(ox, oy, oz, dx, dy, dz float32) {
	n := e.drag.Begin(components.NewRay(ox, oy, oz, dx, dy, dz))
	if n == 0 {
		e.log.Debug("drag not started", "reason", "no selected entity under a plane-crossing ray")
		return
	}
	if e.collector != nil {
		e.collector.RecordDragBegin()
	}
	e.log.Info("drag begun", "entities", n)
}

// UpdateDragRay records the latest pointer ray; it is applied on Update.
func (e *Engine) UpdateDragRay(ox, oy, oz, dx, dy, dz float32) {
	e.drag.UpdateRay(components.NewRay(ox, oy, oz, dx, dy, dz))
}

// EndDrag releases every dragging entity and discards the drag ray.
func (e *Engine) EndDrag() {
	if n := e.drag.End(); n > 0 {
		e.log.Info("drag ended", "entities", n)
	}
}

// ValidateRay reports ErrDegenerateRay for a direction that is too short to
// intersect or has a NaN or infinite component.
func (e *Engine) ValidateRay(dx, dy, dz float32) error {
	r := components.NewRay(0, 0, 0, dx, dy, dz)
	if !r.Finite() || r.Direction.Len() < e.cfg.Picking.Epsilon {
		return fmt.Errorf("direction (%v, %v, %v): %w", dx, dy, dz, ErrDegenerateRay)
	}
	return nil
}
