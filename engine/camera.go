package engine

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/scenecore/camera"
	"github.com/pthm-cable/scenecore/components"
)

// SetCamera creates the orbit camera from an eye position looking at the origin.
// Calling it again replaces the camera. A lens that cannot produce a finite
// projection (aspect or near not positive, far not beyond near, fov outside
// (0, pi), or any NaN/Inf) is replaced by the configured camera lens.
func (e *Engine) SetCamera(x, y, z, fov, aspect, near, far float32) {
	c := e.cfg.Camera
	fallback := camera.Lens{FOV: c.FOV, Aspect: e.cfg.Derived.Aspect, Near: c.Near, Far: c.Far}
	if !(camera.Lens{FOV: fov, Aspect: aspect, Near: near, Far: far}).Valid() {
		e.log.Debug("camera lens replaced",
			"fov", fov, "aspect", aspect, "near", near, "far", far,
			"fallback_valid", fallback.Valid(),
		)
	}
	e.cam = camera.New(mgl32.Vec3{x, y, z}, fov, aspect, near, far, camera.Limits{
		MinPitch:      c.MinPitch,
		MaxPitch:      c.MaxPitch,
		MinDistance:   c.MinDistance,
		MaxDistance:   c.MaxDistance,
		DistanceFloor: c.DistanceFloor,
		Fallback:      fallback,
	})
	e.log.Info("camera configured",
		"yaw", e.cam.Yaw,
		"pitch", e.cam.Pitch,
		"distance", e.cam.Distance,
		"fov", e.cam.FOV,
		"aspect", e.cam.Aspect,
	)
}

// Camera returns a copy of the orbit camera; ok is false before SetCamera.
func (e *Engine) Camera() (cam camera.Orbit, ok bool) {
	if e.cam == nil {
		return camera.Orbit{}, false
	}
	return *e.cam, true
}

// OrbitCamera adds to yaw and pitch; pitch is clamped.
func (e *Engine) OrbitCamera(dYaw, dPitch float32) error {
	if err := e.requireCamera("orbit"); err != nil {
		return err
	}
	e.cam.Orbit(dYaw, dPitch)
	return nil
}

// ZoomCamera adds to the orbit distance; distance is clamped.
func (e *Engine) ZoomCamera(dDistance float32) error {
	if err := e.requireCamera("zoom"); err != nil {
		return err
	}
	e.cam.Zoom(dDistance)
	return nil
}

// PanCamera shifts the orbit target in the X/Y plane.
func (e *Engine) PanCamera(dx, dy float32) error {
	if err := e.requireCamera("pan"); err != nil {
		return err
	}
	e.cam.Pan(dx, dy)
	return nil
}

// SetAspect updates the projection aspect ratio.
func (e *Engine) SetAspect(aspect float32) error {
	if err := e.requireCamera("aspect"); err != nil {
		return err
	}
	e.cam.SetAspect(aspect)
	return nil
}

// FocusSelected moves the orbit target to the centroid of selected entities
// that have transforms. With nothing selected it does nothing.
func (e *Engine) FocusSelected() error {
	if err := e.requireCamera("focus"); err != nil {
		return err
	}

	var sum mgl32.Vec3
	n := 0
	e.store.Each(func(_ Entity, slot *components.Slot, t *components.Transform) bool {
		if slot.Selected && t != nil {
			sum = sum.Add(t.Position)
			n++
		}
		return true
	})
	if n == 0 {
		return nil
	}
	e.cam.Focus(sum.Mul(1 / float32(n)))
	return nil
}

func (e *Engine) requireCamera(op string) error {
	if e.cam != nil {
		return nil
	}
	e.log.Debug("camera operation ignored", "op", op, "error", ErrCameraAbsent)
	return ErrCameraAbsent
}
