// Package engine is the per-frame simulation and interaction core of the scene view.
//
// An Engine owns the entity store, the orbit camera and the interaction
// systems. It is single-threaded: the host calls operations and Update from
// one loop. RenderBuffer and ViewProjection alias engine memory and are valid
// only until the next mutating call; hosts re-fetch them after every Update.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/scenecore/camera"
	"github.com/pthm-cable/scenecore/components"
	"github.com/pthm-cable/scenecore/config"
	"github.com/pthm-cable/scenecore/store"
	"github.com/pthm-cable/scenecore/systems"
	"github.com/pthm-cable/scenecore/telemetry"
)

// Entity is an engine entity id.
type Entity = components.Entity

// NoHit is returned by Pick on a miss.
const NoHit = systems.NoHit

// Options configure a new Engine.
type Options struct {
	Config *config.Config // nil = embedded defaults
	Logger *slog.Logger   // nil = slog.Default()

	// Optional instrumentation
	Perf      *telemetry.PerfCollector
	Collector *telemetry.Collector
}

// Engine is the scene simulation core.
type Engine struct {
	cfg *config.Config
	log *slog.Logger

	store   *store.Store
	cam     *camera.Orbit
	motion  *systems.MotionSystem
	picking *systems.PickingSystem
	drag    *systems.DragSystem
	render  *systems.RenderSystem

	viewProj mgl32.Mat4

	perf      *telemetry.PerfCollector
	collector *telemetry.Collector
}

// New creates an engine with no entities and no camera.
func New(opts Options) *Engine {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	s := store.New()
	e := &Engine{
		cfg:       cfg,
		log:       log.With("component", "engine"),
		store:     s,
		motion:    systems.NewMotionSystem(s, cfg.Entity.SpinRate),
		picking:   systems.NewPickingSystem(s, cfg.Picking.Epsilon),
		drag:      systems.NewDragSystem(s, cfg.Drag.PlaneY, cfg.Drag.Epsilon),
		render:    systems.NewRenderSystem(s, cfg.Derived.DefaultColor, cfg.Derived.HighlightColor),
		viewProj:  mgl32.Ident4(),
		perf:      opts.Perf,
		collector: opts.Collector,
	}
	e.log.Info("engine created", "plane_y", cfg.Drag.PlaneY, "spin_rate", cfg.Entity.SpinRate)
	return e
}

// CreateEntity allocates the next entity id. Previously fetched render
// buffers are invalid afterwards.
func (e *Engine) CreateEntity() Entity {
	id := e.store.Create()
	if e.collector != nil {
		e.collector.RecordCreate()
	}
	return id
}

// EntityCount returns the number of entities ever created.
func (e *Engine) EntityCount() int {
	return e.store.Len()
}

// SetTransform installs a transform at (x, y, z) with zero rotation and the
// configured default scale, replacing any existing one.
func (e *Engine) SetTransform(id Entity, x, y, z float32) error {
	t := components.Transform{
		Position: mgl32.Vec3{x, y, z},
		Scale:    e.cfg.Derived.DefaultScale,
	}
	if err := e.store.SetTransform(id, t); err != nil {
		e.log.Debug("set transform rejected", "entity", id, "error", err)
		return fmt.Errorf("set transform: %w", err)
	}
	return nil
}

// SetVelocity installs a linear velocity, replacing any existing one.
func (e *Engine) SetVelocity(id Entity, x, y, z float32) error {
	if err := e.store.SetVelocity(id, components.Velocity{Linear: mgl32.Vec3{x, y, z}}); err != nil {
		e.log.Debug("set velocity rejected", "entity", id, "error", err)
		return fmt.Errorf("set velocity: %w", err)
	}
	return nil
}

// SetScale overwrites the scale of an existing transform.
func (e *Engine) SetScale(id Entity, x, y, z float32) error {
	t, err := e.transform(id)
	if err != nil {
		return fmt.Errorf("set scale: %w", err)
	}
	t.Scale = mgl32.Vec3{x, y, z}
	return nil
}

// SetRotation overwrites the Y rotation of an existing transform.
func (e *Engine) SetRotation(id Entity, yaw float32) error {
	t, err := e.transform(id)
	if err != nil {
		return fmt.Errorf("set rotation: %w", err)
	}
	t.Rotation[1] = yaw
	return nil
}

func (e *Engine) transform(id Entity) (*components.Transform, error) {
	t, err := e.store.Transform(id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("entity %d: %w", id, ErrNoTransform)
	}
	return t, nil
}

// Transform returns a copy of the entity's transform; ok is false if it has none.
func (e *Engine) Transform(id Entity) (t components.Transform, ok bool, err error) {
	p, err := e.store.Transform(id)
	if err != nil || p == nil {
		return components.Transform{}, false, err
	}
	return *p, true, nil
}

// Velocity returns a copy of the entity's velocity; ok is false if it has none.
func (e *Engine) Velocity(id Entity) (v components.Velocity, ok bool, err error) {
	p, err := e.store.Velocity(id)
	if err != nil || p == nil {
		return components.Velocity{}, false, err
	}
	return *p, true, nil
}

// Selected reports the entity's selection flag.
func (e *Engine) Selected(id Entity) (bool, error) {
	slot, err := e.store.Slot(id)
	if err != nil {
		return false, err
	}
	return slot.Selected, nil
}

// Dragging reports the entity's dragging flag.
func (e *Engine) Dragging(id Entity) (bool, error) {
	slot, err := e.store.Slot(id)
	if err != nil {
		return false, err
	}
	return slot.Dragging, nil
}

// DragOffset returns the offset recorded when the entity's drag began.
func (e *Engine) DragOffset(id Entity) (mgl32.Vec3, error) {
	slot, err := e.store.Slot(id)
	if err != nil {
		return mgl32.Vec3{}, err
	}
	return slot.DragOffset, nil
}

// SelectedEntities returns selected ids in ascending order.
func (e *Engine) SelectedEntities() []Entity {
	var out []Entity
	e.store.Each(func(id Entity, slot *components.Slot, _ *components.Transform) bool {
		if slot.Selected {
			out = append(out, id)
		}
		return true
	})
	return out
}

// ClearSelection deselects every entity.
func (e *Engine) ClearSelection() {
	e.store.Each(func(_ Entity, slot *components.Slot, _ *components.Transform) bool {
		slot.Selected = false
		return true
	})
}

// Update advances one frame: motion, camera, render buffer, then drag.
// A skipped call pauses simulation time.
func (e *Engine) Update(delta float32) {
	e.startTick()

	e.phase(telemetry.PhaseMotion)
	e.motion.Update(delta)

	e.phase(telemetry.PhaseCamera)
	if e.cam != nil {
		e.viewProj = e.cam.ViewProjection()
	}

	e.phase(telemetry.PhaseRender)
	e.render.Update()

	e.phase(telemetry.PhaseDrag)
	e.drag.Update()

	e.endTick()
}

// RenderBuffer returns the packed per-entity buffer: 20 floats per entity with
// a transform (16 column-major model matrix, 4 RGBA), ascending id order.
// The slice aliases engine memory and is valid until the next Update or
// CreateEntity.
func (e *Engine) RenderBuffer() []float32 {
	return e.render.Buffer()
}

// RenderCount returns the number of entries in RenderBuffer.
func (e *Engine) RenderCount() int {
	return e.render.Count()
}

// ViewProjection returns the column-major view-projection matrix from the
// last Update; identity before a camera is configured.
func (e *Engine) ViewProjection() []float32 {
	return e.viewProj[:]
}

// Stats returns a snapshot of state counts.
func (e *Engine) Stats() telemetry.FrameStats {
	fs := telemetry.FrameStats{
		Entities:     e.store.Len(),
		BufferFloats: len(e.render.Buffer()),
		HasCamera:    e.cam != nil,
	}
	e.store.Each(func(_ Entity, slot *components.Slot, t *components.Transform) bool {
		if t != nil {
			fs.Transforms++
		}
		if slot.Selected {
			fs.Selected++
		}
		if slot.Dragging {
			fs.Dragging++
		}
		return true
	})
	return fs
}

func (e *Engine) startTick() {
	if e.perf != nil {
		e.perf.StartTick()
	}
}

func (e *Engine) phase(name string) {
	if e.perf != nil {
		e.perf.StartPhase(name)
	}
}

func (e *Engine) endTick() {
	if e.perf != nil {
		e.perf.EndTick()
	}
}
