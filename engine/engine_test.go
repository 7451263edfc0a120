package engine

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/scenecore/components"
	"github.com/pthm-cable/scenecore/systems"
	"github.com/pthm-cable/scenecore/telemetry"
)

const tol = 1e-4

func newTestEngine() *Engine {
	return New(Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
}

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) <= tol
}

func mustSelected(t *testing.T, e *Engine, id Entity) bool {
	t.Helper()
	sel, err := e.Selected(id)
	if err != nil {
		t.Fatalf("selected %d: %v", id, err)
	}
	return sel
}

func TestCreateEntitySequential(t *testing.T) {
	e := newTestEngine()
	for want := 0; want < 6; want++ {
		if got := e.CreateEntity(); int(got) != want {
			t.Fatalf("expected id %d, got %d", want, got)
		}
	}
	if e.EntityCount() != 6 {
		t.Errorf("expected 6 entities, got %d", e.EntityCount())
	}
	for i := 0; i < 6; i++ {
		if _, err := e.Selected(Entity(i)); err != nil {
			t.Errorf("entity %d should have a slot: %v", i, err)
		}
	}
}

func TestSetTransformDefaults(t *testing.T) {
	e := newTestEngine()
	id := e.CreateEntity()
	if err := e.SetTransform(id, 1, 2, 3); err != nil {
		t.Fatal(err)
	}

	tr, ok, err := e.Transform(id)
	if err != nil || !ok {
		t.Fatalf("expected transform, got ok=%v err=%v", ok, err)
	}
	if tr.Position != (mgl32.Vec3{1, 2, 3}) {
		t.Errorf("unexpected position %v", tr.Position)
	}
	if tr.Rotation != (mgl32.Vec3{}) {
		t.Errorf("expected zero rotation, got %v", tr.Rotation)
	}
	if tr.Scale != (mgl32.Vec3{1, 1, 1}) {
		t.Errorf("expected default scale, got %v", tr.Scale)
	}
}

func TestInvalidEntityIsRecoverable(t *testing.T) {
	e := newTestEngine()
	e.CreateEntity()
	bad := Entity(7)

	errs := []error{
		e.SetTransform(bad, 0, 0, 0),
		e.SetVelocity(bad, 0, 0, 0),
		e.SetScale(bad, 1, 1, 1),
		e.SetRotation(bad, 1),
	}
	_, errSel := e.Selected(bad)
	_, errDrag := e.Dragging(bad)
	_, _, errTr := e.Transform(bad)
	errs = append(errs, errSel, errDrag, errTr)

	for i, err := range errs {
		if !errors.Is(err, ErrInvalidEntity) {
			t.Errorf("call %d: expected ErrInvalidEntity, got %v", i, err)
		}
	}
	if e.EntityCount() != 1 {
		t.Errorf("invalid calls must not change entity count, got %d", e.EntityCount())
	}
}

func TestSetScaleWithoutTransform(t *testing.T) {
	e := newTestEngine()
	id := e.CreateEntity()
	if err := e.SetScale(id, 2, 2, 2); !errors.Is(err, ErrNoTransform) {
		t.Errorf("expected ErrNoTransform, got %v", err)
	}
}

func TestUpdateIntegratesMotion(t *testing.T) {
	e := newTestEngine()
	id := e.CreateEntity()
	_ = e.SetTransform(id, 1, 1, 1)
	_ = e.SetVelocity(id, 1, -2, 4)

	e.Update(0.25)

	tr, _, _ := e.Transform(id)
	if !tr.Position.ApproxEqualThreshold(mgl32.Vec3{1.25, 0.5, 2}, tol) {
		t.Errorf("unexpected position %v", tr.Position)
	}
	if !approx(tr.Rotation[1], 0.25) {
		t.Errorf("expected Y rotation 0.25, got %v", tr.Rotation[1])
	}
}

func TestCameraAbsentIsNoop(t *testing.T) {
	e := newTestEngine()
	ops := map[string]error{
		"orbit":  e.OrbitCamera(1, 1),
		"zoom":   e.ZoomCamera(1),
		"pan":    e.PanCamera(1, 1),
		"focus":  e.FocusSelected(),
		"aspect": e.SetAspect(2),
	}
	for name, err := range ops {
		if !errors.Is(err, ErrCameraAbsent) {
			t.Errorf("%s: expected ErrCameraAbsent, got %v", name, err)
		}
	}
	if _, ok := e.Camera(); ok {
		t.Error("camera should still be absent")
	}

	e.Update(0.016)
	vp := e.ViewProjection()
	ident := mgl32.Ident4()
	for i := range vp {
		if vp[i] != ident[i] {
			t.Fatalf("expected identity view-projection before camera, got %v", vp)
		}
	}
}

func TestCameraClampsAfterAnySequence(t *testing.T) {
	e := newTestEngine()
	e.SetCamera(0, 5, 10, 1, 1, 0.1, 100)

	steps := []struct{ yaw, pitch, zoom float32 }{
		{0.3, 2, -4}, {-1, -9, 80}, {0, 0.7, -100}, {5, 1.2, 3}, {-2, -0.1, 49},
	}
	for i, s := range steps {
		_ = e.OrbitCamera(s.yaw, s.pitch)
		_ = e.ZoomCamera(s.zoom)
		cam, _ := e.Camera()
		if cam.Pitch < -1.5 || cam.Pitch > 1.5 {
			t.Fatalf("step %d: pitch %v out of range", i, cam.Pitch)
		}
		if cam.Distance < 1.5 || cam.Distance > 50 {
			t.Fatalf("step %d: distance %v out of range", i, cam.Distance)
		}
	}
}

func TestViewProjectionTracksCamera(t *testing.T) {
	e := newTestEngine()
	e.SetCamera(0, 5, 10, 1, 1.5, 0.1, 100)
	e.Update(0)

	cam, _ := e.Camera()
	want := cam.ViewProjection()
	vp := e.ViewProjection()
	if len(vp) != 16 {
		t.Fatalf("expected 16 floats, got %d", len(vp))
	}
	for i := range vp {
		if !approx(vp[i], want[i]) {
			t.Fatalf("vp[%d] = %v, want %v", i, vp[i], want[i])
		}
	}

	// Orbit changes the matrix only after the next Update
	_ = e.OrbitCamera(0.5, 0)
	before := vp[0]
	e.Update(0)
	if approx(e.ViewProjection()[0], before) {
		t.Error("expected view-projection to change after orbit + update")
	}
}

func TestSetCameraInvalidLensUsesConfig(t *testing.T) {
	e := newTestEngine()
	e.SetCamera(0, 5, 10, 1, 0, 0, 0)

	cam, ok := e.Camera()
	if !ok {
		t.Fatal("expected camera")
	}
	c := e.cfg.Camera
	if cam.FOV != c.FOV || cam.Aspect != e.cfg.Derived.Aspect || cam.Near != c.Near || cam.Far != c.Far {
		t.Errorf("expected configured lens, got fov %v aspect %v near %v far %v", cam.FOV, cam.Aspect, cam.Near, cam.Far)
	}

	e.Update(0)
	for i, f := range e.ViewProjection() {
		if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
			t.Fatalf("view-projection[%d] is not finite: %v", i, f)
		}
	}
}

func TestFocusSelected(t *testing.T) {
	e := newTestEngine()
	e.SetCamera(0, 5, 10, 1, 1, 0.1, 100)
	a := e.CreateEntity()
	b := e.CreateEntity()
	e.CreateEntity() // no transform, never part of the centroid
	_ = e.SetTransform(a, 2, 0, 0)
	_ = e.SetTransform(b, 4, 2, 6)

	// Nothing selected: target stays
	if err := e.FocusSelected(); err != nil {
		t.Fatal(err)
	}
	if cam, _ := e.Camera(); cam.Target != (mgl32.Vec3{}) {
		t.Errorf("expected unchanged target, got %v", cam.Target)
	}

	e.Pick(2, 5, 0, 0, -1, 0, false, false)
	e.Pick(4, 5, 6, 0, -1, 0, true, false)
	if !mustSelected(t, e, a) || !mustSelected(t, e, b) {
		t.Fatal("expected a and b selected")
	}

	if err := e.FocusSelected(); err != nil {
		t.Fatal(err)
	}
	cam, _ := e.Camera()
	if !cam.Target.ApproxEqualThreshold(mgl32.Vec3{3, 1, 3}, tol) {
		t.Errorf("expected centroid (3,1,3), got %v", cam.Target)
	}
}

func TestPickToggleScenario(t *testing.T) {
	e := newTestEngine()
	id := e.CreateEntity()
	_ = e.SetTransform(id, 0, 0, 0)
	e.SetCamera(0, 5, 10, 1.0, 1.0, 0.1, 100.0)

	// Ray from the eye toward the origin
	if got := e.Pick(0, 5, 10, 0, -5, -10, false, false); got != 0 {
		t.Fatalf("expected hit 0, got %d", got)
	}
	if !mustSelected(t, e, id) {
		t.Fatal("expected entity 0 selected")
	}

	if got := e.Pick(0, 5, 10, 0, -5, -10, false, true); got != 0 {
		t.Fatalf("expected toggle hit 0, got %d", got)
	}
	if mustSelected(t, e, id) {
		t.Error("expected toggle to clear the selection flag")
	}
}

func TestPickAdditiveThenReplaceScenario(t *testing.T) {
	e := newTestEngine()
	e0 := e.CreateEntity()
	e1 := e.CreateEntity()
	_ = e.SetTransform(e0, 0, 0, 0)
	_ = e.SetTransform(e1, 5, 0, 0)

	// Select only entity 1
	if got := e.Pick(5, 5, 0, 0, -1, 0, false, false); got != int(e1) {
		t.Fatalf("expected hit %d, got %d", e1, got)
	}

	if got := e.Pick(0, 5, 0, 0, -1, 0, true, false); got != int(e0) {
		t.Fatalf("expected additive hit %d, got %d", e0, got)
	}
	if !mustSelected(t, e, e0) || !mustSelected(t, e, e1) {
		t.Fatal("expected both entities selected after additive pick")
	}

	e.Pick(0, 5, 0, 0, -1, 0, false, false)
	if !mustSelected(t, e, e0) || mustSelected(t, e, e1) {
		t.Error("expected only entity 0 selected after plain click")
	}
	if got := e.SelectedEntities(); len(got) != 1 || got[0] != e0 {
		t.Errorf("expected selection [0], got %v", got)
	}
}

func TestPickMissAndDegenerateRay(t *testing.T) {
	e := newTestEngine()
	id := e.CreateEntity()
	_ = e.SetTransform(id, 0, 0, 0)
	e.Pick(0, 5, 0, 0, -1, 0, false, false)

	if got := e.Pick(0, 5, 0, 0, 0, 0, false, false); got != NoHit {
		t.Errorf("zero direction should miss, got %d", got)
	}
	if got := e.Pick(9, 5, 0, 0, -1, 0, false, false); got != NoHit {
		t.Errorf("expected miss, got %d", got)
	}
	if !mustSelected(t, e, id) {
		t.Error("misses must leave the selection untouched")
	}

	if err := e.ValidateRay(0, 0, 0); !errors.Is(err, ErrDegenerateRay) {
		t.Errorf("expected ErrDegenerateRay, got %v", err)
	}
	if err := e.ValidateRay(0, -1, 0); err != nil {
		t.Errorf("expected valid ray, got %v", err)
	}
}

func TestNonFiniteRaysAreAbsorbed(t *testing.T) {
	nan := float32(math.NaN())
	inf := float32(math.Inf(1))

	e := newTestEngine()
	id := e.CreateEntity()
	_ = e.SetTransform(id, 50, 0, 50)

	if got := e.Pick(0, 0, 0, nan, nan, nan, false, false); got != NoHit {
		t.Errorf("nan ray should miss, got %d", got)
	}
	if got := e.Pick(0, 0, 50, inf, 0, 0, false, false); got != NoHit {
		t.Errorf("infinite ray should miss, got %d", got)
	}
	if got := e.Hover(nan, 5, 50, 0, -1, 0); got != NoHit {
		t.Errorf("nan hover should miss, got %d", got)
	}
	if mustSelected(t, e, id) {
		t.Error("non-finite picks must not select")
	}
	if err := e.ValidateRay(nan, -1, 0); !errors.Is(err, ErrDegenerateRay) {
		t.Errorf("expected ErrDegenerateRay for nan, got %v", err)
	}
	if err := e.ValidateRay(0, -inf, 0); !errors.Is(err, ErrDegenerateRay) {
		t.Errorf("expected ErrDegenerateRay for inf, got %v", err)
	}

	// A nan drag begin starts nothing
	e.Pick(50, 5, 50, 0, -1, 0, false, false)
	e.BeginDrag(nan, 10, 0, 0, -1, 0)
	if dragging, _ := e.Dragging(id); dragging {
		t.Fatal("nan ray must not begin a drag")
	}

	// Mid-drag nan rays hold the last position
	e.BeginDrag(50, 10, 50, 0, -1, 0)
	e.UpdateDragRay(nan, 10, 0, 0, -1, 0)
	e.Update(0)
	e.UpdateDragRay(0, 10, 0, 0, -inf, 0)
	e.Update(0)
	tr, _, _ := e.Transform(id)
	if !tr.Position.ApproxEqualThreshold(mgl32.Vec3{50, 0, 50}, tol) {
		t.Errorf("expected position held at (50,0,50), got %v", tr.Position)
	}
	for i, f := range e.RenderBuffer() {
		if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
			t.Fatalf("render buffer[%d] is not finite: %v", i, f)
		}
	}
}

func TestPickHitDistanceThroughCenter(t *testing.T) {
	e := newTestEngine()
	id := e.CreateEntity()
	_ = e.SetTransform(id, 1, 2, 3)
	_ = e.SetScale(id, 3, 1, 2)

	// Identity of the hit; distance is checked via the picking system directly
	if got := e.Pick(1, 2, 3, 0, 0, 1, false, false); got != int(id) {
		t.Fatalf("expected hit %d, got %d", id, got)
	}
	res, ok := e.picking.Cast(rayFrom(1, 2, 3, 0, 0, 1))
	if !ok || !approx(res.Distance, 1) {
		t.Errorf("expected distance 1 (half of z scale 2), got %+v", res)
	}
}

func TestHoverLeavesSelection(t *testing.T) {
	e := newTestEngine()
	a := e.CreateEntity()
	b := e.CreateEntity()
	_ = e.SetTransform(a, 0, 0, 0)
	_ = e.SetTransform(b, 3, 0, 0)

	e.Pick(0, 5, 0, 0, -1, 0, false, false)
	if got := e.Hover(3, 5, 0, 0, -1, 0); got != int(b) {
		t.Fatalf("expected hover %d, got %d", b, got)
	}
	if got := e.Hover(10, 5, 0, 0, -1, 0); got != NoHit {
		t.Errorf("expected no hover, got %d", got)
	}
	if !mustSelected(t, e, a) || mustSelected(t, e, b) {
		t.Error("hover must not change the selection")
	}
}

func TestDragLifecycle(t *testing.T) {
	e := newTestEngine()
	id := e.CreateEntity()
	_ = e.SetTransform(id, 2, 0, -1)
	e.Pick(2, 5, -1, 0, -1, 0, false, false)

	// Begin at plane point P = (0,0,0), offset Q-P = (2,0,-1)
	e.BeginDrag(0, 4, 0, 0, -1, 0)
	if dragging, _ := e.Dragging(id); !dragging {
		t.Fatal("expected entity to be dragging")
	}
	off, _ := e.DragOffset(id)
	if !off.ApproxEqualThreshold(mgl32.Vec3{2, 0, -1}, tol) {
		t.Errorf("expected offset (2,0,-1), got %v", off)
	}

	// New plane point P' = (3,0,3)
	e.UpdateDragRay(3, 4, 3, 0, -1, 0)
	e.Update(0)
	tr, _, _ := e.Transform(id)
	if !tr.Position.ApproxEqualThreshold(mgl32.Vec3{5, 0, 2}, tol) {
		t.Errorf("expected position (5,0,2), got %v", tr.Position)
	}

	e.EndDrag()
	if dragging, _ := e.Dragging(id); dragging {
		t.Error("expected drag released")
	}
	e.UpdateDragRay(-8, 4, -8, 0, -1, 0)
	e.Update(0)
	if tr2, _, _ := e.Transform(id); tr2.Position != tr.Position {
		t.Errorf("released entity moved from %v to %v", tr.Position, tr2.Position)
	}
}

func TestDragOverridesMotion(t *testing.T) {
	e := newTestEngine()
	id := e.CreateEntity()
	_ = e.SetTransform(id, 0, 0, 0)
	_ = e.SetVelocity(id, 10, 0, 0)
	e.Pick(0, 5, 0, 0, -1, 0, false, false)
	e.BeginDrag(0, 5, 0, 0, -1, 0)

	e.Update(1)

	tr, _, _ := e.Transform(id)
	if !tr.Position.ApproxEqualThreshold(mgl32.Vec3{}, tol) {
		t.Errorf("drag should hold the entity under the ray, got %v", tr.Position)
	}
	// The buffer was built before the drag pass, so it shows the moved entity
	if buf := e.RenderBuffer(); !approx(buf[12], 10) {
		t.Errorf("expected render buffer built before drag (x=10), got %v", buf[12])
	}
}

func TestRenderBufferLength(t *testing.T) {
	e := newTestEngine()
	for i := 0; i < 7; i++ {
		id := e.CreateEntity()
		if i%3 != 0 {
			_ = e.SetTransform(id, float32(i), 0, 0)
		}
	}
	e.Update(0.016)
	if got, want := len(e.RenderBuffer()), systems.EntryFloats*4; got != want {
		t.Errorf("expected %d floats, got %d", want, got)
	}
	if e.RenderCount() != 4 {
		t.Errorf("expected 4 entries, got %d", e.RenderCount())
	}

	e.Pick(1, 5, 0, 0, -1, 0, false, false)
	e.Update(0.016)
	if got := len(e.RenderBuffer()); got != systems.EntryFloats*4 {
		t.Errorf("selection must not change buffer length, got %d", got)
	}

	stats := e.Stats()
	if stats.Entities != 7 || stats.Transforms != 4 || stats.Selected != 1 || stats.BufferFloats != 80 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestInstrumentation(t *testing.T) {
	perf := telemetry.NewPerfCollector(10)
	coll := telemetry.NewCollector(1)
	e := New(Options{
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Perf:      perf,
		Collector: coll,
	})
	id := e.CreateEntity()
	_ = e.SetTransform(id, 0, 0, 0)
	e.Pick(0, 5, 0, 0, -1, 0, false, false)
	e.Pick(9, 5, 0, 0, -1, 0, false, false)
	e.BeginDrag(0, 5, 0, 0, -1, 0)
	e.Update(0.016)

	if _, ok := perf.Stats().PhaseAvg[telemetry.PhaseDrag]; !ok {
		t.Error("expected drag phase timing")
	}
	w := coll.Flush(1, 0.016, e.Stats())
	if w.Picks != 2 || w.PickHits != 1 || w.DragsBegun != 1 || w.Created != 1 {
		t.Errorf("unexpected window %+v", w)
	}
}

func rayFrom(ox, oy, oz, dx, dy, dz float32) components.Ray {
	return components.NewRay(ox, oy, oz, dx, dy, dz)
}
