package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pthm-cable/scenecore/camera"
	"github.com/pthm-cable/scenecore/engine"
)

const (
	orbitSensitivity = 0.008 // radians per pixel
	zoomStep         = 0.8   // world units per wheel notch
	panSpeed         = 4.0   // world units per second
)

// pointerState tracks what the left and right mouse buttons are doing.
type pointerState struct {
	dragging bool
	orbiting bool
}

// rlCamera converts the engine's orbit camera for raylib's screen-to-world
// ray casting. Drawing goes through the engine's view-projection instead.
func rlCamera(c camera.Orbit) rl.Camera3D {
	eye := c.Eye()
	return rl.Camera3D{
		Position:   rl.NewVector3(eye.X(), eye.Y(), eye.Z()),
		Target:     rl.NewVector3(c.Target.X(), c.Target.Y(), c.Target.Z()),
		Up:         rl.NewVector3(0, 1, 0),
		Fovy:       c.FOV * rl.Rad2deg,
		Projection: rl.CameraPerspective,
	}
}

// mouseRay returns the world ray under the cursor.
func (g *Game) mouseRay() (rl.Ray, bool) {
	cam, ok := g.eng.Camera()
	if !ok {
		return rl.Ray{}, false
	}
	return rl.GetScreenToWorldRay(rl.GetMousePosition(), rlCamera(cam)), true
}

func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}
	if rl.IsKeyPressed(rl.KeyF) {
		g.focusSelection()
	}
	if rl.IsKeyPressed(rl.KeyC) {
		g.eng.ClearSelection()
	}

	g.handlePan()
	g.handleOrbit()

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		if err := g.eng.ZoomCamera(-wheel * zoomStep); err != nil {
			slog.Debug("zoom ignored", "error", err)
		}
	}

	g.handlePointer()
}

func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	g.screenWidth = float32(rl.GetScreenWidth())
	g.screenHeight = float32(rl.GetScreenHeight())
	if g.screenHeight > 0 {
		if err := g.eng.SetAspect(g.screenWidth / g.screenHeight); err != nil {
			slog.Debug("aspect ignored", "error", err)
		}
	}
	g.hud.Controls().Layout(int32(g.screenWidth))
}

func (g *Game) handlePan() {
	var dx, dy float32
	step := panSpeed * rl.GetFrameTime()
	if rl.IsKeyDown(rl.KeyLeft) {
		dx -= step
	}
	if rl.IsKeyDown(rl.KeyRight) {
		dx += step
	}
	if rl.IsKeyDown(rl.KeyUp) {
		dy += step
	}
	if rl.IsKeyDown(rl.KeyDown) {
		dy -= step
	}
	if dx == 0 && dy == 0 {
		return
	}
	if err := g.eng.PanCamera(dx, dy); err != nil {
		slog.Debug("pan ignored", "error", err)
	}
}

func (g *Game) handleOrbit() {
	if rl.IsMouseButtonPressed(rl.MouseButtonRight) {
		g.pointer.orbiting = true
	}
	if rl.IsMouseButtonReleased(rl.MouseButtonRight) {
		g.pointer.orbiting = false
	}
	if !g.pointer.orbiting {
		return
	}
	d := rl.GetMouseDelta()
	if d.X == 0 && d.Y == 0 {
		return
	}
	if err := g.eng.OrbitCamera(-d.X*orbitSensitivity, d.Y*orbitSensitivity); err != nil {
		slog.Debug("orbit ignored", "error", err)
	}
}

// handlePointer picks on left press and drags the selection while held.
// Pressing on an already selected entity without modifiers starts a drag of
// the whole selection.
func (g *Game) handlePointer() {
	mouse := rl.GetMousePosition()

	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) && !g.hud.Controls().Contains(mouse) {
		ray, ok := g.mouseRay()
		if !ok {
			return
		}
		additive := rl.IsKeyDown(rl.KeyLeftShift) || rl.IsKeyDown(rl.KeyRightShift)
		toggle := rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl)

		hit := g.pickUnderRay(ray, additive, toggle)
		if hit != engine.NoHit {
			if sel, _ := g.eng.Selected(engine.Entity(hit)); sel {
				o, d := ray.Position, ray.Direction
				g.eng.BeginDrag(o.X, o.Y, o.Z, d.X, d.Y, d.Z)
				g.pointer.dragging = true
			}
		}
	}

	if g.pointer.dragging && rl.IsMouseButtonDown(rl.MouseButtonLeft) {
		if ray, ok := g.mouseRay(); ok {
			o, d := ray.Position, ray.Direction
			g.eng.UpdateDragRay(o.X, o.Y, o.Z, d.X, d.Y, d.Z)
		}
	}

	if g.pointer.dragging && rl.IsMouseButtonReleased(rl.MouseButtonLeft) {
		g.eng.EndDrag()
		g.pointer.dragging = false
	}
}

// pickUnderRay leaves a multi-selection intact when a plain click lands on
// one of its members, so the group can be dragged together.
func (g *Game) pickUnderRay(ray rl.Ray, additive, toggle bool) int {
	o, d := ray.Position, ray.Direction
	if err := g.eng.ValidateRay(d.X, d.Y, d.Z); err != nil {
		slog.Debug("pick ignored", "error", err)
		return engine.NoHit
	}
	if !additive && !toggle {
		hit := g.eng.Hover(o.X, o.Y, o.Z, d.X, d.Y, d.Z)
		if hit != engine.NoHit && len(g.eng.SelectedEntities()) > 1 {
			if sel, _ := g.eng.Selected(engine.Entity(hit)); sel {
				return hit
			}
		}
	}
	return g.eng.Pick(o.X, o.Y, o.Z, d.X, d.Y, d.Z, additive, toggle)
}

func (g *Game) focusSelection() {
	if err := g.eng.FocusSelected(); err != nil {
		slog.Debug("focus ignored", "error", err)
	}
}
