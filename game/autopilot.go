package game

import (
	"log/slog"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pthm-cable/scenecore/engine"
)

const (
	autopilotInterval  = 90 // ticks between gestures
	autopilotDragTicks = 30
	autopilotRayHeight = 10
)

// autopilot stands in for the mouse in headless runs: it periodically picks
// a random entity from above, drags the selection across the ground plane
// and nudges the camera.
type autopilot struct {
	rng      *rand.Rand
	dragLeft int
	from     mgl32.Vec3
	to       mgl32.Vec3
}

func newAutopilot(rng *rand.Rand) *autopilot {
	return &autopilot{rng: rng}
}

func (a *autopilot) drive(g *Game) {
	if a.dragLeft > 0 {
		a.dragLeft--
		t := 1 - float32(a.dragLeft)/autopilotDragTicks
		p := a.from.Add(a.to.Sub(a.from).Mul(t))
		g.eng.UpdateDragRay(p.X(), autopilotRayHeight, p.Z(), 0, -1, 0)
		if a.dragLeft == 0 {
			g.eng.EndDrag()
		}
		return
	}

	if g.tick%autopilotInterval != 0 {
		return
	}

	if err := g.eng.OrbitCamera((a.rng.Float32()*2-1)*0.3, (a.rng.Float32()*2-1)*0.1); err != nil {
		slog.Debug("autopilot orbit", "error", err)
	}

	id, pos, ok := a.randomVisible(g.eng)
	if !ok {
		return
	}
	additive := a.rng.Intn(3) == 0
	hit := g.eng.Pick(pos.X(), autopilotRayHeight, pos.Z(), 0, -1, 0, additive, false)
	if hit != int(id) {
		return
	}

	g.eng.BeginDrag(pos.X(), autopilotRayHeight, pos.Z(), 0, -1, 0)
	a.from = mgl32.Vec3{pos.X(), 0, pos.Z()}
	a.to = a.from.Add(mgl32.Vec3{(a.rng.Float32()*2 - 1) * 2, 0, (a.rng.Float32()*2 - 1) * 2})
	a.dragLeft = autopilotDragTicks

	if err := g.eng.FocusSelected(); err != nil {
		slog.Debug("autopilot focus", "error", err)
	}
}

// randomVisible returns a random entity that has a transform.
func (a *autopilot) randomVisible(e *engine.Engine) (engine.Entity, mgl32.Vec3, bool) {
	var visible []engine.Entity
	for i := 0; i < e.EntityCount(); i++ {
		if _, ok, _ := e.Transform(engine.Entity(i)); ok {
			visible = append(visible, engine.Entity(i))
		}
	}
	if len(visible) == 0 {
		return 0, mgl32.Vec3{}, false
	}
	id := visible[a.rng.Intn(len(visible))]
	t, _, _ := e.Transform(id)
	return id, t.Position, true
}
