package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pthm-cable/scenecore/ui"
)

const controlsLegend = "Click: select  Shift: add  Ctrl: toggle  Drag: move  RMB: orbit  Wheel: zoom  Arrows: pan  F: focus  C: clear  Space: pause"

// Draw renders the scene and the HUD.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)
	g.background.Draw(int32(g.screenWidth), int32(g.screenHeight))

	if _, ok := g.eng.Camera(); ok {
		g.scene.BeginScene(g.eng.ViewProjection())
		g.scene.Draw(g.eng.RenderBuffer(), g.eng.RenderCount())
		g.scene.EndScene()
	}

	g.drawUI()
	rl.EndDrawing()
}

func (g *Game) drawUI() {
	fs := g.eng.Stats()
	data := ui.HUDData{
		Title:        "Scene",
		Entities:     fs.Entities,
		Visible:      g.eng.RenderCount(),
		Selected:     fs.Selected,
		Dragging:     fs.Dragging,
		Tick:         g.tick,
		FPS:          rl.GetFPS(),
		Paused:       g.paused,
		HasCamera:    fs.HasCamera,
		ScreenWidth:  int32(g.screenWidth),
		ScreenHeight: int32(g.screenHeight),
	}
	if cam, ok := g.eng.Camera(); ok {
		data.Yaw, data.Pitch, data.Distance = cam.Yaw, cam.Pitch, cam.Distance
	}

	g.hud.Draw(data)
	g.hud.DrawPerf(g.perf.Stats())
	g.hud.DrawControls(data.ScreenHeight, controlsLegend)

	actions := g.hud.Controls().Draw(g.paused)
	if actions.Focus {
		g.focusSelection()
	}
	if actions.Clear {
		g.eng.ClearSelection()
	}
	if actions.TogglePause {
		g.paused = !g.paused
	}
	g.timeScale = actions.TimeScale
}
