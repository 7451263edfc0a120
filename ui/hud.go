package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pthm-cable/scenecore/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title        string
	Entities     int
	Visible      int
	Selected     int
	Dragging     int
	Tick         int32
	FPS          int32
	Paused       bool
	HasCamera    bool
	Yaw          float32
	Pitch        float32
	Distance     float32
	ScreenWidth  int32
	ScreenHeight int32
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
	perf     *PerfPanel
	controls *ControlsPanel
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
		perf:     NewPerfPanel(10, 120),
		controls: NewControlsPanel(),
	}
}

// Controls returns the button panel.
func (h *HUD) Controls() *ControlsPanel {
	return h.controls
}

// Draw renders the HUD text block.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Entities: %d | Visible: %d | Selected: %d | Dragging: %d",
			data.Entities, data.Visible, data.Selected, data.Dragging),
		10, 35, 16, rl.LightGray,
	)

	camText := "Camera: none"
	if data.HasCamera {
		camText = fmt.Sprintf("Camera: yaw %.2f pitch %.2f dist %.1f", data.Yaw, data.Pitch, data.Distance)
	}
	rl.DrawText(
		fmt.Sprintf("Tick: %d | FPS: %d | %s", data.Tick, data.FPS, camText),
		10, 55, 16, rl.LightGray,
	)

	statusText := "Running"
	if data.Paused {
		statusText = "PAUSED"
	}
	rl.DrawText(statusText, 10, 75, 16, rl.Yellow)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// DrawPerf renders the frame phase breakdown.
func (h *HUD) DrawPerf(stats telemetry.PerfStats) {
	h.perf.Draw(stats)
}

// PerfPanel renders frame phase timings.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    260,
	}
}

var perfPhases = []string{
	telemetry.PhaseMotion,
	telemetry.PhaseCamera,
	telemetry.PhaseRender,
	telemetry.PhaseDrag,
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	r := p.renderer
	pad := r.Theme.Padding
	height := pad*2 + r.Theme.LineHeight*3 + int32(len(perfPhases))*(r.Theme.LineHeight+2)
	r.DrawPanel(p.x, p.y, p.width, height)

	x := p.x + pad
	y := r.DrawSectionHeader(x, p.y+pad, "Frame Performance")
	y = r.DrawLabelValue(x, y, "Avg", stats.AvgTickDuration.Round(time.Microsecond).String())
	y = r.DrawLabelValue(x, y, "P90", stats.P90TickDuration.Round(time.Microsecond).String())
	for _, phase := range perfPhases {
		y = r.DrawPercentBar(x, y, phase, stats.PhasePct[phase], 50, p.width-pad*2)
	}
}
