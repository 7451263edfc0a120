package ui

import (
	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ControlActions reports which buttons were pressed this frame.
type ControlActions struct {
	Focus       bool
	Clear       bool
	TogglePause bool
	TimeScale   float32
}

// ControlsPanel draws the right-side button column.
type ControlsPanel struct {
	renderer  *Renderer
	bounds    rl.Rectangle
	timeScale float32
}

const (
	controlsWidth  = 150
	controlsHeight = 190
	buttonHeight   = 30
)

// NewControlsPanel creates a new controls panel. Call Layout before drawing.
func NewControlsPanel() *ControlsPanel {
	return &ControlsPanel{
		renderer:  NewRenderer(),
		timeScale: 1,
	}
}

// Layout anchors the panel to the top-right corner of the screen.
func (c *ControlsPanel) Layout(screenWidth int32) {
	c.bounds = rl.Rectangle{
		X:      float32(screenWidth - controlsWidth - 10),
		Y:      10,
		Width:  controlsWidth,
		Height: controlsHeight,
	}
}

// Contains reports whether a screen point lies over the panel.
func (c *ControlsPanel) Contains(p rl.Vector2) bool {
	return rl.CheckCollisionPointRec(p, c.bounds)
}

// Draw renders the panel and returns the actions triggered this frame.
func (c *ControlsPanel) Draw(paused bool) ControlActions {
	r := c.renderer
	pad := float32(r.Theme.Padding)
	r.DrawPanel(int32(c.bounds.X), int32(c.bounds.Y), int32(c.bounds.Width), int32(c.bounds.Height))

	x := c.bounds.X + pad
	y := float32(r.DrawSectionHeader(int32(x), int32(c.bounds.Y+pad), "Controls"))
	w := c.bounds.Width - pad*2

	var a ControlActions
	a.Focus = gui.Button(rl.Rectangle{X: x, Y: y, Width: w, Height: buttonHeight}, "Focus selection")
	y += buttonHeight + 6
	a.Clear = gui.Button(rl.Rectangle{X: x, Y: y, Width: w, Height: buttonHeight}, "Clear selection")
	y += buttonHeight + 6
	a.TogglePause = gui.Button(rl.Rectangle{X: x, Y: y, Width: w, Height: buttonHeight}, toggleText(paused, "Resume", "Pause"))
	y += buttonHeight + 8

	rl.DrawText("Time scale", int32(x), int32(y), r.Theme.FontSize, r.Theme.LabelColor)
	y += float32(r.Theme.LineHeight)
	c.timeScale = gui.SliderBar(
		rl.Rectangle{X: x + 24, Y: y, Width: w - 48, Height: 16},
		"0", "4",
		c.timeScale, 0, 4,
	)
	a.TimeScale = c.timeScale
	return a
}

func toggleText(on bool, onText, offText string) string {
	if on {
		return onText
	}
	return offText
}
