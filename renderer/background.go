// Package renderer draws the scene with raylib.
package renderer

import rl "github.com/gen2brain/raylib-go/raylib"

// BackgroundRenderer fills the screen with a vertical gradient.
type BackgroundRenderer struct {
	top    rl.Color
	bottom rl.Color
}

// NewBackgroundRenderer creates a gradient from top to bottom.
func NewBackgroundRenderer(top, bottom rl.Color) *BackgroundRenderer {
	return &BackgroundRenderer{top: top, bottom: bottom}
}

// Draw renders the gradient; call before entering 3D mode.
func (b *BackgroundRenderer) Draw(screenW, screenH int32) {
	rl.DrawRectangleGradientV(0, 0, screenW, screenH, b.top, b.bottom)
}
