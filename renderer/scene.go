package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Layout of one render buffer entry.
type Layout struct {
	MatrixFloats int
	EntryFloats  int
}

// SceneRenderer draws a unit cube per render buffer entry.
type SceneRenderer struct {
	layout     Layout
	wireColor  rl.Color
	gridSlices int32
	gridStep   float32
}

// NewSceneRenderer creates a renderer for buffers with the given layout.
func NewSceneRenderer(layout Layout) *SceneRenderer {
	return &SceneRenderer{
		layout:     layout,
		wireColor:  rl.Color{R: 30, G: 32, B: 40, A: 255},
		gridSlices: 20,
		gridStep:   1,
	}
}

// BeginScene enters 3D drawing with viewProj (16 column-major floats) as the
// whole camera transform: it becomes the projection matrix and the modelview
// starts at identity, so each entry's model matrix is the only other
// transform applied. Pair with EndScene.
func (s *SceneRenderer) BeginScene(viewProj []float32) {
	rl.DrawRenderBatchActive()

	rl.MatrixMode(rl.Projection)
	rl.PushMatrix()
	rl.SetMatrixProjection(ToMatrix(viewProj))

	rl.MatrixMode(rl.Modelview)
	rl.LoadIdentity()

	rl.EnableDepthTest()
}

// EndScene flushes 3D drawing and restores the 2D screen projection.
func (s *SceneRenderer) EndScene() {
	rl.DrawRenderBatchActive()

	rl.MatrixMode(rl.Projection)
	rl.PopMatrix()

	rl.MatrixMode(rl.Modelview)
	rl.LoadIdentity()

	rl.DisableDepthTest()
}

// Draw renders the ground grid and count entries of buf. Must be called
// between BeginScene and EndScene.
func (s *SceneRenderer) Draw(buf []float32, count int) {
	rl.DrawGrid(s.gridSlices, s.gridStep)

	stride := s.layout.EntryFloats
	for i := 0; i < count; i++ {
		entry := buf[i*stride : (i+1)*stride]

		rl.PushMatrix()
		rl.MultMatrix(ToMatrix(entry[:s.layout.MatrixFloats]))
		rl.DrawCube(rl.Vector3{}, 1, 1, 1, ToColor(entry[s.layout.MatrixFloats:]))
		rl.DrawCubeWires(rl.Vector3{}, 1, 1, 1, s.wireColor)
		rl.PopMatrix()
	}
}

// ToMatrix converts 16 column-major floats to a raylib matrix.
func ToMatrix(f []float32) rl.Matrix {
	return rl.Matrix{
		M0: f[0], M1: f[1], M2: f[2], M3: f[3],
		M4: f[4], M5: f[5], M6: f[6], M7: f[7],
		M8: f[8], M9: f[9], M10: f[10], M11: f[11],
		M12: f[12], M13: f[13], M14: f[14], M15: f[15],
	}
}

// ToColor converts normalized RGBA floats to an 8-bit color.
func ToColor(rgba []float32) color.RGBA {
	return rl.NewColor(channel(rgba[0]), channel(rgba[1]), channel(rgba[2]), channel(rgba[3]))
}

func channel(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
