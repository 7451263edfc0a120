package systems

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/scenecore/components"
	"github.com/pthm-cable/scenecore/matrix"
	"github.com/pthm-cable/scenecore/store"
)

// Render buffer layout.
const (
	MatrixFloats = 16
	ColorFloats  = 4
	EntryFloats  = MatrixFloats + ColorFloats
)

// RenderSystem packs model matrices and colors for the GPU layer.
type RenderSystem struct {
	store     *store.Store
	color     mgl32.Vec4
	highlight mgl32.Vec4

	buf   []float32
	count int
}

// NewRenderSystem creates a new render buffer builder.
func NewRenderSystem(s *store.Store, color, highlight mgl32.Vec4) *RenderSystem {
	return &RenderSystem{store: s, color: color, highlight: highlight}
}

// Update rebuilds the buffer: for each entity with a transform, in ascending
// id order, 16 floats of column-major model matrix then 4 floats of RGBA.
// Entities without a transform are skipped, not zero-filled.
func (r *RenderSystem) Update() {
	r.buf = r.buf[:0]
	r.count = 0

	r.store.Each(func(_ components.Entity, slot *components.Slot, t *components.Transform) bool {
		if t == nil {
			return true
		}
		m := matrix.Model(t.Position, t.Rotation[1], t.Scale)
		r.buf = append(r.buf, m[:]...)
		if slot.Selected {
			r.buf = append(r.buf, r.highlight[:]...)
		} else {
			r.buf = append(r.buf, r.color[:]...)
		}
		r.count++
		return true
	})
}

// Buffer returns the packed buffer. The slice aliases internal storage and
// is valid until the next Update.
func (r *RenderSystem) Buffer() []float32 {
	return r.buf
}

// Count returns the number of entries in the buffer.
func (r *RenderSystem) Count() int {
	return r.count
}
