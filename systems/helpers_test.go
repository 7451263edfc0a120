package systems

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/scenecore/components"
	"github.com/pthm-cable/scenecore/store"
)

const tol = 1e-5

var (
	nan32 = float32(math.NaN())
	inf32 = float32(math.Inf(1))
)

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) <= tol
}

// spawn creates an entity with a unit-scale transform at pos.
func spawn(t *testing.T, s *store.Store, pos mgl32.Vec3) components.Entity {
	t.Helper()
	id := s.Create()
	err := s.SetTransform(id, components.Transform{Position: pos, Scale: mgl32.Vec3{1, 1, 1}})
	if err != nil {
		t.Fatalf("set transform: %v", err)
	}
	return id
}

func selected(t *testing.T, s *store.Store, id components.Entity) bool {
	t.Helper()
	slot, err := s.Slot(id)
	if err != nil {
		t.Fatalf("slot %d: %v", id, err)
	}
	return slot.Selected
}

func setSelected(t *testing.T, s *store.Store, id components.Entity, v bool) {
	t.Helper()
	slot, err := s.Slot(id)
	if err != nil {
		t.Fatalf("slot %d: %v", id, err)
	}
	slot.Selected = v
}

func position(t *testing.T, s *store.Store, id components.Entity) mgl32.Vec3 {
	t.Helper()
	tr, err := s.Transform(id)
	if err != nil || tr == nil {
		t.Fatalf("transform %d: %v", id, err)
	}
	return tr.Position
}
