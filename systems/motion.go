// Package systems contains the per-frame systems of the scene engine.
package systems

import (
	"github.com/pthm-cable/scenecore/components"
	"github.com/pthm-cable/scenecore/store"
)

// MotionSystem advances transforms by velocity.
type MotionSystem struct {
	store    *store.Store
	spinRate float32
}

// NewMotionSystem creates a new motion system.
func NewMotionSystem(s *store.Store, spinRate float32) *MotionSystem {
	return &MotionSystem{store: s, spinRate: spinRate}
}

// Update moves every entity with both a transform and a velocity by
// velocity*delta and spins it about Y at a constant rate.
func (m *MotionSystem) Update(delta float32) {
	m.store.EachMoving(func(t *components.Transform, v *components.Velocity) {
		t.Position = t.Position.Add(v.Linear.Mul(delta))
		t.Rotation[1] += m.spinRate * delta
	})
}
