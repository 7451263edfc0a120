// Package store holds per-entity state in an ark world, indexed by engine entity id.
//
// Every entity carries a Slot component; Transform and Velocity are optional
// components added on demand. The ids slice maps an engine entity to its ark
// entity and is the arena every lookup goes through.
package store

import (
	"errors"
	"fmt"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/scenecore/components"
)

// ErrInvalidEntity is returned for ids outside the allocated range.
var ErrInvalidEntity = errors.New("invalid entity")

// Store owns entity identity allocation and component storage.
type Store struct {
	world *ecs.World
	ids   []ecs.Entity

	slotMap      *ecs.Map[components.Slot]
	transformMap *ecs.Map[components.Transform]
	velocityMap  *ecs.Map[components.Velocity]
	moving       *ecs.Filter2[components.Transform, components.Velocity]
}

// New creates an empty store.
func New() *Store {
	world := ecs.NewWorld()
	return &Store{
		world:        world,
		slotMap:      ecs.NewMap[components.Slot](world),
		transformMap: ecs.NewMap[components.Transform](world),
		velocityMap:  ecs.NewMap[components.Velocity](world),
		moving:       ecs.NewFilter2[components.Transform, components.Velocity](world),
	}
}

// World returns the underlying ark world.
func (s *Store) World() *ecs.World {
	return s.world
}

// Create allocates the next entity id with no transform or velocity.
func (s *Store) Create() components.Entity {
	id := components.Entity(len(s.ids))
	slot := components.Slot{ID: id}
	s.ids = append(s.ids, s.slotMap.NewEntity(&slot))
	return id
}

// Len returns the number of entities ever created.
func (s *Store) Len() int {
	return len(s.ids)
}

// Valid reports whether id is in the allocated range.
func (s *Store) Valid(id components.Entity) bool {
	return int(id) < len(s.ids)
}

func (s *Store) lookup(id components.Entity) (ecs.Entity, error) {
	if !s.Valid(id) {
		return ecs.Entity{}, fmt.Errorf("entity %d (have %d): %w", id, len(s.ids), ErrInvalidEntity)
	}
	return s.ids[id], nil
}

// SetTransform installs or overwrites the entity's transform.
func (s *Store) SetTransform(id components.Entity, t components.Transform) error {
	e, err := s.lookup(id)
	if err != nil {
		return err
	}
	if s.transformMap.Has(e) {
		*s.transformMap.Get(e) = t
		return nil
	}
	s.transformMap.Add(e, &t)
	return nil
}

// SetVelocity installs or overwrites the entity's velocity.
func (s *Store) SetVelocity(id components.Entity, v components.Velocity) error {
	e, err := s.lookup(id)
	if err != nil {
		return err
	}
	if s.velocityMap.Has(e) {
		*s.velocityMap.Get(e) = v
		return nil
	}
	s.velocityMap.Add(e, &v)
	return nil
}

// Transform returns a pointer to the entity's transform, or nil if it has none.
// The pointer is valid until the next structural change (entity creation or a
// first-time Set call).
func (s *Store) Transform(id components.Entity) (*components.Transform, error) {
	e, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	if !s.transformMap.Has(e) {
		return nil, nil
	}
	return s.transformMap.Get(e), nil
}

// Velocity returns a pointer to the entity's velocity, or nil if it has none.
func (s *Store) Velocity(id components.Entity) (*components.Velocity, error) {
	e, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	if !s.velocityMap.Has(e) {
		return nil, nil
	}
	return s.velocityMap.Get(e), nil
}

// Slot returns the entity's selection/drag slot.
func (s *Store) Slot(id components.Entity) (*components.Slot, error) {
	e, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	return s.slotMap.Get(e), nil
}

// Each visits every entity in ascending id order. t is nil for entities
// without a transform. Returning false stops the walk.
func (s *Store) Each(fn func(id components.Entity, slot *components.Slot, t *components.Transform) bool) {
	for i, e := range s.ids {
		var t *components.Transform
		if s.transformMap.Has(e) {
			t = s.transformMap.Get(e)
		}
		if !fn(components.Entity(i), s.slotMap.Get(e), t) {
			return
		}
	}
}

// EachMoving visits every entity that has both a transform and a velocity,
// in storage order.
func (s *Store) EachMoving(fn func(t *components.Transform, v *components.Velocity)) {
	query := s.moving.Query()
	for query.Next() {
		t, v := query.Get()
		fn(t, v)
	}
}
