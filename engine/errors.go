package engine

import (
	"errors"

	"github.com/pthm-cable/scenecore/store"
)

var (
	// ErrInvalidEntity is returned for ids outside the allocated range.
	ErrInvalidEntity = store.ErrInvalidEntity

	// ErrNoTransform is returned when a transform edit targets an entity without one.
	ErrNoTransform = errors.New("entity has no transform")

	// ErrCameraAbsent is returned by camera operations before SetCamera.
	// The call is a no-op; hosts may ignore it.
	ErrCameraAbsent = errors.New("camera not configured")

	// ErrDegenerateRay marks a ray with no usable direction. Pick and drag
	// absorb it as a miss; it is only surfaced by ValidateRay.
	ErrDegenerateRay = errors.New("degenerate ray")
)
