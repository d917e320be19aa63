package hwsurface

import (
	"errors"
	"fmt"
	"image"
)

// Errors returned by Device operations.
var (
	// ErrSurfaceCreationFailed is returned when the binding refuses to
	// allocate the native resources of a surface. Use errors.Is; the
	// concrete error is a *SurfaceCreationError.
	ErrSurfaceCreationFailed = errors.New("hwsurface: surface creation failed")

	// ErrWidgetAttached is returned when an off-screen-only operation is
	// applied to a window surface.
	ErrWidgetAttached = errors.New("hwsurface: surface has a native widget attached")

	// ErrNoWidgetAttached is returned when a window-only operation is
	// applied to an off-screen surface.
	ErrNoWidgetAttached = errors.New("hwsurface: surface has no native widget attached")

	// ErrIncompatibleSurface is returned when a surface is used with a
	// context other than the one that created it. The surface is leaked.
	ErrIncompatibleSurface = errors.New("hwsurface: surface belongs to another context")

	// ErrUnimplemented is returned for capabilities this platform lacks.
	ErrUnimplemented = errors.New("hwsurface: unimplemented")

	// ErrMakeCurrentFailed is returned when a context cannot be made current.
	ErrMakeCurrentFailed = errors.New("hwsurface: failed to make context current")

	// ErrSurfaceInUse is returned when destroying a surface that is still
	// owned by a SurfaceTexture. Destroy the texture first.
	ErrSurfaceInUse = errors.New("hwsurface: surface is owned by a surface texture")

	// ErrSurfaceDestroyed is returned when a destroyed surface is used.
	ErrSurfaceDestroyed = errors.New("hwsurface: surface destroyed")

	// ErrContextDestroyed is returned when a destroyed context is used.
	ErrContextDestroyed = errors.New("hwsurface: context destroyed")

	// ErrNilBinding is returned by NewDevice for a nil binding.
	ErrNilBinding = errors.New("hwsurface: binding cannot be nil")
)

// SurfaceCreationError describes a refused surface allocation.
type SurfaceCreationError struct {
	// Size is the requested surface size.
	Size image.Point

	// Err is the binding error, if any.
	Err error
}

func (e *SurfaceCreationError) Error() string {
	msg := fmt.Sprintf("%v (%dx%d)", ErrSurfaceCreationFailed, e.Size.X, e.Size.Y)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the binding error.
func (e *SurfaceCreationError) Unwrap() error { return e.Err }

// Is reports ErrSurfaceCreationFailed as a match.
func (e *SurfaceCreationError) Is(target error) bool {
	return target == ErrSurfaceCreationFailed
}
