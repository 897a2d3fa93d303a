// Package surface defines the drawing-surface contract the engine mutates
// and queries. The surface is the single source of truth for what is on
// screen: managers partition its object list through the kind tags instead of
// keeping caches of their own.
package surface

import (
	"floorplan/internal/object"
	"floorplan/pkg/geometry"
)

// Surface is the rendering canvas collaborator. Implementations must accept
// bulk insertion so a full grid build costs one Add and one repaint, not one
// per line.
type Surface interface {
	// Add inserts objects onto the surface in one batch.
	Add(objs []*object.Object) error

	// Remove deletes the object with the given ID, reporting whether it
	// was present.
	Remove(id string) bool

	// Objects returns the current object list in insertion order. Callers
	// must not mutate the returned slice.
	Objects() []*object.Object

	// Contains reports whether the object with the given ID is still on
	// the surface.
	Contains(id string) bool

	// RequestRepaint asks the surface to redraw. Mutations do not repaint
	// implicitly.
	RequestRepaint()

	// Bounds returns the surface extent in model units.
	Bounds() geometry.Rect
}

// StrokeSource is implemented by surfaces that capture pointer input.
// The callback receives the raw polyline of a completed drag.
type StrokeSource interface {
	OnStrokeCompleted(fn func(points []geometry.Point2D))
}
