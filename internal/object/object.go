// Package object defines the canvas object model and the kind tagging
// contract that partitions the drawing surface. Every object carries an
// explicit Kind set at construction; managers decide ownership by Kind alone
// and never infer a category from geometry.
package object

import (
	"time"

	"github.com/google/uuid"

	"floorplan/pkg/geometry"
)

// Kind identifies an object's category on the drawing surface.
type Kind int

const (
	KindGridMinor Kind = iota
	KindGridMajor
	KindScaleMarker
	KindStroke
	KindRoom
	KindMeasurement
)

// String returns the wire/debug name of the kind.
func (k Kind) String() string {
	switch k {
	case KindGridMinor:
		return "grid-minor"
	case KindGridMajor:
		return "grid-major"
	case KindScaleMarker:
		return "scale-marker"
	case KindStroke:
		return "stroke"
	case KindRoom:
		return "room"
	case KindMeasurement:
		return "measurement"
	default:
		return "unknown"
	}
}

// IsGrid reports whether the kind belongs to the reference grid overlay.
// Scale markers are grid furniture: they are built, verified, and rebuilt by
// the grid manager alongside the lines.
func (k Kind) IsGrid() bool {
	return k == KindGridMinor || k == KindGridMajor || k == KindScaleMarker
}

// IsDrawing reports whether the kind is user-authored drawing content, the
// only category ever captured in history snapshots.
func (k Kind) IsDrawing() bool {
	return k == KindStroke || k == KindRoom
}

// IsMeasurement reports whether the kind is transient measurement feedback.
func (k Kind) IsMeasurement() bool {
	return k == KindMeasurement
}

// StrokeType describes how a drawing stroke was authored.
type StrokeType string

const (
	StrokeFreehand StrokeType = "freehand"
	StrokeStraight StrokeType = "straight"
	StrokeRoom     StrokeType = "room"
)

// Style holds the visual attributes of an object. Colors are CSS/SVG color
// names resolved at render time.
type Style struct {
	Stroke string  `json:"stroke"`
	Width  float64 `json:"width"`
	Fill   string  `json:"fill,omitempty"`
}

// Object is a single item on the drawing surface.
type Object struct {
	ID         string             `json:"id"`
	Kind       Kind               `json:"kind"`
	Points     []geometry.Point2D `json:"points"`
	Style      Style              `json:"style"`
	Selectable bool               `json:"selectable"`
	ZOrder     int                `json:"z_order"`
	Closed     bool               `json:"closed"`
	StrokeType StrokeType         `json:"stroke_type,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
}

// Z-order bands. Grid sits below drawing content, measurements on top.
const (
	ZGrid        = 0
	ZDrawing     = 10
	ZMeasurement = 20
)

// New creates an object of the given kind with a fresh ID.
func New(kind Kind, points []geometry.Point2D, style Style) *Object {
	o := &Object{
		ID:        uuid.NewString(),
		Kind:      kind,
		Points:    points,
		Style:     style,
		CreatedAt: time.Now(),
	}
	switch {
	case kind.IsGrid():
		o.ZOrder = ZGrid
	case kind.IsMeasurement():
		o.ZOrder = ZMeasurement
	default:
		o.ZOrder = ZDrawing
		o.Selectable = true
	}
	return o
}

// NewStroke creates a user-authored stroke object.
func NewStroke(points []geometry.Point2D, typ StrokeType, style Style) *Object {
	o := New(KindStroke, points, style)
	o.StrokeType = typ
	return o
}

// NewRoom creates a closed room outline whose area is measurable.
func NewRoom(points []geometry.Point2D, style Style) *Object {
	o := New(KindRoom, points, style)
	o.StrokeType = StrokeRoom
	o.Closed = true
	return o
}

// Clone returns a deep copy of the object, preserving its ID. History
// snapshots clone so later surface mutations cannot reach back into a stored
// state.
func (o *Object) Clone() *Object {
	if o == nil {
		return nil
	}
	dup := *o
	dup.Points = make([]geometry.Point2D, len(o.Points))
	copy(dup.Points, o.Points)
	return &dup
}

// Bounds returns the axis-aligned bounding box of the object's points.
func (o *Object) Bounds() geometry.Rect {
	return geometry.BoundingBox(o.Points)
}

// FilterDrawing returns the drawing-kind subset of objs, order preserved.
func FilterDrawing(objs []*Object) []*Object {
	var out []*Object
	for _, o := range objs {
		if o != nil && o.Kind.IsDrawing() {
			out = append(out, o)
		}
	}
	return out
}

// FilterGrid returns the grid-kind subset of objs, order preserved.
func FilterGrid(objs []*Object) []*Object {
	var out []*Object
	for _, o := range objs {
		if o != nil && o.Kind.IsGrid() {
			out = append(out, o)
		}
	}
	return out
}
