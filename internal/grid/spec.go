package grid

import (
	"math"

	"floorplan/internal/object"
	"floorplan/pkg/geometry"
)

// Spec describes the reference grid overlay: line spacings, styling, and the
// surface bounds the grid was built for. Spacings are in model units
// (meters).
type Spec struct {
	MinorSpacing float64
	MajorSpacing float64

	MinorColor string
	MajorColor string
	MinorWidth float64
	MajorWidth float64

	// MarkerInterval is the distance between scale markers along the
	// bottom edge; MarkerLength is the tick length.
	MarkerInterval float64
	MarkerLength   float64
	MarkerColor    string

	// Bounds records the surface extent the grid was last built for.
	Bounds geometry.Rect
}

// DefaultSpec returns the standard floor-plan grid: quarter-meter minor
// lines, one-meter major lines, scale ticks every meter.
func DefaultSpec() Spec {
	return Spec{
		MinorSpacing:   0.25,
		MajorSpacing:   1.0,
		MinorColor:     "lightgray",
		MajorColor:     "gray",
		MinorWidth:     0.5,
		MajorWidth:     1.0,
		MarkerInterval: 1.0,
		MarkerLength:   0.1,
		MarkerColor:    "dimgray",
	}
}

// Validate reports whether the spec is buildable.
func (s Spec) Validate() error {
	if s.MinorSpacing <= 0 || s.MajorSpacing <= 0 {
		return newError(CodeInvalidBounds, "non-positive grid spacing (minor=%v major=%v)",
			s.MinorSpacing, s.MajorSpacing)
	}
	return nil
}

// EstimateMinorLines predicts how many minor grid lines a build over the
// given bounds would produce, so oversized surfaces can degrade to a
// major-only grid instead of stalling.
func (s Spec) EstimateMinorLines(bounds geometry.Rect) int {
	if s.MinorSpacing <= 0 || bounds.Empty() {
		return 0
	}
	vertical := int(bounds.Width/s.MinorSpacing) + 1
	horizontal := int(bounds.Height/s.MinorSpacing) + 1
	return vertical + horizontal
}

// BuildObjects computes the full grid object set for the given bounds in one
// pass: minor lines (unless suppressed by the density ceiling), major lines,
// and scale markers. The caller performs the single bulk insertion.
func BuildObjects(spec Spec, bounds geometry.Rect, includeMinor bool) []*object.Object {
	if bounds.Empty() {
		return nil
	}

	var objs []*object.Object
	x0, y0 := bounds.X, bounds.Y
	x1, y1 := bounds.X+bounds.Width, bounds.Y+bounds.Height

	minorStyle := object.Style{Stroke: spec.MinorColor, Width: spec.MinorWidth}
	majorStyle := object.Style{Stroke: spec.MajorColor, Width: spec.MajorWidth}
	markerStyle := object.Style{Stroke: spec.MarkerColor, Width: spec.MajorWidth}

	if includeMinor && spec.MinorSpacing > 0 {
		for x := firstMultiple(x0, spec.MinorSpacing); x <= x1; x += spec.MinorSpacing {
			if onMultiple(x, spec.MajorSpacing) {
				continue // major line covers this position
			}
			objs = append(objs, gridLine(object.KindGridMinor,
				geometry.Point2D{X: x, Y: y0}, geometry.Point2D{X: x, Y: y1}, minorStyle))
		}
		for y := firstMultiple(y0, spec.MinorSpacing); y <= y1; y += spec.MinorSpacing {
			if onMultiple(y, spec.MajorSpacing) {
				continue
			}
			objs = append(objs, gridLine(object.KindGridMinor,
				geometry.Point2D{X: x0, Y: y}, geometry.Point2D{X: x1, Y: y}, minorStyle))
		}
	}

	if spec.MajorSpacing > 0 {
		for x := firstMultiple(x0, spec.MajorSpacing); x <= x1; x += spec.MajorSpacing {
			objs = append(objs, gridLine(object.KindGridMajor,
				geometry.Point2D{X: x, Y: y0}, geometry.Point2D{X: x, Y: y1}, majorStyle))
		}
		for y := firstMultiple(y0, spec.MajorSpacing); y <= y1; y += spec.MajorSpacing {
			objs = append(objs, gridLine(object.KindGridMajor,
				geometry.Point2D{X: x0, Y: y}, geometry.Point2D{X: x1, Y: y}, majorStyle))
		}
	}

	if spec.MarkerInterval > 0 && spec.MarkerLength > 0 {
		for x := firstMultiple(x0, spec.MarkerInterval); x <= x1; x += spec.MarkerInterval {
			objs = append(objs, gridLine(object.KindScaleMarker,
				geometry.Point2D{X: x, Y: y0},
				geometry.Point2D{X: x, Y: y0 + spec.MarkerLength}, markerStyle))
		}
	}

	return objs
}

func gridLine(kind object.Kind, a, b geometry.Point2D, style object.Style) *object.Object {
	return object.New(kind, []geometry.Point2D{a, b}, style)
}

// firstMultiple returns the smallest multiple of spacing that is >= v.
func firstMultiple(v, spacing float64) float64 {
	return math.Ceil(v/spacing) * spacing
}

// onMultiple reports whether v sits on a multiple of spacing, within a small
// tolerance for float accumulation.
func onMultiple(v, spacing float64) bool {
	if spacing <= 0 {
		return false
	}
	rem := math.Abs(math.Mod(v, spacing))
	return rem < 1e-9 || spacing-rem < 1e-9
}
