package geometry

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// SnapToGrid constrains a point to the nearest multiple of spacing on both
// axes. Halfway values round away from zero, so the rule is symmetric for
// negative coordinates. The operation is idempotent: snapping an already
// snapped point is a no-op. A non-positive spacing returns the point
// unchanged (sanitized).
func SnapToGrid(p Point2D, spacing float64) Point2D {
	p = p.Sanitize()
	if spacing <= 0 || math.IsNaN(spacing) || math.IsInf(spacing, 0) {
		return p
	}
	return Point2D{
		X: math.Round(p.X/spacing) * spacing,
		Y: math.Round(p.Y/spacing) * spacing,
	}
}

// SnapLineToGrid snaps both endpoints of a line to the grid, then straightens
// the line onto an axis when it is nearly horizontal or vertical. Whichever
// post-snap delta (|dx| vs |dy|) is smaller identifies the axis the line was
// closer to; if that delta is within one grid cell the end point is forced to
// share the start's coordinate on that axis.
func SnapLineToGrid(start, end Point2D, spacing float64) (Point2D, Point2D) {
	a := SnapToGrid(start, spacing)
	b := SnapToGrid(end, spacing)
	if spacing <= 0 {
		return a, b
	}

	dx := math.Abs(b.X - a.X)
	dy := math.Abs(b.Y - a.Y)
	if dx <= dy {
		// Closer to vertical: collapse the residual horizontal drift.
		if dx <= spacing {
			b.X = a.X
		}
	} else {
		if dy <= spacing {
			b.Y = a.Y
		}
	}
	return a, b
}

// StraightenStroke collapses a freehand stroke drawn under the straight-line
// tool to the two endpoints of its dominant trend. The trend is a
// least-squares regression through the sampled points; the stroke's extreme
// coordinates along the dominant axis are projected onto the trend line, so a
// wobbly drag becomes a single clean segment rather than a simplified
// polyline.
func StraightenStroke(points []Point2D) []Point2D {
	pts := SanitizePoints(points)
	if len(pts) < 2 {
		return pts
	}
	if len(pts) == 2 {
		return pts
	}

	box := BoundingBox(pts)
	xs := make([]float64, len(pts))
	ys := make([]float64, len(pts))

	if box.Width >= box.Height {
		// Horizontal-dominant: regress y on x.
		for i, p := range pts {
			xs[i], ys[i] = p.X, p.Y
		}
		alpha, beta := stat.LinearRegression(xs, ys, nil, false)
		if math.IsNaN(alpha) || math.IsNaN(beta) {
			return []Point2D{pts[0], pts[len(pts)-1]}
		}
		x0, x1 := pts[0].X, pts[len(pts)-1].X
		return []Point2D{
			{X: x0, Y: alpha + beta*x0},
			{X: x1, Y: alpha + beta*x1},
		}
	}

	// Vertical-dominant: regress x on y so a near-vertical stroke does not
	// blow up the slope.
	for i, p := range pts {
		xs[i], ys[i] = p.Y, p.X
	}
	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	if math.IsNaN(alpha) || math.IsNaN(beta) {
		return []Point2D{pts[0], pts[len(pts)-1]}
	}
	y0, y1 := pts[0].Y, pts[len(pts)-1].Y
	return []Point2D{
		{X: alpha + beta*y0, Y: y0},
		{X: alpha + beta*y1, Y: y1},
	}
}
