package geometry

import "math"

// Area computes the enclosed area of a polygon using the shoelace formula.
// The vertex list is treated as implicitly closed (a duplicated final vertex
// is harmless). The result is the absolute area, so it is invariant to
// winding direction and to rotation of the vertex list. Fewer than three
// vertices enclose nothing and yield 0.
func Area(points []Point2D) float64 {
	pts := SanitizePoints(points)
	// Drop an explicit closing vertex so it isn't counted twice.
	if n := len(pts); n > 1 && pts[0] == pts[n-1] {
		pts = pts[:n-1]
	}
	if len(pts) < 3 {
		return 0
	}

	var sum float64
	n := len(pts)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return math.Abs(sum) / 2
}

// Perimeter returns the total edge length of a polyline. If closed is true
// the segment from the last vertex back to the first is included.
func Perimeter(points []Point2D, closed bool) float64 {
	pts := SanitizePoints(points)
	if len(pts) < 2 {
		return 0
	}
	var total float64
	for i := 1; i < len(pts); i++ {
		total += pts[i-1].Distance(pts[i])
	}
	if closed && len(pts) > 2 {
		total += pts[len(pts)-1].Distance(pts[0])
	}
	return total
}

// PointInPolygon tests if a point is inside a polygon using ray casting.
func PointInPolygon(p Point2D, polygon []Point2D) bool {
	if len(polygon) < 3 {
		return false
	}

	inside := false
	n := len(polygon)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		pi, pj := polygon[i], polygon[j]
		if ((pi.Y > p.Y) != (pj.Y > p.Y)) &&
			(p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X) {
			inside = !inside
		}
	}
	return inside
}
