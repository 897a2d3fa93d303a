package geometry

import "math"

// standardAngleStep is the interval between the reference angles offered as
// measurement feedback (0, 45, 90, ... 360 degrees).
const standardAngleStep = 45.0

// DistanceBetween returns the Euclidean distance between two points after
// sanitizing both.
func DistanceBetween(a, b Point2D) float64 {
	return a.Sanitize().Distance(b.Sanitize())
}

// AngleBetween returns the angle of the segment from a to b in degrees,
// normalized to [0, 360). The angle is measured from the positive X axis via
// atan2, so a horizontal left-to-right segment is 0 and straight up is 90 in
// model coordinates.
func AngleBetween(a, b Point2D) float64 {
	a = a.Sanitize()
	b = b.Sanitize()
	deg := math.Atan2(b.Y-a.Y, b.X-a.X) * 180 / math.Pi
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// NearestStandardAngle returns the closest multiple of 45 degrees if the
// given angle lies within tolerance of it, for measurement-feedback display.
// The boolean reports whether a standard angle was within tolerance; the
// input is never modified to the snapped value by the drawing path itself.
func NearestStandardAngle(angle, tolerance float64) (float64, bool) {
	if math.IsNaN(angle) || math.IsInf(angle, 0) || tolerance < 0 {
		return 0, false
	}
	norm := math.Mod(angle, 360)
	if norm < 0 {
		norm += 360
	}

	best := 0.0
	bestDiff := math.MaxFloat64
	for candidate := 0.0; candidate <= 360; candidate += standardAngleStep {
		diff := math.Abs(norm - candidate)
		if diff < bestDiff {
			bestDiff = diff
			best = candidate
		}
	}
	if bestDiff <= tolerance {
		return best, true
	}
	return 0, false
}
