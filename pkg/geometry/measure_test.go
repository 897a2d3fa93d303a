package geometry

import (
	"math"
	"testing"
)

func TestDistanceBetween(t *testing.T) {
	tests := []struct {
		name string
		a, b Point2D
		want float64
	}{
		{"3-4-5 triangle", Point2D{0, 0}, Point2D{3, 4}, 5},
		{"same point", Point2D{2, 2}, Point2D{2, 2}, 0},
		{"negative quadrant", Point2D{-1, -1}, Point2D{-4, -5}, 5},
		{"NaN normalized", Point2D{math.NaN(), 0}, Point2D{3, 4}, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DistanceBetween(tt.a, tt.b); !approxEqual(got, tt.want) {
				t.Errorf("DistanceBetween(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestAngleBetween(t *testing.T) {
	tests := []struct {
		name string
		a, b Point2D
		want float64
	}{
		{"east", Point2D{0, 0}, Point2D{5, 0}, 0},
		{"north", Point2D{0, 0}, Point2D{0, 5}, 90},
		{"west", Point2D{0, 0}, Point2D{-5, 0}, 180},
		{"south normalized positive", Point2D{0, 0}, Point2D{0, -5}, 270},
		{"diagonal", Point2D{1, 1}, Point2D{2, 2}, 45},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AngleBetween(tt.a, tt.b)
			if !approxEqual(got, tt.want) {
				t.Errorf("AngleBetween(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			if got < 0 || got >= 360 {
				t.Errorf("angle %v outside [0, 360)", got)
			}
		})
	}
}

func TestNearestStandardAngle(t *testing.T) {
	tests := []struct {
		name      string
		angle     float64
		tolerance float64
		want      float64
		wantOK    bool
	}{
		{"exactly 45", 45, 5, 45, true},
		{"close to 90", 87.5, 5, 90, true},
		{"between candidates", 22.5, 5, 0, false},
		{"near 360 wraps", 358, 5, 360, true},
		{"negative angle normalized", -2, 5, 360, true},
		{"zero tolerance exact only", 45, 0, 45, true},
		{"NaN rejected", math.NaN(), 5, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NearestStandardAngle(tt.angle, tt.tolerance)
			if ok != tt.wantOK {
				t.Fatalf("NearestStandardAngle(%v, %v) ok = %v, want %v", tt.angle, tt.tolerance, ok, tt.wantOK)
			}
			if ok && !approxEqual(got, tt.want) {
				t.Errorf("NearestStandardAngle(%v, %v) = %v, want %v", tt.angle, tt.tolerance, got, tt.want)
			}
		})
	}
}
