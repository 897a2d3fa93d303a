package geometry

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) <= epsilon
}

func TestSnapToGrid(t *testing.T) {
	tests := []struct {
		name    string
		in      Point2D
		spacing float64
		want    Point2D
	}{
		{"already on grid", Point2D{X: 2, Y: 4}, 1, Point2D{X: 2, Y: 4}},
		{"rounds to nearest", Point2D{X: 2.3, Y: 4.7}, 1, Point2D{X: 2, Y: 5}},
		{"half rounds away from zero", Point2D{X: 2.5, Y: 0.25}, 1, Point2D{X: 3, Y: 0}},
		{"negative half rounds away from zero", Point2D{X: -2.5, Y: -0.5}, 1, Point2D{X: -3, Y: -1}},
		{"fractional spacing", Point2D{X: 0.26, Y: 0.74}, 0.5, Point2D{X: 0.5, Y: 0.5}},
		{"zero spacing is identity", Point2D{X: 1.23, Y: 4.56}, 0, Point2D{X: 1.23, Y: 4.56}},
		{"negative spacing is identity", Point2D{X: 1.23, Y: 4.56}, -2, Point2D{X: 1.23, Y: 4.56}},
		{"NaN coordinate normalized to zero", Point2D{X: math.NaN(), Y: 3.4}, 1, Point2D{X: 0, Y: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SnapToGrid(tt.in, tt.spacing)
			if !approxEqual(got.X, tt.want.X) || !approxEqual(got.Y, tt.want.Y) {
				t.Errorf("SnapToGrid(%v, %v) = %v, want %v", tt.in, tt.spacing, got, tt.want)
			}
		})
	}
}

func TestSnapToGridIdempotent(t *testing.T) {
	points := []Point2D{
		{X: 2.3, Y: 4.7},
		{X: -1.49, Y: -8.51},
		{X: 0.5, Y: -0.5},
		{X: 1234.567, Y: -9876.543},
	}
	spacings := []float64{0.25, 0.5, 1, 2.5}

	for _, p := range points {
		for _, s := range spacings {
			once := SnapToGrid(p, s)
			twice := SnapToGrid(once, s)
			if once != twice {
				t.Errorf("snap not idempotent for %v spacing %v: %v != %v", p, s, once, twice)
			}
		}
	}
}

func TestSnapLineToGrid(t *testing.T) {
	tests := []struct {
		name       string
		start, end Point2D
		spacing    float64
		wantStart  Point2D
		wantEnd    Point2D
	}{
		{
			name:  "near-horizontal collapses vertical drift",
			start: Point2D{X: 0.1, Y: 0.1}, end: Point2D{X: 5.1, Y: 0.9},
			spacing:   1,
			wantStart: Point2D{X: 0, Y: 0}, wantEnd: Point2D{X: 5, Y: 0},
		},
		{
			name:  "near-vertical collapses horizontal drift",
			start: Point2D{X: 2.1, Y: 0}, end: Point2D{X: 2.9, Y: 6.1},
			spacing:   1,
			wantStart: Point2D{X: 2, Y: 0}, wantEnd: Point2D{X: 2, Y: 6},
		},
		{
			name:  "diagonal is left alone",
			start: Point2D{X: 0, Y: 0}, end: Point2D{X: 4.1, Y: 3.9},
			spacing:   1,
			wantStart: Point2D{X: 0, Y: 0}, wantEnd: Point2D{X: 4, Y: 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotStart, gotEnd := SnapLineToGrid(tt.start, tt.end, tt.spacing)
			if gotStart != tt.wantStart || gotEnd != tt.wantEnd {
				t.Errorf("SnapLineToGrid(%v, %v, %v) = %v, %v; want %v, %v",
					tt.start, tt.end, tt.spacing, gotStart, gotEnd, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestStraightenStroke(t *testing.T) {
	t.Run("wobbly horizontal drag becomes two points", func(t *testing.T) {
		stroke := []Point2D{
			{X: 0, Y: 0.05}, {X: 1, Y: -0.03}, {X: 2, Y: 0.08},
			{X: 3, Y: -0.06}, {X: 4, Y: 0.02},
		}
		got := StraightenStroke(stroke)
		if len(got) != 2 {
			t.Fatalf("expected 2 points, got %d", len(got))
		}
		if !approxEqual(got[0].X, 0) || !approxEqual(got[1].X, 4) {
			t.Errorf("endpoints should span the stroke extent: %v", got)
		}
		if math.Abs(got[0].Y) > 0.1 || math.Abs(got[1].Y) > 0.1 {
			t.Errorf("trend line should stay near y=0: %v", got)
		}
	})

	t.Run("near-vertical stroke does not degenerate", func(t *testing.T) {
		stroke := []Point2D{
			{X: 1.02, Y: 0}, {X: 0.97, Y: 1}, {X: 1.04, Y: 2}, {X: 0.99, Y: 3},
		}
		got := StraightenStroke(stroke)
		if len(got) != 2 {
			t.Fatalf("expected 2 points, got %d", len(got))
		}
		if !approxEqual(got[0].Y, 0) || !approxEqual(got[1].Y, 3) {
			t.Errorf("endpoints should span vertical extent: %v", got)
		}
		if math.Abs(got[0].X-1) > 0.1 || math.Abs(got[1].X-1) > 0.1 {
			t.Errorf("trend line should stay near x=1: %v", got)
		}
	})

	t.Run("degenerate input passes through", func(t *testing.T) {
		if got := StraightenStroke(nil); len(got) != 0 {
			t.Errorf("nil stroke should stay empty, got %v", got)
		}
		single := []Point2D{{X: 1, Y: 2}}
		if got := StraightenStroke(single); len(got) != 1 || got[0] != single[0] {
			t.Errorf("single point should pass through, got %v", got)
		}
	})
}
