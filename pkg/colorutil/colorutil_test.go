package colorutil

import (
	"image/color"
	"testing"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want color.RGBA
	}{
		{"known name", "steelblue", SteelBlue},
		{"case and whitespace", "  SteelBlue ", SteelBlue},
		{"unknown falls back", "notacolor", Black},
		{"empty falls back", "", Black},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.in, Black); got != tt.want {
				t.Errorf("Resolve(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestWithAlpha(t *testing.T) {
	c := WithAlpha(SteelBlue, 128)
	if c.A != 128 || c.R != SteelBlue.R {
		t.Errorf("WithAlpha changed more than alpha: %v", c)
	}
}

func TestComponents(t *testing.T) {
	r, g, b := Components(SteelBlue)
	if r != 70 || g != 130 || b != 180 {
		t.Errorf("Components = %d,%d,%d", r, g, b)
	}
}
