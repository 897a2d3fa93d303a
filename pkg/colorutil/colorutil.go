// Package colorutil resolves the color names stored on drawing objects into
// concrete colors for rendering and export.
package colorutil

import (
	"image/color"
	"strings"

	"golang.org/x/image/colornames"
)

// Common drawing colors.
var (
	Black     = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	SteelBlue = color.RGBA{R: 70, G: 130, B: 180, A: 255}
	LightGray = color.RGBA{R: 211, G: 211, B: 211, A: 255}
	Gray      = color.RGBA{R: 128, G: 128, B: 128, A: 255}
	DimGray   = color.RGBA{R: 105, G: 105, B: 105, A: 255}
)

// Resolve maps a CSS color name to its RGBA value, falling back when the
// name is unknown or empty.
func Resolve(name string, fallback color.RGBA) color.RGBA {
	if c, ok := colornames.Map[strings.ToLower(strings.TrimSpace(name))]; ok {
		return c
	}
	return fallback
}

// WithAlpha returns the color with its alpha channel replaced.
func WithAlpha(c color.RGBA, a uint8) color.RGBA {
	c.A = a
	return c
}

// Components returns the 8-bit channel values as ints, the form PDF and
// raster drawing APIs take.
func Components(c color.RGBA) (r, g, b int) {
	return int(c.R), int(c.G), int(c.B)
}
