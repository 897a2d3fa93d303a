package canvas

import (
	"image"
	"image/color"
	"sort"

	"floorplan/internal/object"
	"floorplan/pkg/colorutil"
	"floorplan/pkg/geometry"
)

var (
	backgroundColor = color.RGBA{R: 250, G: 250, B: 248, A: 255}
	pendingColor    = color.RGBA{R: 255, G: 140, B: 0, A: 255}
	roomFillAlpha   = uint8(40)
)

// draw renders the full scene into the raster buffer: grid first, then
// drawing content, then measurement overlays, ordered by each object's
// z-order band.
func (pc *PlanCanvas) draw(w, h int) image.Image {
	output := image.NewRGBA(image.Rect(0, 0, w, h))
	fill(output, backgroundColor)

	objs := pc.store.Objects()
	sorted := make([]*object.Object, len(objs))
	copy(sorted, objs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ZOrder < sorted[j].ZOrder
	})

	for _, o := range sorted {
		pc.drawObject(output, o)
	}

	if len(pc.pending) > 1 {
		pc.drawPolyline(output, pc.pending, false, pendingColor, 2)
	}

	return output
}

func (pc *PlanCanvas) drawObject(output *image.RGBA, o *object.Object) {
	if o == nil || len(o.Points) < 2 {
		return
	}

	c := colorutil.Resolve(o.Style.Stroke, colorutil.Black)
	thickness := int(o.Style.Width)
	if thickness < 1 {
		thickness = 1
	}

	if o.Kind == object.KindRoom && o.Closed && len(o.Points) >= 3 {
		fillCol := colorutil.WithAlpha(colorutil.Resolve(o.Style.Fill, c), roomFillAlpha)
		pc.fillPolygon(output, o.Points, fillCol)
	}

	pc.drawPolyline(output, o.Points, o.Closed, c, thickness)
}

// drawPolyline draws the segments between consecutive points, closing the
// loop when requested.
func (pc *PlanCanvas) drawPolyline(output *image.RGBA, pts []geometry.Point2D, closed bool, col color.RGBA, thickness int) {
	for i := 1; i < len(pts); i++ {
		x1, y1 := pc.ModelToPixel(pts[i-1])
		x2, y2 := pc.ModelToPixel(pts[i])
		drawLine(output, int(x1), int(y1), int(x2), int(y2), col, thickness)
	}
	if closed && len(pts) > 2 {
		x1, y1 := pc.ModelToPixel(pts[len(pts)-1])
		x2, y2 := pc.ModelToPixel(pts[0])
		drawLine(output, int(x1), int(y1), int(x2), int(y2), col, thickness)
	}
}

// fillPolygon fills a closed region using a scanline pass, alpha blending
// the fill over whatever is already drawn.
func (pc *PlanCanvas) fillPolygon(output *image.RGBA, pts []geometry.Point2D, col color.RGBA) {
	bounds := output.Bounds()

	scaled := make([]geometry.Point2D, len(pts))
	minY, maxY := 1e18, -1e18
	for i, p := range pts {
		x, y := pc.ModelToPixel(p)
		scaled[i] = geometry.Point2D{X: x, Y: y}
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
	}

	alpha := float64(col.A) / 255.0
	inv := 1 - alpha

	for y := int(minY); y <= int(maxY); y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}

		var xs []float64
		n := len(scaled)
		for i := 0; i < n; i++ {
			p1 := scaled[i]
			p2 := scaled[(i+1)%n]
			if (p1.Y <= float64(y) && p2.Y > float64(y)) ||
				(p2.Y <= float64(y) && p1.Y > float64(y)) {
				t := (float64(y) - p1.Y) / (p2.Y - p1.Y)
				xs = append(xs, p1.X+t*(p2.X-p1.X))
			}
		}
		sort.Float64s(xs)

		for i := 0; i+1 < len(xs); i += 2 {
			for x := int(xs[i]); x <= int(xs[i+1]); x++ {
				if x < bounds.Min.X || x >= bounds.Max.X {
					continue
				}
				existing := output.RGBAAt(x, y)
				output.SetRGBA(x, y, color.RGBA{
					R: uint8(float64(col.R)*alpha + float64(existing.R)*inv),
					G: uint8(float64(col.G)*alpha + float64(existing.G)*inv),
					B: uint8(float64(col.B)*alpha + float64(existing.B)*inv),
					A: 255,
				})
			}
		}
	}
}

// drawLine draws a line between two points using Bresenham's algorithm.
func drawLine(output *image.RGBA, x1, y1, x2, y2 int, col color.RGBA, thickness int) {
	bounds := output.Bounds()

	dx := x2 - x1
	dy := y2 - y1
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		for t := -thickness / 2; t <= thickness/2; t++ {
			for s := -thickness / 2; s <= thickness/2; s++ {
				px, py := x1+s, y1+t
				if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
					output.SetRGBA(px, py, col)
				}
			}
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

func fill(output *image.RGBA, col color.RGBA) {
	for i := 0; i < len(output.Pix); i += 4 {
		output.Pix[i] = col.R
		output.Pix[i+1] = col.G
		output.Pix[i+2] = col.B
		output.Pix[i+3] = col.A
	}
}
