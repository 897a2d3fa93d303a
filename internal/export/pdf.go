// Package export renders a floor plan document to PDF.
package export

import (
	"fmt"
	"math"

	"github.com/jung-kurt/gofpdf"

	"floorplan/internal/engine"
	"floorplan/pkg/colorutil"
	"floorplan/pkg/geometry"
)

// Options controls the page setup for a PDF export.
type Options struct {
	PaperSize string  // "A4", "A3", "A5", "Letter", "Legal"
	MarginMM  float64 // blank border on all sides
	GridMM    float64 // faint reference grid pitch on the page, 0 disables
}

// DefaultOptions returns A4 with a 10mm margin and no grid.
func DefaultOptions() Options {
	return Options{PaperSize: "A4", MarginMM: 10}
}

// paperSizes maps supported names to page dimensions in mm (portrait).
var paperSizes = map[string]struct{ w, h float64 }{
	"A5":     {148, 210},
	"A4":     {210, 297},
	"A3":     {297, 420},
	"Letter": {215.9, 279.4},
	"Legal":  {215.9, 355.6},
}

// PDF writes the document's strokes to a single-page PDF at path. The plan
// is scaled uniformly to fit inside the page margins, with the label and the
// total internal area printed along the bottom.
func PDF(path string, doc engine.Document, totalArea float64, opts Options) error {
	size, ok := paperSizes[opts.PaperSize]
	if !ok {
		return fmt.Errorf("unsupported paper size %q", opts.PaperSize)
	}

	bounds := documentBounds(doc)
	scale, offX, offY := fitToPage(bounds, size.w, size.h, opts.MarginMM)

	p := gofpdf.New("P", "mm", opts.PaperSize, "")
	p.AddPage()

	if opts.GridMM > 0 {
		drawPageGrid(p, size.w, size.h, opts.MarginMM, opts.GridMM)
	}

	for _, st := range doc.Strokes {
		if len(st.Points) < 2 {
			continue
		}
		c := colorutil.Resolve(st.Color, colorutil.Black)
		p.SetDrawColor(colorutil.Components(c))
		width := st.Width
		if width <= 0 {
			width = 1
		}
		p.SetLineWidth(width * 0.35)

		for i := 1; i < len(st.Points); i++ {
			a, b := st.Points[i-1], st.Points[i]
			p.Line(
				offX+(a.X-bounds.X)*scale, offY+(a.Y-bounds.Y)*scale,
				offX+(b.X-bounds.X)*scale, offY+(b.Y-bounds.Y)*scale,
			)
		}
		if st.Closed {
			first, last := st.Points[0], st.Points[len(st.Points)-1]
			p.Line(
				offX+(last.X-bounds.X)*scale, offY+(last.Y-bounds.Y)*scale,
				offX+(first.X-bounds.X)*scale, offY+(first.Y-bounds.Y)*scale,
			)
		}
	}

	drawFooter(p, doc.Label, totalArea, size.w, size.h, opts.MarginMM)
	return p.OutputFileAndClose(path)
}

// documentBounds returns the bounding box of every stroke point, or a unit
// box for an empty document so the scale math stays finite.
func documentBounds(doc engine.Document) geometry.Rect {
	var pts []geometry.Point2D
	for _, st := range doc.Strokes {
		pts = append(pts, st.Points...)
	}
	b := geometry.BoundingBox(pts)
	if b.Empty() {
		return geometry.NewRect(b.X, b.Y, 1, 1)
	}
	return b
}

// fitToPage computes the uniform model-to-mm scale and page offsets that
// center the bounds inside the printable area.
func fitToPage(bounds geometry.Rect, pageW, pageH, margin float64) (scale, offX, offY float64) {
	innerW := pageW - 2*margin
	innerH := pageH - 2*margin - footerHeight
	scale = math.Min(innerW/bounds.Width, innerH/bounds.Height)
	offX = margin + (innerW-bounds.Width*scale)/2
	offY = margin + (innerH-bounds.Height*scale)/2
	return scale, offX, offY
}

const footerHeight = 12.0

func drawPageGrid(p *gofpdf.Fpdf, pageW, pageH, margin, pitch float64) {
	p.SetDrawColor(colorutil.Components(colorutil.LightGray))
	p.SetLineWidth(0.1)
	for x := margin; x <= pageW-margin; x += pitch {
		p.Line(x, margin, x, pageH-margin-footerHeight)
	}
	for y := margin; y <= pageH-margin-footerHeight; y += pitch {
		p.Line(margin, y, pageW-margin, y)
	}
}

func drawFooter(p *gofpdf.Fpdf, label string, totalArea, pageW, pageH, margin float64) {
	p.SetFont("Helvetica", "", 10)
	p.SetTextColor(colorutil.Components(colorutil.DimGray))

	y := pageH - margin - 4
	if label != "" {
		p.Text(margin, y, label)
	}
	area := fmt.Sprintf("Total internal area: %.2f m2", totalArea)
	p.Text(pageW-margin-p.GetStringWidth(area), y, area)
}
