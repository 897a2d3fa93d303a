package export

import (
	"os"
	"path/filepath"
	"testing"

	"floorplan/internal/engine"
	"floorplan/internal/object"
	"floorplan/pkg/geometry"
)

func sampleDocument() engine.Document {
	return engine.Document{
		Label:     "Test flat",
		PaperSize: "A4",
		Strokes: []engine.Stroke{
			{
				Points: []geometry.Point2D{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 3}, {X: 0, Y: 3}},
				Type:   object.StrokeRoom,
				Closed: true,
				Color:  "steelblue",
				Width:  2,
			},
			{
				Points: []geometry.Point2D{{X: 1, Y: 1}, {X: 3, Y: 1}},
				Type:   object.StrokeStraight,
				Color:  "black",
				Width:  1,
			},
		},
	}
}

func TestPDFWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.pdf")

	if err := PDF(path, sampleDocument(), 12, DefaultOptions()); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Error("exported PDF is empty")
	}
}

func TestPDFWithGridAndEmptyDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pdf")
	opts := DefaultOptions()
	opts.GridMM = 10

	if err := PDF(path, engine.Document{}, 0, opts); err != nil {
		t.Fatalf("empty document must still export: %v", err)
	}
}

func TestPDFRejectsUnknownPaperSize(t *testing.T) {
	opts := DefaultOptions()
	opts.PaperSize = "B7"
	err := PDF(filepath.Join(t.TempDir(), "x.pdf"), sampleDocument(), 0, opts)
	if err == nil {
		t.Error("expected error for unknown paper size")
	}
}

func TestFitToPageCentersAndScales(t *testing.T) {
	bounds := geometry.NewRect(0, 0, 10, 10)
	scale, offX, offY := fitToPage(bounds, 210, 297, 10)

	if scale <= 0 {
		t.Fatalf("scale = %v", scale)
	}
	// Width is the limiting dimension for a square plan on A4.
	if got := bounds.Width * scale; got != 190 {
		t.Errorf("scaled width = %v, want 190", got)
	}
	if offX != 10 {
		t.Errorf("offX = %v, want margin", offX)
	}
	if offY <= 10 {
		t.Errorf("offY = %v, square plan should center vertically", offY)
	}
}
