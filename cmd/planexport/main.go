// Command planexport renders a saved floor plan project to PDF without
// starting the GUI.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"floorplan/internal/app"
	"floorplan/internal/engine"
	"floorplan/internal/export"
	"floorplan/internal/object"
	"floorplan/pkg/geometry"
)

func main() {
	out := flag.String("out", "", "Output PDF path (default: input with .pdf extension)")
	paper := flag.String("paper", "", "Paper size: A5, A4, A3, Letter, Legal (default: from project)")
	margin := flag.Float64("margin", 10, "Page margin in mm")
	gridMM := flag.Float64("grid", 0, "Reference grid pitch on the page in mm (0 disables)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Println("Usage: planexport [-out plan.pdf] [-paper A4] [-margin 10] [-grid 0] <project" + app.ProjectExt + ">")
		os.Exit(1)
	}
	inPath := flag.Arg(0)

	data, err := os.ReadFile(inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read project: %v\n", err)
		os.Exit(1)
	}

	var proj app.ProjectFile
	if err := json.Unmarshal(data, &proj); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to parse project: %v\n", err)
		os.Exit(1)
	}

	doc := proj.Document

	opts := export.DefaultOptions()
	opts.MarginMM = *margin
	opts.GridMM = *gridMM
	if doc.PaperSize != "" {
		opts.PaperSize = doc.PaperSize
	}
	if *paper != "" {
		opts.PaperSize = *paper
	}

	outPath := *out
	if outPath == "" {
		outPath = strings.TrimSuffix(inPath, app.ProjectExt) + ".pdf"
	}

	if err := export.PDF(outPath, doc, totalRoomArea(doc), opts); err != nil {
		fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Exported %d strokes to %s (%s)\n", len(doc.Strokes), outPath, opts.PaperSize)
}

// totalRoomArea sums the enclosed area of every closed room stroke.
func totalRoomArea(doc engine.Document) float64 {
	var total float64
	for _, st := range doc.Strokes {
		if st.Type == object.StrokeRoom && st.Closed && len(st.Points) >= 3 {
			total += geometry.Area(st.Points)
		}
	}
	return total
}
