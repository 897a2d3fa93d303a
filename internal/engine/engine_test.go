package engine

import (
	"testing"
	"time"

	"floorplan/internal/grid"
	"floorplan/internal/object"
	"floorplan/internal/sched"
	"floorplan/internal/surface"
	"floorplan/pkg/geometry"
)

func newTestEngine(t *testing.T) (*Engine, *surface.Memory, *sched.Manual) {
	t.Helper()
	surf := surface.NewMemory(geometry.NewRect(0, 0, 10, 8))
	clock := sched.NewManual(time.Unix(0, 0))
	opts := DefaultOptions()
	opts.Scheduler = clock
	e := New(surf, opts)
	t.Cleanup(e.Close)
	return e, surf, clock
}

func squarePoints(side float64) []geometry.Point2D {
	return []geometry.Point2D{
		{X: 0, Y: 0}, {X: side, Y: 0}, {X: side, Y: side}, {X: 0, Y: side},
	}
}

func TestAddStrokeFreehand(t *testing.T) {
	e, surf, _ := newTestEngine(t)

	obj, err := e.AddStroke([]geometry.Point2D{{X: 0.1, Y: 0.1}, {X: 1.9, Y: 2.2}}, ToolFreehand)
	if err != nil {
		t.Fatalf("AddStroke: %v", err)
	}
	if obj.Kind != object.KindStroke || obj.StrokeType != object.StrokeFreehand {
		t.Errorf("wrong tagging: kind=%v type=%v", obj.Kind, obj.StrokeType)
	}
	if !surf.Contains(obj.ID) {
		t.Error("stroke not placed on surface")
	}
	if !e.CanUndo() {
		t.Error("completed edit should be undoable")
	}
}

func TestAddStrokeStraightSnapsToAxis(t *testing.T) {
	e, _, _ := newTestEngine(t)

	wobbly := []geometry.Point2D{
		{X: 0.05, Y: 0.02}, {X: 1, Y: -0.04}, {X: 2, Y: 0.06},
		{X: 3, Y: -0.02}, {X: 4.05, Y: 0.03},
	}
	obj, err := e.AddStroke(wobbly, ToolStraight)
	if err != nil {
		t.Fatal(err)
	}
	if len(obj.Points) != 2 {
		t.Fatalf("straight stroke has %d points, want 2", len(obj.Points))
	}
	if obj.Points[0].Y != obj.Points[1].Y {
		t.Errorf("near-horizontal stroke not axis-aligned: %v", obj.Points)
	}
}

func TestAddStrokeRoomAndArea(t *testing.T) {
	e, _, _ := newTestEngine(t)

	obj, err := e.AddStroke(squarePoints(4), ToolRoom)
	if err != nil {
		t.Fatal(err)
	}
	if obj.Kind != object.KindRoom || !obj.Closed {
		t.Errorf("room tagging wrong: kind=%v closed=%v", obj.Kind, obj.Closed)
	}
	if got := e.TotalRoomArea(); got != 16 {
		t.Errorf("TotalRoomArea = %v, want 16", got)
	}
}

func TestAddStrokeRoomRejectsDegenerate(t *testing.T) {
	e, _, _ := newTestEngine(t)
	// All points snap onto the same grid node.
	_, err := e.AddStroke([]geometry.Point2D{{X: 0.01, Y: 0.01}, {X: 0.02, Y: 0.03}}, ToolRoom)
	if err == nil {
		t.Error("degenerate room accepted")
	}
}

func TestMeasureToolLeavesNoObject(t *testing.T) {
	e, surf, _ := newTestEngine(t)
	obj, err := e.AddStroke([]geometry.Point2D{{X: 0, Y: 0}, {X: 3, Y: 4}}, ToolMeasure)
	if err != nil || obj != nil {
		t.Fatalf("measure tool: obj=%v err=%v, want nil/nil", obj, err)
	}
	if len(surf.Objects()) != 0 {
		t.Error("measure tool left durable objects")
	}
	if e.CanUndo() {
		t.Error("measure tool polluted history")
	}
}

func TestMeasureSegmentFeedback(t *testing.T) {
	e, _, _ := newTestEngine(t)

	m := e.MeasureSegment(geometry.Point2D{X: 0, Y: 0}, geometry.Point2D{X: 3, Y: 4})
	if m.Distance != 5 {
		t.Errorf("distance = %v, want 5", m.Distance)
	}
	if m.OnStandard {
		t.Errorf("53.13 degrees flagged as standard angle")
	}

	m = e.MeasureSegment(geometry.Point2D{X: 0, Y: 0}, geometry.Point2D{X: 5, Y: 0.1})
	if !m.OnStandard || m.StandardAngle != 0 {
		t.Errorf("near-horizontal should report standard angle 0, got %+v", m)
	}
}

func TestUndoRedoRecomputesArea(t *testing.T) {
	e, _, _ := newTestEngine(t)

	if _, err := e.AddStroke(squarePoints(4), ToolRoom); err != nil {
		t.Fatal(err)
	}
	if _, err := e.AddStroke([]geometry.Point2D{{X: 5, Y: 5}, {X: 9, Y: 5}, {X: 9, Y: 7}, {X: 5, Y: 7}}, ToolRoom); err != nil {
		t.Fatal(err)
	}
	if got := e.TotalRoomArea(); got != 24 {
		t.Fatalf("area with both rooms = %v, want 24", got)
	}

	if !e.Undo() {
		t.Fatal("undo failed")
	}
	if got := e.TotalRoomArea(); got != 16 {
		t.Errorf("area after undo = %v, want 16", got)
	}

	if !e.Redo() {
		t.Fatal("redo failed")
	}
	if got := e.TotalRoomArea(); got != 24 {
		t.Errorf("area after redo = %v, want 24", got)
	}
}

func TestGridSurvivesUndo(t *testing.T) {
	e, surf, _ := newTestEngine(t)

	if _, err := e.EnsureGrid(grid.DefaultSpec()); err != nil {
		t.Fatal(err)
	}
	gridCount := len(object.FilterGrid(surf.Objects()))
	if gridCount == 0 {
		t.Fatal("no grid built")
	}

	if _, err := e.AddStroke(squarePoints(2), ToolRoom); err != nil {
		t.Fatal(err)
	}
	e.Undo()
	e.Redo()

	if got := len(object.FilterGrid(surf.Objects())); got != gridCount {
		t.Errorf("grid objects after undo/redo = %d, want %d", got, gridCount)
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	e, _, _ := newTestEngine(t)

	if _, err := e.AddStroke(squarePoints(4), ToolRoom); err != nil {
		t.Fatal(err)
	}
	if _, err := e.AddStroke([]geometry.Point2D{{X: 1, Y: 1}, {X: 2, Y: 2}}, ToolFreehand); err != nil {
		t.Fatal(err)
	}
	if _, err := e.EnsureGrid(grid.DefaultSpec()); err != nil {
		t.Fatal(err)
	}
	e.SetLabel("Flat 3B")
	e.SetPaperSize("A3")

	doc := e.Document()
	if len(doc.Strokes) != 2 {
		t.Fatalf("document has %d strokes, want 2 (grid must not persist)", len(doc.Strokes))
	}
	if doc.Label != "Flat 3B" || doc.PaperSize != "A3" {
		t.Errorf("document metadata = %q/%q", doc.Label, doc.PaperSize)
	}

	// Load into a fresh engine and compare content.
	surf2 := surface.NewMemory(geometry.NewRect(0, 0, 10, 8))
	opts := DefaultOptions()
	opts.Scheduler = sched.NewManual(time.Unix(0, 0))
	e2 := New(surf2, opts)
	defer e2.Close()

	if err := e2.LoadDocument(doc); err != nil {
		t.Fatal(err)
	}
	if got := e2.TotalRoomArea(); got != 16 {
		t.Errorf("area after load = %v, want 16", got)
	}
	if got := len(object.FilterDrawing(surf2.Objects())); got != 2 {
		t.Errorf("loaded %d drawing objects, want 2", got)
	}
	if e2.CanUndo() {
		t.Error("loaded document should be the undo baseline")
	}
}

func TestClearResetsHistoryAndKeepsGrid(t *testing.T) {
	e, surf, _ := newTestEngine(t)

	if _, err := e.EnsureGrid(grid.DefaultSpec()); err != nil {
		t.Fatal(err)
	}
	if _, err := e.AddStroke(squarePoints(2), ToolRoom); err != nil {
		t.Fatal(err)
	}

	e.Clear()

	if got := len(object.FilterDrawing(surf.Objects())); got != 0 {
		t.Errorf("%d drawing objects after clear, want 0", got)
	}
	if len(object.FilterGrid(surf.Objects())) == 0 {
		t.Error("clear must not remove the grid")
	}
	if e.CanUndo() || e.CanRedo() {
		t.Error("clear must reset history")
	}
}
