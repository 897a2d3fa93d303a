package history

import (
	"testing"

	"floorplan/internal/object"
	"floorplan/internal/surface"
	"floorplan/pkg/geometry"
)

func newTestSurface() *surface.Memory {
	return surface.NewMemory(geometry.NewRect(0, 0, 10, 10))
}

func addStroke(t *testing.T, surf *surface.Memory, x float64) *object.Object {
	t.Helper()
	o := object.NewStroke([]geometry.Point2D{{X: x, Y: 0}, {X: x, Y: 1}}, object.StrokeFreehand, object.Style{Stroke: "black"})
	if err := surf.Add([]*object.Object{o}); err != nil {
		t.Fatal(err)
	}
	return o
}

func drawingIDs(surf *surface.Memory) map[string]bool {
	ids := make(map[string]bool)
	for _, o := range object.FilterDrawing(surf.Objects()) {
		ids[o.ID] = true
	}
	return ids
}

func TestSaveStateBounded(t *testing.T) {
	surf := newTestSurface()
	m := NewManager(surf, 5, nil)

	for i := 0; i < 20; i++ {
		addStroke(t, surf, float64(i))
		m.SaveState()
	}

	past, future := m.Depth()
	if past > 5 {
		t.Errorf("past depth = %d, exceeds max 5", past)
	}
	if future != 0 {
		t.Errorf("future depth = %d, want 0", future)
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	surf := newTestSurface()
	m := NewManager(surf, 10, nil)

	addStroke(t, surf, 1)
	m.SaveState()
	addStroke(t, surf, 2)
	m.SaveState()

	before := drawingIDs(surf)

	if !m.Undo() {
		t.Fatal("Undo should restore the earlier state")
	}
	if got := len(drawingIDs(surf)); got != 1 {
		t.Fatalf("after undo: %d drawing objects, want 1", got)
	}

	if !m.Redo() {
		t.Fatal("Redo should reapply the undone state")
	}
	after := drawingIDs(surf)
	if len(after) != len(before) {
		t.Fatalf("round trip drift: %d objects, want %d", len(after), len(before))
	}
	for id := range before {
		if !after[id] {
			t.Errorf("object %s lost in undo/redo round trip", id)
		}
	}
}

func TestUndoNoOpOnBaseline(t *testing.T) {
	surf := newTestSurface()
	m := NewManager(surf, 10, nil)

	if m.Undo() {
		t.Error("Undo with empty history should be a no-op")
	}

	addStroke(t, surf, 1)
	m.SaveState()
	if m.Undo() {
		t.Error("Undo with a single baseline snapshot should be a no-op")
	}
	if m.CanUndo() {
		t.Error("CanUndo should be false at the baseline")
	}
}

func TestRedoNoOpWithoutUndo(t *testing.T) {
	surf := newTestSurface()
	m := NewManager(surf, 10, nil)
	addStroke(t, surf, 1)
	m.SaveState()

	if m.Redo() {
		t.Error("Redo with empty future should be a no-op")
	}
	if m.CanRedo() {
		t.Error("CanRedo should be false without a prior undo")
	}
}

func TestFreshEditClearsFuture(t *testing.T) {
	surf := newTestSurface()
	m := NewManager(surf, 10, nil)

	addStroke(t, surf, 1)
	m.SaveState()
	addStroke(t, surf, 2)
	m.SaveState()

	if !m.Undo() {
		t.Fatal("undo failed")
	}
	if !m.CanRedo() {
		t.Fatal("undo should populate the redo branch")
	}

	// A fresh edit (not a redo) forks history: the redo branch dies.
	addStroke(t, surf, 3)
	m.SaveState()

	if m.CanRedo() {
		t.Error("fresh SaveState after undo must clear future")
	}
	if m.Redo() {
		t.Error("redo after a fresh edit must be a no-op")
	}
}

func TestUndoLeavesGridUntouched(t *testing.T) {
	surf := newTestSurface()
	m := NewManager(surf, 10, nil)

	gridLine := object.New(object.KindGridMajor, []geometry.Point2D{{X: 0, Y: 0}, {X: 0, Y: 10}}, object.Style{})
	if err := surf.Add([]*object.Object{gridLine}); err != nil {
		t.Fatal(err)
	}

	addStroke(t, surf, 1)
	m.SaveState()
	addStroke(t, surf, 2)
	m.SaveState()

	m.Undo()

	if !surf.Contains(gridLine.ID) {
		t.Error("undo removed a grid object")
	}
	past, _ := m.Depth()
	for i := 0; i < past+2; i++ {
		m.Undo()
	}
	if !surf.Contains(gridLine.ID) {
		t.Error("repeated undo removed a grid object")
	}
}

func TestSnapshotsAreIsolatedFromLaterMutation(t *testing.T) {
	surf := newTestSurface()
	m := NewManager(surf, 10, nil)

	o := addStroke(t, surf, 1)
	m.SaveState()

	// Mutate the live object after the snapshot was taken.
	o.Points[0].X = 99
	addStroke(t, surf, 2)
	m.SaveState()

	m.Undo()

	for _, obj := range object.FilterDrawing(surf.Objects()) {
		if obj.ID == o.ID && obj.Points[0].X == 99 {
			t.Error("snapshot shared storage with the live object")
		}
	}
}

func TestRestoreSkipsCorruptEntries(t *testing.T) {
	surf := newTestSurface()
	m := NewManager(surf, 10, nil)

	addStroke(t, surf, 1)
	m.SaveState()
	good := addStroke(t, surf, 2)
	m.SaveState()

	// Corrupt the redo-side snapshot by hand: inject entries that cannot
	// be reconstructed alongside the good one.
	m.Undo()
	m.mu.Lock()
	m.future[0].Objects = append(m.future[0].Objects,
		nil,
		&object.Object{}, // missing ID
		object.New(object.KindGridMinor, nil, object.Style{}), // wrong kind
	)
	m.mu.Unlock()

	if !m.Redo() {
		t.Fatal("corrupt entries must not abort the whole redo")
	}

	ids := drawingIDs(surf)
	if !ids[good.ID] {
		t.Error("valid snapshot entry missing after partial-failure restore")
	}
	if len(ids) != 2 {
		t.Errorf("restored %d drawing objects, want 2", len(ids))
	}
	for _, o := range surf.Objects() {
		if o.Kind.IsGrid() {
			t.Error("grid-kind snapshot entry leaked onto the surface")
		}
	}
}
