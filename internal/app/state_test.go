package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"floorplan/internal/config"
	"floorplan/internal/engine"
	"floorplan/internal/sched"
	"floorplan/internal/surface"
	"floorplan/pkg/geometry"
)

func newTestState(t *testing.T) *State {
	t.Helper()
	surf := surface.NewMemory(geometry.NewRect(0, 0, 10, 8))
	opts := engine.DefaultOptions()
	opts.Scheduler = sched.NewManual(time.Unix(0, 0))
	eng := engine.New(surf, opts)
	t.Cleanup(eng.Close)
	return NewState(eng, config.Default())
}

func TestEventListeners(t *testing.T) {
	s := newTestState(t)

	var got []interface{}
	s.On(EventToolChanged, func(data interface{}) { got = append(got, data) })

	s.SetTool(engine.ToolRoom)
	s.SetTool(engine.ToolRoom) // no change, no event
	s.SetTool(engine.ToolMeasure)

	if len(got) != 2 {
		t.Fatalf("tool change events = %d, want 2", len(got))
	}
	if got[0] != engine.ToolRoom || got[1] != engine.ToolMeasure {
		t.Errorf("event payloads = %v", got)
	}
	if s.ActiveTool() != engine.ToolMeasure {
		t.Errorf("active tool = %v", s.ActiveTool())
	}
}

func TestModifiedFlag(t *testing.T) {
	s := newTestState(t)

	fired := false
	s.On(EventModified, func(data interface{}) { fired = data.(bool) })

	s.NotifyStrokeAdded(nil)
	if !s.Modified || !fired {
		t.Error("stroke should mark the project modified")
	}
}

func TestProjectSaveLoadRoundTrip(t *testing.T) {
	s := newTestState(t)

	pts := []geometry.Point2D{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}, {X: 0, Y: 4}}
	if _, err := s.Engine.AddStroke(pts, engine.ToolRoom); err != nil {
		t.Fatal(err)
	}
	s.Engine.SetLabel("Ground floor")
	s.SetModified(true)

	path := filepath.Join(t.TempDir(), "flat"+ProjectExt)

	var saved, loaded string
	s.On(EventProjectSaved, func(data interface{}) { saved = data.(string) })
	s.On(EventProjectLoaded, func(data interface{}) { loaded = data.(string) })

	if err := s.SaveProject(path); err != nil {
		t.Fatal(err)
	}
	if saved != path || s.Modified {
		t.Errorf("after save: saved=%q modified=%v", saved, s.Modified)
	}

	// Load into a fresh state.
	s2 := newTestState(t)
	s2.On(EventProjectLoaded, func(data interface{}) { loaded = data.(string) })
	if err := s2.LoadProject(path); err != nil {
		t.Fatal(err)
	}
	if loaded != path {
		t.Errorf("load event carried %q", loaded)
	}
	if got := s2.Engine.TotalRoomArea(); got != 16 {
		t.Errorf("area after load = %v, want 16", got)
	}
	if s2.Engine.Label() != "Ground floor" {
		t.Errorf("label after load = %q", s2.Engine.Label())
	}
}

func TestLoadProjectRejectsNewerVersion(t *testing.T) {
	s := newTestState(t)

	path := filepath.Join(t.TempDir(), "future"+ProjectExt)
	if err := os.WriteFile(path, []byte(`{"version": 99, "document": {}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := s.LoadProject(path); err == nil {
		t.Error("expected version error")
	}
}

func TestLoadProjectRejectsGarbage(t *testing.T) {
	s := newTestState(t)

	path := filepath.Join(t.TempDir(), "broken"+ProjectExt)
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := s.LoadProject(path); err == nil {
		t.Error("expected parse error")
	}
}
