// Package app provides application lifecycle management, configuration, and events.
package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"floorplan/internal/config"
	"floorplan/internal/engine"
)

// ProjectExt is the file extension for saved floor plan projects.
const ProjectExt = ".floorplan"

// State holds the application state including the current project, the
// drawing engine, and the active tool.
type State struct {
	mu sync.RWMutex

	// Project
	ProjectPath string
	Modified    bool

	// Configuration loaded at startup
	Config config.Config

	// Drawing engine (single instance for the application lifetime)
	Engine *engine.Engine

	// Active drawing tool
	Tool engine.Tool

	// Event listeners
	listeners map[EventType][]EventListener
}

// EventType identifies different application events.
type EventType int

const (
	EventProjectLoaded EventType = iota
	EventProjectSaved
	EventStrokeAdded
	EventHistoryChanged
	EventGridDegraded
	EventToolChanged
	EventModified
	EventMeasurement
	EventSelectionChanged
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// NewState creates a new application state around an existing engine.
func NewState(eng *engine.Engine, cfg config.Config) *State {
	return &State{
		Config:    cfg,
		Engine:    eng,
		Tool:      engine.ToolFreehand,
		listeners: make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// SetModified marks the project as modified and emits an event.
func (s *State) SetModified(modified bool) {
	s.mu.Lock()
	s.Modified = modified
	s.mu.Unlock()
	s.Emit(EventModified, modified)
}

// SetTool switches the active drawing tool.
func (s *State) SetTool(tool engine.Tool) {
	s.mu.Lock()
	changed := s.Tool != tool
	s.Tool = tool
	s.mu.Unlock()
	if changed {
		s.Emit(EventToolChanged, tool)
	}
}

// ActiveTool returns the currently selected drawing tool.
func (s *State) ActiveTool() engine.Tool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Tool
}

// ProjectFile is the JSON structure of a saved project.
type ProjectFile struct {
	Version  int             `json:"version"`
	Document engine.Document `json:"document"`
}

// LoadProject loads a project from the specified path.
func (s *State) LoadProject(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var proj ProjectFile
	if err := json.Unmarshal(data, &proj); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	if proj.Version > 1 {
		return fmt.Errorf("%s was saved by a newer version (file version %d)",
			filepath.Base(path), proj.Version)
	}

	if err := s.Engine.LoadDocument(proj.Document); err != nil {
		return err
	}

	s.mu.Lock()
	s.ProjectPath = path
	s.Modified = false
	s.mu.Unlock()

	s.Emit(EventProjectLoaded, path)
	s.Emit(EventHistoryChanged, nil)
	return nil
}

// SaveProject saves the project to the specified path.
func (s *State) SaveProject(path string) error {
	proj := ProjectFile{
		Version:  1,
		Document: s.Engine.Document(),
	}

	data, err := json.MarshalIndent(proj, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}

	s.mu.Lock()
	s.ProjectPath = path
	s.Modified = false
	s.mu.Unlock()

	s.Emit(EventProjectSaved, path)
	return nil
}

// NotifyStrokeAdded records a completed edit and refreshes dependent UI.
func (s *State) NotifyStrokeAdded(data interface{}) {
	s.SetModified(true)
	s.Emit(EventStrokeAdded, data)
	s.Emit(EventHistoryChanged, nil)
}

// NotifyHistoryChanged refreshes undo/redo dependent UI after an undo, redo,
// or clear.
func (s *State) NotifyHistoryChanged() {
	s.SetModified(true)
	s.Emit(EventHistoryChanged, nil)
}
