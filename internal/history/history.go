// Package history provides bounded linear undo/redo over the drawing-kind
// objects on a surface. Grid and measurement objects are invisible to it:
// snapshots capture only user-authored content, and a restore never touches
// the grid overlay.
package history

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"floorplan/internal/object"
	"floorplan/internal/surface"
)

// DefaultMaxStates bounds the undo depth when no limit is configured.
const DefaultMaxStates = 50

// Snapshot is one saved drawing state: deep copies of the drawing-kind
// objects plus the capture time.
type Snapshot struct {
	Objects []*object.Object
	TakenAt time.Time
}

// Manager implements bounded linear undo/redo for one surface.
type Manager struct {
	mu     sync.Mutex
	surf   surface.Surface
	log    *log.Logger
	past   []Snapshot
	future []Snapshot
	max    int
}

// NewManager creates a history manager over the surface. maxStates <= 0
// falls back to DefaultMaxStates; a nil logger discards output.
func NewManager(surf surface.Surface, maxStates int, logger *log.Logger) *Manager {
	if maxStates <= 0 {
		maxStates = DefaultMaxStates
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Manager{
		surf: surf,
		log:  logger,
		max:  maxStates,
	}
}

// SaveState snapshots the current drawing-kind object set onto the past
// stack. Any fresh edit invalidates the redo branch, so future is cleared;
// the oldest snapshots are dropped once the bound is reached.
func (m *Manager) SaveState() {
	snap := m.capture()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.past = append(m.past, snap)
	if len(m.past) > m.max {
		m.past = m.past[len(m.past)-m.max:]
	}
	m.future = m.future[:0]
}

// capture deep-copies the drawing subset of the surface.
func (m *Manager) capture() Snapshot {
	drawing := object.FilterDrawing(m.surf.Objects())
	objs := make([]*object.Object, 0, len(drawing))
	for _, o := range drawing {
		objs = append(objs, o.Clone())
	}
	return Snapshot{Objects: objs, TakenAt: time.Now()}
}

// Undo steps back one state. It is a no-op when there is no earlier state to
// return to (the bottom snapshot is the baseline). Returns whether a restore
// happened.
func (m *Manager) Undo() bool {
	m.mu.Lock()
	if len(m.past) <= 1 {
		m.mu.Unlock()
		return false
	}
	top := m.past[len(m.past)-1]
	m.past = m.past[:len(m.past)-1]
	m.future = append([]Snapshot{top}, m.future...)
	if len(m.future) > m.max {
		m.future = m.future[:m.max]
	}
	target := m.past[len(m.past)-1]
	m.mu.Unlock()

	m.restore(target)
	return true
}

// Redo reapplies the most recently undone state. No-op when the redo branch
// is empty.
func (m *Manager) Redo() bool {
	m.mu.Lock()
	if len(m.future) == 0 {
		m.mu.Unlock()
		return false
	}
	next := m.future[0]
	m.future = m.future[1:]
	m.past = append(m.past, next)
	if len(m.past) > m.max {
		m.past = m.past[len(m.past)-m.max:]
	}
	m.mu.Unlock()

	m.restore(next)
	return true
}

// CanUndo reports whether Undo would restore anything.
func (m *Manager) CanUndo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.past) > 1
}

// CanRedo reports whether Redo would restore anything.
func (m *Manager) CanRedo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.future) > 0
}

// Depth returns the current past and future stack sizes.
func (m *Manager) Depth() (past, future int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.past), len(m.future)
}

// Clear drops all snapshots, as on a full document clear.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.past = nil
	m.future = nil
}

// restore replaces the surface's drawing-kind objects with the snapshot
// contents. Grid-kind objects are untouched. A snapshot entry that fails to
// reconstruct is logged and skipped; it never aborts the whole restore.
func (m *Manager) restore(snap Snapshot) {
	for _, o := range object.FilterDrawing(m.surf.Objects()) {
		m.surf.Remove(o.ID)
	}

	valid := make([]*object.Object, 0, len(snap.Objects))
	for i, o := range snap.Objects {
		if err := validate(o); err != nil {
			m.log.Warn("skipping corrupt snapshot entry", "index", i, "cause", err)
			continue
		}
		valid = append(valid, o.Clone())
	}

	if err := m.surf.Add(valid); err != nil {
		// Partial-failure policy: report and keep going; the surface
		// keeps whatever it accepted.
		m.log.Warn("restore insert failed", "objects", len(valid), "cause", err)
	}
	m.surf.RequestRepaint()
}

// validate rejects snapshot entries that cannot be reconstructed.
func validate(o *object.Object) error {
	switch {
	case o == nil:
		return errNilObject
	case o.ID == "":
		return errMissingID
	case !o.Kind.IsDrawing():
		return errWrongKind
	default:
		return nil
	}
}

type restoreError string

func (e restoreError) Error() string { return string(e) }

const (
	errNilObject restoreError = "nil object"
	errMissingID restoreError = "missing object ID"
	errWrongKind restoreError = "non-drawing kind in snapshot"
)
