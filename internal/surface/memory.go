package surface

import (
	"sync"

	"floorplan/internal/object"
	"floorplan/pkg/geometry"
)

// Memory is an in-memory Surface. It backs headless use (tests, batch
// export) and serves as the object store behind the on-screen widget.
type Memory struct {
	mu       sync.RWMutex
	objects  []*object.Object
	index    map[string]int
	bounds   geometry.Rect
	repaints int

	failNext int
	failErr  error

	onRepaint func()
	onStroke  []func(points []geometry.Point2D)
}

// NewMemory creates an empty surface with the given bounds in model units.
func NewMemory(bounds geometry.Rect) *Memory {
	return &Memory{
		index:  make(map[string]int),
		bounds: bounds,
	}
}

// Add inserts objects in one batch. Objects with duplicate IDs replace the
// existing entry rather than appearing twice.
func (m *Memory) Add(objs []*object.Object) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failNext > 0 {
		m.failNext--
		return m.failErr
	}

	for _, o := range objs {
		if o == nil {
			continue
		}
		if i, ok := m.index[o.ID]; ok {
			m.objects[i] = o
			continue
		}
		m.index[o.ID] = len(m.objects)
		m.objects = append(m.objects, o)
	}
	return nil
}

// Remove deletes the object with the given ID.
func (m *Memory) Remove(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	i, ok := m.index[id]
	if !ok {
		return false
	}
	m.objects = append(m.objects[:i], m.objects[i+1:]...)
	delete(m.index, id)
	for j := i; j < len(m.objects); j++ {
		m.index[m.objects[j].ID] = j
	}
	return true
}

// Objects returns a snapshot of the current object list in insertion order.
func (m *Memory) Objects() []*object.Object {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*object.Object, len(m.objects))
	copy(out, m.objects)
	return out
}

// Contains reports whether the object with the given ID is present.
func (m *Memory) Contains(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.index[id]
	return ok
}

// RequestRepaint counts the repaint request and forwards it to the optional
// repaint hook.
func (m *Memory) RequestRepaint() {
	m.mu.Lock()
	m.repaints++
	fn := m.onRepaint
	m.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Repaints returns how many repaints have been requested.
func (m *Memory) Repaints() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.repaints
}

// Bounds returns the surface extent in model units.
func (m *Memory) Bounds() geometry.Rect {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bounds
}

// SetBounds resizes the surface, as a window resize would.
func (m *Memory) SetBounds(bounds geometry.Rect) {
	m.mu.Lock()
	m.bounds = bounds
	m.mu.Unlock()
}

// SetRepaintHook installs a callback invoked on every repaint request. The
// on-screen widget uses this to refresh its raster.
func (m *Memory) SetRepaintHook(fn func()) {
	m.mu.Lock()
	m.onRepaint = fn
	m.mu.Unlock()
}

// OnStrokeCompleted registers a callback for completed pointer strokes.
func (m *Memory) OnStrokeCompleted(fn func(points []geometry.Point2D)) {
	m.mu.Lock()
	m.onStroke = append(m.onStroke, fn)
	m.mu.Unlock()
}

// CompleteStroke delivers a finished polyline to all stroke listeners. The
// widget calls this at drag end; tests call it to simulate input.
func (m *Memory) CompleteStroke(points []geometry.Point2D) {
	m.mu.RLock()
	listeners := append([]func([]geometry.Point2D){}, m.onStroke...)
	m.mu.RUnlock()
	for _, fn := range listeners {
		fn(points)
	}
}

// FailNextAdds makes the next n Add calls return err, for exercising the
// grid manager's retry path.
func (m *Memory) FailNextAdds(n int, err error) {
	m.mu.Lock()
	m.failNext = n
	m.failErr = err
	m.mu.Unlock()
}

// Clear removes every object for which keep returns false. A nil keep
// removes everything.
func (m *Memory) Clear(keep func(*object.Object) bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var kept []*object.Object
	for _, o := range m.objects {
		if keep != nil && keep(o) {
			kept = append(kept, o)
		}
	}
	m.objects = kept
	m.index = make(map[string]int, len(kept))
	for i, o := range kept {
		m.index[o.ID] = i
	}
}

var _ Surface = (*Memory)(nil)
var _ StrokeSource = (*Memory)(nil)
