// Package engine is the canvas state engine facade: it wires the drawing
// surface, grid lifecycle manager, history manager, and geometry routines
// behind the single API the application layer calls. The engine owns no
// persistence schedule; it only supplies the current document shape on
// request.
package engine

import (
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"floorplan/internal/grid"
	"floorplan/internal/history"
	"floorplan/internal/object"
	"floorplan/internal/sched"
	"floorplan/internal/surface"
	"floorplan/pkg/geometry"
)

// Tool selects how raw pointer input is normalized into canvas objects.
type Tool int

const (
	ToolFreehand Tool = iota
	ToolStraight
	ToolRoom
	ToolMeasure
)

// String returns the display name of the tool.
func (t Tool) String() string {
	switch t {
	case ToolFreehand:
		return "freehand"
	case ToolStraight:
		return "straight"
	case ToolRoom:
		return "room"
	case ToolMeasure:
		return "measure"
	default:
		return "unknown"
	}
}

// Options configures an Engine.
type Options struct {
	// SnapSpacing is the grid spacing used for point and line snapping,
	// in meters. Zero disables snapping.
	SnapSpacing float64

	// AngleTolerance is the tolerance in degrees for standard-angle
	// measurement feedback.
	AngleTolerance float64

	// MaxHistory bounds the undo depth.
	MaxHistory int

	// GridConfig tunes the grid lifecycle manager.
	GridConfig grid.Config

	// Scheduler drives grid timers; nil uses wall-clock timers.
	Scheduler sched.Scheduler

	// Logger receives structured diagnostics; nil discards.
	Logger *log.Logger

	// StrokeStyle and RoomStyle are applied to new drawing objects.
	StrokeStyle object.Style
	RoomStyle   object.Style
}

// DefaultOptions returns the production defaults.
func DefaultOptions() Options {
	return Options{
		SnapSpacing:    0.25,
		AngleTolerance: 3,
		MaxHistory:     history.DefaultMaxStates,
		GridConfig:     grid.DefaultConfig(),
		StrokeStyle:    object.Style{Stroke: "black", Width: 2},
		RoomStyle:      object.Style{Stroke: "steelblue", Width: 2, Fill: "aliceblue"},
	}
}

// Engine coordinates the three competing concerns on one shared surface.
type Engine struct {
	mu   sync.Mutex
	surf surface.Surface
	grid *grid.Manager
	hist *history.Manager
	opts Options
	log  *log.Logger

	label     string
	paperSize string
	closed    bool
}

// New creates an engine over the surface. Surfaces that capture pointer
// input (surface.StrokeSource) are not wired automatically; the caller
// routes completed strokes into AddStroke with its active tool.
func New(surf surface.Surface, opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	e := &Engine{
		surf:      surf,
		opts:      opts,
		log:       logger,
		grid:      grid.NewManager(surf, opts.GridConfig, opts.Scheduler, logger),
		hist:      history.NewManager(surf, opts.MaxHistory, logger),
		paperSize: "A4",
	}
	// Baseline snapshot so the first user edit can be undone back to an
	// empty document.
	e.hist.SaveState()
	return e
}

// EnsureGrid builds or verifies the reference grid overlay.
func (e *Engine) EnsureGrid(spec grid.Spec) ([]*object.Object, error) {
	return e.grid.EnsureGrid(spec)
}

// GridState returns the grid lifecycle state.
func (e *Engine) GridState() grid.State {
	return e.grid.State()
}

// RepairGrid is the explicit remediation path for a Degraded grid.
func (e *Engine) RepairGrid() error {
	_, err := e.grid.Repair()
	return err
}

// SnapPoint constrains a point to the engine's snap grid.
func (e *Engine) SnapPoint(p geometry.Point2D) geometry.Point2D {
	return geometry.SnapToGrid(p, e.opts.SnapSpacing)
}

// SnapLine snaps and straightens a line's endpoints.
func (e *Engine) SnapLine(a, b geometry.Point2D) (geometry.Point2D, geometry.Point2D) {
	return geometry.SnapLineToGrid(a, b, e.opts.SnapSpacing)
}

// CalculateArea returns the enclosed area of a vertex list in square meters.
func (e *Engine) CalculateArea(points []geometry.Point2D) float64 {
	return geometry.Area(points)
}

// Measurement is segment feedback for the measure tool.
type Measurement struct {
	Distance      float64
	Angle         float64
	StandardAngle float64
	OnStandard    bool
}

// MeasureSegment computes distance/angle feedback between two points.
func (e *Engine) MeasureSegment(a, b geometry.Point2D) Measurement {
	m := Measurement{
		Distance: geometry.DistanceBetween(a, b),
		Angle:    geometry.AngleBetween(a, b),
	}
	m.StandardAngle, m.OnStandard = geometry.NearestStandardAngle(m.Angle, e.opts.AngleTolerance)
	return m
}

// AddStroke normalizes a completed pointer polyline according to the tool,
// tags it, places it on the surface, and snapshots history. Measure-tool
// input produces no durable object and no snapshot.
func (e *Engine) AddStroke(points []geometry.Point2D, tool Tool) (*object.Object, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, errClosed
	}
	if tool == ToolMeasure {
		return nil, nil
	}

	pts := geometry.SanitizePoints(points)
	if len(pts) == 0 {
		return nil, errEmptyStroke
	}

	var obj *object.Object
	switch tool {
	case ToolStraight:
		line := geometry.StraightenStroke(pts)
		if len(line) == 2 {
			a, b := geometry.SnapLineToGrid(line[0], line[1], e.opts.SnapSpacing)
			line = []geometry.Point2D{a, b}
		}
		obj = object.NewStroke(line, object.StrokeStraight, e.opts.StrokeStyle)
	case ToolRoom:
		snapped := make([]geometry.Point2D, len(pts))
		for i, p := range pts {
			snapped[i] = geometry.SnapToGrid(p, e.opts.SnapSpacing)
		}
		snapped = dedupeConsecutive(snapped)
		if len(snapped) < 3 {
			return nil, errDegenerateRoom
		}
		obj = object.NewRoom(snapped, e.opts.RoomStyle)
	default:
		obj = object.NewStroke(pts, object.StrokeFreehand, e.opts.StrokeStyle)
	}

	if err := e.surf.Add([]*object.Object{obj}); err != nil {
		return nil, err
	}
	e.surf.RequestRepaint()
	e.hist.SaveState()
	e.log.Debug("stroke added", "tool", tool, "points", len(obj.Points), "kind", obj.Kind)
	return obj, nil
}

// dedupeConsecutive removes immediately repeated points, which snapping can
// produce from dense freehand input.
func dedupeConsecutive(pts []geometry.Point2D) []geometry.Point2D {
	out := pts[:0]
	for i, p := range pts {
		if i == 0 || p != out[len(out)-1] {
			out = append(out, p)
		}
	}
	return out
}

// SaveState snapshots the current drawing content.
func (e *Engine) SaveState() { e.hist.SaveState() }

// Undo steps back one drawing state. Grid objects are untouched.
func (e *Engine) Undo() bool {
	if ok := e.hist.Undo(); ok {
		e.log.Debug("undo", "total_area", e.TotalRoomArea())
		return true
	}
	return false
}

// Redo reapplies the last undone state.
func (e *Engine) Redo() bool {
	if ok := e.hist.Redo(); ok {
		e.log.Debug("redo", "total_area", e.TotalRoomArea())
		return true
	}
	return false
}

// CanUndo reports whether an undo step is available.
func (e *Engine) CanUndo() bool { return e.hist.CanUndo() }

// CanRedo reports whether a redo step is available.
func (e *Engine) CanRedo() bool { return e.hist.CanRedo() }

// TotalRoomArea sums the enclosed area of all closed rooms, the derived
// metric recomputed after every restore.
func (e *Engine) TotalRoomArea() float64 {
	var total float64
	for _, o := range object.FilterDrawing(e.surf.Objects()) {
		if o.Kind == object.KindRoom && o.Closed && len(o.Points) >= 3 {
			total += geometry.Area(o.Points)
		}
	}
	return total
}

// Clear removes all drawing content and resets history. The grid overlay
// stays; its monitor would rebuild it anyway if this raced a repair.
func (e *Engine) Clear() {
	for _, o := range object.FilterDrawing(e.surf.Objects()) {
		e.surf.Remove(o.ID)
	}
	e.surf.RequestRepaint()
	e.hist.Clear()
	e.hist.SaveState()
}

// Close tears the engine down, cancelling every grid timer. The surface
// itself belongs to the caller.
func (e *Engine) Close() {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()
	e.grid.Close()
}

type engineError string

func (e engineError) Error() string { return string(e) }

const (
	errClosed         engineError = "engine is closed"
	errEmptyStroke    engineError = "empty stroke"
	errDegenerateRoom engineError = "room needs at least 3 distinct vertices"
)
