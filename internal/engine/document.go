package engine

import (
	"floorplan/internal/object"
	"floorplan/pkg/geometry"
)

// Stroke is the persisted form of one drawing object.
type Stroke struct {
	Points []geometry.Point2D `json:"points"`
	Type   object.StrokeType  `json:"type"`
	Closed bool               `json:"closed"`
	Color  string             `json:"color,omitempty"`
	Width  float64            `json:"width,omitempty"`
}

// Document is the fixed persistence shape. The engine supplies it on
// request; when and where it is written is the application layer's call.
type Document struct {
	Strokes   []Stroke `json:"strokes"`
	Label     string   `json:"label"`
	PaperSize string   `json:"paperSize"`
}

// Document captures the current drawing-kind content in the persistence
// shape. Grid and measurement objects never persist.
func (e *Engine) Document() Document {
	e.mu.Lock()
	doc := Document{Label: e.label, PaperSize: e.paperSize}
	e.mu.Unlock()

	for _, o := range object.FilterDrawing(e.surf.Objects()) {
		pts := make([]geometry.Point2D, len(o.Points))
		copy(pts, o.Points)
		doc.Strokes = append(doc.Strokes, Stroke{
			Points: pts,
			Type:   o.StrokeType,
			Closed: o.Closed,
			Color:  o.Style.Stroke,
			Width:  o.Style.Width,
		})
	}
	return doc
}

// LoadDocument replaces the drawing content with the document's strokes and
// resets history so the loaded state is the new baseline.
func (e *Engine) LoadDocument(doc Document) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return errClosed
	}
	e.label = doc.Label
	if doc.PaperSize != "" {
		e.paperSize = doc.PaperSize
	}
	e.mu.Unlock()

	for _, o := range object.FilterDrawing(e.surf.Objects()) {
		e.surf.Remove(o.ID)
	}

	objs := make([]*object.Object, 0, len(doc.Strokes))
	for _, s := range doc.Strokes {
		pts := geometry.SanitizePoints(s.Points)
		if len(pts) == 0 {
			continue
		}
		style := object.Style{Stroke: s.Color, Width: s.Width}
		if style.Stroke == "" {
			style = e.opts.StrokeStyle
		}
		var o *object.Object
		if s.Type == object.StrokeRoom && s.Closed {
			o = object.NewRoom(pts, style)
		} else {
			typ := s.Type
			if typ == "" {
				typ = object.StrokeFreehand
			}
			o = object.NewStroke(pts, typ, style)
		}
		objs = append(objs, o)
	}

	if err := e.surf.Add(objs); err != nil {
		return err
	}
	e.surf.RequestRepaint()

	e.hist.Clear()
	e.hist.SaveState()
	e.log.Info("document loaded", "strokes", len(objs), "label", doc.Label)
	return nil
}

// Label returns the document label.
func (e *Engine) Label() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.label
}

// SetLabel updates the document label.
func (e *Engine) SetLabel(label string) {
	e.mu.Lock()
	e.label = label
	e.mu.Unlock()
}

// PaperSize returns the document's target paper size.
func (e *Engine) PaperSize() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.paperSize
}

// SetPaperSize updates the target paper size.
func (e *Engine) SetPaperSize(size string) {
	e.mu.Lock()
	e.paperSize = size
	e.mu.Unlock()
}
