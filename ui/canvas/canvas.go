// Package canvas provides the interactive floor plan drawing surface with
// pan and zoom.
package canvas

import (
	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"floorplan/internal/object"
	"floorplan/internal/surface"
	"floorplan/pkg/geometry"
)

const (
	minZoom  = 0.25
	maxZoom  = 8.0
	zoomStep = 1.25

	// basePxPerMeter is the model-to-pixel scale at zoom 1.0.
	basePxPerMeter = 50.0
)

// PlanCanvas displays the drawing surface and captures stroke input. It
// satisfies surface.Surface by delegating to its backing store, so the
// drawing engine can treat the widget as the surface itself.
type PlanCanvas struct {
	widget.BaseWidget

	store *surface.Memory

	// Display state
	raster *fynecanvas.Raster
	zoom   float64

	// In-progress stroke, in model coordinates
	pending []geometry.Point2D

	// Container
	scroll   *zoomScroll
	content  *drawingContent
	planSize fyne.Size

	// Callbacks
	onZoomChange func(zoom float64)
	onCursor     func(p geometry.Point2D)
	onResize     func()

	lastScrollSize fyne.Size
}

// NewPlanCanvas creates a canvas over the given backing store. The store's
// repaint hook is claimed by the widget.
func NewPlanCanvas(store *surface.Memory) *PlanCanvas {
	pc := &PlanCanvas{
		store: store,
		zoom:  1.0,
	}

	pc.raster = fynecanvas.NewRaster(pc.draw)
	pc.raster.ScaleMode = fynecanvas.ImageScalePixels

	pc.content = newDrawingContent(pc, pc.raster)
	pc.scroll = newZoomScroll(pc.content, pc)

	store.SetRepaintHook(pc.Refresh)

	pc.ExtendBaseWidget(pc)
	pc.updateContentSize()
	return pc
}

// Surface delegation. The engine mutates the store; the repaint hook pushes
// changes back into the raster.

func (pc *PlanCanvas) Add(objs []*object.Object) error { return pc.store.Add(objs) }
func (pc *PlanCanvas) Remove(id string) bool           { return pc.store.Remove(id) }
func (pc *PlanCanvas) Objects() []*object.Object       { return pc.store.Objects() }
func (pc *PlanCanvas) Contains(id string) bool         { return pc.store.Contains(id) }
func (pc *PlanCanvas) RequestRepaint()                 { pc.store.RequestRepaint() }
func (pc *PlanCanvas) Bounds() geometry.Rect           { return pc.store.Bounds() }

func (pc *PlanCanvas) OnStrokeCompleted(fn func([]geometry.Point2D)) {
	pc.store.OnStrokeCompleted(fn)
}

// Container returns the scrollable wrapper for embedding in layouts.
func (pc *PlanCanvas) Container() fyne.CanvasObject {
	return pc.scroll
}

// Scale returns the current model-to-pixel scale.
func (pc *PlanCanvas) Scale() float64 {
	return basePxPerMeter * pc.zoom
}

// SetZoom sets the zoom level, clamped to the supported range.
func (pc *PlanCanvas) SetZoom(zoom float64) {
	if zoom < minZoom {
		zoom = minZoom
	}
	if zoom > maxZoom {
		zoom = maxZoom
	}
	pc.zoom = zoom
	pc.updateContentSize()

	if pc.onZoomChange != nil {
		pc.onZoomChange(zoom)
	}
}

// Zoom returns the current zoom level.
func (pc *PlanCanvas) Zoom() float64 {
	return pc.zoom
}

// ZoomIn increases the zoom level.
func (pc *PlanCanvas) ZoomIn() {
	pc.SetZoom(pc.zoom * zoomStep)
}

// ZoomOut decreases the zoom level.
func (pc *PlanCanvas) ZoomOut() {
	pc.SetZoom(pc.zoom / zoomStep)
}

// OnZoomChange sets a callback for zoom changes.
func (pc *PlanCanvas) OnZoomChange(callback func(zoom float64)) {
	pc.onZoomChange = callback
}

// OnCursor sets a callback reporting the pointer position in model
// coordinates, used for the status bar readout.
func (pc *PlanCanvas) OnCursor(callback func(p geometry.Point2D)) {
	pc.onCursor = callback
}

// OnResize sets a callback fired when the visible area changes size, so the
// application can re-verify the grid.
func (pc *PlanCanvas) OnResize(callback func()) {
	pc.onResize = callback
}

// ModelToPixel converts model coordinates to canvas pixels.
func (pc *PlanCanvas) ModelToPixel(p geometry.Point2D) (x, y float64) {
	s := pc.Scale()
	b := pc.store.Bounds()
	return (p.X - b.X) * s, (p.Y - b.Y) * s
}

// PixelToModel converts canvas pixels to model coordinates.
func (pc *PlanCanvas) PixelToModel(x, y float64) geometry.Point2D {
	s := pc.Scale()
	b := pc.store.Bounds()
	return geometry.Point2D{X: x/s + b.X, Y: y/s + b.Y}
}

// Refresh redraws the raster.
func (pc *PlanCanvas) Refresh() {
	pc.raster.Refresh()
}

// updateContentSize resizes the raster to the surface bounds at the current
// zoom.
func (pc *PlanCanvas) updateContentSize() {
	b := pc.store.Bounds()
	s := pc.Scale()
	if b.Empty() {
		pc.planSize = fyne.NewSize(400, 300)
	} else {
		pc.planSize = fyne.NewSize(float32(b.Width*s), float32(b.Height*s))
	}

	pc.raster.SetMinSize(pc.planSize)
	pc.raster.Resize(pc.planSize)
	if pc.content != nil {
		pc.content.Resize(pc.planSize)
		pc.content.Refresh()
	}
	pc.raster.Refresh()
	if pc.scroll != nil {
		pc.scroll.Refresh()
	}
}

// zoomScroll wraps a scroll container but intercepts the wheel for zoom.
type zoomScroll struct {
	widget.BaseWidget
	scroll *container.Scroll
	canvas *PlanCanvas
}

func newZoomScroll(content fyne.CanvasObject, canvas *PlanCanvas) *zoomScroll {
	scroll := container.NewScroll(content)
	scroll.Direction = container.ScrollBoth
	zs := &zoomScroll{scroll: scroll, canvas: canvas}
	zs.ExtendBaseWidget(zs)
	return zs
}

func (zs *zoomScroll) Scrolled(ev *fyne.ScrollEvent) {
	if ev.Scrolled.DY > 0 {
		zs.canvas.ZoomIn()
	} else if ev.Scrolled.DY < 0 {
		zs.canvas.ZoomOut()
	}
}

func (zs *zoomScroll) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(zs.scroll)
}

// Offset returns the scroll container's current offset.
func (zs *zoomScroll) Offset() fyne.Position {
	return zs.scroll.Offset
}

func (zs *zoomScroll) Refresh() {
	zs.scroll.Refresh()
	zs.BaseWidget.Refresh()
}

func (zs *zoomScroll) Resize(size fyne.Size) {
	zs.scroll.Resize(size)
	zs.BaseWidget.Resize(size)
	if zs.canvas.onResize != nil && size != zs.canvas.lastScrollSize {
		zs.canvas.lastScrollSize = size
		zs.canvas.onResize()
	}
}

// drawingContent wraps the raster to capture stroke input.
type drawingContent struct {
	widget.BaseWidget
	canvas *PlanCanvas
	raster *fynecanvas.Raster
}

func newDrawingContent(pc *PlanCanvas, raster *fynecanvas.Raster) *drawingContent {
	dc := &drawingContent{canvas: pc, raster: raster}
	dc.ExtendBaseWidget(dc)
	return dc
}

func (dc *drawingContent) CreateRenderer() fyne.WidgetRenderer {
	return &drawingContentRenderer{content: dc}
}

func (dc *drawingContent) MinSize() fyne.Size {
	return dc.raster.MinSize()
}

// modelPos converts an event position inside the viewport to model
// coordinates.
func (dc *drawingContent) modelPos(pos fyne.Position) geometry.Point2D {
	off := dc.canvas.scroll.Offset()
	return dc.canvas.PixelToModel(float64(pos.X+off.X), float64(pos.Y+off.Y))
}

// Dragged extends the in-progress stroke.
func (dc *drawingContent) Dragged(ev *fyne.DragEvent) {
	p := dc.modelPos(ev.Position)
	dc.canvas.pending = append(dc.canvas.pending, p)
	if dc.canvas.onCursor != nil {
		dc.canvas.onCursor(p)
	}
	dc.canvas.Refresh()
}

// DragEnd completes the stroke and hands it to the surface listeners.
func (dc *drawingContent) DragEnd() {
	pts := dc.canvas.pending
	dc.canvas.pending = nil
	dc.canvas.Refresh()
	if len(pts) > 0 {
		dc.canvas.store.CompleteStroke(pts)
	}
}

// Tapped reports single clicks as cursor movement only.
func (dc *drawingContent) Tapped(ev *fyne.PointEvent) {
	if dc.canvas.onCursor != nil {
		dc.canvas.onCursor(dc.modelPos(ev.Position))
	}
}

// MouseMoved feeds the coordinate readout.
func (dc *drawingContent) MouseMoved(ev *desktop.MouseEvent) {
	if dc.canvas.onCursor != nil {
		dc.canvas.onCursor(dc.modelPos(ev.Position))
	}
}

func (dc *drawingContent) MouseIn(*desktop.MouseEvent) {}

func (dc *drawingContent) MouseOut() {}

func (dc *drawingContent) Scrolled(ev *fyne.ScrollEvent) {
	if ev.Scrolled.DY > 0 {
		dc.canvas.ZoomIn()
	} else if ev.Scrolled.DY < 0 {
		dc.canvas.ZoomOut()
	}
}

type drawingContentRenderer struct {
	content *drawingContent
}

func (r *drawingContentRenderer) Layout(size fyne.Size) {
	r.content.raster.Resize(size)
}

func (r *drawingContentRenderer) MinSize() fyne.Size {
	return r.content.raster.MinSize()
}

func (r *drawingContentRenderer) Refresh() {
	r.content.raster.Refresh()
}

func (r *drawingContentRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.content.raster}
}

func (r *drawingContentRenderer) Destroy() {}

// CreateRenderer implements fyne.Widget.
func (pc *PlanCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &planCanvasRenderer{canvas: pc}
}

type planCanvasRenderer struct {
	canvas *PlanCanvas
}

func (r *planCanvasRenderer) Layout(size fyne.Size) {
	if r.canvas.scroll != nil {
		r.canvas.scroll.Resize(size)
	}
}

func (r *planCanvasRenderer) MinSize() fyne.Size {
	return fyne.NewSize(100, 100)
}

func (r *planCanvasRenderer) Refresh() {
	r.canvas.raster.Refresh()
}

func (r *planCanvasRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.canvas.scroll}
}

func (r *planCanvasRenderer) Destroy() {}
