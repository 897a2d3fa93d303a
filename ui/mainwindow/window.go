// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"path/filepath"

	"floorplan/internal/app"
	"floorplan/internal/engine"
	"floorplan/internal/export"
	"floorplan/internal/grid"
	"floorplan/internal/version"
	"floorplan/pkg/geometry"
	"floorplan/ui/canvas"
	"floorplan/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

const prefKeyLastDir = "lastDirectory"

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app    fyne.App
	state  *app.State
	canvas *canvas.PlanCanvas
	prefs  *prefs.Prefs

	gridSpec grid.Spec

	statusBar    *widget.Label
	measureLabel *widget.Label
	areaLabel    *widget.Label
	repairBtn    *widget.Button
	toolButtons  map[engine.Tool]*widget.Button
	undoBtn      *widget.Button
	redoBtn      *widget.Button
}

// New creates a new main window over the given state and drawing canvas.
func New(fyneApp fyne.App, state *app.State, planCanvas *canvas.PlanCanvas, gridSpec grid.Spec, p *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow("Floor Plan")

	mw := &MainWindow{
		Window:   win,
		app:      fyneApp,
		state:    state,
		canvas:   planCanvas,
		prefs:    p,
		gridSpec: gridSpec,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()
	mw.wireCanvas()

	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.statusBar = widget.NewLabel("Ready")
	mw.measureLabel = widget.NewLabel("")
	mw.areaLabel = widget.NewLabel("Area: 0.00 m²")

	toolbar := mw.createToolbar()

	bottom := container.NewHBox(
		container.NewPadded(mw.statusBar),
		widget.NewSeparator(),
		container.NewPadded(mw.measureLabel),
		widget.NewSeparator(),
		container.NewPadded(mw.areaLabel),
	)

	content := container.NewBorder(
		toolbar,               // top
		bottom,                // bottom
		nil,                   // left
		nil,                   // right
		mw.canvas.Container(), // center
	)

	mw.SetContent(content)
	mw.updateHistoryButtons()
}

// createToolbar creates the tool selector, history, and zoom controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	mw.toolButtons = make(map[engine.Tool]*widget.Button)
	for _, tool := range []engine.Tool{engine.ToolFreehand, engine.ToolStraight, engine.ToolRoom, engine.ToolMeasure} {
		t := tool
		mw.toolButtons[t] = widget.NewButton(t.String(), func() {
			mw.state.SetTool(t)
		})
	}
	mw.highlightTool(mw.state.ActiveTool())

	mw.undoBtn = widget.NewButton("Undo", mw.onUndo)
	mw.redoBtn = widget.NewButton("Redo", mw.onRedo)

	mw.repairBtn = widget.NewButton("Repair Grid", mw.onRepairGrid)
	mw.repairBtn.Importance = widget.DangerImportance
	mw.repairBtn.Hide()

	zoomOutBtn := widget.NewButton("-", mw.canvas.ZoomOut)
	zoomInBtn := widget.NewButton("+", mw.canvas.ZoomIn)
	actualBtn := widget.NewButton("1:1", func() { mw.canvas.SetZoom(1.0) })

	return container.NewHBox(
		mw.toolButtons[engine.ToolFreehand],
		mw.toolButtons[engine.ToolStraight],
		mw.toolButtons[engine.ToolRoom],
		mw.toolButtons[engine.ToolMeasure],
		widget.NewSeparator(),
		mw.undoBtn,
		mw.redoBtn,
		widget.NewButton("Clear", mw.onClear),
		widget.NewSeparator(),
		widget.NewLabel("Zoom:"),
		zoomOutBtn,
		zoomInBtn,
		actualBtn,
		widget.NewSeparator(),
		mw.repairBtn,
	)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New Plan", mw.onNewPlan),
		fyne.NewMenuItem("Open Plan...", mw.onOpenPlan),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save Plan", mw.onSavePlan),
		fyne.NewMenuItem("Save Plan As...", mw.onSavePlanAs),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export PDF...", mw.onExportPDF),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", mw.onUndo),
		fyne.NewMenuItem("Redo", mw.onRedo),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Clear Plan", mw.onClear),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Plan Label...", mw.onEditLabel),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", mw.canvas.ZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.canvas.ZoomOut),
		fyne.NewMenuItem("Actual Size", func() { mw.canvas.SetZoom(1.0) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Rebuild Grid", mw.onRepairGrid),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, viewMenu, helpMenu))
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventProjectLoaded, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.SetTitle("Floor Plan - " + filepath.Base(path))
			mw.updateStatus("Plan loaded: " + path)
			mw.prefs.SetString(prefs.KeyLastProject, path)
		}
		mw.refreshArea()
	})

	mw.state.On(app.EventProjectSaved, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.SetTitle("Floor Plan - " + filepath.Base(path))
			mw.updateStatus("Saved: " + path)
			mw.prefs.SetString(prefs.KeyLastProject, path)
		}
	})

	mw.state.On(app.EventModified, func(data interface{}) {
		if modified, ok := data.(bool); ok && modified {
			title := mw.Title()
			if len(title) > 0 && title[len(title)-1] != '*' {
				mw.SetTitle(title + " *")
			}
		}
	})

	mw.state.On(app.EventHistoryChanged, func(data interface{}) {
		mw.updateHistoryButtons()
		mw.refreshArea()
	})

	mw.state.On(app.EventToolChanged, func(data interface{}) {
		if tool, ok := data.(engine.Tool); ok {
			mw.highlightTool(tool)
			mw.updateStatus("Tool: " + tool.String())
		}
	})

	mw.state.On(app.EventGridDegraded, func(data interface{}) {
		mw.repairBtn.Show()
		mw.updateStatus("Grid degraded; use Repair Grid to rebuild")
	})
}

// wireCanvas connects stroke input and viewport changes to the engine.
func (mw *MainWindow) wireCanvas() {
	eng := mw.state.Engine

	mw.canvas.OnStrokeCompleted(func(points []geometry.Point2D) {
		tool := mw.state.ActiveTool()
		if tool == engine.ToolMeasure {
			if len(points) >= 2 {
				mw.showMeasurement(eng.MeasureSegment(points[0], points[len(points)-1]))
			}
			return
		}

		if _, err := eng.AddStroke(points, tool); err != nil {
			mw.updateStatus(err.Error())
			return
		}
		mw.state.NotifyStrokeAdded(nil)
	})

	mw.canvas.OnCursor(func(p geometry.Point2D) {
		snapped := eng.SnapPoint(p)
		mw.updateStatus(fmt.Sprintf("%.2f, %.2f m", snapped.X, snapped.Y))
	})

	mw.canvas.OnResize(func() {
		mw.ensureGrid()
	})
}

// ensureGrid asks the engine for a grid and surfaces a degraded outcome.
func (mw *MainWindow) ensureGrid() {
	if _, err := mw.state.Engine.EnsureGrid(mw.gridSpec); err != nil {
		mw.updateStatus("Grid: " + err.Error())
	}
	if mw.state.Engine.GridState().Phase == grid.PhaseDegraded {
		mw.state.Emit(app.EventGridDegraded, nil)
	}
}

// ShowAndInit displays the window and builds the initial grid.
func (mw *MainWindow) ShowAndInit() {
	mw.Resize(fyne.NewSize(
		float32(mw.prefs.Float(prefs.KeyWindowW, 1200)),
		float32(mw.prefs.Float(prefs.KeyWindowH, 800)),
	))
	mw.ensureGrid()
	mw.Show()
}

func (mw *MainWindow) highlightTool(active engine.Tool) {
	for tool, btn := range mw.toolButtons {
		if tool == active {
			btn.Importance = widget.HighImportance
		} else {
			btn.Importance = widget.MediumImportance
		}
		btn.Refresh()
	}
}

func (mw *MainWindow) updateHistoryButtons() {
	eng := mw.state.Engine
	if eng.CanUndo() {
		mw.undoBtn.Enable()
	} else {
		mw.undoBtn.Disable()
	}
	if eng.CanRedo() {
		mw.redoBtn.Enable()
	} else {
		mw.redoBtn.Disable()
	}
}

func (mw *MainWindow) refreshArea() {
	mw.areaLabel.SetText(fmt.Sprintf("Area: %.2f m²", mw.state.Engine.TotalRoomArea()))
}

func (mw *MainWindow) showMeasurement(m engine.Measurement) {
	text := fmt.Sprintf("%.2f m at %.1f°", m.Distance, m.Angle)
	if m.OnStandard {
		text = fmt.Sprintf("%.2f m at %.0f°", m.Distance, m.StandardAngle)
	}
	mw.measureLabel.SetText(text)
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.prefs.String(prefKeyLastDir, "")
	if path == "" {
		return nil
	}
	uri := storage.NewFileURI(path)
	listable, err := storage.ListerForURI(uri)
	if err != nil {
		return nil
	}
	return listable
}

// saveLastDir saves the directory of the given file path.
func (mw *MainWindow) saveLastDir(filePath string) {
	mw.prefs.SetString(prefKeyLastDir, filepath.Dir(filePath))
}

// Menu action handlers

func (mw *MainWindow) onNewPlan() {
	mw.state.Engine.Clear()
	mw.state.ProjectPath = ""
	mw.state.SetModified(false)
	mw.state.NotifyHistoryChanged()
	mw.SetTitle("Floor Plan - New Plan")
	mw.ensureGrid()
}

func (mw *MainWindow) onOpenPlan() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		if err := mw.state.LoadProject(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{app.ProjectExt}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onSavePlan() {
	if mw.state.ProjectPath == "" {
		mw.onSavePlanAs()
		return
	}
	if err := mw.state.SaveProject(mw.state.ProjectPath); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) onSavePlanAs() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if filepath.Ext(path) != app.ProjectExt {
			path += app.ProjectExt
		}
		mw.saveLastDir(path)
		if err := mw.state.SaveProject(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFileName("plan" + app.ProjectExt)
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onExportPDF() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if filepath.Ext(path) != ".pdf" {
			path += ".pdf"
		}
		mw.saveLastDir(path)

		eng := mw.state.Engine
		opts := export.DefaultOptions()
		if size := eng.PaperSize(); size != "" {
			opts.PaperSize = size
		} else {
			opts.PaperSize = mw.state.Config.Export.PaperSize
		}
		opts.MarginMM = mw.state.Config.Export.MarginMM

		if err := export.PDF(path, eng.Document(), eng.TotalRoomArea(), opts); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.updateStatus("Exported: " + path)
	}, mw.Window)
	fd.SetFileName("plan.pdf")
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onUndo() {
	if mw.state.Engine.Undo() {
		mw.state.NotifyHistoryChanged()
	}
}

func (mw *MainWindow) onRedo() {
	if mw.state.Engine.Redo() {
		mw.state.NotifyHistoryChanged()
	}
}

func (mw *MainWindow) onClear() {
	dialog.ShowConfirm("Clear Plan", "Remove all drawn content?", func(ok bool) {
		if !ok {
			return
		}
		mw.state.Engine.Clear()
		mw.state.NotifyHistoryChanged()
	}, mw.Window)
}

func (mw *MainWindow) onEditLabel() {
	entry := widget.NewEntry()
	entry.SetText(mw.state.Engine.Label())
	dialog.ShowForm("Plan Label", "Set", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Label", entry)},
		func(ok bool) {
			if !ok {
				return
			}
			mw.state.Engine.SetLabel(entry.Text)
			mw.state.SetModified(true)
		}, mw.Window)
}

func (mw *MainWindow) onRepairGrid() {
	if err := mw.state.Engine.RepairGrid(); err != nil {
		mw.updateStatus("Grid repair failed: " + err.Error())
		return
	}
	mw.repairBtn.Hide()
	mw.updateStatus("Grid rebuilt")
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About Floor Plan",
		fmt.Sprintf("%s\n\nA floor plan drawing tool with snapping,\nroom areas, and PDF export.",
			version.String()),
		mw.Window)
}
