// Package main provides the entry point for the Floor Plan application.
package main

import (
	"os"
	"time"

	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"
	"github.com/charmbracelet/log"

	"floorplan/internal/app"
	"floorplan/internal/config"
	"floorplan/internal/engine"
	"floorplan/internal/grid"
	"floorplan/internal/sched"
	"floorplan/internal/surface"
	"floorplan/internal/version"
	"floorplan/pkg/geometry"
	"floorplan/ui/canvas"
	"floorplan/ui/mainwindow"
	"floorplan/ui/prefs"
)

// defaultPlanBounds is the drawable extent in meters for a new plan.
var defaultPlanBounds = geometry.NewRect(0, 0, 30, 20)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "floorplan",
	})
	logger.Info("starting", "version", version.Version)

	cfg := loadConfig(logger)

	store := surface.NewMemory(defaultPlanBounds)
	planCanvas := canvas.NewPlanCanvas(store)

	opts := engine.DefaultOptions()
	opts.SnapSpacing = cfg.Drawing.SnapSpacing
	opts.AngleTolerance = cfg.Drawing.AngleTolerance
	opts.MaxHistory = cfg.Drawing.MaxHistory
	opts.GridConfig.ThrottleWindow = cfg.Grid.Throttle()
	opts.GridConfig.MonitorInterval = cfg.Grid.MonitorInterval()
	opts.GridConfig.DensityCeiling = cfg.Grid.DensityCeiling
	opts.Scheduler = sched.NewTimer()
	opts.Logger = logger

	eng := engine.New(planCanvas, opts)
	defer eng.Close()

	gridSpec := grid.DefaultSpec()
	gridSpec.MinorSpacing = cfg.Grid.MinorSpacing
	gridSpec.MajorSpacing = cfg.Grid.MajorSpacing
	gridSpec.MarkerInterval = cfg.Grid.MarkerInterval

	appState := app.NewState(eng, cfg)
	appPrefs := prefs.Load()

	fyneApp := fyneapp.New()
	fyneApp.Settings().SetTheme(&app.FloorPlanTheme{})

	win := mainwindow.New(fyneApp, appState, planCanvas, gridSpec, appPrefs)

	if len(os.Args) > 1 {
		projectPath := os.Args[1]
		if err := appState.LoadProject(projectPath); err != nil {
			logger.Error("load project", "path", projectPath, "err", err)
		}
	} else if last := appPrefs.String(prefs.KeyLastProject, ""); last != "" {
		if err := appState.LoadProject(last); err != nil {
			logger.Warn("reopen last project", "path", last, "err", err)
		}
	}

	setupHotReload(win, appPrefs, logger)

	win.SetOnClosed(func() {
		if err := appPrefs.Save(); err != nil {
			logger.Warn("save preferences", "err", err)
		}
	})

	win.ShowAndInit()
	fyneApp.Run()
}

func loadConfig(logger *log.Logger) config.Config {
	path, err := config.DefaultPath()
	if err != nil {
		logger.Warn("config dir unavailable, using defaults", "err", err)
		return config.Default()
	}
	cfg, err := config.Load(path)
	if err != nil {
		logger.Warn("config load failed, using defaults", "path", path, "err", err)
		return config.Default()
	}
	return cfg
}

// setupHotReload configures automatic restart detection when the binary is
// recompiled.
func setupHotReload(win *mainwindow.MainWindow, appPrefs *prefs.Prefs, logger *log.Logger) {
	reloader := app.NewHotReloader(sched.NewTimer(), 2*time.Second)
	if reloader == nil {
		logger.Debug("hot reload: unable to determine executable path")
		return
	}

	reloader.OnNewBinary(func() {
		logger.Info("hot reload: newer binary detected")
		dialog.ShowConfirm("New Version Available",
			"The application binary has been updated.\nRestart now?",
			func(restart bool) {
				if !restart {
					reloader.ResetBaseline()
					return
				}
				if err := appPrefs.Save(); err != nil {
					logger.Warn("save preferences", "err", err)
				}
				if err := reloader.Restart(); err != nil {
					logger.Error("hot reload: restart failed", "err", err)
				}
			}, win.Window)
	})
}
