package app

import (
	"os"
	"path/filepath"
	"syscall"
	"time"

	"floorplan/internal/sched"
)

// HotReloader watches the running binary for changes and triggers a callback
// when a newer version is detected. This is useful during development to
// automatically prompt for restart after recompilation.
type HotReloader struct {
	execPath    string
	baseline    time.Time
	scheduler   sched.Scheduler
	cancel      sched.CancelFunc
	notified    bool
	onNewBinary func()
}

// NewHotReloader creates a hot reloader that watches the current executable,
// polling on the given scheduler. Returns nil if the executable path cannot
// be determined.
func NewHotReloader(scheduler sched.Scheduler, checkInterval time.Duration) *HotReloader {
	execPath, err := os.Executable()
	if err != nil {
		return nil
	}

	// go build writes a new file; follow the symlink so we stat the real one.
	if realPath, err := filepath.EvalSymlinks(execPath); err == nil {
		execPath = realPath
	}

	info, err := os.Stat(execPath)
	if err != nil {
		return nil
	}

	h := &HotReloader{
		execPath:  execPath,
		baseline:  info.ModTime(),
		scheduler: scheduler,
	}
	h.cancel = scheduler.Every(checkInterval, h.check)
	return h
}

// OnNewBinary sets the callback to invoke when a newer binary is detected.
// The callback runs on the scheduler goroutine; synchronize UI updates.
func (h *HotReloader) OnNewBinary(callback func()) {
	h.onNewBinary = callback
}

// Stop cancels the watch.
func (h *HotReloader) Stop() {
	if h.cancel != nil {
		h.cancel()
	}
}

func (h *HotReloader) check() {
	if h.notified {
		return
	}
	info, err := os.Stat(h.execPath)
	if err != nil || !info.ModTime().After(h.baseline) {
		return
	}
	h.notified = true
	if h.onNewBinary != nil {
		h.onNewBinary()
	}
}

// ResetBaseline updates the baseline timestamp to the current binary's mod
// time and re-arms the notification. Call this when the user declines a
// restart.
func (h *HotReloader) ResetBaseline() {
	if info, err := os.Stat(h.execPath); err == nil {
		h.baseline = info.ModTime()
	}
	h.notified = false
}

// Restart replaces the current process with a new instance of the binary.
// This function does not return on success.
func (h *HotReloader) Restart() error {
	args := os.Args
	env := os.Environ()

	// syscall.Exec replaces the current process without forking.
	return syscall.Exec(h.execPath, args, env)
}
