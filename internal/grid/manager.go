// Package grid owns the lifecycle of the reference grid overlay: creation,
// verification, throttling, locking, and self-healing. The manager holds no
// copy of the grid — the surface is the source of truth and grid objects are
// found by their kind tag.
package grid

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"floorplan/internal/object"
	"floorplan/internal/sched"
	"floorplan/internal/surface"
)

// Config tunes the manager's timing and degradation policy.
type Config struct {
	// FreshnessWindow is how long a verified grid is trusted before
	// EnsureGrid re-checks the surface.
	FreshnessWindow time.Duration

	// ThrottleWindow is the minimum interval between rebuilds; rapid
	// triggers inside the window collapse into the build already done.
	ThrottleWindow time.Duration

	// RetryBaseDelay and RetryMaxDelay bound the exponential backoff
	// between failed build attempts.
	RetryBaseDelay time.Duration
	RetryMaxDelay  time.Duration

	// MaxAttempts is the number of failed builds tolerated before the
	// manager goes Degraded.
	MaxAttempts int

	// MonitorInterval is the health-check period.
	MonitorInterval time.Duration

	// DensityCeiling is the estimated minor-line count above which the
	// minor grid is skipped and only the major grid is built.
	DensityCeiling int

	// MaxRepairsPerWindow rate-limits monitor-triggered repairs inside
	// RepairRateWindow so a surface that keeps invalidating the grid
	// cannot cause thrashing.
	MaxRepairsPerWindow int
	RepairRateWindow    time.Duration
}

// DefaultConfig returns the production tuning.
func DefaultConfig() Config {
	return Config{
		FreshnessWindow:     5 * time.Second,
		ThrottleWindow:      250 * time.Millisecond,
		RetryBaseDelay:      200 * time.Millisecond,
		RetryMaxDelay:       5 * time.Second,
		MaxAttempts:         5,
		MonitorInterval:     2 * time.Second,
		DensityCeiling:      2000,
		MaxRepairsPerWindow: 3,
		RepairRateWindow:    30 * time.Second,
	}
}

// Manager guarantees the surface always shows a correct, non-duplicated grid
// overlay, recovering automatically from loss. One Manager exists per
// surface; it must be Closed so no timer outlives the surface it mutates.
type Manager struct {
	surf surface.Surface
	cfg  Config
	sch  sched.Scheduler
	log  *log.Logger

	// mu guards everything below; timer callbacks and caller requests
	// both land here.
	mu            sync.Mutex
	spec          Spec
	state         State
	building      bool
	lastBuildAt   time.Time
	retryCancel   sched.CancelFunc
	monitorCancel sched.CancelFunc
	repairTimes   []time.Time
	closed        bool
}

// NewManager creates a grid manager for the surface and starts its health
// monitor. A nil scheduler falls back to wall-clock timers; a nil logger
// discards output.
func NewManager(surf surface.Surface, cfg Config, scheduler sched.Scheduler, logger *log.Logger) *Manager {
	if scheduler == nil {
		scheduler = sched.NewTimer()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	m := &Manager{
		surf: surf,
		cfg:  cfg,
		sch:  scheduler,
		log:  logger,
		spec: DefaultSpec(),
	}
	if cfg.MonitorInterval > 0 {
		m.monitorCancel = scheduler.Every(cfg.MonitorInterval, m.monitorTick)
	}
	return m
}

// EnsureGrid makes sure a correct grid for spec is on the surface and
// returns the grid objects. It is idempotent: a grid verified within the
// freshness window is returned unchanged, a duplicate request during a build
// is dropped (CodeConcurrentBuild), and a request inside the throttle window
// collapses into the build already performed.
func (m *Manager) EnsureGrid(spec Spec) ([]*object.Object, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, newError(CodeClosed, "grid manager is closed")
	}
	if err := spec.Validate(); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	bounds := m.surf.Bounds()
	if bounds.Empty() {
		m.mu.Unlock()
		return nil, newError(CodeInvalidBounds, "surface bounds %vx%v", bounds.Width, bounds.Height)
	}

	if m.building {
		m.mu.Unlock()
		return nil, newError(CodeConcurrentBuild, "build already in flight; request dropped")
	}

	m.spec = spec
	now := m.sch.Now()
	existing := object.FilterGrid(m.surf.Objects())

	if m.state.Phase == PhaseReady && len(existing) > 0 &&
		now.Sub(m.state.LastVerifiedAt) < m.cfg.FreshnessWindow && m.allContained(existing) {
		m.mu.Unlock()
		return existing, nil
	}

	if !m.lastBuildAt.IsZero() && now.Sub(m.lastBuildAt) < m.cfg.ThrottleWindow {
		// Collapse rapid triggers into the rebuild already done.
		m.mu.Unlock()
		return existing, nil
	}

	return m.rebuildLocked(PhasePending)
}

// rebuildLocked starts a build while holding the lock; it releases the lock
// around the surface mutation and returns with it released.
func (m *Manager) rebuildLocked(phase Phase) ([]*object.Object, error) {
	m.building = true
	m.state.Phase = phase
	m.state.LockToken = uuid.NewString()
	m.state.AttemptCount = 0
	m.lastBuildAt = m.sch.Now()
	spec := m.spec
	m.mu.Unlock()

	objs, err := m.performBuild(spec)

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, newError(CodeClosed, "grid manager closed during build")
	}
	if err != nil {
		werr := m.handleBuildFailureLocked(err)
		m.mu.Unlock()
		return nil, werr
	}
	m.finishBuildLocked(len(objs))
	m.mu.Unlock()
	return objs, nil
}

// performBuild computes and installs the grid: remove the stale grid subset,
// one bulk insert of the new objects, one repaint request.
func (m *Manager) performBuild(spec Spec) ([]*object.Object, error) {
	bounds := m.surf.Bounds()
	if bounds.Empty() {
		return nil, newError(CodeInvalidBounds, "surface bounds %vx%v", bounds.Width, bounds.Height)
	}

	estimate := spec.EstimateMinorLines(bounds)
	includeMinor := estimate <= m.cfg.DensityCeiling
	if !includeMinor {
		m.log.Warn("minor grid suppressed by density ceiling",
			"estimated", estimate, "ceiling", m.cfg.DensityCeiling)
	}

	for _, o := range object.FilterGrid(m.surf.Objects()) {
		m.surf.Remove(o.ID)
	}

	spec.Bounds = bounds
	objs := BuildObjects(spec, bounds, includeMinor)
	if err := m.surf.Add(objs); err != nil {
		return nil, wrapError(CodeBuildFailed, err, "bulk insert of %d grid objects", len(objs))
	}
	m.surf.RequestRepaint()
	return objs, nil
}

func (m *Manager) finishBuildLocked(count int) {
	m.building = false
	m.state.Phase = PhaseReady
	m.state.LastVerifiedAt = m.sch.Now()
	m.state.AttemptCount = 0
	m.log.Debug("grid ready", "objects", count)
}

// handleBuildFailureLocked records a failed attempt and either schedules a
// backoff retry or transitions to Degraded.
func (m *Manager) handleBuildFailureLocked(cause error) error {
	if HasCode(cause, CodeInvalidBounds) {
		// Not retryable: surface has no usable extent.
		m.building = false
		return cause
	}

	m.state.AttemptCount++
	if m.state.AttemptCount >= m.cfg.MaxAttempts {
		m.building = false
		m.state.Phase = PhaseDegraded
		m.log.Error("grid degraded after max retries",
			"attempts", m.state.AttemptCount, "cause", cause)
		return wrapError(CodeDegraded, cause, "build failed %d times", m.state.AttemptCount)
	}

	delay := m.cfg.RetryBaseDelay << (m.state.AttemptCount - 1)
	if m.cfg.RetryMaxDelay > 0 && delay > m.cfg.RetryMaxDelay {
		delay = m.cfg.RetryMaxDelay
	}
	m.log.Debug("grid build failed, retrying",
		"attempt", m.state.AttemptCount, "delay", delay, "cause", cause)
	m.retryCancel = m.sch.After(delay, m.retryBuild)
	return cause
}

// retryBuild is the backoff timer callback.
func (m *Manager) retryBuild() {
	m.mu.Lock()
	if m.closed || !m.building {
		m.mu.Unlock()
		return
	}
	spec := m.spec
	m.mu.Unlock()

	objs, err := m.performBuild(spec)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	if err != nil {
		// Error already carries its own reporting; retry chain continues
		// or terminates in Degraded.
		_ = m.handleBuildFailureLocked(err)
		return
	}
	m.finishBuildLocked(len(objs))
}

// monitorTick is the periodic health check: a Ready grid must have at least
// one object and every object must still be contained on the surface.
func (m *Manager) monitorTick() {
	m.mu.Lock()
	if m.closed || m.building || m.state.Phase != PhaseReady {
		m.mu.Unlock()
		return
	}

	gridObjs := object.FilterGrid(m.surf.Objects())
	if len(gridObjs) > 0 && m.allContained(gridObjs) {
		m.state.LastVerifiedAt = m.sch.Now()
		m.mu.Unlock()
		return
	}

	now := m.sch.Now()
	if !m.repairAllowedLocked(now) {
		m.log.Warn("grid repair rate limit hit, skipping cycle",
			"window", m.cfg.RepairRateWindow, "max", m.cfg.MaxRepairsPerWindow)
		m.mu.Unlock()
		return
	}
	m.repairTimes = append(m.repairTimes, now)
	m.state.Repairs++
	m.log.Info("grid violation detected, repairing",
		"remaining", len(gridObjs), "repairs", m.state.Repairs)

	if len(gridObjs) > 0 {
		// Visibility fix: part of the grid survives, so re-add the
		// missing subset and repaint rather than rebuilding everything.
		m.state.Phase = PhaseRepairing
		missing := m.missingLocked(gridObjs)
		m.mu.Unlock()

		var err error
		if len(missing) > 0 {
			err = m.surf.Add(missing)
		}
		m.surf.RequestRepaint()

		m.mu.Lock()
		if err == nil {
			m.state.Phase = PhaseReady
			m.state.LastVerifiedAt = m.sch.Now()
		} else {
			m.log.Warn("visibility fix failed, escalating to rebuild", "cause", err)
		}
		escalate := err != nil
		m.mu.Unlock()
		if escalate {
			m.rebuildFromMonitor()
		}
		return
	}

	// Nothing left: full recreation.
	m.mu.Unlock()
	m.rebuildFromMonitor()
}

func (m *Manager) rebuildFromMonitor() {
	m.mu.Lock()
	if m.closed || m.building {
		m.mu.Unlock()
		return
	}
	// Repairs bypass the freshness and throttle windows: a verified
	// violation always warrants a build.
	_, _ = m.rebuildLocked(PhaseRepairing) // returns with lock released
}

// missingLocked returns grid objects the surface no longer reports as
// contained.
func (m *Manager) missingLocked(gridObjs []*object.Object) []*object.Object {
	var missing []*object.Object
	for _, o := range gridObjs {
		if !m.surf.Contains(o.ID) {
			missing = append(missing, o)
		}
	}
	return missing
}

func (m *Manager) allContained(objs []*object.Object) bool {
	for _, o := range objs {
		if !m.surf.Contains(o.ID) {
			return false
		}
	}
	return true
}

// repairAllowedLocked prunes expired repair records and checks the rate
// limit.
func (m *Manager) repairAllowedLocked(now time.Time) bool {
	if m.cfg.MaxRepairsPerWindow <= 0 || m.cfg.RepairRateWindow <= 0 {
		return true
	}
	kept := m.repairTimes[:0]
	for _, t := range m.repairTimes {
		if now.Sub(t) < m.cfg.RepairRateWindow {
			kept = append(kept, t)
		}
	}
	m.repairTimes = kept
	return len(m.repairTimes) < m.cfg.MaxRepairsPerWindow
}

// State returns a copy of the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Repair clears a Degraded state and forces a rebuild. This is the explicit
// remediation path surfaced to the user when retries are exhausted.
func (m *Manager) Repair() ([]*object.Object, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, newError(CodeClosed, "grid manager is closed")
	}
	if m.building {
		m.mu.Unlock()
		return nil, newError(CodeConcurrentBuild, "build already in flight; request dropped")
	}
	return m.rebuildLocked(PhaseRepairing)
}

// Close cancels the monitor and any pending retry. No timer mutates the
// surface after Close returns.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.closed = true
	m.building = false
	if m.retryCancel != nil {
		m.retryCancel()
		m.retryCancel = nil
	}
	if m.monitorCancel != nil {
		m.monitorCancel()
		m.monitorCancel = nil
	}
}
