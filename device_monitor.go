package voicemeeter

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultMonitorInterval is the poll period used when MonitorConfig.Interval is zero.
	DefaultMonitorInterval = 50 * time.Millisecond
	// MinMonitorInterval is the shortest accepted poll period.
	MinMonitorInterval = 10 * time.Millisecond
)

// ParameterChange reports a watched parameter whose value moved between polls.
type ParameterChange struct {
	Name string
	Old  float32
	New  float32
}

// DeviceChange reports a change in the number of devices in one direction.
type DeviceChange struct {
	Direction Direction
	Old       int
	New       int
}

// MonitorConfig configures a Monitor.
type MonitorConfig struct {
	Interval          time.Duration
	Params            []string // numeric parameters re-read when the engine is dirty
	ErrorHandler      ErrorHandler
	OnParameterChange func(ParameterChange)
	OnDeviceChange    func(DeviceChange)
}

// Monitor polls a session for parameter and device changes.
type Monitor struct {
	session *Session
	cfg     MonitorConfig

	mu        sync.Mutex
	isRunning bool

	// last seen state, only touched by the poll loop
	values  map[string]float32
	devices map[Direction]int

	statsMu          sync.Mutex
	averageCheckTime time.Duration
	maxCheckTime     time.Duration
	checkCount       int64
}

// NewMonitor creates a monitor for s. It does not poll until Run is called.
func NewMonitor(s *Session, cfg MonitorConfig) (*Monitor, error) {
	if cfg.Interval == 0 {
		cfg.Interval = DefaultMonitorInterval
	}
	if cfg.Interval < MinMonitorInterval {
		return nil, fmt.Errorf("polling interval cannot be less than %v", MinMonitorInterval)
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = &DefaultErrorHandler{Logger: s.log}
	}
	return &Monitor{
		session: s,
		cfg:     cfg,
		values:  make(map[string]float32, len(cfg.Params)),
		devices: make(map[Direction]int, 2),
	}, nil
}

// IsRunning returns whether Run is active.
func (m *Monitor) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.isRunning
}

// Run polls until ctx is done. The first poll records the baseline and emits
// nothing. Poll failures go to the configured ErrorHandler and do not stop
// the loop. Run returns nil once ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) error {
	m.mu.Lock()
	if m.isRunning {
		m.mu.Unlock()
		return errors.New("monitor is already running")
	}
	m.isRunning = true
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		m.isRunning = false
		m.mu.Unlock()
	}()

	m.session.log.Debug().
		Dur("interval", m.cfg.Interval).
		Int("params", len(m.cfg.Params)).
		Msg("monitor started")

	m.baseline()

	limiter := rate.NewLimiter(rate.Every(m.cfg.Interval), 1)
	// consume the initial token so the first check waits a full interval
	limiter.Allow()
	for {
		if err := limiter.Wait(ctx); err != nil {
			m.session.log.Debug().Msg("monitor stopped")
			return nil
		}
		m.Check()
	}
}

func (m *Monitor) baseline() {
	for _, name := range m.cfg.Params {
		v, err := m.session.GetFloat(name)
		if err != nil {
			m.cfg.ErrorHandler.HandleError(fmt.Errorf("monitor baseline: %w", err))
			continue
		}
		m.values[name] = v
	}
	for _, dir := range []Direction{DeviceInput, DeviceOutput} {
		n, err := m.session.DeviceCount(dir)
		if err != nil {
			m.cfg.ErrorHandler.HandleError(fmt.Errorf("monitor baseline: %w", err))
			continue
		}
		m.devices[dir] = n
	}
}

// Check performs one poll immediately. It is called by Run and may be used
// directly from the goroutine that owns the monitor when Run is not active.
func (m *Monitor) Check() {
	start := time.Now()
	defer func() { m.updatePerformanceStats(time.Since(start)) }()

	dirty, err := m.session.IsDirty()
	if err != nil {
		m.cfg.ErrorHandler.HandleError(fmt.Errorf("dirty check failed: %w", err))
	} else if dirty {
		m.checkParams()
	}
	m.checkDevices()
}

func (m *Monitor) checkParams() {
	for _, name := range m.cfg.Params {
		v, err := m.session.GetFloat(name)
		if err != nil {
			m.cfg.ErrorHandler.HandleError(fmt.Errorf("parameter check failed: %w", err))
			continue
		}
		old, seen := m.values[name]
		m.values[name] = v
		if seen && old != v && m.cfg.OnParameterChange != nil {
			m.cfg.OnParameterChange(ParameterChange{Name: name, Old: old, New: v})
		}
	}
}

func (m *Monitor) checkDevices() {
	for _, dir := range []Direction{DeviceInput, DeviceOutput} {
		n, err := m.session.DeviceCount(dir)
		if err != nil {
			m.cfg.ErrorHandler.HandleError(fmt.Errorf("device count check failed: %w", err))
			continue
		}
		old, seen := m.devices[dir]
		m.devices[dir] = n
		if seen && old != n && m.cfg.OnDeviceChange != nil {
			m.cfg.OnDeviceChange(DeviceChange{Direction: dir, Old: old, New: n})
		}
	}
}

func (m *Monitor) updatePerformanceStats(elapsed time.Duration) {
	m.statsMu.Lock()
	defer m.statsMu.Unlock()

	m.checkCount++
	if m.checkCount == 1 {
		m.averageCheckTime = elapsed
	} else {
		// EMA with alpha = 0.1
		m.averageCheckTime = time.Duration(float64(m.averageCheckTime)*0.9 + float64(elapsed)*0.1)
	}
	if elapsed > m.maxCheckTime {
		m.maxCheckTime = elapsed
	}
}

// PerformanceStats returns the average and worst poll duration and the
// number of polls so far.
func (m *Monitor) PerformanceStats() (avgTime, maxTime time.Duration, checkCount int64) {
	m.statsMu.Lock()
	defer m.statsMu.Unlock()
	return m.averageCheckTime, m.maxCheckTime, m.checkCount
}
