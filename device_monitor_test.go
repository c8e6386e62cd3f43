package voicemeeter

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/shaban/voicemeeter/internal/testutil"
)

type collector struct {
	mu      sync.Mutex
	params  []ParameterChange
	devices []DeviceChange
	errs    []error
}

func (c *collector) onParam(p ParameterChange) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.params = append(c.params, p)
}

func (c *collector) onDevice(d DeviceChange) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.devices = append(c.devices, d)
}

func (c *collector) HandleError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errs = append(c.errs, err)
}

func (c *collector) snapshot() ([]ParameterChange, []DeviceChange, []error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]ParameterChange(nil), c.params...),
		append([]DeviceChange(nil), c.devices...),
		append([]error(nil), c.errs...)
}

func newTestMonitor(t *testing.T, s *Session, params ...string) (*Monitor, *collector) {
	t.Helper()
	c := &collector{}
	m, err := NewMonitor(s, MonitorConfig{
		Params:            params,
		ErrorHandler:      c,
		OnParameterChange: c.onParam,
		OnDeviceChange:    c.onDevice,
	})
	require.NoError(t, err)
	return m, c
}

func TestNewMonitor_Interval(t *testing.T) {
	s, _ := openFake(t)

	m, err := NewMonitor(s, MonitorConfig{})
	require.NoError(t, err)
	assert.Equal(t, DefaultMonitorInterval, m.cfg.Interval)
	assert.NotNil(t, m.cfg.ErrorHandler)

	_, err = NewMonitor(s, MonitorConfig{Interval: time.Millisecond})
	assert.Error(t, err)
}

func TestMonitor_Check(t *testing.T) {
	s, f := openFake(t)
	f.Floats["Strip[0].gain"] = 0
	f.Floats["Strip[0].mute"] = 0
	f.SetDevices([]testutil.FakeDevice{{Type: 3, Name: "Mic"}}, nil)

	m, c := newTestMonitor(t, s, "Strip[0].gain", "Strip[0].mute")
	m.baseline()

	// nothing changed
	m.Check()
	params, devices, errs := c.snapshot()
	assert.Empty(t, params)
	assert.Empty(t, devices)
	assert.Empty(t, errs)

	f.SetFloat("Strip[0].gain", -6)
	f.SetDevices(nil, []testutil.FakeDevice{{Type: 5, Name: "ASIO"}})
	m.Check()

	params, devices, _ = c.snapshot()
	assert.Equal(t, []ParameterChange{{Name: "Strip[0].gain", Old: 0, New: -6}}, params)
	assert.Equal(t, []DeviceChange{
		{Direction: DeviceInput, Old: 1, New: 0},
		{Direction: DeviceOutput, Old: 0, New: 1},
	}, devices)

	// values are only re-read when the engine reports dirty
	f.Lock()
	f.Floats["Strip[0].mute"] = 1
	f.Unlock()
	m.Check()
	params, _, _ = c.snapshot()
	assert.Len(t, params, 1)

	_, _, n := m.PerformanceStats()
	assert.Equal(t, int64(3), n)
}

func TestMonitor_ErrorsGoToHandler(t *testing.T) {
	s, f := openFake(t)
	m, c := newTestMonitor(t, s, "Strip[9].gain")
	m.baseline()

	f.MarkDirty()
	f.SetStatus("InputGetDeviceNumber", -1)
	m.Check()

	_, _, errs := c.snapshot()
	// baseline parameter read, check parameter read, device count
	require.Len(t, errs, 3)
	assert.True(t, errors.Is(errs[0], ErrUnknownParameter))
	assert.True(t, errors.Is(errs[1], ErrUnknownParameter))
	assert.True(t, errors.Is(errs[2], ErrUnexpectedStatus))

	f.SetStatus("IsParametersDirty", -2)
	m.Check()
	_, _, errs = c.snapshot()
	assert.True(t, errors.Is(errs[3], ErrServerUnavailable))
}

func TestMonitor_Run(t *testing.T) {
	defer goleak.VerifyNone(t)

	s, f := openFake(t)
	f.Floats["Bus[0].gain"] = 0

	c := &collector{}
	m, err := NewMonitor(s, MonitorConfig{
		Interval:          10 * time.Millisecond,
		Params:            []string{"Bus[0].gain"},
		ErrorHandler:      c,
		OnParameterChange: c.onParam,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	// one finished check means the baseline has been recorded
	require.Eventually(t, func() bool {
		_, _, n := m.PerformanceStats()
		return n > 0
	}, time.Second, 5*time.Millisecond)
	assert.True(t, m.IsRunning())
	assert.Error(t, m.Run(ctx), "second Run must be rejected")

	f.SetFloat("Bus[0].gain", 3)
	require.Eventually(t, func() bool {
		params, _, _ := c.snapshot()
		return len(params) == 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.False(t, m.IsRunning())

	params, _, errs := c.snapshot()
	assert.Equal(t, ParameterChange{Name: "Bus[0].gain", Old: 0, New: 3}, params[0])
	assert.Empty(t, errs)
}
