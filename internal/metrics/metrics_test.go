package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaban/voicemeeter/internal/metrics"
)

func TestOnCall_Results(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := metrics.New(reg)

	r.OnCall("get_parameter_float", 0, time.Microsecond)
	r.OnCall("get_parameter_float", -3, time.Microsecond)
	r.OnCall("login", 1, time.Microsecond)
	r.OnCall("get_midi_message", 12, time.Microsecond)

	tests := []struct {
		op, result string
		want       float64
	}{
		{"get_parameter_float", "ok", 1},
		{"get_parameter_float", "error", 1},
		{"login", "status_1", 1},
		{"get_midi_message", "ok", 1},
	}
	got, err := testutil.GatherAndCount(reg, "vmremote_calls_total")
	require.NoError(t, err)
	assert.Equal(t, len(tests), got)

	body := scrape(t, reg)
	for _, tt := range tests {
		assert.Contains(t, body, `op="`+tt.op+`",result="`+tt.result+`"`)
	}
	assert.Contains(t, body, "vmremote_call_duration_seconds_bucket")
}

func TestMonitorMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := metrics.New(reg)

	r.SetDevices("input", 3)
	r.DevicesChanged("input", 4)
	r.ParameterChanged("Strip[0].gain")
	r.ParameterChanged("Strip[0].gain")

	body := scrape(t, reg)
	assert.Contains(t, body, `vmremote_devices{direction="input"} 4`)
	assert.Contains(t, body, "vmremote_device_changes_total 1")
	assert.Contains(t, body, `vmremote_parameter_changes_total{name="Strip[0].gain"} 2`)
}

func TestNew_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.New(reg)
	assert.Panics(t, func() { metrics.New(reg) })
}

func scrape(t *testing.T, reg *prometheus.Registry) string {
	t.Helper()
	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	promhttp.HandlerFor(reg, promhttp.HandlerOpts{}).ServeHTTP(recorder, req)
	require.Equal(t, http.StatusOK, recorder.Code)
	return strings.TrimSpace(recorder.Body.String())
}
