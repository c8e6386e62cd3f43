// Package metrics exports remote engine call statistics to Prometheus.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements voicemeeter.MetricsHook and the monitor callbacks used
// by vmremote watch.
type Recorder struct {
	calls         *prometheus.CounterVec
	latency       *prometheus.HistogramVec
	paramChanges  *prometheus.CounterVec
	devices       *prometheus.GaugeVec
	deviceChanges prometheus.Counter
}

// New registers the collectors with reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Recorder{
		calls: f.NewCounterVec(prometheus.CounterOpts{
			Name: "vmremote_calls_total",
			Help: "Native remote API calls by operation and result",
		}, []string{"op", "result"}), // result=ok|error
		latency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vmremote_call_duration_seconds",
			Help:    "Native remote API call latency",
			Buckets: []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05},
		}, []string{"op"}),
		paramChanges: f.NewCounterVec(prometheus.CounterOpts{
			Name: "vmremote_parameter_changes_total",
			Help: "Watched parameter changes seen by the monitor",
		}, []string{"name"}),
		devices: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "vmremote_devices",
			Help: "Audio devices reported by the engine",
		}, []string{"direction"}),
		deviceChanges: f.NewCounter(prometheus.CounterOpts{
			Name: "vmremote_device_changes_total",
			Help: "Device count changes seen by the monitor",
		}),
	}
}

// OnCall records one native call. Negative codes count as errors. Positive
// codes are labelled status_N unless the operation returns data in them.
func (r *Recorder) OnCall(op string, status int32, took time.Duration) {
	result := "ok"
	if status < 0 {
		result = "error"
	} else if status > 0 && !countsAsValue(op) {
		result = "status_" + strconv.Itoa(int(status))
	}
	r.calls.WithLabelValues(op, result).Inc()
	r.latency.WithLabelValues(op).Observe(took.Seconds())
}

// countsAsValue lists operations whose positive status is data, not failure.
func countsAsValue(op string) bool {
	switch op {
	case "get_midi_message", "get_device_number", "is_parameters_dirty":
		return true
	}
	return false
}

// ParameterChanged counts a watched parameter change.
func (r *Recorder) ParameterChanged(name string) {
	r.paramChanges.WithLabelValues(name).Inc()
}

// DevicesChanged records the new device count for direction.
func (r *Recorder) DevicesChanged(direction string, count int) {
	r.devices.WithLabelValues(direction).Set(float64(count))
	r.deviceChanges.Inc()
}

// SetDevices records a device count without counting a change.
func (r *Recorder) SetDevices(direction string, count int) {
	r.devices.WithLabelValues(direction).Set(float64(count))
}
