// Package metrics holds the Prometheus instrumentation for compiles.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "spvgen"
	subsystem = "compile"
)

// Registry is the registry Metrics is registered with. The CLI writes it
// out with WriteTextfile.
var Registry = prometheus.NewRegistry()

// Metrics provides access to compile metrics.
var Metrics = newCompileMetrics()

// CompileMetrics holds prometheus metrics for module compiles.
type CompileMetrics struct {
	duration    *prometheus.HistogramVec
	moduleWords prometheus.Histogram
	diagnostics *prometheus.CounterVec
}

func newCompileMetrics() *CompileMetrics {
	return &CompileMetrics{
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "duration_seconds",
				Help:      "Module compile time in seconds.",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 2, 14), // 10µs to ~80ms
			},
			[]string{"stage", "result"}, // result is "success" or "error"
		),
		moduleWords: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "module_words",
				Help:      "Size of compiled modules in 32-bit words.",
				Buckets:   prometheus.ExponentialBuckets(64, 2, 10),
			},
		),
		diagnostics: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "diagnostics_total",
				Help:      "Unsupported constructs skipped during compiles, by IR node kind.",
			},
			[]string{"node"},
		),
	}
}

// ObserveCompile records a compile duration for a shader stage.
func (m *CompileMetrics) ObserveCompile(stage string, durationSeconds float64, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	m.duration.WithLabelValues(stage, result).Observe(durationSeconds)
}

// ObserveModule records the size of a compiled module.
func (m *CompileMetrics) ObserveModule(words int) {
	m.moduleWords.Observe(float64(words))
}

// CountDiagnostic records one skipped construct of the given node kind.
func (m *CompileMetrics) CountDiagnostic(node string) {
	m.diagnostics.WithLabelValues(node).Inc()
}

// MustRegister registers the metrics with the given Prometheus registry.
func (m *CompileMetrics) MustRegister(registry prometheus.Registerer) {
	registry.MustRegister(m.duration, m.moduleWords, m.diagnostics)
}

// WriteTextfile writes every metric in Registry to path in the text
// exposition format, for node_exporter's textfile collector.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, Registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}

func init() {
	Metrics.MustRegister(Registry)
}
