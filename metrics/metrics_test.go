package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := newCompileMetrics()
	m.MustRegister(registry)

	t.Run("ObserveCompile success", func(t *testing.T) {
		m.ObserveCompile("fragment", 0.001, nil)
		assert.Equal(t, 1, testutil.CollectAndCount(m.duration))
	})

	t.Run("ObserveCompile error", func(t *testing.T) {
		m.ObserveCompile("fragment", 0.002, errors.New("compile error"))
		assert.Equal(t, 2, testutil.CollectAndCount(m.duration))
	})

	t.Run("ObserveModule", func(t *testing.T) {
		m.ObserveModule(120)
		m.ObserveModule(4000)
		assert.Equal(t, 1, testutil.CollectAndCount(m.moduleWords))
	})

	t.Run("CountDiagnostic", func(t *testing.T) {
		m.CountDiagnostic("Call")
		m.CountDiagnostic("Call")
		m.CountDiagnostic("DerefRecord")
		assert.InDelta(t, 2, testutil.ToFloat64(m.diagnostics.WithLabelValues("Call")), 0)
		assert.InDelta(t, 1, testutil.ToFloat64(m.diagnostics.WithLabelValues("DerefRecord")), 0)
	})
}

func TestCompileMetrics_Labels(t *testing.T) {
	m := newCompileMetrics()
	registry := prometheus.NewRegistry()
	m.MustRegister(registry)

	m.ObserveCompile("vertex", 0.001, nil)
	m.ObserveCompile("compute", 0.002, errors.New("error"))

	families, err := registry.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != "spvgen_compile_duration_seconds" {
			continue
		}
		require.Len(t, mf.GetMetric(), 2)
		for _, metric := range mf.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "result" {
					assert.Contains(t, []string{"success", "error"}, label.GetValue())
				}
			}
		}
	}
}

func TestMetricsRegistration(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := newCompileMetrics()

	require.NotPanics(t, func() {
		m.MustRegister(registry)
	})

	m.ObserveCompile("fragment", 0.001, nil)
	m.ObserveModule(100)
	m.CountDiagnostic("Call")

	families, err := registry.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 3)

	names := make(map[string]bool)
	for _, mf := range families {
		names[mf.GetName()] = true
	}
	assert.True(t, names["spvgen_compile_duration_seconds"])
	assert.True(t, names["spvgen_compile_module_words"])
	assert.True(t, names["spvgen_compile_diagnostics_total"])
}

func TestWriteTextfile(t *testing.T) {
	Metrics.ObserveModule(256)

	path := filepath.Join(t.TempDir(), "spvgen.prom")
	require.NoError(t, WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "spvgen_compile_module_words_count"))
}

func TestWriteTextfile_BadPath(t *testing.T) {
	err := WriteTextfile(filepath.Join(t.TempDir(), "missing", "dir", "spvgen.prom"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write metrics")
}
