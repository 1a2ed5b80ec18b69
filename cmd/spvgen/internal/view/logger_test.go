package view_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/spvgen/cmd/spvgen/internal/view"
)

func init() {
	color.NoColor = true
}

func setupHumanLogger(level view.LogLevel) (*bytes.Buffer, view.Logger) {
	buf := &bytes.Buffer{}
	stream := view.NewStream(buf)
	humanView := view.NewHumanView(stream, level)
	return buf, humanView.Logger()
}

func setupJSONLogger(level view.LogLevel) (*bytes.Buffer, view.Logger) {
	buf := &bytes.Buffer{}
	stream := view.NewStream(buf)
	jsonView := view.NewJSONView(stream, level)
	return buf, jsonView.Logger()
}

func TestHumanLogger_Debug(t *testing.T) {
	buf, logger := setupHumanLogger(view.LogLevelDebug)
	logger.Debug("test debug message")

	output := buf.String()
	assert.Contains(t, output, "DEBUG")
	assert.Contains(t, output, "test debug message")
}

func TestHumanLogger_Info(t *testing.T) {
	buf, logger := setupHumanLogger(view.LogLevelInfo)
	logger.Info("test info message")

	output := buf.String()
	assert.Contains(t, output, "INFO")
	assert.Contains(t, output, "test info message")
}

func TestHumanLogger_InfoLevelFiltersDebug(t *testing.T) {
	buf, logger := setupHumanLogger(view.LogLevelInfo)

	logger.Debug("debug message")
	logger.Info("info message")

	output := buf.String()
	assert.NotContains(t, output, "debug message")
	assert.Contains(t, output, "info message")
}

func TestHumanLogger_SilentLevelFiltersAll(t *testing.T) {
	buf, logger := setupHumanLogger(view.LogLevelSilent)

	logger.Debug("debug message")
	logger.Error("error message")
	logger.Logr().Info("logr message")

	assert.Empty(t, buf.String())
}

func TestHumanLogger_LogrVerbosity(t *testing.T) {
	buf, logger := setupHumanLogger(view.LogLevelDebug)
	log := logger.Logr()

	log.Info("plain")
	log.V(1).Info("diagnostic", "node", "Call")
	log.V(2).Info("assembled module", "words", 42)

	output := buf.String()
	assert.Contains(t, output, "plain")
	assert.Contains(t, output, "diagnostic")
	assert.Contains(t, output, "node=Call")
	assert.Contains(t, output, "words=42")
	assert.NotContains(t, output, "DEBUG+", "verbosity levels print as DEBUG")
}

func TestHumanLogger_InfoLevelFiltersLogrVerbosity(t *testing.T) {
	buf, logger := setupHumanLogger(view.LogLevelInfo)
	log := logger.Logr()

	log.Info("kept")
	log.V(1).Info("dropped")

	output := buf.String()
	assert.Contains(t, output, "kept")
	assert.NotContains(t, output, "dropped")
}

func TestJSONLogger_Lines(t *testing.T) {
	buf, logger := setupJSONLogger(view.LogLevelDebug)
	logger.Warn("careful", "file", "a.yaml")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "WARN", line["level"])
	assert.Equal(t, "careful", line["msg"])
	assert.Equal(t, "a.yaml", line["file"])
}

func TestJSONLogger_LogLevelFiltering(t *testing.T) {
	buf, logger := setupJSONLogger(view.LogLevelInfo)

	logger.Debug("debug message")
	logger.Info("info message")

	output := buf.String()
	assert.NotContains(t, output, "debug message")
	assert.Contains(t, output, "info message")
}

func TestStream_SeparateLogWriter(t *testing.T) {
	out, logs := &bytes.Buffer{}, &bytes.Buffer{}
	s := view.NewStream(out).WithLogWriter(logs)
	v := view.NewHumanView(s, view.LogLevelInfo)

	v.Println("result")
	v.Logger().Info("progress")

	assert.Equal(t, "result\n", out.String())
	assert.Contains(t, logs.String(), "progress")
}
