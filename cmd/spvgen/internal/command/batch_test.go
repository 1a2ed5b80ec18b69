package command_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type batchJSON struct {
	Type        string `json:"type"`
	Status      string `json:"status"`
	Succeeded   int    `json:"succeeded"`
	Failed      int    `json:"failed"`
	Skipped     int    `json:"skipped"`
	Diagnostics int    `json:"diagnostics"`
	Items       []struct {
		File   string `json:"file"`
		Output string `json:"output"`
		Status string `json:"status"`
		Error  string `json:"error"`
	} `json:"items"`
}

func TestBatch_AllSucceed(t *testing.T) {
	dir := workspace(t)
	shaders := filepath.Join(dir, "shaders")
	require.NoError(t, os.Mkdir(shaders, 0o700))
	writeFile(t, shaders, "a.yaml", tintedFragment)
	writeFile(t, shaders, "b.yml", callingVertex)
	writeFile(t, shaders, "README.md", "not a module")

	buf := new(bytes.Buffer)
	err := newTestRoot(buf, "batch", "-f", shaders, "-j", "2", "-o", "json").Execute()
	require.NoError(t, err)

	var result batchJSON
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result), buf.String())
	assert.Equal(t, "batch", result.Type)
	assert.Equal(t, "success", result.Status)
	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 1, result.Diagnostics)
	require.Len(t, result.Items, 2)
	assert.Equal(t, filepath.Join(shaders, "a.spv"), result.Items[0].Output)
	assert.Equal(t, filepath.Join(shaders, "b.spv"), result.Items[1].Output)

	for _, name := range []string{"a.spv", "b.spv"} {
		_, err := os.Stat(filepath.Join(shaders, name))
		assert.NoError(t, err)
	}
}

func TestBatch_ReportsFailuresAndContinues(t *testing.T) {
	dir := workspace(t)
	writeFile(t, dir, "a.yaml", tintedFragment)
	writeFile(t, dir, "b.yaml", "stage: [")
	writeFile(t, dir, "c.yaml", "stage: fragment\nfunctions: [{name: helper}]\n")
	writeFile(t, dir, "d.yaml", callingVertex)
	out := filepath.Join(dir, "out")
	require.NoError(t, os.Mkdir(out, 0o700))

	buf := new(bytes.Buffer)
	err := newTestRoot(buf, "batch", "-f", dir, "--out-dir", out).Execute()
	require.Error(t, err)
	assert.Empty(t, err.Error())

	text := buf.String()
	assert.Contains(t, text, "Error!")
	assert.Contains(t, text, "parse error")
	assert.Contains(t, text, "MissingEntryPoint")
	assert.Contains(t, text, "2 compiled, 2 failed, 0 skipped, 1 diagnostics")

	_, err = os.Stat(filepath.Join(out, "a.spv"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(out, "d.spv"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(out, "c.spv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestBatch_FailFastSkipsRemainingJobs(t *testing.T) {
	dir := workspace(t)
	writeFile(t, dir, "a.yaml", "stage: fragment\nfunctions: [{name: helper}]\n")
	writeFile(t, dir, "b.yaml", tintedFragment)
	writeFile(t, dir, "c.yaml", tintedFragment)

	buf := new(bytes.Buffer)
	err := newTestRoot(buf, "batch", "-f", dir, "-j", "1", "--fail-fast", "-o", "json").Execute()
	require.Error(t, err)

	var result batchJSON
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result), buf.String())
	assert.Equal(t, "error", result.Status)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 2, result.Skipped)
	assert.Equal(t, "skipped", result.Items[2].Status)
}

func TestBatch_FailFastFromConfig(t *testing.T) {
	dir := workspace(t)
	shaders := filepath.Join(dir, "shaders")
	require.NoError(t, os.Mkdir(shaders, 0o700))
	writeFile(t, shaders, "a.yaml", "stage: fragment\nfunctions: [{name: helper}]\n")
	writeFile(t, shaders, "b.yaml", tintedFragment)
	writeFile(t, dir, "spvgen.toml", "[batch]\nparallelism = 1\nfail-fast = true\n")

	buf := new(bytes.Buffer)
	require.Error(t, newTestRoot(buf, "batch", "-f", shaders, "-o", "json").Execute())

	var result batchJSON
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result), buf.String())
	assert.Equal(t, 1, result.Skipped)
}

func TestBatch_WritesMetricsFile(t *testing.T) {
	dir := workspace(t)
	writeFile(t, dir, "a.yaml", tintedFragment)
	metricsFile := filepath.Join(dir, "spvgen.prom")

	buf := new(bytes.Buffer)
	require.NoError(t, newTestRoot(buf, "batch", "-f", dir, "--metrics-file", metricsFile).Execute())

	data, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `spvgen_compile_duration_seconds_count{result="success",stage="fragment"}`)
}

func TestBatch_EmptyDirectory(t *testing.T) {
	dir := workspace(t)

	buf := new(bytes.Buffer)
	err := newTestRoot(buf, "batch", "-f", dir).Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no YAML files found")
}
