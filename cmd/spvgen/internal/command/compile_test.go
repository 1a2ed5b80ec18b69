package command_test

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sigs.k8s.io/yaml"

	"github.com/gogpu/spvgen/spirv"
)

func TestCompile_HumanOutput(t *testing.T) {
	dir := workspace(t)
	src := writeFile(t, dir, "tint.yaml", tintedFragment)

	buf := new(bytes.Buffer)
	err := newTestRoot(buf, "compile", "-f", src).Execute()
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Compiled!")
	assert.Contains(t, out, filepath.Join(dir, "tint.spv"))
	for _, want := range []string{"Kind", "Sampler2D", "tex", "tint", "uv", "color", "ProgramOutput", "Relaxed"} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "Warning!")

	data, err := os.ReadFile(filepath.Join(dir, "tint.spv"))
	require.NoError(t, err)
	assert.Equal(t, spirv.MagicNumber, binary.LittleEndian.Uint32(data))
}

func TestCompile_JSONOutput(t *testing.T) {
	dir := workspace(t)
	src := writeFile(t, dir, "tint.yaml", tintedFragment)
	out := filepath.Join(dir, "custom.spv")

	buf := new(bytes.Buffer)
	err := newTestRoot(buf, "compile", "-f", src, "--out", out, "-o", "json").Execute()
	require.NoError(t, err)

	var result struct {
		Type       string `json:"type"`
		Status     string `json:"status"`
		Output     string `json:"output"`
		Words      int    `json:"words"`
		Reflection []struct {
			Kind  string `json:"kind"`
			Name  string `json:"name"`
			Class string `json:"class"`
		} `json:"reflection"`
		UniformLayout []struct {
			Name   string `json:"name"`
			Offset uint32 `json:"offset"`
		} `json:"uniformLayout"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result), buf.String())
	assert.Equal(t, "compile", result.Type)
	assert.Equal(t, "success", result.Status)
	assert.Equal(t, out, result.Output)
	assert.Greater(t, result.Words, spirv.HeaderWords)
	require.Len(t, result.UniformLayout, 1)
	assert.Equal(t, "tint", result.UniformLayout[0].Name)

	kinds := map[string]string{}
	for _, e := range result.Reflection {
		kinds[e.Name] = e.Kind
	}
	assert.Equal(t, map[string]string{
		"tex":   "Sampler",
		"tint":  "Uniform",
		"uv":    "ProgramInput",
		"color": "ProgramOutput",
	}, kinds)

	_, err = os.Stat(out)
	assert.NoError(t, err)
}

func TestCompile_YAMLOutputWithDiagnostics(t *testing.T) {
	dir := workspace(t)
	src := writeFile(t, dir, "call.yaml", callingVertex)

	buf := new(bytes.Buffer)
	err := newTestRoot(buf, "compile", "-f", src, "-o", "yaml").Execute()
	require.NoError(t, err)

	var result map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &result))
	assert.Equal(t, "warning", result["status"])
	diags, ok := result["diagnostics"].([]any)
	require.True(t, ok)
	require.Len(t, diags, 1)
	assert.Equal(t, "Call", diags[0].(map[string]any)["node"])
}

func TestCompile_UsesConfigFile(t *testing.T) {
	dir := workspace(t)
	src := writeFile(t, dir, "tint.yaml", tintedFragment)
	writeFile(t, dir, "spvgen.toml", "[target]\nversion = \"1.4\"\n")

	buf := new(bytes.Buffer)
	require.NoError(t, newTestRoot(buf, "compile", "-f", src).Execute())

	data, err := os.ReadFile(filepath.Join(dir, "tint.spv"))
	require.NoError(t, err)
	assert.Equal(t, uint32(0x00010400), binary.LittleEndian.Uint32(data[4:]))
}

func TestCompile_MissingEntryPoint(t *testing.T) {
	dir := workspace(t)
	src := writeFile(t, dir, "tint.yaml", tintedFragment)
	cfg := writeFile(t, dir, "other.toml", "[entry]\nname = \"vs_main\"\n")

	buf := new(bytes.Buffer)
	err := newTestRoot(buf, "compile", "-f", src, "-c", cfg).Execute()
	require.Error(t, err)

	var spvErr *spirv.Error
	require.ErrorAs(t, err, &spvErr)
	assert.Equal(t, spirv.ErrMissingEntryPoint, spvErr.Kind)
	assert.Contains(t, err.Error(), src)
}

func TestCompile_Errors(t *testing.T) {
	dir := workspace(t)
	broken := writeFile(t, dir, "broken.yaml", "stage: [")
	badConfig := writeFile(t, dir, "bad.toml", "[batch]\nparallelism = 0\n")
	good := writeFile(t, dir, "tint.yaml", tintedFragment)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing flag", []string{"compile"}, `required flag(s) "file" not set`},
		{"missing file", []string{"compile", "-f", filepath.Join(dir, "nope.yaml")}, "failed to read module document"},
		{"parse error", []string{"compile", "-f", broken}, "parse error"},
		{"bad config", []string{"compile", "-f", good, "-c", badConfig}, "batch.parallelism"},
		{"positional args", []string{"compile", "-f", good, "extra"}, "expected 0 arguments, got 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := new(bytes.Buffer)
			err := newTestRoot(buf, tt.args...).Execute()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
