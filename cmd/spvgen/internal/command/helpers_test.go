package command_test

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/spvgen/cmd/spvgen/internal/command"
	"github.com/gogpu/spvgen/cmd/spvgen/internal/view"
)

const tintedFragment = `
stage: fragment
variables:
  - {name: tex, type: sampler2D, mode: uniform}
  - {name: tint, type: vec4, mode: uniform}
  - {name: uv, type: vec2, mode: in}
  - {name: color, type: vec4, mode: out}
functions:
  - name: main
    body:
      - assign:
          lhs: {var: color}
          rhs:
            op: mul
            type: vec4
            args:
              - {texture: {op: tex, type: vec4, sampler: {var: tex}, coord: {var: uv}}}
              - {var: tint}
`

const callingVertex = `
stage: vertex
variables:
  - {name: pos, type: vec4, mode: out}
functions:
  - name: main
    body:
      - call: {name: helper, args: [{var: pos}]}
`

// newTestRoot wires a root command the way Execute does, writing both
// output and logs to buf.
func newTestRoot(buf *bytes.Buffer, args ...string) *cobra.Command {
	cli := command.NewCLI(view.ViewHuman, buf, view.LogLevelSilent)
	root := command.NewRootCommand()
	command.AddCommands(root, cli)

	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		outputFlag, _ := cmd.Flags().GetString("output")
		viewType, _ := view.ParseOutputFormat(outputFlag)
		s := view.NewStream(buf).WithLogWriter(io.Discard)
		cli.Viewer = view.NewViewer(viewType, s, view.LogLevelSilent)
		cli.Stream = s
	}
	root.SetArgs(args)
	root.SetOut(buf)
	root.SetErr(buf)
	return root
}

// workspace changes into a fresh directory so that no spvgen.toml is
// picked up by accident.
func workspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
