package command

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gogpu/spvgen"
	"github.com/gogpu/spvgen/cmd/spvgen/internal/loader"
	"github.com/gogpu/spvgen/cmd/spvgen/internal/view"
	"github.com/gogpu/spvgen/config"
)

// CompileOptions holds the options for the compile command.
type CompileOptions struct {
	Path       string
	ConfigPath string
	Output     string
}

func NewCompileCommand(cli *CLI) *cobra.Command {
	var opts CompileOptions

	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile a module document to SPIR-V",
		Long: Highlight("spvgen compile -f <file>") + "\n\n" +
			"Compile a YAML module document into a SPIR-V binary and print its\n" +
			"reflection data. Options are read from " + config.FileName + " in the\n" +
			"working directory unless -c names another file.\n\n" +
			"Examples:\n" +
			"  # Compile next to the source, producing shader.spv\n" +
			"  spvgen compile -f shader.yaml\n\n" +
			"  # Use a custom configuration and print JSON\n" +
			"  spvgen compile -f shader.yaml -c release.toml -o json\n",
		Args: ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunCompile(cmd.Context(), cli, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Path, "file", "f", "", "Path to the module document")
	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to the configuration file")
	cmd.Flags().StringVar(&opts.Output, "out", "", "Path of the SPIR-V output (default: <file>.spv)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func RunCompile(ctx context.Context, cli *CLI, opts CompileOptions) error {
	log := cli.Logger()

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}
	spvOpts, err := cfg.Options()
	if err != nil {
		return err
	}
	spvOpts.Logger = log.Logr()

	source, err := os.ReadFile(opts.Path)
	if err != nil {
		return fmt.Errorf("failed to read module document: %w", err)
	}
	module, err := spvgen.Parse(source)
	if err != nil {
		return fmt.Errorf("%s: %w", opts.Path, err)
	}
	if err := cfg.ApplyPrecision(module); err != nil {
		return err
	}

	log.Debug("compiling", "file", opts.Path, "stage", module.Stage, "entry", spvOpts.EntryPoint)
	result, err := spvgen.CompileModule(module, spvOpts)
	if err != nil {
		return fmt.Errorf("%s: %w", opts.Path, err)
	}

	out := opts.Output
	if out == "" {
		out = loader.OutputPath(opts.Path, "")
	}
	if err := os.WriteFile(out, result.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write module: %w", err)
	}
	log.Info("wrote module", "path", out, "words", len(result.Words))

	view.NewCompileView(cli.Viewer).Render(view.CompileResult{
		File:   opts.Path,
		Output: out,
		Result: result,
	})
	return nil
}
