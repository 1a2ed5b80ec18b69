package command

import (
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"sigs.k8s.io/release-utils/version"

	"github.com/gogpu/spvgen/cmd/spvgen/internal/view"
)

var (
	outputFlag string
	debugFlag  bool
	rootCmd    *cobra.Command
)

func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use: "spvgen",
		Short: Highlight("spvgen [global options] <subcommand> [args]") + "\n" +
			"A CLI utility for compiling shader IR to SPIR-V",
		Long: Highlight("Usage: spvgen [global options] <subcommand> [args]\n") + "\n" +
			"spvgen compiles shader IR module documents into SPIR-V binaries and\n" +
			"reports their reflection data. It can compile a single module, a\n" +
			"directory of modules in parallel, and disassemble existing binaries.\n\n",
		Version:       version.GetVersionInfo().GitVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) == 0 {
				_ = cmd.Help()
			}
		},
	}

	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.PersistentFlags().StringVarP(&outputFlag, "output", "o", "", "Output format. One of: (json | yaml)")
	cmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Set log level to debug")
	return cmd
}

func setCobraUsageTemplate() {
	cobra.AddTemplateFunc("StyleHeading", color.RGB(50, 108, 229).SprintFunc())
	usageTemplate := rootCmd.UsageTemplate()
	usageTemplate = strings.NewReplacer(
		`Usage:`, `{{StyleHeading "Usage:"}}`,
		`Examples:`, `{{StyleHeading "Examples:"}}`,
		`Available Commands:`, `{{StyleHeading "Available Commands:"}}`,
		`Additional Commands:`, `{{StyleHeading "Additional Commands:"}}`,
		`Flags:`, `{{StyleHeading "Options:"}}`,
		`Global Flags:`, `{{StyleHeading "Global Options:"}}`,
	).Replace(usageTemplate)
	rootCmd.SetUsageTemplate(usageTemplate)
}

func setVersionTemplate() {
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

// LogLevel resolves the log level from SPVGEN_LOG and --debug.
func LogLevel(env string, debug bool) view.LogLevel {
	if debug {
		return view.LogLevelDebug
	}
	return view.ParseLogLevel(env)
}

func Execute() {
	rootCmd = NewRootCommand()

	setCobraUsageTemplate()
	setVersionTemplate()

	// Disable color output if NO_COLOR is set in the environment
	_, noColor := os.LookupEnv("NO_COLOR")
	color.NoColor = noColor

	// The viewer is reconfigured in PersistentPreRun once flags are parsed.
	cli := NewCLI(view.ViewHuman, os.Stdout, view.LogLevelSilent)

	AddCommands(rootCmd, cli)

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		viewType, err := view.ParseOutputFormat(outputFlag)
		if err != nil {
			cli.Println("Error: invalid output format:", outputFlag)
			os.Exit(1)
		}

		s := view.NewStream(os.Stdout).WithLogWriter(os.Stderr)
		cli.Viewer = view.NewViewer(viewType, s, LogLevel(os.Getenv("SPVGEN_LOG"), debugFlag))
		cli.Stream = s
	}

	if err := rootCmd.Execute(); err != nil {
		if msg := err.Error(); msg != "" {
			cli.Println(msg)
		}
		os.Exit(1)
	}

	os.Exit(0)
}

// AddCommands registers all subcommands to the root command.
func AddCommands(root *cobra.Command, cli *CLI) {
	root.AddCommand(
		NewVersionCommand(cli),
		NewCompileCommand(cli),
		NewBatchCommand(cli),
		NewDisassembleCommand(cli),
		NewConfigCommand(cli),
	)
}
