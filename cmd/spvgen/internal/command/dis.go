package command

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gogpu/spvgen/spirv"
)

func NewDisassembleCommand(cli *CLI) *cobra.Command {
	return &cobra.Command{
		Use:   "dis <file.spv>",
		Short: "Disassemble a SPIR-V binary",
		Long: Highlight("spvgen dis <file.spv>") + "\n\n" +
			"Print a SPIR-V binary one instruction per line.\n",
		Args: ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunDisassemble(cli, args[0])
		},
	}
}

func RunDisassemble(cli *CLI, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read module: %w", err)
	}
	if err := spirv.Disassemble(cli.Writer, data); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
