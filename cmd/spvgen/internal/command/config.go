package command

import (
	"github.com/spf13/cobra"

	"github.com/gogpu/spvgen/config"
)

func NewConfigCommand(cli *CLI) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: Highlight("spvgen config [-c <file>]") + "\n\n" +
			"Print the configuration compile and batch would use, with every\n" +
			"default filled in. The output is a valid " + config.FileName + ".\n",
		Args: ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			return cfg.Write(cli.Writer)
		},
	}

	cmd.Flags().StringVarP(&path, "config", "c", "", "Path to the configuration file")
	return cmd
}
