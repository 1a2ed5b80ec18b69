package command

import (
	"github.com/spf13/cobra"
	"sigs.k8s.io/release-utils/version"

	"github.com/gogpu/spvgen/cmd/spvgen/internal/view"
)

func NewVersionCommand(cli *CLI) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the spvgen version",
		Args:  ExactArgs(0),
		Run: func(cmd *cobra.Command, args []string) {
			view.NewVersionView(cli.Viewer).Render(version.GetVersionInfo())
		},
	}
}
