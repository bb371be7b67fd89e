package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/modspec/internal/build"
)

func (c *CLI) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of modspec",
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "modspec version %s\n", build.Version)
		},
	}
}
