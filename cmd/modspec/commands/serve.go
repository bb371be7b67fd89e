package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Answer JSON requests on stdin, one per line, while watching the project",
		Long: `Answer JSON requests read from stdin, one per line, with one JSON response per line on stdout.

The project is watched while serving, so cached specifiers are dropped as soon as
a change on disk could alter them. Supported operations are resolve, count, stats
and clear.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cwd, err := workingDir(cmd)
			if err != nil {
				return err
			}
			return c.app.Serve(cmd.Context(), cwd, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}
