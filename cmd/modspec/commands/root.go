// Package commands implements the CLI commands for modspec.
package commands

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.trai.ch/modspec/internal/app"
	"go.trai.ch/modspec/internal/build"
	"go.trai.ch/modspec/internal/core/ports"
)

// Runner is the part of the application the commands drive.
type Runner interface {
	Resolve(ctx context.Context, cwd string, opts app.ResolveOptions) (*app.Result, error)
	Serve(ctx context.Context, cwd string, in io.Reader, out io.Writer) error
}

// jsonSwitcher is implemented by loggers that can emit structured output.
type jsonSwitcher interface {
	SetJSON(enable bool)
}

// CLI represents the command line interface for modspec.
type CLI struct {
	app     Runner
	logger  ports.Logger
	rootCmd *cobra.Command
}

// New creates a new CLI instance with the given app and logger.
func New(a Runner, log ports.Logger) *CLI {
	rootCmd := &cobra.Command{
		Use:           "modspec",
		Short:         "Compute and cache module specifiers for a TypeScript project",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().StringP("dir", "C", "", "Run as if modspec was started in this directory")
	rootCmd.PersistentFlags().Bool("log-json", false, "Write log records as JSON")

	c := &CLI{
		app:     a,
		logger:  log,
		rootCmd: rootCmd,
	}

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		jsonLogs, _ := cmd.Flags().GetBool("log-json")
		if s, ok := c.logger.(jsonSwitcher); ok && jsonLogs {
			s.SetJSON(true)
		}
		return nil
	}

	rootCmd.AddCommand(c.newResolveCmd())
	rootCmd.AddCommand(c.newServeCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetIO sets the streams the commands read from and write to. Used for testing.
func (c *CLI) SetIO(in io.Reader, out, errOut io.Writer) {
	c.rootCmd.SetIn(in)
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(errOut)
}

// workingDir returns the --dir flag when set and the process directory otherwise.
func workingDir(cmd *cobra.Command) (string, error) {
	dir, _ := cmd.Flags().GetString("dir")
	if dir != "" {
		return dir, nil
	}
	return os.Getwd()
}
