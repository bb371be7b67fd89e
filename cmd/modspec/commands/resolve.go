package commands

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.trai.ch/modspec/internal/app"
	"go.trai.ch/modspec/internal/core/domain"
	"go.trai.ch/modspec/internal/ui/style"
)

func (c *CLI) newResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <from> <to>",
		Short: "Print the specifiers for importing <to> from <from>",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			modeFlag, _ := cmd.Flags().GetString("mode")
			asJSON, _ := cmd.Flags().GetBool("json")

			mode, err := domain.ParseResolutionMode(modeFlag)
			if err != nil {
				return err
			}
			cwd, err := workingDir(cmd)
			if err != nil {
				return err
			}

			result, err := c.app.Resolve(cmd.Context(), cwd, app.ResolveOptions{
				From: absolute(cwd, args[0]),
				To:   absolute(cwd, args[1]),
				Mode: mode,
			})
			if err != nil {
				return err
			}

			if asJSON {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(app.NewResponse("", result))
			}
			return printResult(cmd.OutOrStdout(), cmd.ErrOrStderr(), result)
		},
	}
	cmd.Flags().StringP("mode", "m", "", "Resolution mode of the importing file (commonjs or esm)")
	cmd.Flags().Bool("json", false, "Print the full result as JSON")
	return cmd
}

func printResult(out, errOut io.Writer, result *app.Result) error {
	for _, spec := range result.Entry.ModuleSpecifiers {
		if _, err := fmt.Fprintln(out, spec); err != nil {
			return err
		}
	}
	if result.Entry.IsBlockedByPackageJSONDependencies {
		_, _ = fmt.Fprintf(errOut, "%s %s\n", style.Warning,
			style.Muted.Render("the package is not a declared dependency in package.json"))
	}
	return nil
}

func absolute(cwd, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(cwd, path)
}
