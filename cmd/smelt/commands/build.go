package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/smelt/internal/app"
	"go.trai.ch/smelt/internal/core/domain"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Compile the project's contracts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			force, _ := cmd.Flags().GetBool("force")
			jobs, _ := cmd.Flags().GetInt("jobs")
			use, _ := cmd.Flags().GetString("use")
			offline, _ := cmd.Flags().GetBool("offline")

			result, err := c.components.App.Build(cmd.Context(), app.BuildOptions{
				Dir:     ".",
				Force:   force,
				Jobs:    jobs,
				Pin:     use,
				Offline: offline,
			})
			if err != nil {
				return err
			}

			printDiagnostics(cmd.ErrOrStderr(), result.Diagnostics)
			summary := fmt.Sprintf("%d jobs: %d cached, %d compiled, %d failed",
				result.Jobs(), result.CacheHits, result.Compiled, result.Failed)
			if n := len(result.Warnings()); n > 0 {
				summary += fmt.Sprintf(", %d warnings", n)
			}
			fmt.Fprintln(cmd.OutOrStdout(), summary)

			if result.Status == domain.BuildFailed {
				return domain.ErrBuildFailed
			}
			return nil
		},
	}
	cmd.Flags().BoolP("force", "f", false, "Recompile everything, ignoring the build cache")
	cmd.Flags().IntP("jobs", "j", 0, "Cap concurrent compiler processes (default: one per CPU)")
	cmd.Flags().String("use", "", "Compile with this solc release, bypassing pragma inference")
	cmd.Flags().Bool("offline", false, "Resolve against installed compiler releases only")
	return cmd
}

// printDiagnostics writes every compiler message, preferring the compiler's
// own formatted rendering when present. Warnings print on success too;
// callers must never need the exit code to learn about them.
func printDiagnostics(w io.Writer, diags []domain.Diagnostic) {
	for _, d := range diags {
		if d.Formatted != "" {
			fmt.Fprint(w, d.Formatted)
			continue
		}
		fmt.Fprintf(w, "%s: %s\n", d.Severity, d.Message)
	}
}
