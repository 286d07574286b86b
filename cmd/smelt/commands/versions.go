package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newVersionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "versions",
		Short: "List installed and installable compiler releases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			installedOnly, _ := cmd.Flags().GetBool("installed")

			installed, available, err := c.components.App.Releases(cmd.Context(), ".")
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			have := make(map[string]bool, len(installed))
			for _, v := range installed {
				have[v.String()] = true
				fmt.Fprintf(out, "%s (installed)\n", v)
			}
			if installedOnly {
				return nil
			}
			for _, v := range available {
				if !have[v.String()] {
					fmt.Fprintln(out, v)
				}
			}
			return nil
		},
	}
	cmd.Flags().Bool("installed", false, "List installed releases only")
	return cmd
}
