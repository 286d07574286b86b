// Package commands implements the CLI commands for the smelt compiler driver.
package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/smelt/internal/app"
	"go.trai.ch/smelt/internal/build"
)

// CLI represents the command line interface for smelt.
type CLI struct {
	components *app.Components
	rootCmd    *cobra.Command
}

// New creates a CLI over the initialized application components.
func New(components *app.Components) *CLI {
	rootCmd := &cobra.Command{
		Use:           "smelt",
		Short:         "A multi-version Solidity compilation engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to the project configuration file")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		if path, _ := cmd.Flags().GetString("config"); path != "" {
			components.ConfigLoader.Filename = path
		}
	}

	c := &CLI{
		components: components,
		rootCmd:    rootCmd,
	}

	rootCmd.AddCommand(c.newBuildCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newVersionsCmd())
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

// SetOut sets the destination for command output. Used for testing.
func (c *CLI) SetOut(w io.Writer) {
	c.rootCmd.SetOut(w)
}
