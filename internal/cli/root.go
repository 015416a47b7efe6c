// Package cli implements the sqlobject command: inspect and query models
// declared in a YAML manifest.
package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Config  string
	Verbose bool
	Format  string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the sqlobject CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "sqlobject",
		Short: "Query records through sqlobject models",
		Long: `Load the models declared in a YAML manifest and run eager queries,
lazy relations and associations against the configured database.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.Config, "config", "c", "sqlobject.yaml", "model manifest")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log statements to stderr")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewColumnsCommand(opts))
	cmd.AddCommand(NewAllCommand(opts))
	cmd.AddCommand(NewFindCommand(opts))
	cmd.AddCommand(NewWhereCommand(opts))
	cmd.AddCommand(NewAssocCommand(opts))
	cmd.AddCommand(NewSQLCommand(opts))

	return cmd
}
