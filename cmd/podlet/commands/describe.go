package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/podlet/cmd/podlet/handlers"
)

// Describe returns the command for printing a human-readable object report.
// Secret values are shown only by size, never by content.
func Describe() *cobra.Command {
	return &cobra.Command{
		Use:   "describe TYPE NAME",
		Short: "Show details of a single object",
		Long: `Show a human-readable report of one object.

For secrets the report lists keys with value sizes only; use
'podlet get secret NAME -o yaml' to see the encoded values.

Examples:
  podlet describe secret mariadb-root-password
  podlet describe deployment mariadb
  podlet describe pod mariadb-0`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.Describe(cmd.Context(), globalOptions(cmd), args[0], args[1])
		},
	}
}
