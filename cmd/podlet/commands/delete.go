package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/podlet/cmd/podlet/handlers"
)

// Delete returns the command for removing stored objects.
func Delete() *cobra.Command {
	return &cobra.Command{
		Use:   "delete TYPE NAME",
		Short: "Delete an object",
		Long: `Delete a stored object. Deleting a pod also removes its sandbox
directory with the materialized env file and volume files.

Examples:
  podlet delete secret mariadb-root-password
  podlet delete pod mariadb-0`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.Delete(cmd.Context(), globalOptions(cmd), args[0], args[1])
		},
	}
}
