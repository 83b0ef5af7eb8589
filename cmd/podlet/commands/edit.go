package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/podlet/cmd/podlet/handlers"
)

// Edit returns the command for editing a stored object in $EDITOR.
func Edit() *cobra.Command {
	return &cobra.Command{
		Use:   "edit TYPE NAME",
		Short: "Edit an object in your editor",
		Long: `Open a stored object in the configured editor and save the result.

The editor comes from podlet.yaml, then $EDITOR, then vi. Saving an
unchanged file cancels the edit. If the object changed in the store
while the editor was open, the save is rejected and must be retried.

Edits do not reach running pods by themselves: restart a pod to refresh
its environment, or sync it to refresh its volume files.

Examples:
  podlet edit secret mariadb-root-password
  podlet edit configmap mariadb-config`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.Edit(cmd.Context(), globalOptions(cmd), args[0], args[1])
		},
	}
}
