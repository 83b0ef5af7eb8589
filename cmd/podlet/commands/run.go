package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/podlet/cmd/podlet/handlers"
)

// Run returns the command for starting a deployment's pods.
func Run() *cobra.Command {
	return &cobra.Command{
		Use:   "run DEPLOYMENT",
		Short: "Start the pods of a stored deployment",
		Long: `Start the pods of a deployment. Each pod gets a sandbox directory
with an env file built from the container's env and envFrom entries
and mount directories with files projected from volumes.

Configuration is copied at start: later edits to the referenced
secrets and configmaps do not affect a running pod until it is
restarted or synced.

Example:
  podlet run mariadb-deployment`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.Run(cmd.Context(), globalOptions(cmd), args[0])
		},
	}
}

// Restart returns the command for re-materializing a pod's configuration.
func Restart() *cobra.Command {
	return &cobra.Command{
		Use:   "restart POD",
		Short: "Restart a pod, refreshing env and volume files",
		Long: `Restart a running pod. The sandbox is rebuilt from the current
store contents, so edited secrets and configmaps become visible to
both environment and volume consumers.

Example:
  podlet restart mariadb-deployment-0`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.Restart(cmd.Context(), globalOptions(cmd), args[0])
		},
	}
}

// Sync returns the command for refreshing projected volume files.
func Sync() *cobra.Command {
	return &cobra.Command{
		Use:   "sync [POD]",
		Short: "Refresh volume files from the store",
		Long: `Rewrite the projected volume files of a pod from the current store
contents, the way a kubelet resync would. Environment files are not
touched; only a restart changes those.

Without a pod name, every running pod in the namespace is synced.

Examples:
  podlet sync mariadb-deployment-0
  podlet sync`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pod := ""
			if len(args) == 1 {
				pod = args[0]
			}
			return handlers.Sync(cmd.Context(), globalOptions(cmd), pod)
		},
	}
}
