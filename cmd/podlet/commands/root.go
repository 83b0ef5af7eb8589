// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/podlet/cmd/podlet/handlers"
)

// Root returns the root command for the podlet CLI.
//
// The root command serves as the entry point and parent for all subcommands.
// It carries the global --namespace and --config flags.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "podlet",
		Short: "Distribute secrets and configuration to local pod sandboxes",
		Long: `podlet stores Secrets, ConfigMaps, and Deployments as local YAML
objects and materializes them into per-pod sandboxes: env files for
environment injection and mount directories for projected volume files.

Pods copy their configuration at start. Edits to a secret or configmap
become visible to a pod's environment only after 'podlet restart', and
to its volume files after 'podlet sync'.`,
	}

	cmd.PersistentFlags().StringP("namespace", "n", "", "Namespace to operate in (default from podlet.yaml)")
	cmd.PersistentFlags().StringP("config", "c", "", "Path to configuration file (default: podlet.yaml)")

	// Object commands
	cmd.AddCommand(Create())
	cmd.AddCommand(Get())
	cmd.AddCommand(Describe())
	cmd.AddCommand(Edit())
	cmd.AddCommand(Apply())
	cmd.AddCommand(Delete())

	// Pod lifecycle commands
	cmd.AddCommand(Run())
	cmd.AddCommand(Restart())
	cmd.AddCommand(Sync())

	// Utility commands
	cmd.AddCommand(Init())
	cmd.AddCommand(Backup())
	cmd.AddCommand(Restore())
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}

// globalOptions reads the persistent flags into handler options.
func globalOptions(cmd *cobra.Command) handlers.Options {
	namespace, _ := cmd.Flags().GetString("namespace")
	configPath, _ := cmd.Flags().GetString("config")
	return handlers.Options{ConfigPath: configPath, Namespace: namespace}
}
