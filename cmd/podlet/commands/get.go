package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/podlet/cmd/podlet/handlers"
)

// Get returns the command for listing and printing stored objects.
//
// Flags:
//
//	--output, -o: output format: yaml, json, or jsonpath={expr}
//	--watch, -w: live pod dashboard (pods only)
func Get() *cobra.Command {
	var (
		output string
		watch  bool
	)

	cmd := &cobra.Command{
		Use:   "get TYPE [NAME]",
		Short: "List objects, or print one in a chosen format",
		Long: `List stored objects of a type, or print a single object.

Examples:
  # Table of all secrets in the current namespace
  podlet get secrets

  # One object as YAML
  podlet get secret mariadb-root-password -o yaml

  # Extract a single field
  podlet get secret mariadb-root-password -o jsonpath='{.data.password}'

  # Live pod dashboard
  podlet get pods --watch`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 2 {
				name = args[1]
			}
			return handlers.Get(cmd.Context(), globalOptions(cmd), args[0], name, output, watch)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output format: yaml, json, or jsonpath={expr}")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Watch pods in a live dashboard")
	return cmd
}
