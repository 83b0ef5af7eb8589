package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/podlet/cmd/podlet/handlers"
)

// Apply returns the command for creating or updating objects from manifest
// files.
//
// Flags:
//
//	--filename, -f: manifest file to apply, repeatable; "-" reads stdin
func Apply() *cobra.Command {
	var filenames []string

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Create or update objects from manifest files",
		Long: `Apply YAML or JSON manifests to the store.

Each document must be a Secret, ConfigMap, or Deployment. Objects that
do not exist are created; existing ones are updated in place.

Examples:
  podlet apply -f mariadb-secret.yaml
  podlet apply -f secret.yaml -f configmap.yaml -f deployment.yaml
  cat manifest.yaml | podlet apply -f -`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Apply(cmd.Context(), globalOptions(cmd), filenames)
		},
	}

	cmd.Flags().StringArrayVarP(&filenames, "filename", "f", nil, "Manifest file to apply (repeatable, - for stdin)")
	return cmd
}
