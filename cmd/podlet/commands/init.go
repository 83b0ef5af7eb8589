package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/podlet/cmd/podlet/handlers"
	"github.com/imamik/podlet/internal/config"
)

// Init returns the command for interactively creating a configuration file.
//
// Flags:
//
//	--output, -o: path to output file (default "podlet.yaml")
func Init() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Interactively create a podlet configuration",
		Long: `Create a podlet.yaml configuration file through a short wizard.

The wizard asks for the state directory, the default namespace, and
the volume sync interval. Everything can be changed later by editing
the file.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), outputPath)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", config.DefaultConfigFilename, "Output file path")
	return cmd
}
