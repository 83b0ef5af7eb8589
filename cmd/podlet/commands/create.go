package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/podlet/cmd/podlet/handlers"
)

// Create returns the command for creating secrets and configmaps from
// literal and file sources.
//
// Flags:
//
//	--from-literal: key=value source, repeatable
//	--from-file: path or key=path source, repeatable
func Create() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a secret or configmap from literals and files",
	}

	cmd.AddCommand(createSecret())
	cmd.AddCommand(createConfigMap())
	return cmd
}

func createSecret() *cobra.Command {
	var (
		literals []string
		files    []string
	)

	secret := &cobra.Command{
		Use:   "secret",
		Short: "Create a secret",
	}

	generic := &cobra.Command{
		Use:   "generic NAME",
		Short: "Create an Opaque secret from local sources",
		Long: `Create an Opaque secret from literal values and files.

Values are stored base64-encoded, which is transport encoding, not
encryption: anyone who can read the object can decode the values.

Examples:
  # From a literal value
  podlet create secret generic mariadb-root-password \
    --from-literal=password=KubernetesRocks!

  # From a file, keyed by its base name
  podlet create secret generic mariadb-config \
    --from-file=max_allowed_packet.cnf

  # From a file under an explicit key
  podlet create secret generic mariadb-config \
    --from-file=packet.cnf=./max_allowed_packet.cnf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.CreateSecret(cmd.Context(), globalOptions(cmd), args[0], literals, files)
		},
	}

	generic.Flags().StringArrayVar(&literals, "from-literal", nil, "key=value source (repeatable)")
	generic.Flags().StringArrayVar(&files, "from-file", nil, "path or key=path source (repeatable)")

	secret.AddCommand(generic)
	return secret
}

func createConfigMap() *cobra.Command {
	var (
		literals []string
		files    []string
	)

	cmd := &cobra.Command{
		Use:     "configmap NAME",
		Aliases: []string{"cm"},
		Short:   "Create a configmap from local sources",
		Long: `Create a configmap from literal values and files.

Examples:
  podlet create configmap mariadb-config \
    --from-file=max_allowed_packet.cnf

  podlet create configmap mariadb-config \
    --from-literal=max_allowed_packet.cnf='[mysqld]
max_allowed_packet = 64M'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.CreateConfigMap(cmd.Context(), globalOptions(cmd), args[0], literals, files)
		},
	}

	cmd.Flags().StringArrayVar(&literals, "from-literal", nil, "key=value source (repeatable)")
	cmd.Flags().StringArrayVar(&files, "from-file", nil, "path or key=path source (repeatable)")
	return cmd
}
