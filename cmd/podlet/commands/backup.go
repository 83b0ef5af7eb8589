package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/podlet/cmd/podlet/handlers"
)

// Backup returns the command for archiving state to the configured bucket.
func Backup() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Archive the state directory to the backup bucket",
		Long: `Pack the whole state directory into a tar.gz archive and upload it
to the S3-compatible bucket configured under backup: in podlet.yaml.

Example:
  podlet backup
  podlet backup list`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Backup(cmd.Context(), globalOptions(cmd))
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List archives in the backup bucket",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.BackupList(cmd.Context(), globalOptions(cmd))
		},
	})

	return cmd
}

// Restore returns the command for restoring state from a backup archive.
func Restore() *cobra.Command {
	return &cobra.Command{
		Use:   "restore ARCHIVE",
		Short: "Replace the state directory with a backup archive",
		Long: `Download a backup archive and replace the state directory with its
contents. Running pods are restored exactly as they were archived.

Example:
  podlet restore podlet-state-20240315-093000.tar.gz`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.Restore(cmd.Context(), globalOptions(cmd), args[0])
		},
	}
}
