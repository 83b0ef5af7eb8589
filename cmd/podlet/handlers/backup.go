package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/imamik/podlet/internal/backup"
	"github.com/imamik/podlet/internal/config"
)

// backupClient is the subset of the backup client handlers use.
type backupClient interface {
	Upload(ctx context.Context, stateDir, key string) error
	Download(ctx context.Context, key, stateDir string) error
	List(ctx context.Context) ([]string, error)
}

// Factory function variables for backup - can be replaced in tests.
var (
	newBackupClient = func(ctx context.Context, cfg config.BackupConfig) (backupClient, error) {
		return backup.NewClient(ctx, cfg)
	}

	backupNow = time.Now
)

// Backup archives the state directory and uploads it to the configured
// bucket.
func Backup(ctx context.Context, opts Options) error {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	client, err := newBackupClient(ctx, cfg.Backup)
	if err != nil {
		return err
	}

	key := backup.ArchiveName(backupNow())
	if err := client.Upload(ctx, cfg.StateDir, key); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "backup uploaded as %s\n", key)
	return nil
}

// Restore downloads a backup archive and replaces the state directory
// with its contents.
func Restore(ctx context.Context, opts Options, key string) error {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	client, err := newBackupClient(ctx, cfg.Backup)
	if err != nil {
		return err
	}

	if err := client.Download(ctx, key, cfg.StateDir); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "restored state from %s\n", key)
	return nil
}

// BackupList prints the backup archives available in the bucket.
func BackupList(ctx context.Context, opts Options) error {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	client, err := newBackupClient(ctx, cfg.Backup)
	if err != nil {
		return err
	}

	keys, err := client.List(ctx)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		fmt.Fprintln(stdout, "No backups found.")
		return nil
	}
	for _, key := range keys {
		fmt.Fprintln(stdout, key)
	}
	return nil
}
