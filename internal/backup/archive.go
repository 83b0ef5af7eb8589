// Package backup archives the podlet state directory to an S3-compatible
// bucket and restores it from there.
//
// An archive is a tar.gz of the whole state directory (stored objects plus
// pod sandboxes), so a restore reproduces the exact store contents and
// running-pod snapshots at backup time.
package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mholt/archiver/v3"
)

// ArchiveName returns the object key used for a backup taken at t.
func ArchiveName(t time.Time) string {
	return fmt.Sprintf("podlet-state-%s.tar.gz", t.UTC().Format("20060102-150405"))
}

// Pack archives the state directory into a tar.gz at destPath.
func Pack(stateDir, destPath string) error {
	if _, err := os.Stat(stateDir); err != nil {
		return fmt.Errorf("state directory %q not readable: %w", stateDir, err)
	}
	tgz := archiver.NewTarGz()
	tgz.OverwriteExisting = true
	if err := tgz.Archive([]string{stateDir}, destPath); err != nil {
		return fmt.Errorf("failed to archive state directory: %w", err)
	}
	return nil
}

// Unpack restores an archive into the directory that will become the state
// directory. The archive's top-level directory is stripped so the caller
// controls the final location.
func Unpack(archivePath, stateDir string) error {
	tmp, err := os.MkdirTemp(filepath.Dir(stateDir), ".restore-*")
	if err != nil {
		return fmt.Errorf("failed to create restore directory: %w", err)
	}
	defer os.RemoveAll(tmp)

	tgz := archiver.NewTarGz()
	if err := tgz.Unarchive(archivePath, tmp); err != nil {
		return fmt.Errorf("failed to unpack archive: %w", err)
	}

	entries, err := os.ReadDir(tmp)
	if err != nil {
		return fmt.Errorf("failed to read restore directory: %w", err)
	}
	if len(entries) != 1 || !entries[0].IsDir() {
		return fmt.Errorf("unexpected archive layout: want a single state directory")
	}

	if err := os.RemoveAll(stateDir); err != nil {
		return fmt.Errorf("failed to clear state directory: %w", err)
	}
	if err := os.Rename(filepath.Join(tmp, entries[0].Name()), stateDir); err != nil {
		return fmt.Errorf("failed to move restored state into place: %w", err)
	}
	return nil
}
