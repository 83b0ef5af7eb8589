package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, ".podlet", cfg.StateDir)
	assert.Equal(t, "default", cfg.Namespace)
	assert.Equal(t, time.Minute, cfg.SyncEvery())
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "podlet.yaml")
	require.NoError(t, os.WriteFile(path, []byte("stateDir: /var/lib/podlet\nnamespace: database\nsyncInterval: 30s\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/podlet", cfg.StateDir)
	assert.Equal(t, "database", cfg.Namespace)
	assert.Equal(t, 30*time.Second, cfg.SyncEvery())
}

func TestLoad_PartialGetsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "podlet.yaml")
	require.NoError(t, os.WriteFile(path, []byte("namespace: database\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ".podlet", cfg.StateDir)
	assert.Equal(t, "1m0s", cfg.SyncInterval)
}

func TestLoad_InvalidNamespace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "podlet.yaml")
	require.NoError(t, os.WriteFile(path, []byte("namespace: Not_Valid\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid namespace")
}

func TestLoad_InvalidSyncInterval(t *testing.T) {
	path := filepath.Join(t.TempDir(), "podlet.yaml")
	require.NoError(t, os.WriteFile(path, []byte("syncInterval: soon\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid syncInterval")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadOrDefault_NoFileAnywhere(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, ".podlet", cfg.StateDir)
}

func TestLoadOrDefault_FindsFileInCwd(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultConfigFilename), []byte("namespace: found\n"), 0o600))
	t.Chdir(dir)

	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, "found", cfg.Namespace)
}

func TestEditorCommand(t *testing.T) {
	cfg := Default()

	t.Setenv("EDITOR", "")
	assert.Equal(t, "vi", cfg.EditorCommand())

	t.Setenv("EDITOR", "nano")
	assert.Equal(t, "nano", cfg.EditorCommand())

	cfg.Editor = "emacs"
	assert.Equal(t, "emacs", cfg.EditorCommand())
}

func TestWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "podlet.yaml")
	cfg := Default()
	cfg.Namespace = "database"
	require.NoError(t, cfg.Write(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "database", loaded.Namespace)
}
