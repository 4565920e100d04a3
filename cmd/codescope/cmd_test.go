package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"codescope/internal/core/config"
)

func TestLoadConfig(t *testing.T) {
	t.Run("explicit path must exist", func(t *testing.T) {
		_, err := loadConfig(filepath.Join(t.TempDir(), "missing.toml"))
		require.Error(t, err)
	})

	t.Run("missing default falls back to defaults", func(t *testing.T) {
		t.Chdir(t.TempDir())

		cfg, err := loadConfig("")
		require.NoError(t, err)
		require.Equal(t, "127.0.0.1:8910", cfg.Server.Listen)
		require.Equal(t, "json", cfg.Output.Format)
	})

	t.Run("default file is picked up", func(t *testing.T) {
		dir := t.TempDir()
		t.Chdir(dir)

		toml := "[output]\nformat = \"yaml\"\n\n[server]\nlisten = \"127.0.0.1:9999\"\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, "codescope.toml"), []byte(toml), 0o644))

		cfg, err := loadConfig("")
		require.NoError(t, err)
		require.Equal(t, "yaml", cfg.Output.Format)
		require.Equal(t, "127.0.0.1:9999", cfg.Server.Listen)
	})
}

func TestOpenHistory(t *testing.T) {
	t.Run("disabled returns no store", func(t *testing.T) {
		cfg := config.Default()
		cfg.History.Enabled = false

		store, err := openHistory(cfg)
		require.NoError(t, err)
		require.Nil(t, store)
	})

	t.Run("opens a fresh database", func(t *testing.T) {
		cfg := config.Default()
		cfg.History.Enabled = true
		cfg.History.Path = filepath.Join(t.TempDir(), "history.db")

		store, err := openHistory(cfg)
		require.NoError(t, err)
		require.NotNil(t, store)
		require.NoError(t, store.Close())
	})

	t.Run("recreates a corrupt database", func(t *testing.T) {
		cfg := config.Default()
		cfg.History.Enabled = true
		cfg.History.Path = filepath.Join(t.TempDir(), "history.db")
		require.NoError(t, os.WriteFile(cfg.History.Path, []byte("this is not sqlite"), 0o644))

		store, err := openHistory(cfg)
		require.NoError(t, err)
		require.NotNil(t, store)

		projects, err := store.ListProjects()
		require.NoError(t, err)
		require.Empty(t, projects)
		require.NoError(t, store.Close())
	})
}
