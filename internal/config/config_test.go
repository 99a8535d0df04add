package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadSiteConfigDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := LoadSiteConfig("")
	require.NoError(t, err)
	assert.Equal(t, "", cfg.File)
	assert.Equal(t, "From the Depths Blog", cfg.Title)
	assert.Equal(t, "https://youngbloods.org", cfg.BaseURL)
	assert.Equal(t, 10, cfg.PostsPerPage)
	assert.Equal(t, "content/posts", cfg.ContentDir)
	assert.Equal(t, "app/generated", cfg.GeneratedDir)
	assert.Equal(t, "public", cfg.OutputDir)
	assert.Equal(t, "rss.xml", cfg.FeedPath)
	assert.Equal(t, StoreJSON, cfg.Store)
	assert.Equal(t, "monokai", cfg.HighlightStyle)
}

func TestLoadSiteConfigFile(t *testing.T) {
	path := writeConfig(t, `
title: Deep Notes
baseURL: https://example.com
postsPerPage: 5
store: both
`)
	cfg, err := LoadSiteConfig(path)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.File)
	assert.Equal(t, "Deep Notes", cfg.Title)
	assert.Equal(t, "https://example.com", cfg.BaseURL)
	assert.Equal(t, 5, cfg.PostsPerPage)
	assert.Equal(t, StoreBoth, cfg.Store)
	assert.Equal(t, "en", cfg.Language)
}

func TestLoadSiteConfigEnvOverride(t *testing.T) {
	path := writeConfig(t, "title: From File\n")
	t.Setenv("DEPTHS_TITLE", "From Env")
	cfg, err := LoadSiteConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "From Env", cfg.Title)
}

func TestLoadSiteConfigErrors(t *testing.T) {
	_, err := LoadSiteConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadSiteConfig(writeConfig(t, "title: [unclosed\n"))
	assert.Error(t, err)

	_, err = LoadSiteConfig(writeConfig(t, "postsPerPage: 0\n"))
	assert.ErrorContains(t, err, "postsPerPage")

	_, err = LoadSiteConfig(writeConfig(t, "store: redis\n"))
	assert.ErrorContains(t, err, "unknown store")
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
