package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestNewSitePostAndBuild(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := execute(t, "new", "site", ".")
	require.NoError(t, err)

	out, err := execute(t, "new", "post", "Into the Trench", "--tags", "sea, deep", "--date", "2024-05-01")
	require.NoError(t, err)
	path := filepath.Join("content", "posts", "2024-05-01-into-the-trench.mdx")
	assert.Contains(t, out, path)

	src, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(src), "- sea\n")
	assert.Contains(t, string(src), "- deep\n")
	assert.Contains(t, string(src), "{/* preview ends */}")

	_, err = execute(t, "build")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join("public", "blog", "into-the-trench.html"))
	assert.FileExists(t, filepath.Join("public", "rss.xml"))
	assert.FileExists(t, filepath.Join("app", "generated", "blog-index.json"))
}

func TestNewPostRejectsBadDate(t *testing.T) {
	chdir(t, t.TempDir())
	_, err := execute(t, "new", "post", "X", "--date", "May 1")
	assert.ErrorContains(t, err, "invalid --date")
}

func TestBuildMissingExplicitConfig(t *testing.T) {
	chdir(t, t.TempDir())
	_, err := execute(t, "--config", "nope.yaml", "build")
	assert.ErrorContains(t, err, "failed to load site config")
}

func TestCleanTags(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, cleanTags([]string{" a", "", "b "}))
	assert.Nil(t, cleanTags(nil))
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
