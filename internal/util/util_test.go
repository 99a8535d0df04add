package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeBaseHref(t *testing.T) {
	assert.Equal(t, "", ComputeBaseHref("index.html"))
	assert.Equal(t, "../", ComputeBaseHref(filepath.Join("blog", "a.html")))
	assert.Equal(t, "../../", ComputeBaseHref(filepath.Join("blog", "page", "2.html")))
}

func TestJoinURL(t *testing.T) {
	tests := []struct {
		base     string
		segments []string
		want     string
	}{
		{"https://youngbloods.org", []string{"blog", "hello"}, "https://youngbloods.org/blog/hello"},
		{"https://youngbloods.org/", []string{"rss.xml"}, "https://youngbloods.org/rss.xml"},
		{"https://youngbloods.org", []string{"/images/a.jpg"}, "https://youngbloods.org/images/a.jpg"},
		{"https://example.com/site", []string{"blog", "x"}, "https://example.com/site/blog/x"},
		{"https://youngbloods.org", []string{"https://cdn.example.com/a.jpg"}, "https://cdn.example.com/a.jpg"},
		{"https://youngbloods.org/", nil, "https://youngbloods.org"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, JoinURL(tt.base, tt.segments...))
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "nested", "out.json")

	require.NoError(t, WriteFileAtomic(name, []byte("one"), 0644))
	require.NoError(t, WriteFileAtomic(name, []byte("two"), 0644))

	data, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))

	entries, err := os.ReadDir(filepath.Dir(name))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}
