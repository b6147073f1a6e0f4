package archive

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeZip(t *testing.T, dir string, entries map[string]string) string {
	t.Helper()

	path := filepath.Join(dir, "fixture.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	for name, body := range entries {
		fw, err := w.Create(name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return path
}

func TestIsArchive(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"a.zip", true},
		{"a.ZIP", true},
		{"a.rar", true},
		{"a.7z", true},
		{"a.tar", false},
		{"a.png", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsArchive(tt.path), tt.path)
	}
}

func TestSplitLocator(t *testing.T) {
	tests := []struct {
		name      string
		locator   string
		archive   string
		entry     string
		wantSplit bool
	}{
		{"zip entry", "books/v1.zip!p/001.png", "books/v1.zip", "p/001.png", true},
		{"bang in directory", "a!b/v1.7z!x.jpg", "a!b/v1.7z", "x.jpg", true},
		{"plain file", "photos/a.png", "", "", false},
		{"bang without archive", "photos/wow!.png", "", "", false},
		{"empty entry", "v1.zip!", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			archive, entry, ok := SplitLocator(tt.locator)
			assert.Equal(t, tt.wantSplit, ok)
			assert.Equal(t, tt.archive, archive)
			assert.Equal(t, tt.entry, entry)
		})
	}

	a, e, ok := SplitLocator(Locator("x/y.rar", "z.png"))
	require.True(t, ok)
	assert.Equal(t, "x/y.rar", a)
	assert.Equal(t, "z.png", e)
}

func TestZipListAndRead(t *testing.T) {
	path := writeZip(t, t.TempDir(), map[string]string{
		"pages/001.png": "one",
		"pages/002.png": "two",
		"notes.txt":     "skip",
	})

	names, err := List(path, func(name string) bool { return strings.HasSuffix(name, ".png") })
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"pages/001.png", "pages/002.png"}, names)

	all, err := List(path, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	data, err := ReadEntry(path, "pages/002.png")
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))

	_, err = ReadEntry(path, "missing.png")
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestUnsupportedFormat(t *testing.T) {
	_, err := List("archive.tar", nil)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = ReadEntry("archive.tar", "x")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
