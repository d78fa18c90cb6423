// pkg/scanner/scanner_test.go
// TEST TYPE: Unit Tests
// DEPENDENCIES: None (temp dirs only)
// PURPOSE: Test tree traversal, exclusions, hidden/binary classification
// and output self-exclusion

package scanner_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/onefile/pkg/scanner"
	"github.com/arthur-debert/onefile/pkg/types"
)

func write(t *testing.T, root, rel string, content []byte) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, content, 0o644))
}

func byPath(entries []types.FileEntry) map[string]types.FileEntry {
	m := make(map[string]types.FileEntry, len(entries))
	for _, e := range entries {
		m[e.Path] = e
	}
	return m
}

func TestScan_Basic(t *testing.T) {
	root := t.TempDir()
	write(t, root, "main.go", []byte("package main\n"))
	write(t, root, "src/app/util.py", []byte("x = 1\n"))
	write(t, root, "README", []byte("hello\n"))

	entries, err := scanner.Scan(root, scanner.Options{})
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// sorted by path
	assert.Equal(t, "README", entries[0].Path)
	assert.Equal(t, "main.go", entries[1].Path)
	assert.Equal(t, "src/app/util.py", entries[2].Path)

	m := byPath(entries)
	assert.Equal(t, ".go", m["main.go"].Extension)
	assert.Equal(t, ".py", m["src/app/util.py"].Extension)
	assert.Equal(t, "", m["README"].Extension)
	assert.Equal(t, int64(13), m["main.go"].SizeBytes)
	assert.False(t, m["main.go"].IsHidden)
	assert.False(t, m["main.go"].IsBinary)
	assert.True(t, filepath.IsAbs(m["main.go"].AbsolutePath))
}

func TestScan_NameExcludes(t *testing.T) {
	root := t.TempDir()
	write(t, root, "keep.txt", []byte("a"))
	write(t, root, "node_modules/pkg/index.js", []byte("x"))
	write(t, root, ".git/HEAD", []byte("ref"))
	write(t, root, "docs/skipme.txt", []byte("b"))

	entries, err := scanner.Scan(root, scanner.Options{
		Excludes: []string{"node_modules", ".git", "skipme.txt"},
	})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "keep.txt", entries[0].Path)
}

func TestScan_GlobExcludes(t *testing.T) {
	root := t.TempDir()
	write(t, root, "app.js", []byte("x"))
	write(t, root, "static/app.min.js", []byte("x"))
	write(t, root, "static/deep/lib.min.js", []byte("x"))

	entries, err := scanner.Scan(root, scanner.Options{
		Excludes: []string{"**/*.min.js"},
	})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "app.js", entries[0].Path)
}

func TestScan_NegationExcludeRejected(t *testing.T) {
	_, err := scanner.Scan(t.TempDir(), scanner.Options{
		Excludes: []string{"!keep.txt"},
	})
	require.Error(t, err)
}

func TestScan_OutputSelfExclusion(t *testing.T) {
	root := t.TempDir()
	write(t, root, "a.txt", []byte("a"))
	write(t, root, "onefile.txt", []byte("previous run"))

	entries, err := scanner.Scan(root, scanner.Options{OutputPath: "onefile.txt"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.txt", entries[0].Path)
}

func TestScan_HiddenDetection(t *testing.T) {
	root := t.TempDir()
	write(t, root, ".env", []byte("KEY=1"))
	write(t, root, ".config/settings.json", []byte("{}"))
	write(t, root, "visible.txt", []byte("x"))

	entries, err := scanner.Scan(root, scanner.Options{})
	require.NoError(t, err)
	m := byPath(entries)
	require.Len(t, m, 3, "hidden files are listed, not dropped")

	assert.True(t, m[".env"].IsHidden)
	assert.True(t, m[".config/settings.json"].IsHidden, "file under a dot-dir is hidden")
	assert.False(t, m["visible.txt"].IsHidden)
}

func TestScan_BinaryDetection(t *testing.T) {
	root := t.TempDir()
	write(t, root, "text.txt", []byte("just text\n"))
	write(t, root, "blob.bin", []byte{0x00, 0x01, 0x02, 0xFF})
	write(t, root, "image.png", []byte("not really a png"))
	write(t, root, "empty.txt", nil)

	entries, err := scanner.Scan(root, scanner.Options{})
	require.NoError(t, err)
	m := byPath(entries)

	assert.False(t, m["text.txt"].IsBinary)
	assert.True(t, m["blob.bin"].IsBinary, "null byte marks binary")
	assert.True(t, m["image.png"].IsBinary, "known binary extension skips the sniff")
	assert.False(t, m["empty.txt"].IsBinary)
}

func TestScan_SymlinksSkippedByDefault(t *testing.T) {
	root := t.TempDir()
	write(t, root, "real.txt", []byte("x"))
	require.NoError(t, os.Symlink(
		filepath.Join(root, "real.txt"), filepath.Join(root, "link.txt")))

	entries, err := scanner.Scan(root, scanner.Options{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "real.txt", entries[0].Path)

	entries, err = scanner.Scan(root, scanner.Options{FollowSymlinks: true})
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
