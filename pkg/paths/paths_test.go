// pkg/paths/paths_test.go
// TEST TYPE: Unit Tests
// DEPENDENCIES: None (temp dirs only)
// PURPOSE: Test project-root discovery and path containment

package paths_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/onefile/pkg/paths"
)

func TestFindProjectRoot_Marker(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "src", "app")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".onefile.toml"), nil, 0o644))

	found, err := paths.FindProjectRoot(nested)
	require.NoError(t, err)
	assert.Equal(t, root, found)
}

func TestFindProjectRoot_GitFallback(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "pkg")
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0o755))
	require.NoError(t, os.MkdirAll(nested, 0o755))

	found, err := paths.FindProjectRoot(nested)
	require.NoError(t, err)
	assert.Equal(t, root, found)
}

func TestFindProjectRoot_NoMarker(t *testing.T) {
	// A markerless directory is its own root. The temp dir must not sit
	// under a marker-carrying ancestor for this to hold; t.TempDir does
	// not, outside of exotic TMPDIR setups.
	dir := t.TempDir()
	found, err := paths.FindProjectRoot(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, found)
}

func TestIsInsideRoot(t *testing.T) {
	root := t.TempDir()

	assert.True(t, paths.IsInsideRoot(root, "a.txt"))
	assert.True(t, paths.IsInsideRoot(root, "sub/dir/a.txt"))
	assert.True(t, paths.IsInsideRoot(root, root))
	assert.True(t, paths.IsInsideRoot(root, filepath.Join(root, "x")))

	assert.False(t, paths.IsInsideRoot(root, "../escape.txt"))
	assert.False(t, paths.IsInsideRoot(root, "sub/../../escape.txt"))
	assert.False(t, paths.IsInsideRoot(root, filepath.Dir(root)))
}

func TestUserPresetPath(t *testing.T) {
	// The path only surfaces when the file exists.
	if paths.UserPresetPath() != "" {
		t.Skip("user preset file exists on this machine")
	}
	assert.Equal(t, "", paths.UserPresetPath())
}

func TestStateAndConfigDirs(t *testing.T) {
	assert.Contains(t, paths.ConfigDir(), paths.AppName)
	assert.Contains(t, paths.StateDir(), paths.AppName)
	assert.Equal(t, filepath.Join(paths.StateDir(), "onefile.log"), paths.LogFilePath())
}
