// Package paths centralizes filesystem locations: the XDG directories
// the tool owns, project-root discovery, and path containment checks.
package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

// AppName is the directory name used under the XDG base directories.
const AppName = "onefile"

// UserPresetFileName is the optional user-level preset document inside
// the config dir. It loads before project presets, so project
// configuration always wins.
const UserPresetFileName = "presets.yaml"

// ProjectMarkers are probed, nearest directory first, when discovering
// the project root from a working directory.
var ProjectMarkers = []string{".onefile.toml", "onefile.toml", ".git"}

// ConfigDir returns the user-level configuration directory.
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// StateDir returns the state directory used for the log file.
func StateDir() string {
	return filepath.Join(xdg.StateHome, AppName)
}

// LogFilePath returns the log file location under the state dir.
func LogFilePath() string {
	return filepath.Join(StateDir(), AppName+".log")
}

// UserPresetPath returns the user-level preset document path, or ""
// when the user has none.
func UserPresetPath() string {
	path := filepath.Join(ConfigDir(), UserPresetFileName)
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// FindProjectRoot walks up from start looking for a project marker and
// returns the first directory that carries one. When nothing is found
// it returns start itself: every directory is a valid bundling root,
// markers only make the default smarter.
func FindProjectRoot(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	dir := abs
	for {
		for _, marker := range ProjectMarkers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return abs, nil
		}
		dir = parent
	}
}

// IsInsideRoot reports whether path stays within root after
// normalization. A relative path is resolved against root.
func IsInsideRoot(root, path string) bool {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return false
	}
	absPath := path
	if !filepath.IsAbs(absPath) {
		absPath = filepath.Join(absRoot, absPath)
	}
	absPath = filepath.Clean(absPath)
	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
