package config

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/arthur-debert/onefile/pkg/errors"
)

// MaxConfigBytes is the size ceiling for any single configuration
// document. Oversized documents are rejected before parsing.
const MaxConfigBytes = 10 << 20

var processorNameRe = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// checkDocumentSize enforces MaxConfigBytes from file metadata, so an
// oversized document is never read into memory.
func checkDocumentSize(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot stat configuration document %s", path)
	}
	if info.Size() > MaxConfigBytes {
		return errors.Newf(errors.ErrConfigTooLarge,
			"configuration document %s is %d bytes, limit is %d", path, info.Size(), MaxConfigBytes).
			WithDetail("path", path).
			WithDetail("size", info.Size()).
			WithDetail("limit", int64(MaxConfigBytes))
	}
	return nil
}

// validateProcessorName enforces the custom-processor identifier charset.
func validateProcessorName(name string) error {
	if !processorNameRe.MatchString(name) {
		return errors.Newf(errors.ErrInvalidProcessorName,
			"invalid custom_processor name %q (allowed: letters, digits, underscore)", name).
			WithDetail("processor", name)
	}
	return nil
}

// validateLocalPath rejects configured paths that could resolve outside
// the project root: absolute paths and any path with a ".." segment.
func validateLocalPath(value, what string) error {
	if value == "" {
		return nil
	}
	if !filepath.IsLocal(value) {
		return errors.Newf(errors.ErrPathEscapesRoot,
			"%s %q resolves outside the project root", what, value).
			WithDetail("path", value)
	}
	return nil
}

// validatePatternPath applies the path boundary to glob patterns, which
// double as relative paths under the group's base_path.
func validatePatternPath(pattern string) error {
	if strings.HasPrefix(pattern, "/") {
		return errors.Newf(errors.ErrPathEscapesRoot,
			"pattern %q must be relative to the project root", pattern).
			WithDetail("pattern", pattern)
	}
	for _, part := range strings.Split(pattern, "/") {
		if part == ".." {
			return errors.Newf(errors.ErrPathEscapesRoot,
				"pattern %q must not traverse outside the project root", pattern).
				WithDetail("pattern", pattern)
		}
	}
	return nil
}

// resolveUnderRoot resolves path against root and verifies containment.
// Absolute paths are allowed as long as they stay inside root.
func resolveUnderRoot(root, path string) (string, error) {
	abs := path
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(root, abs)
	}
	abs = filepath.Clean(abs)
	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.Newf(errors.ErrPathEscapesRoot,
			"path %q resolves outside the project root %s", path, root).
			WithDetail("path", path).
			WithDetail("root", root)
	}
	return abs, nil
}
