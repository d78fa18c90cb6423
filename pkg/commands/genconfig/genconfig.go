// Package genconfig emits starter configuration: the project TOML or a
// preset document skeleton. Both templates derive from the built-in
// defaults, so they cannot drift from what the loader uses.
package genconfig

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/onefile/pkg/config"
	"github.com/arthur-debert/onefile/pkg/errors"
	"github.com/arthur-debert/onefile/pkg/logging"
)

// Output formats.
const (
	FormatTOML   = "toml"
	FormatPreset = "preset"
)

// Options holds the gen-config command inputs.
type Options struct {
	// Root is where the file is written in write mode
	Root string

	// Format selects the template: "toml" (project config) or "preset"
	// (YAML preset document skeleton)
	Format string

	// Write writes the file instead of returning content for stdout;
	// an existing file is never overwritten
	Write bool
}

// Result carries the generated content and, in write mode, its path.
type Result struct {
	Content string
	Path    string
	Written bool
}

// targetName returns the file name for the chosen format.
func targetName(format string) string {
	if format == FormatPreset {
		return "onefile-presets.yaml"
	}
	return ".onefile.toml"
}

// Generate renders the starter content and optionally writes it.
func Generate(opts Options) (*Result, error) {
	logger := logging.GetLogger("commands.genconfig")

	var content string
	switch opts.Format {
	case FormatPreset:
		content = config.GeneratePresetContent()
	case FormatTOML, "":
		var err error
		content, err = config.GenerateConfigContent()
		if err != nil {
			return nil, err
		}
	default:
		return nil, errors.Newf(errors.ErrInvalidInput,
			"unknown format %q (want %s or %s)", opts.Format, FormatTOML, FormatPreset)
	}

	result := &Result{Content: content}
	if !opts.Write {
		return result, nil
	}

	root := opts.Root
	if root == "" {
		root = "."
	}
	result.Path = filepath.Join(root, targetName(opts.Format))

	if _, err := os.Stat(result.Path); err == nil {
		return nil, errors.Newf(errors.ErrAlreadyExists,
			"%s already exists, not overwriting", result.Path).
			WithDetail("path", result.Path)
	}
	if err := os.WriteFile(result.Path, []byte(content), 0o644); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileWrite, "cannot write %s", result.Path)
	}

	result.Written = true
	logger.Info().Str("path", result.Path).Msg("starter configuration written")
	return result, nil
}
