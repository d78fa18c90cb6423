// Package explain resolves a single path and reports the effective
// settings together with the resolution trace, so users can see which
// layer set every field without re-running anything.
package explain

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/onefile/pkg/config"
	"github.com/arthur-debert/onefile/pkg/logging"
	"github.com/arthur-debert/onefile/pkg/matcher"
	"github.com/arthur-debert/onefile/pkg/paths"
	"github.com/arthur-debert/onefile/pkg/resolver"
	"github.com/arthur-debert/onefile/pkg/types"
)

// Options holds the explain command inputs.
type Options struct {
	// Root, ConfigPath and PresetPaths mirror the bundle command, so an
	// explanation sees exactly the configuration a bundle would
	Root        string
	ConfigPath  string
	PresetPaths []string

	// Path is the file to explain, relative to the root. It does not
	// have to exist; a hypothetical path resolves like a real one.
	Path string

	// CLIOverrides carries the explicitly-set settings flags
	CLIOverrides *types.Overrides
}

// Result pairs the resolved settings with their trace.
type Result struct {
	File       types.FileEntry
	Settings   types.Settings
	Trace      *types.ResolutionTrace
	Candidates []resolver.CandidateInfo
}

// Explain resolves one path under the loaded configuration.
func Explain(opts Options) (*Result, error) {
	logger := logging.GetLogger("commands.explain")

	root := opts.Root
	if root == "" {
		discovered, err := paths.FindProjectRoot(".")
		if err != nil {
			return nil, err
		}
		root = discovered
	}

	cfg, err := config.Load(config.LoadOptions{
		Root:        root,
		ConfigPath:  opts.ConfigPath,
		PresetPaths: opts.PresetPaths,
	})
	if err != nil {
		return nil, err
	}

	file := fileEntryFor(cfg.Root, opts.Path)
	res := resolver.New(cfg)
	settings, trace := res.Resolve(file, opts.CLIOverrides)

	logger.Debug().Str("path", file.Path).
		Str("group", trace.MatchedGroup).Str("rule", trace.MatchedRule).
		Msg("path explained")

	return &Result{
		File:       file,
		Settings:   settings,
		Trace:      trace,
		Candidates: res.Candidates(),
	}, nil
}

// fileEntryFor builds the entry the resolver sees. Metadata comes from
// the filesystem when the file exists; a missing file still resolves,
// with zero metadata, since matching only needs the path and extension.
func fileEntryFor(root, path string) types.FileEntry {
	rel := filepath.ToSlash(filepath.Clean(path))
	abs := path
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(root, path)
	}

	entry := types.FileEntry{
		Path:         rel,
		AbsolutePath: abs,
		Extension:    matcher.NormalizeExtension(filepath.Ext(path)),
		IsHidden:     hasHiddenSegment(rel),
	}
	if info, err := os.Stat(abs); err == nil && info.Mode().IsRegular() {
		entry.SizeBytes = info.Size()
		entry.ModTime = info.ModTime()
	}
	return entry
}

func hasHiddenSegment(rel string) bool {
	for _, part := range strings.Split(rel, "/") {
		if len(part) > 1 && part[0] == '.' && part != ".." {
			return true
		}
	}
	return false
}
