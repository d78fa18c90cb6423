// Package scanner walks the project tree and produces the flat file
// list the engine consumes. The scanner only excludes what can never be
// wanted (the excludes list and the output artifact itself); hidden,
// binary and oversized files are still listed, because whether to keep
// them is a per-file settings decision made after resolution.
package scanner

import (
	"bytes"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/onefile/pkg/errors"
	"github.com/arthur-debert/onefile/pkg/logging"
	"github.com/arthur-debert/onefile/pkg/matcher"
	"github.com/arthur-debert/onefile/pkg/types"
)

var log = logging.GetLogger("scanner")

// Options controls one scan.
type Options struct {
	// Excludes holds plain names (matched against any path segment)
	// and glob patterns (matched against the root-relative path)
	Excludes []string

	// FollowSymlinks includes files reached through symlinks. Symlinked
	// directories are never descended into, so link cycles cannot loop
	// the walk.
	FollowSymlinks bool

	// OutputPath is the artifact the run writes; the scanner excludes
	// it so a bundle never swallows a previous run's output
	OutputPath string
}

// exclusions is the compiled form of Options.Excludes.
type exclusions struct {
	names    map[string]bool
	patterns *matcher.PatternSet
}

func compileExcludes(excludes []string) (*exclusions, error) {
	ex := &exclusions{names: make(map[string]bool)}
	var globs []string
	for _, e := range excludes {
		if e == "" {
			continue
		}
		if strings.ContainsAny(e, "*?[{") || strings.Contains(e, "/") {
			globs = append(globs, e)
			continue
		}
		ex.names[e] = true
	}
	ps, err := matcher.CompilePatterns(globs)
	if err != nil {
		return nil, errors.Wrap(err, errors.GetErrorCode(err), "invalid scan exclude")
	}
	ex.patterns = ps
	return ex, nil
}

func (ex *exclusions) skip(relPath, base string) bool {
	if ex.names[base] {
		return true
	}
	return ex.patterns.MatchesPath(relPath)
}

// Scan walks root and returns every candidate file, sorted by path.
func Scan(root string, opts Options) ([]types.FileEntry, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot resolve scan root %s", root)
	}

	ex, err := compileExcludes(opts.Excludes)
	if err != nil {
		return nil, err
	}

	outputAbs := ""
	if opts.OutputPath != "" {
		outputAbs = opts.OutputPath
		if !filepath.IsAbs(outputAbs) {
			outputAbs = filepath.Join(absRoot, outputAbs)
		}
		outputAbs = filepath.Clean(outputAbs)
	}

	var entries []types.FileEntry
	walkErr := filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// unreadable entries are logged and skipped, not fatal
			log.Warn().Str("path", path).Err(err).Msg("cannot access path, skipping")
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if path == absRoot {
			return nil
		}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		base := filepath.Base(path)

		if d.IsDir() {
			if ex.skip(rel, base) {
				return filepath.SkipDir
			}
			return nil
		}
		if ex.skip(rel, base) {
			return nil
		}
		if path == outputAbs {
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			if !opts.FollowSymlinks {
				return nil
			}
			target, err := os.Stat(path)
			if err != nil || !target.Mode().IsRegular() {
				return nil
			}
		} else if !d.Type().IsRegular() {
			return nil
		}

		info, err := os.Stat(path)
		if err != nil {
			log.Warn().Str("path", path).Err(err).Msg("cannot stat file, skipping")
			return nil
		}

		binary, err := sniffBinary(path)
		if err != nil {
			log.Warn().Str("path", path).Err(err).Msg("cannot sniff file, skipping")
			return nil
		}

		entries = append(entries, types.FileEntry{
			Path:         rel,
			AbsolutePath: path,
			Extension:    matcher.NormalizeExtension(filepath.Ext(base)),
			SizeBytes:    info.Size(),
			ModTime:      info.ModTime(),
			IsHidden:     isHiddenPath(rel),
			IsBinary:     binary,
		})
		return nil
	})
	if walkErr != nil {
		return nil, errors.Wrapf(walkErr, errors.ErrFileAccess, "scan of %s failed", absRoot)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	log.Debug().Str("root", absRoot).Int("files", len(entries)).Msg("scan complete")
	return entries, nil
}

// isHiddenPath reports whether any segment of the slash path starts
// with a dot.
func isHiddenPath(relPath string) bool {
	for _, part := range strings.Split(relPath, "/") {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return true
		}
	}
	return false
}

// knownBinaryExtensions short-circuits the content sniff for formats
// that are binary by definition.
var knownBinaryExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".bmp": true,
	".ico": true, ".webp": true, ".pdf": true, ".zip": true, ".tar": true,
	".gz": true, ".bz2": true, ".xz": true, ".7z": true, ".rar": true,
	".exe": true, ".dll": true, ".so": true, ".dylib": true, ".a": true,
	".o": true, ".class": true, ".jar": true, ".war": true, ".pyc": true,
	".wasm": true, ".woff": true, ".woff2": true, ".ttf": true, ".otf": true,
	".eot": true, ".mp3": true, ".mp4": true, ".avi": true, ".mov": true,
	".sqlite": true, ".db": true,
}

// sniffBinary reads the first 512 bytes and classifies content as
// binary on a null byte or a high non-printable ratio.
func sniffBinary(path string) (bool, error) {
	if knownBinaryExtensions[strings.ToLower(filepath.Ext(path))] {
		return true, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer func() { _ = f.Close() }()

	buf := make([]byte, 512)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return false, err
	}
	buf = buf[:n]
	if len(buf) == 0 {
		return false, nil
	}
	if bytes.ContainsRune(buf, 0) {
		return true, nil
	}

	nonPrintable := 0
	for _, b := range buf {
		if b < 32 && b != '\n' && b != '\r' && b != '\t' && b != '\f' {
			nonPrintable++
		}
	}
	return float64(nonPrintable)/float64(len(buf)) > 0.3, nil
}
