// Package writer assembles transformed file contents into the single
// output artifact. Each file's resolved settings choose its separator
// style, metadata inclusion and line endings, so one bundle can mix
// styles when presets differ per file.
package writer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/onefile/pkg/errors"
	"github.com/arthur-debert/onefile/pkg/logging"
	"github.com/arthur-debert/onefile/pkg/types"
)

var log = logging.GetLogger("writer")

// Write assembles the included results into dst in path order.
func Write(dst io.Writer, results []types.FileResult) error {
	included := make([]types.FileResult, 0, len(results))
	for _, r := range results {
		if r.Excluded || r.Err != nil {
			continue
		}
		included = append(included, r)
	}
	sort.Slice(included, func(i, j int) bool {
		return included[i].File.Path < included[j].File.Path
	})

	for i, r := range included {
		separator := renderSeparator(r, i == 0)
		body := convertLineEndings(r.Content, r.Settings.LineEnding)
		if !strings.HasSuffix(body, lineEnd(r.Settings.LineEnding)) {
			body += lineEnd(r.Settings.LineEnding)
		}
		if trailer := renderTrailer(r); trailer != "" {
			body += trailer
		}
		block := convertLineEndings(separator, r.Settings.LineEnding) + body
		if _, err := io.WriteString(dst, block); err != nil {
			return errors.Wrapf(err, errors.ErrFileWrite, "cannot write output for %s", r.File.Path)
		}
	}
	return nil
}

// WriteFile writes the assembled artifact atomically: the content lands
// in a temp file next to the target and replaces it with a rename, so
// an interrupted run never leaves a half-written artifact.
func WriteFile(path string, results []types.FileResult) (int64, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, errors.Wrapf(err, errors.ErrDirCreate, "cannot create output directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return 0, errors.Wrapf(err, errors.ErrFileCreate, "cannot create temp output in %s", dir)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := Write(tmp, results); err != nil {
		_ = tmp.Close()
		return 0, err
	}
	info, err := tmp.Stat()
	if err != nil {
		_ = tmp.Close()
		return 0, errors.Wrapf(err, errors.ErrFileWrite, "cannot stat temp output %s", tmpName)
	}
	if err := tmp.Close(); err != nil {
		return 0, errors.Wrapf(err, errors.ErrFileWrite, "cannot finish temp output %s", tmpName)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return 0, errors.Wrapf(err, errors.ErrFileWrite, "cannot move output into place at %s", path)
	}

	log.Debug().Str("path", path).Int64("bytes", info.Size()).Msg("artifact written")
	return info.Size(), nil
}

func lineEnd(le types.LineEnding) string {
	if le == types.LineEndingCRLF {
		return "\r\n"
	}
	return "\n"
}

// convertLineEndings normalizes to LF first so CRLF input never turns
// into CRCRLF.
func convertLineEndings(content string, le types.LineEnding) string {
	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	if le == types.LineEndingCRLF {
		return strings.ReplaceAll(normalized, "\n", "\r\n")
	}
	return normalized
}

func renderSeparator(r types.FileResult, first bool) string {
	lead := "\n"
	if first {
		lead = ""
	}
	switch r.Settings.SeparatorStyle {
	case types.SeparatorDetailed:
		sep := lead + fmt.Sprintf("======== FILE: %s ========\n", r.File.Path)
		if r.Settings.IncludeMetadata {
			sep += fmt.Sprintf("# size: %d bytes\n", r.File.SizeBytes)
			if !r.File.ModTime.IsZero() {
				sep += fmt.Sprintf("# modified: %s\n", r.File.ModTime.UTC().Format("2006-01-02 15:04:05"))
			}
		}
		return sep
	case types.SeparatorMarkdown:
		fence := codeFence(r.Content)
		lang := strings.TrimPrefix(r.File.Extension, ".")
		return lead + fmt.Sprintf("## %s\n\n%s%s\n", r.File.Path, fence, lang)
	case types.SeparatorMachine:
		meta := machineMeta{Path: r.File.Path, Size: r.File.SizeBytes, Extension: r.File.Extension}
		if r.Settings.IncludeMetadata && !r.File.ModTime.IsZero() {
			meta.Modified = r.File.ModTime.UTC().Format("2006-01-02T15:04:05Z")
		}
		encoded, _ := json.Marshal(meta)
		return lead + fmt.Sprintf("--8<-- ONEFILE %s --8<--\n", encoded)
	case types.SeparatorNone:
		return lead
	default: // standard
		return lead + fmt.Sprintf("======== FILE: %s ========\n", r.File.Path)
	}
}

// renderTrailer closes block-style separators after the content.
func renderTrailer(r types.FileResult) string {
	if r.Settings.SeparatorStyle == types.SeparatorMarkdown {
		return convertLineEndings(codeFence(r.Content)+"\n", r.Settings.LineEnding)
	}
	return ""
}

type machineMeta struct {
	Path      string `json:"path"`
	Size      int64  `json:"size"`
	Extension string `json:"extension,omitempty"`
	Modified  string `json:"modified,omitempty"`
}

// codeFence picks a backtick fence longer than any backtick run inside
// the content, so embedded fences cannot break the block.
func codeFence(content string) string {
	longest := 0
	run := 0
	for _, c := range content {
		if c == '`' {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}
	size := longest + 1
	if size < 3 {
		size = 3
	}
	return strings.Repeat("`", size)
}
