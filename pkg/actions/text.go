package actions

import (
	"context"
	"regexp"
	"strings"

	"github.com/arthur-debert/onefile/pkg/types"
)

var (
	horizontalRuns = regexp.MustCompile(`[ \t]+`)
	orderedItem    = regexp.MustCompile(`^\d{1,9}[.)]\s`)
)

// compressWhitespaceAction collapses horizontal whitespace runs to a
// single space and 3+ consecutive newlines to exactly 2.
func compressWhitespaceAction(_ context.Context, content string, _ types.FileEntry, _ *types.Settings) (string, error) {
	out := horizontalRuns.ReplaceAllString(content, " ")
	return blankLineRuns.ReplaceAllString(out, "\n\n"), nil
}

// removeEmptyLinesAction drops lines that hold only whitespace. Non-empty
// lines keep their spacing untouched.
func removeEmptyLinesAction(_ context.Context, content string, _ types.FileEntry, _ *types.Settings) (string, error) {
	lines := strings.Split(content, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n"), nil
}

// joinParagraphsAction merges soft-wrapped prose into one line per
// paragraph. Fenced code, headings, lists, blockquotes, tables, and
// indented code pass through untouched, and a trailing double-space
// hard break still ends its line.
func joinParagraphsAction(_ context.Context, content string, _ types.FileEntry, _ *types.Settings) (string, error) {
	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))
	var para []string

	flush := func() {
		if len(para) > 0 {
			out = append(out, strings.Join(para, " "))
			para = para[:0]
		}
	}

	inFence := false
	fenceMarker := ""
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if inFence {
			out = append(out, line)
			if strings.HasPrefix(trimmed, fenceMarker) {
				inFence = false
			}
			continue
		}
		if marker := fenceOpen(trimmed); marker != "" {
			flush()
			out = append(out, line)
			inFence = true
			fenceMarker = marker
			continue
		}
		if trimmed == "" {
			flush()
			out = append(out, line)
			continue
		}
		if isBlockLine(line, trimmed) {
			flush()
			out = append(out, line)
			continue
		}
		if strings.HasSuffix(line, "  ") {
			para = append(para, trimmed+"  ")
			flush()
			continue
		}
		para = append(para, trimmed)
	}
	flush()
	return strings.Join(out, "\n"), nil
}

func fenceOpen(trimmed string) string {
	if strings.HasPrefix(trimmed, "```") {
		return "```"
	}
	if strings.HasPrefix(trimmed, "~~~") {
		return "~~~"
	}
	return ""
}

// isBlockLine reports whether a non-blank line is Markdown block
// structure rather than paragraph prose.
func isBlockLine(line, trimmed string) bool {
	if strings.HasPrefix(line, "\t") || strings.HasPrefix(line, "    ") {
		return true
	}
	switch trimmed[0] {
	case '#', '>', '|':
		return true
	case '-', '*', '+':
		if len(trimmed) > 1 && (trimmed[1] == ' ' || trimmed[1] == '\t') {
			return true
		}
	}
	// Horizontal rules and setext underlines
	for _, c := range []string{"-", "=", "*", "_"} {
		if strings.Trim(trimmed, c) == "" {
			return true
		}
	}
	return orderedItem.MatchString(trimmed)
}
