package actions

import (
	"bytes"
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/beevik/etree"

	"github.com/arthur-debert/onefile/pkg/types"
)

var (
	interTagWhitespace = regexp.MustCompile(`>\s+<`)
	blankLineRuns      = regexp.MustCompile(`\n{3,}`)
)

// minifyAction strips insignificant whitespace with per-type rules. It is
// deliberately conservative for executable content: string literals are
// never touched and newlines between statements survive, so the output
// still runs.
func minifyAction(_ context.Context, content string, file types.FileEntry, _ *types.Settings) (string, error) {
	switch file.Extension {
	case ".json":
		return minifyJSON(content), nil
	case ".xml", ".svg":
		return minifyXML(content), nil
	case ".html", ".htm", ".xhtml", ".vue":
		return minifyHTML(content), nil
	case ".css", ".scss", ".less":
		return minifyCSS(content, file.Extension), nil
	case ".js", ".jsx", ".ts", ".tsx", ".mjs", ".cjs":
		return minifyCode(content, cSyntax), nil
	case ".go", ".java", ".c", ".h", ".cpp", ".cc", ".cs", ".rs":
		return minifyCode(content, goSyntax), nil
	}
	return minifyGeneric(content), nil
}

func minifyJSON(content string) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(content)); err != nil {
		// Not valid JSON; fall back rather than corrupt
		return minifyGeneric(content)
	}
	return buf.String()
}

func minifyXML(content string) string {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(content); err != nil {
		return minifyGeneric(content)
	}
	doc.Indent(etree.NoIndent)
	out, err := doc.WriteToString()
	if err != nil {
		return minifyGeneric(content)
	}
	return strings.TrimRight(out, "\n")
}

func minifyHTML(content string) string {
	// Drop comments, then whitespace that sits purely between tags
	out := stripComments(content, htmlSyntax)
	out = interTagWhitespace.ReplaceAllString(out, "><")
	lines := strings.Split(out, "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

func minifyCSS(content, extension string) string {
	syn := cssSyntax
	if extension != ".css" {
		syn = scssSyntax
	}
	return tightenCSS(stripComments(content, syn), syn)
}

// tightenCSS collapses whitespace runs and drops them entirely around
// structural punctuation. String literals are copied verbatim, so a
// quoted font name keeps its spacing.
func tightenCSS(content string, syn commentSyntax) string {
	const punct = "{}:;,"
	var b strings.Builder
	b.Grow(len(content))
	var prev byte
	n := len(content)
	i := 0
	for i < n {
		c := content[i]
		if strings.IndexByte(syn.quotes, c) >= 0 {
			j := i + 1
			for j < n {
				if content[j] == '\\' && j+1 < n {
					j += 2
					continue
				}
				if content[j] == c {
					j++
					break
				}
				j++
			}
			b.WriteString(content[i:j])
			prev = c
			i = j
			continue
		}
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			j := i
			for j < n && (content[j] == ' ' || content[j] == '\t' || content[j] == '\n' || content[j] == '\r') {
				j++
			}
			var next byte
			if j < n {
				next = content[j]
			}
			if prev != 0 && next != 0 &&
				strings.IndexByte(punct, prev) < 0 && strings.IndexByte(punct, next) < 0 {
				b.WriteByte(' ')
				prev = ' '
			}
			i = j
			continue
		}
		b.WriteByte(c)
		prev = c
		i++
	}
	return b.String()
}

// minifyCode keeps one statement per line: comments removed, indentation
// and trailing blanks dropped, blank runs collapsed. Intra-line spacing
// is preserved so operator semantics cannot change, and lines inside
// multi-line literals (Go raw strings, JS templates) are never trimmed
// or dropped.
func minifyCode(content string, syn commentSyntax) string {
	out := stripComments(content, syn)
	lines := strings.Split(out, "\n")
	kept := make([]string, 0, len(lines))
	inRaw := false
	for _, line := range lines {
		startsInside := inRaw
		inRaw = rawStateAfter(line, inRaw, syn)
		if !startsInside {
			line = strings.TrimLeft(line, " \t")
		}
		if !inRaw {
			line = strings.TrimRight(line, " \t\r")
		}
		if line == "" && !startsInside && !inRaw {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// rawStateAfter reports whether a multi-line raw literal is still open
// at the end of line, given the state at its start. Single-line quoted
// strings are skipped so a delimiter inside them cannot toggle state.
func rawStateAfter(line string, inRaw bool, syn commentSyntax) bool {
	if syn.rawQuote == 0 {
		return false
	}
	n := len(line)
	i := 0
	for i < n {
		c := line[i]
		if inRaw {
			if syn.rawEscapes && c == '\\' && i+1 < n {
				i += 2
				continue
			}
			if c == syn.rawQuote {
				inRaw = false
			}
			i++
			continue
		}
		if c == syn.rawQuote {
			inRaw = true
			i++
			continue
		}
		if syn.quotes != "" && strings.IndexByte(syn.quotes, c) >= 0 {
			j := i + 1
			for j < n {
				if line[j] == '\\' && j+1 < n {
					j += 2
					continue
				}
				if line[j] == c {
					j++
					break
				}
				j++
			}
			i = j
			continue
		}
		i++
	}
	return inRaw
}

// minifyGeneric trims trailing blanks per line and collapses blank-line
// runs down to a single blank line.
func minifyGeneric(content string) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	out := strings.Join(lines, "\n")
	return blankLineRuns.ReplaceAllString(out, "\n\n")
}
