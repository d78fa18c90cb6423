package actions

import (
	"context"
	"strings"

	"github.com/arthur-debert/onefile/pkg/types"
)

// commentSyntax describes one language family's comment and string rules.
// The stripper never enters a comment while inside a string, which is what
// keeps "http://example.com" in a literal intact.
type commentSyntax struct {
	// line comment openers, e.g. //, #, --
	line []string

	// lineBoundary requires a line opener to sit at line start or after
	// whitespace (protects shell "$#" and "x#y" values)
	lineBoundary bool

	// block comment delimiters, empty when the family has none
	blockOpen  string
	blockClose string

	// quotes are single-line string delimiters with backslash escapes
	quotes string

	// rawQuote is a string delimiter that may span lines (Go backticks,
	// JS templates); rawEscapes controls backslash handling inside it
	rawQuote   byte
	rawEscapes bool

	// triple enables Python-style triple-quoted strings spanning lines
	triple bool
}

var (
	goSyntax     = commentSyntax{line: []string{"//"}, blockOpen: "/*", blockClose: "*/", quotes: `"'`, rawQuote: '`'}
	cSyntax      = commentSyntax{line: []string{"//"}, blockOpen: "/*", blockClose: "*/", quotes: `"'`, rawQuote: '`', rawEscapes: true}
	pythonSyntax = commentSyntax{line: []string{"#"}, lineBoundary: true, quotes: `"'`, triple: true}
	hashSyntax   = commentSyntax{line: []string{"#"}, lineBoundary: true, quotes: `"'`}
	htmlSyntax   = commentSyntax{blockOpen: "<!--", blockClose: "-->"}
	cssSyntax    = commentSyntax{blockOpen: "/*", blockClose: "*/", quotes: `"'`}
	scssSyntax   = commentSyntax{line: []string{"//"}, blockOpen: "/*", blockClose: "*/", quotes: `"'`}
	sqlSyntax    = commentSyntax{line: []string{"--"}, blockOpen: "/*", blockClose: "*/", quotes: `'`}
	luaSyntax    = commentSyntax{line: []string{"--"}, quotes: `"'`}
	phpSyntax    = commentSyntax{line: []string{"//", "#"}, blockOpen: "/*", blockClose: "*/", quotes: `"'`}
)

// syntaxFor maps an extension to its comment syntax. Unknown extensions
// get no syntax: strip_comments leaves their content unchanged rather
// than guessing.
func syntaxFor(extension string) (commentSyntax, bool) {
	switch extension {
	case ".go":
		return goSyntax, true
	case ".js", ".jsx", ".ts", ".tsx", ".mjs", ".cjs", ".java", ".c", ".h",
		".cpp", ".cc", ".hpp", ".cs", ".swift", ".kt", ".kts", ".scala",
		".rs", ".dart", ".proto", ".groovy":
		return cSyntax, true
	case ".py", ".pyi":
		return pythonSyntax, true
	case ".rb", ".sh", ".bash", ".zsh", ".fish", ".pl", ".pm", ".r", ".jl",
		".tf", ".yaml", ".yml", ".toml", ".ini", ".cfg", ".conf",
		".properties", ".dockerfile", ".mk", ".cmake", ".nix":
		return hashSyntax, true
	case ".html", ".htm", ".xml", ".svg", ".vue", ".xhtml", ".md", ".markdown":
		return htmlSyntax, true
	case ".css":
		return cssSyntax, true
	case ".scss", ".sass", ".less":
		return scssSyntax, true
	case ".sql":
		return sqlSyntax, true
	case ".lua":
		return luaSyntax, true
	case ".php":
		return phpSyntax, true
	}
	return commentSyntax{}, false
}

func stripCommentsAction(_ context.Context, content string, file types.FileEntry, _ *types.Settings) (string, error) {
	syn, ok := syntaxFor(file.Extension)
	if !ok {
		return content, nil
	}
	return stripComments(content, syn), nil
}

// stripComments removes comments per the syntax while copying string
// literals verbatim. It is a single pass over the content; indexes into
// the input stay aligned with what has been emitted, so boundary checks
// can look at the previous input byte.
func stripComments(content string, syn commentSyntax) string {
	out := make([]byte, 0, len(content))
	n := len(content)
	i := 0

	for i < n {
		c := content[i]

		// Triple-quoted strings span lines and are copied whole
		if syn.triple && (c == '"' || c == '\'') && i+2 < n && content[i+1] == c && content[i+2] == c {
			delim := content[i : i+3]
			end := strings.Index(content[i+3:], delim)
			if end < 0 {
				out = append(out, content[i:]...)
				i = n
				break
			}
			stop := i + 3 + end + 3
			out = append(out, content[i:stop]...)
			i = stop
			continue
		}

		// Single-line quoted strings with backslash escapes
		if syn.quotes != "" && strings.IndexByte(syn.quotes, c) >= 0 {
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
				if content[j] == '\n' {
					// Unterminated literal: stop protecting at the newline
					break
				}
				j++
			}
			out = append(out, content[i:j]...)
			i = j
			continue
		}

		// Raw / template strings
		if syn.rawQuote != 0 && c == syn.rawQuote {
			j := i + 1
			for j < n {
				if syn.rawEscapes && content[j] == '\\' && j+1 < n {
					j += 2
					continue
				}
				if content[j] == syn.rawQuote {
					j++
					break
				}
				j++
			}
			out = append(out, content[i:j]...)
			i = j
			continue
		}

		// Block comments
		if syn.blockOpen != "" && strings.HasPrefix(content[i:], syn.blockOpen) {
			out = trimTrailingBlanks(out)
			lineStart := len(out) == 0 || out[len(out)-1] == '\n'
			rest := content[i+len(syn.blockOpen):]
			end := strings.Index(rest, syn.blockClose)
			if end < 0 {
				// Unterminated comment runs to EOF
				i = n
				break
			}
			i += len(syn.blockOpen) + end + len(syn.blockClose)
			if lineStart {
				i = skipBlankThroughNewline(content, i)
			}
			continue
		}

		// Line comments
		if opener := matchLineComment(content, i, syn); opener != "" {
			out = trimTrailingBlanks(out)
			lineStart := len(out) == 0 || out[len(out)-1] == '\n'
			nl := strings.IndexByte(content[i:], '\n')
			if nl < 0 {
				i = n
				break
			}
			i += nl
			if lineStart {
				// The whole line was comment; drop its newline too
				i++
			}
			continue
		}

		out = append(out, c)
		i++
	}

	return string(out)
}

func matchLineComment(content string, i int, syn commentSyntax) string {
	for _, opener := range syn.line {
		if !strings.HasPrefix(content[i:], opener) {
			continue
		}
		if syn.lineBoundary && i > 0 {
			prev := content[i-1]
			if prev != ' ' && prev != '\t' && prev != '\n' {
				continue
			}
		}
		return opener
	}
	return ""
}

// skipBlankThroughNewline consumes spaces and tabs up to and including a
// newline. Used after removing a comment that was the only thing on its
// line, so the empty line does not survive it. Returns i unchanged when
// code follows on the same line.
func skipBlankThroughNewline(content string, i int) int {
	j := i
	for j < len(content) && (content[j] == ' ' || content[j] == '\t') {
		j++
	}
	if j < len(content) && content[j] == '\n' {
		return j + 1
	}
	if j == len(content) {
		return j
	}
	return i
}

// trimTrailingBlanks drops spaces and tabs left dangling before a removed
// comment, so "x = 1  // c" becomes "x = 1" rather than "x = 1  ".
func trimTrailingBlanks(out []byte) []byte {
	for len(out) > 0 {
		last := out[len(out)-1]
		if last != ' ' && last != '\t' {
			break
		}
		out = out[:len(out)-1]
	}
	return out
}
