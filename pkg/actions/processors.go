package actions

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/arthur-debert/onefile/pkg/registry"
	"github.com/arthur-debert/onefile/pkg/types"
)

// Built-in custom processors. Presets reach them through
// custom_processor + processor_args, and user code can register more
// alongside them with registry.RegisterProcessor.
func init() {
	registry.MustRegisterProcessor("truncate", truncateProcessor)
	registry.MustRegisterProcessor("redact_secrets", redactSecretsProcessor)
	registry.MustRegisterProcessor("extract_functions", extractFunctionsProcessor)
}

// truncateProcessor cuts content at max_lines and/or max_chars.
// add_marker (default true) appends the truncation marker when
// anything was cut. max_chars counts runes so multi-byte text is
// never split mid-character.
func truncateProcessor(_ context.Context, content string, _ types.FileEntry, args map[string]interface{}) (string, error) {
	maxLines := argInt(args, "max_lines", 0)
	maxChars := argInt(args, "max_chars", 0)
	if maxLines <= 0 && maxChars <= 0 {
		return content, nil
	}
	addMarker := argBool(args, "add_marker", true)

	out := content
	if maxLines > 0 {
		marker := ""
		if addMarker {
			marker = TruncationMarker
		}
		out = truncateLines(out, maxLines, marker)
	}
	if maxChars > 0 {
		runes := []rune(out)
		if len(runes) > maxChars {
			out = string(runes[:maxChars])
			if addMarker {
				out += "\n" + TruncationMarker
			}
		}
	}
	return out, nil
}

type redaction struct {
	re       *regexp.Regexp
	template string
}

// Default shapes: key/value assignments for credential-looking names,
// and bearer tokens. The leading capture keeps the key visible so the
// redacted output still reads.
var defaultRedactions = []redaction{
	{
		re:       regexp.MustCompile(`(?i)((?:api[_-]?key|secret|password|passwd|token)["']?\s*[:=]\s*["']?)[^\s"']+`),
		template: "${1}",
	},
	{
		re:       regexp.MustCompile(`(?i)\b(bearer\s+)[A-Za-z0-9\-._~+/]+=*`),
		template: "${1}",
	},
}

// redactSecretsProcessor substitutes each pattern with replacement
// (default "[REDACTED]"). User-supplied patterns replace the whole
// match; the replacement string may use $1-style capture references.
func redactSecretsProcessor(_ context.Context, content string, _ types.FileEntry, args map[string]interface{}) (string, error) {
	replacement := argString(args, "replacement", "[REDACTED]")
	patterns := argStringSlice(args, "patterns")
	if len(patterns) == 0 {
		out := content
		for _, r := range defaultRedactions {
			out = r.re.ReplaceAllString(out, r.template+replacement)
		}
		return out, nil
	}

	out := content
	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return "", fmt.Errorf("invalid redaction pattern %q: %w", pattern, err)
		}
		out = re.ReplaceAllString(out, replacement)
	}
	return out, nil
}

// extractFunctionsProcessor reduces source files to their function and
// class signatures, dropping bodies. languages limits which files are
// reduced (by extension when absent); include_docstrings keeps the doc
// comment or docstring attached to each signature. Files in languages
// the extractor cannot parse pass through unchanged.
func extractFunctionsProcessor(_ context.Context, content string, file types.FileEntry, args map[string]interface{}) (string, error) {
	includeDocs := argBool(args, "include_docstrings", false)
	lang := languageForExtension(file.Extension)

	if languages := argStringSlice(args, "languages"); len(languages) > 0 {
		wanted := false
		for _, l := range languages {
			if normalizeLanguage(l) == lang {
				wanted = true
				break
			}
		}
		if !wanted {
			return content, nil
		}
	}

	switch lang {
	case "go":
		return extractGoSignatures(content, includeDocs), nil
	case "python":
		return extractPythonSignatures(content, includeDocs), nil
	case "javascript", "typescript":
		return extractJSSignatures(content, includeDocs), nil
	}
	return content, nil
}

func languageForExtension(extension string) string {
	switch extension {
	case ".go":
		return "go"
	case ".py", ".pyw", ".pyi":
		return "python"
	case ".js", ".jsx", ".mjs", ".cjs":
		return "javascript"
	case ".ts", ".tsx", ".mts", ".cts":
		return "typescript"
	}
	return ""
}

func normalizeLanguage(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "go", "golang":
		return "go"
	case "python", "py":
		return "python"
	case "javascript", "js":
		return "javascript"
	case "typescript", "ts":
		return "typescript"
	}
	return ""
}

func extractGoSignatures(content string, includeDocs bool) string {
	lines := strings.Split(content, "\n")
	var out []string
	var doc []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "//") {
			doc = append(doc, line)
			continue
		}
		if strings.HasPrefix(trimmed, "func ") {
			if includeDocs && len(doc) > 0 {
				out = append(out, doc...)
			}
			out = append(out, signatureOnly(line))
		}
		doc = doc[:0]
	}
	return strings.Join(out, "\n")
}

func extractPythonSignatures(content string, includeDocs bool) string {
	lines := strings.Split(content, "\n")
	var out []string
	for i := 0; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(trimmed, "def ") &&
			!strings.HasPrefix(trimmed, "async def ") &&
			!strings.HasPrefix(trimmed, "class ") {
			continue
		}
		out = append(out, lines[i])
		if !includeDocs {
			continue
		}
		// Docstring sits on the first non-blank line under the signature
		j := i + 1
		for j < len(lines) && strings.TrimSpace(lines[j]) == "" {
			j++
		}
		if j >= len(lines) {
			continue
		}
		next := strings.TrimSpace(lines[j])
		quote := ""
		if strings.HasPrefix(next, `"""`) {
			quote = `"""`
		} else if strings.HasPrefix(next, "'''") {
			quote = "'''"
		}
		if quote == "" {
			continue
		}
		out = append(out, lines[j])
		if len(next) > len(quote) && strings.HasSuffix(next, quote) {
			continue
		}
		for j++; j < len(lines); j++ {
			out = append(out, lines[j])
			if strings.Contains(lines[j], quote) {
				break
			}
		}
	}
	return strings.Join(out, "\n")
}

var (
	jsFunctionDecl = regexp.MustCompile(`^(?:export\s+)?(?:default\s+)?(?:async\s+)?function\s*\*?\s*[\w$]*\s*\(`)
	jsArrowDecl    = regexp.MustCompile(`^(?:export\s+)?(?:const|let|var)\s+[\w$]+\s*=\s*(?:async\s*)?(?:\([^)]*\)|[\w$]+)\s*=>`)
	jsClassDecl    = regexp.MustCompile(`^(?:export\s+)?(?:default\s+)?(?:abstract\s+)?class\s+[\w$]+`)
)

func extractJSSignatures(content string, includeDocs bool) string {
	lines := strings.Split(content, "\n")
	var out []string
	var doc []string
	inDoc := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if inDoc {
			doc = append(doc, line)
			if strings.Contains(trimmed, "*/") {
				inDoc = false
			}
			continue
		}
		if strings.HasPrefix(trimmed, "/**") {
			doc = append(doc[:0], line)
			inDoc = !strings.Contains(trimmed[2:], "*/")
			continue
		}
		if jsFunctionDecl.MatchString(trimmed) || jsArrowDecl.MatchString(trimmed) || jsClassDecl.MatchString(trimmed) {
			if includeDocs && len(doc) > 0 {
				out = append(out, doc...)
			}
			out = append(out, signatureOnly(line))
		}
		doc = doc[:0]
	}
	return strings.Join(out, "\n")
}

// signatureOnly drops a trailing body opener so only the declaration
// remains.
func signatureOnly(line string) string {
	out := strings.TrimRight(line, " \t")
	out = strings.TrimSuffix(out, "{")
	return strings.TrimRight(out, " \t")
}
