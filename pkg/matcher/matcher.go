// Package matcher decides whether a file matches a rule's extension list
// and path patterns. Patterns use glob syntax where * stays within a path
// segment and ** crosses segments; a leading "**/" also matches zero
// directories, so "**/*.py" covers files at the root.
package matcher

import (
	"path"
	"strings"

	"github.com/gobwas/glob"

	"github.com/arthur-debert/onefile/pkg/errors"
	"github.com/arthur-debert/onefile/pkg/types"
)

// NormalizeExtension ensures a leading dot and lowercases the result, so
// "py", ".py" and ".PY" all compare equal.
func NormalizeExtension(extension string) string {
	if extension == "" {
		return ""
	}
	if !strings.HasPrefix(extension, ".") {
		extension = "." + extension
	}
	return strings.ToLower(extension)
}

// PatternSet is a compiled list of glob patterns matched with OR semantics
type PatternSet struct {
	patterns []string
	globs    []glob.Glob
}

// CompilePatterns compiles each pattern once. Negation patterns are not
// supported and are rejected loudly rather than silently ignored.
func CompilePatterns(patterns []string) (*PatternSet, error) {
	ps := &PatternSet{patterns: patterns}
	for _, p := range patterns {
		if strings.HasPrefix(p, "!") {
			return nil, errors.Newf(errors.ErrUnsupportedPattern,
				"negation pattern %q is not supported; list only the files to include", p)
		}
		for _, variant := range expandDoubleStar(p) {
			g, err := glob.Compile(variant, '/')
			if err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigValid, "invalid pattern %q", p)
			}
			ps.globs = append(ps.globs, g)
		}
	}
	return ps, nil
}

// MatchesPath reports whether the slash-separated path matches any pattern
func (ps *PatternSet) MatchesPath(filePath string) bool {
	for _, g := range ps.globs {
		if g.Match(filePath) {
			return true
		}
	}
	return false
}

// Len returns the number of source patterns
func (ps *PatternSet) Len() int {
	return len(ps.patterns)
}

// expandDoubleStar returns the pattern variants needed so that "**/"
// also matches zero directories. Each "**/" occurrence doubles the
// variant count; patterns have at most a couple.
func expandDoubleStar(pattern string) []string {
	i := strings.Index(pattern, "**/")
	if i < 0 {
		return []string{pattern}
	}
	rest := expandDoubleStar(pattern[i+len("**/"):])
	variants := make([]string, 0, len(rest)*2)
	for _, r := range rest {
		variants = append(variants, pattern[:i]+"**/"+r)
		variants = append(variants, pattern[:i]+r)
	}
	return variants
}

// CompiledRule is a rule's match specification, compiled once and reused
// for every file.
type CompiledRule struct {
	extensions []string
	patterns   *PatternSet
	basePath   string
}

// CompileRule compiles a rule's extensions and patterns. basePath, when
// set, scopes the rule to files under that directory and prefixes every
// pattern before compilation.
func CompileRule(extensions, patterns []string, basePath string) (*CompiledRule, error) {
	r := &CompiledRule{basePath: strings.Trim(basePath, "/")}

	for _, ext := range extensions {
		r.extensions = append(r.extensions, NormalizeExtension(ext))
	}

	prefixed := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if strings.HasPrefix(p, "!") {
			// Checked before prefixing so the error shows the user's pattern
			return nil, errors.Newf(errors.ErrUnsupportedPattern,
				"negation pattern %q is not supported; list only the files to include", p)
		}
		if r.basePath != "" {
			p = path.Join(r.basePath, p)
		}
		prefixed = append(prefixed, p)
	}

	ps, err := CompilePatterns(prefixed)
	if err != nil {
		return nil, err
	}
	r.patterns = ps
	return r, nil
}

// Matches applies the rule's match specification to a file. Extensions and
// patterns are independent axes: a present axis must be satisfied (AND),
// patterns match with OR within the list. A rule with neither axis matches
// nothing; the default-rule fallback is the resolver's job, not a match.
func (r *CompiledRule) Matches(file types.FileEntry) bool {
	if len(r.extensions) == 0 && r.patterns.Len() == 0 {
		return false
	}

	if r.basePath != "" && !isUnder(file.Path, r.basePath) {
		return false
	}

	if len(r.extensions) > 0 {
		if !r.matchesExtension(file.Extension) {
			return false
		}
	}

	if r.patterns.Len() > 0 {
		if !r.patterns.MatchesPath(file.Path) {
			return false
		}
	}

	return true
}

func (r *CompiledRule) matchesExtension(extension string) bool {
	normalized := NormalizeExtension(extension)
	for _, ext := range r.extensions {
		if strings.EqualFold(ext, normalized) {
			return true
		}
	}
	return false
}

func isUnder(filePath, dir string) bool {
	return filePath == dir || strings.HasPrefix(filePath, dir+"/")
}
