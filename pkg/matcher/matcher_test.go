package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/onefile/pkg/errors"
	"github.com/arthur-debert/onefile/pkg/types"
)

func entry(path, ext string) types.FileEntry {
	return types.FileEntry{Path: path, Extension: ext}
}

func TestNormalizeExtension(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"py", ".py"},
		{".py", ".py"},
		{".PY", ".py"},
		{"Md", ".md"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeExtension(tt.input))
		})
	}
}

func TestCompileRule_ExtensionAxis(t *testing.T) {
	tests := []struct {
		name       string
		extensions []string
		file       types.FileEntry
		want       bool
	}{
		{"bare extension matches", []string{"py"}, entry("main.py", ".py"), true},
		{"dotted extension matches", []string{".py"}, entry("main.py", ".py"), true},
		{"case insensitive", []string{".PY"}, entry("main.py", ".py"), true},
		{"non-matching extension", []string{".js"}, entry("main.py", ".py"), false},
		{"no extension on file", []string{".py"}, entry("Makefile", ""), false},
		{"multiple extensions", []string{".js", ".ts"}, entry("app.ts", ".ts"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := CompileRule(tt.extensions, nil, "")
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.Matches(tt.file))
		})
	}
}

func TestCompileRule_PatternAxis(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		path     string
		want     bool
	}{
		{"star stays within segment", []string{"*.md"}, "README.md", true},
		{"star does not cross separator", []string{"*.md"}, "docs/README.md", false},
		{"double star crosses separators", []string{"docs/**"}, "docs/guide/intro.md", true},
		{"double star single level", []string{"docs/**"}, "docs/intro.md", true},
		{"leading double star matches root files", []string{"**/*"}, "app.js", true},
		{"leading double star matches nested files", []string{"**/*"}, "src/deep/app.js", true},
		{"leading double star with suffix at root", []string{"**/*.py"}, "main.py", true},
		{"leading double star with suffix nested", []string{"**/*.py"}, "src/pkg/util.py", true},
		{"middle double star zero dirs", []string{"src/**/main.go"}, "src/main.go", true},
		{"middle double star many dirs", []string{"src/**/main.go"}, "src/a/b/main.go", true},
		{"or within pattern list", []string{"*.txt", "*.md"}, "notes.md", true},
		{"no pattern matches", []string{"*.txt", "*.rst"}, "notes.md", false},
		{"character class", []string{"file[0-9].log"}, "file3.log", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := CompileRule(nil, tt.patterns, "")
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.Matches(entry(tt.path, "")))
		})
	}
}

func TestCompileRule_BothAxes(t *testing.T) {
	// Extension AND at least one pattern must match
	r, err := CompileRule([]string{".js"}, []string{"src/**"}, "")
	require.NoError(t, err)

	assert.True(t, r.Matches(entry("src/app.js", ".js")))
	assert.False(t, r.Matches(entry("src/app.py", ".py")), "extension axis fails")
	assert.False(t, r.Matches(entry("lib/app.js", ".js")), "pattern axis fails")
}

func TestCompileRule_EmptyRuleMatchesNothing(t *testing.T) {
	r, err := CompileRule(nil, nil, "")
	require.NoError(t, err)

	assert.False(t, r.Matches(entry("anything.txt", ".txt")))
	assert.False(t, r.Matches(entry("src/deep/file.py", ".py")))
}

func TestCompileRule_BasePath(t *testing.T) {
	tests := []struct {
		name       string
		extensions []string
		patterns   []string
		basePath   string
		path       string
		want       bool
	}{
		{"pattern prefixed by base", nil, []string{"*.md"}, "docs", "docs/intro.md", true},
		{"pattern outside base", nil, []string{"*.md"}, "docs", "intro.md", false},
		{"recursive under base", nil, []string{"**/*.md"}, "docs", "docs/sub/intro.md", true},
		{"extension-only scoped to base", []string{".py"}, nil, "src", "src/main.py", true},
		{"extension-only outside base", []string{".py"}, nil, "src", "tools/main.py", false},
		{"base with trailing slash", nil, []string{"*.md"}, "docs/", "docs/intro.md", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := CompileRule(tt.extensions, tt.patterns, tt.basePath)
			require.NoError(t, err)
			ext := ""
			if i := len(tt.path) - 3; i > 0 {
				ext = tt.path[i:]
			}
			assert.Equal(t, tt.want, r.Matches(entry(tt.path, ext)))
		})
	}
}

func TestCompileRule_NegationRejected(t *testing.T) {
	_, err := CompileRule(nil, []string{"!node_modules/**"}, "")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrUnsupportedPattern))
	assert.Contains(t, err.Error(), "!node_modules/**")
}

func TestCompilePatterns_NegationRejected(t *testing.T) {
	_, err := CompilePatterns([]string{"*.md", "!draft.md"})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrUnsupportedPattern))
}

func TestCompilePatterns_InvalidGlob(t *testing.T) {
	_, err := CompilePatterns([]string{"[unclosed"})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
}

func TestPatternSet_MatchesPath(t *testing.T) {
	ps, err := CompilePatterns([]string{"node_modules/**", ".git/**", "*.log"})
	require.NoError(t, err)

	assert.True(t, ps.MatchesPath("node_modules/react/index.js"))
	assert.True(t, ps.MatchesPath(".git/HEAD"))
	assert.True(t, ps.MatchesPath("debug.log"))
	assert.False(t, ps.MatchesPath("src/app.js"))
}

func TestExpandDoubleStar(t *testing.T) {
	tests := []struct {
		pattern string
		want    []string
	}{
		{"*.md", []string{"*.md"}},
		{"**/*.md", []string{"**/*.md", "*.md"}},
		{"a/**/b", []string{"a/**/b", "a/b"}},
		{"**/x/**/y", []string{"**/x/**/y", "**/x/y", "x/**/y", "x/y"}},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			assert.ElementsMatch(t, tt.want, expandDoubleStar(tt.pattern))
		})
	}
}
