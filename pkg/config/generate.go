package config

import (
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/arthur-debert/onefile/pkg/errors"
	"github.com/arthur-debert/onefile/pkg/types"
)

// starterHeader tops the generated project config. Every value line
// below it ships commented out, so an untouched file behaves exactly
// like no file at all.
const starterHeader = `# onefile project configuration.
#
# Uncomment a line to change it. Every key under [global] can also be
# set per extension under [extensions.<ext>], per rule in a preset
# document, or for a single run with the matching command-line flag.
#
#   security_check    error | warn | skip
#   max_file_size     bytes, 0 = no limit
#   line_ending       lf | crlf
#   separator_style   standard | detailed | markdown | machine | none
#   max_lines         per-file line cap applied after actions, 0 = no limit
#   actions           e.g. ["strip_comments", "compress_whitespace"]
#
# Preset documents listed under "presets" load in order; later
# documents win. Run "onefile topics presets" for the group format.

`

type starterGlobal struct {
	SecurityCheck         string   `toml:"security_check"`
	MaxFileSize           int64    `toml:"max_file_size"`
	IncludeHidden         bool     `toml:"include_hidden"`
	IncludeBinary         bool     `toml:"include_binary"`
	RemoveScrapedMetadata bool     `toml:"remove_scraped_metadata"`
	LineEnding            string   `toml:"line_ending"`
	SeparatorStyle        string   `toml:"separator_style"`
	IncludeMetadata       bool     `toml:"include_metadata"`
	MaxLines              int      `toml:"max_lines"`
	Actions               []string `toml:"actions"`
}

type starterScan struct {
	Excludes       []string `toml:"excludes"`
	FollowSymlinks bool     `toml:"follow_symlinks"`
}

type starterOutput struct {
	Path string `toml:"path"`
}

type starterDocument struct {
	Presets []string      `toml:"presets"`
	Global  starterGlobal `toml:"global"`
	Scan    starterScan   `toml:"scan"`
	Output  starterOutput `toml:"output"`
}

// starterScanExcludes mirrors the embedded defaults so the generated
// file shows users what they are overriding.
var starterScanExcludes = []string{
	".git", ".hg", ".svn", "node_modules", "vendor", "dist", "build",
	"target", "__pycache__", ".idea", ".vscode",
}

// GenerateConfigContent renders the starter .onefile.toml. The body is
// marshalled from the built-in defaults and then commented out line by
// line, so the template cannot drift from what Load actually uses.
func GenerateConfigContent() (string, error) {
	defaults := types.DefaultSettings()
	doc := starterDocument{
		Presets: []string{},
		Global: starterGlobal{
			SecurityCheck:         string(defaults.SecurityCheck),
			MaxFileSize:           defaults.MaxFileSize,
			IncludeHidden:         defaults.IncludeHidden,
			IncludeBinary:         defaults.IncludeBinary,
			RemoveScrapedMetadata: defaults.RemoveScrapedMetadata,
			LineEnding:            string(defaults.LineEnding),
			SeparatorStyle:        string(defaults.SeparatorStyle),
			IncludeMetadata:       defaults.IncludeMetadata,
			MaxLines:              defaults.MaxLines,
			Actions:               []string{},
		},
		Scan: starterScan{
			Excludes:       starterScanExcludes,
			FollowSymlinks: false,
		},
		Output: starterOutput{
			Path: "onefile.txt",
		},
	}
	body, err := toml.Marshal(doc)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "cannot render starter config")
	}
	return starterHeader + commentOutConfigValues(string(body)), nil
}

// GeneratePresetContent returns a commented preset document skeleton.
func GeneratePresetContent() string {
	return starterPreset
}

const starterPreset = `# onefile preset document.
#
# Top-level keys other than "globals" and "extensions" define rule
# groups. Groups resolve highest priority first; within a group, rules
# apply top to bottom and the first match wins. A rule named "default"
# never matches files directly: the default rule of the strongest
# enabled group is the fallback for files no rule matched.

# globals:
#   max_lines: 500

# extensions:
#   .md:
#     actions: ["join_paragraphs"]

# web:
#   description: trims browser assets
#   priority: 10
#   # requires_path: package.json
#   rules:
#     markup:
#       extensions: [.html, .xml]
#       actions: ["strip_tags", "compress_whitespace"]
#       preserve_tags: ["pre", "code"]
#     bundles:
#       patterns: ["static/**/*.min.js"]
#       max_lines: 40
#     default:
#       actions: ["strip_comments"]
`

// commentOutConfigValues comments out every assignment line while
// leaving blanks, existing comments and [section] headers alone.
func commentOutConfigValues(content string) string {
	lines := strings.Split(content, "\n")
	result := make([]string, 0, len(lines))

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			result = append(result, line)
			continue
		}

		if strings.HasPrefix(trimmed, "#") {
			result = append(result, line)
			continue
		}

		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			result = append(result, line)
			continue
		}

		result = append(result, "# "+line)
	}

	return strings.Join(result, "\n")
}
