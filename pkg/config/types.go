package config

import (
	"github.com/arthur-debert/onefile/pkg/matcher"
	"github.com/arthur-debert/onefile/pkg/types"
)

// DefaultRuleName is the reserved rule name used as a group's fallback.
// A rule with this name never participates in pattern matching; it
// applies only when no rule in any group matched the file.
const DefaultRuleName = "default"

// Rule is one match specification inside a group: which files it claims
// (extensions OR patterns, AND across the two axes) and the settings it
// contributes when it wins.
type Rule struct {
	// Name is the rule's mapping key in the preset document
	Name string

	// Extensions is the extension axis, normalized to ".ext" lowercase
	Extensions []string

	// Patterns is the glob axis, relative to the group's base_path
	Patterns []string

	// Overrides holds the settings fields this rule sets, including
	// actions and custom processor wiring
	Overrides types.Overrides

	compiled *matcher.CompiledRule
}

// IsDefault reports whether this is the group's fallback rule.
func (r *Rule) IsDefault() bool {
	return r.Name == DefaultRuleName
}

// Matches reports whether the compiled rule claims the file. Rules are
// compiled during Load; an uncompiled rule matches nothing.
func (r *Rule) Matches(file types.FileEntry) bool {
	if r.compiled == nil {
		return false
	}
	return r.compiled.Matches(file)
}

func (r *Rule) compile(basePath string) error {
	compiled, err := matcher.CompileRule(r.Extensions, r.Patterns, basePath)
	if err != nil {
		return err
	}
	r.compiled = compiled
	return nil
}

// RuleGroup is a named, prioritized collection of rules. Groups load
// from preset documents; a group redefined in a later document replaces
// the earlier definition wholesale.
type RuleGroup struct {
	// Name is the group's top-level mapping key
	Name string

	// Description is free-form text shown by the presets command
	Description string

	// Enabled gates the whole group (default true)
	Enabled bool

	// Priority orders groups during resolution, higher first
	Priority int

	// BasePath scopes every rule pattern in the group to a subtree
	BasePath string

	// RequiresPath makes the group active only when the path exists
	// under the project root, checked once at load time
	RequiresPath string

	// Rules in document order; order is the tie-break within the group
	Rules []Rule

	// Active records the requires_path check outcome
	Active bool

	// loadIndex breaks priority ties: earlier-loaded groups win
	loadIndex int
}

// Eligible reports whether the group contributes rules to resolution.
func (g *RuleGroup) Eligible() bool {
	return g.Enabled && g.Active
}

// DefaultRule returns the group's fallback rule, or nil.
func (g *RuleGroup) DefaultRule() *Rule {
	for i := range g.Rules {
		if g.Rules[i].IsDefault() {
			return &g.Rules[i]
		}
	}
	return nil
}

// ScanConfig holds the [scan] table of the project config.
type ScanConfig struct {
	// Excludes are directory and file names skipped during traversal
	Excludes []string `koanf:"excludes"`

	// FollowSymlinks lets the scanner descend into symlinked directories
	FollowSymlinks bool `koanf:"follow_symlinks"`
}

// OutputConfig holds the [output] table of the project config.
type OutputConfig struct {
	// Path is the artifact location, relative to the project root
	Path string `koanf:"path"`
}

// GlobalConfig is the immutable product of Load. It is shared read-only
// across workers; nothing mutates it after construction.
type GlobalConfig struct {
	// Root is the absolute project root all relative paths resolve against
	Root string

	// DefaultSettings is the built-in defaults with [global] config and
	// ONEFILE_* environment values applied
	DefaultSettings types.Settings

	// PerExtension maps a normalized extension to its partial settings
	PerExtension map[string]types.Overrides

	// Groups sorted by priority descending, load order breaking ties
	Groups []RuleGroup

	// Scan and Output configure the collaborators around the engine
	Scan   ScanConfig
	Output OutputConfig

	// PresetPaths lists the preset documents that were loaded, in order
	PresetPaths []string
}

// Group returns the named group, or nil.
func (c *GlobalConfig) Group(name string) *RuleGroup {
	for i := range c.Groups {
		if c.Groups[i].Name == name {
			return &c.Groups[i]
		}
	}
	return nil
}
