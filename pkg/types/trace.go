package types

// Layer names used in resolution traces, in precedence order.
const (
	LayerBuiltin        = "builtin"
	LayerGlobalDefaults = "global_defaults"
	LayerExtension      = "extension"
	LayerRule           = "rule"
	LayerDefaultRule    = "default_rule"
	LayerCLI            = "cli"
)

// TraceLayer records one layer's contribution during settings resolution
type TraceLayer struct {
	// Layer is the layer name: builtin, global_defaults, extension,
	// rule, default_rule or cli
	Layer string `yaml:"layer"`

	// Detail identifies the source within the layer, e.g. "group=docs rule=1"
	Detail string `yaml:"detail,omitempty"`

	// Fields lists the configuration names this layer changed
	Fields []string `yaml:"fields,omitempty"`
}

// ResolutionTrace explains how a file's effective settings were produced.
// It is built during resolution itself, not by a second pass, so what it
// reports is exactly what happened.
type ResolutionTrace struct {
	// Path is the root-relative path the trace describes
	Path string `yaml:"path"`

	// Layers lists every layer that contributed, in application order
	Layers []TraceLayer `yaml:"layers"`

	// MatchedGroup is the rule group that won the linear walk, if any
	MatchedGroup string `yaml:"matched_group,omitempty"`

	// MatchedRule is the winning rule's name, empty when no rule matched
	MatchedRule string `yaml:"matched_rule,omitempty"`

	// UsedDefaultRule is true when the fallback default rule applied
	UsedDefaultRule bool `yaml:"used_default_rule"`

	// CandidatesTried counts the (group, rule) pairs tested before the
	// walk stopped
	CandidatesTried int `yaml:"candidates_tried"`
}
