// Package resolver computes the effective Settings record for one file.
//
// Resolution applies the precedence chain bottom-up: built-in defaults,
// global defaults, the per-extension record, the first matching rule of
// the flattened (group, rule) walk, the fallback default rule when
// nothing matched, and command-line overrides last. The walk is a single
// linear pass over a priority-sorted candidate list; nothing after the
// first match is consulted.
//
// A Resolver is read-only after New and safe to share across workers.
package resolver

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/onefile/pkg/config"
	"github.com/arthur-debert/onefile/pkg/logging"
	"github.com/arthur-debert/onefile/pkg/types"
)

// candidate is one (group, rule) pair in walk order.
type candidate struct {
	group *config.RuleGroup
	rule  *config.Rule
}

// CandidateInfo describes one walk position for diagnostics.
type CandidateInfo struct {
	Group    string
	Rule     string
	Priority int
}

// Resolver holds the flattened walk order for one loaded configuration.
type Resolver struct {
	cfg        *config.GlobalConfig
	candidates []candidate
	fallback   *candidate
	logger     zerolog.Logger
}

// New flattens the configuration's groups into the walk order: groups by
// descending priority, rules in document order, rules named "default"
// excluded. The fallback is the default rule of the single strongest
// eligible group; if that group has none there is no fallback.
func New(cfg *config.GlobalConfig) *Resolver {
	r := &Resolver{
		cfg:    cfg,
		logger: logging.GetLogger("resolver"),
	}
	seenEligible := false
	for i := range cfg.Groups {
		group := &cfg.Groups[i]
		if !group.Eligible() {
			continue
		}
		if !seenEligible {
			seenEligible = true
			if d := group.DefaultRule(); d != nil {
				r.fallback = &candidate{group: group, rule: d}
			}
		}
		for j := range group.Rules {
			rule := &group.Rules[j]
			if rule.IsDefault() {
				continue
			}
			r.candidates = append(r.candidates, candidate{group: group, rule: rule})
		}
	}
	r.logger.Debug().
		Int("candidates", len(r.candidates)).
		Bool("hasFallback", r.fallback != nil).
		Msg("walk order built")
	return r
}

// Candidates returns the walk order for display.
func (r *Resolver) Candidates() []CandidateInfo {
	out := make([]CandidateInfo, len(r.candidates))
	for i, c := range r.candidates {
		out[i] = CandidateInfo{
			Group:    c.group.Name,
			Rule:     c.rule.Name,
			Priority: c.group.Priority,
		}
	}
	return out
}

// Resolve computes the effective settings for file. The trace records
// every layer that contributed as resolution runs, so diagnostics never
// need a second pass. Resolution is total: the returned Settings always
// has every field populated.
func (r *Resolver) Resolve(file types.FileEntry, cli *types.Overrides) (types.Settings, *types.ResolutionTrace) {
	trace := &types.ResolutionTrace{Path: file.Path}
	trace.Layers = append(trace.Layers, types.TraceLayer{Layer: types.LayerBuiltin})

	settings := r.cfg.DefaultSettings.Clone()
	if fields := types.DiffSettings(types.DefaultSettings(), settings); len(fields) > 0 {
		trace.Layers = append(trace.Layers, types.TraceLayer{
			Layer:  types.LayerGlobalDefaults,
			Fields: fields,
		})
	}

	if file.Extension != "" {
		if record, ok := r.cfg.PerExtension[file.Extension]; ok {
			if fields := record.Apply(&settings); len(fields) > 0 {
				trace.Layers = append(trace.Layers, types.TraceLayer{
					Layer:  types.LayerExtension,
					Detail: file.Extension,
					Fields: fields,
				})
			}
		}
	}

	matched := false
	for i := range r.candidates {
		c := &r.candidates[i]
		trace.CandidatesTried++
		if !c.rule.Matches(file) {
			continue
		}
		fields := c.rule.Overrides.Apply(&settings)
		trace.MatchedGroup = c.group.Name
		trace.MatchedRule = c.rule.Name
		trace.Layers = append(trace.Layers, types.TraceLayer{
			Layer:  types.LayerRule,
			Detail: fmt.Sprintf("group=%s rule=%s", c.group.Name, c.rule.Name),
			Fields: fields,
		})
		matched = true
		break // first match wins
	}

	if !matched && r.fallback != nil {
		fields := r.fallback.rule.Overrides.Apply(&settings)
		trace.MatchedGroup = r.fallback.group.Name
		trace.MatchedRule = r.fallback.rule.Name
		trace.UsedDefaultRule = true
		trace.Layers = append(trace.Layers, types.TraceLayer{
			Layer:  types.LayerDefaultRule,
			Detail: fmt.Sprintf("group=%s", r.fallback.group.Name),
			Fields: fields,
		})
	}

	if cli != nil {
		if fields := cli.Apply(&settings); len(fields) > 0 {
			trace.Layers = append(trace.Layers, types.TraceLayer{
				Layer:  types.LayerCLI,
				Fields: fields,
			})
		}
	}

	r.logger.Debug().
		Str("file", file.Path).
		Str("group", trace.MatchedGroup).
		Str("rule", trace.MatchedRule).
		Bool("defaultRule", trace.UsedDefaultRule).
		Int("tried", trace.CandidatesTried).
		Msg("settings resolved")

	return settings, trace
}
