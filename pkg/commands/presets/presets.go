// Package presets lists the loaded rule groups in resolution order, so
// users can see which presets are live and why a group is inert.
package presets

import (
	"github.com/arthur-debert/onefile/pkg/config"
	"github.com/arthur-debert/onefile/pkg/logging"
	"github.com/arthur-debert/onefile/pkg/paths"
)

// Options holds the presets command inputs.
type Options struct {
	Root        string
	ConfigPath  string
	PresetPaths []string
}

// RuleInfo summarizes one rule for display.
type RuleInfo struct {
	Name       string
	Extensions []string
	Patterns   []string
	Actions    []string
	IsDefault  bool
}

// GroupInfo summarizes one rule group for display.
type GroupInfo struct {
	Name         string
	Description  string
	Priority     int
	Enabled      bool
	Active       bool
	BasePath     string
	RequiresPath string
	Rules        []RuleInfo
}

// Result lists groups in resolution order plus the documents they came
// from.
type Result struct {
	Groups      []GroupInfo
	PresetPaths []string
}

// List loads the configuration and reports its groups.
func List(opts Options) (*Result, error) {
	logger := logging.GetLogger("commands.presets")

	root := opts.Root
	if root == "" {
		discovered, err := paths.FindProjectRoot(".")
		if err != nil {
			return nil, err
		}
		root = discovered
	}

	cfg, err := config.Load(config.LoadOptions{
		Root:        root,
		ConfigPath:  opts.ConfigPath,
		PresetPaths: opts.PresetPaths,
	})
	if err != nil {
		return nil, err
	}

	result := &Result{PresetPaths: cfg.PresetPaths}
	for i := range cfg.Groups {
		g := &cfg.Groups[i]
		info := GroupInfo{
			Name:         g.Name,
			Description:  g.Description,
			Priority:     g.Priority,
			Enabled:      g.Enabled,
			Active:       g.Active,
			BasePath:     g.BasePath,
			RequiresPath: g.RequiresPath,
		}
		for j := range g.Rules {
			r := &g.Rules[j]
			info.Rules = append(info.Rules, RuleInfo{
				Name:       r.Name,
				Extensions: r.Extensions,
				Patterns:   r.Patterns,
				Actions:    r.Overrides.Actions,
				IsDefault:  r.IsDefault(),
			})
		}
		result.Groups = append(result.Groups, info)
	}

	logger.Debug().Int("groups", len(result.Groups)).Msg("presets listed")
	return result, nil
}
