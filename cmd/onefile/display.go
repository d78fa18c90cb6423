package onefile

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/onefile/pkg/commands/bundle"
	"github.com/arthur-debert/onefile/pkg/commands/explain"
	"github.com/arthur-debert/onefile/pkg/commands/presets"
	"github.com/arthur-debert/onefile/pkg/ui/styles"
)

// renderBundleResult prints the per-file outcomes and the run summary.
func renderBundleResult(w io.Writer, result *bundle.Result, verbose bool) {
	for _, f := range result.Files {
		switch {
		case f.Err != nil:
			fmt.Fprintf(w, "%s %s: %v\n",
				styles.Get("Error").Render("✗"),
				styles.Get("FilePath").Render(f.File.Path), f.Err)
		case f.Excluded:
			if verbose {
				fmt.Fprintf(w, "%s %s %s\n",
					styles.Get("Muted").Render("-"),
					styles.Get("FilePath").Render(f.File.Path),
					styles.Get("ExcludeReason").Render("("+f.ExcludeReason+")"))
			}
		default:
			if verbose {
				fmt.Fprintf(w, "%s %s\n",
					styles.Get("Success").Render("✓"),
					styles.Get("FilePath").Render(f.File.Path))
			}
		}
	}

	count := styles.Get("Count")
	fmt.Fprintf(w, MsgBundleSummary,
		count.Render(fmt.Sprintf("%d files", result.Stats.FilesScanned)),
		count.Render(fmt.Sprintf("%d", result.Stats.FilesIncluded)),
		count.Render(fmt.Sprintf("%d", result.Stats.FilesExcluded)),
		count.Render(fmt.Sprintf("%d", result.Stats.FilesFailed)),
		result.Stats.Duration.Round(time.Millisecond))
	if result.OutputPath != "" {
		fmt.Fprintf(w, MsgWroteArtifact, styles.Get("FilePath").Render(result.OutputPath))
	}
}

// renderExplainResult prints the resolution trace followed by the
// effective settings.
func renderExplainResult(w io.Writer, result *explain.Result) error {
	fmt.Fprintln(w, styles.Get("Header").Render(result.File.Path))

	for _, layer := range result.Trace.Layers {
		line := styles.Get("Layer").Render(layer.Layer)
		if layer.Detail != "" {
			line += " " + styles.Get("Muted").Render(layer.Detail)
		}
		fmt.Fprintf(w, "  %s\n", line)
		for _, field := range layer.Fields {
			fmt.Fprintf(w, "    set %s\n", field)
		}
	}

	if result.Trace.MatchedRule != "" {
		label := "matched"
		if result.Trace.UsedDefaultRule {
			label = "fallback"
		}
		fmt.Fprintf(w, "\n%s: %s / %s\n", label,
			styles.Get("GroupName").Render(result.Trace.MatchedGroup),
			styles.Get("RuleName").Render(result.Trace.MatchedRule))
	}

	fmt.Fprintln(w, "\n"+styles.Get("Header").Render("Effective settings"))
	encoded, err := yaml.Marshal(result.Settings)
	if err != nil {
		return err
	}
	_, err = w.Write(encoded)
	return err
}

// renderPresetsResult prints the loaded groups in resolution order.
func renderPresetsResult(w io.Writer, result *presets.Result) {
	if len(result.Groups) == 0 {
		fmt.Fprintln(w, MsgNoGroups)
		return
	}

	for _, group := range result.Groups {
		header := fmt.Sprintf("%s (priority %d)",
			styles.Get("GroupName").Render(group.Name), group.Priority)
		if !group.Enabled {
			header += styles.Get("Muted").Render(MsgGroupDisabled)
		} else if !group.Active {
			header += styles.Get("Muted").Render(fmt.Sprintf(MsgGroupInert, group.RequiresPath))
		}
		fmt.Fprintln(w, header)
		if group.Description != "" {
			fmt.Fprintf(w, "  %s\n", styles.Get("Muted").Render(group.Description))
		}
		for _, rule := range group.Rules {
			name := styles.Get("RuleName").Render(rule.Name)
			if rule.IsDefault {
				name += styles.Get("Muted").Render(MsgDefaultRuleTag)
			}
			fmt.Fprintf(w, "  %s", name)
			if len(rule.Extensions) > 0 {
				fmt.Fprintf(w, "  extensions=%v", rule.Extensions)
			}
			if len(rule.Patterns) > 0 {
				fmt.Fprintf(w, "  patterns=%v", rule.Patterns)
			}
			if len(rule.Actions) > 0 {
				fmt.Fprintf(w, "  actions=%v", rule.Actions)
			}
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w)
	}
}
