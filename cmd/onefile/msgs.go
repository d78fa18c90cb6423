package onefile

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Bundle a project tree into a single file"
	MsgBundleShort     = "Scan, transform and bundle the project into one artifact"
	MsgExplainShort    = "Show how a path's settings were resolved"
	MsgPresetsShort    = "List the loaded rule groups in resolution order"
	MsgGenConfigShort  = "Print or write a starter configuration"
	MsgTopicsShort     = "Display available documentation topics"
	MsgTopicsLong      = "Display a list of all available help topics that provide additional documentation beyond command help."
	MsgCompletionShort = "Generate shell completion script"

	// Status messages
	MsgDryRunNotice   = "\nDRY RUN MODE - No artifact was written"
	MsgWroteArtifact  = "Wrote %s\n"
	MsgBundleSummary  = "%s scanned, %s bundled, %s excluded, %s failed in %s\n"
	MsgNoGroups       = "No rule groups loaded. Built-in defaults apply to every file."
	MsgGroupInert     = " (inert: %s missing)"
	MsgGroupDisabled  = " (disabled)"
	MsgDefaultRuleTag = " [default]"
	MsgConfigPrinted  = "# Pipe to a file or pass --write to create it.\n"

	// Flag descriptions
	MsgFlagVerbose   = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun    = "Resolve and transform but write nothing"
	MsgFlagStrict    = "Abort the run on the first file failure"
	MsgFlagRoot      = "Project root (default: discovered from the working directory)"
	MsgFlagConfig    = "Project config file (default: .onefile.toml in the root)"
	MsgFlagPresets   = "Preset documents to load, in order"
	MsgFlagOutput    = "Artifact path (overrides the configured output.path)"
	MsgFlagStdout    = "Write the artifact to stdout instead of a file"
	MsgFlagExclude   = "Extra scan excludes, added to the configured ones"
	MsgFlagWorkers   = "Concurrent file workers (0 = number of CPUs)"
	MsgFlagGenFormat = "Starter format: toml or preset"
	MsgFlagGenWrite  = "Write the file instead of printing it"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/bundle-long.txt
	msgBundleLongRaw string
	MsgBundleLong    = strings.TrimSpace(msgBundleLongRaw)

	//go:embed msgs/bundle-example.txt
	msgBundleExampleRaw string
	MsgBundleExample    = strings.TrimSpace(msgBundleExampleRaw)

	//go:embed msgs/explain-long.txt
	msgExplainLongRaw string
	MsgExplainLong    = strings.TrimSpace(msgExplainLongRaw)

	//go:embed msgs/explain-example.txt
	msgExplainExampleRaw string
	MsgExplainExample    = strings.TrimSpace(msgExplainExampleRaw)

	//go:embed msgs/genconfig-long.txt
	msgGenConfigLongRaw string
	MsgGenConfigLong    = strings.TrimSpace(msgGenConfigLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)
)
