package onefile

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/onefile/internal/version"
	"github.com/arthur-debert/onefile/pkg/cobrax/topics"
	"github.com/arthur-debert/onefile/pkg/commands/bundle"
	"github.com/arthur-debert/onefile/pkg/commands/explain"
	"github.com/arthur-debert/onefile/pkg/commands/genconfig"
	"github.com/arthur-debert/onefile/pkg/commands/presets"
	"github.com/arthur-debert/onefile/pkg/logging"
	"github.com/arthur-debert/onefile/pkg/paths"
	"github.com/arthur-debert/onefile/pkg/types"
)

//go:embed docs/*.md
var helpDocs embed.FS

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	var verbosity int

	rootCmd := &cobra.Command{
		Use:     "onefile",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand: show help and signal incorrect usage
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", MsgFlagVerbose)

	// Disable automatic help command (replaced by the topics help)
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})

	rootCmd.AddCommand(newBundleCmd())
	rootCmd.AddCommand(newExplainCmd())
	rootCmd.AddCommand(newPresetsCmd())
	rootCmd.AddCommand(newGenConfigCmd())
	rootCmd.AddCommand(newTopicsCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newVersionCmd())

	docs, err := fs.Sub(helpDocs, "docs")
	if err == nil {
		_ = topics.Install(rootCmd, docs, topics.Options{
			Renderer: topics.NewGlamourRenderer(),
		})
	}

	return rootCmd
}

// configFlags are shared by every command that loads configuration.
type configFlags struct {
	root        string
	configPath  string
	presetPaths []string
}

func (f *configFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.root, "root", "", MsgFlagRoot)
	cmd.Flags().StringVar(&f.configPath, "config", "", MsgFlagConfig)
	cmd.Flags().StringSliceVar(&f.presetPaths, "presets", nil, MsgFlagPresets)
}

// resolvedPresetPaths prepends the user preset file, when one exists,
// so command-line documents layer over it.
func (f *configFlags) resolvedPresetPaths() []string {
	var out []string
	if user := paths.UserPresetPath(); user != "" {
		out = append(out, user)
	}
	return append(out, f.presetPaths...)
}

// registerSettingsFlags adds one flag per per-file setting. Only flags
// the user actually set become overrides, so "--include-hidden=false"
// still beats a preset that turned it on.
func registerSettingsFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.String("security-check", "", "Secret scan mode: error, warn or skip")
	flags.Int64("max-file-size", 0, "Exclude files larger than this many bytes (0 = off)")
	flags.Bool("include-hidden", false, "Include dot-files and dot-directories")
	flags.Bool("include-binary", false, "Include files sniffed as binary")
	flags.Bool("remove-scraped-metadata", false, "Strip leading scraper metadata blocks")
	flags.String("line-ending", "", "Output newlines: lf or crlf")
	flags.String("separator-style", "", "File separator: standard, detailed, markdown, machine or none")
	flags.Bool("include-metadata", false, "Include size/mtime in separators that support it")
	flags.Int("max-lines", 0, "Truncate each file to this many lines (0 = off)")
	flags.StringSlice("actions", nil, "Content actions to run, in order")
	flags.String("custom-processor", "", "Processor name for the custom action")
	flags.StringSlice("strip-tags", nil, "Tags removed by the strip_tags action")
	flags.StringSlice("preserve-tags", nil, "Tags the strip_tags action must keep")
}

// overridesFromFlags builds the CLI override record from the flags the
// user explicitly set.
func overridesFromFlags(cmd *cobra.Command) (*types.Overrides, error) {
	flags := cmd.Flags()
	o := &types.Overrides{}

	if flags.Changed("security-check") {
		raw, _ := flags.GetString("security-check")
		mode, err := types.ParseSecurityMode(raw)
		if err != nil {
			return nil, err
		}
		o.SecurityCheck = &mode
	}
	if flags.Changed("max-file-size") {
		v, _ := flags.GetInt64("max-file-size")
		o.MaxFileSize = &v
	}
	if flags.Changed("include-hidden") {
		v, _ := flags.GetBool("include-hidden")
		o.IncludeHidden = &v
	}
	if flags.Changed("include-binary") {
		v, _ := flags.GetBool("include-binary")
		o.IncludeBinary = &v
	}
	if flags.Changed("remove-scraped-metadata") {
		v, _ := flags.GetBool("remove-scraped-metadata")
		o.RemoveScrapedMetadata = &v
	}
	if flags.Changed("line-ending") {
		raw, _ := flags.GetString("line-ending")
		ending, err := types.ParseLineEnding(raw)
		if err != nil {
			return nil, err
		}
		o.LineEnding = &ending
	}
	if flags.Changed("separator-style") {
		raw, _ := flags.GetString("separator-style")
		style, err := types.ParseSeparatorStyle(raw)
		if err != nil {
			return nil, err
		}
		o.SeparatorStyle = &style
	}
	if flags.Changed("include-metadata") {
		v, _ := flags.GetBool("include-metadata")
		o.IncludeMetadata = &v
	}
	if flags.Changed("max-lines") {
		v, _ := flags.GetInt("max-lines")
		o.MaxLines = &v
	}
	if flags.Changed("actions") {
		v, _ := flags.GetStringSlice("actions")
		o.Actions = v
	}
	if flags.Changed("custom-processor") {
		v, _ := flags.GetString("custom-processor")
		o.CustomProcessor = &v
	}
	if flags.Changed("strip-tags") {
		v, _ := flags.GetStringSlice("strip-tags")
		o.StripTags = v
	}
	if flags.Changed("preserve-tags") {
		v, _ := flags.GetStringSlice("preserve-tags")
		o.PreserveTags = v
	}

	if o.IsZero() {
		return nil, nil
	}
	return o, nil
}

func newBundleCmd() *cobra.Command {
	var cfgFlags configFlags
	var (
		outputPath string
		stdout     bool
		excludes   []string
		workers    int
		strict     bool
		dryRun     bool
	)

	cmd := &cobra.Command{
		Use:     "bundle",
		Short:   MsgBundleShort,
		Long:    MsgBundleLong,
		Example: MsgBundleExample,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides, err := overridesFromFlags(cmd)
			if err != nil {
				return err
			}

			opts := bundle.Options{
				Root:         cfgFlags.root,
				ConfigPath:   cfgFlags.configPath,
				PresetPaths:  cfgFlags.resolvedPresetPaths(),
				OutputPath:   outputPath,
				Excludes:     excludes,
				CLIOverrides: overrides,
				Workers:      workers,
				Strict:       strict,
				DryRun:       dryRun,
			}
			status := cmd.OutOrStdout()
			if stdout {
				opts.Out = cmd.OutOrStdout()
				status = cmd.ErrOrStderr()
			}

			result, err := bundle.Bundle(cmd.Context(), opts)
			if err != nil {
				return err
			}

			verbose, _ := cmd.Root().PersistentFlags().GetCount("verbose")
			renderBundleResult(status, result, verbose > 0)
			if dryRun {
				fmt.Fprintln(status, MsgDryRunNotice)
			}
			return nil
		},
	}

	cfgFlags.register(cmd)
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", MsgFlagOutput)
	cmd.Flags().BoolVar(&stdout, "stdout", false, MsgFlagStdout)
	cmd.Flags().StringSliceVar(&excludes, "exclude", nil, MsgFlagExclude)
	cmd.Flags().IntVar(&workers, "workers", 0, MsgFlagWorkers)
	cmd.Flags().BoolVar(&strict, "strict", false, MsgFlagStrict)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, MsgFlagDryRun)
	registerSettingsFlags(cmd)

	return cmd
}

func newExplainCmd() *cobra.Command {
	var cfgFlags configFlags

	cmd := &cobra.Command{
		Use:     "explain <path>",
		Short:   MsgExplainShort,
		Long:    MsgExplainLong,
		Example: MsgExplainExample,
		Args:    cobra.ExactArgs(1),
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides, err := overridesFromFlags(cmd)
			if err != nil {
				return err
			}

			result, err := explain.Explain(explain.Options{
				Root:         cfgFlags.root,
				ConfigPath:   cfgFlags.configPath,
				PresetPaths:  cfgFlags.resolvedPresetPaths(),
				Path:         args[0],
				CLIOverrides: overrides,
			})
			if err != nil {
				return err
			}
			return renderExplainResult(cmd.OutOrStdout(), result)
		},
	}

	cfgFlags.register(cmd)
	registerSettingsFlags(cmd)

	return cmd
}

func newPresetsCmd() *cobra.Command {
	var cfgFlags configFlags

	cmd := &cobra.Command{
		Use:     "presets",
		Short:   MsgPresetsShort,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := presets.List(presets.Options{
				Root:        cfgFlags.root,
				ConfigPath:  cfgFlags.configPath,
				PresetPaths: cfgFlags.resolvedPresetPaths(),
			})
			if err != nil {
				return err
			}
			renderPresetsResult(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cfgFlags.register(cmd)

	return cmd
}

func newGenConfigCmd() *cobra.Command {
	var (
		root   string
		format string
		write  bool
	)

	cmd := &cobra.Command{
		Use:     "gen-config",
		Short:   MsgGenConfigShort,
		Long:    MsgGenConfigLong,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := genconfig.Generate(genconfig.Options{
				Root:   root,
				Format: format,
				Write:  write,
			})
			if err != nil {
				return err
			}
			if result.Written {
				fmt.Fprintf(cmd.OutOrStdout(), MsgWroteArtifact, result.Path)
				return nil
			}
			_, err = io.WriteString(cmd.OutOrStdout(), result.Content)
			return err
		},
	}

	cmd.Flags().StringVar(&root, "root", "", MsgFlagRoot)
	cmd.Flags().StringVar(&format, "format", genconfig.FormatTOML, MsgFlagGenFormat)
	cmd.Flags().BoolVar(&write, "write", false, MsgFlagGenWrite)

	return cmd
}

func newTopicsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "topics [topic]",
		Short:   MsgTopicsShort,
		Long:    MsgTopicsLong,
		Args:    cobra.MaximumNArgs(1),
		GroupID: "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			helpArgs := []string{"topics"}
			if len(args) == 1 {
				helpArgs = args
			}
			if helpCmd, _, err := cmd.Root().Find([]string{"help"}); err == nil {
				if helpCmd.RunE != nil {
					return helpCmd.RunE(helpCmd, helpArgs)
				} else if helpCmd.Run != nil {
					helpCmd.Run(helpCmd, helpArgs)
					return nil
				}
			}
			return fmt.Errorf("help command not found")
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		GroupID:               "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   "Print version information",
		GroupID: "misc",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "onefile version %s\n", version.Version)
			fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n", version.Commit)
			fmt.Fprintf(cmd.OutOrStdout(), "  built:  %s\n", version.Date)
		},
	}
}
