// Package bundle implements the main operation: load configuration,
// scan the tree, resolve settings per file, transform content through
// the action pipeline, and assemble the output artifact.
package bundle

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/arthur-debert/onefile/pkg/actions"
	"github.com/arthur-debert/onefile/pkg/config"
	"github.com/arthur-debert/onefile/pkg/errors"
	"github.com/arthur-debert/onefile/pkg/logging"
	"github.com/arthur-debert/onefile/pkg/paths"
	"github.com/arthur-debert/onefile/pkg/resolver"
	"github.com/arthur-debert/onefile/pkg/scanner"
	"github.com/arthur-debert/onefile/pkg/security"
	"github.com/arthur-debert/onefile/pkg/types"
	"github.com/arthur-debert/onefile/pkg/writer"
)

// Options holds the bundle command inputs.
type Options struct {
	// Root is the project root; empty means discover from the cwd
	Root string

	// ConfigPath names the project config explicitly
	ConfigPath string

	// PresetPaths are preset documents given on the command line
	PresetPaths []string

	// OutputPath overrides the configured artifact path
	OutputPath string

	// Out redirects the artifact to a stream instead of a file
	Out io.Writer

	// Excludes are extra scan excludes, added to the configured ones
	Excludes []string

	// CLIOverrides carries the explicitly-set per-file settings flags
	CLIOverrides *types.Overrides

	// Workers caps concurrent file processing; 0 means NumCPU
	Workers int

	// Strict aborts the whole run on the first per-file failure instead
	// of skipping the file
	Strict bool

	// DryRun resolves and transforms but writes nothing
	DryRun bool

	// Checker overrides the secret checker; nil selects gitleaks
	Checker security.Checker
}

// Result is the bundle outcome for display.
type Result struct {
	// Root is the resolved project root
	Root string

	// OutputPath is the artifact location, empty on dry runs and
	// stream output
	OutputPath string

	// Files holds one entry per scanned file, in path order
	Files []types.FileResult

	// Stats summarizes the run
	Stats types.BundleStats
}

// Bundle runs the whole pipeline. Per-file failures are recorded in the
// result and skipped unless Strict is set; configuration errors always
// fail the run before any file is touched.
func Bundle(ctx context.Context, opts Options) (*Result, error) {
	logger := logging.GetLogger("commands.bundle")
	start := time.Now()

	root := opts.Root
	if root == "" {
		discovered, err := paths.FindProjectRoot(".")
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrFileAccess, "cannot discover project root")
		}
		root = discovered
	}

	overlay := map[string]interface{}{}
	if opts.OutputPath != "" {
		overlay["output.path"] = opts.OutputPath
	}
	cfg, err := config.Load(config.LoadOptions{
		Root:        root,
		ConfigPath:  opts.ConfigPath,
		PresetPaths: opts.PresetPaths,
		Overlay:     overlay,
	})
	if err != nil {
		return nil, err
	}

	excludes := append(append([]string(nil), cfg.Scan.Excludes...), opts.Excludes...)
	files, err := scanner.Scan(cfg.Root, scanner.Options{
		Excludes:       excludes,
		FollowSymlinks: cfg.Scan.FollowSymlinks,
		OutputPath:     cfg.Output.Path,
	})
	if err != nil {
		return nil, err
	}

	checker := opts.Checker
	if checker == nil {
		checker = security.NewGitleaksChecker()
	}

	res := resolver.New(cfg)
	results := make([]types.FileResult, len(files))

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(workers)

	for i := range files {
		i := i
		group.Go(func() error {
			result := processFile(gctx, files[i], res, checker, opts.CLIOverrides)
			results[i] = result
			if result.Err != nil {
				if opts.Strict {
					return result.Err
				}
				logger.Warn().Str("file", files[i].Path).Err(result.Err).
					Msg("file skipped")
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	result := &Result{Root: cfg.Root, Files: results}
	for _, r := range results {
		result.Stats.FilesScanned++
		switch {
		case r.Err != nil:
			result.Stats.FilesFailed++
		case r.Excluded:
			result.Stats.FilesExcluded++
		default:
			result.Stats.FilesIncluded++
			result.Stats.BytesIn += r.File.SizeBytes
			result.Stats.BytesOut += int64(len(r.Content))
		}
	}

	if !opts.DryRun {
		switch {
		case opts.Out != nil:
			if err := writer.Write(opts.Out, results); err != nil {
				return nil, err
			}
		default:
			outputPath := cfg.Output.Path
			if !filepath.IsAbs(outputPath) {
				outputPath = filepath.Join(cfg.Root, outputPath)
			}
			if !paths.IsInsideRoot(cfg.Root, outputPath) {
				// legal, but the next run cannot self-exclude it
				logger.Warn().Str("path", outputPath).
					Msg("artifact written outside the project root")
			}
			if _, err := writer.WriteFile(outputPath, results); err != nil {
				return nil, err
			}
			result.OutputPath = outputPath
		}
	}

	result.Stats.Duration = time.Since(start)
	logger.Info().
		Int("scanned", result.Stats.FilesScanned).
		Int("included", result.Stats.FilesIncluded).
		Int("excluded", result.Stats.FilesExcluded).
		Int("failed", result.Stats.FilesFailed).
		Dur("duration", result.Stats.Duration).
		Msg("bundle complete")
	return result, nil
}

// processFile runs resolution, settings filtering, the security check
// and the action pipeline for one file. Everything it touches is local
// to the file, so any number of these run in parallel.
func processFile(ctx context.Context, file types.FileEntry, res *resolver.Resolver, checker security.Checker, cli *types.Overrides) types.FileResult {
	settings, _ := res.Resolve(file, cli)
	result := types.FileResult{File: file, Settings: settings}

	if reason := excludeReason(file, settings); reason != "" {
		result.Excluded = true
		result.ExcludeReason = reason
		return result
	}

	raw, err := os.ReadFile(file.AbsolutePath)
	if err != nil {
		result.Err = errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", file.Path)
		return result
	}

	if err := security.Evaluate(ctx, checker, settings.SecurityCheck, file, raw); err != nil {
		result.Err = err
		return result
	}

	content, err := actions.Apply(ctx, string(raw), file, &settings)
	if err != nil {
		result.Err = err
		return result
	}
	result.Content = content
	return result
}

// excludeReason applies the per-file include/exclude settings. The
// scanner lists everything; this is where hidden, binary and oversized
// files drop out under their resolved settings.
func excludeReason(file types.FileEntry, settings types.Settings) string {
	if file.IsHidden && !settings.IncludeHidden {
		return "hidden"
	}
	if file.IsBinary && !settings.IncludeBinary {
		return "binary"
	}
	if settings.MaxFileSize > 0 && file.SizeBytes > settings.MaxFileSize {
		return "over max_file_size"
	}
	return ""
}
