// Package actions implements the content-transform pipeline. Each action
// is a pure content -> content function; "custom" dispatches to a named
// processor from the registry. Actions run in the order the resolved
// settings list them, and max_lines truncation runs last, independent of
// the action list.
package actions

import (
	"context"
	"fmt"
	"strings"

	"github.com/arthur-debert/onefile/pkg/errors"
	"github.com/arthur-debert/onefile/pkg/logging"
	"github.com/arthur-debert/onefile/pkg/registry"
	"github.com/arthur-debert/onefile/pkg/types"
)

var log = logging.GetLogger("actions")

// Built-in action names. The set is closed: anything else in an actions
// list is rejected at configuration load time.
const (
	ActionMinify             = "minify"
	ActionStripTags          = "strip_tags"
	ActionStripComments      = "strip_comments"
	ActionCompressWhitespace = "compress_whitespace"
	ActionRemoveEmptyLines   = "remove_empty_lines"
	ActionJoinParagraphs     = "join_paragraphs"
	ActionCustom             = "custom"
)

// TruncationMarker is appended when content is cut by max_lines or by the
// truncate processor.
const TruncationMarker = "[... truncated]"

// ActionFunc transforms content for one file under its resolved settings
type ActionFunc func(ctx context.Context, content string, file types.FileEntry, settings *types.Settings) (string, error)

var builtins = map[string]ActionFunc{
	ActionMinify:             minifyAction,
	ActionStripTags:          stripTagsAction,
	ActionStripComments:      stripCommentsAction,
	ActionCompressWhitespace: compressWhitespaceAction,
	ActionRemoveEmptyLines:   removeEmptyLinesAction,
	ActionJoinParagraphs:     joinParagraphsAction,
	ActionCustom:             customAction,
}

// IsBuiltinAction reports whether name is one of the built-in actions
func IsBuiltinAction(name string) bool {
	_, ok := builtins[name]
	return ok
}

// BuiltinActions returns the built-in action names in pipeline-relevant
// documentation order.
func BuiltinActions() []string {
	return []string{
		ActionMinify,
		ActionStripTags,
		ActionStripComments,
		ActionCompressWhitespace,
		ActionRemoveEmptyLines,
		ActionJoinParagraphs,
		ActionCustom,
	}
}

// Apply runs the file's action pipeline. The scraped-metadata strip runs
// before the action list, max_lines truncation after it. A failing action
// fails only this file; the error carries the action name and file path.
func Apply(ctx context.Context, content string, file types.FileEntry, settings *types.Settings) (string, error) {
	if settings.RemoveScrapedMetadata {
		content = stripScrapedMetadata(content)
	}

	for _, name := range settings.Actions {
		if err := ctx.Err(); err != nil {
			return "", errors.Wrap(err, errors.ErrActionExecute, "pipeline canceled").
				WithDetail("file", file.Path)
		}

		fn, ok := builtins[name]
		if !ok {
			// Load-time validation keeps this unreachable for loaded
			// configuration; it guards programmatic Settings values.
			return "", errors.Newf(errors.ErrActionInvalid, "unknown action %q", name).
				WithDetail("file", file.Path)
		}

		transformed, err := fn(ctx, content, file, settings)
		if err != nil {
			return "", err
		}
		log.Trace().Str("file", file.Path).Str("action", name).
			Int("before", len(content)).Int("after", len(transformed)).
			Msg("action applied")
		content = transformed
	}

	if settings.MaxLines > 0 {
		content = truncateLines(content, settings.MaxLines, TruncationMarker)
	}

	return content, nil
}

// customAction dispatches to the processor named by the resolved settings.
// Lookup is lazy: a bad name surfaces here, per file, not at resolution.
func customAction(ctx context.Context, content string, file types.FileEntry, settings *types.Settings) (string, error) {
	name := settings.CustomProcessor
	if name == "" {
		return "", errors.New(errors.ErrUnknownProcessor, "custom action requires a custom_processor name").
			WithDetail("file", file.Path)
	}

	fn, err := registry.GetProcessor(name)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrUnknownProcessor, "custom processor %q is not registered", name).
			WithDetail("file", file.Path).
			WithDetail("processor", name)
	}

	return runProcessor(ctx, fn, name, content, file, settings.ProcessorArgs)
}

// runProcessor executes a processor with panic recovery so one file's
// failure cannot take down the run.
func runProcessor(ctx context.Context, fn types.ProcessorFunc, name, content string, file types.FileEntry, args map[string]interface{}) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf(errors.ErrProcessorExecution, "processor %q panicked: %v", name, r).
				WithDetail("file", file.Path).
				WithDetail("processor", name)
		}
	}()

	out, perr := fn(ctx, content, file, args)
	if perr != nil {
		return "", errors.Wrapf(perr, errors.ErrProcessorExecution, "processor %q failed", name).
			WithDetail("file", file.Path).
			WithDetail("processor", name)
	}
	return out, nil
}

// truncateLines cuts content to at most max lines and appends the marker
// when anything was cut.
func truncateLines(content string, max int, marker string) string {
	if max <= 0 {
		return content
	}
	lines := strings.Split(content, "\n")
	if len(lines) <= max {
		return content
	}
	out := strings.Join(lines[:max], "\n")
	if marker != "" {
		out += "\n" + marker
	}
	return out
}

// stripScrapedMetadata removes a leading scraper artifact: either an HTML
// comment block or a YAML front-matter block at the very top of the file.
func stripScrapedMetadata(content string) string {
	trimmed := strings.TrimLeft(content, "\n\r \t")

	if strings.HasPrefix(trimmed, "<!--") {
		if end := strings.Index(trimmed, "-->"); end >= 0 {
			return strings.TrimLeft(trimmed[end+len("-->"):], "\n\r")
		}
	}

	if strings.HasPrefix(trimmed, "---\n") {
		lines := strings.Split(trimmed, "\n")
		for i := 1; i < len(lines); i++ {
			if strings.TrimSpace(lines[i]) == "---" {
				return strings.TrimLeft(strings.Join(lines[i+1:], "\n"), "\n\r")
			}
		}
	}

	return content
}

func argString(args map[string]interface{}, key, fallback string) string {
	if args == nil {
		return fallback
	}
	if v, ok := args[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
		return fmt.Sprintf("%v", v)
	}
	return fallback
}

func argInt(args map[string]interface{}, key string, fallback int) int {
	if args == nil {
		return fallback
	}
	switch v := args[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case uint64:
		return int(v)
	}
	return fallback
}

func argBool(args map[string]interface{}, key string, fallback bool) bool {
	if args == nil {
		return fallback
	}
	if v, ok := args[key].(bool); ok {
		return v
	}
	return fallback
}

func argStringSlice(args map[string]interface{}, key string) []string {
	if args == nil {
		return nil
	}
	switch v := args[key].(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
