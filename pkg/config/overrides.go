package config

import (
	"strings"

	"github.com/arthur-debert/onefile/pkg/actions"
	"github.com/arthur-debert/onefile/pkg/errors"
	"github.com/arthur-debert/onefile/pkg/types"
)

// applyOverrideKey sets one settings key on an Overrides record. It is
// the single entry point for settings keys everywhere they appear: the
// globals block, per-extension records, and rule bodies. Values arrive
// as decoded TOML or YAML, so numeric types vary by source.
func applyOverrideKey(o *types.Overrides, key string, value interface{}) error {
	switch key {
	case "security_check":
		s, err := coerceString(key, value)
		if err != nil {
			return err
		}
		mode, err := types.ParseSecurityMode(s)
		if err != nil {
			return err
		}
		o.SecurityCheck = &mode

	case "max_file_size":
		n, err := coerceInt64(key, value)
		if err != nil {
			return err
		}
		if n < 0 {
			return errors.Newf(errors.ErrConfigValid, "%s must be >= 0, got %d", key, n)
		}
		o.MaxFileSize = &n

	case "include_hidden":
		b, err := coerceBool(key, value)
		if err != nil {
			return err
		}
		o.IncludeHidden = &b

	case "include_binary":
		b, err := coerceBool(key, value)
		if err != nil {
			return err
		}
		o.IncludeBinary = &b

	case "remove_scraped_metadata":
		b, err := coerceBool(key, value)
		if err != nil {
			return err
		}
		o.RemoveScrapedMetadata = &b

	case "line_ending":
		s, err := coerceString(key, value)
		if err != nil {
			return err
		}
		ending, err := types.ParseLineEnding(s)
		if err != nil {
			return err
		}
		o.LineEnding = &ending

	case "separator_style":
		s, err := coerceString(key, value)
		if err != nil {
			return err
		}
		style, err := types.ParseSeparatorStyle(s)
		if err != nil {
			return err
		}
		o.SeparatorStyle = &style

	case "include_metadata":
		b, err := coerceBool(key, value)
		if err != nil {
			return err
		}
		o.IncludeMetadata = &b

	case "max_lines":
		n, err := coerceInt64(key, value)
		if err != nil {
			return err
		}
		if n < 0 {
			return errors.Newf(errors.ErrConfigValid, "%s must be >= 0, got %d", key, n)
		}
		lines := int(n)
		o.MaxLines = &lines

	case "actions":
		names, err := coerceStringSlice(key, value)
		if err != nil {
			return err
		}
		for _, name := range names {
			if !actions.IsBuiltinAction(name) {
				return errors.Newf(errors.ErrConfigValid,
					"unknown action %q (built-in actions: %s)",
					name, strings.Join(actions.BuiltinActions(), ", "))
			}
		}
		o.Actions = names

	case "custom_processor":
		s, err := coerceString(key, value)
		if err != nil {
			return err
		}
		if err := validateProcessorName(s); err != nil {
			return err
		}
		o.CustomProcessor = &s

	case "processor_args":
		m, ok := value.(map[string]interface{})
		if !ok {
			return errors.Newf(errors.ErrConfigValid, "%s must be a table, got %T", key, value)
		}
		o.ProcessorArgs = m

	case "strip_tags":
		names, err := coerceStringSlice(key, value)
		if err != nil {
			return err
		}
		o.StripTags = names

	case "preserve_tags":
		names, err := coerceStringSlice(key, value)
		if err != nil {
			return err
		}
		o.PreserveTags = names

	default:
		return errors.Newf(errors.ErrConfigValid, "unknown settings key %q", key)
	}
	return nil
}

// applyOverrideMap feeds every entry of a decoded mapping through
// applyOverrideKey.
func applyOverrideMap(o *types.Overrides, m map[string]interface{}) error {
	for key, value := range m {
		if err := applyOverrideKey(o, key, value); err != nil {
			return err
		}
	}
	return nil
}

func coerceString(key string, value interface{}) (string, error) {
	if s, ok := value.(string); ok {
		return s, nil
	}
	return "", errors.Newf(errors.ErrConfigValid, "%s must be a string, got %T", key, value)
}

func coerceBool(key string, value interface{}) (bool, error) {
	if b, ok := value.(bool); ok {
		return b, nil
	}
	return false, errors.Newf(errors.ErrConfigValid, "%s must be a boolean, got %T", key, value)
}

func coerceInt64(key string, value interface{}) (int64, error) {
	switch v := value.(type) {
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case uint64:
		return int64(v), nil
	case float64:
		n := int64(v)
		if float64(n) != v {
			return 0, errors.Newf(errors.ErrConfigValid, "%s must be an integer, got %v", key, v)
		}
		return n, nil
	}
	return 0, errors.Newf(errors.ErrConfigValid, "%s must be an integer, got %T", key, value)
}

func coerceStringSlice(key string, value interface{}) ([]string, error) {
	switch v := value.(type) {
	case []string:
		return append([]string(nil), v...), nil
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, errors.Newf(errors.ErrConfigValid,
					"%s entries must be strings, got %T", key, item)
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, errors.Newf(errors.ErrConfigValid, "%s must be a list, got %T", key, value)
}
