package types

import (
	"reflect"

	"github.com/arthur-debert/onefile/pkg/errors"
)

// SecurityMode controls what happens when the secret scan reports findings
type SecurityMode string

const (
	// SecurityError fails the file when findings are reported
	SecurityError SecurityMode = "error"

	// SecurityWarn logs findings and keeps the file
	SecurityWarn SecurityMode = "warn"

	// SecuritySkip disables the secret scan for the file
	SecuritySkip SecurityMode = "skip"
)

// ParseSecurityMode validates a string value from configuration
func ParseSecurityMode(s string) (SecurityMode, error) {
	switch SecurityMode(s) {
	case SecurityError, SecurityWarn, SecuritySkip:
		return SecurityMode(s), nil
	}
	return "", errors.Newf(errors.ErrConfigValid, "invalid security_check value %q (want error, warn or skip)", s)
}

// LineEnding selects the newline convention of the output artifact
type LineEnding string

const (
	// LineEndingLF emits Unix newlines
	LineEndingLF LineEnding = "lf"

	// LineEndingCRLF emits Windows newlines
	LineEndingCRLF LineEnding = "crlf"
)

// ParseLineEnding validates a string value from configuration
func ParseLineEnding(s string) (LineEnding, error) {
	switch LineEnding(s) {
	case LineEndingLF, LineEndingCRLF:
		return LineEnding(s), nil
	}
	return "", errors.Newf(errors.ErrConfigValid, "invalid line_ending value %q (want lf or crlf)", s)
}

// SeparatorStyle selects how files are delimited in the output artifact
type SeparatorStyle string

const (
	// SeparatorStandard emits a banner line with the file path
	SeparatorStandard SeparatorStyle = "standard"

	// SeparatorDetailed emits the banner plus file metadata lines
	SeparatorDetailed SeparatorStyle = "detailed"

	// SeparatorMarkdown emits a heading and a fenced code block per file
	SeparatorMarkdown SeparatorStyle = "markdown"

	// SeparatorMachine emits parseable marker lines with JSON metadata
	SeparatorMachine SeparatorStyle = "machine"

	// SeparatorNone emits a single blank line between files
	SeparatorNone SeparatorStyle = "none"
)

// ParseSeparatorStyle validates a string value from configuration
func ParseSeparatorStyle(s string) (SeparatorStyle, error) {
	switch SeparatorStyle(s) {
	case SeparatorStandard, SeparatorDetailed, SeparatorMarkdown, SeparatorMachine, SeparatorNone:
		return SeparatorStyle(s), nil
	}
	return "", errors.Newf(errors.ErrConfigValid, "invalid separator_style value %q", s)
}

// Settings is the fully-populated processing record for one file. Every
// field has a value after resolution; consumers never distinguish "unset"
// from "default".
type Settings struct {
	// SecurityCheck controls secret-scan behavior for the file
	SecurityCheck SecurityMode `koanf:"security_check" yaml:"security_check"`

	// MaxFileSize excludes files larger than this many bytes (0 = unbounded)
	MaxFileSize int64 `koanf:"max_file_size" yaml:"max_file_size"`

	// IncludeHidden includes dot-files and files under dot-directories
	IncludeHidden bool `koanf:"include_hidden" yaml:"include_hidden"`

	// IncludeBinary includes files the content sniff classified as binary
	IncludeBinary bool `koanf:"include_binary" yaml:"include_binary"`

	// RemoveScrapedMetadata strips a leading scraper metadata comment block
	RemoveScrapedMetadata bool `koanf:"remove_scraped_metadata" yaml:"remove_scraped_metadata"`

	// LineEnding selects the newline convention for the file's output
	LineEnding LineEnding `koanf:"line_ending" yaml:"line_ending"`

	// SeparatorStyle selects the separator emitted before the file
	SeparatorStyle SeparatorStyle `koanf:"separator_style" yaml:"separator_style"`

	// IncludeMetadata includes size/mtime metadata where the style supports it
	IncludeMetadata bool `koanf:"include_metadata" yaml:"include_metadata"`

	// MaxLines truncates the transformed content to this many lines (0 = off)
	MaxLines int `koanf:"max_lines" yaml:"max_lines"`

	// Actions is the ordered content-transform pipeline for the file
	Actions []string `koanf:"actions" yaml:"actions"`

	// CustomProcessor names the processor invoked by the "custom" action
	CustomProcessor string `koanf:"custom_processor" yaml:"custom_processor"`

	// ProcessorArgs is passed verbatim to the custom processor
	ProcessorArgs map[string]interface{} `koanf:"processor_args" yaml:"processor_args"`

	// StripTags lists tag names removed by the strip_tags action
	// (empty list = strip all tags)
	StripTags []string `koanf:"strip_tags" yaml:"strip_tags"`

	// PreserveTags lists tag names the strip_tags action must keep
	PreserveTags []string `koanf:"preserve_tags" yaml:"preserve_tags"`
}

// DefaultSettings returns the built-in defaults, the lowest layer of the
// resolution chain.
func DefaultSettings() Settings {
	return Settings{
		SecurityCheck:         SecurityWarn,
		MaxFileSize:           0,
		IncludeHidden:         false,
		IncludeBinary:         false,
		RemoveScrapedMetadata: false,
		LineEnding:            LineEndingLF,
		SeparatorStyle:        SeparatorStandard,
		IncludeMetadata:       true,
		MaxLines:              0,
		Actions:               nil,
		CustomProcessor:       "",
		ProcessorArgs:         nil,
		StripTags:             nil,
		PreserveTags:          nil,
	}
}

// Clone returns a deep copy so callers can mutate the result without
// aliasing slices or maps of the source.
func (s Settings) Clone() Settings {
	out := s
	if s.Actions != nil {
		out.Actions = append([]string(nil), s.Actions...)
	}
	if s.StripTags != nil {
		out.StripTags = append([]string(nil), s.StripTags...)
	}
	if s.PreserveTags != nil {
		out.PreserveTags = append([]string(nil), s.PreserveTags...)
	}
	if s.ProcessorArgs != nil {
		out.ProcessorArgs = make(map[string]interface{}, len(s.ProcessorArgs))
		for k, v := range s.ProcessorArgs {
			out.ProcessorArgs[k] = v
		}
	}
	return out
}

// DiffSettings returns the configuration names of the fields where b
// differs from a, in the same stable order Overrides.Apply reports.
func DiffSettings(a, b Settings) []string {
	var fields []string
	if a.SecurityCheck != b.SecurityCheck {
		fields = append(fields, "security_check")
	}
	if a.MaxFileSize != b.MaxFileSize {
		fields = append(fields, "max_file_size")
	}
	if a.IncludeHidden != b.IncludeHidden {
		fields = append(fields, "include_hidden")
	}
	if a.IncludeBinary != b.IncludeBinary {
		fields = append(fields, "include_binary")
	}
	if a.RemoveScrapedMetadata != b.RemoveScrapedMetadata {
		fields = append(fields, "remove_scraped_metadata")
	}
	if a.LineEnding != b.LineEnding {
		fields = append(fields, "line_ending")
	}
	if a.SeparatorStyle != b.SeparatorStyle {
		fields = append(fields, "separator_style")
	}
	if a.IncludeMetadata != b.IncludeMetadata {
		fields = append(fields, "include_metadata")
	}
	if a.MaxLines != b.MaxLines {
		fields = append(fields, "max_lines")
	}
	if !stringSlicesEqual(a.Actions, b.Actions) {
		fields = append(fields, "actions")
	}
	if a.CustomProcessor != b.CustomProcessor {
		fields = append(fields, "custom_processor")
	}
	if !reflect.DeepEqual(a.ProcessorArgs, b.ProcessorArgs) {
		fields = append(fields, "processor_args")
	}
	if !stringSlicesEqual(a.StripTags, b.StripTags) {
		fields = append(fields, "strip_tags")
	}
	if !stringSlicesEqual(a.PreserveTags, b.PreserveTags) {
		fields = append(fields, "preserve_tags")
	}
	return fields
}

func stringSlicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Validate checks enum fields and numeric ranges. Resolution output is
// always valid by construction; this guards values arriving from
// configuration files.
func (s Settings) Validate() error {
	if _, err := ParseSecurityMode(string(s.SecurityCheck)); err != nil {
		return err
	}
	if _, err := ParseLineEnding(string(s.LineEnding)); err != nil {
		return err
	}
	if _, err := ParseSeparatorStyle(string(s.SeparatorStyle)); err != nil {
		return err
	}
	if s.MaxFileSize < 0 {
		return errors.Newf(errors.ErrConfigValid, "max_file_size must be >= 0, got %d", s.MaxFileSize)
	}
	if s.MaxLines < 0 {
		return errors.Newf(errors.ErrConfigValid, "max_lines must be >= 0, got %d", s.MaxLines)
	}
	return nil
}
