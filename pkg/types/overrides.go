package types

// Overrides is the sparse form of Settings used by every layer above the
// defaults: per-extension records, rule settings blocks, and CLI flags.
// Scalar fields are pointers so "not set" and "set to the zero value" stay
// distinct. List and map fields are nil when unset; a non-nil value
// REPLACES the lower layer's value wholesale, never merges with it.
type Overrides struct {
	SecurityCheck         *SecurityMode          `koanf:"security_check"`
	MaxFileSize           *int64                 `koanf:"max_file_size"`
	IncludeHidden         *bool                  `koanf:"include_hidden"`
	IncludeBinary         *bool                  `koanf:"include_binary"`
	RemoveScrapedMetadata *bool                  `koanf:"remove_scraped_metadata"`
	LineEnding            *LineEnding            `koanf:"line_ending"`
	SeparatorStyle        *SeparatorStyle        `koanf:"separator_style"`
	IncludeMetadata       *bool                  `koanf:"include_metadata"`
	MaxLines              *int                   `koanf:"max_lines"`
	Actions               []string               `koanf:"actions"`
	CustomProcessor       *string                `koanf:"custom_processor"`
	ProcessorArgs         map[string]interface{} `koanf:"processor_args"`
	StripTags             []string               `koanf:"strip_tags"`
	PreserveTags          []string               `koanf:"preserve_tags"`
}

// Apply copies every set field onto s and returns the configuration names
// of the fields it changed, in a stable order.
func (o *Overrides) Apply(s *Settings) []string {
	if o == nil {
		return nil
	}
	var fields []string
	if o.SecurityCheck != nil {
		s.SecurityCheck = *o.SecurityCheck
		fields = append(fields, "security_check")
	}
	if o.MaxFileSize != nil {
		s.MaxFileSize = *o.MaxFileSize
		fields = append(fields, "max_file_size")
	}
	if o.IncludeHidden != nil {
		s.IncludeHidden = *o.IncludeHidden
		fields = append(fields, "include_hidden")
	}
	if o.IncludeBinary != nil {
		s.IncludeBinary = *o.IncludeBinary
		fields = append(fields, "include_binary")
	}
	if o.RemoveScrapedMetadata != nil {
		s.RemoveScrapedMetadata = *o.RemoveScrapedMetadata
		fields = append(fields, "remove_scraped_metadata")
	}
	if o.LineEnding != nil {
		s.LineEnding = *o.LineEnding
		fields = append(fields, "line_ending")
	}
	if o.SeparatorStyle != nil {
		s.SeparatorStyle = *o.SeparatorStyle
		fields = append(fields, "separator_style")
	}
	if o.IncludeMetadata != nil {
		s.IncludeMetadata = *o.IncludeMetadata
		fields = append(fields, "include_metadata")
	}
	if o.MaxLines != nil {
		s.MaxLines = *o.MaxLines
		fields = append(fields, "max_lines")
	}
	if o.Actions != nil {
		s.Actions = append([]string(nil), o.Actions...)
		fields = append(fields, "actions")
	}
	if o.CustomProcessor != nil {
		s.CustomProcessor = *o.CustomProcessor
		fields = append(fields, "custom_processor")
	}
	if o.ProcessorArgs != nil {
		args := make(map[string]interface{}, len(o.ProcessorArgs))
		for k, v := range o.ProcessorArgs {
			args[k] = v
		}
		s.ProcessorArgs = args
		fields = append(fields, "processor_args")
	}
	if o.StripTags != nil {
		s.StripTags = append([]string(nil), o.StripTags...)
		fields = append(fields, "strip_tags")
	}
	if o.PreserveTags != nil {
		s.PreserveTags = append([]string(nil), o.PreserveTags...)
		fields = append(fields, "preserve_tags")
	}
	return fields
}

// IsZero reports whether no field is set
func (o *Overrides) IsZero() bool {
	if o == nil {
		return true
	}
	return o.SecurityCheck == nil &&
		o.MaxFileSize == nil &&
		o.IncludeHidden == nil &&
		o.IncludeBinary == nil &&
		o.RemoveScrapedMetadata == nil &&
		o.LineEnding == nil &&
		o.SeparatorStyle == nil &&
		o.IncludeMetadata == nil &&
		o.MaxLines == nil &&
		o.Actions == nil &&
		o.CustomProcessor == nil &&
		o.ProcessorArgs == nil &&
		o.StripTags == nil &&
		o.PreserveTags == nil
}
