package types

import "time"

// FileResult is the outcome of processing one scanned file
type FileResult struct {
	// File is the scanner entry the result belongs to
	File FileEntry

	// Settings is the effective record the file was processed under
	Settings Settings

	// Content is the transformed content, ready for assembly
	Content string

	// Excluded is true when the file was filtered out by its settings
	// (hidden, binary or oversized) rather than processed
	Excluded bool

	// ExcludeReason explains an exclusion, e.g. "hidden" or "over max_file_size"
	ExcludeReason string

	// Err is the per-file failure, nil on success
	Err error
}

// BundleStats summarizes a bundle run for display
type BundleStats struct {
	FilesScanned  int
	FilesIncluded int
	FilesExcluded int
	FilesFailed   int
	BytesIn       int64
	BytesOut      int64
	Duration      time.Duration
}
