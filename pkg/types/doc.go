// Package types defines the core types used throughout onefile.
// This includes the Settings record that drives per-file processing,
// the sparse Overrides form of it, file metadata, and the resolution
// trace returned for diagnostics.
package types
