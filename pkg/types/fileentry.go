package types

import "time"

// FileEntry describes a single file discovered by the scanner. Paths are
// always relative to the project root and use forward slashes, so pattern
// matching behaves the same on every platform.
type FileEntry struct {
	// Path is the root-relative, slash-separated path (e.g. "src/app/main.py")
	Path string

	// AbsolutePath is the absolute filesystem path, used for reading content
	AbsolutePath string

	// Extension is the file extension including the leading dot, lowercased
	// (e.g. ".py"). Empty for files without an extension.
	Extension string

	// SizeBytes is the file size as reported by the filesystem
	SizeBytes int64

	// ModTime is the file's last modification time
	ModTime time.Time

	// IsHidden is true when any path segment starts with a dot
	IsHidden bool

	// IsBinary is true when the content sniff classified the file as binary
	IsBinary bool
}
