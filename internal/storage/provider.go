// Package storage defines the file-system abstraction used to load source
// documents and write generated artifacts.
package storage

// Provider is the interface for file operations relative to a root directory.
type Provider interface {
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// ListMarkdown returns the .md regular files directly inside dir, sorted
	// by name. A missing dir yields an empty list.
	ListMarkdown(dir string) ([]string, error)
	// Write atomically writes content to path, creating parent directories.
	Write(path string, content []byte) error
	// MkdirAll creates dir and any missing parents.
	MkdirAll(dir string) error
}
