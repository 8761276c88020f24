// Package storage defines the content-directory file-system abstraction.
package storage

// Provider is the interface for content directory file operations.
type Provider interface {
	// List returns the names of the .md files directly inside the content directory.
	List() ([]string, error)
	// Read returns the raw bytes of the named file.
	Read(name string) ([]byte, error)
	// Write atomically replaces the named file with content.
	Write(name string, content []byte) error
}
