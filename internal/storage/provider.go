// Package storage defines the corpus file-system abstraction.
package storage

import "github.com/starford/ansuz/internal/models"

// Provider is the interface for corpus file operations. All paths are
// relative to the corpus root and use forward slashes.
type Provider interface {
	// List returns metadata for every .md file under dir (relative to corpus root).
	List(dir string) ([]models.DocumentMetadata, error)
	// ListDir returns the relative paths of all regular files under dir,
	// regardless of extension. Used by packaging and skill-directory lint.
	ListDir(dir string) ([]string, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path.
	Write(path string, content []byte) error
	// Delete removes the file at path.
	Delete(path string) error
	// Move renames oldPath to newPath.
	Move(oldPath, newPath string) error
	// Exists reports whether a regular file exists at path.
	Exists(path string) bool
	// Root returns the absolute path of the corpus root.
	Root() string
}
