// Package storage defines the journal file-system abstraction.
package storage

import "github.com/velikov/donefold/internal/models"

// Provider is the interface for journal file operations. All paths are
// relative to the journal root.
type Provider interface {
	// List returns metadata for every .md file under dir.
	List(dir string) ([]models.FileMetadata, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// ReadLines returns the file's lines with trailing whitespace removed.
	ReadLines(path string) ([]string, error)
	// Write atomically writes content to path.
	Write(path string, content []byte) error
	// Delete removes the file at path.
	Delete(path string) error
	// Move renames oldPath to newPath.
	Move(oldPath, newPath string) error
}
