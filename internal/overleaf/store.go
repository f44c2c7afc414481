// Package overleaf provides access to the files of a remote
// document-collaboration project. The résumé tooling only needs a small
// file-system-like surface, captured by ProjectStore; the concrete
// backends are the hosted platform's HTTP API (Client), an S3 bucket,
// a Postgres table, and an in-memory map for tests.
package overleaf

import (
	"context"
	"errors"
	"strings"
)

// Entry is one item in a project folder listing.
type Entry struct {
	Name  string `json:"name"`
	IsDir bool   `json:"is_dir"`
}

// ProjectStore is the file surface of a single document project.
// Paths are slash-separated and relative to the project root ("" is
// the root itself). Implementations are expected to be remote and
// network-fallible; no retries happen at this layer.
type ProjectStore interface {
	// Listdir returns the entries directly under path.
	Listdir(ctx context.Context, path string) ([]Entry, error)

	// Exists reports whether a file or folder exists at path.
	Exists(ctx context.Context, path string) (bool, error)

	// Read returns the full content of the file at path.
	// Returns ErrNotFound if no file exists there.
	Read(ctx context.Context, path string) ([]byte, error)

	// Write replaces the file at path with content in a single
	// whole-file write, creating it if absent.
	Write(ctx context.Context, path string, content []byte) error

	// Mkdir creates the folder at path, including missing parents.
	// Existing folders are not an error.
	Mkdir(ctx context.Context, path string) error

	// Remove deletes the file or empty folder at path.
	Remove(ctx context.Context, path string) error
}

// ErrNotFound is returned by Read and Remove when the target path does
// not exist in the project.
var ErrNotFound = errors.New("overleaf: entity not found")

// normalizePath trims the leading/trailing slashes and surrounding
// whitespace so every backend keys files identically.
func normalizePath(path string) string {
	return strings.Trim(strings.TrimSpace(path), "/")
}

// splitPath returns the parent path and base name of a normalized path.
// The parent of a top-level entry is "".
func splitPath(path string) (parent, base string) {
	path = normalizePath(path)
	i := strings.LastIndex(path, "/")
	if i < 0 {
		return "", path
	}
	return path[:i], path[i+1:]
}
