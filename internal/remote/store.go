// Package remote provides the remote blob store contract the sync engine
// depends on, a WebDAV implementation of it, and the snapshot document
// adapter layered on top.
package remote

import "context"

// Store is a generic remote blob store over a path namespace. The engine
// operates on one fixed snapshot path inside one fixed directory; it
// never lists or walks the namespace.
type Store interface {
	// Exists reports whether a path is present.
	Exists(ctx context.Context, path string) (bool, error)

	// ReadText returns the document at path. Missing paths are an error;
	// callers check Exists first.
	ReadText(ctx context.Context, path string) (string, error)

	// WriteText replaces the document at path wholesale.
	WriteText(ctx context.Context, path, content string) error

	// Mkdir creates a directory. Creating an existing directory is not
	// an error.
	Mkdir(ctx context.Context, path string) error
}
