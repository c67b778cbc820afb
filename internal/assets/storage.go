// Package assets owns product image files: where they are stored, how they
// are named, and when they are removed.
package assets

import (
	"context"
	"errors"
	"io"
	"strings"
)

// ErrInvalidName is returned for names that could escape the uploads root.
var ErrInvalidName = errors.New("invalid asset name")

// Storage reads and writes files by name under a single uploads root.
type Storage interface {
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Remove(ctx context.Context, name string) error
	Exists(ctx context.Context, name string) (bool, error)
}

// validName accepts a single path element only.
func validName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`) && !strings.ContainsRune(name, 0)
}
