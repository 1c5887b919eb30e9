// Package vfs is the filesystem capability behind Kernel#require and
// file-touching extensions. Two backends exist: Native delegates to the host
// filesystem rooted at a directory, Memory is an in-process virtual
// filesystem. The backend is selected by boot configuration; the in-memory
// backend is the default, so an embedded interpreter has no host filesystem
// access unless the application opts in.
package vfs

import (
	"github.com/garnet-lang/garnet/exception"
)

// Filesystem is the canonical method set of the capability. Paths use
// forward slashes on every backend.
type Filesystem interface {
	// Name identifies the backend for capability descriptors.
	Name() string

	// ReadFile returns the contents of the file at path. A missing file is
	// a LoadError-kind error so require sites can surface it directly.
	ReadFile(path string) ([]byte, error)

	// WriteFile creates or replaces the file at path, creating parent
	// directories as needed.
	WriteFile(path string, data []byte) error

	// Exists reports whether a file exists at path.
	Exists(path string) bool
}

func notFound(path string) error {
	return exception.LoadError("cannot load such file -- %s", path)
}
