package vfs

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/garnet-lang/garnet/exception"
)

// Native delegates to the host filesystem, rooted at a directory. Paths
// that escape the root are rejected rather than resolved.
type Native struct {
	root string
}

// NewNative creates a Native filesystem rooted at the given directory.
func NewNative(root string) *Native {
	return &Native{root: root}
}

func (*Native) Name() string {
	return "native"
}

func (n *Native) resolve(p string) (string, error) {
	full := filepath.Join(n.root, filepath.FromSlash(p))
	rel, err := filepath.Rel(n.root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", exception.LoadError("path escapes filesystem root -- %s", p)
	}
	return full, nil
}

func (n *Native) ReadFile(p string) ([]byte, error) {
	full, err := n.resolve(p)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, notFound(p)
		}
		return nil, exception.Newf(exception.KindIOError, "failed to read %s: %v", p, err)
	}
	return data, nil
}

func (n *Native) WriteFile(p string, data []byte) error {
	full, err := n.resolve(p)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return exception.Newf(exception.KindIOError, "failed to write %s: %v", p, err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return exception.Newf(exception.KindIOError, "failed to write %s: %v", p, err)
	}
	return nil
}

func (n *Native) Exists(p string) bool {
	full, err := n.resolve(p)
	if err != nil {
		return false
	}
	_, statErr := os.Stat(full)
	return statErr == nil
}
