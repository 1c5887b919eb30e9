package vfs

import (
	"path"
)

// Memory is an in-process virtual filesystem. It exists so that require and
// file-backed extensions work in embeddings with no host filesystem access,
// and so tests can stage script files hermetically.
type Memory struct {
	files map[string][]byte
}

// NewMemory creates an empty in-memory filesystem.
func NewMemory() *Memory {
	return &Memory{files: map[string][]byte{}}
}

func (*Memory) Name() string {
	return "memory"
}

func normalize(p string) string {
	return path.Clean("/" + p)
}

func (m *Memory) ReadFile(p string) ([]byte, error) {
	data, ok := m.files[normalize(p)]
	if !ok {
		return nil, notFound(p)
	}
	dupe := make([]byte, len(data))
	copy(dupe, data)
	return dupe, nil
}

func (m *Memory) WriteFile(p string, data []byte) error {
	dupe := make([]byte, len(data))
	copy(dupe, data)
	m.files[normalize(p)] = dupe
	return nil
}

func (m *Memory) Exists(p string) bool {
	_, ok := m.files[normalize(p)]
	return ok
}
