package mylist

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalStore persists the shadow list.
type LocalStore interface {
	Load() (List, error)
	Save(List) error
}

// FileStore keeps the list as a single JSON blob on disk.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string {
	return s.path
}

// Load returns an empty list when the file does not exist or is empty, and an
// error when it cannot be parsed.
func (s *FileStore) Load() (List, error) {
	list := EmptyList()
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return list, nil
		}
		return list, fmt.Errorf("open list: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return list, fmt.Errorf("read list: %w", err)
	}
	if len(data) == 0 {
		return list, nil
	}
	if err := json.Unmarshal(data, &list); err != nil {
		return EmptyList(), fmt.Errorf("decode list: %w", err)
	}
	list.normalize()
	return list, nil
}

// Save writes the list atomically through a temp file and rename.
func (s *FileStore) Save(list List) error {
	list.normalize()
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	tmp := s.path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open tmp: %w", err)
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&list); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("encode list: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close tmp: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename tmp: %w", err)
	}
	return nil
}
