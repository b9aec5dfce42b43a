// Package storage keeps uploaded media bytes on the local filesystem under
// flat, server-chosen names.
package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

type Storage struct {
	validator *PathValidator
}

func New(root string) (*Storage, error) {
	validator, err := NewPathValidator(root)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(validator.RootAbs(), 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}

	return &Storage{validator: validator}, nil
}

func (s *Storage) RootAbs() string {
	return s.validator.RootAbs()
}

// Write stores data under name, replacing any previous content. The bytes
// land in a temp file first so readers never see a partial write.
func (s *Storage) Write(name string, data []byte) error {
	resolved, err := s.validator.ResolveName(name)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.RootAbs(), ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %q: %w", name, err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close %q: %w", name, err)
	}

	if err := os.Rename(tmpName, resolved); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename %q: %w", name, err)
	}

	return nil
}

func (s *Storage) Read(name string) ([]byte, error) {
	resolved, err := s.validator.ResolveName(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", name, err)
	}

	return data, nil
}

func (s *Storage) Exists(name string) (bool, error) {
	resolved, err := s.validator.ResolveName(name)
	if err != nil {
		return false, err
	}

	info, err := os.Stat(resolved)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat %q: %w", name, err)
	}

	return info.Mode().IsRegular(), nil
}

// Remove is a no-op for names that do not exist.
func (s *Storage) Remove(name string) error {
	resolved, err := s.validator.ResolveName(name)
	if err != nil {
		return err
	}

	if err := os.Remove(resolved); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %q: %w", name, err)
	}

	return nil
}

// Path returns the absolute location of name, for logging.
func (s *Storage) Path(name string) (string, error) {
	resolved, err := s.validator.ResolveName(name)
	if err != nil {
		return "", err
	}
	return filepath.Clean(resolved), nil
}
