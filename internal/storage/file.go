package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
)

// fileKV stores each key as one file in a directory, the layout used for
// on-device app data. Writes go through a temp file and rename so a crash
// mid-write never leaves a half-written record.
type fileKV struct {
	dir string
}

// NewFileKV creates dir if needed and returns a file-backed KV.
func NewFileKV(dir string) (KV, error) {
	if dir == "" {
		return nil, errors.New("storage: dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create dir: %w", err)
	}
	return &fileKV{dir: dir}, nil
}

func (s *fileKV) path(key string) string {
	// Query-escape so keys like "gatorguide:appdata:v1" map to unique,
	// filesystem-safe names.
	return filepath.Join(s.dir, url.QueryEscape(key)+".json")
}

func (s *fileKV) Get(_ context.Context, key string) (string, bool, error) {
	b, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("storage: read %s: %w", key, err)
	}
	return string(b), true, nil
}

func (s *fileKV) Set(_ context.Context, key, value string) error {
	tmp, err := os.CreateTemp(s.dir, "kv-*.tmp")
	if err != nil {
		return fmt.Errorf("storage: temp file: %w", err)
	}
	name := tmp.Name()
	if _, err := tmp.WriteString(value); err != nil {
		_ = tmp.Close()
		_ = os.Remove(name)
		return fmt.Errorf("storage: write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("storage: close %s: %w", key, err)
	}
	if err := os.Rename(name, s.path(key)); err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("storage: rename %s: %w", key, err)
	}
	return nil
}

func (s *fileKV) Remove(_ context.Context, key string) error {
	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("storage: remove %s: %w", key, err)
	}
	return nil
}
