// Package localstore keeps media objects as plain files under one directory.
// The HTTP server exposes that directory under the configured base URL.
package localstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mrlokans/portfolio/internal/storage"
)

type Store struct {
	dir     string
	baseURL string
}

func New(dir, baseURL string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("local storage directory is not configured")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &Store{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Put writes through a temp file and rename so readers never observe a
// partially written object.
func (s *Store) Put(ctx context.Context, key string, data []byte, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key, err := storage.CleanKey(key)
	if err != nil {
		return err
	}

	target := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("failed to create object directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write object: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close object: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to move object into place: %w", err)
	}
	return nil
}

func (s *Store) PublicURL(key string) string {
	if s.baseURL == "" {
		return key
	}
	return storage.JoinURL(s.baseURL, key)
}

func (s *Store) Owns(ref string) bool {
	return s.baseURL != "" && strings.HasPrefix(ref, s.baseURL+"/")
}

func (s *Store) Name() string {
	return "local"
}

// Dir is the directory objects are written to.
func (s *Store) Dir() string {
	return s.dir
}

// BaseURL is the URL prefix objects are served under.
func (s *Store) BaseURL() string {
	return s.baseURL
}
