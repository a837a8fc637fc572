// Package storage defines the durable object store used for project media.
package storage

import (
	"context"
	"errors"
	"path"
	"strings"
)

var ErrInvalidKey = errors.New("invalid object key")

// ObjectStore persists media bytes under a key and maps keys to the URL the
// website should render.
type ObjectStore interface {
	// Put writes data under key, replacing any existing object.
	Put(ctx context.Context, key string, data []byte, contentType string) error

	// PublicURL returns the dereferenceable location for key, or "" when the
	// backend has no public address.
	PublicURL(key string) string

	// Owns reports whether ref already points into this store.
	Owns(ref string) bool

	// Name identifies the backend in logs and health checks.
	Name() string
}

// CleanKey validates a storage key and returns it in canonical slash form.
// Absolute keys and keys escaping the root are rejected.
func CleanKey(key string) (string, error) {
	key = strings.TrimSpace(strings.ReplaceAll(key, "\\", "/"))
	if key == "" || strings.HasPrefix(key, "/") {
		return "", ErrInvalidKey
	}
	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}

// JoinURL appends key to a base URL with exactly one separating slash.
func JoinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
