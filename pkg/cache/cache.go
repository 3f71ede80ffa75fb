// Package cache stores rendered artifacts so that drawing the same tree or
// polygon twice runs Graphviz once.
//
// Keys come from [ArtifactKey], which hashes the DOT source together with
// the output format. [FileCache] keeps entries under the user cache
// directory (see [Dir]); [NullCache] disables caching.
package cache

import (
	"context"
	"os"
	"path/filepath"
	"time"
)

const appName = "dissect"

// DefaultTTL is how long a rendered artifact stays valid.
const DefaultTTL = 7 * 24 * time.Hour

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the entry for key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// ArtifactKey returns the cache key for dot rendered in format.
func ArtifactKey(dot, format string) string {
	return hashKey("artifact", format, Hash([]byte(dot)))
}

// Dir returns the cache directory using the XDG standard (~/.cache/dissect/).
func Dir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// Open returns a FileCache in Dir, or a NullCache when disabled is set or
// the directory cannot be used.
func Open(disabled bool) Cache {
	if disabled {
		return NewNullCache()
	}
	dir, err := Dir()
	if err != nil {
		return NewNullCache()
	}
	c, err := NewFileCache(dir)
	if err != nil {
		return NewNullCache()
	}
	return c
}
