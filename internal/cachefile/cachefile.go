// Package cachefile is a tiny persistent key-value store: one JSON object
// in one file. It holds the cached session token and small markers like the
// last export time. It is a leaf package so both the vault client and the
// CLI can use it without import cycles.
//
// The file is not safe under concurrent writers from multiple processes —
// an accepted limitation of a single-user tool.
package cachefile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FilePerms restricts the cache file to owner-only read/write; it holds a
// bearer token.
const FilePerms = 0o600

// DirPerms is used when creating the cache directory.
const DirPerms = 0o700

// ErrNotExist reports that the cache file itself is absent. Callers decide
// whether that is "no value" (session bootstrap) or a hard error (flows
// that expect an established session, like token-info).
var ErrNotExist = errors.New("cachefile: cache file does not exist")

// Cache reads and writes one JSON object at a fixed path.
type Cache struct {
	path string
}

// New returns a Cache backed by the file at path. The file is not touched
// until the first Get or Set.
func New(path string) *Cache {
	return &Cache{path: path}
}

// Path returns the backing file path.
func (c *Cache) Path() string {
	return c.path
}

// load reads and decodes the whole object. A missing file is ErrNotExist;
// a present but unreadable or corrupt file is a plain error.
func (c *Cache) load() (map[string]string, error) {
	data, err := os.ReadFile(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotExist
	}

	if err != nil {
		return nil, fmt.Errorf("cachefile: reading %s: %w", c.path, err)
	}

	var values map[string]string
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("cachefile: decoding %s: %w", c.path, err)
	}

	return values, nil
}

// Get returns the value stored under key. An absent key yields "" with a
// nil error; an absent file yields ErrNotExist so callers can keep the
// existence-based distinction.
func (c *Cache) Get(key string) (string, error) {
	values, err := c.load()
	if err != nil {
		return "", err
	}

	return values[key], nil
}

// Set stores value under key, creating the file if needed.
func (c *Cache) Set(key, value string) error {
	return c.update(func(values map[string]string) {
		values[key] = value
	})
}

// Remove deletes key from the object. Removing from an absent file is a
// no-op: the end state (no value) already holds, and the file must not be
// created just to record an absence.
func (c *Cache) Remove(key string) error {
	if _, err := c.load(); errors.Is(err, ErrNotExist) {
		return nil
	}

	return c.update(func(values map[string]string) {
		delete(values, key)
	})
}

// update applies mutate to the decoded object and writes it back
// atomically (temp file + rename, owner-only permissions).
func (c *Cache) update(mutate func(map[string]string)) error {
	values, err := c.load()
	if errors.Is(err, ErrNotExist) {
		values = map[string]string{}
	} else if err != nil {
		return err
	}

	mutate(values)

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("cachefile: encoding: %w", err)
	}

	dir := filepath.Dir(c.path)
	if mkErr := os.MkdirAll(dir, DirPerms); mkErr != nil {
		return fmt.Errorf("cachefile: creating directory %s: %w", dir, mkErr)
	}

	// Atomic write: temp file in the same directory, then rename.
	// Same directory guarantees same filesystem for rename(2).
	tmp, err := os.CreateTemp(dir, ".cache-*.tmp")
	if err != nil {
		return fmt.Errorf("cachefile: creating temp file: %w", err)
	}

	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpPath)
		}
	}()

	if err := os.Chmod(tmpPath, FilePerms); err != nil {
		tmp.Close()
		return fmt.Errorf("cachefile: setting permissions: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("cachefile: writing: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cachefile: closing: %w", err)
	}

	if err := os.Rename(tmpPath, c.path); err != nil {
		return fmt.Errorf("cachefile: renaming: %w", err)
	}

	success = true

	return nil
}
