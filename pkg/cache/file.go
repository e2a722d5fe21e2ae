package cache

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const (
	entryExt    = ".entry"
	entryHeader = "idef0-cache "
)

// FileCache keeps one file per key under dir, fanned out into 256
// subdirectories by key hash. A file is a single header line
//
//	idef0-cache <expiry unix nanoseconds, 0 = never>
//
// followed by the cached bytes unchanged, so a cached document can be read
// with any text tool. Writes go through a temporary file and a rename, which
// keeps concurrent CLI runs from observing half-written entries.
type FileCache struct {
	dir string
}

// NewFileCache creates dir if needed and returns a cache rooted there.
func NewFileCache(dir string) (Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &FileCache{dir: dir}, nil
}

// Dir returns the cache directory.
func (c *FileCache) Dir() string { return c.dir }

func (c *FileCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	expires, data, ok := decodeEntry(raw)
	if !ok || (!expires.IsZero() && time.Now().After(expires)) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return data, true, nil
}

func (c *FileCache) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	var expires int64
	if ttl > 0 {
		expires = time.Now().Add(ttl).UnixNano()
	}

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	_, err = fmt.Fprintf(tmp, "%s%d\n", entryHeader, expires)
	if err == nil {
		_, err = tmp.Write(data)
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

func (c *FileCache) Delete(_ context.Context, key string) error {
	if err := os.Remove(c.path(key)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (c *FileCache) Close() error { return nil }

func (c *FileCache) path(key string) string {
	h := Hash([]byte(key))
	return filepath.Join(c.dir, h[:2], h[2:]+entryExt)
}

// decodeEntry splits a cache file into its expiry and payload.
func decodeEntry(raw []byte) (time.Time, []byte, bool) {
	line, data, found := bytes.Cut(raw, []byte{'\n'})
	if !found || !bytes.HasPrefix(line, []byte(entryHeader)) {
		return time.Time{}, nil, false
	}
	nanos, err := strconv.ParseInt(string(line[len(entryHeader):]), 10, 64)
	if err != nil {
		return time.Time{}, nil, false
	}
	if nanos == 0 {
		return time.Time{}, data, true
	}
	return time.Unix(0, nanos), data, true
}

// ClearDir removes every cache entry under dir, including leftovers of
// interrupted writes, and prunes the emptied subdirectories. It returns the
// number of entries removed. A missing dir is not an error.
func ClearDir(dir string) (int, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return 0, nil
	}

	removed := 0
	var subdirs []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		switch {
		case err != nil || path == dir:
			return nil
		case d.IsDir():
			subdirs = append(subdirs, path)
		case filepath.Ext(path) == entryExt:
			if os.Remove(path) == nil {
				removed++
			}
		case filepath.Ext(path) == ".tmp":
			_ = os.Remove(path)
		}
		return nil
	})

	for i := len(subdirs) - 1; i >= 0; i-- {
		_ = os.Remove(subdirs[i])
	}
	return removed, err
}

// DirStats summarizes the entries under a cache directory.
type DirStats struct {
	Entries int
	Expired int
	Bytes   int64
}

// StatDir counts the entries under dir without removing anything. A missing
// dir reports zero entries.
func StatDir(dir string) (DirStats, error) {
	var st DirStats
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return st, nil
	}
	now := time.Now()
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(path) != entryExt {
			return err
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		st.Entries++
		st.Bytes += int64(len(raw))
		if expires, _, ok := decodeEntry(raw); !ok || (!expires.IsZero() && now.After(expires)) {
			st.Expired++
		}
		return nil
	})
	return st, err
}

var _ Cache = (*FileCache)(nil)
