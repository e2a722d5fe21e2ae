package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/PigStep/vibe-idef0-front/pkg/errors"
)

// FileStore serves "<dir>/<variant>.xml".
type FileStore struct {
	dir string
}

// NewFileStore returns a store rooted at dir. The directory does not need
// to exist yet; lookups report NOT_FOUND until it does.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("file store: directory is required")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("file store: resolve %s: %w", dir, err)
	}
	return &FileStore{dir: abs}, nil
}

// Dir returns the absolute data directory.
func (s *FileStore) Dir() string { return s.dir }

// Name returns "file".
func (s *FileStore) Name() string { return BackendFile }

// Get reads the document for variant.
func (s *FileStore) Get(ctx context.Context, variant string) (data []byte, err error) {
	start := time.Now()
	defer func() { observe(ctx, BackendFile, variant, start, data, err) }()

	path, err := s.path(variant)
	if err != nil {
		return nil, err
	}
	data, err = os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, NotFound(variant)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// Put writes the document for variant, creating the directory if needed.
func (s *FileStore) Put(_ context.Context, variant string, data []byte) error {
	path, err := s.path(variant)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", s.dir, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	return os.Rename(tmp, path)
}

// List returns the variants with a document in the directory.
func (s *FileStore) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), Extension) {
			continue
		}
		name := strings.TrimSuffix(e.Name(), Extension)
		if errors.ValidateVariant(name) == nil {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names, nil
}

// Close is a no-op.
func (s *FileStore) Close() error { return nil }

// path validates variant and resolves it inside the data directory.
func (s *FileStore) path(variant string) (string, error) {
	if err := errors.ValidateVariant(variant); err != nil {
		return "", err
	}
	path := filepath.Join(s.dir, Filename(variant))
	rel, err := filepath.Rel(s.dir, path)
	if err != nil || rel != filepath.Base(path) {
		return "", errors.New(errors.ErrCodeInvalidVariant, "variant %q escapes the data directory", variant)
	}
	return path, nil
}

var _ Store = (*FileStore)(nil)
