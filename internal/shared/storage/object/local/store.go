// Package local stores objects as files below a base directory. It backs OBJECT_STORE=local.
package local

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"resume-builder/internal/shared/storage/object"
)

var errKeyEscapes = errors.New("invalid storage key")

type Store struct {
	root string
}

func New(root string) *Store {
	return &Store{root: root}
}

func (s *Store) Save(ctx context.Context, userID string, fileName string, r io.Reader) (object.Info, error) {
	return object.SaveNew(ctx, s, userID, fileName, r)
}

// Put writes through a temp file and renames it over key, so readers never see a partial
// object. The content type is not kept.
func (s *Store) Put(ctx context.Context, key string, _ string, r io.Reader) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	path, err := s.path(key)
	if err != nil {
		return 0, err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, err
	}
	tmp, err := os.CreateTemp(dir, ".put-*")
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(tmp, r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp.Name(), path)
	}
	if err != nil {
		_ = os.Remove(tmp.Name())
		return 0, err
	}
	return n, nil
}

func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

// path maps key below root and refuses keys that climb out of it.
func (s *Store) path(key string) (string, error) {
	rel := filepath.Clean(filepath.FromSlash(key))
	if !filepath.IsLocal(rel) {
		return "", errKeyEscapes
	}
	return filepath.Join(s.root, rel), nil
}

var _ object.ObjectStore = (*Store)(nil)
