package publish

import (
	"context"
	"errors"
	"os"
	"path/filepath"
)

// DirBucket publishes into a local directory, for previews and tests.
// Metadata is not persisted.
type DirBucket struct {
	root string
}

// NewDirBucket creates root if needed.
func NewDirBucket(root string) (*DirBucket, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &DirBucket{root: root}, nil
}

func (b *DirBucket) path(key string) string {
	return filepath.Join(b.root, filepath.FromSlash(key))
}

func (b *DirBucket) Get(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(b.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotExist
	}
	return data, err
}

func (b *DirBucket) Put(_ context.Context, key string, data []byte, _ ObjectMeta) error {
	p := b.path(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	return os.WriteFile(p, data, 0o644)
}

func (b *DirBucket) Delete(_ context.Context, key string) error {
	err := os.Remove(b.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
