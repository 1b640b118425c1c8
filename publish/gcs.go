//go:build gcp

package publish

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
)

// GCSBucket publishes to Google Cloud Storage.
type GCSBucket struct {
	client *storage.Client
	bucket string
	prefix string
}

// GCSConfig holds configuration for GCSBucket.
type GCSConfig struct {
	Bucket string
	Prefix string
}

// NewGCSBucket creates a client from application default credentials.
func NewGCSBucket(ctx context.Context, cfg GCSConfig) (*GCSBucket, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("publish: gcs client: %w", err)
	}
	return &GCSBucket{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

func (b *GCSBucket) object(key string) *storage.ObjectHandle {
	return b.client.Bucket(b.bucket).Object(b.prefix + key)
}

func (b *GCSBucket) Get(ctx context.Context, key string) ([]byte, error) {
	r, err := b.object(key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, ErrNotExist
		}
		return nil, fmt.Errorf("publish: gcs get %s: %w", key, err)
	}
	defer func() { _ = r.Close() }()
	return io.ReadAll(r)
}

func (b *GCSBucket) Put(ctx context.Context, key string, data []byte, meta ObjectMeta) error {
	w := b.object(key).NewWriter(ctx)
	w.ContentType = meta.ContentType
	w.CacheControl = meta.CacheControl
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("publish: gcs write %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("publish: gcs close %s: %w", key, err)
	}
	return nil
}

func (b *GCSBucket) Delete(ctx context.Context, key string) error {
	err := b.object(key).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("publish: gcs delete %s: %w", key, err)
	}
	return nil
}

// Close releases the GCS client.
func (b *GCSBucket) Close() error {
	return b.client.Close()
}
