// Package publish uploads a built site to object storage, sending only
// files whose content changed since the previous publish.
package publish

import (
	"context"
	"errors"
)

// ErrNotExist is returned by Bucket.Get for a missing key.
var ErrNotExist = errors.New("publish: object does not exist")

// ObjectMeta is the HTTP metadata stored with an object.
type ObjectMeta struct {
	ContentType  string
	CacheControl string
}

// Bucket is the minimal object-store surface the publisher needs.
type Bucket interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte, meta ObjectMeta) error
	Delete(ctx context.Context, key string) error
}
