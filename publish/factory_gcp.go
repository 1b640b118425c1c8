//go:build gcp

package publish

import (
	"context"
	"fmt"
	"os"
)

func newGCSBucketFromEnv(ctx context.Context) (Bucket, error) {
	bucket := os.Getenv("PUBLISH_GCS_BUCKET")
	if bucket == "" {
		return nil, fmt.Errorf("publish: PUBLISH_GCS_BUCKET is required for the gcs target")
	}
	return NewGCSBucket(ctx, GCSConfig{
		Bucket: bucket,
		Prefix: os.Getenv("PUBLISH_GCS_PREFIX"),
	})
}
