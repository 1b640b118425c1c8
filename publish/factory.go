package publish

import (
	"context"
	"fmt"
	"os"
)

// Target names a publishing backend.
type Target string

const (
	TargetDir Target = "dir"
	TargetS3  Target = "s3"
	TargetGCS Target = "gcs"
)

// NewBucketFromEnv creates a Bucket based on environment variables.
//
// Environment variables:
//   - PUBLISH_TARGET: "dir" (default), "s3", or "gcs"
//   - PUBLISH_DIR: destination for the dir target (default "publish")
//
// For S3:
//   - PUBLISH_S3_BUCKET (required)
//   - PUBLISH_S3_REGION or AWS_REGION (default "us-east-1")
//   - PUBLISH_S3_ENDPOINT (optional, for S3-compatible stores)
//   - PUBLISH_S3_PREFIX (optional)
//
// For GCS (requires -tags gcp):
//   - PUBLISH_GCS_BUCKET (required)
//   - PUBLISH_GCS_PREFIX (optional)
func NewBucketFromEnv(ctx context.Context) (Bucket, error) {
	target := Target(os.Getenv("PUBLISH_TARGET"))
	if target == "" {
		target = TargetDir
	}

	switch target {
	case TargetDir:
		dir := os.Getenv("PUBLISH_DIR")
		if dir == "" {
			dir = "publish"
		}
		return NewDirBucket(dir)
	case TargetS3:
		return newS3BucketFromEnv(ctx)
	case TargetGCS:
		return newGCSBucketFromEnv(ctx)
	default:
		return nil, fmt.Errorf("publish: unsupported target %q", target)
	}
}

func newS3BucketFromEnv(ctx context.Context) (Bucket, error) {
	bucket := os.Getenv("PUBLISH_S3_BUCKET")
	if bucket == "" {
		return nil, fmt.Errorf("publish: PUBLISH_S3_BUCKET is required for the s3 target")
	}
	region := os.Getenv("PUBLISH_S3_REGION")
	if region == "" {
		region = os.Getenv("AWS_REGION")
	}
	if region == "" {
		region = "us-east-1"
	}
	return NewS3Bucket(ctx, S3Config{
		Bucket:   bucket,
		Region:   region,
		Endpoint: os.Getenv("PUBLISH_S3_ENDPOINT"),
		Prefix:   os.Getenv("PUBLISH_S3_PREFIX"),
	})
}
