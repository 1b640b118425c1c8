//go:build !gcp

package publish

import (
	"context"
	"fmt"
)

func newGCSBucketFromEnv(context.Context) (Bucket, error) {
	return nil, fmt.Errorf("publish: gcs target is not enabled in this build (use -tags gcp)")
}
