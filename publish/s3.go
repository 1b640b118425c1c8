package publish

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Bucket publishes to AWS S3 or any S3-compatible store.
type S3Bucket struct {
	client *s3.Client
	bucket string
	prefix string
}

// S3Config holds configuration for S3Bucket.
type S3Config struct {
	Bucket   string
	Region   string
	Endpoint string // Optional custom endpoint (MinIO, LocalStack, R2)
	Prefix   string
}

// NewS3Bucket loads the default AWS credential chain and returns a bucket.
func NewS3Bucket(ctx context.Context, cfg S3Config) (*S3Bucket, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("publish: load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3Bucket{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

func (b *S3Bucket) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.prefix + key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, ErrNotExist
		}
		return nil, fmt.Errorf("publish: s3 get %s: %w", key, err)
	}
	defer func() { _ = out.Body.Close() }()
	return io.ReadAll(out.Body)
}

func (b *S3Bucket) Put(ctx context.Context, key string, data []byte, meta ObjectMeta) error {
	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(b.bucket),
		Key:          aws.String(b.prefix + key),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String(meta.ContentType),
		CacheControl: aws.String(meta.CacheControl),
	})
	if err != nil {
		return fmt.Errorf("publish: s3 put %s: %w", key, err)
	}
	return nil
}

func (b *S3Bucket) Delete(ctx context.Context, key string) error {
	_, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.prefix + key),
	})
	if err != nil {
		return fmt.Errorf("publish: s3 delete %s: %w", key, err)
	}
	return nil
}
