package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// BucketConfig describes an S3-compatible bucket. Empty credentials fall
// back to the default AWS credential chain.
type BucketConfig struct {
	Bucket      string
	Region      string
	Endpoint    string
	AccessKeyID string
	SecretKey   string
	PublicURL   string
	PathStyle   bool
}

// BucketStorage stores objects in an S3-compatible bucket.
type BucketStorage struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

func NewBucketStorage(ctx context.Context, cfg BucketConfig) (*BucketStorage, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("storage bucket name is required")
	}
	if (cfg.AccessKeyID == "") != (cfg.SecretKey == "") {
		return nil, fmt.Errorf("storage access key id and secret must be set together")
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.PathStyle
	})

	publicURL := strings.TrimSuffix(cfg.PublicURL, "/")
	if publicURL == "" && cfg.Endpoint == "" {
		publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}

	return &BucketStorage{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: publicURL,
	}, nil
}

func (s *BucketStorage) Put(ctx context.Context, key string, content io.Reader, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        content,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return s.URL(key), nil
}

// Delete is idempotent: S3 reports success for missing keys.
func (s *BucketStorage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (s *BucketStorage) URL(key string) string {
	if s.publicURL == "" {
		return key
	}
	return s.publicURL + "/" + key
}
