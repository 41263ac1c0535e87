// Package storage keeps product images in a local directory or an
// S3-compatible bucket (AWS S3 or Cloudflare R2).
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/dukerupert/stshop/internal"
)

// Storage stores objects under slash-separated keys such as
// "products/sencha/4f1c.jpg".
type Storage interface {
	// Put stores content under key and returns the public URL.
	Put(ctx context.Context, key string, content io.Reader, contentType string) (string, error)

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// URL is the public URL of key.
	URL(key string) string
}

// New picks the backend named by cfg.Provider.
func New(ctx context.Context, cfg internal.StorageConfig) (Storage, error) {
	switch cfg.Provider {
	case "local", "":
		return NewLocalStorage(cfg.LocalPath, cfg.LocalURL)
	case "s3":
		return NewBucketStorage(ctx, BucketConfig{
			Bucket:      cfg.Bucket,
			Region:      cfg.Region,
			Endpoint:    cfg.Endpoint,
			AccessKeyID: cfg.AccessKeyID,
			SecretKey:   cfg.SecretKey,
			PublicURL:   cfg.PublicURL,
		})
	case "r2":
		if cfg.R2AccountID == "" {
			return nil, fmt.Errorf("R2 account ID is required")
		}
		return NewBucketStorage(ctx, BucketConfig{
			Bucket:      cfg.Bucket,
			Region:      "auto",
			Endpoint:    fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.R2AccountID),
			AccessKeyID: cfg.AccessKeyID,
			SecretKey:   cfg.SecretKey,
			PublicURL:   cfg.PublicURL,
			PathStyle:   true,
		})
	default:
		return nil, fmt.Errorf("unknown storage provider: %s", cfg.Provider)
	}
}
