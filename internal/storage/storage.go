package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// ErrNotExist is returned by Get when nothing is stored at the path
var ErrNotExist = errors.New("storage: object does not exist")

// Storage is the byte store behind submission attachments.
// Paths are slash-separated keys relative to the storage root.
type Storage interface {
	Save(ctx context.Context, path string, reader io.Reader, contentType string) error
	Get(ctx context.Context, path string) (io.ReadCloser, error)
	// Delete is a no-op for a missing path
	Delete(ctx context.Context, path string) error
	Exists(ctx context.Context, path string) (bool, error)
}

// Config holds storage configuration
type Config struct {
	Type      string // local, s3, cloudflare_r2
	BasePath  string // local root directory
	Bucket    string // s3 / r2
	Region    string // s3 only, r2 always uses "auto"
	AccessKey string
	SecretKey string
	Endpoint  string // required for r2, optional for s3-compatible servers
}

// NewStorage creates a storage backend based on configuration
func NewStorage(cfg Config) (Storage, error) {
	switch cfg.Type {
	case "", "local":
		return NewLocalStorage(cfg)
	case "s3":
		return NewS3Storage(cfg)
	case "cloudflare_r2":
		if cfg.Endpoint == "" {
			return nil, fmt.Errorf("endpoint is required for Cloudflare R2")
		}
		cfg.Region = "auto"
		return NewS3Storage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
