// Package storage archives run artifacts (CSV exports, payload dumps,
// failure screenshots) to a pluggable blob backend.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	// ErrNotFound is returned when no artifact exists under a key.
	ErrNotFound = errors.New("artifact not found")

	// ErrInvalidKey is returned for empty keys or keys escaping the
	// archive root.
	ErrInvalidKey = errors.New("invalid artifact key")
)

// BlobStorage stores and retrieves run artifacts by key. Keys are
// slash-separated relative paths like "runs/<run-id>/results.csv".
type BlobStorage interface {
	Upload(ctx context.Context, key string, r io.Reader) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Exists(ctx context.Context, key string) (bool, error)
	URL(ctx context.Context, key string) (string, error)
}

// Config selects and parameterizes a backend.
type Config struct {
	Backend  string // "local" or "s3"
	LocalDir string
	Bucket   string
	Prefix   string
	Region   string
}

// NewBlobStorage builds the backend named by cfg.Backend.
func NewBlobStorage(cfg Config) (BlobStorage, error) {
	switch strings.ToLower(cfg.Backend) {
	case "local":
		if cfg.LocalDir == "" {
			return nil, fmt.Errorf("local backend requires a base directory")
		}
		return NewLocalStorage(cfg.LocalDir)
	case "s3":
		if cfg.Bucket == "" {
			return nil, fmt.Errorf("s3 backend requires a bucket")
		}
		return NewS3Storage(cfg.Bucket, cfg.Prefix, cfg.Region)
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Backend)
	}
}

// UploadFile streams a local file into the archive under key.
func UploadFile(ctx context.Context, bs BlobStorage, key, localPath string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open artifact %s: %w", localPath, err)
	}
	defer f.Close()
	return bs.Upload(ctx, key, f)
}
