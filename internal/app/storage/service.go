/*
Package storage stores uploaded profile photos and yields a stable reference
(a URL path or absolute URL) that is saved on the user record.

Two drivers are available: "local" writes files under a statically served
directory, "s3" uploads to an S3-compatible bucket.
*/
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
)

const (
	// DriverLocal stores files on the local filesystem.
	DriverLocal = "local"

	// DriverS3 stores files in an S3-compatible bucket.
	DriverS3 = "s3"

	// LocalURLPrefix is the URL path under which local files are served.
	LocalURLPrefix = "/uploads"

	// S3KeyPrefix is the object key prefix for avatars in the bucket.
	S3KeyPrefix = "avatars"
)

// ErrInvalidReference is returned by Delete when the reference was not produced by this service.
var ErrInvalidReference = errors.New("storage: reference not owned by this service")

// ServiceConfig holds the configuration required to connect to the storage service.
type ServiceConfig struct {
	Driver string

	// Local driver
	UploadDir string

	// S3 driver
	S3BucketName      string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3PublicURL       string
}

// StorageService defines the public interface for the photo storage service.
type StorageService interface {
	// Save stores body under name and returns the reference clients use to fetch it.
	Save(ctx context.Context, name string, mimeType string, size int64, body io.Reader) (string, error)

	// Delete removes the file behind a reference previously returned by Save.
	Delete(ctx context.Context, ref string) error
}

// NewStorageService is the factory function for StorageService.
// It initializes and returns the driver selected by cfg.Driver.
func NewStorageService(ctx context.Context, cfg ServiceConfig) (StorageService, error) {
	switch cfg.Driver {
	case DriverLocal, "":
		return newLocalStore(cfg.UploadDir)
	case DriverS3:
		return newS3Client(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
