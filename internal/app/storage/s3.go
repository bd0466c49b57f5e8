package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"nickchat/internal/pkg/logx"
	"nickchat/internal/pkg/randx"
)

// s3Client implements StorageService on top of an S3-compatible bucket.
type s3Client struct {
	cfg      ServiceConfig
	s3Client *s3.Client
	uploader *manager.Uploader
}

// newS3Client initializes the S3 client using a custom configuration that supports S3-compatible endpoints.
func newS3Client(ctx context.Context, cfg ServiceConfig) (*s3Client, error) {
	if cfg.S3BucketName == "" || cfg.S3Endpoint == "" || cfg.S3PublicURL == "" {
		return nil, errors.New("bucket, endpoint and public URL are required for the s3 storage driver")
	}

	sdkCfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKeyID,
			cfg.S3SecretAccessKey,
			"",
		)),
		config.WithRegion("auto"),
	)
	if err != nil {
		logx.Error(err, "Failed to load AWS SDK config")
		return nil, errors.New("failed to initialize S3 client configuration")
	}

	client := s3.NewFromConfig(sdkCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		o.UsePathStyle = true
	})

	cfg.S3PublicURL = strings.TrimRight(cfg.S3PublicURL, "/")

	return &s3Client{
		cfg:      cfg,
		s3Client: client,
		uploader: manager.NewUploader(client),
	}, nil
}

func (c *s3Client) objectKey(name string) string {
	return S3KeyPrefix + "/" + name
}

// Save uploads body as avatars/<name> and returns its public URL.
func (c *s3Client) Save(ctx context.Context, name string, mimeType string, size int64, body io.Reader) (string, error) {
	if !randx.IsPhotoName(name) {
		return "", fmt.Errorf("refusing to store object with name %q", name)
	}

	key := c.objectKey(name)

	_, err := c.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.cfg.S3BucketName),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(mimeType),
	})
	if err != nil {
		logx.Error(err, "S3 upload failed", "key", key, "size", size)
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	return c.cfg.S3PublicURL + "/" + key, nil
}

// Delete removes the object behind a public URL produced by Save.
func (c *s3Client) Delete(ctx context.Context, ref string) error {
	key, ok := strings.CutPrefix(ref, c.cfg.S3PublicURL+"/")
	if !ok {
		return ErrInvalidReference
	}

	name, ok := strings.CutPrefix(key, S3KeyPrefix+"/")
	if !ok || !randx.IsPhotoName(name) {
		return ErrInvalidReference
	}

	_, err := c.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.cfg.S3BucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		logx.Error(err, "S3 delete failed", "key", key)
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}

	return nil
}
