package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"devfolio/internal/apperr"
	"devfolio/internal/config"
	"devfolio/internal/database"
)

// Client wraps MinIO and exposes the asset-store contract: upload a blob
// and get back a reference, destroy a blob by its public id. Every remote
// call runs under a bounded timeout.
type Client struct {
	mc        *minio.Client
	bucket    string
	publicURL string
	timeout   time.Duration
}

// NewClient initializes the MinIO client and verifies the bucket exists.
func NewClient(cfg config.MinIOConfig) (*Client, error) {
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}

	publicURL := strings.TrimSuffix(cfg.PublicEndpoint, "/")
	if publicURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		publicURL = scheme + "://" + cfg.Endpoint
	}
	if _, err := url.Parse(publicURL); err != nil {
		return nil, fmt.Errorf("parse minio public endpoint: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout())
	defer cancel()

	exists, err := mc.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %q: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := mc.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("make bucket %q: %w", cfg.Bucket, err)
		}
	}

	return &Client{
		mc:        mc,
		bucket:    cfg.Bucket,
		publicURL: publicURL,
		timeout:   cfg.Timeout(),
	}, nil
}

// Upload stores the blob under <folder>/<uuid><ext> and returns the
// reference a record embeds. The object key is the asset's public id.
func (c *Client) Upload(ctx context.Context, folder, ext string, reader io.Reader, size int64, contentType string) (database.AssetRef, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	objectKey := strings.Trim(folder, "/") + "/" + uuid.NewString() + ext

	opts := minio.PutObjectOptions{ContentType: contentType}
	if _, err := c.mc.PutObject(ctx, c.bucket, objectKey, reader, size, opts); err != nil {
		return database.AssetRef{}, fmt.Errorf("put object %q: %w", objectKey, err)
	}

	return database.AssetRef{
		URL:      c.publicURL + "/" + c.bucket + "/" + objectKey,
		PublicID: objectKey,
	}, nil
}

// Destroy removes the object identified by publicID. Unlike a bare S3
// delete (which is silently idempotent), a missing object is reported as
// apperr.ErrNotFound so callers can tell "destroyed" from "was never there".
func (c *Client) Destroy(ctx context.Context, publicID string) error {
	publicID = strings.TrimSpace(publicID)
	if publicID == "" {
		return fmt.Errorf("destroy object: %w", apperr.ErrInvalidID)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if _, err := c.mc.StatObject(ctx, c.bucket, publicID, minio.StatObjectOptions{}); err != nil {
		if IsNoSuchKey(err) {
			return fmt.Errorf("object %q: %w", publicID, apperr.ErrNotFound)
		}
		return fmt.Errorf("stat object %q: %w", publicID, err)
	}

	if err := c.mc.RemoveObject(ctx, c.bucket, publicID, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %q: %w", publicID, err)
	}
	return nil
}
