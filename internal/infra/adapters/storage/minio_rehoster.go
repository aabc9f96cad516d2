package storage

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
	"sync"

	"github.com/go-resty/resty/v2"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"webforge/internal/config"
	"webforge/internal/domain/model"
	"webforge/internal/domain/ports/adapter"
)

// MinioRehoster downloads an image from its origin and re-uploads it to an
// S3-compatible bucket, returning a stable public URL. Bucket creation is
// lazy so construction stays cheap and offline-safe.
type MinioRehoster struct {
	client     *minio.Client
	httpClient *resty.Client
	bucket     string
	region     string
	publicBase string
	secure     bool
	endpoint   string

	bucketOnce sync.Once
	bucketErr  error
}

var _ adapter.AssetRehoster = (*MinioRehoster)(nil)

func NewMinioRehoster(cfg config.StorageConfig) (*MinioRehoster, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, errors.New("storage endpoint and bucket are required")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	return &MinioRehoster{
		client:     client,
		httpClient: resty.New(),
		bucket:     cfg.Bucket,
		region:     cfg.Region,
		publicBase: strings.TrimRight(cfg.PublicBaseURL, "/"),
		secure:     cfg.UseSSL,
		endpoint:   cfg.Endpoint,
	}, nil
}

func (r *MinioRehoster) ensureBucket(ctx context.Context) error {
	r.bucketOnce.Do(func() {
		exists, err := r.client.BucketExists(ctx, r.bucket)
		if err != nil {
			r.bucketErr = fmt.Errorf("check bucket: %w", err)
			return
		}
		if !exists {
			r.bucketErr = r.client.MakeBucket(ctx, r.bucket, minio.MakeBucketOptions{Region: r.region})
		}
	})
	return r.bucketErr
}

func (r *MinioRehoster) Rehost(ctx context.Context, siteID string, img model.ImageRef) (string, error) {
	if err := r.ensureBucket(ctx); err != nil {
		return "", err
	}

	resp, err := r.httpClient.R().SetContext(ctx).Get(img.URL)
	if err != nil {
		return "", fmt.Errorf("download image: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("download image: http %d", resp.StatusCode())
	}
	body := resp.Body()
	if len(body) == 0 {
		return "", errors.New("download image: empty body")
	}

	contentType := resp.Header().Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(body)
	}

	key := objectKey(siteID, img.URL, contentType)
	_, err = r.client.PutObject(ctx, r.bucket, key, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	return r.publicURL(key), nil
}

// objectKey derives a deterministic key from the source URL so rehosting the
// same image twice overwrites rather than accumulates.
func objectKey(siteID, rawURL, contentType string) string {
	sum := sha1.Sum([]byte(rawURL))
	name := hex.EncodeToString(sum[:])[:16]
	return path.Join("sites", siteID, name+extensionFor(rawURL, contentType))
}

func extensionFor(rawURL, contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/svg+xml":
		return ".svg"
	}
	if u, err := url.Parse(rawURL); err == nil {
		if ext := path.Ext(u.Path); ext != "" && len(ext) <= 5 {
			return ext
		}
	}
	return ".img"
}

func (r *MinioRehoster) publicURL(key string) string {
	if r.publicBase != "" {
		return r.publicBase + "/" + key
	}
	scheme := "http"
	if r.secure {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, r.endpoint, r.bucket, key)
}
