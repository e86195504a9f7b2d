package publish

import (
	"context"
	"fmt"
	"mime"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"meeting-recap/internal/app/config"
)

// MinioPublisher uploads digests to an S3-compatible bucket.
type MinioPublisher struct {
	client   *minio.Client
	bucket   string
	prefix   string
	endpoint string
	useSSL   bool
}

// NewMinioPublisher creates the client. No request is made until Publish.
func NewMinioPublisher(cfg config.PublishConfig) (*MinioPublisher, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("publish requires endpoint and bucket")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: "us-east-1",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	return &MinioPublisher{
		client:   client,
		bucket:   cfg.Bucket,
		prefix:   cfg.Prefix,
		endpoint: cfg.Endpoint,
		useSSL:   cfg.UseSSL,
	}, nil
}

// ObjectKey is the bucket key for a local file.
func (p *MinioPublisher) ObjectKey(localPath string) string {
	return path.Join(strings.TrimSuffix(p.prefix, "/"), filepath.Base(localPath))
}

// Publish uploads localPath, creating the bucket on first use, and returns
// the object URL.
func (p *MinioPublisher) Publish(ctx context.Context, localPath string) (string, error) {
	exists, err := p.client.BucketExists(ctx, p.bucket)
	if err != nil {
		return "", fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := p.client.MakeBucket(ctx, p.bucket, minio.MakeBucketOptions{}); err != nil {
			return "", fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	key := p.ObjectKey(localPath)
	_, err = p.client.FPutObject(ctx, p.bucket, key, localPath, minio.PutObjectOptions{
		ContentType: contentType(localPath),
		UserMetadata: map[string]string{
			"published-at": time.Now().Format(time.RFC3339),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", filepath.Base(localPath), err)
	}

	return p.URL(key), nil
}

// URL returns the path-style URL of key.
func (p *MinioPublisher) URL(key string) string {
	protocol := "http"
	if p.useSSL {
		protocol = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", protocol, p.endpoint, p.bucket, key)
}

func contentType(localPath string) string {
	switch strings.ToLower(filepath.Ext(localPath)) {
	case ".md":
		return "text/markdown; charset=utf-8"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}
	if t := mime.TypeByExtension(filepath.Ext(localPath)); t != "" {
		return t
	}
	return "application/octet-stream"
}
