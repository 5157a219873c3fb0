package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"bookswap/internal/apperrors"
	"bookswap/internal/config"
)

// Storage is the image hosting adapter. Uploads return a stable object name
// (the deletion handle) and a public URL stored on the book.
type Storage interface {
	UploadImage(ctx context.Context, fileName, contentType string, file io.Reader, size int64) (string, string, error)
	DeleteImage(ctx context.Context, objectName string) error
}

const opTimeout = 10 * time.Second

type MinIOClient struct {
	client *minio.Client
	cfg    *config.Config
}

func NewMinIOClient(cfg *config.Config) (*MinIOClient, error) {
	client, err := minio.New(cfg.MinIO.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
		Secure: cfg.MinIO.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("creating MinIO client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.MinIO.Bucket)
	if err != nil {
		return nil, fmt.Errorf("checking bucket %s: %w", cfg.MinIO.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinIO.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("creating bucket %s: %w", cfg.MinIO.Bucket, err)
		}
	}

	return &MinIOClient{client: client, cfg: cfg}, nil
}

func (m *MinIOClient) UploadImage(ctx context.Context, fileName, contentType string, file io.Reader, size int64) (string, string, error) {
	fileExt := strings.ToLower(filepath.Ext(fileName))
	if fileExt == "" {
		fileExt = ".jpg"
	}

	objectName := fmt.Sprintf("books/%s%s", uuid.New().String(), fileExt)

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	_, err := m.client.PutObject(ctx, m.cfg.MinIO.Bucket, objectName, file, size,
		minio.PutObjectOptions{
			ContentType: contentType,
			UserMetadata: map[string]string{
				"original-filename": fileName,
			},
		})
	if err != nil {
		return "", "", fmt.Errorf("%w: uploading image: %v", apperrors.ErrUnavailable, err)
	}

	return objectName, m.objectURL(objectName), nil
}

func (m *MinIOClient) DeleteImage(ctx context.Context, objectName string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	err := m.client.RemoveObject(ctx, m.cfg.MinIO.Bucket, objectName, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("%w: deleting image: %v", apperrors.ErrUnavailable, err)
	}
	return nil
}

func (m *MinIOClient) objectURL(objectName string) string {
	base := m.cfg.MinIO.PublicURL
	if base == "" {
		scheme := "http"
		if m.cfg.MinIO.UseSSL {
			scheme = "https"
		}
		base = fmt.Sprintf("%s://%s", scheme, m.cfg.MinIO.Endpoint)
	}
	return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(base, "/"), m.cfg.MinIO.Bucket, objectName)
}
