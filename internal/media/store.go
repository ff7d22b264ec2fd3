// Package media stores user-uploaded images (post images, profile pictures)
// in an S3-compatible bucket and hands back public URLs.
package media

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"clanci-blog/internal/config"
	"clanci-blog/internal/domain"
)

type objectAPI interface {
	PutObject(ctx context.Context, bucket, object string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucket, object string, opts minio.RemoveObjectOptions) error
}

type Store struct {
	client  objectAPI
	bucket  string
	baseURL string
	logger  *zap.Logger
}

func NewStore(ctx context.Context, cfg config.MediaConfig, logger *zap.Logger) (*Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client for %s: %w", cfg.Endpoint, err)
	}

	if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
		exists, existsErr := client.BucketExists(ctx, cfg.Bucket)
		if existsErr != nil || !exists {
			return nil, fmt.Errorf("make bucket %s: %w", cfg.Bucket, err)
		}
	}

	return &Store{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: client.EndpointURL().String(),
		logger:  logger.Named("MediaStore"),
	}, nil
}

// Upload stores the image under folder/<uuid><ext> and returns its URL.
func (s *Store) Upload(ctx context.Context, folder, fileName, contentType string, r io.Reader, size int64) (string, error) {
	key := fmt.Sprintf("%s/%s%s", folder, uuid.NewString(), strings.ToLower(filepath.Ext(fileName)))

	info, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		s.logger.Error("upload failed", zap.String("key", key), zap.Error(err))
		return "", fmt.Errorf("%w: %v", domain.ErrMedia, err)
	}
	s.logger.Info("image uploaded", zap.String("key", info.Key), zap.Int64("size", info.Size))
	return s.urlFor(key), nil
}

// Delete removes the object behind a URL returned by Upload. URLs that do not
// point into the bucket are ignored.
func (s *Store) Delete(ctx context.Context, url string) error {
	key, ok := s.keyFor(url)
	if !ok {
		return nil
	}
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		s.logger.Error("delete failed", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("remove object %s: %w", key, err)
	}
	return nil
}

func (s *Store) urlFor(key string) string {
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.baseURL, "/"), s.bucket, key)
}

func (s *Store) keyFor(url string) (string, bool) {
	prefix := fmt.Sprintf("%s/%s/", strings.TrimRight(s.baseURL, "/"), s.bucket)
	if url == "" || !strings.HasPrefix(url, prefix) {
		return "", false
	}
	return strings.TrimPrefix(url, prefix), true
}

// ValidateImage rejects anything that is not an image or is larger than max bytes.
func ValidateImage(size int64, contentType string, max int64) error {
	if size <= 0 || size > max || !strings.HasPrefix(contentType, "image/") {
		return fmt.Errorf("%w: invalid file type or size", domain.ErrValidation)
	}
	return nil
}
