package oss

import (
	"context"
	"fmt"
	"io"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
)

const defaultPresignExpiry = 3600 // seconds

// Storage publishes files to an Aliyun OSS bucket. URLs are presigned so
// the bucket can stay private.
type Storage struct {
	bucket        *oss.Bucket
	bucketName    string
	presignExpiry int64
}

// NewStorage creates an OSS storage for one bucket.
func NewStorage(endpoint, bucketName, accessKeyID, accessKeySecret string, presignExpiry int) (*Storage, error) {
	client, err := oss.New(endpoint, accessKeyID, accessKeySecret)
	if err != nil {
		return nil, fmt.Errorf("create oss client: %w", err)
	}

	bucket, err := client.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("get bucket: %w", err)
	}

	expiry := int64(presignExpiry)
	if expiry <= 0 {
		expiry = defaultPresignExpiry
	}

	return &Storage{
		bucket:        bucket,
		bucketName:    bucketName,
		presignExpiry: expiry,
	}, nil
}

func (s *Storage) Upload(ctx context.Context, key string, data io.Reader, size int64, contentType string) (string, error) {
	options := []oss.Option{oss.ContentType(contentType)}
	if err := s.bucket.PutObject(key, data, options...); err != nil {
		return "", fmt.Errorf("upload object: %w", err)
	}
	return s.GetURL(ctx, key)
}

func (s *Storage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	body, err := s.bucket.GetObject(key)
	if err != nil {
		return nil, fmt.Errorf("download object: %w", err)
	}
	return body, nil
}

func (s *Storage) Delete(ctx context.Context, key string) error {
	if err := s.bucket.DeleteObject(key); err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

func (s *Storage) GetURL(ctx context.Context, key string) (string, error) {
	url, err := s.bucket.SignURL(key, oss.HTTPGet, s.presignExpiry)
	if err != nil {
		return "", fmt.Errorf("sign url: %w", err)
	}
	return url, nil
}

func (s *Storage) Exists(ctx context.Context, key string) (bool, error) {
	exists, err := s.bucket.IsObjectExist(key)
	if err != nil {
		return false, fmt.Errorf("check object: %w", err)
	}
	return exists, nil
}

func (s *Storage) Type() string {
	return "oss"
}
