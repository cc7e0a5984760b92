package mediaservice

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// PublicURL is the base the objects are served from. Defaults to the endpoint.
	PublicURL string
}

type MinioStore struct {
	urlMapper
	client *minio.Client
	bucket string
}

// NewMinioStore connects to the object store and creates the bucket when it does not exist yet.
func NewMinioStore(ctx context.Context, cfg MinioConfig) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("could not check bucket: %w", err)
	}

	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("could not create bucket: %w", err)
		}
	}

	publicBase := cfg.PublicURL
	if publicBase == "" {
		publicBase = client.EndpointURL().String()
	}

	return &MinioStore{
		urlMapper: newURLMapper(publicBase, cfg.Bucket),
		client:    client,
		bucket:    cfg.Bucket,
	}, nil
}

func (s *MinioStore) Put(ctx context.Context, path string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, path, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("could not upload object: %w", err)
	}

	return nil
}

func (s *MinioStore) Delete(ctx context.Context, path string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, path, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("could not delete object: %w", err)
	}

	return nil
}

// Stat returns the stored size and content type of an object.
func (s *MinioStore) Stat(ctx context.Context, path string) (int64, string, error) {
	info, err := s.client.StatObject(ctx, s.bucket, path, minio.StatObjectOptions{})
	if err != nil {
		return 0, "", fmt.Errorf("could not stat object: %w", err)
	}

	return info.Size, info.ContentType, nil
}
