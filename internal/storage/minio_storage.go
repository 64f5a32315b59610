package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/fhuszti/recordings-ms-go/internal/logger"
	"github.com/fhuszti/recordings-ms-go/internal/port"
	"github.com/fhuszti/recordings-ms-go/internal/uuid"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinioStore struct {
	client       minioClient
	bucketName   string
	publicURL    string
	cacheControl string
}

type Strg struct {
	Client   minioClient
	endpoint string
	useSSL   bool
}

// compile-time check: *MinioStore must satisfy port.ObjectStore
var _ port.ObjectStore = (*MinioStore)(nil)

func NewMinioClient(endpoint, accessKey, secretKey string, useSSL bool) (*Strg, error) {
	logger.Info(context.Background(), "initialising minio client", "endpoint", endpoint)
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, mapMinioErr(err)
	}
	return &Strg{Client: client, endpoint: endpoint, useSSL: useSSL}, nil
}

// WithBucket makes sure the bucket exists and binds a store to it. An empty
// publicURL falls back to path-style addressing on the MinIO endpoint. With
// ACLPublicRead the bucket policy lets anyone fetch objects by key.
func (c *Strg) WithBucket(ctx context.Context, bucket, publicURL, cacheControl, acl string) (*MinioStore, error) {
	ok, err := c.Client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, mapMinioErr(err)
	}
	if !ok {
		logger.Info(ctx, "bucket does not exist, creating it", "bucket", bucket)
		if err := c.Client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, mapMinioErr(err)
		}
	}

	if acl == ACLPublicRead {
		logger.Info(ctx, "granting anonymous read on bucket", "bucket", bucket)
		if err := c.Client.SetBucketPolicy(ctx, bucket, publicReadPolicy(bucket)); err != nil {
			return nil, mapMinioErr(err)
		}
	}

	if publicURL == "" {
		scheme := "http"
		if c.useSSL {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s/%s", scheme, c.endpoint, bucket)
	}

	return &MinioStore{
		client:       c.Client,
		bucketName:   bucket,
		publicURL:    publicURL,
		cacheControl: cacheControl,
	}, nil
}

func (s *MinioStore) Save(ctx context.Context, id uuid.UUID, contentType string, data []byte) error {
	logger.Debug(ctx, "saving recording into bucket", "id", id, "bucket", s.bucketName, "size", len(data))

	opts := minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: s.cacheControl,
	}
	_, err := s.client.PutObject(ctx, s.bucketName, id.String(), bytes.NewReader(data), int64(len(data)), opts)
	return mapMinioErr(err)
}

func (s *MinioStore) Delete(ctx context.Context, id uuid.UUID) error {
	logger.Debug(ctx, "removing recording from bucket", "id", id, "bucket", s.bucketName)

	err := s.client.RemoveObject(ctx, s.bucketName, id.String(), minio.RemoveObjectOptions{})
	return mapMinioErr(err)
}

func (s *MinioStore) URLFor(id uuid.UUID) (string, error) {
	return objectURL(s.publicURL, id)
}
