package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/fhuszti/recordings-ms-go/internal/logger"
	"github.com/fhuszti/recordings-ms-go/internal/port"
	"github.com/fhuszti/recordings-ms-go/internal/usecase/recording"
	"github.com/fhuszti/recordings-ms-go/internal/uuid"
)

// S3Store keeps recordings in an AWS S3 bucket or any S3-compatible service.
type S3Store struct {
	client       s3API
	bucket       string
	publicURL    string
	cacheControl string
	acl          string
}

// S3Config holds what NewS3Store needs to reach the bucket.
type S3Config struct {
	Region       string
	Bucket       string
	AccessKey    string
	SecretKey    string
	Endpoint     string // optional, for S3-compatible services
	PublicURL    string // optional, overrides the derived bucket URL
	CacheControl string
	ACL          string // canned ACL applied to every object
}

// compile-time check: *S3Store must satisfy port.ObjectStore
var _ port.ObjectStore = (*S3Store)(nil)

func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	logger.Info(ctx, "initialising s3 client", "bucket", cfg.Bucket, "region", cfg.Region, "endpoint", cfg.Endpoint)

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var client *s3.Client
	if cfg.Endpoint != "" {
		client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	} else {
		client = s3.NewFromConfig(awsCfg)
	}

	publicURL := cfg.PublicURL
	if publicURL == "" {
		if cfg.Endpoint == "" {
			publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
		} else {
			publicURL = strings.TrimSuffix(cfg.Endpoint, "/") + "/" + cfg.Bucket
		}
	}

	store := &S3Store{
		client:       client,
		bucket:       cfg.Bucket,
		publicURL:    publicURL,
		cacheControl: cfg.CacheControl,
		acl:          cfg.ACL,
	}
	if err := store.ensureBucket(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *S3Store) ensureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err == nil {
		return nil
	}
	if mapped := mapS3Err(err); !errors.Is(mapped, recording.ErrObjectNotFound) && !errors.Is(mapped, recording.ErrBucketNotFound) {
		return mapped
	}

	logger.Info(ctx, "bucket does not exist, creating it", "bucket", s.bucket)
	if _, err := s.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(s.bucket)}); err != nil {
		return mapS3Err(err)
	}
	return nil
}

func (s *S3Store) Save(ctx context.Context, id uuid.UUID, contentType string, data []byte) error {
	logger.Debug(ctx, "saving recording into bucket", "id", id, "bucket", s.bucket, "size", len(data))

	in := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(id.String()),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	}
	if s.cacheControl != "" {
		in.CacheControl = aws.String(s.cacheControl)
	}
	if s.acl != "" && s.acl != ACLPrivate {
		in.ACL = types.ObjectCannedACL(s.acl)
	}
	_, err := s.client.PutObject(ctx, in)
	return mapS3Err(err)
}

func (s *S3Store) Delete(ctx context.Context, id uuid.UUID) error {
	logger.Debug(ctx, "removing recording from bucket", "id", id, "bucket", s.bucket)

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(id.String()),
	})
	return mapS3Err(err)
}

func (s *S3Store) URLFor(id uuid.UUID) (string, error) {
	return objectURL(s.publicURL, id)
}
