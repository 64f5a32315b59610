package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"

	"github.com/fhuszti/recordings-ms-go/internal/storage"
)

type TestBucket struct {
	Name    string
	Store   *storage.MinioStore
	Cleanup func() error
}

// SetupTestBucket creates a fresh bucket and binds a store to it.
func SetupTestBucket(strg *storage.Strg) (*TestBucket, error) {
	ctx := context.Background()
	name := fmt.Sprintf("recordings-%d", time.Now().UnixNano())

	store, err := strg.WithBucket(ctx, name, "", "no-cache", storage.ACLPublicRead)
	if err != nil {
		return nil, fmt.Errorf("could not create bucket %q: %w", name, err)
	}

	client, ok := strg.Client.(*minio.Client)
	if !ok {
		return nil, fmt.Errorf("unexpected minio client type %T", strg.Client)
	}

	cleanup := func() error {
		// list and remove every object, then the bucket itself
		for obj := range client.ListObjects(ctx, name, minio.ListObjectsOptions{Recursive: true}) {
			if obj.Err != nil {
				continue
			}
			_ = client.RemoveObject(ctx, name, obj.Key, minio.RemoveObjectOptions{})
		}
		if err := client.RemoveBucket(ctx, name); err != nil {
			return fmt.Errorf("could not remove bucket %q: %w", name, err)
		}
		return nil
	}

	return &TestBucket{Name: name, Store: store, Cleanup: cleanup}, nil
}

// ObjectExists reports whether a recording's audio is in the bucket.
func ObjectExists(ctx context.Context, strg *storage.Strg, bucket, key string) (bool, error) {
	client, ok := strg.Client.(*minio.Client)
	if !ok {
		return false, fmt.Errorf("unexpected minio client type %T", strg.Client)
	}
	_, err := client.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return false, nil
	}
	return false, err
}
