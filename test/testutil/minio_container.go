package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/ory/dockertest/v3"

	"github.com/fhuszti/recordings-ms-go/internal/storage"
)

type MinIOContainerInfo struct {
	Endpoint string
	Client   *storage.Strg
	Cleanup  func()
}

func StartMinIOContainer() (*MinIOContainerInfo, error) {
	const (
		rootUser     = "minioadmin"
		rootPassword = "minioadmin"
	)

	var (
		endpoint string
		client   *storage.Strg
	)
	cleanup, err := startContainer("minio", &dockertest.RunOptions{
		Repository: "minio/minio",
		Tag:        "latest",
		Env: []string{
			"MINIO_ROOT_USER=" + rootUser,
			"MINIO_ROOT_PASSWORD=" + rootPassword,
		},
		Cmd: []string{"server", "/data"},
	}, func(res *dockertest.Resource) error {
		endpoint = fmt.Sprintf("localhost:%s", res.GetPort("9000/tcp"))
		c, err := storage.NewMinioClient(endpoint, rootUser, rootPassword, false)
		if err != nil {
			return err
		}
		// a bucket lookup is enough to prove the API answers
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if _, err := c.Client.BucketExists(ctx, "healthcheck"); err != nil {
			return err
		}
		client = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &MinIOContainerInfo{Endpoint: endpoint, Client: client, Cleanup: cleanup}, nil
}
