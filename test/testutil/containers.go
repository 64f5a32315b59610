package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"github.com/fhuszti/recordings-ms-go/internal/logger"
)

const readyTimeout = 2 * time.Minute

var (
	poolOnce sync.Once
	pool     *dockertest.Pool
	poolErr  error
)

func dockerPool() (*dockertest.Pool, error) {
	poolOnce.Do(func() {
		pool, poolErr = dockertest.NewPool("")
		if poolErr != nil {
			poolErr = fmt.Errorf("could not connect to docker: %w", poolErr)
			return
		}
		pool.MaxWait = readyTimeout
	})
	return pool, poolErr
}

// startContainer runs opts and retries ready with the container's resource
// until it succeeds. The returned function purges the container.
func startContainer(name string, opts *dockertest.RunOptions, ready func(*dockertest.Resource) error) (func(), error) {
	p, err := dockerPool()
	if err != nil {
		return nil, err
	}

	resource, err := p.RunWithOptions(opts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		return nil, fmt.Errorf("could not start %s container: %w", name, err)
	}

	if err := p.Retry(func() error { return ready(resource) }); err != nil {
		_ = p.Purge(resource)
		return nil, fmt.Errorf("%s did not become ready: %w", name, err)
	}

	return func() {
		if err := p.Purge(resource); err != nil {
			logger.Warnf(context.Background(), "could not purge %s container: %s", name, err)
		}
	}, nil
}
