package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/ory/dockertest/v3"

	"github.com/fhuszti/recordings-ms-go/internal/db"
)

type MariaDBContainerInfo struct {
	DSN     string
	Cleanup func()
}

func StartMariaDBContainer() (*MariaDBContainerInfo, error) {
	const rootPassword = "root"

	var dsn string
	cleanup, err := startContainer("mariadb", &dockertest.RunOptions{
		Repository: "mariadb",
		Tag:        "10.11",
		Env:        []string{"MARIADB_ROOT_PASSWORD=" + rootPassword},
		Cmd:        []string{"--character-set-server=utf8mb4", "--collation-server=utf8mb4_bin"},
	}, func(res *dockertest.Resource) error {
		dsn = fmt.Sprintf("root:%s@tcp(localhost:%s)/recordings_test", rootPassword, res.GetPort("3306/tcp"))
		// the schema does not exist yet, so probe the server's own one
		probe := fmt.Sprintf("root:%s@tcp(localhost:%s)/mysql", rootPassword, res.GetPort("3306/tcp"))
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		database, err := db.New(ctx, db.Options{DSN: probe, MaxOpen: 1, MaxIdle: 1})
		if err != nil {
			return err
		}
		return database.Close()
	})
	if err != nil {
		return nil, err
	}
	return &MariaDBContainerInfo{DSN: dsn, Cleanup: cleanup}, nil
}
