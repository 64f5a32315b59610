package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
)

const pingTimeout = 5 * time.Second

// Options configures the MariaDB connection pool.
type Options struct {
	DSN             string
	MaxOpen         int
	MaxIdle         int
	ConnMaxLifetime time.Duration
	// MultiStatements is needed by the migration runner only.
	MultiStatements bool
}

// Database holds the SQL connection pool.
type Database struct {
	*sql.DB
}

// New opens a pool on the MariaDB server described by opts and checks that
// it answers.
func New(ctx context.Context, opts Options) (*Database, error) {
	cfg, err := driverConfig(opts)
	if err != nil {
		return nil, err
	}
	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, err
	}
	db := sql.OpenDB(connector)

	db.SetMaxOpenConns(opts.MaxOpen)
	db.SetMaxIdleConns(opts.MaxIdle)
	db.SetConnMaxLifetime(opts.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		if cErr := db.Close(); cErr != nil {
			return nil, cErr
		}
		return nil, err
	}
	return &Database{db}, nil
}

// driverConfig parses the DSN and forces the settings the repositories rely
// on: DATETIME columns scan into time.Time in UTC.
func driverConfig(opts Options) (*mysql.Config, error) {
	cfg, err := mysql.ParseDSN(opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("invalid MariaDB DSN: %w", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	if opts.MultiStatements {
		cfg.MultiStatements = true
	}
	return cfg, nil
}
