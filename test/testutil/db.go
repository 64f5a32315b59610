package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/fhuszti/recordings-ms-go/internal/db"
)

type TestDB struct {
	DB      *sql.DB
	Cleanup func() error
}

// SetupTestDB creates a uniquely named database on the server behind
// TEST_DB_DSN and opens it the way the services do.
func SetupTestDB() (*TestDB, error) {
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		return nil, fmt.Errorf("TEST_DB_DSN env-var not set")
	}

	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse DSN %q: %w", dsn, err)
	}

	dbName := fmt.Sprintf("%s_%d", cfg.DBName, time.Now().UnixNano())
	cfg.DBName = ""
	rootDB, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("open root DB: %w", err)
	}
	if _, err := rootDB.Exec("CREATE DATABASE " + dbName); err != nil {
		rootDB.Close()
		return nil, err
	}
	dropDB := func() error {
		defer rootDB.Close()
		if _, err := rootDB.Exec("DROP DATABASE " + dbName); err != nil {
			return fmt.Errorf("drop database %q: %w", dbName, err)
		}
		return nil
	}

	cfg.DBName = dbName
	database, err := db.New(context.Background(), db.Options{
		DSN:             cfg.FormatDSN(),
		MaxOpen:         10,
		MaxIdle:         5,
		ConnMaxLifetime: time.Minute,
		// migrations hold several statements per file
		MultiStatements: true,
	})
	if err != nil {
		_ = dropDB()
		return nil, fmt.Errorf("open test DB %q: %w", dbName, err)
	}

	cleanup := func() error {
		if err := database.Close(); err != nil {
			return err
		}
		return dropDB()
	}
	return &TestDB{DB: database.DB, Cleanup: cleanup}, nil
}
