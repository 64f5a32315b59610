package integration

import (
	"database/sql"
	"testing"

	"github.com/fhuszti/recordings-ms-go/internal/migration"
	"github.com/fhuszti/recordings-ms-go/test/testutil"
)

// setupDB returns a migrated, throwaway database.
func setupDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := testutil.SetupTestDB()
	if err != nil {
		t.Fatalf("setup DB: %v", err)
	}
	t.Cleanup(func() { _ = testDB.Cleanup() })

	if err := migration.MigrateUp(testDB.DB); err != nil {
		t.Fatalf("could not run migrations: %v", err)
	}
	return testDB.DB
}

func setupBucket(t *testing.T) *testutil.TestBucket {
	t.Helper()

	b, err := testutil.SetupTestBucket(GlobalMinioClient)
	if err != nil {
		t.Fatalf("setup bucket: %v", err)
	}
	t.Cleanup(func() { _ = b.Cleanup() })
	return b
}
