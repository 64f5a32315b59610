package migration

import (
	"strings"
	"testing"
)

func TestGetPreviousVersionFromDirty(t *testing.T) {
	prev, err := previousVersion(3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prev != 2 {
		t.Errorf("prev = %d; want 2", prev)
	}

	if _, err := previousVersion(1); err == nil {
		t.Error("expected error for the first migration")
	}
	if _, err := previousVersion(99); err == nil {
		t.Error("expected error for an unknown version")
	}
}

func TestVersions(t *testing.T) {
	got, err := versions()
	if err != nil {
		t.Fatalf("versions: %v", err)
	}
	want := []uint64{1, 2, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("versions = %v; want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("versions[%d] = %d; want %d", i, got[i], want[i])
		}
	}
}

func TestMigrateDown_InvalidSteps(t *testing.T) {
	if err := MigrateDown(nil, 0); err == nil {
		t.Error("expected an error for zero steps")
	}
}

func TestMigrationsArePaired(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}
	ups, downs := map[string]bool{}, map[string]bool{}
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		}
	}
	if len(ups) == 0 {
		t.Fatal("no migrations embedded")
	}
	for base := range ups {
		if !downs[base] {
			t.Errorf("migration %s has no down file", base)
		}
	}
}
