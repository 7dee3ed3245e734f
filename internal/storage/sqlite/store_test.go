package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/samdwyer/warband/internal/storage"
)

func openTestStore(t *testing.T, path string) *Store {
	t.Helper()
	s, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStoreSaveLoad(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, filepath.Join(t.TempDir(), "warband.db"))

	if _, err := s.Load(ctx, storage.SettingsKey); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Load(missing) error = %v, want ErrNotFound", err)
	}

	if err := s.Save(ctx, storage.SettingsKey, `{"confirmClear":true}`); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := s.Save(ctx, storage.SettingsKey, `{"confirmClear":false}`); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := s.Load(ctx, storage.SettingsKey)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got != `{"confirmClear":false}` {
		t.Errorf("Load = %s, want latest value", got)
	}
}

func TestStoreReopenKeepsDataAndMigrations(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "warband.db")

	first, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := first.Save(ctx, storage.EnemiesKey, `[]`); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	second := openTestStore(t, path)
	got, err := second.Load(ctx, storage.EnemiesKey)
	if err != nil {
		t.Fatalf("Load after reopen failed: %v", err)
	}
	if got != `[]` {
		t.Errorf("Load after reopen = %s, want []", got)
	}

	var applied int
	if err := second.sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations`).Scan(&applied); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if applied != 1 {
		t.Errorf("applied migrations = %d, want 1", applied)
	}
}

func TestExtractUpMigration(t *testing.T) {
	content := "-- +migrate Up\nCREATE TABLE x (id INTEGER);\n-- +migrate Down\nDROP TABLE x;\n"
	got := extractUpMigration(content)
	if got != "\nCREATE TABLE x (id INTEGER);\n" {
		t.Errorf("extractUpMigration = %q", got)
	}
	if extractUpMigration("SELECT 1;") != "SELECT 1;" {
		t.Error("content without markers should be returned unchanged")
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open(context.Background(), ""); err == nil {
		t.Error("Open(\"\") error = nil, want error")
	}
}
