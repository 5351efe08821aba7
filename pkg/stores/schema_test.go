package stores

import (
	"context"
	"errors"
	"testing"
)

func TestMigrate_Idempotent(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	// setupTestStore already migrated once; a second pass must be a no-op.
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("second Migrate failed: %v", err)
	}

	version, err := store.SchemaVersion(ctx)
	if err != nil {
		t.Fatalf("SchemaVersion failed: %v", err)
	}
	if version != 1 {
		t.Errorf("expected schema version 1, got %d", version)
	}
}

func TestIsSeeded(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	seeded, err := store.IsSeeded(ctx)
	if err != nil {
		t.Fatalf("IsSeeded failed: %v", err)
	}
	if seeded {
		t.Error("fresh store should not be seeded")
	}

	addTestQuote(t, store, "first", "author")

	seeded, err = store.IsSeeded(ctx)
	if err != nil {
		t.Fatalf("IsSeeded failed: %v", err)
	}
	if !seeded {
		t.Error("store with a quote should be seeded")
	}
}

func TestIsSeeded_BeforeMigration(t *testing.T) {
	store, err := NewSQLiteStore(Config{Path: ":memory:"})
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	ctx := context.Background()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	// No schema yet: not seeded, not an error.
	seeded, err := store.IsSeeded(ctx)
	if err != nil {
		t.Fatalf("IsSeeded failed: %v", err)
	}
	if seeded {
		t.Error("unmigrated store should not report seeded")
	}

	version, err := store.SchemaVersion(ctx)
	if err != nil {
		t.Fatalf("SchemaVersion failed: %v", err)
	}
	if version != 0 {
		t.Errorf("unmigrated store should report version 0, got %d", version)
	}
}

func TestMigrateSchema_Unsupported(t *testing.T) {
	store := setupTestStore(t)

	err := store.MigrateSchema(context.Background(), 1, 2)
	if !errors.Is(err, ErrMigrationUnsupported) {
		t.Errorf("expected ErrMigrationUnsupported, got %v", err)
	}
}
