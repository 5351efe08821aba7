package seed

import (
	"context"
	"testing"

	"github.com/quotevault/quotevault/pkg/stores"
	"github.com/quotevault/quotevault/pkg/telemetry"
)

func setupTestStore(t *testing.T) *stores.SQLiteStore {
	t.Helper()

	store, err := stores.NewSQLiteStore(stores.Config{Path: ":memory:"})
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	ctx := context.Background()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to migrate store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testLogger() *telemetry.Logger {
	return telemetry.NewLogger(telemetry.LoggingConfig{Level: "error", Format: "json"})
}

func TestSeed(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	added, total, err := Seed(ctx, store, testLogger(), false)
	if err != nil {
		t.Fatalf("Seed failed: %v", err)
	}
	if added != len(Quotes) {
		t.Errorf("expected %d quotes added, got %d", len(Quotes), added)
	}
	if total != len(Quotes) {
		t.Errorf("expected %d quotes total, got %d", len(Quotes), total)
	}

	// Every entry carries source, year, and at least one tag.
	all, err := store.ListQuotes(ctx)
	if err != nil {
		t.Fatalf("ListQuotes failed: %v", err)
	}
	for _, q := range all {
		if q.Source == nil || q.Year == nil || len(q.Tags) == 0 {
			t.Errorf("quote %d missing metadata: source=%v year=%v tags=%v",
				q.ID, q.Source, q.Year, q.Tags)
		}
	}
}

func TestSeed_Idempotent(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	if _, _, err := Seed(ctx, store, testLogger(), false); err != nil {
		t.Fatalf("first Seed failed: %v", err)
	}

	added, total, err := Seed(ctx, store, testLogger(), false)
	if err != nil {
		t.Fatalf("second Seed failed: %v", err)
	}
	if added != 0 {
		t.Errorf("expected no quotes added on re-seed, got %d", added)
	}
	if total != len(Quotes) {
		t.Errorf("expected %d quotes total, got %d", len(Quotes), total)
	}
}

func TestSeed_SkipsNonEmptyCatalog(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	if _, err := store.AddQuote(ctx, stores.NewQuote{Text: "existing", Author: "someone"}); err != nil {
		t.Fatalf("AddQuote failed: %v", err)
	}

	added, total, err := Seed(ctx, store, testLogger(), false)
	if err != nil {
		t.Fatalf("Seed failed: %v", err)
	}
	if added != 0 {
		t.Errorf("expected no quotes added, got %d", added)
	}
	if total != 1 {
		t.Errorf("expected 1 quote total, got %d", total)
	}
}

func TestSeed_Force(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	if _, _, err := Seed(ctx, store, testLogger(), false); err != nil {
		t.Fatalf("first Seed failed: %v", err)
	}

	added, total, err := Seed(ctx, store, testLogger(), true)
	if err != nil {
		t.Fatalf("forced Seed failed: %v", err)
	}
	if added != len(Quotes) {
		t.Errorf("expected %d quotes added under force, got %d", len(Quotes), added)
	}
	if total != 2*len(Quotes) {
		t.Errorf("expected %d quotes total, got %d", 2*len(Quotes), total)
	}
}
