package stores

import (
	"context"
	"errors"
	"testing"
)

// setupTestStore creates an in-memory store with the schema applied.
func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := NewSQLiteStore(Config{Path: ":memory:"})
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

func addTestQuote(t *testing.T, store *SQLiteStore, text, author string, tags ...string) *Quote {
	t.Helper()

	quote, err := store.AddQuote(context.Background(), NewQuote{
		Text:   text,
		Author: author,
		Tags:   tags,
	})
	if err != nil {
		t.Fatalf("failed to add quote: %v", err)
	}
	return quote
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestAddQuote(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	quote, err := store.AddQuote(ctx, NewQuote{
		Text:   "  Don't Panic.  ",
		Author: " Douglas Adams ",
		Source: strPtr("The Hitchhiker's Guide to the Galaxy"),
		Year:   intPtr(1979),
		Tags:   []string{"humor", "wisdom"},
	})
	if err != nil {
		t.Fatalf("AddQuote failed: %v", err)
	}

	if quote.ID <= 0 {
		t.Errorf("expected positive ID, got %d", quote.ID)
	}
	if quote.Text != "Don't Panic." {
		t.Errorf("expected trimmed text, got %q", quote.Text)
	}
	if quote.Author != "Douglas Adams" {
		t.Errorf("expected trimmed author, got %q", quote.Author)
	}
	if quote.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}

	fetched, err := store.GetQuoteByID(ctx, quote.ID)
	if err != nil {
		t.Fatalf("GetQuoteByID failed: %v", err)
	}
	if fetched == nil {
		t.Fatal("expected quote, got nil")
	}
	if fetched.Text != "Don't Panic." {
		t.Errorf("round-trip text mismatch: %q", fetched.Text)
	}
	if fetched.Source == nil || *fetched.Source != "The Hitchhiker's Guide to the Galaxy" {
		t.Errorf("round-trip source mismatch: %v", fetched.Source)
	}
	if fetched.Year == nil || *fetched.Year != 1979 {
		t.Errorf("round-trip year mismatch: %v", fetched.Year)
	}
	if len(fetched.Tags) != 2 || fetched.Tags[0] != "humor" || fetched.Tags[1] != "wisdom" {
		t.Errorf("expected sorted tags [humor wisdom], got %v", fetched.Tags)
	}
}

func TestAddQuote_RejectsBlankInput(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, err := store.AddQuote(ctx, NewQuote{Text: "   ", Author: "Someone"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for blank text, got %v", err)
	}

	_, err = store.AddQuote(ctx, NewQuote{Text: "Something", Author: "\t\n"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for blank author, got %v", err)
	}
}

func TestAddQuote_NormalizesTags(t *testing.T) {
	store := setupTestStore(t)

	quote := addTestQuote(t, store, "text", "author", "b", "", "  ", "a", " b ")

	if len(quote.Tags) != 2 || quote.Tags[0] != "a" || quote.Tags[1] != "b" {
		t.Errorf("expected normalized tags [a b], got %v", quote.Tags)
	}
}

func TestAddQuote_SharesTagRows(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	addTestQuote(t, store, "first", "A", "shared")
	addTestQuote(t, store, "second", "B", "shared")

	tags, err := store.ListTags(ctx)
	if err != nil {
		t.Fatalf("ListTags failed: %v", err)
	}
	if len(tags) != 1 {
		t.Fatalf("expected one tag row, got %d", len(tags))
	}
	if tags[0].Name != "shared" || tags[0].Count != 2 {
		t.Errorf("expected shared:2, got %s:%d", tags[0].Name, tags[0].Count)
	}
}

func TestGetQuoteByID_NotFound(t *testing.T) {
	store := setupTestStore(t)

	quote, err := store.GetQuoteByID(context.Background(), 9999)
	if err != nil {
		t.Fatalf("GetQuoteByID failed: %v", err)
	}
	if quote != nil {
		t.Errorf("expected nil for missing quote, got %+v", quote)
	}
}

func TestListQuotes_MostRecentFirst(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	first := addTestQuote(t, store, "first", "A")
	second := addTestQuote(t, store, "second", "B")
	third := addTestQuote(t, store, "third", "C")

	quotes, err := store.ListQuotes(ctx)
	if err != nil {
		t.Fatalf("ListQuotes failed: %v", err)
	}
	if len(quotes) != 3 {
		t.Fatalf("expected 3 quotes, got %d", len(quotes))
	}
	if quotes[0].ID != third.ID || quotes[1].ID != second.ID || quotes[2].ID != first.ID {
		t.Errorf("expected most-recent-first order, got %d %d %d",
			quotes[0].ID, quotes[1].ID, quotes[2].ID)
	}
}

func TestListQuotesByAuthor(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	addTestQuote(t, store, "one", "Douglas Adams")
	addTestQuote(t, store, "two", "Terry Pratchett")
	addTestQuote(t, store, "three", "Douglas Adams")

	quotes, err := store.ListQuotesByAuthor(ctx, "Douglas Adams")
	if err != nil {
		t.Fatalf("ListQuotesByAuthor failed: %v", err)
	}
	if len(quotes) != 2 {
		t.Errorf("expected 2 quotes, got %d", len(quotes))
	}
}

func TestListQuotesByTag(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	addTestQuote(t, store, "one", "A", "humor")
	addTestQuote(t, store, "two", "B", "wisdom")
	addTestQuote(t, store, "three", "C", "humor", "wisdom")

	quotes, err := store.ListQuotesByTag(ctx, "humor")
	if err != nil {
		t.Fatalf("ListQuotesByTag failed: %v", err)
	}
	if len(quotes) != 2 {
		t.Errorf("expected 2 quotes with humor, got %d", len(quotes))
	}
}

func TestSearchQuotes_SubstringMatching(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	addTestQuote(t, store, "Time is an illusion.", "Douglas Adams")
	addTestQuote(t, store, "So it goes.", "Kurt Vonnegut")

	// Case-insensitive substring on text
	results, err := store.SearchQuotes(ctx, SearchFilter{Query: "ILLUSION"})
	if err != nil {
		t.Fatalf("SearchQuotes failed: %v", err)
	}
	if len(results) != 1 || results[0].Text != "Time is an illusion." {
		t.Errorf("expected one text match, got %d", len(results))
	}

	// Substring also matches author
	results, err = store.SearchQuotes(ctx, SearchFilter{Query: "vonnegut"})
	if err != nil {
		t.Fatalf("SearchQuotes failed: %v", err)
	}
	if len(results) != 1 || results[0].Author != "Kurt Vonnegut" {
		t.Errorf("expected one author match, got %d", len(results))
	}
}

func TestSearchQuotes_AuthorFilter(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	first := addTestQuote(t, store, "The answer is 42", "Douglas Adams")
	second := addTestQuote(t, store, "Don't Panic", "Douglas Adams")
	addTestQuote(t, store, "other", "Douglas Coupland")

	// Exact match, case-insensitive, most recent first.
	results, err := store.SearchQuotes(ctx, SearchFilter{Author: "douglas adams"})
	if err != nil {
		t.Fatalf("SearchQuotes failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results for exact author, got %d", len(results))
	}
	if results[0].ID != second.ID || results[1].ID != first.ID {
		t.Errorf("expected IDs [%d %d], got [%d %d]",
			second.ID, first.ID, results[0].ID, results[1].ID)
	}

	// "Douglas" alone matches nothing.
	results, err = store.SearchQuotes(ctx, SearchFilter{Author: "Douglas"})
	if err != nil {
		t.Fatalf("SearchQuotes failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected 0 results for partial author, got %d", len(results))
	}
}

func TestSearchQuotes_TagsRequireAll(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	both := addTestQuote(t, store, "both tags", "A", "humor", "wisdom")
	addTestQuote(t, store, "only humor", "B", "humor")
	addTestQuote(t, store, "only wisdom", "C", "wisdom")

	results, err := store.SearchQuotes(ctx, SearchFilter{Tags: []string{"humor", "wisdom"}})
	if err != nil {
		t.Fatalf("SearchQuotes failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 quote with both tags, got %d", len(results))
	}
	if results[0].ID != both.ID {
		t.Errorf("expected quote %d, got %d", both.ID, results[0].ID)
	}

	// Duplicate tags in the filter collapse, so the AND count stays right.
	results, err = store.SearchQuotes(ctx, SearchFilter{Tags: []string{"humor", "humor"}})
	if err != nil {
		t.Fatalf("SearchQuotes failed: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("expected 2 quotes with humor, got %d", len(results))
	}
}

func TestSearchQuotes_EmptyFilterReturnsAll(t *testing.T) {
	store := setupTestStore(t)

	addTestQuote(t, store, "one", "A")
	addTestQuote(t, store, "two", "B")

	results, err := store.SearchQuotes(context.Background(), SearchFilter{})
	if err != nil {
		t.Fatalf("SearchQuotes failed: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("expected all quotes, got %d", len(results))
	}
}

func TestRandomQuote(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	quote, err := store.RandomQuote(ctx, "")
	if err != nil {
		t.Fatalf("RandomQuote failed: %v", err)
	}
	if quote != nil {
		t.Errorf("expected nil from empty catalog, got %+v", quote)
	}

	addTestQuote(t, store, "tagged", "A", "special")
	addTestQuote(t, store, "untagged", "B")

	quote, err = store.RandomQuote(ctx, "special")
	if err != nil {
		t.Fatalf("RandomQuote with tag failed: %v", err)
	}
	if quote == nil || quote.Text != "tagged" {
		t.Errorf("expected tagged quote, got %+v", quote)
	}

	quote, err = store.RandomQuote(ctx, "no-such-tag")
	if err != nil {
		t.Fatalf("RandomQuote failed: %v", err)
	}
	if quote != nil {
		t.Errorf("expected nil for unknown tag, got %+v", quote)
	}
}

func TestRandomQuote_CoversAllQuotes(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	counts := map[int64]int{
		addTestQuote(t, store, "one", "A").ID:   0,
		addTestQuote(t, store, "two", "B").ID:   0,
		addTestQuote(t, store, "three", "C").ID: 0,
	}

	const draws = 1000
	for i := 0; i < draws; i++ {
		quote, err := store.RandomQuote(ctx, "")
		if err != nil {
			t.Fatalf("RandomQuote failed: %v", err)
		}
		counts[quote.ID]++
	}

	// Each of the three candidates expects draws/3 hits. A ±100 band is
	// over six standard deviations wide, so a uniform selection passes
	// while any weighting by id or insertion order fails.
	expected := draws / len(counts)
	for id, n := range counts {
		if n < expected-100 || n > expected+100 {
			t.Errorf("quote %d drawn %d times in %d, want %d±100", id, n, draws, expected)
		}
	}
}

func TestUpdateQuote_PartialFields(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	quote := addTestQuote(t, store, "original", "Original Author", "keep")

	found, err := store.UpdateQuote(ctx, quote.ID, QuoteUpdate{
		Text: Some("updated text"),
		Year: Some(intPtr(1984)),
	})
	if err != nil {
		t.Fatalf("UpdateQuote failed: %v", err)
	}
	if !found {
		t.Fatal("expected quote to be found")
	}

	fetched, err := store.GetQuoteByID(ctx, quote.ID)
	if err != nil {
		t.Fatalf("GetQuoteByID failed: %v", err)
	}
	if fetched.Text != "updated text" {
		t.Errorf("text not updated: %q", fetched.Text)
	}
	if fetched.Author != "Original Author" {
		t.Errorf("author should be untouched, got %q", fetched.Author)
	}
	if fetched.Year == nil || *fetched.Year != 1984 {
		t.Errorf("year not updated: %v", fetched.Year)
	}
	if len(fetched.Tags) != 1 || fetched.Tags[0] != "keep" {
		t.Errorf("tags should be untouched, got %v", fetched.Tags)
	}
}

func TestUpdateQuote_ReplacesTags(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	quote := addTestQuote(t, store, "text", "author", "old1", "old2")

	found, err := store.UpdateQuote(ctx, quote.ID, QuoteUpdate{
		Tags: Some([]string{"new"}),
	})
	if err != nil || !found {
		t.Fatalf("UpdateQuote failed: found=%v err=%v", found, err)
	}

	fetched, _ := store.GetQuoteByID(ctx, quote.ID)
	if len(fetched.Tags) != 1 || fetched.Tags[0] != "new" {
		t.Errorf("expected tags [new], got %v", fetched.Tags)
	}

	// An explicitly empty tag list clears all associations.
	found, err = store.UpdateQuote(ctx, quote.ID, QuoteUpdate{
		Tags: Some([]string{}),
	})
	if err != nil || !found {
		t.Fatalf("UpdateQuote failed: found=%v err=%v", found, err)
	}

	fetched, _ = store.GetQuoteByID(ctx, quote.ID)
	if len(fetched.Tags) != 0 {
		t.Errorf("expected no tags, got %v", fetched.Tags)
	}
}

func TestUpdateQuote_NotFound(t *testing.T) {
	store := setupTestStore(t)

	found, err := store.UpdateQuote(context.Background(), 9999, QuoteUpdate{
		Text: Some("anything"),
	})
	if err != nil {
		t.Fatalf("UpdateQuote failed: %v", err)
	}
	if found {
		t.Error("expected found=false for missing quote")
	}
}

func TestUpdateQuote_RejectsBlankText(t *testing.T) {
	store := setupTestStore(t)

	quote := addTestQuote(t, store, "text", "author")

	_, err := store.UpdateQuote(context.Background(), quote.ID, QuoteUpdate{
		Text: Some("   "),
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestDeleteQuote(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	quote := addTestQuote(t, store, "doomed", "author", "lonely")

	found, err := store.DeleteQuote(ctx, quote.ID)
	if err != nil {
		t.Fatalf("DeleteQuote failed: %v", err)
	}
	if !found {
		t.Fatal("expected found=true")
	}

	fetched, err := store.GetQuoteByID(ctx, quote.ID)
	if err != nil {
		t.Fatalf("GetQuoteByID failed: %v", err)
	}
	if fetched != nil {
		t.Error("quote should be gone")
	}

	// The cascade removes the association; the tag row survives with a
	// zero count.
	tags, err := store.ListTags(ctx)
	if err != nil {
		t.Fatalf("ListTags failed: %v", err)
	}
	if len(tags) != 1 || tags[0].Name != "lonely" || tags[0].Count != 0 {
		t.Errorf("expected lonely:0, got %v", tags)
	}

	found, err = store.DeleteQuote(ctx, quote.ID)
	if err != nil {
		t.Fatalf("DeleteQuote failed: %v", err)
	}
	if found {
		t.Error("expected found=false on second delete")
	}
}

func TestAddTagToQuote(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	quote := addTestQuote(t, store, "text", "author")

	found, err := store.AddTagToQuote(ctx, quote.ID, "fresh")
	if err != nil || !found {
		t.Fatalf("AddTagToQuote failed: found=%v err=%v", found, err)
	}

	// Idempotent: adding the same tag again still succeeds and the count
	// stays at one.
	found, err = store.AddTagToQuote(ctx, quote.ID, "fresh")
	if err != nil || !found {
		t.Fatalf("repeat AddTagToQuote failed: found=%v err=%v", found, err)
	}

	tags, _ := store.ListTags(ctx)
	if len(tags) != 1 || tags[0].Count != 1 {
		t.Errorf("expected fresh:1, got %v", tags)
	}

	found, err = store.AddTagToQuote(ctx, 9999, "fresh")
	if err != nil {
		t.Fatalf("AddTagToQuote failed: %v", err)
	}
	if found {
		t.Error("expected found=false for missing quote")
	}

	_, err = store.AddTagToQuote(ctx, quote.ID, "   ")
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for blank tag, got %v", err)
	}
}

func TestListTags_Empty(t *testing.T) {
	store := setupTestStore(t)

	tags, err := store.ListTags(context.Background())
	if err != nil {
		t.Fatalf("ListTags failed: %v", err)
	}
	if len(tags) != 0 {
		t.Errorf("expected no tags, got %v", tags)
	}
}

func TestHealthCheck(t *testing.T) {
	store := setupTestStore(t)

	if err := store.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck failed: %v", err)
	}
}
