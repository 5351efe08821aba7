package stores

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	// SQLite driver
	_ "modernc.org/sqlite"
)

// createdAtFormat is RFC 3339 with fixed-width nanoseconds so that the text
// ordering of stored timestamps matches their time ordering.
const createdAtFormat = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore implements the Store interface using SQLite.
type SQLiteStore struct {
	db  *sql.DB
	cfg Config
}

// Config holds SQLite store configuration.
type Config struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// NewSQLiteStore creates a new SQLite store instance.
func NewSQLiteStore(cfg Config) (*SQLiteStore, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path is required")
	}

	// Set defaults
	if cfg.MaxOpenConns == 0 {
		cfg.MaxOpenConns = 25
	}
	if cfg.MaxIdleConns == 0 {
		cfg.MaxIdleConns = 5
	}
	if cfg.ConnMaxLifetime == 0 {
		cfg.ConnMaxLifetime = 5 * time.Minute
	}

	return &SQLiteStore{cfg: cfg}, nil
}

// Init opens the database connection, enables WAL mode and foreign keys,
// and configures the connection pool. Safe to call on a fresh or existing
// database file.
func (s *SQLiteStore) Init(ctx context.Context) error {
	dsn := fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)", s.cfg.Path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	if strings.Contains(s.cfg.Path, ":memory:") {
		// Each pooled connection would otherwise see its own empty database.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(s.cfg.MaxOpenConns)
		db.SetMaxIdleConns(s.cfg.MaxIdleConns)
		db.SetConnMaxLifetime(s.cfg.ConnMaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	s.db = db
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// HealthCheck verifies the database connection is healthy.
func (s *SQLiteStore) HealthCheck(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("database not initialized")
	}
	return s.db.PingContext(ctx)
}

// querier abstracts *sql.DB and *sql.Tx for helpers shared by reads and
// transactional writes.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// AddQuote inserts a new quote and its tag associations in one transaction.
// Text and author are stored trimmed; blank tag names are dropped and
// duplicates within the call collapse to a single association.
func (s *SQLiteStore) AddQuote(ctx context.Context, q NewQuote) (*Quote, error) {
	text := strings.TrimSpace(q.Text)
	if text == "" {
		return nil, invalidInput("quote text cannot be empty")
	}
	author := strings.TrimSpace(q.Author)
	if author == "" {
		return nil, invalidInput("author name cannot be empty")
	}

	tags := normalizeTags(q.Tags)
	createdAt := time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	res, err := tx.ExecContext(ctx,
		"INSERT INTO quotes (text, author, source, year, created_at) VALUES (?, ?, ?, ?, ?)",
		text, author, q.Source, q.Year, createdAt.Format(createdAtFormat),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert quote: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get quote ID: %w", err)
	}

	if err := s.associateTags(ctx, tx, id, tags); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit quote: %w", err)
	}

	return &Quote{
		ID:        id,
		Text:      text,
		Author:    author,
		Source:    q.Source,
		Year:      q.Year,
		CreatedAt: createdAt,
		Tags:      tags,
	}, nil
}

// GetQuoteByID retrieves a quote by ID. Returns nil (not an error) when the
// quote does not exist.
func (s *SQLiteStore) GetQuoteByID(ctx context.Context, id int64) (*Quote, error) {
	quote, err := scanQuote(s.db.QueryRowContext(ctx,
		"SELECT id, text, author, source, year, created_at FROM quotes WHERE id = ?", id))
	if err != nil {
		return nil, err
	}
	if quote == nil {
		return nil, nil
	}

	quote.Tags, err = s.tagsForQuote(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	return quote, nil
}

// ListQuotes returns all quotes, most recent first.
func (s *SQLiteStore) ListQuotes(ctx context.Context) ([]*Quote, error) {
	return s.listQuotes(ctx,
		"SELECT id, text, author, source, year, created_at FROM quotes ORDER BY created_at DESC, id DESC")
}

// ListQuotesByAuthor returns all quotes by an author (exact match), most
// recent first.
func (s *SQLiteStore) ListQuotesByAuthor(ctx context.Context, author string) ([]*Quote, error) {
	return s.listQuotes(ctx,
		"SELECT id, text, author, source, year, created_at FROM quotes WHERE author = ? ORDER BY created_at DESC, id DESC",
		author)
}

// ListQuotesByTag returns all quotes carrying a tag (exact name match), most
// recent first.
func (s *SQLiteStore) ListQuotesByTag(ctx context.Context, tag string) ([]*Quote, error) {
	return s.listQuotes(ctx, `
		SELECT DISTINCT q.id, q.text, q.author, q.source, q.year, q.created_at
		FROM quotes q
		JOIN quote_tags qt ON q.id = qt.quote_id
		JOIN tags t ON qt.tag_id = t.id
		WHERE t.name = ?
		ORDER BY q.created_at DESC, q.id DESC`,
		tag)
}

// SearchQuotes returns quotes matching every supplied criterion. Query is a
// case-insensitive substring match on text or author, Author a
// case-insensitive exact match, and Tags requires the quote to carry all
// listed tags. An empty filter is equivalent to ListQuotes.
func (s *SQLiteStore) SearchQuotes(ctx context.Context, filter SearchFilter) ([]*Quote, error) {
	if filter.IsZero() {
		return s.ListQuotes(ctx)
	}

	query := "SELECT DISTINCT q.id, q.text, q.author, q.source, q.year, q.created_at FROM quotes q"
	var where []string
	var args []any

	tags := normalizeTags(filter.Tags)
	if len(tags) > 0 {
		query += " JOIN quote_tags qt ON q.id = qt.quote_id JOIN tags t ON qt.tag_id = t.id"
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(tags)), ",")
		where = append(where, fmt.Sprintf("t.name IN (%s)", placeholders))
		for _, tag := range tags {
			args = append(args, tag)
		}
	}

	if filter.Query != "" {
		where = append(where, "(LOWER(q.text) LIKE ? OR LOWER(q.author) LIKE ?)")
		pattern := "%" + strings.ToLower(filter.Query) + "%"
		args = append(args, pattern, pattern)
	}

	if filter.Author != "" {
		where = append(where, "LOWER(q.author) = LOWER(?)")
		args = append(args, filter.Author)
	}

	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	// A quote matches the tag filter only when it carries every requested
	// tag, checked by counting distinct matched tags per quote.
	if len(tags) > 0 {
		query += " GROUP BY q.id HAVING COUNT(DISTINCT t.id) = ?"
		args = append(args, len(tags))
	}

	query += " ORDER BY q.created_at DESC, q.id DESC"

	return s.listQuotes(ctx, query, args...)
}

// RandomQuote selects one quote uniformly at random, optionally restricted
// to quotes carrying the given tag. Returns nil when no candidate exists.
func (s *SQLiteStore) RandomQuote(ctx context.Context, tag string) (*Quote, error) {
	var row *sql.Row
	if tag != "" {
		row = s.db.QueryRowContext(ctx, `
			SELECT q.id, q.text, q.author, q.source, q.year, q.created_at
			FROM quotes q
			JOIN quote_tags qt ON q.id = qt.quote_id
			JOIN tags t ON qt.tag_id = t.id
			WHERE t.name = ?
			ORDER BY RANDOM()
			LIMIT 1`,
			tag)
	} else {
		row = s.db.QueryRowContext(ctx,
			"SELECT id, text, author, source, year, created_at FROM quotes ORDER BY RANDOM() LIMIT 1")
	}

	quote, err := scanQuote(row)
	if err != nil || quote == nil {
		return quote, err
	}

	quote.Tags, err = s.tagsForQuote(ctx, s.db, quote.ID)
	if err != nil {
		return nil, err
	}
	return quote, nil
}

// UpdateQuote applies a partial update. Absent fields are untouched; a
// present Tags field fully replaces the tag set, an empty one clearing all
// associations. Returns false when the quote does not exist.
func (s *SQLiteStore) UpdateQuote(ctx context.Context, id int64, update QuoteUpdate) (bool, error) {
	var setClauses []string
	var args []any

	if update.Text.Set {
		text := strings.TrimSpace(update.Text.Value)
		if text == "" {
			return false, invalidInput("quote text cannot be empty")
		}
		setClauses = append(setClauses, "text = ?")
		args = append(args, text)
	}
	if update.Author.Set {
		author := strings.TrimSpace(update.Author.Value)
		if author == "" {
			return false, invalidInput("author name cannot be empty")
		}
		setClauses = append(setClauses, "author = ?")
		args = append(args, author)
	}
	if update.Source.Set {
		setClauses = append(setClauses, "source = ?")
		args = append(args, update.Source.Value)
	}
	if update.Year.Set {
		setClauses = append(setClauses, "year = ?")
		args = append(args, update.Year.Value)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var exists int64
	err = tx.QueryRowContext(ctx, "SELECT id FROM quotes WHERE id = ?", id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check quote: %w", err)
	}

	if len(setClauses) > 0 {
		args = append(args, id)
		query := fmt.Sprintf("UPDATE quotes SET %s WHERE id = ?", strings.Join(setClauses, ", "))
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return false, fmt.Errorf("failed to update quote: %w", err)
		}
	}

	if update.Tags.Set {
		if _, err := tx.ExecContext(ctx, "DELETE FROM quote_tags WHERE quote_id = ?", id); err != nil {
			return false, fmt.Errorf("failed to clear quote tags: %w", err)
		}
		if err := s.associateTags(ctx, tx, id, normalizeTags(update.Tags.Value)); err != nil {
			return false, err
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit update: %w", err)
	}
	return true, nil
}

// DeleteQuote removes a quote by ID. The foreign-key cascade removes its
// tag associations; tag rows survive. Returns false when nothing was
// deleted.
func (s *SQLiteStore) DeleteQuote(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM quotes WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete quote: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

// AddTagToQuote associates a tag with an existing quote, creating the tag if
// needed. Idempotent: an existing association is reported as success.
// Returns false when the quote does not exist.
func (s *SQLiteStore) AddTagToQuote(ctx context.Context, quoteID int64, tag string) (bool, error) {
	name := strings.TrimSpace(tag)
	if name == "" {
		return false, invalidInput("tag name cannot be empty")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var exists int64
	err = tx.QueryRowContext(ctx, "SELECT id FROM quotes WHERE id = ?", quoteID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check quote: %w", err)
	}

	tagID, _, err := s.getOrCreateTag(ctx, tx, name)
	if err != nil {
		return false, err
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT OR IGNORE INTO quote_tags (quote_id, tag_id) VALUES (?, ?)",
		quoteID, tagID); err != nil {
		return false, fmt.Errorf("failed to associate tag: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit tag association: %w", err)
	}
	return true, nil
}

// ListTags returns every tag with its live association count, ordered by
// name. Tags with no associations are included with a count of zero.
func (s *SQLiteStore) ListTags(ctx context.Context) ([]TagCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.name, COUNT(qt.quote_id)
		FROM tags t
		LEFT JOIN quote_tags qt ON t.id = qt.tag_id
		GROUP BY t.id, t.name
		ORDER BY t.name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer rows.Close()

	tags := []TagCount{}
	for rows.Next() {
		var tc TagCount
		if err := rows.Scan(&tc.Name, &tc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, tc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tags: %w", err)
	}
	return tags, nil
}

// getOrCreateTag resolves a tag name to its ID, creating the row when
// absent. The second return reports whether a new tag was created. A UNIQUE
// violation means a concurrent writer created the tag first; it is re-read,
// not surfaced.
func (s *SQLiteStore) getOrCreateTag(ctx context.Context, q querier, name string) (int64, bool, error) {
	var id int64
	err := q.QueryRowContext(ctx, "SELECT id FROM tags WHERE name = ?", name).Scan(&id)
	if err == nil {
		return id, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, false, fmt.Errorf("failed to look up tag %q: %w", name, err)
	}

	res, err := q.ExecContext(ctx, "INSERT INTO tags (name) VALUES (?)", name)
	if err != nil {
		if isUniqueViolation(err) {
			err = q.QueryRowContext(ctx, "SELECT id FROM tags WHERE name = ?", name).Scan(&id)
			if err != nil {
				return 0, false, fmt.Errorf("failed to re-read tag %q: %w", name, err)
			}
			return id, false, nil
		}
		return 0, false, fmt.Errorf("failed to create tag %q: %w", name, err)
	}

	id, err = res.LastInsertId()
	if err != nil {
		return 0, false, fmt.Errorf("failed to get tag ID: %w", err)
	}
	return id, true, nil
}

// associateTags links an already-normalized tag list to a quote.
func (s *SQLiteStore) associateTags(ctx context.Context, tx *sql.Tx, quoteID int64, tags []string) error {
	for _, name := range tags {
		tagID, _, err := s.getOrCreateTag(ctx, tx, name)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO quote_tags (quote_id, tag_id) VALUES (?, ?)",
			quoteID, tagID); err != nil {
			return fmt.Errorf("failed to associate tag %q: %w", name, err)
		}
	}
	return nil
}

// tagsForQuote returns the quote's tag names sorted lexicographically.
func (s *SQLiteStore) tagsForQuote(ctx context.Context, q querier, quoteID int64) ([]string, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT t.name FROM tags t
		JOIN quote_tags qt ON t.id = qt.tag_id
		WHERE qt.quote_id = ?
		ORDER BY t.name`,
		quoteID)
	if err != nil {
		return nil, fmt.Errorf("failed to get quote tags: %w", err)
	}
	defer rows.Close()

	tags := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan tag name: %w", err)
		}
		tags = append(tags, name)
	}
	return tags, rows.Err()
}

func (s *SQLiteStore) listQuotes(ctx context.Context, query string, args ...any) ([]*Quote, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query quotes: %w", err)
	}
	defer rows.Close()

	quotes := []*Quote{}
	for rows.Next() {
		quote, err := scanQuoteRow(rows)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, quote)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating quotes: %w", err)
	}

	for _, quote := range quotes {
		quote.Tags, err = s.tagsForQuote(ctx, s.db, quote.ID)
		if err != nil {
			return nil, err
		}
	}
	return quotes, nil
}

// scanQuote scans a single-row query, translating sql.ErrNoRows into a nil
// quote.
func scanQuote(row *sql.Row) (*Quote, error) {
	quote := &Quote{}
	var createdAt string
	err := row.Scan(&quote.ID, &quote.Text, &quote.Author, &quote.Source, &quote.Year, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan quote: %w", err)
	}
	quote.CreatedAt, err = parseCreatedAt(createdAt)
	if err != nil {
		return nil, err
	}
	return quote, nil
}

func scanQuoteRow(rows *sql.Rows) (*Quote, error) {
	quote := &Quote{}
	var createdAt string
	if err := rows.Scan(&quote.ID, &quote.Text, &quote.Author, &quote.Source, &quote.Year, &createdAt); err != nil {
		return nil, fmt.Errorf("failed to scan quote: %w", err)
	}
	var err error
	quote.CreatedAt, err = parseCreatedAt(createdAt)
	if err != nil {
		return nil, err
	}
	return quote, nil
}

func parseCreatedAt(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse created_at %q: %w", value, err)
	}
	return t, nil
}

// normalizeTags trims names, drops blanks, collapses duplicates, and sorts.
func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := []string{}
	for _, tag := range tags {
		name := strings.TrimSpace(tag)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
