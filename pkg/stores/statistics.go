package stores

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// GetStatistics derives summary metrics from the catalog: total counts plus
// the most-quoted author and most common tag. Ties break by count, then
// name, so a given snapshot always yields the same winner. Both "most"
// fields are "N/A" when no candidate exists.
func (s *SQLiteStore) GetStatistics(ctx context.Context) (*Statistics, error) {
	stats := &Statistics{
		MostQuotedAuthor: "N/A",
		MostCommonTag:    "N/A",
	}

	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM quotes").Scan(&stats.TotalQuotes); err != nil {
		return nil, fmt.Errorf("failed to count quotes: %w", err)
	}

	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(DISTINCT author) FROM quotes").Scan(&stats.TotalAuthors); err != nil {
		return nil, fmt.Errorf("failed to count authors: %w", err)
	}

	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tags").Scan(&stats.TotalTags); err != nil {
		return nil, fmt.Errorf("failed to count tags: %w", err)
	}

	var name string
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT author, COUNT(*) AS count FROM quotes
		GROUP BY author
		ORDER BY count DESC, author ASC
		LIMIT 1`).Scan(&name, &count)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return nil, fmt.Errorf("failed to find most quoted author: %w", err)
	default:
		stats.MostQuotedAuthor = fmt.Sprintf("%s (%d quotes)", name, count)
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT t.name, COUNT(qt.quote_id) AS count
		FROM tags t
		JOIN quote_tags qt ON t.id = qt.tag_id
		GROUP BY t.id, t.name
		ORDER BY count DESC, t.name ASC
		LIMIT 1`).Scan(&name, &count)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return nil, fmt.Errorf("failed to find most common tag: %w", err)
	default:
		stats.MostCommonTag = fmt.Sprintf("%s (%d quotes)", name, count)
	}

	return stats, nil
}
