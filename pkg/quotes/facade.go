// Package quotes provides a read-side facade over the store: a small
// reference grammar for naming catalog views, and a resolver that turns a
// parsed reference into data. Both the MCP resource layer and the CLI
// resolve references through this package so the two surfaces cannot
// drift apart.
package quotes

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/quotevault/quotevault/pkg/stores"
)

// Kind identifies which view of the catalog a reference names.
type Kind string

const (
	KindAll    Kind = "all"
	KindID     Kind = "id"
	KindAuthor Kind = "author"
	KindTag    Kind = "tag"
	KindRandom Kind = "random"
	KindStats  Kind = "stats"
	KindTags   Kind = "tags"
)

// Scheme is the URI scheme for catalog references.
const Scheme = "quote"

// Ref is a parsed reference to a catalog view.
type Ref struct {
	Kind   Kind
	ID     int64  // set when Kind == KindID
	Author string // set when Kind == KindAuthor
	Tag    string // set when Kind == KindTag
}

// URI renders the reference in its quote:// form.
func (r Ref) URI() string {
	switch r.Kind {
	case KindID:
		return fmt.Sprintf("quote://id/%d", r.ID)
	case KindAuthor:
		return "quote://author/" + url.PathEscape(r.Author)
	case KindTag:
		return "quote://tag/" + url.PathEscape(r.Tag)
	default:
		return "quote://" + string(r.Kind)
	}
}

// ParseRef parses a reference in either URI form (quote://author/Douglas%20Adams)
// or shorthand form (author:Douglas Adams). Shorthand values are taken
// verbatim; URI path segments are percent-decoded.
func ParseRef(s string) (Ref, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Ref{}, fmt.Errorf("empty reference")
	}
	if strings.HasPrefix(s, Scheme+"://") {
		return parseURI(s)
	}
	return parseShorthand(s)
}

func parseURI(uri string) (Ref, error) {
	rest := strings.TrimPrefix(uri, Scheme+"://")

	switch rest {
	case "all":
		return Ref{Kind: KindAll}, nil
	case "random":
		return Ref{Kind: KindRandom}, nil
	case "stats":
		return Ref{Kind: KindStats}, nil
	case "tags":
		return Ref{Kind: KindTags}, nil
	}

	switch {
	case strings.HasPrefix(rest, "id/"):
		idStr := strings.TrimPrefix(rest, "id/")
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			return Ref{}, fmt.Errorf("invalid quote ID: %s", idStr)
		}
		return Ref{Kind: KindID, ID: id}, nil
	case strings.HasPrefix(rest, "author/"):
		author, err := url.PathUnescape(strings.TrimPrefix(rest, "author/"))
		if err != nil {
			return Ref{}, fmt.Errorf("invalid author encoding: %w", err)
		}
		if author == "" {
			return Ref{}, fmt.Errorf("empty author in reference: %s", uri)
		}
		return Ref{Kind: KindAuthor, Author: author}, nil
	case strings.HasPrefix(rest, "tag/"):
		tag, err := url.PathUnescape(strings.TrimPrefix(rest, "tag/"))
		if err != nil {
			return Ref{}, fmt.Errorf("invalid tag encoding: %w", err)
		}
		if tag == "" {
			return Ref{}, fmt.Errorf("empty tag in reference: %s", uri)
		}
		return Ref{Kind: KindTag, Tag: tag}, nil
	}

	return Ref{}, fmt.Errorf("unknown resource URI: %s", uri)
}

func parseShorthand(s string) (Ref, error) {
	switch s {
	case "all":
		return Ref{Kind: KindAll}, nil
	case "random":
		return Ref{Kind: KindRandom}, nil
	case "stats":
		return Ref{Kind: KindStats}, nil
	case "tags":
		return Ref{Kind: KindTags}, nil
	}

	key, value, ok := strings.Cut(s, ":")
	if !ok {
		return Ref{}, fmt.Errorf("unknown reference: %s", s)
	}
	value = strings.TrimSpace(value)

	switch key {
	case "id":
		id, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return Ref{}, fmt.Errorf("invalid quote ID: %s", value)
		}
		return Ref{Kind: KindID, ID: id}, nil
	case "author":
		if value == "" {
			return Ref{}, fmt.Errorf("empty author in reference: %s", s)
		}
		return Ref{Kind: KindAuthor, Author: value}, nil
	case "tag":
		if value == "" {
			return Ref{}, fmt.Errorf("empty tag in reference: %s", s)
		}
		return Ref{Kind: KindTag, Tag: value}, nil
	}

	return Ref{}, fmt.Errorf("unknown reference: %s", s)
}

// Result is the resolved content of a reference. Exactly one field group is
// populated, matching the reference kind.
type Result struct {
	// Kind echoes the reference kind this result was resolved for.
	Kind Kind

	// Quotes is set for all, author, and tag references.
	Quotes []*stores.Quote

	// Quote is set for id and random references. Nil means no quote was
	// found: absent id, or empty catalog for random.
	Quote *stores.Quote

	// Stats is set for stats references.
	Stats *stores.Statistics

	// Tags is set for tags references.
	Tags []stores.TagCount
}

// Resolver resolves references against a store.
type Resolver struct {
	store stores.Store
}

// NewResolver creates a Resolver backed by the given store.
func NewResolver(store stores.Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve fetches the data a reference names. An id reference to an absent
// quote yields a Result with a nil Quote, not an error.
func (r *Resolver) Resolve(ctx context.Context, ref Ref) (*Result, error) {
	switch ref.Kind {
	case KindAll:
		quotes, err := r.store.ListQuotes(ctx)
		if err != nil {
			return nil, err
		}
		return &Result{Kind: ref.Kind, Quotes: quotes}, nil
	case KindID:
		quote, err := r.store.GetQuoteByID(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		return &Result{Kind: ref.Kind, Quote: quote}, nil
	case KindAuthor:
		quotes, err := r.store.ListQuotesByAuthor(ctx, ref.Author)
		if err != nil {
			return nil, err
		}
		return &Result{Kind: ref.Kind, Quotes: quotes}, nil
	case KindTag:
		quotes, err := r.store.ListQuotesByTag(ctx, ref.Tag)
		if err != nil {
			return nil, err
		}
		return &Result{Kind: ref.Kind, Quotes: quotes}, nil
	case KindRandom:
		quote, err := r.store.RandomQuote(ctx, "")
		if err != nil {
			return nil, err
		}
		return &Result{Kind: ref.Kind, Quote: quote}, nil
	case KindStats:
		stats, err := r.store.GetStatistics(ctx)
		if err != nil {
			return nil, err
		}
		return &Result{Kind: ref.Kind, Stats: stats}, nil
	case KindTags:
		tags, err := r.store.ListTags(ctx)
		if err != nil {
			return nil, err
		}
		return &Result{Kind: ref.Kind, Tags: tags}, nil
	}
	return nil, fmt.Errorf("unknown reference kind: %s", ref.Kind)
}
