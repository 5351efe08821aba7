package stores

import (
	"context"
	"time"

	"github.com/quotevault/quotevault/pkg/telemetry"
)

// InstrumentedStore decorates a Store with per-operation metrics and
// tracing. Lifecycle methods pass through untouched.
type InstrumentedStore struct {
	inner   Store
	metrics *telemetry.Metrics
	tracer  *telemetry.Tracer
}

// NewInstrumented wraps a store. Disabled metrics and tracer instances
// make the wrapper effectively free.
func NewInstrumented(inner Store, metrics *telemetry.Metrics, tracer *telemetry.Tracer) *InstrumentedStore {
	return &InstrumentedStore{inner: inner, metrics: metrics, tracer: tracer}
}

var (
	_ Store = (*SQLiteStore)(nil)
	_ Store = (*InstrumentedStore)(nil)
)

// observe starts a span for an operation and returns a finish func that
// records the outcome and duration.
func (s *InstrumentedStore) observe(ctx context.Context, op string) (context.Context, func(error)) {
	ctx, span := s.tracer.StartStoreSpan(ctx, op)
	start := time.Now()
	return ctx, func(err error) {
		status := "ok"
		if err != nil {
			status = "error"
			telemetry.RecordError(span, err)
		} else {
			telemetry.RecordSuccess(span)
		}
		s.metrics.RecordStoreOperation(op, status, time.Since(start))
		span.End()
	}
}

func (s *InstrumentedStore) Init(ctx context.Context) error    { return s.inner.Init(ctx) }
func (s *InstrumentedStore) Close() error                      { return s.inner.Close() }
func (s *InstrumentedStore) Migrate(ctx context.Context) error { return s.inner.Migrate(ctx) }

func (s *InstrumentedStore) IsSeeded(ctx context.Context) (bool, error) {
	return s.inner.IsSeeded(ctx)
}

func (s *InstrumentedStore) SchemaVersion(ctx context.Context) (int, error) {
	return s.inner.SchemaVersion(ctx)
}

func (s *InstrumentedStore) MigrateSchema(ctx context.Context, from, to int) error {
	return s.inner.MigrateSchema(ctx, from, to)
}

func (s *InstrumentedStore) HealthCheck(ctx context.Context) error {
	return s.inner.HealthCheck(ctx)
}

func (s *InstrumentedStore) AddQuote(ctx context.Context, q NewQuote) (*Quote, error) {
	ctx, finish := s.observe(ctx, "AddQuote")
	quote, err := s.inner.AddQuote(ctx, q)
	finish(err)
	return quote, err
}

func (s *InstrumentedStore) GetQuoteByID(ctx context.Context, id int64) (*Quote, error) {
	ctx, finish := s.observe(ctx, "GetQuoteByID")
	quote, err := s.inner.GetQuoteByID(ctx, id)
	finish(err)
	return quote, err
}

func (s *InstrumentedStore) ListQuotes(ctx context.Context) ([]*Quote, error) {
	ctx, finish := s.observe(ctx, "ListQuotes")
	quotes, err := s.inner.ListQuotes(ctx)
	finish(err)
	return quotes, err
}

func (s *InstrumentedStore) ListQuotesByAuthor(ctx context.Context, author string) ([]*Quote, error) {
	ctx, finish := s.observe(ctx, "ListQuotesByAuthor")
	quotes, err := s.inner.ListQuotesByAuthor(ctx, author)
	finish(err)
	return quotes, err
}

func (s *InstrumentedStore) ListQuotesByTag(ctx context.Context, tag string) ([]*Quote, error) {
	ctx, finish := s.observe(ctx, "ListQuotesByTag")
	quotes, err := s.inner.ListQuotesByTag(ctx, tag)
	finish(err)
	return quotes, err
}

func (s *InstrumentedStore) SearchQuotes(ctx context.Context, filter SearchFilter) ([]*Quote, error) {
	ctx, finish := s.observe(ctx, "SearchQuotes")
	quotes, err := s.inner.SearchQuotes(ctx, filter)
	finish(err)
	return quotes, err
}

func (s *InstrumentedStore) RandomQuote(ctx context.Context, tag string) (*Quote, error) {
	ctx, finish := s.observe(ctx, "RandomQuote")
	quote, err := s.inner.RandomQuote(ctx, tag)
	finish(err)
	return quote, err
}

func (s *InstrumentedStore) UpdateQuote(ctx context.Context, id int64, update QuoteUpdate) (bool, error) {
	ctx, finish := s.observe(ctx, "UpdateQuote")
	found, err := s.inner.UpdateQuote(ctx, id, update)
	finish(err)
	return found, err
}

func (s *InstrumentedStore) DeleteQuote(ctx context.Context, id int64) (bool, error) {
	ctx, finish := s.observe(ctx, "DeleteQuote")
	found, err := s.inner.DeleteQuote(ctx, id)
	finish(err)
	return found, err
}

func (s *InstrumentedStore) AddTagToQuote(ctx context.Context, quoteID int64, tag string) (bool, error) {
	ctx, finish := s.observe(ctx, "AddTagToQuote")
	found, err := s.inner.AddTagToQuote(ctx, quoteID, tag)
	finish(err)
	return found, err
}

func (s *InstrumentedStore) ListTags(ctx context.Context) ([]TagCount, error) {
	ctx, finish := s.observe(ctx, "ListTags")
	tags, err := s.inner.ListTags(ctx)
	finish(err)
	return tags, err
}

func (s *InstrumentedStore) GetStatistics(ctx context.Context) (*Statistics, error) {
	ctx, finish := s.observe(ctx, "GetStatistics")
	stats, err := s.inner.GetStatistics(ctx)
	finish(err)
	return stats, err
}
