package telemetry

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects Prometheus metrics for tool calls, resource reads, and
// store operations. A nil or disabled Metrics is safe to use: every method
// becomes a no-op.
type Metrics struct {
	registry *prometheus.Registry
	enabled  bool

	toolCalls       *prometheus.CounterVec
	toolDuration    *prometheus.HistogramVec
	resourceReads   *prometheus.CounterVec
	promptRenders   *prometheus.CounterVec
	storeOps        *prometheus.CounterVec
	storeOpDuration *prometheus.HistogramVec
	quotesTotal     prometheus.Gauge
	seededQuotes    prometheus.Counter
}

// NewMetrics creates a Metrics instance. When cfg.Enabled is false the
// returned instance records nothing.
func NewMetrics(cfg MetricsConfig) *Metrics {
	if !cfg.Enabled {
		return &Metrics{enabled: false}
	}

	ns := cfg.Namespace
	if ns == "" {
		ns = "quotevault"
	}

	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		enabled:  true,
		toolCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "tool_calls_total",
			Help:      "Total MCP tool calls by tool name and status.",
		}, []string{"tool", "status"}),
		toolDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "tool_call_duration_seconds",
			Help:      "MCP tool call duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"tool"}),
		resourceReads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "resource_reads_total",
			Help:      "Total MCP resource reads by resource kind and status.",
		}, []string{"resource", "status"}),
		promptRenders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "prompt_renders_total",
			Help:      "Total MCP prompt renders by prompt name.",
		}, []string{"prompt"}),
		storeOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "store_operations_total",
			Help:      "Total store operations by operation and status.",
		}, []string{"operation", "status"}),
		storeOpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "store_operation_duration_seconds",
			Help:      "Store operation duration in seconds.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"operation"}),
		quotesTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "quotes_total",
			Help:      "Current number of quotes in the catalog.",
		}),
		seededQuotes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "seeded_quotes_total",
			Help:      "Total quotes inserted by the seeder.",
		}),
	}

	registry.MustRegister(
		m.toolCalls,
		m.toolDuration,
		m.resourceReads,
		m.promptRenders,
		m.storeOps,
		m.storeOpDuration,
		m.quotesTotal,
		m.seededQuotes,
	)

	return m
}

// RecordToolCall records one tool invocation with its outcome and duration.
func (m *Metrics) RecordToolCall(tool, status string, duration time.Duration) {
	if m == nil || !m.enabled {
		return
	}
	m.toolCalls.WithLabelValues(tool, status).Inc()
	m.toolDuration.WithLabelValues(tool).Observe(duration.Seconds())
}

// RecordResourceRead records one resource read with its outcome.
func (m *Metrics) RecordResourceRead(resource, status string) {
	if m == nil || !m.enabled {
		return
	}
	m.resourceReads.WithLabelValues(resource, status).Inc()
}

// RecordPromptRender records one prompt render.
func (m *Metrics) RecordPromptRender(prompt string) {
	if m == nil || !m.enabled {
		return
	}
	m.promptRenders.WithLabelValues(prompt).Inc()
}

// RecordStoreOperation records one store operation with its outcome and
// duration.
func (m *Metrics) RecordStoreOperation(operation, status string, duration time.Duration) {
	if m == nil || !m.enabled {
		return
	}
	m.storeOps.WithLabelValues(operation, status).Inc()
	m.storeOpDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// SetQuoteCount sets the current catalog size gauge.
func (m *Metrics) SetQuoteCount(n int) {
	if m == nil || !m.enabled {
		return
	}
	m.quotesTotal.Set(float64(n))
}

// AddSeededQuotes records quotes inserted by the seeder.
func (m *Metrics) AddSeededQuotes(n int) {
	if m == nil || !m.enabled {
		return
	}
	m.seededQuotes.Add(float64(n))
}

// Handler returns an HTTP handler serving the exposition format, or nil
// when metrics are disabled.
func (m *Metrics) Handler() http.Handler {
	if m == nil || !m.enabled {
		return nil
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// StartServer starts the metrics HTTP server and blocks until ctx is
// cancelled or the server fails. It returns immediately when metrics are
// disabled.
func (m *Metrics) StartServer(ctx context.Context, cfg MetricsConfig) error {
	if m == nil || !m.enabled {
		return nil
	}

	path := cfg.Path
	if path == "" {
		path = "/metrics"
	}

	mux := http.NewServeMux()
	mux.Handle(path, m.Handler())

	srv := &http.Server{
		Addr:              cfg.ListenAddress,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down metrics server: %w", err)
		}
		return nil
	case err := <-errCh:
		return fmt.Errorf("metrics server failed: %w", err)
	}
}
