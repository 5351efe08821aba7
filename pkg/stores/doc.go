// Package stores provides the SQLite persistence layer for QuoteVault.
// It owns the schema (created via embedded migrations, versioned through a
// single-row-per-version ledger), all quote and tag CRUD and query
// operations, and the statistics aggregation. Every operation runs against
// a connection with foreign keys enabled and WAL journaling, and writes are
// scoped to a single transaction per call.
package stores
