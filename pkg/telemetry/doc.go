// Package telemetry provides the observability stack: a zerolog-based
// structured logger, Prometheus metrics for tool calls and store
// operations, and optional OpenTelemetry tracing.
//
// Everything here writes to stderr. Stdout belongs to the MCP protocol
// stream and a single stray line there corrupts the session, so the
// logger, the console writer, and the stdout trace exporter all target
// stderr instead.
//
// Metrics and tracing are opt-in: a disabled Metrics or Tracer is a
// valid value whose methods do nothing, so call sites never need nil
// checks or enabled flags.
package telemetry
