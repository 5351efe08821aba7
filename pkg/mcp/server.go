// Package mcp exposes the quote catalog over the Model Context Protocol:
// seven tools for mutation and search, quote:// resources for read-only
// views, and prompt templates for common workflows. The server speaks
// stdio, so all diagnostics stay on stderr.
package mcp

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/quotevault/quotevault/pkg/config"
	"github.com/quotevault/quotevault/pkg/quotes"
	"github.com/quotevault/quotevault/pkg/stores"
	"github.com/quotevault/quotevault/pkg/telemetry"
)

// Server wires the store and facade into an MCP server.
type Server struct {
	mcpServer *server.MCPServer
	store     stores.Store
	resolver  *quotes.Resolver
	logger    *telemetry.Logger
	metrics   *telemetry.Metrics
	tracer    *telemetry.Tracer
}

// NewServer creates the MCP server and registers all tools, resources,
// and prompts.
func NewServer(cfg config.ServerConfig, store stores.Store, logger *telemetry.Logger, metrics *telemetry.Metrics, tracer *telemetry.Tracer) *Server {
	s := &Server{
		mcpServer: server.NewMCPServer(
			cfg.Name,
			cfg.Version,
			server.WithToolCapabilities(true),
			server.WithResourceCapabilities(true, true),
			server.WithPromptCapabilities(true),
			server.WithRecovery(),
		),
		store:    store,
		resolver: quotes.NewResolver(store),
		logger:   logger,
		metrics:  metrics,
		tracer:   tracer,
	}

	s.registerTools()
	s.registerResources()
	s.registerPrompts()
	return s
}

// Serve runs the stdio transport until the client disconnects or ctx is
// cancelled.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("starting MCP server on stdio")
	return server.ServeStdio(s.mcpServer, server.WithStdioContextFunc(
		func(context.Context) context.Context { return ctx },
	))
}

// instrumentTool wraps a tool handler with per-call logging, metrics, and
// tracing. Each call gets its own request id so concurrent calls can be
// told apart in the logs.
func (s *Server) instrumentTool(name string, handler server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		log := s.logger.WithTool(name).WithRequestID(uuid.NewString())
		log.Debug("tool call started")

		ctx, span := s.tracer.StartToolSpan(ctx, name)
		defer span.End()

		start := time.Now()
		result, err := handler(ctx, request)
		elapsed := time.Since(start)

		status := "ok"
		switch {
		case err != nil:
			status = "error"
			telemetry.RecordError(span, err)
			log.WithError(err).Error("tool call failed")
		case result != nil && result.IsError:
			status = "rejected"
			telemetry.RecordSuccess(span)
			log.Debug("tool call rejected input")
		default:
			telemetry.RecordSuccess(span)
			log.WithField("duration", elapsed).Debug("tool call completed")
		}
		s.metrics.RecordToolCall(name, status, elapsed)

		return result, err
	}
}
