package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/quotevault/quotevault/pkg/quotes"
	"github.com/quotevault/quotevault/pkg/telemetry"
)

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource("quote://all", "All Quotes",
		mcp.WithResourceDescription("Returns all quotes in the vault"),
		mcp.WithMIMEType("application/json"),
	), s.instrumentResource("all"))

	s.mcpServer.AddResource(mcp.NewResource("quote://random", "Random Quote",
		mcp.WithResourceDescription("Returns a random quote from the collection"),
		mcp.WithMIMEType("application/json"),
	), s.instrumentResource("random"))

	s.mcpServer.AddResource(mcp.NewResource("quote://stats", "Collection Statistics",
		mcp.WithResourceDescription("Returns statistics about the quote collection"),
		mcp.WithMIMEType("application/json"),
	), s.instrumentResource("stats"))

	s.mcpServer.AddResource(mcp.NewResource("quote://tags", "All Tags",
		mcp.WithResourceDescription("Returns all available tags with counts"),
		mcp.WithMIMEType("application/json"),
	), s.instrumentResource("tags"))

	s.mcpServer.AddResourceTemplate(mcp.NewResourceTemplate("quote://id/{id}", "Quote by ID",
		mcp.WithTemplateDescription("Returns a specific quote by ID"),
		mcp.WithTemplateMIMEType("application/json"),
	), s.instrumentResource("id"))

	s.mcpServer.AddResourceTemplate(mcp.NewResourceTemplate("quote://author/{author}", "Quotes by Author",
		mcp.WithTemplateDescription("Returns all quotes by a specific author"),
		mcp.WithTemplateMIMEType("application/json"),
	), s.instrumentResource("author"))

	s.mcpServer.AddResourceTemplate(mcp.NewResourceTemplate("quote://tag/{tag}", "Quotes by Tag",
		mcp.WithTemplateDescription("Returns all quotes with a specific tag"),
		mcp.WithTemplateMIMEType("application/json"),
	), s.instrumentResource("tag"))
}

// instrumentResource returns a handler that resolves the request URI
// through the facade and renders the result as JSON, recording the
// outcome per resource kind. The bare function type assigns to both
// server.ResourceHandlerFunc and server.ResourceTemplateHandlerFunc.
func (s *Server) instrumentResource(kind string) func(context.Context, mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		uri := request.Params.URI
		log := s.logger.WithResource(uri)
		log.Debug("resource read started")

		ctx, span := s.tracer.StartResourceSpan(ctx, uri)
		defer span.End()

		content, err := s.readResource(ctx, uri)
		if err != nil {
			telemetry.RecordError(span, err)
			s.metrics.RecordResourceRead(kind, "error")
			log.WithError(err).Error("resource read failed")
			return nil, err
		}

		telemetry.RecordSuccess(span)
		s.metrics.RecordResourceRead(kind, "ok")
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      uri,
				MIMEType: "application/json",
				Text:     content,
			},
		}, nil
	}
}

// readResource resolves a quote:// URI to its JSON document. An id
// reference to an absent quote is an error, matching resource semantics
// where the URI names something that should exist.
func (s *Server) readResource(ctx context.Context, uri string) (string, error) {
	ref, err := quotes.ParseRef(uri)
	if err != nil {
		return "", err
	}

	result, err := s.resolver.Resolve(ctx, ref)
	if err != nil {
		return "", err
	}
	if ref.Kind == quotes.KindID && result.Quote == nil {
		return "", fmt.Errorf("quote not found: %d", ref.ID)
	}

	return result.JSON()
}
