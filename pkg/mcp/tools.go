package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/quotevault/quotevault/pkg/stores"
)

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("add_quote",
		mcp.WithDescription("Add a new quote to the vault"),
		mcp.WithString("text", mcp.Required(), mcp.Description("The quote text")),
		mcp.WithString("author", mcp.Required(), mcp.Description("Author name")),
		mcp.WithString("source", mcp.Description("Source (book, speech, etc.)")),
		mcp.WithNumber("year", mcp.Description("Year published/said")),
		mcp.WithArray("tags", mcp.Description("Associated tags"),
			mcp.Items(map[string]any{"type": "string"})),
	), s.instrumentTool("add_quote", s.handleAddQuote))

	s.mcpServer.AddTool(mcp.NewTool("search_quotes",
		mcp.WithDescription("Search for quotes using substring matching"),
		mcp.WithString("query", mcp.Description("Search text (searches text and author)")),
		mcp.WithString("author", mcp.Description("Filter by author")),
		mcp.WithArray("tags", mcp.Description("Filter by tags (quote must have ALL tags)"),
			mcp.Items(map[string]any{"type": "string"})),
	), s.instrumentTool("search_quotes", s.handleSearchQuotes))

	s.mcpServer.AddTool(mcp.NewTool("random_quote",
		mcp.WithDescription("Get a random quote, optionally filtered by tag"),
		mcp.WithString("tag", mcp.Description("Optional tag filter")),
	), s.instrumentTool("random_quote", s.handleRandomQuote))

	s.mcpServer.AddTool(mcp.NewTool("update_quote",
		mcp.WithDescription("Update an existing quote"),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Quote ID")),
		mcp.WithString("text", mcp.Description("Updated quote text")),
		mcp.WithString("author", mcp.Description("Updated author name")),
		mcp.WithString("source", mcp.Description("Updated source")),
		mcp.WithNumber("year", mcp.Description("Updated year")),
		mcp.WithArray("tags", mcp.Description("Updated tags (replaces all existing)"),
			mcp.Items(map[string]any{"type": "string"})),
	), s.instrumentTool("update_quote", s.handleUpdateQuote))

	s.mcpServer.AddTool(mcp.NewTool("delete_quote",
		mcp.WithDescription("Delete a quote by ID"),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Quote ID")),
	), s.instrumentTool("delete_quote", s.handleDeleteQuote))

	s.mcpServer.AddTool(mcp.NewTool("add_tag_to_quote",
		mcp.WithDescription("Add a tag to an existing quote"),
		mcp.WithNumber("quote_id", mcp.Required(), mcp.Description("Quote ID")),
		mcp.WithString("tag", mcp.Required(), mcp.Description("Tag name to add")),
	), s.instrumentTool("add_tag_to_quote", s.handleAddTagToQuote))

	s.mcpServer.AddTool(mcp.NewTool("list_tags",
		mcp.WithDescription("List all unique tags in the system with usage counts"),
	), s.instrumentTool("list_tags", s.handleListTags))
}

func (s *Server) handleAddQuote(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	author, err := request.RequireString("author")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	newQuote := stores.NewQuote{
		Text:   text,
		Author: author,
		Tags:   request.GetStringSlice("tags", nil),
	}
	if source := request.GetString("source", ""); source != "" {
		newQuote.Source = &source
	}
	if year := request.GetInt("year", 0); year != 0 {
		newQuote.Year = &year
	}

	quote, err := s.store.AddQuote(ctx, newQuote)
	if err != nil {
		if errors.Is(err, stores.ErrInvalidInput) {
			return mcp.NewToolResultError(fmt.Sprintf("Error: %v", err)), nil
		}
		return nil, err
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"Quote added successfully with ID %d\n\n\"%s\"\n— %s",
		quote.ID, quote.Text, quote.Author)), nil
}

func (s *Server) handleSearchQuotes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter := stores.SearchFilter{
		Query:  request.GetString("query", ""),
		Author: request.GetString("author", ""),
		Tags:   request.GetStringSlice("tags", nil),
	}

	results, err := s.store.SearchQuotes(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return mcp.NewToolResultText("No quotes found matching your search criteria."), nil
	}

	lines := []string{fmt.Sprintf("Found %d quote(s):\n", len(results))}
	for _, q := range results {
		lines = append(lines, fmt.Sprintf("[%d] \"%s\"", q.ID, q.Text))
		lines = append(lines, fmt.Sprintf("    — %s", q.Author))
		if q.Source != nil {
			lines = append(lines, "    Source: "+sourceInfo(q))
		}
		if len(q.Tags) > 0 {
			lines = append(lines, "    Tags: "+strings.Join(q.Tags, ", "))
		}
		lines = append(lines, "")
	}

	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) handleRandomQuote(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tag := request.GetString("tag", "")

	quote, err := s.store.RandomQuote(ctx, tag)
	if err != nil {
		return nil, err
	}
	if quote == nil {
		if tag != "" {
			return mcp.NewToolResultText(fmt.Sprintf("No quotes found with tag '%s'.", tag)), nil
		}
		return mcp.NewToolResultText("No quotes found."), nil
	}

	lines := []string{fmt.Sprintf("\"%s\"", quote.Text), "— " + quote.Author}
	if quote.Source != nil {
		lines = append(lines, "\nSource: "+sourceInfo(quote))
	}
	if len(quote.Tags) > 0 {
		lines = append(lines, "Tags: "+strings.Join(quote.Tags, ", "))
	}
	lines = append(lines, fmt.Sprintf("\n[Quote ID: %d]", quote.ID))

	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) handleUpdateQuote(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireInt("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	update, err := buildUpdate(request.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error: %v", err)), nil
	}
	if update.IsZero() {
		return mcp.NewToolResultError("Error: No fields specified for update"), nil
	}

	found, err := s.store.UpdateQuote(ctx, int64(id), update)
	if err != nil {
		if errors.Is(err, stores.ErrInvalidInput) {
			return mcp.NewToolResultError(fmt.Sprintf("Error: %v", err)), nil
		}
		return nil, err
	}
	if !found {
		return mcp.NewToolResultError(fmt.Sprintf("Error: Quote with ID %d not found", id)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Quote %d updated successfully", id)), nil
}

// buildUpdate translates raw tool arguments into a partial update. A field
// counts as "present" when the client sent the key at all, so sending
// source: null clears the source rather than leaving it alone.
func buildUpdate(args map[string]any) (stores.QuoteUpdate, error) {
	var update stores.QuoteUpdate

	if raw, ok := args["text"]; ok {
		text, ok := raw.(string)
		if !ok {
			return update, fmt.Errorf("text must be a string")
		}
		update.Text = stores.Some(text)
	}
	if raw, ok := args["author"]; ok {
		author, ok := raw.(string)
		if !ok {
			return update, fmt.Errorf("author must be a string")
		}
		update.Author = stores.Some(author)
	}
	if raw, ok := args["source"]; ok {
		if raw == nil {
			update.Source = stores.Some[*string](nil)
		} else {
			source, ok := raw.(string)
			if !ok {
				return update, fmt.Errorf("source must be a string")
			}
			update.Source = stores.Some(&source)
		}
	}
	if raw, ok := args["year"]; ok {
		if raw == nil {
			update.Year = stores.Some[*int](nil)
		} else {
			yearFloat, ok := raw.(float64)
			if !ok {
				return update, fmt.Errorf("year must be an integer")
			}
			year := int(yearFloat)
			update.Year = stores.Some(&year)
		}
	}
	if raw, ok := args["tags"]; ok {
		if raw == nil {
			update.Tags = stores.Some([]string{})
		} else {
			rawList, ok := raw.([]any)
			if !ok {
				return update, fmt.Errorf("tags must be an array of strings")
			}
			tags := make([]string, 0, len(rawList))
			for _, item := range rawList {
				tag, ok := item.(string)
				if !ok {
					return update, fmt.Errorf("tags must be an array of strings")
				}
				tags = append(tags, tag)
			}
			update.Tags = stores.Some(tags)
		}
	}

	return update, nil
}

func (s *Server) handleDeleteQuote(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireInt("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	found, err := s.store.DeleteQuote(ctx, int64(id))
	if err != nil {
		return nil, err
	}
	if !found {
		return mcp.NewToolResultError(fmt.Sprintf("Error: Quote with ID %d not found", id)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Quote %d deleted successfully", id)), nil
}

func (s *Server) handleAddTagToQuote(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	quoteID, err := request.RequireInt("quote_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	tag, err := request.RequireString("tag")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	found, err := s.store.AddTagToQuote(ctx, int64(quoteID), tag)
	if err != nil {
		if errors.Is(err, stores.ErrInvalidInput) {
			return mcp.NewToolResultError(fmt.Sprintf("Error: %v", err)), nil
		}
		return nil, err
	}
	if !found {
		return mcp.NewToolResultError(fmt.Sprintf("Error: Quote with ID %d not found", quoteID)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Tag '%s' added to quote %d successfully", tag, quoteID)), nil
}

func (s *Server) handleListTags(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tags, err := s.store.ListTags(ctx)
	if err != nil {
		return nil, err
	}
	if len(tags) == 0 {
		return mcp.NewToolResultText("No tags found in the system."), nil
	}

	lines := []string{fmt.Sprintf("Found %d tag(s):\n", len(tags))}
	for _, tc := range tags {
		lines = append(lines, fmt.Sprintf("  • %s: %d quote(s)", tc.Name, tc.Count))
	}

	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func sourceInfo(q *stores.Quote) string {
	info := *q.Source
	if q.Year != nil {
		info += fmt.Sprintf(" (%d)", *q.Year)
	}
	return info
}
