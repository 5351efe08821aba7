package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

const findInspirationPrompt = `You are helping a user find inspirational or relevant quotes from their personal Quote Vault.

User's situation or question: %s

Your task:
1. Understand what the user is looking for
2. Search the quote vault using appropriate keywords and tags
3. Present the most relevant quotes with explanation of why they're relevant
4. If no perfect match, suggest related quotes or offer to help add new ones

Available tools: search_quotes, random_quote
Available resources: quote://tag/*, quote://author/*

Be thoughtful and consider the emotional or philosophical context of their request.`

const quoteExplainerPrompt = `You are a literary and philosophical analyst helping users understand quotes more deeply.

Quote to analyze: %s
Author: %s

Your task:
1. Explain the literal meaning
2. Discuss the deeper philosophical or metaphorical meaning
3. Provide historical or cultural context if relevant
4. Suggest how this quote might apply to modern life
5. Identify related themes or concepts

Be insightful but accessible. Use examples to illustrate your points.`

const addQuoteHelperPrompt = `You are helping a user add a new quote to their Quote Vault.

User wants to add: %s

Your task:
1. Extract the quote text and author from their input
2. Ask clarifying questions if needed (source, year, context)
3. Suggest appropriate tags based on the quote's themes
4. Format everything properly
5. Use the add_quote tool to save it

Be conversational and helpful. Ensure accuracy - verify author attribution if uncertain.`

func (s *Server) registerPrompts() {
	s.mcpServer.AddPrompt(mcp.NewPrompt("find-inspiration",
		mcp.WithPromptDescription("Find relevant quotes for your current situation or question"),
		mcp.WithArgument("situation",
			mcp.ArgumentDescription("Your current situation or question"),
			mcp.RequiredArgument()),
	), s.handleFindInspiration)

	s.mcpServer.AddPrompt(mcp.NewPrompt("quote-explainer",
		mcp.WithPromptDescription("Analyze and explain the deeper meaning of a quote"),
		mcp.WithArgument("quote_text",
			mcp.ArgumentDescription("The quote to analyze"),
			mcp.RequiredArgument()),
		mcp.WithArgument("author",
			mcp.ArgumentDescription("The quote's author (optional)")),
	), s.handleQuoteExplainer)

	s.mcpServer.AddPrompt(mcp.NewPrompt("add-quote-helper",
		mcp.WithPromptDescription("Guide you through adding a well-structured quote"),
		mcp.WithArgument("raw_input",
			mcp.ArgumentDescription("Your raw input about the quote you want to add"),
			mcp.RequiredArgument()),
	), s.handleAddQuoteHelper)
}

func (s *Server) handleFindInspiration(_ context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	situation, ok := request.Params.Arguments["situation"]
	if !ok || situation == "" {
		return nil, fmt.Errorf("missing required argument: situation")
	}
	s.metrics.RecordPromptRender("find-inspiration")

	return mcp.NewGetPromptResult(
		fmt.Sprintf("Finding inspiration for: %s", situation),
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(mcp.RoleUser,
				mcp.NewTextContent(fmt.Sprintf(findInspirationPrompt, situation))),
		},
	), nil
}

func (s *Server) handleQuoteExplainer(_ context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	quoteText, ok := request.Params.Arguments["quote_text"]
	if !ok || quoteText == "" {
		return nil, fmt.Errorf("missing required argument: quote_text")
	}
	author := request.Params.Arguments["author"]
	if author == "" {
		author = "Unknown"
	}
	s.metrics.RecordPromptRender("quote-explainer")

	return mcp.NewGetPromptResult(
		fmt.Sprintf("Analyzing quote by %s", author),
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(mcp.RoleUser,
				mcp.NewTextContent(fmt.Sprintf(quoteExplainerPrompt, quoteText, author))),
		},
	), nil
}

func (s *Server) handleAddQuoteHelper(_ context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	rawInput, ok := request.Params.Arguments["raw_input"]
	if !ok || rawInput == "" {
		return nil, fmt.Errorf("missing required argument: raw_input")
	}
	s.metrics.RecordPromptRender("add-quote-helper")

	return mcp.NewGetPromptResult(
		"Helping add a new quote",
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(mcp.RoleUser,
				mcp.NewTextContent(fmt.Sprintf(addQuoteHelperPrompt, rawInput))),
		},
	), nil
}
