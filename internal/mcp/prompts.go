// ABOUTME: MCP prompt definitions and handlers
// ABOUTME: Provides workflow templates for summarizing and linking published articles

package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPrompts() {
	s.registerCategoryRoundupPrompt()
	s.registerInternalLinksPrompt()
}

func (s *Server) registerCategoryRoundupPrompt() {
	s.mcpServer.AddPrompt(
		mcp.Prompt{
			Name:        "category-roundup",
			Description: "Summarize the published articles in one category as a short patient-facing roundup",
			Arguments: []mcp.PromptArgument{
				{
					Name:        "category",
					Description: "Category to summarize (default: all)",
					Required:    false,
				},
			},
		},
		s.handleCategoryRoundup,
	)
}

func (s *Server) handleCategoryRoundup(_ context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	category := "all"
	if req.Params.Arguments != nil {
		if c, ok := req.Params.Arguments["category"]; ok && c != "" {
			category = c
		}
	}

	template := fmt.Sprintf(`# Category Roundup: %[1]s

## Workflow Steps

### Step 1: Check the categories
Read the smilefeed://categories resource to confirm '%[1]s' exists and see how many articles it has.

### Step 2: List the articles
Call list_articles with category='%[1]s'. Only released articles are returned.

### Step 3: Read the key articles
Call get_article for the three to five most relevant slugs. Note the main advice in each.

### Step 4: Write the roundup
- One sentence per article with its title and slug
- Group related advice together
- Plain language, no clinical claims beyond what the articles say
- Finish with one line on what is coming next (see smilefeed://schedule)
`, category)

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Roundup of published articles in %s", category),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: template,
				},
			},
		},
	}, nil
}

func (s *Server) registerInternalLinksPrompt() {
	s.mcpServer.AddPrompt(
		mcp.Prompt{
			Name:        "internal-links",
			Description: "Suggest internal links from one article to other published articles",
			Arguments: []mcp.PromptArgument{
				{
					Name:        "slug",
					Description: "Slug of the article to add links to",
					Required:    true,
				},
			},
		},
		s.handleInternalLinks,
	)
}

func (s *Server) handleInternalLinks(_ context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	slug := req.Params.Arguments["slug"]
	if slug == "" {
		return nil, fmt.Errorf("slug argument is required")
	}

	template := fmt.Sprintf(`# Internal Links for %[1]s

1. Call get_article with slug='%[1]s' and read its content.
2. Call related_articles with slug='%[1]s' and limit=6.
3. Call search_articles for two or three key phrases from the article.
4. For each candidate, propose the exact sentence in '%[1]s' where a link fits and the target slug.
5. Skip candidates that only share a category but not a topic.
`, slug)

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Internal link suggestions for %s", slug),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: template,
				},
			},
		},
	}, nil
}
