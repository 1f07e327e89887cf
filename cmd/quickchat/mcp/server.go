package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/neilberkman/quickchat/internal/core/history"
	"github.com/neilberkman/quickchat/internal/core/models"
	"github.com/neilberkman/quickchat/internal/core/search"
)

const timeLayout = "2006-01-02 15:04:05"

// SearchSessionsArgs defines arguments for the search_sessions tool
type SearchSessionsArgs struct {
	Query      string `json:"query"`
	Limit      int    `json:"limit,omitempty"`
	Provider   string `json:"provider,omitempty"`
	AfterDate  string `json:"after_date,omitempty"`
	BeforeDate string `json:"before_date,omitempty"`
}

// GetSessionDetailArgs defines arguments for the get_session_detail tool
type GetSessionDetailArgs struct {
	SessionID string `json:"session_id"`
}

// ListRecentSessionsArgs defines arguments for the list_recent_sessions tool
type ListRecentSessionsArgs struct {
	Limit    int    `json:"limit,omitempty"`
	Provider string `json:"provider,omitempty"`
}

// SessionSummary represents a session in list and search results
type SessionSummary struct {
	SessionID    string         `json:"session_id"`
	Title        string         `json:"title"`
	Provider     string         `json:"provider"`
	CreatedAt    string         `json:"created_at"`
	UpdatedAt    string         `json:"updated_at"`
	UpdatedAgo   string         `json:"updated_ago"`
	MessageCount int            `json:"message_count"`
	Matches      []MatchSnippet `json:"matches,omitempty"`
}

// MatchSnippet represents a message match within a session
type MatchSnippet struct {
	Role     string `json:"role"`
	Snippet  string `json:"snippet"`
	Sequence int    `json:"sequence"`
}

// SessionDetail is a full session transcript
type SessionDetail struct {
	SessionSummary
	Messages []MessageDetail `json:"messages"`
}

// MessageDetail represents a single message in a session
type MessageDetail struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
	Sequence  int    `json:"sequence"`
}

// StartServer serves read-only history tools over stdio
func StartServer(store *history.Store, version string) error {
	if version == "" {
		version = "dev"
	}
	s := NewServer(store, version)
	return server.ServeStdio(s)
}

// NewServer creates the MCP server with the history tools registered
func NewServer(store *history.Store, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"quickchat",
		version,
	)

	listTool := mcp.NewTool("list_recent_sessions",
		mcp.WithDescription("Get recent quickchat sessions, newest first, optionally filtered by provider"),
		mcp.WithNumber("limit",
			mcp.Description("Max sessions to return (default: 20)")),
		mcp.WithString("provider",
			mcp.Description("Filter by provider label")),
	)
	s.AddTool(listTool, makeListRecentSessionsHandler(store))

	detailTool := mcp.NewTool("get_session_detail",
		mcp.WithDescription("Retrieve the full transcript of a quickchat session"),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session UUID to retrieve")),
	)
	s.AddTool(detailTool, makeGetSessionDetailHandler(store))

	searchTool := mcp.NewTool("search_sessions",
		mcp.WithDescription("Search quickchat message content. Supports provider and date filtering."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search term to match against message content")),
		mcp.WithNumber("limit",
			mcp.Description("Max number of sessions to return (default: 10)")),
		mcp.WithString("provider",
			mcp.Description("Filter by provider label")),
		mcp.WithString("after_date",
			mcp.Description("Only sessions updated after this date (ISO 8601 or natural language, e.g. 'yesterday')")),
		mcp.WithString("before_date",
			mcp.Description("Only sessions updated before this date")),
	)
	s.AddTool(searchTool, makeSearchSessionsHandler(store))

	return s
}

// decodeArgs converts the loosely typed tool arguments into a struct
func decodeArgs(request mcp.CallToolRequest, v interface{}) error {
	argsBytes, err := json.Marshal(request.Params.Arguments)
	if err != nil {
		return err
	}
	return json.Unmarshal(argsBytes, v)
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	resultJSON, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(resultJSON)), nil
}

func summarize(s models.Session) SessionSummary {
	return SessionSummary{
		SessionID:    s.ID,
		Title:        s.Title(),
		Provider:     s.Provider,
		CreatedAt:    s.CreatedAt.Format(timeLayout),
		UpdatedAt:    s.LastModified.Format(timeLayout),
		UpdatedAgo:   humanize.Time(s.LastModified),
		MessageCount: len(s.Messages),
	}
}

func makeListRecentSessionsHandler(store *history.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args ListRecentSessionsArgs
		if err := decodeArgs(request, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		limit := args.Limit
		if limit <= 0 {
			limit = 20
		}

		// Pick up sessions written by other quickchat processes
		store.Load()

		results := search.Sessions(store.Sessions(), search.Filters{Provider: args.Provider})
		sessions := []SessionSummary{}
		for _, r := range results {
			if len(sessions) >= limit {
				break
			}
			sessions = append(sessions, summarize(r.Session))
		}

		return jsonResult(map[string]interface{}{
			"sessions": sessions,
		})
	}
}

func makeGetSessionDetailHandler(store *history.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args GetSessionDetailArgs
		if err := decodeArgs(request, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		store.Load()

		s, ok := store.Get(args.SessionID)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("session not found: %s", args.SessionID)), nil
		}

		detail := SessionDetail{
			SessionSummary: summarize(s),
			Messages:       make([]MessageDetail, 0, len(s.Messages)),
		}
		for i, m := range s.Messages {
			detail.Messages = append(detail.Messages, MessageDetail{
				Role:      string(m.Role),
				Content:   m.Content,
				Timestamp: m.Timestamp.Format(timeLayout),
				Sequence:  i,
			})
		}

		return jsonResult(detail)
	}
}

func makeSearchSessionsHandler(store *history.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args SearchSessionsArgs
		if err := decodeArgs(request, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		if args.Query == "" {
			return mcp.NewToolResultError("query is required"), nil
		}

		limit := args.Limit
		if limit <= 0 {
			limit = 10
		}

		now := time.Now()
		w := search.NewDateParser()
		filters := search.Filters{Query: args.Query, Provider: args.Provider}
		if args.AfterDate != "" {
			parsed := search.ParseDate(w, args.AfterDate, now)
			if parsed == nil {
				return mcp.NewToolResultError(fmt.Sprintf("invalid after_date: %s", args.AfterDate)), nil
			}
			filters.AfterDate, filters.HasAfter = *parsed, true
		}
		if args.BeforeDate != "" {
			parsed := search.ParseDate(w, args.BeforeDate, now)
			if parsed == nil {
				return mcp.NewToolResultError(fmt.Sprintf("invalid before_date: %s", args.BeforeDate)), nil
			}
			filters.BeforeDate, filters.HasBefore = *parsed, true
		}

		store.Load()

		results := []SessionSummary{}
		for _, r := range search.Sessions(store.Sessions(), filters) {
			if len(results) >= limit {
				break
			}
			summary := summarize(r.Session)
			for _, m := range r.Matches {
				summary.Matches = append(summary.Matches, MatchSnippet{
					Role:     string(m.Role),
					Snippet:  m.Snippet,
					Sequence: m.Index,
				})
			}
			results = append(results, summary)
		}

		return jsonResult(map[string]interface{}{
			"sessions": results,
		})
	}
}
