package mcp

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/neilberkman/quickchat/internal/core/history"
	"github.com/neilberkman/quickchat/internal/core/models"
)

func newTestStore(t *testing.T) (*history.Store, models.Session) {
	t.Helper()
	store := history.Open(filepath.Join(t.TempDir(), history.DefaultFileName))

	s := store.CreateSession("GPT")
	now := time.Now().UTC()
	s.Append(models.NewMessage(models.RoleUser, "How do channels work?", now))
	s.Append(models.NewMessage(models.RoleAssistant, `Response for: "How do channels work?" (Provider: GPT)`, now))
	saved := store.Save(s)

	other := store.CreateSession("Claude")
	other.Append(models.NewMessage(models.RoleUser, "Write a poem", now))
	store.Save(other)

	return store, saved
}

func call(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]interface{}) (string, bool) {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Arguments = args

	result, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if len(result.Content) == 0 {
		t.Fatal("empty tool result")
	}
	switch c := result.Content[0].(type) {
	case mcp.TextContent:
		return c.Text, result.IsError
	case *mcp.TextContent:
		return c.Text, result.IsError
	}
	t.Fatalf("unexpected content type %T", result.Content[0])
	return "", false
}

func TestListRecentSessions(t *testing.T) {
	store, _ := newTestStore(t)
	handler := makeListRecentSessionsHandler(store)

	text, isErr := call(t, handler, map[string]interface{}{})
	if isErr {
		t.Fatalf("tool error: %s", text)
	}
	var out struct {
		Sessions []SessionSummary `json:"sessions"`
	}
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		t.Fatal(err)
	}
	if len(out.Sessions) != 2 {
		t.Fatalf("got %d sessions, want 2", len(out.Sessions))
	}
	if out.Sessions[0].Provider != "Claude" {
		t.Errorf("newest session provider = %s, want Claude", out.Sessions[0].Provider)
	}

	text, _ = call(t, handler, map[string]interface{}{"provider": "GPT", "limit": 5})
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		t.Fatal(err)
	}
	if len(out.Sessions) != 1 || out.Sessions[0].Title != "How do channels work?" {
		t.Errorf("provider filter returned %+v", out.Sessions)
	}
}

func TestGetSessionDetail(t *testing.T) {
	store, saved := newTestStore(t)
	handler := makeGetSessionDetailHandler(store)

	text, isErr := call(t, handler, map[string]interface{}{"session_id": saved.ID})
	if isErr {
		t.Fatalf("tool error: %s", text)
	}
	var detail SessionDetail
	if err := json.Unmarshal([]byte(text), &detail); err != nil {
		t.Fatal(err)
	}
	if detail.SessionID != saved.ID || len(detail.Messages) != 2 {
		t.Errorf("detail = %+v", detail)
	}
	if detail.Messages[1].Role != "assistant" || detail.Messages[1].Sequence != 1 {
		t.Errorf("second message = %+v", detail.Messages[1])
	}

	if _, isErr := call(t, handler, map[string]interface{}{"session_id": "missing"}); !isErr {
		t.Error("expected an error result for an unknown session")
	}
}

func TestSearchSessions(t *testing.T) {
	store, saved := newTestStore(t)
	handler := makeSearchSessionsHandler(store)

	text, isErr := call(t, handler, map[string]interface{}{"query": "channels"})
	if isErr {
		t.Fatalf("tool error: %s", text)
	}
	var out struct {
		Sessions []SessionSummary `json:"sessions"`
	}
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		t.Fatal(err)
	}
	if len(out.Sessions) != 1 || out.Sessions[0].SessionID != saved.ID {
		t.Fatalf("search returned %+v", out.Sessions)
	}
	if len(out.Sessions[0].Matches) != 2 {
		t.Errorf("got %d matches, want 2", len(out.Sessions[0].Matches))
	}

	if _, isErr := call(t, handler, map[string]interface{}{"query": "x", "after_date": "not a date"}); !isErr {
		t.Error("expected an error result for an invalid date")
	}
	if _, isErr := call(t, handler, map[string]interface{}{}); !isErr {
		t.Error("expected an error result for a missing query")
	}
}
