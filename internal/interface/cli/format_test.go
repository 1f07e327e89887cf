package cli

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/neilberkman/quickchat/internal/core/history"
)

func TestTruncateSummary(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"short", "hello world", 20, "hello world"},
		{"collapses whitespace", "hello\n\n  world", 20, "hello world"},
		{"breaks at word", "the quick brown fox jumps over the lazy dog", 30, "the quick brown fox jumps..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncateSummary(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("truncateSummary(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestResolveSession(t *testing.T) {
	store := history.Open(filepath.Join(t.TempDir(), history.DefaultFileName))
	a := store.Save(store.CreateSession("GPT"))
	b := store.Save(store.CreateSession("GPT"))

	got, err := resolveSession(store, a.ID)
	if err != nil || got.ID != a.ID {
		t.Errorf("full id: got %s, %v", got.ID, err)
	}

	got, err = resolveSession(store, b.ID[:8])
	if err != nil || got.ID != b.ID {
		t.Errorf("prefix: got %s, %v", got.ID, err)
	}

	if _, err := resolveSession(store, "zzzz"); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("unknown id: err = %v", err)
	}

	if _, err := resolveSession(store, ""); err == nil {
		t.Error("empty id should fail")
	}
}
