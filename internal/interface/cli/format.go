package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/neilberkman/quickchat/internal/core/history"
	"github.com/neilberkman/quickchat/internal/core/models"
)

// truncateSummary truncates long text for single-line display
func truncateSummary(summary string, maxLen int) string {
	// Remove newlines and excessive whitespace
	summary = strings.Join(strings.Fields(summary), " ")

	if len(summary) <= maxLen {
		return summary
	}

	// Find a good break point (end of word)
	truncated := summary[:maxLen]
	lastSpace := strings.LastIndex(truncated, " ")
	if lastSpace > maxLen-20 {
		truncated = truncated[:lastSpace]
	}

	return strings.ToValidUTF8(truncated, "") + "..."
}

// formatTimestamp formats a timestamp relative to now, falling back to a
// date once it is more than a month old
func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	if time.Since(t) < 30*24*time.Hour {
		return humanize.Time(t)
	}
	if t.Year() == time.Now().Year() {
		return t.Local().Format("Jan 2")
	}
	return t.Local().Format("Jan 2, 2006")
}

// resolveSession finds a session by full ID or unique ID prefix
func resolveSession(store *history.Store, idOrPrefix string) (models.Session, error) {
	if idOrPrefix == "" {
		return models.Session{}, fmt.Errorf("session id is required")
	}
	if s, ok := store.Get(idOrPrefix); ok {
		return s, nil
	}

	var found []models.Session
	for _, s := range store.Sessions() {
		if strings.HasPrefix(s.ID, idOrPrefix) {
			found = append(found, s)
		}
	}

	switch len(found) {
	case 0:
		return models.Session{}, fmt.Errorf("session not found: %s", idOrPrefix)
	case 1:
		return found[0], nil
	default:
		return models.Session{}, fmt.Errorf("session prefix %q is ambiguous (%d matches)", idOrPrefix, len(found))
	}
}
