package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/neilberkman/quickchat/internal/core/models"
)

const displayTime = "Jan 02, 2006 15:04:05"

// Markdown renders a session as a markdown document
func Markdown(s models.Session) string {
	var b strings.Builder

	// Header
	b.WriteString("# ")
	b.WriteString(s.Title())
	b.WriteString("\n\n")

	// Metadata
	fmt.Fprintf(&b, "**Session ID:** `%s`  \n", s.ID)
	fmt.Fprintf(&b, "**Provider:** %s  \n", s.Provider)
	fmt.Fprintf(&b, "**Created:** %s  \n", formatTime(s.CreatedAt))
	fmt.Fprintf(&b, "**Updated:** %s  \n", formatTime(s.LastModified))
	fmt.Fprintf(&b, "**Messages:** %d\n\n", len(s.Messages))
	b.WriteString("---\n\n")

	for _, m := range s.Messages {
		fmt.Fprintf(&b, "**%s** _%s_\n\n", strings.ToUpper(string(m.Role)), formatTime(m.Timestamp))
		if m.Content != "" {
			b.WriteString(m.Content)
			b.WriteString("\n\n")
		}
		b.WriteString("---\n\n")
	}

	return b.String()
}

// FileName returns the default export name, session-<first 8 chars of id>.md
func FileName(id string) string {
	shortID := id
	if len(shortID) > 8 {
		shortID = shortID[:8]
	}
	return fmt.Sprintf("session-%s.md", shortID)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return t.Format(displayTime)
}
