// Package search filters the chat history by text, provider and date.
package search

import (
	"strings"
	"unicode/utf8"

	"github.com/neilberkman/quickchat/internal/core/models"
)

const (
	snippetLen        = 200
	matchesPerSession = 3
)

// Match is a message whose content contains the query
type Match struct {
	MessageID string
	Role      models.Role
	Index     int // Position in the session's message list
	Snippet   string
}

// Result is a session that passed the filters
type Result struct {
	Session models.Session
	Matches []Match
}

// Sessions returns the sessions that satisfy f, preserving input order.
// With an empty Query every session passing the provider and date filters is
// returned without matches. Matching is case-insensitive; at most three
// matches are reported per session.
func Sessions(sessions []models.Session, f Filters) []Result {
	needle := strings.TrimSpace(f.Query)

	var results []Result
	for _, s := range sessions {
		if f.Provider != "" && !strings.EqualFold(s.Provider, f.Provider) {
			continue
		}
		if f.HasAfter && !s.LastModified.After(f.AfterDate) {
			continue
		}
		if f.HasBefore && !s.LastModified.Before(f.BeforeDate) {
			continue
		}

		if needle == "" {
			results = append(results, Result{Session: s})
			continue
		}

		var matches []Match
		for i, m := range s.Messages {
			pos := indexFold(m.Content, needle)
			if pos < 0 {
				continue
			}
			if len(matches) < matchesPerSession {
				matches = append(matches, Match{
					MessageID: m.ID,
					Role:      m.Role,
					Index:     i,
					Snippet:   snippet(m.Content, pos),
				})
			}
		}
		if len(matches) > 0 {
			results = append(results, Result{Session: s, Matches: matches})
		}
	}
	return results
}

// indexFold returns the byte offset in s of the first case-insensitive match
// of needle, or -1. Comparison is rune by rune with simple folding, so the
// offset always points into s even when upper and lower case forms differ in
// byte length.
func indexFold(s, needle string) int {
	n := utf8.RuneCountInString(needle)
	for i := 0; i < len(s); {
		end := i
		for r := 0; r < n && end < len(s); r++ {
			_, size := utf8.DecodeRuneInString(s[end:])
			end += size
		}
		if utf8.RuneCountInString(s[i:end]) < n {
			return -1
		}
		if strings.EqualFold(s[i:end], needle) {
			return i
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return -1
}

// snippet returns up to snippetLen bytes of content around pos, on rune
// boundaries, with newlines flattened
func snippet(content string, pos int) string {
	start := pos - snippetLen/4
	if start < 0 {
		start = 0
	}
	if start > len(content) {
		start = len(content)
	}
	for start > 0 && start < len(content) && !isRuneStart(content[start]) {
		start--
	}
	end := start + snippetLen
	if end > len(content) {
		end = len(content)
	}
	for end < len(content) && !isRuneStart(content[end]) {
		end--
	}

	out := strings.Join(strings.Fields(content[start:end]), " ")
	if start > 0 {
		out = "..." + out
	}
	if end < len(content) {
		out += "..."
	}
	return out
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
