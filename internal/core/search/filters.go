package search

import (
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// Filters represents parsed filters from a search query
type Filters struct {
	Query      string    // The actual search text
	Provider   string    // Filter by provider label
	AfterDate  time.Time // Only sessions modified after this date
	BeforeDate time.Time // Only sessions modified before this date
	HasAfter   bool      // Whether AfterDate was set
	HasBefore  bool      // Whether BeforeDate was set
}

// ParseQuery extracts filters from a search query string
// Supports:
//   - provider:<label> - filter by provider
//   - date:yesterday, date:last-week, date:2024-11-01 - same as after:
//   - after:yesterday, before:2024-11-01 - explicit date ranges
func ParseQuery(query string, now time.Time) Filters {
	filters := Filters{}

	w := NewDateParser()

	var queryParts []string
	for _, token := range strings.Fields(query) {
		switch {
		case strings.HasPrefix(token, "provider:"):
			filters.Provider = strings.TrimPrefix(token, "provider:")
			continue

		case strings.HasPrefix(token, "date:"), strings.HasPrefix(token, "after:"):
			dateStr := token[strings.IndexByte(token, ':')+1:]
			if parsed := ParseDate(w, dateStr, now); parsed != nil {
				filters.AfterDate = *parsed
				filters.HasAfter = true
			}
			continue

		case strings.HasPrefix(token, "before:"):
			if parsed := ParseDate(w, strings.TrimPrefix(token, "before:"), now); parsed != nil {
				filters.BeforeDate = *parsed
				filters.HasBefore = true
			}
			continue
		}

		queryParts = append(queryParts, token)
	}

	filters.Query = strings.Join(queryParts, " ")
	return filters
}

// NewDateParser returns a when parser with the English and common rules
func NewDateParser() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}

// ParseDate parses fixed layouts first, then natural language relative to now.
// Hyphens stand in for spaces so "last-week" can be written as one token.
func ParseDate(w *when.Parser, dateStr string, now time.Time) *time.Time {
	formats := []string{
		"2006-01-02",
		"2006-01-02T15:04:05",
		time.RFC3339,
		"2006/01/02",
		"01/02/2006",
	}
	for _, format := range formats {
		if t, err := time.ParseInLocation(format, dateStr, now.Location()); err == nil {
			return &t
		}
	}

	result, err := w.Parse(strings.ReplaceAll(dateStr, "-", " "), now)
	if err == nil && result != nil {
		return &result.Time
	}
	return nil
}
