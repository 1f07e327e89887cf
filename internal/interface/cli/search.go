package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/neilberkman/quickchat/internal/core/search"
	"github.com/spf13/cobra"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search message content across sessions",
	Long: `Search all sessions for messages containing the query.

Filters can be mixed into the query:
  provider:<label>          only sessions from this provider
  after:<date>, date:<date> only sessions modified after the date
  before:<date>             only sessions modified before the date

Dates accept 2025-01-02 style or natural language (yesterday, last-week).

Examples:
  quickchat search goroutines
  quickchat search "provider:Claude after:yesterday haiku"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntVar(&searchLimit, "limit", 20, "Maximum number of sessions to display")
}

func runSearch(cmd *cobra.Command, args []string) error {
	store := openStore(loadConfig())

	filters := search.ParseQuery(strings.Join(args, " "), time.Now())
	results := search.Sessions(store.Sessions(), filters)
	if len(results) > searchLimit {
		results = results[:searchLimit]
	}

	if len(results) == 0 {
		fmt.Println("No matching sessions.")
		return nil
	}

	for _, r := range results {
		fmt.Printf("%s  %s (%s, %s)\n", r.Session.ID, truncateSummary(r.Session.Title(), 60),
			r.Session.Provider, formatTimestamp(r.Session.LastModified))
		for _, m := range r.Matches {
			fmt.Printf("    #%d %-9s %s\n", m.Index, m.Role, truncateSummary(m.Snippet, 100))
		}
		fmt.Println()
	}
	return nil
}
