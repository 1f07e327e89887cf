package cli

import (
	"fmt"
	"time"

	"github.com/neilberkman/quickchat/internal/core/search"
	"github.com/spf13/cobra"
)

var (
	listLimit    int
	listProvider string
	listSince    string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List chat sessions",
	Long: `List saved chat sessions, newest first.

Shows session titles, providers, message counts, and timestamps.

Examples:
  quickchat list
  quickchat list --limit 10
  quickchat list --provider-filter Claude
  quickchat list --since yesterday`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().IntVar(&listLimit, "limit", 20, "Maximum number of sessions to display")
	listCmd.Flags().StringVar(&listProvider, "provider-filter", "", "Only show sessions from this provider")
	listCmd.Flags().StringVar(&listSince, "since", "", "Only sessions modified after this date (e.g. yesterday, 2025-01-01)")
}

func runList(cmd *cobra.Command, args []string) error {
	store := openStore(loadConfig())

	filters := search.Filters{Provider: listProvider}
	if listSince != "" {
		parsed := search.ParseDate(search.NewDateParser(), listSince, time.Now())
		if parsed == nil {
			return fmt.Errorf("could not parse --since %q", listSince)
		}
		filters.AfterDate = *parsed
		filters.HasAfter = true
	}

	results := search.Sessions(store.Sessions(), filters)
	if len(results) > listLimit {
		results = results[:listLimit]
	}

	if len(results) == 0 {
		fmt.Println("No sessions found. Run 'quickchat' to start chatting.")
		return nil
	}

	fmt.Printf("Showing %d session(s)\n\n", len(results))

	for i, r := range results {
		s := r.Session
		fmt.Printf("[%d] %s\n", i+1, s.ID)
		fmt.Printf("    Title: %s\n", truncateSummary(s.Title(), 80))
		fmt.Printf("    Provider: %s\n", s.Provider)
		fmt.Printf("    Messages: %d\n", len(s.Messages))
		fmt.Printf("    Updated: %s\n", formatTimestamp(s.LastModified))
		fmt.Printf("    Created: %s\n", formatTimestamp(s.CreatedAt))
		fmt.Println()
	}

	return nil
}
