package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/neilberkman/quickchat/internal/core/db"
	"github.com/spf13/cobra"
)

var (
	archiveSearch string
	archiveLimit  int
)

var archiveCmd = &cobra.Command{
	Use:   "archive [database]",
	Short: "Mirror the history into a SQLite database",
	Long: `Write every session and message into a SQLite database with a
full-text index, for querying with sqlite3 or other tools. The database
mirrors the history file: sessions deleted from history are removed.

The default database is archive.db next to the history file.

Examples:
  quickchat archive
  quickchat archive ~/chats.db
  quickchat archive --search "goroutine channels"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runArchive,
}

func init() {
	rootCmd.AddCommand(archiveCmd)
	archiveCmd.Flags().StringVar(&archiveSearch, "search", "", "Run a full-text query against the archive after updating it")
	archiveCmd.Flags().IntVar(&archiveLimit, "limit", 20, "Maximum number of search results")
}

func runArchive(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	store := openStore(cfg)

	dbPath := filepath.Join(filepath.Dir(cfg.HistoryPath), "archive.db")
	if len(args) == 1 {
		dbPath = args[0]
	}

	database, err := db.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		_ = database.Close()
	}()

	sessions := store.Sessions()
	var progress db.ProgressCallback
	if isTerminal(os.Stderr) && len(sessions) > 0 {
		progress = db.NewProgressReporter(os.Stderr, len(sessions))
	}

	stats, err := database.ArchiveWithProgress(sessions, progress)
	if err != nil {
		return fmt.Errorf("failed to archive history: %w", err)
	}
	fmt.Printf("Archived %d session(s), %d message(s) to %s", stats.SessionsWritten, stats.MessagesWritten, dbPath)
	if stats.SessionsRemoved > 0 {
		fmt.Printf(" (removed %d)", stats.SessionsRemoved)
	}
	fmt.Println()

	if archiveSearch == "" {
		return nil
	}

	results, err := database.Search(archiveSearch, archiveLimit)
	if err != nil {
		return err
	}
	fmt.Printf("\n%d match(es) for %q\n\n", len(results), archiveSearch)
	for _, r := range results {
		fmt.Printf("%s  %s\n    #%d %-9s %s\n", r.SessionID, truncateSummary(r.Title, 60), r.Sequence, r.Role, r.Snippet)
	}
	return nil
}
