package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <session-id>",
	Aliases: []string{"rm"},
	Short:   "Delete a session from history",
	Args:    cobra.ExactArgs(1),
	RunE:    runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	store := openStore(loadConfig())

	s, err := resolveSession(store, args[0])
	if err != nil {
		return err
	}

	store.Delete(s.ID)
	if err := store.FlushError(); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}

	fmt.Printf("Deleted session %s (%s)\n", s.ID, truncateSummary(s.Title(), 60))
	return nil
}
