package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Print a session transcript",
	Long: `Print every message of a session. The id may be abbreviated to any
unique prefix.

Examples:
  quickchat show 0ccfddc4`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	store := openStore(loadConfig())

	s, err := resolveSession(store, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("%s\n", s.Title())
	fmt.Printf("Session: %s | Provider: %s | Created: %s\n\n",
		s.ID, s.Provider, s.CreatedAt.Local().Format("Jan 02, 2006 15:04"))

	for _, m := range s.Messages {
		fmt.Printf("[%s] %s\n%s\n\n", m.Role, m.Timestamp.Local().Format("15:04:05"), m.Content)
	}
	return nil
}
