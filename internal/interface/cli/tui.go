package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/neilberkman/quickchat/internal/core/config"
	"github.com/neilberkman/quickchat/internal/core/logging"
	"github.com/neilberkman/quickchat/internal/core/watcher"
	"github.com/neilberkman/quickchat/internal/interface/tui"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive chat",
	Long:  "Open the chat screen. The most recent chat is resumed; tab opens the history browser.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		store := openStore(cfg)

		// The terminal belongs to bubbletea while it runs
		logFile := redirectLogs()
		if logFile != nil {
			defer logFile.Close()
		}
		defer logging.SetOutput(os.Stderr)

		p := tea.NewProgram(tui.New(store, cfg), tea.WithAltScreen())

		// Reload when another quickchat process (send, delete) edits the history
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		w, err := watcher.New(store.Path(), func() { p.Send(tui.HistoryChangedMsg{}) })
		if err != nil {
			logging.Warnf("History changes from other processes won't be picked up: %v", err)
		} else {
			go func() {
				if err := w.Run(ctx); err != nil {
					logging.Warnf("History watcher stopped: %v", err)
				}
			}()
		}

		if _, err := p.Run(); err != nil {
			return fmt.Errorf("TUI error: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

// redirectLogs sends log output to <config dir>/quickchat.log, or discards
// it when the file can't be opened
func redirectLogs() *os.File {
	dir := config.Dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logging.SetOutput(io.Discard)
		return nil
	}

	f, err := tea.LogToFile(filepath.Join(dir, "quickchat.log"), "quickchat")
	if err != nil {
		logging.SetOutput(io.Discard)
		return nil
	}
	logging.SetOutput(f)
	return f
}
