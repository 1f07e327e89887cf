package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/neilberkman/quickchat/internal/core/config"
	"github.com/neilberkman/quickchat/internal/core/history"
	"github.com/neilberkman/quickchat/internal/core/logging"
	"github.com/spf13/cobra"
)

var (
	historyPath string
	configPath  string
	provider    string
	verbose     bool
	versionInfo string
)

// SetVersion sets the version information from build-time ldflags
func SetVersion(version, commit, date string) {
	versionInfo = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)
	rootCmd.Version = versionInfo
}

// Execute runs the CLI
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "quickchat",
	Short: "Chat with a simulated assistant and browse your history",
	Long: `quickchat - a small terminal chat client

Conversations are saved to a local JSON history file and can be resumed,
searched, exported and archived. Replies come from a simulated assistant;
nothing is sent over the network.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.SetVerbose(verbose)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default to TUI if no subcommand specified
		return tuiCmd.RunE(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&historyPath, "history", "", "History file path (default from config, else ~/.local/share/quickchat/chatHistory.json)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "Config file path")
	rootCmd.PersistentFlags().StringVar(&provider, "provider", "", "Provider label for replies (default from config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// loadConfig reads the config file and applies flag overrides.
// A broken config file is reported and the defaults are used.
func loadConfig() *config.Config {
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		logging.Warnf("%v", err)
	}
	if historyPath != "" {
		cfg.HistoryPath = historyPath
	}
	if provider != "" {
		cfg.Provider = provider
	}
	return cfg
}

// openStore opens the single history store shared by a command
func openStore(cfg *config.Config) *history.Store {
	return history.Open(cfg.HistoryPath)
}
