package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/neilberkman/quickchat/internal/core/chat"
	"github.com/spf13/cobra"
)

var (
	sendNew     bool
	sendSession string
)

var sendCmd = &cobra.Command{
	Use:   "send <message>",
	Short: "Send one message and print the reply",
	Long: `Send a message without opening the TUI. The message goes to the most
recent session unless --new or --session is given, and the simulated reply is
printed once it arrives.

Examples:
  quickchat send "What's the weather like?"
  quickchat send --new "Start a fresh topic"
  quickchat send --session 0ccfddc4 "Follow up"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().BoolVar(&sendNew, "new", false, "Start a new session")
	sendCmd.Flags().StringVar(&sendSession, "session", "", "Send to this session (id or prefix)")
}

func runSend(cmd *cobra.Command, args []string) error {
	if sendNew && sendSession != "" {
		return errors.New("--new and --session are mutually exclusive")
	}

	cfg := loadConfig()
	store := openStore(cfg)

	controller := chat.NewController(store, cfg.Provider,
		chat.WithReplyDelay(cfg.ReplyDelay),
		chat.WithReplier(chat.NewReplier(cfg.ReplyTemplate)),
	)
	controller.Initialize()

	switch {
	case sendNew:
		controller.StartNewChat()
	case sendSession != "":
		s, err := resolveSession(store, sendSession)
		if err != nil {
			return err
		}
		controller.SwitchTo(s)
	}

	pending, ok := controller.SendMessage(strings.Join(args, " "))
	if !ok {
		return errors.New("message is empty")
	}

	spinner := NewSpinner("Waiting for reply...")
	spinner.Start()
	delivered := controller.AwaitReply(cmd.Context(), pending)
	spinner.Stop()

	if !delivered {
		fmt.Printf("Session %s: message saved, reply interrupted\n", controller.Current().ID)
		return nil
	}

	current := controller.Current()
	reply, _ := current.LastMessage()
	fmt.Println(reply.Content)
	fmt.Printf("\n(session %s, %d messages)\n", current.ID, len(current.Messages))
	return nil
}
