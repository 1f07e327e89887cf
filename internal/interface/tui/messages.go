package tui

import (
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/neilberkman/quickchat/internal/core/chat"
)

// replyDueMsg fires once the simulated assistant latency has elapsed
type replyDueMsg struct {
	pending chat.PendingReply
}

// HistoryChangedMsg tells the model the history document changed on disk
type HistoryChangedMsg struct{}

type clipboardMsg struct {
	what string
	err  error
}

// scheduleReply delivers pending back into Update after its delay
func scheduleReply(pending chat.PendingReply) tea.Cmd {
	return tea.Tick(pending.Delay, func(time.Time) tea.Msg {
		return replyDueMsg{pending: pending}
	})
}

func copyToClipboard(text, what string) tea.Cmd {
	return func() tea.Msg {
		return clipboardMsg{what: what, err: clipboard.WriteAll(text)}
	}
}
