package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) updateHelp(msg tea.KeyMsg) (Model, tea.Cmd) {
	// Any key returns to the screen help was opened from
	m.mode = m.prevMode
	return m, nil
}

func (m Model) viewHelp() string {
	help := `
quickchat - Help
════════════════

CHAT
────
  Enter        Send message
  ctrl+n       Start a new chat
  tab, ctrl+o  Open history
  ctrl+y       Copy last reply to clipboard
  pgup/pgdown  Scroll transcript
  f1           Show this help
  esc, ctrl+c  Quit

HISTORY
───────
  ↑/↓, j/k     Navigate chats
  Enter        Open selected chat
  n            Start a new chat
  d            Delete selected chat (confirm with y)
  c            Copy session id to clipboard
  /            Filter by title or provider
  esc, tab     Back to chat

Chats are saved after every message. Replies are simulated.

Press any key to go back
`

	return helpStyle.Render(help)
}
