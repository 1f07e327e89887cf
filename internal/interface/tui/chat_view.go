package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"
	"github.com/neilberkman/quickchat/internal/core/chat"
	"github.com/neilberkman/quickchat/internal/core/models"
)

const loadingText = "Loading..."

func newChatInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "Type a message..."
	ti.Prompt = "> "
	ti.CharLimit = 4000
	ti.Width = 72
	return ti
}

func (m Model) updateChat(msg tea.KeyMsg) (Model, tea.Cmd) {
	m.status = ""

	switch msg.String() {
	case "enter":
		pending, ok := m.controller.SendMessage(m.input.Value())
		if !ok {
			return m, nil
		}
		m.input.Reset()
		m.awaiting = pending.MessageID
		m.refreshTranscript()
		return m, scheduleReply(pending)

	case "ctrl+n":
		m.controller.StartNewChat()
		m.input.SetValue(m.controller.Draft())
		m.awaiting = ""
		m.refreshTranscript()
		m.status = "Started a new chat"
		return m, nil

	case "ctrl+o", "tab":
		var cmd tea.Cmd
		m, cmd = m.syncHistory()
		m.mode = historyView
		return m, cmd

	case "ctrl+y":
		reply, ok := lastReply(m.controller.Current())
		if !ok {
			m.status = "No reply to copy yet"
			return m, nil
		}
		return m, copyToClipboard(reply.Content, "reply")

	case "f1":
		m.prevMode = chatView
		m.mode = helpView
		return m, nil

	case "pgdown", "ctrl+d":
		m.viewport.HalfViewDown()
		return m, nil

	case "pgup", "ctrl+u":
		m.viewport.HalfViewUp()
		return m, nil

	case "esc":
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.controller.SetDraft(m.input.Value())
	return m, cmd
}

func (m Model) deliverReply(pending chat.PendingReply) Model {
	if m.controller == nil {
		return m
	}
	m.controller.DeliverReply(pending)
	if pending.MessageID == m.awaiting {
		m.awaiting = ""
	}
	m.refreshTranscript()
	return m
}

// refreshTranscript re-renders the current session into the viewport and
// scrolls to the newest message
func (m *Model) refreshTranscript() {
	m.viewport.SetContent(renderTranscript(m.controller.Current(), m.awaiting, m.width))
	m.viewport.GotoBottom()
}

// renderTranscript formats the messages of session. A loading placeholder is
// appended while awaiting is the id of its last (user) message; the
// placeholder never becomes part of the session.
func renderTranscript(session models.Session, awaiting string, width int) string {
	if len(session.Messages) == 0 {
		return helpStyle.Render("No messages yet. Type below and press enter.")
	}

	wrapWidth := width - 4
	if wrapWidth < 20 {
		wrapWidth = 20
	}

	var b strings.Builder
	for _, msg := range session.Messages {
		writeMessageHeader(&b, msg.Role)
		b.WriteString(" ")
		b.WriteString(timestampStyle.Render(msg.Timestamp.Local().Format("15:04:05")))
		b.WriteString("\n")
		b.WriteString(wordwrap.String(msg.Content, wrapWidth))
		b.WriteString("\n\n")
	}

	if last, ok := session.LastMessage(); ok && awaiting != "" && last.ID == awaiting {
		writeMessageHeader(&b, models.RoleAssistant)
		b.WriteString("\n")
		b.WriteString(loadingStyle.Render(loadingText))
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

func writeMessageHeader(b *strings.Builder, role models.Role) {
	if role == models.RoleAssistant {
		b.WriteString(assistantStyle.Render("▸ Assistant"))
		return
	}
	b.WriteString(userStyle.Render("▸ You"))
}

func lastReply(session models.Session) (models.Message, bool) {
	for i := len(session.Messages) - 1; i >= 0; i-- {
		if session.Messages[i].Role == models.RoleAssistant {
			return session.Messages[i], true
		}
	}
	return models.Message{}, false
}

func (m Model) viewChat() string {
	current := m.controller.Current()

	header := titleStyle.Render(current.Title()) +
		timestampStyle.Render(fmt.Sprintf("  %s • %d messages", current.Provider, len(current.Messages)))

	footer := helpStyle.Render("enter: send • ctrl+n: new chat • tab: history • ctrl+y: copy reply • f1: help • ctrl+c: quit")
	if m.status != "" {
		footer = statusStyle.Render(m.status)
	}

	return header + "\n" +
		m.viewport.View() + "\n" +
		inputBorderStyle.Width(m.width-2).Render(m.input.View()) + "\n" +
		footer
}
