package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/neilberkman/quickchat/internal/core/models"
)

type sessionListItem struct {
	session models.Session
	current bool
}

func (i sessionListItem) FilterValue() string {
	return i.session.Title() + " " + i.session.Provider
}

func (i sessionListItem) Title() string {
	return i.session.Title()
}

func (i sessionListItem) Description() string {
	return fmt.Sprintf("%s | %d messages | Created %s | Updated %s",
		i.session.Provider, len(i.session.Messages),
		humanize.Time(i.session.CreatedAt), humanize.Time(i.session.LastModified))
}

// Custom delegate to highlight the session open in the chat screen
type sessionDelegate struct {
	list.DefaultDelegate
}

func (d sessionDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	s, ok := item.(sessionListItem)
	if !ok {
		d.DefaultDelegate.Render(w, m, index, item)
		return
	}

	title := s.Title()
	if s.current {
		title += " (open)"
	}
	desc := s.Description()

	switch {
	case index == m.Index():
		title = selectedItemStyle.Render("> " + title)
		desc = selectedItemStyle.Faint(true).Render("  " + desc)
	case s.current:
		title = currentItemStyle.Render(title)
		desc = itemStyle.Render(desc)
	default:
		title = itemStyle.Render(title)
		desc = itemStyle.Render(desc)
	}

	fmt.Fprintf(w, "%s\n%s", title, desc)
}

func newHistoryList(width, height int) list.Model {
	delegate := sessionDelegate{DefaultDelegate: list.NewDefaultDelegate()}

	l := list.New(nil, delegate, width, height-3) // Header and footer lines
	l.Title = "History"
	l.Styles.Title = titleStyle
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.SetFilteringEnabled(true)
	l.SetStatusBarItemName("chat", "chats")

	return l
}

// syncHistory rebuilds the list items from the store
func (m Model) syncHistory() (Model, tea.Cmd) {
	currentID := ""
	if m.controller != nil {
		currentID = m.controller.Current().ID
	}

	sessions := m.store.Sessions()
	items := make([]list.Item, len(sessions))
	for i, s := range sessions {
		items[i] = sessionListItem{session: s, current: s.ID == currentID}
	}

	m.listVersion = m.watch.version
	cmd := m.list.SetItems(items)
	return m, cmd
}

// reloadHistory picks up changes made by another process. A saved chat that
// vanished from the document is treated like a delete from the browser.
func (m Model) reloadHistory() Model {
	if !m.store.Reload() || m.controller == nil {
		return m
	}

	current := m.controller.Current()
	if len(current.Messages) == 0 {
		// Never saved, so its absence means nothing
		return m
	}
	if _, ok := m.store.Get(current.ID); ok {
		return m
	}

	m.controller.OnSessionDeletedExternally(current.ID)
	m.awaiting = ""
	m.refreshTranscript()
	m.status = "The open chat was deleted outside quickchat"
	return m
}

func (m Model) selectedSession() (models.Session, bool) {
	selected, ok := m.list.SelectedItem().(sessionListItem)
	if !ok {
		return models.Session{}, false
	}
	return selected.session, true
}

func (m Model) updateHistory(msg tea.KeyMsg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	// Typing a filter owns the keyboard
	if m.list.FilterState() == list.Filtering {
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	if m.confirmDelete != "" {
		id := m.confirmDelete
		m.confirmDelete = ""
		if msg.String() != "y" {
			m.status = "Delete cancelled"
			return m, nil
		}

		// The store's delete hook moves the chat off id if it was open
		m.store.Delete(id)
		if m.awaiting != "" {
			if last, ok := m.controller.Current().LastMessage(); !ok || last.ID != m.awaiting {
				m.awaiting = ""
			}
		}
		m.refreshTranscript()
		m.status = "Deleted chat"
		return m.syncHistory()
	}

	m.status = ""

	switch msg.String() {
	case "enter":
		s, ok := m.selectedSession()
		if !ok {
			return m, nil
		}
		// Pick up the stored copy, the list item may be older
		if stored, found := m.store.Get(s.ID); found {
			s = stored
		}
		m.controller.SwitchTo(s)
		m.refreshTranscript()
		m.mode = chatView
		return m, nil

	case "d", "delete":
		s, ok := m.selectedSession()
		if !ok {
			return m, nil
		}
		m.confirmDelete = s.ID
		m.status = fmt.Sprintf("Delete %q? (y/n)", s.Title())
		return m, nil

	case "n":
		m.controller.StartNewChat()
		m.input.SetValue(m.controller.Draft())
		m.awaiting = ""
		m.refreshTranscript()
		m.mode = chatView
		return m, nil

	case "c":
		s, ok := m.selectedSession()
		if !ok {
			return m, nil
		}
		return m, copyToClipboard(s.ID, "session id")

	case "f1", "?":
		m.prevMode = historyView
		m.mode = helpView
		return m, nil

	case "esc", "q", "tab":
		if m.list.FilterState() == list.FilterApplied && msg.String() == "esc" {
			m.list.ResetFilter()
			return m, nil
		}
		m.mode = chatView
		return m, nil
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) viewHistory() string {
	header := titleStyle.Render("History") +
		timestampStyle.Render(fmt.Sprintf("  %d chats", m.store.Len()))

	body := m.list.View()
	if len(m.list.Items()) == 0 {
		body = helpStyle.Render("\nNo saved chats yet.")
	}

	footer := helpStyle.Render("enter: open • n: new chat • d: delete • c: copy id • /: filter • esc: back • ?: help")
	if m.status != "" {
		footer = statusStyle.Render(m.status)
	}

	return header + "\n" + body + "\n" + footer
}
