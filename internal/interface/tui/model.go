package tui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/neilberkman/quickchat/internal/core/chat"
	"github.com/neilberkman/quickchat/internal/core/config"
	"github.com/neilberkman/quickchat/internal/core/history"
)

type viewMode int

const (
	welcomeView viewMode = iota
	chatView
	historyView
	helpView
)

// Lines used around the transcript: header, input box (with border) and footer
const chatChromeHeight = 6

// historyWatch is bumped by the store's change hook. The model compares it
// against the version it last rendered to know when the list is stale.
type historyWatch struct {
	version int
}

type Model struct {
	store      *history.Store
	cfg        *config.Config
	controller *chat.Controller

	mode     viewMode
	prevMode viewMode
	width    int
	height   int

	welcome  welcomeForm
	input    textinput.Model
	viewport viewport.Model
	list     list.Model

	watch       *historyWatch
	listVersion int

	// Message id whose simulated reply is still outstanding
	awaiting string
	// Session id waiting for delete confirmation in the history view
	confirmDelete string
	status        string
}

// New builds the TUI over a shared store. The chat starts after the
// welcome screen collects an API key.
func New(store *history.Store, cfg *config.Config) Model {
	watch := &historyWatch{}
	store.Subscribe(func(history.Event) {
		watch.version++
	})

	m := Model{
		store:    store,
		cfg:      cfg,
		mode:     welcomeView,
		width:    80,
		height:   24,
		welcome:  newWelcomeForm(cfg.Provider),
		input:    newChatInput(),
		viewport: viewport.New(80, 24-chatChromeHeight),
		list:     newHistoryList(80, 24),
		watch:    watch,
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := m.update(msg)

	// Any store mutation during this update shows up in the history list
	if m.watch.version != m.listVersion {
		var listCmd tea.Cmd
		m, listCmd = m.syncHistory()
		if listCmd != nil {
			cmd = tea.Batch(cmd, listCmd)
		}
	}
	return m, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		switch m.mode {
		case welcomeView:
			return m.updateWelcome(msg)
		case chatView:
			return m.updateChat(msg)
		case historyView:
			return m.updateHistory(msg)
		case helpView:
			return m.updateHelp(msg)
		}

	case replyDueMsg:
		return m.deliverReply(msg.pending), nil

	case HistoryChangedMsg:
		return m.reloadHistory(), nil

	case clipboardMsg:
		if msg.err != nil {
			m.status = "Copy failed: " + msg.err.Error()
		} else {
			m.status = "Copied " + msg.what + " to clipboard"
		}
		return m, nil
	}

	// Non-key messages (cursor blink etc.) go to the focused component
	var cmd tea.Cmd
	switch m.mode {
	case welcomeView:
		m.welcome, cmd = m.welcome.update(msg)
	case chatView:
		m.input, cmd = m.input.Update(msg)
	case historyView:
		m.list, cmd = m.list.Update(msg)
	}
	return m, cmd
}

func (m Model) View() string {
	switch m.mode {
	case welcomeView:
		return m.viewWelcome()
	case chatView:
		return m.viewChat()
	case historyView:
		return m.viewHistory()
	case helpView:
		return m.viewHelp()
	}

	return ""
}

func (m *Model) resize() {
	vpHeight := m.height - chatChromeHeight
	if vpHeight < 3 {
		vpHeight = 3
	}
	m.viewport.Width = m.width
	m.viewport.Height = vpHeight
	m.input.Width = m.width - 8
	m.list.SetSize(m.width, m.height-3)
	if m.controller != nil {
		m.refreshTranscript()
	}
}

// startChat creates the controller for provider and opens the chat screen
func (m Model) startChat(provider string) (Model, tea.Cmd) {
	c := chat.NewController(m.store, provider,
		chat.WithReplyDelay(m.cfg.ReplyDelay),
		chat.WithReplier(chat.NewReplier(m.cfg.ReplyTemplate)),
	)
	c.Initialize()

	// Deleting the open session from the history browser replaces it
	m.store.Subscribe(func(ev history.Event) {
		if ev.Kind == history.EventDeleted {
			c.OnSessionDeletedExternally(ev.SessionID)
		}
	})

	m.controller = c
	m.mode = chatView
	m.input.SetValue(c.Draft())
	m.refreshTranscript()
	cmd := m.input.Focus()
	return m, cmd
}
