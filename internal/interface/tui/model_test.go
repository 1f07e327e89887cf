package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/neilberkman/quickchat/internal/core/chat"
	"github.com/neilberkman/quickchat/internal/core/config"
	"github.com/neilberkman/quickchat/internal/core/history"
	"github.com/neilberkman/quickchat/internal/core/models"
)

func newTestModel(t *testing.T) (Model, *history.Store) {
	t.Helper()

	store := history.Open(filepath.Join(t.TempDir(), "chatHistory.json"))
	cfg := config.Default()
	cfg.ReplyDelay = time.Millisecond

	m := New(store, cfg)
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	return m, store
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func press(t *testing.T, m Model, key tea.KeyType) Model {
	t.Helper()
	return update(t, m, tea.KeyMsg{Type: key})
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	return update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

// enterChat gets past the welcome screen with the default provider
func enterChat(t *testing.T, m Model) Model {
	t.Helper()
	m = typeText(t, m, "sk-test")
	m = press(t, m, tea.KeyEnter)
	m = press(t, m, tea.KeyEnter)
	if m.mode != chatView {
		t.Fatalf("mode = %v, want chat view", m.mode)
	}
	return m
}

// send types text, submits it and returns the reply that was scheduled
func send(t *testing.T, m Model, text string) (Model, chat.PendingReply) {
	t.Helper()
	m = typeText(t, m, text)
	m = press(t, m, tea.KeyEnter)

	current := m.controller.Current()
	last, ok := current.LastMessage()
	if !ok || last.Content != text {
		t.Fatalf("last message = %+v, want user message %q", last, text)
	}
	return m, chat.PendingReply{
		SessionID: current.ID,
		MessageID: last.ID,
		Text:      text,
		Provider:  m.controller.Provider(),
	}
}

func TestWelcomeRequiresAPIKey(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, tea.KeyEnter)
	if m.mode != welcomeView {
		t.Fatalf("mode = %v, want welcome view", m.mode)
	}
	if m.welcome.err == "" {
		t.Error("expected an error for a missing API key")
	}
	if m.controller != nil {
		t.Error("controller should not exist before the welcome screen is done")
	}

	// Whitespace is not a key either
	m = typeText(t, m, "   ")
	m = press(t, m, tea.KeyEnter)
	if m.welcome.focus != focusAPIKey || m.mode != welcomeView {
		t.Errorf("blank key accepted: focus=%d mode=%v", m.welcome.focus, m.mode)
	}
}

func TestWelcomeStartsChatWithProvider(t *testing.T) {
	m, store := newTestModel(t)

	m = typeText(t, m, "sk-test")
	m = press(t, m, tea.KeyEnter)
	if m.welcome.focus != focusProvider {
		t.Fatalf("focus = %d, want provider field", m.welcome.focus)
	}

	m.welcome.provider.SetValue("Claude")
	m = press(t, m, tea.KeyEnter)

	if m.mode != chatView {
		t.Fatalf("mode = %v, want chat view", m.mode)
	}
	if got := m.controller.Provider(); got != "Claude" {
		t.Errorf("provider = %q, want Claude", got)
	}
	if store.Len() != 0 {
		t.Errorf("store has %d sessions, a fresh chat must not be saved", store.Len())
	}
	if !strings.Contains(m.View(), models.EmptyTitle) {
		t.Errorf("view should show %q for a new chat", models.EmptyTitle)
	}
}

func TestWelcomeResumesLatestSession(t *testing.T) {
	m, store := newTestModel(t)

	s := store.CreateSession("Gemini")
	s.Append(models.NewMessage(models.RoleUser, "Earlier question", time.Now().UTC()))
	saved := store.Save(s)

	m = enterChat(t, m)
	if got := m.controller.Current().ID; got != saved.ID {
		t.Errorf("current = %s, want latest session %s", got, saved.ID)
	}
	if !strings.Contains(m.View(), "Earlier question") {
		t.Error("transcript should show the resumed session")
	}
}

func TestSendShowsPlaceholderUntilReply(t *testing.T) {
	m, store := newTestModel(t)
	m = enterChat(t, m)

	m, pending := send(t, m, "Hello")
	if store.Len() != 1 {
		t.Fatalf("store has %d sessions after first message, want 1", store.Len())
	}
	if m.awaiting != pending.MessageID {
		t.Errorf("awaiting = %q, want %q", m.awaiting, pending.MessageID)
	}
	if !strings.Contains(m.View(), loadingText) {
		t.Error("expected loading placeholder while the reply is pending")
	}
	if m.input.Value() != "" {
		t.Errorf("input = %q, want cleared after send", m.input.Value())
	}

	m = update(t, m, replyDueMsg{pending: pending})

	current := m.controller.Current()
	if len(current.Messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(current.Messages))
	}
	want := `Response for: "Hello" (Provider: OpenAI)`
	if got := current.Messages[1].Content; got != want {
		t.Errorf("reply = %q, want %q", got, want)
	}
	if strings.Contains(m.View(), loadingText) {
		t.Error("placeholder should be gone after the reply")
	}

	stored, _ := store.Get(current.ID)
	if len(stored.Messages) != 2 {
		t.Errorf("stored session has %d messages, want 2", len(stored.Messages))
	}
}

func TestBlankSendIsIgnored(t *testing.T) {
	m, store := newTestModel(t)
	m = enterChat(t, m)

	m = typeText(t, m, "   ")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	if cmd != nil {
		t.Error("blank send should not schedule a reply")
	}
	if store.Len() != 0 {
		t.Errorf("store has %d sessions, want 0", store.Len())
	}
	if len(m.controller.Current().Messages) != 0 {
		t.Error("blank send appended a message")
	}
}

func TestReplyAfterNewChatIsDiscarded(t *testing.T) {
	m, store := newTestModel(t)
	m = enterChat(t, m)

	m, pending := send(t, m, "Hello")
	m = press(t, m, tea.KeyCtrlN)
	if m.awaiting != "" {
		t.Error("new chat should drop the placeholder")
	}

	m = update(t, m, replyDueMsg{pending: pending})

	if n := len(m.controller.Current().Messages); n != 0 {
		t.Errorf("new chat has %d messages, want 0", n)
	}
	old, _ := store.Get(pending.SessionID)
	if len(old.Messages) != 1 {
		t.Errorf("original session has %d messages, stale reply must not be saved", len(old.Messages))
	}
}

func TestHistorySwitch(t *testing.T) {
	m, store := newTestModel(t)
	m = enterChat(t, m)

	m, first := send(t, m, "First topic")
	m = update(t, m, replyDueMsg{pending: first})
	m = press(t, m, tea.KeyCtrlN)
	m, _ = send(t, m, "Second topic")

	m = press(t, m, tea.KeyTab)
	if m.mode != historyView {
		t.Fatalf("mode = %v, want history view", m.mode)
	}
	items := m.list.Items()
	if len(items) != store.Len() || len(items) != 2 {
		t.Fatalf("list has %d items, store has %d", len(items), store.Len())
	}
	if top := items[0].(sessionListItem); top.session.Title() != "Second topic" || !top.current {
		t.Errorf("top item = %q (current=%v), want the open second session", top.session.Title(), top.current)
	}

	m.list.Select(1)
	m = press(t, m, tea.KeyEnter)

	if m.mode != chatView {
		t.Fatalf("mode = %v, want chat view", m.mode)
	}
	if got := m.controller.Current().ID; got != first.SessionID {
		t.Errorf("current = %s, want %s", got, first.SessionID)
	}
	if !strings.Contains(m.View(), "First topic") {
		t.Error("transcript should show the selected session")
	}
}

func TestHistoryDeleteCurrent(t *testing.T) {
	m, store := newTestModel(t)
	m = enterChat(t, m)

	m, first := send(t, m, "Keep me")
	m = press(t, m, tea.KeyCtrlN)
	m, second := send(t, m, "Delete me")

	m = press(t, m, tea.KeyTab)
	m.list.Select(0)
	m = typeText(t, m, "d")
	if m.confirmDelete != second.SessionID {
		t.Fatalf("confirmDelete = %q, want %q", m.confirmDelete, second.SessionID)
	}
	m = typeText(t, m, "y")

	if store.Len() != 1 {
		t.Fatalf("store has %d sessions, want 1", store.Len())
	}
	if _, ok := store.Get(second.SessionID); ok {
		t.Error("deleted session still in store")
	}
	if got := m.controller.Current().ID; got != first.SessionID {
		t.Errorf("current = %s, want the remaining session %s", got, first.SessionID)
	}
	if len(m.list.Items()) != 1 {
		t.Errorf("list has %d items, want 1", len(m.list.Items()))
	}
	if m.awaiting != "" {
		t.Error("placeholder for the deleted session should be cleared")
	}
}

func TestHistoryDeleteLastSessionStartsNewChat(t *testing.T) {
	m, store := newTestModel(t)
	m = enterChat(t, m)

	m, only := send(t, m, "Only one")
	m = press(t, m, tea.KeyTab)
	m = typeText(t, m, "d")
	m = typeText(t, m, "y")

	if store.Len() != 0 {
		t.Fatalf("store has %d sessions, want 0", store.Len())
	}
	current := m.controller.Current()
	if current.ID == only.SessionID || len(current.Messages) != 0 {
		t.Errorf("current = %s with %d messages, want a new empty chat", current.ID, len(current.Messages))
	}
}

func TestHistoryDeleteCancelled(t *testing.T) {
	m, store := newTestModel(t)
	m = enterChat(t, m)

	m, _ = send(t, m, "Stay")
	m = press(t, m, tea.KeyTab)
	m = typeText(t, m, "d")
	m = typeText(t, m, "n")

	if store.Len() != 1 {
		t.Errorf("store has %d sessions, want 1", store.Len())
	}
	if m.confirmDelete != "" {
		t.Error("confirmation should be cleared")
	}
	if m.mode != historyView {
		t.Errorf("mode = %v, cancelling should stay in history", m.mode)
	}
}

func TestCopyWithoutReply(t *testing.T) {
	m, _ := newTestModel(t)
	m = enterChat(t, m)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlY})
	m = next.(Model)
	if cmd != nil {
		t.Error("nothing should be copied without a reply")
	}
	if m.status == "" {
		t.Error("expected a status message")
	}
}

func TestHelpReturnsToPreviousView(t *testing.T) {
	m, _ := newTestModel(t)
	m = enterChat(t, m)

	m = press(t, m, tea.KeyF1)
	if m.mode != helpView {
		t.Fatalf("mode = %v, want help view", m.mode)
	}
	m = typeText(t, m, "x")
	if m.mode != chatView {
		t.Errorf("mode = %v, want chat view", m.mode)
	}
	if m.input.Value() != "" {
		t.Error("key that closed help should not reach the input")
	}
}

func TestRenderTranscript(t *testing.T) {
	now := time.Now().UTC()
	s := models.NewSession("OpenAI", now)

	if got := renderTranscript(s, "", 80); !strings.Contains(got, "No messages yet") {
		t.Errorf("empty transcript = %q", got)
	}

	msg := models.NewMessage(models.RoleUser, "ping", now)
	s.Append(msg)

	tests := []struct {
		name     string
		awaiting string
		loading  bool
	}{
		{"no pending reply", "", false},
		{"pending for last message", msg.ID, true},
		{"pending for another message", "other-id", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := renderTranscript(s, tt.awaiting, 80)
			if !strings.Contains(got, "ping") {
				t.Errorf("transcript missing message: %q", got)
			}
			if strings.Contains(got, loadingText) != tt.loading {
				t.Errorf("loading placeholder shown = %v, want %v", !tt.loading, tt.loading)
			}
		})
	}
}

func TestReloadAfterOutsideDelete(t *testing.T) {
	m, store := newTestModel(t)
	m = enterChat(t, m)
	m, pending := send(t, m, "Hello")

	other := history.Open(store.Path())
	other.Delete(pending.SessionID)

	m = update(t, m, HistoryChangedMsg{})

	if store.Len() != 0 {
		t.Fatalf("store has %d sessions after reload, want 0", store.Len())
	}
	if got := m.controller.Current(); got.ID == pending.SessionID || len(got.Messages) != 0 {
		t.Errorf("current = %s with %d messages, want a new empty chat", got.ID, len(got.Messages))
	}

	// A late reply for the deleted chat goes nowhere
	m = update(t, m, replyDueMsg{pending: pending})
	if store.Len() != 0 {
		t.Errorf("stale reply recreated the deleted session")
	}
}

func TestReloadAfterOutsideSave(t *testing.T) {
	m, store := newTestModel(t)
	m = enterChat(t, m)
	m, pending := send(t, m, "Hello")

	other := history.Open(store.Path())
	other.Save(other.CreateSession("Claude"))

	m = update(t, m, HistoryChangedMsg{})

	if store.Len() != 2 {
		t.Fatalf("store has %d sessions after reload, want 2", store.Len())
	}
	if got := m.controller.Current().ID; got != pending.SessionID {
		t.Errorf("current = %s, want to stay on %s", got, pending.SessionID)
	}
	if len(m.list.Items()) != 2 {
		t.Errorf("history list has %d items, want 2", len(m.list.Items()))
	}
}
