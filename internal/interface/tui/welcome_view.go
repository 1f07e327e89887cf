package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/neilberkman/quickchat/internal/core/config"
)

const (
	focusAPIKey = iota
	focusProvider
)

// welcomeForm collects an API key and a provider label. The key is only
// checked for presence; replies are simulated and it is never sent anywhere.
type welcomeForm struct {
	apiKey   textinput.Model
	provider textinput.Model
	focus    int
	err      string
}

func newWelcomeForm(provider string) welcomeForm {
	key := textinput.New()
	key.Placeholder = "sk-..."
	key.EchoMode = textinput.EchoPassword
	key.EchoCharacter = '•'
	key.CharLimit = 200
	key.Width = 40
	key.Focus()

	p := textinput.New()
	p.Placeholder = config.DefaultProvider
	p.CharLimit = 64
	p.Width = 40
	p.SetValue(provider)

	return welcomeForm{apiKey: key, provider: p}
}

func (f welcomeForm) setFocus(focus int) (welcomeForm, tea.Cmd) {
	f.focus = focus
	var cmd tea.Cmd
	if focus == focusAPIKey {
		f.provider.Blur()
		cmd = f.apiKey.Focus()
	} else {
		f.apiKey.Blur()
		cmd = f.provider.Focus()
	}
	return f, cmd
}

// update forwards msg to the focused field
func (f welcomeForm) update(msg tea.Msg) (welcomeForm, tea.Cmd) {
	var cmd tea.Cmd
	if f.focus == focusAPIKey {
		f.apiKey, cmd = f.apiKey.Update(msg)
	} else {
		f.provider, cmd = f.provider.Update(msg)
	}
	return f, cmd
}

func (m Model) updateWelcome(msg tea.KeyMsg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.String() {
	case "esc":
		return m, tea.Quit

	case "tab", "shift+tab", "up", "down":
		m.welcome, cmd = m.welcome.setFocus(1 - m.welcome.focus)
		return m, cmd

	case "enter":
		if strings.TrimSpace(m.welcome.apiKey.Value()) == "" {
			m.welcome.err = "An API key is required"
			m.welcome, cmd = m.welcome.setFocus(focusAPIKey)
			return m, cmd
		}
		m.welcome.err = ""
		if m.welcome.focus == focusAPIKey {
			m.welcome, cmd = m.welcome.setFocus(focusProvider)
			return m, cmd
		}

		provider := strings.TrimSpace(m.welcome.provider.Value())
		if provider == "" {
			provider = m.cfg.Provider
		}
		m.welcome.apiKey.Blur()
		m.welcome.provider.Blur()
		return m.startChat(provider)
	}

	m.welcome, cmd = m.welcome.update(msg)
	return m, cmd
}

func (m Model) viewWelcome() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Welcome to quickchat"))
	b.WriteString("\n\n")

	keyLabel, providerLabel := focusedLabelStyle, labelStyle
	if m.welcome.focus == focusProvider {
		keyLabel, providerLabel = labelStyle, focusedLabelStyle
	}

	b.WriteString(keyLabel.Render("API key"))
	b.WriteString("\n")
	b.WriteString(m.welcome.apiKey.View())
	b.WriteString("\n\n")
	b.WriteString(providerLabel.Render("Provider"))
	b.WriteString("\n")
	b.WriteString(m.welcome.provider.View())
	b.WriteString("\n\n")

	if m.welcome.err != "" {
		b.WriteString(statusStyle.Render(m.welcome.err))
		b.WriteString("\n\n")
	}

	b.WriteString(helpStyle.Render("tab: switch field • enter: continue • esc: quit"))

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}
