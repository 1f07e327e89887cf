package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// EmptyTitle is shown for sessions without any user message
const EmptyTitle = "Empty Chat"

// Session is one persisted conversation
type Session struct {
	ID           string    `json:"id"`
	Messages     []Message `json:"messages"`
	Provider     string    `json:"provider"`
	CreatedAt    time.Time `json:"createdAt"`
	LastModified time.Time `json:"lastModified"`
}

// NewSession builds an empty session. CreatedAt and LastModified are equal.
func NewSession(provider string, now time.Time) Session {
	return Session{
		ID:           uuid.NewString(),
		Messages:     []Message{},
		Provider:     provider,
		CreatedAt:    now,
		LastModified: now,
	}
}

// Title returns the first line of the first user message, or EmptyTitle
func (s Session) Title() string {
	for _, m := range s.Messages {
		if m.Role != RoleUser {
			continue
		}
		text := strings.TrimSpace(m.Content)
		if i := strings.IndexByte(text, '\n'); i >= 0 {
			text = strings.TrimSpace(text[:i])
		}
		if text != "" {
			return text
		}
	}
	return EmptyTitle
}

// LastMessage returns the final message, if any
func (s Session) LastMessage() (Message, bool) {
	if len(s.Messages) == 0 {
		return Message{}, false
	}
	return s.Messages[len(s.Messages)-1], true
}

// Append adds a message to the end of the conversation
func (s *Session) Append(m Message) {
	s.Messages = append(s.Messages, m)
}

// Clone returns a copy that shares no message storage with s
func (s Session) Clone() Session {
	c := s
	c.Messages = make([]Message, len(s.Messages))
	copy(c.Messages, s.Messages)
	return c
}

// Validate checks the fields required for a session record on disk
func (s *Session) Validate() error {
	if s.ID == "" {
		return errors.New("id is required")
	}
	if s.CreatedAt.IsZero() {
		return errors.New("createdAt is required")
	}
	seen := make(map[string]bool, len(s.Messages))
	for i, m := range s.Messages {
		if m.ID == "" {
			return fmt.Errorf("message %d: id is required", i)
		}
		if !m.Role.Valid() {
			return fmt.Errorf("message %d: unknown role %q", i, m.Role)
		}
		if seen[m.ID] {
			return fmt.Errorf("message %d: duplicate id %s", i, m.ID)
		}
		seen[m.ID] = true
	}
	return nil
}
