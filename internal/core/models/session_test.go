package models

import (
	"testing"
	"time"
)

func TestSessionValidation(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name    string
		session Session
		wantErr bool
	}{
		{
			name:    "valid empty session",
			session: NewSession("GPT", now),
			wantErr: false,
		},
		{
			name: "valid session with messages",
			session: Session{
				ID:        "abc-123",
				CreatedAt: now,
				Messages: []Message{
					{ID: "m1", Role: RoleUser, Content: "Hi", Timestamp: now},
					{ID: "m2", Role: RoleAssistant, Content: "Hello", Timestamp: now},
				},
			},
			wantErr: false,
		},
		{
			name:    "missing ID",
			session: Session{CreatedAt: now},
			wantErr: true,
		},
		{
			name:    "missing createdAt",
			session: Session{ID: "abc-123"},
			wantErr: true,
		},
		{
			name: "unknown role",
			session: Session{
				ID:        "abc-123",
				CreatedAt: now,
				Messages:  []Message{{ID: "m1", Role: "system"}},
			},
			wantErr: true,
		},
		{
			name: "duplicate message ID",
			session: Session{
				ID:        "abc-123",
				CreatedAt: now,
				Messages: []Message{
					{ID: "m1", Role: RoleUser},
					{ID: "m1", Role: RoleAssistant},
				},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.session.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewSession(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s := NewSession("GPT", now)

	if s.ID == "" {
		t.Error("expected a generated ID")
	}
	if len(s.Messages) != 0 {
		t.Errorf("expected no messages, got %d", len(s.Messages))
	}
	if !s.CreatedAt.Equal(s.LastModified) {
		t.Errorf("createdAt %v != lastModified %v", s.CreatedAt, s.LastModified)
	}
	if other := NewSession("GPT", now); other.ID == s.ID {
		t.Error("expected distinct IDs for distinct sessions")
	}
}

func TestSessionTitle(t *testing.T) {
	tests := []struct {
		name     string
		messages []Message
		want     string
	}{
		{"no messages", nil, EmptyTitle},
		{"assistant only", []Message{{Role: RoleAssistant, Content: "hello"}}, EmptyTitle},
		{"blank user message", []Message{{Role: RoleUser, Content: "   "}}, EmptyTitle},
		{"first user message", []Message{
			{Role: RoleAssistant, Content: "welcome"},
			{Role: RoleUser, Content: "  What is Go?  "},
			{Role: RoleUser, Content: "second"},
		}, "What is Go?"},
		{"multi-line message", []Message{{Role: RoleUser, Content: "line one\nline two"}}, "line one"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Session{Messages: tt.messages}
			if got := s.Title(); got != tt.want {
				t.Errorf("Title() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSessionCloneDoesNotAlias(t *testing.T) {
	now := time.Now()
	s := NewSession("GPT", now)
	s.Append(NewMessage(RoleUser, "one", now))

	c := s.Clone()
	c.Append(NewMessage(RoleAssistant, "two", now))
	c.Messages[0].Content = "changed"

	if len(s.Messages) != 1 {
		t.Fatalf("original has %d messages, want 1", len(s.Messages))
	}
	if s.Messages[0].Content != "one" {
		t.Errorf("original content changed to %q", s.Messages[0].Content)
	}
}

func TestLastMessage(t *testing.T) {
	var s Session
	if _, ok := s.LastMessage(); ok {
		t.Error("expected no last message on empty session")
	}

	now := time.Now()
	first := NewMessage(RoleUser, "a", now)
	second := NewMessage(RoleAssistant, "b", now)
	s.Append(first)
	s.Append(second)

	last, ok := s.LastMessage()
	if !ok || last.ID != second.ID {
		t.Errorf("LastMessage() = %v, %v; want %s", last.ID, ok, second.ID)
	}
}
