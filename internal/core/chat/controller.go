// Package chat implements the chat screen's session lifecycle: which session
// is current, when it is created, replaced or persisted, and how the
// simulated assistant reply is applied.
package chat

import (
	"context"
	"strings"
	"time"

	"github.com/neilberkman/quickchat/internal/core/logging"
	"github.com/neilberkman/quickchat/internal/core/models"
)

// DefaultReplyDelay is the simulated latency of the assistant
const DefaultReplyDelay = 500 * time.Millisecond

// Store is the subset of history.Store the controller depends on
type Store interface {
	CreateSession(provider string) models.Session
	Save(session models.Session) models.Session
	Latest() (models.Session, bool)
}

// PendingReply is a scheduled assistant reply. It captures the user message
// that triggered it so the reply can be discarded if that message is no
// longer the last one in the current session when it fires.
type PendingReply struct {
	SessionID string
	MessageID string
	Text      string
	Provider  string
	Delay     time.Duration
}

// Option configures a Controller
type Option func(*Controller)

// WithReplyDelay sets the simulated assistant latency
func WithReplyDelay(d time.Duration) Option {
	return func(c *Controller) {
		c.delay = d
	}
}

// WithReplier sets the reply renderer
func WithReplier(r *Replier) Option {
	return func(c *Controller) {
		c.replier = r
	}
}

// WithClock overrides the time source for message timestamps
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// Controller owns the current session. It is not safe for concurrent use:
// every method, including DeliverReply, must run on the same goroutine.
type Controller struct {
	store    Store
	replier  *Replier
	provider string
	delay    time.Duration
	now      func() time.Time

	current models.Session
	draft   string
}

// NewController creates a controller for provider. Call Initialize before use.
func NewController(store Store, provider string, opts ...Option) *Controller {
	c := &Controller{
		store:    store,
		provider: provider,
		delay:    DefaultReplyDelay,
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.replier == nil {
		c.replier = NewReplier("")
	}
	return c
}

// Initialize resumes the most recent session, or starts a new unsaved one
func (c *Controller) Initialize() {
	if latest, ok := c.store.Latest(); ok {
		c.current = latest
		logging.Debugf("Resumed latest session %s", latest.ID)
		return
	}
	c.current = c.store.CreateSession(c.provider)
	logging.Debugf("No existing sessions, created %s", c.current.ID)
}

// SendMessage appends a user message to the current session and persists it.
// Blank text is ignored. The returned PendingReply must be handed back to
// DeliverReply after its Delay has elapsed.
func (c *Controller) SendMessage(text string) (PendingReply, bool) {
	if strings.TrimSpace(text) == "" {
		return PendingReply{}, false
	}

	msg := models.NewMessage(models.RoleUser, text, c.now())
	c.current.Append(msg)
	c.draft = ""
	c.current = c.store.Save(c.current)

	return PendingReply{
		SessionID: c.current.ID,
		MessageID: msg.ID,
		Text:      text,
		Provider:  c.provider,
		Delay:     c.delay,
	}, true
}

// DeliverReply appends the assistant reply for p and persists it, unless the
// user message that scheduled it is no longer the last message of the
// current session. Reports whether the reply was applied.
func (c *Controller) DeliverReply(p PendingReply) bool {
	last, ok := c.current.LastMessage()
	if !ok || last.ID != p.MessageID {
		logging.Debugf("Discarding stale reply for message %s (current session %s)", p.MessageID, c.current.ID)
		return false
	}

	reply := models.NewMessage(models.RoleAssistant, c.replier.Reply(p.Text, p.Provider), c.now())
	c.current.Append(reply)
	c.current = c.store.Save(c.current)
	return true
}

// AwaitReply blocks for p.Delay and then delivers it on the calling
// goroutine. It returns false without delivering if ctx ends first.
func (c *Controller) AwaitReply(ctx context.Context, p PendingReply) bool {
	timer := time.NewTimer(p.Delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return c.DeliverReply(p)
	}
}

// StartNewChat replaces the current session with a new unsaved one
func (c *Controller) StartNewChat() {
	c.current = c.store.CreateSession(c.provider)
	c.draft = ""
	logging.Debugf("Started new session %s", c.current.ID)
}

// SwitchTo makes session current. Switching to the current session is a no-op.
func (c *Controller) SwitchTo(session models.Session) {
	if session.ID == c.current.ID {
		return
	}
	c.current = session.Clone()
	logging.Debugf("Switched to session %s", session.ID)
}

// OnSessionDeletedExternally picks a replacement when the current session
// has been deleted from the store: the newest remaining session, or a new one.
func (c *Controller) OnSessionDeletedExternally(deletedID string) {
	if deletedID != c.current.ID {
		return
	}
	if latest, ok := c.store.Latest(); ok {
		c.current = latest
		return
	}
	c.StartNewChat()
}

// Current returns a copy of the current session
func (c *Controller) Current() models.Session {
	return c.current.Clone()
}

// Draft returns the pending unsent input
func (c *Controller) Draft() string {
	return c.draft
}

// SetDraft records the pending unsent input
func (c *Controller) SetDraft(text string) {
	c.draft = text
}

// Provider returns the label replies are attributed to
func (c *Controller) Provider() string {
	return c.provider
}

// ReplyDelay returns the simulated assistant latency
func (c *Controller) ReplyDelay() time.Duration {
	return c.delay
}
