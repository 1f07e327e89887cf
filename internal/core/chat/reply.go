package chat

import (
	"fmt"

	"github.com/cbroglie/mustache"
	"github.com/neilberkman/quickchat/internal/core/logging"
)

// DefaultReplyTemplate renders the simulated assistant answer.
// Triple braces keep quotes and angle brackets unescaped.
const DefaultReplyTemplate = `Response for: "{{{text}}}" (Provider: {{{provider}}})`

// Replier produces the simulated assistant reply for a user message
type Replier struct {
	template string
}

// NewReplier returns a Replier for the given mustache template.
// An empty template selects DefaultReplyTemplate.
func NewReplier(template string) *Replier {
	if template == "" {
		template = DefaultReplyTemplate
	}
	return &Replier{template: template}
}

// Reply renders the template with {{text}} and {{provider}}
func (r *Replier) Reply(text, provider string) string {
	data := map[string]interface{}{
		"text":     text,
		"provider": provider,
	}

	out, err := mustache.Render(r.template, data)
	if err != nil {
		// Fall back to the built-in wording if a custom template is broken
		logging.Warnf("Reply template failed, using default: %v", err)
		return fmt.Sprintf("Response for: \"%s\" (Provider: %s)", text, provider)
	}
	return out
}
