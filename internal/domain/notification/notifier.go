// Package notification is the outbound port used to deliver one-time codes.
package notification

import "context"

// Template names understood by every Notifier.
const (
	TemplateVerification  = "verification"
	TemplatePasswordReset = "password_reset"
)

// Context is the data a template renders. URL already carries the code.
type Context struct {
	URL  string `json:"url"`
	Code string `json:"code"`
}

type Message struct {
	To       string  `json:"to"`
	Subject  string  `json:"subject"`
	Template string  `json:"template"`
	Context  Context `json:"context"`
}

// Notifier delivers a message. Implementations must not retain msg.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}
