// Package mailer delivers transactional email through a pluggable provider.
//
// The Sender interface is the only coupling point to the delivery provider;
// PostmarkSender implements it for production and DevSender writes messages
// to disk for local development.
package mailer

import (
	"context"
	"regexp"
	"strings"
)

// Sender is the outbound email capability. Implementations must treat a nil
// Attachment as "no attachment".
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Message is a single outbound email, constructed per request and discarded
// after the send attempt.
type Message struct {
	To         string
	FromName   string // optional display name for the configured sender address
	Subject    string
	HTMLBody   string
	TextBody   string
	Tag        string
	Attachment *Attachment
}

// Attachment is a binary file attached to a message. Content is raw bytes;
// senders handle any transfer encoding the provider requires.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validate checks the message has a deliverable recipient and a body.
func (m Message) Validate() error {
	if strings.TrimSpace(m.To) == "" {
		return errInvalid("To is required")
	}
	if !emailRegex.MatchString(m.To) {
		return errInvalid("To must be a valid email address")
	}
	if m.Subject == "" {
		return errInvalid("Subject is required")
	}
	if m.HTMLBody == "" {
		return errInvalid("HTMLBody is required")
	}
	return nil
}
