package mailer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// DevSender implements Sender for local development. Messages are written as
// HTML and JSON files to an outbox directory instead of being transmitted.
type DevSender struct {
	dir string
}

// NewDevSender creates a development sender writing to dir.
// The directory is created on first send.
func NewDevSender(dir string) *DevSender {
	return &DevSender{dir: dir}
}

type devMetadata struct {
	Timestamp          string `json:"timestamp"`
	To                 string `json:"to"`
	Subject            string `json:"subject"`
	Tag                string `json:"tag,omitempty"`
	AttachmentFilename string `json:"attachment_filename,omitempty"`
	AttachmentBytes    int    `json:"attachment_bytes,omitempty"`
}

// Send writes the message body as HTML and its metadata as JSON.
func (d *DevSender) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("%w: failed to create outbox: %v", ErrSendFailed, err)
	}

	now := time.Now()
	identifier := msg.Tag
	if identifier == "" {
		identifier = msg.Subject
	}
	base := fmt.Sprintf("%s_%s", now.Format("2006_01_02_150405"), safeFilename(identifier))

	htmlPath := filepath.Join(d.dir, base+".html")
	if err := os.WriteFile(htmlPath, []byte(msg.HTMLBody), 0o644); err != nil {
		return fmt.Errorf("%w: failed to write HTML file: %v", ErrSendFailed, err)
	}

	meta := devMetadata{
		Timestamp: now.Format(time.RFC3339),
		To:        msg.To,
		Subject:   msg.Subject,
		Tag:       msg.Tag,
	}
	if msg.Attachment != nil {
		meta.AttachmentFilename = msg.Attachment.Filename
		meta.AttachmentBytes = len(msg.Attachment.Content)
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: failed to marshal metadata: %v", ErrSendFailed, err)
	}
	if err := os.WriteFile(filepath.Join(d.dir, base+".json"), data, 0o644); err != nil {
		return fmt.Errorf("%w: failed to write JSON file: %v", ErrSendFailed, err)
	}

	return nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

// safeFilename converts an arbitrary string into a filesystem-safe name.
func safeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = unsafeFilenameChars.ReplaceAllString(s, "")
	const maxLength = 100
	if len(s) > maxLength {
		s = s[:maxLength]
	}
	if s == "" {
		s = "email"
	}
	return strings.ToLower(s)
}
