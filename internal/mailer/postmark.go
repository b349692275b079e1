package mailer

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/mrz1836/postmark"
)

type postmarkSender struct {
	client *postmark.Client
	config Config
}

// NewPostmarkSender creates a Postmark-backed sender. Both tokens and a valid
// sender address are required so a misconfigured service fails at startup
// rather than on the first submission.
func NewPostmarkSender(cfg Config) (Sender, error) {
	if cfg.PostmarkServerToken == "" {
		return nil, fmt.Errorf("%w: PostmarkServerToken is required", ErrInvalidConfig)
	}
	if cfg.PostmarkAccountToken == "" {
		return nil, fmt.Errorf("%w: PostmarkAccountToken is required", ErrInvalidConfig)
	}
	if cfg.SenderEmail == "" {
		return nil, fmt.Errorf("%w: SenderEmail is required", ErrInvalidConfig)
	}
	if !emailRegex.MatchString(cfg.SenderEmail) {
		return nil, fmt.Errorf("%w: SenderEmail must be a valid email address", ErrInvalidConfig)
	}

	return &postmarkSender{
		client: postmark.NewClient(cfg.PostmarkServerToken, cfg.PostmarkAccountToken),
		config: cfg,
	}, nil
}

// Send delivers the message through Postmark's transactional API. Open
// tracking stays on for delivery analytics; attachment bytes are base64
// encoded on the wire as the API requires.
func (s *postmarkSender) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	from := s.config.SenderEmail
	if msg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", msg.FromName, s.config.SenderEmail)
	}

	email := postmark.Email{
		From:       from,
		To:         msg.To,
		Subject:    msg.Subject,
		Tag:        msg.Tag,
		HTMLBody:   msg.HTMLBody,
		TextBody:   msg.TextBody,
		TrackOpens: true,
	}
	if msg.Attachment != nil {
		email.Attachments = []postmark.Attachment{{
			Name:        msg.Attachment.Filename,
			Content:     base64.StdEncoding.EncodeToString(msg.Attachment.Content),
			ContentType: msg.Attachment.ContentType,
		}}
	}

	resp, err := s.client.SendEmail(ctx, email)
	if err != nil {
		return errors.Join(ErrSendFailed, err)
	}
	if resp.ErrorCode > 0 {
		return errors.Join(
			ErrSendFailed,
			fmt.Errorf("postmark error: %d - %s", resp.ErrorCode, resp.Message),
		)
	}
	return nil
}
