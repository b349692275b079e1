package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/funnelkit/leadmail/internal/catalog"
	"github.com/funnelkit/leadmail/pkg/logger"
)

// Dispatcher builds the outbound guide email for a submission and hands it
// to the configured Sender.
type Dispatcher struct {
	sender Sender
	cfg    Config
	log    *slog.Logger
}

// NewDispatcher creates a dispatcher delivering through sender.
func NewDispatcher(sender Sender, cfg Config, log *slog.Logger) *Dispatcher {
	return &Dispatcher{sender: sender, cfg: cfg, log: log}
}

// Dispatch sends the guide email for a product to the submitted address.
// A missing guide file is non-fatal: the email goes out without the
// attachment. A provider failure is logged with full detail and returned as
// the bare ErrSendFailed sentinel so callers cannot leak provider internals.
func (d *Dispatcher) Dispatch(ctx context.Context, product catalog.Product, name, email, htmlBody string) error {
	fromName := d.cfg.SenderName
	if fromName == "" {
		fromName = product.Name + " Team"
	}

	msg := Message{
		To:       email,
		FromName: fromName,
		Subject:  fmt.Sprintf("🎁 Your Free %s Guide is Here!", product.Name),
		HTMLBody: htmlBody,
		TextBody: fmt.Sprintf(
			"Hi %s,\n\nThank you for your interest in %s! Your free guide is attached to this email.\n\nBest regards,\nThe %s Team",
			name, product.Name, product.Name,
		),
		Tag:        product.Slug,
		Attachment: d.loadAttachment(ctx, product),
	}

	if err := d.sender.Send(ctx, msg); err != nil {
		d.log.ErrorContext(ctx, "email delivery failed",
			logger.Component("mailer"),
			logger.Product(product.Slug),
			logger.Recipient(email),
			logger.Error(err),
		)
		return ErrSendFailed
	}

	d.log.InfoContext(ctx, "email sent",
		logger.Component("mailer"),
		logger.Product(product.Slug),
		logger.Recipient(email),
	)
	return nil
}

func (d *Dispatcher) loadAttachment(ctx context.Context, product catalog.Product) *Attachment {
	if product.EbookFilename == "" {
		return nil
	}

	content, err := os.ReadFile(filepath.Join(d.cfg.EbooksDir, product.EbookFilename))
	if err != nil {
		d.log.WarnContext(ctx, "ebook not found, sending without attachment",
			logger.Component("mailer"),
			logger.Product(product.Slug),
			slog.String("filename", product.EbookFilename),
		)
		return nil
	}

	return &Attachment{
		Filename:    product.Name + "-Guide.pdf",
		ContentType: "application/pdf",
		Content:     content,
	}
}
