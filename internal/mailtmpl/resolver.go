// Package mailtmpl renders the per-product HTML email body.
//
// Operators may drop a custom template at <dir>/<slug>/email.html; when none
// exists the built-in default is used. Rendering never fails: the fallback
// works entirely from in-memory data.
package mailtmpl

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/funnelkit/leadmail/internal/catalog"
	"github.com/funnelkit/leadmail/pkg/logger"
)

// Placeholder tokens replaced in both custom and default templates.
const (
	tokenName        = "{{NAME}}"
	tokenProductName = "{{PRODUCT_NAME}}"
	tokenOfferURL    = "{{OFFER_URL}}"
)

// Config carries the template storage settings read from the environment.
type Config struct {
	Dir string `env:"TEMPLATES_DIR" envDefault:"templates"`
}

// Resolver loads and renders per-product templates.
type Resolver struct {
	dir string
	log *slog.Logger
}

// NewResolver creates a resolver reading templates under dir.
func NewResolver(cfg Config, log *slog.Logger) *Resolver {
	return &Resolver{dir: cfg.Dir, log: log}
}

// Resolve returns the HTML body for the product and lead name. The template
// file is read on every call so operators can edit templates without a
// restart. Values are substituted literally: templates are operator-owned
// and the mail is sent only to the address the lead submitted.
func (r *Resolver) Resolve(product catalog.Product, name string) string {
	path := filepath.Join(r.dir, product.Slug, "email.html")

	raw, err := os.ReadFile(path)
	if err != nil {
		r.log.Warn("custom template not found, using default",
			logger.Component("mailtmpl"),
			logger.Product(product.Slug),
		)
		raw = []byte(defaultTemplate)
	}

	body := string(raw)
	body = strings.ReplaceAll(body, tokenName, name)
	body = strings.ReplaceAll(body, tokenProductName, product.Name)
	body = strings.ReplaceAll(body, tokenOfferURL, product.OfferURL)
	return body
}

const defaultTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <h1 style="color: #6a1b9a;">Hi {{NAME}}! 👋</h1>
    <p>Thank you for your interest in <strong>{{PRODUCT_NAME}}</strong>!</p>
    <p>Your free guide is attached to this email.</p>
    <div style="text-align: center; margin: 30px 0;">
      <a href="{{OFFER_URL}}" style="background: #6a1b9a; color: white; padding: 15px 30px; text-decoration: none; border-radius: 5px; display: inline-block;">
        🔥 Claim Your Exclusive Offer →
      </a>
    </div>
    <p>To your success,<br><strong>The {{PRODUCT_NAME}} Team</strong></p>
  </div>
</body>
</html>
`
