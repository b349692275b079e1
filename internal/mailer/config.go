package mailer

// Config holds mailer configuration. Provider tokens are optional so the
// development environment can run with the file-based DevSender; SenderEmail
// establishes the sender identity for all outbound mail.
type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string `env:"SENDER_EMAIL,required"`
	SenderName           string `env:"SENDER_NAME"`
	EbooksDir            string `env:"EBOOKS_DIR" envDefault:"ebooks"`
	OutboxDir            string `env:"OUTBOX_DIR" envDefault:"outbox"`
}
