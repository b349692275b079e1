package mailer

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig indicates the mailer configuration is unusable.
	ErrInvalidConfig = errors.New("invalid mailer config")
	// ErrInvalidMessage indicates the message failed pre-send validation.
	ErrInvalidMessage = errors.New("invalid email message")
	// ErrSendFailed indicates the provider rejected or could not deliver the
	// message. Provider detail is logged server-side, never shown to callers.
	ErrSendFailed = errors.New("failed to send email")
)

func errInvalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidMessage, msg)
}
