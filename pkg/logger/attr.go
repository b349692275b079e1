package logger

import "log/slog"

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Product records a product slug under the key "product".
func Product(slug string) slog.Attr {
	return slog.String("product", slug)
}

// Recipient records the destination email address under the key "recipient".
func Recipient(email string) slog.Attr {
	return slog.String("recipient", email)
}

// Event records the event name under the key "event".
func Event(name string) slog.Attr {
	return slog.String("event", name)
}
