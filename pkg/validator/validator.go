// Package validator provides rule-based validation for request input.
//
// Rules are composed per request and applied together, collecting every
// failure rather than stopping at the first:
//
//	err := validator.Apply(
//		validator.Required("name", req.Name),
//		validator.ValidEmail("email", req.Email),
//	)
package validator

import (
	"fmt"
	"regexp"
	"strings"
)

// ValidationError represents a single validation failure.
type ValidationError struct {
	Field   string
	Message string
}

// ValidationErrors represents a collection of validation failures.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(ve))
	for _, err := range ve {
		parts = append(parts, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Has reports whether a failure was recorded for the given field.
func (ve ValidationErrors) Has(field string) bool {
	for _, err := range ve {
		if err.Field == field {
			return true
		}
	}
	return false
}

// First returns the first recorded failure message, or "".
func (ve ValidationErrors) First() string {
	if len(ve) == 0 {
		return ""
	}
	return ve[0].Message
}

// Rule represents a single validation rule.
type Rule struct {
	Check func() bool
	Error ValidationError
}

// Apply executes the rules and returns ValidationErrors if any fail.
func Apply(rules ...Rule) error {
	var errs ValidationErrors
	for _, rule := range rules {
		if !rule.Check() {
			errs = append(errs, rule.Error)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Extract pulls ValidationErrors out of an error, or nil.
func Extract(err error) ValidationErrors {
	if err == nil {
		return nil
	}
	if ve, ok := err.(ValidationErrors); ok {
		return ve
	}
	return nil
}

// emailRegex enforces a local@domain.tld shape with no whitespace. It is a
// deliverability sanity check, not an RFC 5322 parser: the provider performs
// the authoritative validation at send time.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Required validates that a string is present and not blank.
func Required(field, value string) Rule {
	return Rule{
		Check: func() bool { return strings.TrimSpace(value) != "" },
		Error: ValidationError{Field: field, Message: field + " is required"},
	}
}

// ValidEmail validates that a string looks like an email address
// (local@domain.tld, no whitespace).
func ValidEmail(field, value string) Rule {
	return Rule{
		Check: func() bool { return emailRegex.MatchString(value) },
		Error: ValidationError{Field: field, Message: "must be a valid email address"},
	}
}

// MaxLen validates that a string does not exceed n bytes.
func MaxLen(field, value string, n int) Rule {
	return Rule{
		Check: func() bool { return len(value) <= n },
		Error: ValidationError{Field: field, Message: fmt.Sprintf("must be at most %d characters", n)},
	}
}
