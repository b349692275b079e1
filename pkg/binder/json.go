// Package binder decodes HTTP request bodies into typed request structs.
package binder

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// MaxJSONSize is the maximum accepted size for JSON request bodies (1 MB).
const MaxJSONSize = 1 << 20

// JSON decodes the request body into v. The decode is strict: the
// Content-Type must be application/json, unknown fields are rejected, the
// body is capped at MaxJSONSize, and trailing data after the JSON value is an
// error.
func JSON(r *http.Request, v any) error {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return fmt.Errorf("%w: expected application/json", ErrMissingContentType)
	}
	mediaType := contentType
	if idx := strings.Index(contentType, ";"); idx != -1 {
		mediaType = strings.TrimSpace(contentType[:idx])
	}
	if mediaType != "application/json" {
		return fmt.Errorf("%w: got %s, expected application/json", ErrUnsupportedMediaType, mediaType)
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, MaxJSONSize+1))
	if err != nil {
		return fmt.Errorf("%w: failed to read request body: %v", ErrFailedToParseJSON, err)
	}
	if len(body) > MaxJSONSize {
		return fmt.Errorf("%w: request body too large (max %d bytes)", ErrFailedToParseJSON, MaxJSONSize)
	}

	decoder := json.NewDecoder(strings.NewReader(string(body)))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", ErrFailedToParseJSON)
		}
		return fmt.Errorf("%w: %v", ErrFailedToParseJSON, err)
	}

	var extra json.RawMessage
	if err := decoder.Decode(&extra); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: unexpected data after JSON object", ErrFailedToParseJSON)
	}

	return nil
}
