package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

const (
	// GenericErrorMessage is used when a failed response carries nothing readable.
	GenericErrorMessage = "Request failed"
	// UnavailableErrorMessage is the message of transport failures.
	UnavailableErrorMessage = "API unavailable"
)

// APIError carries an HTTP or transport failure uniformly. StatusCode
// is zero when no response was received at all.
type APIError struct {
	StatusCode int
	Message    string
	RawBody    []byte
	RequestID  string
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		if e.Err != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Err)
		}
		return e.Message
	}
	return e.Message
}

// Unwrap exposes the transport failure cause.
func (e *APIError) Unwrap() error {
	return e.Err
}

// IsTransport reports whether the call never produced a response.
func (e *APIError) IsTransport() bool {
	return e.StatusCode == 0
}

// AsAPIError extracts the *APIError from an error chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsUnauthorized reports whether the remote api rejected the credentials.
func IsUnauthorized(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.StatusCode == http.StatusUnauthorized
}

// ErrorMessage extracts the user facing message of a failed response body.
// A JSON body gives its `detail` string, then its `details` string. A text
// body gives itself. Everything else falls back to GenericErrorMessage.
func ErrorMessage(isJSON bool, body []byte) string {
	if !isJSON {
		if text := string(body); strings.TrimSpace(text) != "" {
			return text
		}
		return GenericErrorMessage
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return GenericErrorMessage
	}
	for _, key := range []string{"detail", "details"} {
		if msg, ok := payload[key].(string); ok {
			return msg
		}
	}
	return GenericErrorMessage
}
