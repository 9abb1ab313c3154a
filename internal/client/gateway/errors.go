package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrUnauthorized is returned after a 401: the session has already been
	// cleared and the expiry callback invoked.
	ErrUnauthorized = errors.New("session expired")

	// ErrRequestFailed matches every *RequestError.
	ErrRequestFailed = errors.New("request failed")

	// ErrTransport matches every *TransportError.
	ErrTransport = errors.New("could not reach server")

	// ErrMalformedPayload is returned by the decoders when the response
	// carried no usable JSON (empty body, HTML error page, wrong shape).
	ErrMalformedPayload = errors.New("malformed response payload")
)

// RequestError is a non-2xx, non-401 response.
type RequestError struct {
	Method     string
	Endpoint   string
	StatusCode int
	Payload    json.RawMessage
	Message    string
}

func (e *RequestError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Endpoint, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s: status %d", e.Method, e.Endpoint, e.StatusCode)
}

func (e *RequestError) Is(target error) bool { return target == ErrRequestFailed }

// UserMessage returns the backend-provided message, or fallback when the
// backend sent none.
func (e *RequestError) UserMessage(fallback string) string {
	if e.Message != "" {
		return e.Message
	}
	return fallback
}

// TransportError is a failure where no HTTP response was received.
type TransportError struct {
	Method   string
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// errorBody is the union of the error shapes the backend emits.
type errorBody struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

// extractMessage pulls a human-readable message out of an error payload.
// Field-level messages are appended in field order.
func extractMessage(payload json.RawMessage) string {
	if len(payload) == 0 || payload[0] != '{' {
		return ""
	}
	var body errorBody
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}
	msg := body.Error
	if msg == "" {
		msg = body.Message
	}
	if len(body.Errors) == 0 {
		return msg
	}
	fields := make([]string, 0, len(body.Errors))
	for f := range body.Errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, body.Errors[f]))
	}
	if msg == "" {
		return strings.Join(parts, "; ")
	}
	return msg + " (" + strings.Join(parts, "; ") + ")"
}
