package todoable

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrNotAuthenticated is returned when an operation runs before the
	// client has ever authenticated. No request is sent.
	ErrNotAuthenticated = errors.New("client is not authenticated")

	// ErrUnauthorized maps a 401 on a token-bearing call.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrContentNotFound maps a 404.
	ErrContentNotFound = errors.New("content not found")

	// ErrInvalidArgument marks caller errors caught before any request.
	ErrInvalidArgument = errors.New("invalid argument")
)

// AuthenticationError is returned when the authenticate endpoint rejects the
// credentials or replies without a token.
type AuthenticationError struct {
	StatusCode int
	Err        error
}

func (e *AuthenticationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("authentication failed (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("authentication failed (status %d)", e.StatusCode)
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// FieldError holds the validation messages reported for one field.
type FieldError struct {
	Field    string
	Messages []string
}

// UnprocessableError maps a 422. Fields keep the order the server sent them in.
type UnprocessableError struct {
	Fields []FieldError
}

// Error joins every field as "<field> <msg>,<msg>", separates fields with
// ", " and ends with a period, e.g. "name has already been taken.".
func (e *UnprocessableError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, strings.TrimSpace(f.Field+" "+strings.Join(f.Messages, ",")))
	}
	return strings.Join(parts, ", ") + "."
}

// Messages returns the validation messages for a field, or nil.
func (e *UnprocessableError) Messages(field string) []string {
	for _, f := range e.Fields {
		if f.Field == field {
			return f.Messages
		}
	}
	return nil
}

// StatusError is any other non-2xx response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("unexpected status %d from todoable api", e.StatusCode)
	}
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("unexpected status %d from todoable api: %s", e.StatusCode, body)
}

// classify maps a completed response to nil (2xx) or a typed failure. It
// only looks at the status code and body.
func classify(status int, body []byte) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized:
		return ErrUnauthorized
	case status == http.StatusNotFound:
		return ErrContentNotFound
	case status == http.StatusUnprocessableEntity:
		fields, err := parseFieldErrors(body)
		if err != nil || len(fields) == 0 {
			return &StatusError{StatusCode: status, Body: string(body)}
		}
		return &UnprocessableError{Fields: fields}
	default:
		return &StatusError{StatusCode: status, Body: string(body)}
	}
}

// parseFieldErrors decodes {"errors": {"field": ["msg", ...]}} while keeping
// field order. A body without an errors object yields no fields; classify
// then reports the 422 as a StatusError.
func parseFieldErrors(body []byte) ([]FieldError, error) {
	var envelope struct {
		Errors json.RawMessage `json:"errors"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode errors payload: %w", err)
	}
	if len(envelope.Errors) == 0 || string(envelope.Errors) == "null" {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(envelope.Errors))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decode errors payload: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("decode errors payload: expected object")
	}

	var fields []FieldError
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decode errors payload: %w", err)
		}
		name, _ := tok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode errors payload: %w", err)
		}
		fields = append(fields, FieldError{Field: name, Messages: decodeMessages(raw)})
	}
	return fields, nil
}

// decodeMessages accepts either a list of strings or a single string.
func decodeMessages(raw json.RawMessage) []string {
	var many []string
	if err := json.Unmarshal(raw, &many); err == nil {
		return many
	}
	var one string
	if err := json.Unmarshal(raw, &one); err == nil {
		return []string{one}
	}
	return nil
}
