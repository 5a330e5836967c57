package gateway

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var (
	ErrInvalidBaseURL   = errors.New("invalid gateway base URL")
	ErrClientRejected   = errors.New("request rejected by server")
	ErrRetriesExhausted = errors.New("request retries exhausted")
	ErrTimeout          = errors.New("request timed out")
	ErrTransport        = errors.New("transport failure")
)

// StatusError is returned for every non-2xx response.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
	Body       []byte
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// StatusCode extracts the HTTP status from err, or 0 when err carries none.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

// Message returns the user-facing reason for err: the backend's message when
// the server supplied one, otherwise err's text.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var se *StatusError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	return err.Error()
}

const maxBodyRunes = 200

func sanitizeBody(body []byte) string {
	s := strings.ReplaceAll(strings.TrimSpace(string(body)), "\n", " ")
	if utf8.RuneCountInString(s) > maxBodyRunes {
		s = string([]rune(s)[:maxBodyRunes]) + "..."
	}
	return s
}
