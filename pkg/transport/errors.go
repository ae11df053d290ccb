package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrTransport marks failures that happened before a status code was
// available or while decoding a successful body: bad URL, network error,
// request encoding, response decoding.
var ErrTransport = errors.New("transport: request failed")

// APIError is a non-2xx response. Message holds the server-provided "message"
// (or, when absent, "error") attribute of a JSON body.
type APIError struct {
	StatusCode int
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("transport: status=%d message=%s", e.StatusCode, e.Message)
	case e.Body != "":
		return fmt.Sprintf("transport: status=%d body=%s", e.StatusCode, e.Body)
	default:
		return fmt.Sprintf("transport: status=%d", e.StatusCode)
	}
}

// AsAPIError unwraps err into an *APIError.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

func newAPIError(status int, raw []byte) *APIError {
	return &APIError{
		StatusCode: status,
		Message:    extractMessage(raw),
		Body:       strings.TrimSpace(string(raw)),
	}
}

func extractMessage(raw []byte) string {
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	for _, key := range []string{"message", "error"} {
		if s, ok := body[key].(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

func transportErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrTransport, op, err)
}
