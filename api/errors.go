package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrSessionExpired is returned when a 401 could not be recovered by a token
// refresh. The token store has been cleared by then.
var ErrSessionExpired = errors.New("session expired, please sign in again")

// APIError is a non-2xx response from the backend. Body is kept verbatim so
// validation messages can be shown as the backend wrote them.
type APIError struct {
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	if msg := e.Message(); msg != "" {
		return fmt.Sprintf("api %d: %s", e.StatusCode, msg)
	}
	return fmt.Sprintf("api %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// Payload returns the body as raw JSON, or as a JSON string when the backend
// sent something else (an HTML error page, plain text).
func (e *APIError) Payload() json.RawMessage {
	if json.Valid(e.Body) {
		return json.RawMessage(e.Body)
	}
	quoted, _ := json.Marshal(strings.TrimSpace(string(e.Body)))
	return quoted
}

// FieldErrors decodes the usual DRF validation shape
// {"field": ["message", ...]}. Scalar values are wrapped in a slice.
func (e *APIError) FieldErrors() map[string][]string {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(e.Body, &raw); err != nil {
		return nil
	}
	out := make(map[string][]string, len(raw))
	for field, v := range raw {
		var list []string
		if err := json.Unmarshal(v, &list); err == nil {
			out[field] = list
			continue
		}
		var one string
		if err := json.Unmarshal(v, &one); err == nil {
			out[field] = []string{one}
		}
	}
	return out
}

// Message picks a human readable line out of the body: "detail", then
// "error", then the first field error.
func (e *APIError) Message() string {
	fields := e.FieldErrors()
	for _, key := range []string{"detail", "error", "message"} {
		if msgs := fields[key]; len(msgs) > 0 {
			return msgs[0]
		}
	}
	for field, msgs := range fields {
		if len(msgs) > 0 {
			return field + ": " + msgs[0]
		}
	}
	return ""
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}
