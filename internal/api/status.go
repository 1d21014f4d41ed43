package api

import (
	"fmt"
	"sort"
	"strings"
)

// Error is a structured application error: the backend answered with an
// envelope whose success flag is false (or a bare non-2xx status).
type Error struct {
	Status  int
	Message string
	// Fields carries field-level validation messages when the backend
	// returned them in the data payload.
	Fields map[string]string
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return e.Message + " (" + strings.Join(parts, "; ") + ")"
}

// IsValidation reports whether the error carries field-level messages.
func (e *Error) IsValidation() bool { return len(e.Fields) > 0 }

// friendlyStatusMessage turns common auth-related statuses into actionable
// text. hadAuth indicates whether an Authorization header was sent.
func friendlyStatusMessage(statusCode int, status string, hadAuth bool) string {
	switch statusCode {
	case 401:
		if hadAuth {
			return "401 Unauthorized: session expired or token rejected; log in again"
		}
		return "401 Unauthorized: not logged in; run `tradmin login`"
	case 403:
		if hadAuth {
			return "403 Forbidden: this account lacks permission for the action"
		}
		return "403 Forbidden: access denied (log in first)"
	case 404:
		return "404 Not Found: check the identifier; the record may have been deleted"
	case 429:
		return "429 Too Many Requests: rate limited"
	default:
		if status != "" {
			return status
		}
		return fmt.Sprintf("unexpected status: %d", statusCode)
	}
}
