package api

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for the request pipeline. Callers match them with
// errors.Is.
var (
	// ErrUnavailable covers connectivity failures and 5xx responses.
	ErrUnavailable = errors.New("server unavailable")

	// ErrUnauthorized is returned for any 401/403 response. By the time
	// the caller sees it the persisted token is already cleared and the
	// OnUnauthorized policy has fired.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrMissingToken means an authentication endpoint answered 2xx but
	// returned no usable token.
	ErrMissingToken = errors.New("no token in response")
)

// ValidationError carries field-level errors returned by the backend,
// typically from a 400 response with per-field messages and/or a
// non_field_errors list.
type ValidationError struct {
	Fields   map[string][]string
	NonField []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", e.Message())
}

// Message returns the single message to surface to the user: the first
// non_field_errors entry if present, otherwise the first field error in
// field-name order.
func (e *ValidationError) Message() string {
	if len(e.NonField) > 0 {
		return e.NonField[0]
	}
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		if len(e.Fields[f]) > 0 {
			return fmt.Sprintf("%s: %s", f, e.Fields[f][0])
		}
	}
	return "invalid request"
}

// Kind is the coarse error class the session store branches on.
type Kind int

const (
	KindUnknown Kind = iota
	KindAuthorization
	KindValidation
	KindNetwork
)

func (k Kind) String() string {
	switch k {
	case KindAuthorization:
		return "authorization"
	case KindValidation:
		return "validation"
	case KindNetwork:
		return "network"
	default:
		return "unknown"
	}
}

// Classify maps an error from the request pipeline to its Kind. This is
// the single branch point for the soft-fail/hard-fail split: only
// KindAuthorization tears a session down.
func Classify(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var ve *ValidationError
	switch {
	case errors.Is(err, ErrUnauthorized):
		return KindAuthorization
	case errors.As(err, &ve):
		return KindValidation
	case errors.Is(err, ErrUnavailable):
		return KindNetwork
	default:
		return KindUnknown
	}
}

// UserMessage converts a pipeline error into the one line shown to the
// user. Every failure path surfaces exactly one message.
func UserMessage(err error) string {
	var ve *ValidationError
	switch {
	case errors.Is(err, ErrMissingToken):
		return "Login failed: the server did not return a session token."
	case errors.Is(err, ErrUnauthorized):
		return "Your session has expired. Please log in again."
	case errors.As(err, &ve):
		return ve.Message()
	case errors.Is(err, ErrUnavailable):
		return "The server is unavailable right now. Please try again later."
	default:
		return "Something went wrong. Please try again."
	}
}

// snippet trims a response body down to a short, valid-UTF-8 excerpt
// for wrapped error messages.
func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 120 {
		s = strings.ToValidUTF8(s[:120], "") + "..."
	}
	return s
}
