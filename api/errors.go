package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/PaesslerAG/jsonpath"
)

// Kind classifies a failed call.
type Kind int

const (
	// Unauthorized is a 401: the token is gone or no longer accepted.
	Unauthorized Kind = iota + 1
	// Rejected is any other non-2xx answer, carrying the backend message.
	Rejected
	// Transport is a failure to reach the backend or to read its answer.
	Transport
)

func (k Kind) String() string {
	switch k {
	case Unauthorized:
		return "unauthorized"
	case Rejected:
		return "rejected"
	case Transport:
		return "transport"
	}
	return "unknown"
}

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrRejected     = errors.New("rejected")
	ErrTransport    = errors.New("transport failure")
)

// Error is returned by every Client call that did not succeed.
type Error struct {
	Kind    Kind
	Status  int    // HTTP status, 0 for Transport errors
	Message string // user facing message
	Err     error  // cause of a Transport error
}

func (e *Error) Error() string {
	switch e.Kind {
	case Transport:
		return fmt.Sprintf("cannot reach backend: %v", e.Err)
	case Unauthorized:
		return "not authorized, please login again"
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel of the error Kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Kind == Unauthorized
	case ErrRejected:
		return e.Kind == Rejected
	case ErrTransport:
		return e.Kind == Transport
	}
	return false
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}

// classify builds the error for a non-2xx response.
func classify(status int, body []byte) *Error {
	if status == http.StatusUnauthorized {
		return &Error{Kind: Unauthorized, Status: status}
	}
	msg := detail(body)
	if msg == "" {
		msg = fmt.Sprintf("request failed: %d %s", status, http.StatusText(status))
	}
	return &Error{Kind: Rejected, Status: status, Message: msg}
}

// detail extracts the backend message from a {detail: ...} envelope.
//
// detail is usually a string. Validation failures carry a list of objects
// each holding a msg, those are joined.
func detail(body []byte) string {
	var jobj any
	if err := json.Unmarshal(body, &jobj); err != nil {
		return ""
	}
	jval, err := jsonpath.Get("$.detail", jobj)
	if err != nil {
		return ""
	}
	if s, ok := jval.(string); ok {
		return s
	}
	jval, err = jsonpath.Get("$.detail[*].msg", jobj)
	if err != nil {
		return ""
	}
	jlist, ok := jval.([]any)
	if !ok {
		return ""
	}
	var msgs []string
	for _, m := range jlist {
		if s, ok := m.(string); ok && s != "" {
			msgs = append(msgs, s)
		}
	}
	return strings.Join(msgs, "; ")
}
