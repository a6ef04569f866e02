package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a request failure. Callers branch on Kind, never on raw
// transport shapes or status codes.
type Kind string

const (
	// KindNetwork: the request never produced a response (connection refused,
	// DNS failure, timeout, cancelled context).
	KindNetwork Kind = "network"
	// KindAuth: a 401 that persisted after a renewal attempt, or renewal
	// itself failed, or bad credentials on a public auth endpoint.
	KindAuth Kind = "auth"
	// KindValidation: a 400 carrying field-level messages.
	KindValidation Kind = "validation"
	// KindNotFound: 404.
	KindNotFound Kind = "not_found"
	// KindServer: any 5xx.
	KindServer Kind = "server"
	// KindUnknown: everything else.
	KindUnknown Kind = "unknown"
)

// Error is the single structured error shape produced at the gateway
// boundary. Fields is populated for validation errors only.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string][]string
	Status  int
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// KindOf extracts the Kind from err, or KindUnknown for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given Kind.
func IsKind(err error, k Kind) bool {
	return KindOf(err) == k
}

func networkError(err error) *Error {
	return &Error{Kind: KindNetwork, Message: err.Error()}
}

func sessionExpiredError() *Error {
	return &Error{Kind: KindAuth, Message: "session expired", Status: http.StatusUnauthorized}
}

// errorFromResponse normalizes the backend's assorted error body shapes
// ({"detail": ...}, {"message": ...}, {"field": ["msg", ...]}, plain text)
// into one tagged Error.
func errorFromResponse(status int, body []byte) *Error {
	e := &Error{Status: status}

	switch {
	case status == http.StatusUnauthorized:
		e.Kind = KindAuth
	case status == http.StatusNotFound:
		e.Kind = KindNotFound
	case status == http.StatusBadRequest:
		e.Kind = KindValidation
	case status >= 500:
		e.Kind = KindServer
	default:
		e.Kind = KindUnknown
	}

	e.Message, e.Fields = decodeErrorBody(body)
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	// A 400 without field messages is still a client error, just not one the
	// UI can attach to a form field.
	if e.Kind == KindValidation && len(e.Fields) == 0 && e.Message == http.StatusText(status) {
		e.Kind = KindUnknown
	}
	return e
}

func decodeErrorBody(body []byte) (string, map[string][]string) {
	if len(body) == 0 {
		return "", nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		var s string
		if json.Unmarshal(body, &s) == nil {
			return s, nil
		}
		return "", nil
	}

	var msg string
	for _, key := range []string{"detail", "message", "error"} {
		var s string
		if v, ok := raw[key]; ok && json.Unmarshal(v, &s) == nil {
			msg = s
			delete(raw, key)
			break
		}
	}

	fields := make(map[string][]string)
	for key, v := range raw {
		var list []string
		if json.Unmarshal(v, &list) == nil {
			fields[key] = list
			continue
		}
		var s string
		if json.Unmarshal(v, &s) == nil {
			fields[key] = []string{s}
		}
	}
	if len(fields) == 0 {
		fields = nil
	}

	if msg == "" {
		if list, ok := fields["non_field_errors"]; ok && len(list) > 0 {
			msg = list[0]
		}
	}
	return msg, fields
}
