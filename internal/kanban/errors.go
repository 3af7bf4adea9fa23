// Package kanban holds the domain error taxonomy shared by repositories,
// services and the HTTP boundary. Failures carry a Kind; the HTTP layer maps
// kinds to status codes in exactly one place and never inspects messages.
package kanban

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidData
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindAlreadyExists
	KindInconsistentData
)

func (k Kind) String() string {
	switch k {
	case KindInvalidData:
		return "invalid_data"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindAlreadyExists:
		return "already_exists"
	case KindInconsistentData:
		return "inconsistent_data"
	default:
		return "unknown"
	}
}

// Error is a domain failure with a client-facing message. Messages are
// complete sentences without trailing periods, e.g.
// `Board with id 1 does not exist`.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// ErrRequiredFields is the InvalidData failure shared by every entity's
// required-field check.
var ErrRequiredFields = &Error{Kind: KindInvalidData, Message: "Required fields are not present"}

func InvalidData(message string) *Error {
	return &Error{Kind: KindInvalidData, Message: message}
}

func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

func NotFoundf(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func AlreadyExistsf(format string, args ...any) *Error {
	return &Error{Kind: KindAlreadyExists, Message: fmt.Sprintf(format, args...)}
}

func Inconsistentf(format string, args ...any) *Error {
	return &Error{Kind: KindInconsistentData, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind carried by err, or KindUnknown for errors that did
// not originate in the domain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
