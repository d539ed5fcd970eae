package arena

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a user-facing command failure. Every kind is
// recoverable: the façade leaves state unchanged and reports the failure.
type ErrorKind string

const (
	KindDuplicateEntry    ErrorKind = "DUPLICATE_ENTRY"
	KindUnknownTeam       ErrorKind = "UNKNOWN_TEAM"
	KindUnknownReviewItem ErrorKind = "UNKNOWN_REVIEW_ITEM"
	KindEmptyQueue        ErrorKind = "EMPTY_QUEUE"
	KindSlotIdle          ErrorKind = "SLOT_IDLE"
	KindSlotNotIdle       ErrorKind = "SLOT_NOT_IDLE"
	KindInvalidTransition ErrorKind = "INVALID_TRANSITION"
	KindInvalidValue      ErrorKind = "INVALID_VALUE"
)

// Error is a structured command failure: a machine-readable kind plus a
// user-visible message.
type Error struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

// Errorf builds an Error with a formatted message.
func Errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the failure kind carried by err, or "" if err is not an
// arena command failure.
func KindOf(err error) ErrorKind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return ""
}
