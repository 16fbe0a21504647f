package service

import (
	"database/sql"
	"errors"
	"fmt"
)

// Kind classifies a rule failure.  Handlers translate kinds into HTTP
// statuses; the message is always safe to show to the caller.
type Kind string

const (
	KindValidation              Kind = "ValidationError"
	KindInvalidTransition       Kind = "InvalidTransition"
	KindPrematureCheckIn        Kind = "PrematureCheckIn"
	KindOutstandingBalance      Kind = "OutstandingBalance"
	KindGuestNotCheckedIn       Kind = "GuestNotCheckedIn"
	KindReservationNotConfirmed Kind = "ReservationNotConfirmed"
	KindMissingActor            Kind = "MissingActor"
	KindNotFound                Kind = "NotFound"
	KindConflict                Kind = "Conflict"
)

// Error is the structured failure returned by every service operation.  No
// mutation is committed when an Error is returned.
type Error struct {
	Kind    Kind
	Message string
	Details map[string]any
}

func (e *Error) Error() string { return e.Message }

// Is matches sentinels by kind, so errors.Is(err, ErrNotFound) holds for
// any NotFound error regardless of its message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == ""
}

var (
	ErrValidation              = &Error{Kind: KindValidation}
	ErrInvalidTransition       = &Error{Kind: KindInvalidTransition}
	ErrPrematureCheckIn        = &Error{Kind: KindPrematureCheckIn}
	ErrOutstandingBalance      = &Error{Kind: KindOutstandingBalance}
	ErrGuestNotCheckedIn       = &Error{Kind: KindGuestNotCheckedIn}
	ErrReservationNotConfirmed = &Error{Kind: KindReservationNotConfirmed}
	ErrMissingActor            = &Error{Kind: KindMissingActor}
	ErrNotFound                = &Error{Kind: KindNotFound}
	ErrConflict                = &Error{Kind: KindConflict}
)

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of a service error, or "" for anything else.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// notFound turns sql.ErrNoRows into a NotFound error naming the entity.
// Other errors pass through untouched.
func notFound(err error, what string, id uint64) error {
	if errors.Is(err, sql.ErrNoRows) {
		return newError(KindNotFound, "%s %d not found", what, id)
	}
	return err
}
