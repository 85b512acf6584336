package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the stable, caller-visible classification of a failure
type Kind string

const (
	KindNotFound              Kind = "NOT_FOUND"
	KindForbidden             Kind = "FORBIDDEN"
	KindInvalidState          Kind = "INVALID_STATE"
	KindSeatUnavailable       Kind = "SEAT_UNAVAILABLE"
	KindSeatNotFound          Kind = "SEAT_NOT_FOUND"
	KindSeatNotLockedByCaller Kind = "SEAT_NOT_LOCKED_BY_CALLER"
	KindBookingExpired        Kind = "BOOKING_EXPIRED"
	KindValidation            Kind = "VALIDATION_ERROR"
	KindInternal              Kind = "INTERNAL"
)

// Error carries a kind plus a human-readable message
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotFound)
// holds for every not-found error regardless of message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrNotFound              = &Error{Kind: KindNotFound, Message: "resource not found"}
	ErrForbidden             = &Error{Kind: KindForbidden, Message: "not authorized for this resource"}
	ErrInvalidState          = &Error{Kind: KindInvalidState, Message: "operation not valid for current status"}
	ErrSeatUnavailable       = &Error{Kind: KindSeatUnavailable, Message: "one or more seats are not available"}
	ErrSeatNotFound          = &Error{Kind: KindSeatNotFound, Message: "seat not found for event"}
	ErrSeatNotLockedByCaller = &Error{Kind: KindSeatNotLockedByCaller, Message: "seat is not locked by caller"}
	ErrBookingExpired        = &Error{Kind: KindBookingExpired, Message: "booking has expired"}
	ErrValidation            = &Error{Kind: KindValidation, Message: "validation error"}
)

// New builds an error of the given kind with a formatted message
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) *Error {
	return New(KindNotFound, format, args...)
}

func Forbidden(format string, args ...interface{}) *Error {
	return New(KindForbidden, format, args...)
}

func InvalidState(format string, args ...interface{}) *Error {
	return New(KindInvalidState, format, args...)
}

func Validation(format string, args ...interface{}) *Error {
	return New(KindValidation, format, args...)
}

// KindOf reports the kind of err, or KindInternal for foreign errors
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// HTTPStatus maps an error to the status code the transport should use
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound, KindSeatNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindInvalidState, KindSeatUnavailable, KindSeatNotLockedByCaller:
		return http.StatusConflict
	case KindBookingExpired:
		return http.StatusGone
	case KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
