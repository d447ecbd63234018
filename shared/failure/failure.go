package failure

import (
	"errors"
	"net/http"
)

// Kinds classify business-rule failures so a client can tell a booking
// conflict apart from an unavailable backend. Anything that is not a Failure
// is reported as KindInternal.
const (
	KindValidation     = "validation"
	KindDateRange      = "date_range"
	KindUnknownRoom    = "unknown_room"
	KindAvailability   = "availability"
	KindDuplicate      = "duplicate"
	KindActiveBookings = "active_bookings"
	KindNotFound       = "not_found"
	KindUnauthorized   = "unauthorized"
	KindInternal       = "internal"
)

// Failure is a wrapper for error messages with a machine-readable kind and a
// standard HTTP response code. Details optionally carry a structured payload,
// e.g. the conflicting bookings of an availability failure.
type Failure struct {
	Code    int    `json:"code"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func (e *Failure) Error() string {
	return e.Message
}

// Validation returns a Failure for a missing or malformed required field.
func Validation(msg string) error {
	return &Failure{
		Code:    http.StatusBadRequest,
		Kind:    KindValidation,
		Message: msg,
	}
}

// DateRange returns a Failure for an inverted, empty or past date range.
func DateRange(msg string) error {
	return &Failure{
		Code:    http.StatusBadRequest,
		Kind:    KindDateRange,
		Message: msg,
	}
}

// UnknownRoom returns a Failure for a reference to an unregistered room.
func UnknownRoom(msg string) error {
	return &Failure{
		Code:    http.StatusBadRequest,
		Kind:    KindUnknownRoom,
		Message: msg,
	}
}

// Availability returns a Failure for an overlap conflict, carrying the
// conflicting bookings so the caller can display them.
func Availability(msg string, conflicts any) error {
	return &Failure{
		Code:    http.StatusConflict,
		Kind:    KindAvailability,
		Message: msg,
		Details: conflicts,
	}
}

// Duplicate returns a Failure for an already-registered identifier.
func Duplicate(msg string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Kind:    KindDuplicate,
		Message: msg,
	}
}

// ActiveBookings returns a Failure for a room removal blocked by live
// bookings.
func ActiveBookings(msg string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Kind:    KindActiveBookings,
		Message: msg,
	}
}

// NotFound returns a Failure for an absent entity, or one not in the state
// the operation requires.
func NotFound(msg string) error {
	return &Failure{
		Code:    http.StatusNotFound,
		Kind:    KindNotFound,
		Message: msg,
	}
}

// BadRequest returns a validation Failure with the message taken from err.
func BadRequest(err error) error {
	if err != nil {
		return Validation(err.Error())
	}

	return nil
}

// Unauthorized returns a Failure with code for unauthorized requests.
func Unauthorized(msg string) error {
	return &Failure{
		Code:    http.StatusUnauthorized,
		Kind:    KindUnauthorized,
		Message: msg,
	}
}

// InternalError returns a Failure for an unexpected storage or
// infrastructure error, distinct from every business-rule kind.
func InternalError(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusInternalServerError,
			Kind:    KindInternal,
			Message: err.Error(),
		}
	}

	return nil
}

// GetCode returns the HTTP code of an error interface.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}

// GetKind returns the failure kind of an error interface.
func GetKind(err error) string {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Kind
	}

	return KindInternal
}

// GetDetails returns the structured details of an error interface, if any.
func GetDetails(err error) any {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Details
	}

	return nil
}

// Is reports whether err carries the given failure kind.
func Is(err error, kind string) bool {
	return GetKind(err) == kind
}
