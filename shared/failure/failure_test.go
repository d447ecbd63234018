package failure_test

import (
	"errors"
	"net/http"
	"testing"

	"inn/shared/failure"
)

func TestFailure_Error(t *testing.T) {
	f := &failure.Failure{
		Code:    http.StatusBadRequest,
		Kind:    failure.KindValidation,
		Message: "test error message",
	}

	if f.Error() != "test error message" {
		t.Errorf("expected error message to be 'test error message', got %s", f.Error())
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		kind string
	}{
		{"Validation", failure.Validation("guest name is required"), http.StatusBadRequest, failure.KindValidation},
		{"DateRange", failure.DateRange("check-out must be after check-in"), http.StatusBadRequest, failure.KindDateRange},
		{"UnknownRoom", failure.UnknownRoom("room does not exist"), http.StatusBadRequest, failure.KindUnknownRoom},
		{"Availability", failure.Availability("room is not available", nil), http.StatusConflict, failure.KindAvailability},
		{"Duplicate", failure.Duplicate("room number already exists"), http.StatusConflict, failure.KindDuplicate},
		{"ActiveBookings", failure.ActiveBookings("room has active bookings"), http.StatusConflict, failure.KindActiveBookings},
		{"NotFound", failure.NotFound("booking not found"), http.StatusNotFound, failure.KindNotFound},
		{"Unauthorized", failure.Unauthorized("invalid token"), http.StatusUnauthorized, failure.KindUnauthorized},
		{"InternalError", failure.InternalError(errors.New("connection refused")), http.StatusInternalServerError, failure.KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := failure.GetCode(tt.err); got != tt.code {
				t.Errorf("expected code %d, got %d", tt.code, got)
			}
			if got := failure.GetKind(tt.err); got != tt.kind {
				t.Errorf("expected kind %s, got %s", tt.kind, got)
			}
			if !failure.Is(tt.err, tt.kind) {
				t.Errorf("expected Is(err, %s) to be true", tt.kind)
			}
		})
	}
}

func TestAvailabilityCarriesConflicts(t *testing.T) {
	conflicts := []string{"booking-1", "booking-2"}
	err := failure.Availability("room is not available for the selected dates", conflicts)

	details, ok := failure.GetDetails(err).([]string)
	if !ok {
		t.Fatalf("expected details to carry the conflicts slice")
	}

	if len(details) != 2 {
		t.Errorf("expected 2 conflicts, got %d", len(details))
	}
}

func TestPlainErrorIsInternal(t *testing.T) {
	err := errors.New("disk on fire")

	if failure.GetCode(err) != http.StatusInternalServerError {
		t.Errorf("expected plain errors to map to 500")
	}

	if failure.GetKind(err) != failure.KindInternal {
		t.Errorf("expected plain errors to map to kind internal")
	}
}

func TestNilErrorsProduceNil(t *testing.T) {
	if failure.BadRequest(nil) != nil {
		t.Error("BadRequest(nil) should be nil")
	}

	if failure.InternalError(nil) != nil {
		t.Error("InternalError(nil) should be nil")
	}
}
