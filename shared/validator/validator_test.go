package validator_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"inn/shared/failure"
	"inn/shared/validator"
)

type createBookingRequest struct {
	GuestName  string `json:"guest_name"  validate:"required"`
	RoomNumber string `json:"room_number" validate:"required"`
	CheckIn    string `json:"check_in"    validate:"required,calendardate"`
	CheckOut   string `json:"check_out"   validate:"required,calendardate"`
}

func TestValidateDecodesAndValidates(t *testing.T) {
	body := strings.NewReader(`{"guest_name":"Alice","room_number":"101","check_in":"2024-01-10","check_out":"2024-01-15"}`)

	req := createBookingRequest{}
	err := validator.Validate(body, &req)

	assert.NoError(t, err)
	assert.Equal(t, "Alice", req.GuestName)
	assert.Equal(t, "101", req.RoomNumber)
}

func TestValidateRejectsMalformedJSON(t *testing.T) {
	req := createBookingRequest{}
	err := validator.Validate(strings.NewReader("{not json"), &req)

	assert.Error(t, err)
	assert.True(t, failure.Is(err, failure.KindValidation))
}

func TestValidateStructMissingField(t *testing.T) {
	req := createBookingRequest{
		RoomNumber: "101",
		CheckIn:    "2024-01-10",
		CheckOut:   "2024-01-15",
	}

	err := validator.ValidateStruct(&req)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "required")
}

func TestCalendarDateTag(t *testing.T) {
	req := createBookingRequest{
		GuestName:  "Alice",
		RoomNumber: "101",
		CheckIn:    "10-01-2024",
		CheckOut:   "2024-01-15",
	}

	err := validator.ValidateStruct(&req)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "calendar date")
}
