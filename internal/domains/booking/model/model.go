package model

import (
	"time"

	"inn/shared/calendar"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID           = "id"
	FieldGuestName    = "guest_name"
	FieldRoomNumber   = "room_number"
	FieldCheckIn      = "check_in"
	FieldCheckOut     = "check_out"
	FieldCheckoutDate = "checkout_date"
	FieldStatus       = "status"
	FieldCreatedAt    = "created_at"

	StatusActive          = "active"
	StatusCheckedOut      = "checked-out"
	StatusManuallyVacated = "manually-vacated"
)

type Booking struct {
	ID           int64          `db:"id"`
	GuestName    string         `db:"guest_name"`
	RoomNumber   string         `db:"room_number"`
	CheckIn      calendar.Date  `db:"check_in"`
	CheckOut     calendar.Date  `db:"check_out"`
	CheckoutDate *calendar.Date `db:"checkout_date"`
	Status       string         `db:"status"`
	CreatedAt    time.Time      `db:"created_at"`
}

// Occupies reports whether the booking covers the given date under the
// half-open [check_in, check_out) convention.
func (b Booking) Occupies(date calendar.Date) bool {
	return !date.Before(b.CheckIn) && date.Before(b.CheckOut)
}

// RoomOccupancy is one row of the room status board: a room joined with
// the active booking covering the projection date, if any.
type RoomOccupancy struct {
	RoomNumber string         `db:"room_number"`
	Category   string         `db:"category"`
	BookingID  *int64         `db:"booking_id"`
	GuestName  *string        `db:"guest_name"`
	CheckIn    *calendar.Date `db:"check_in"`
	CheckOut   *calendar.Date `db:"check_out"`
}
