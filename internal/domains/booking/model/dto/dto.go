package dto

import (
	"time"

	"inn/internal/domains/booking/model"
	"inn/shared"
	"inn/shared/calendar"
	"inn/shared/timezone"
)

type CreateBookingRequest struct {
	GuestName  string `json:"guest_name"  validate:"required,max=100"`
	RoomNumber string `json:"room_number" validate:"required,max=20"`
	CheckIn    string `json:"check_in"    validate:"required,calendardate"`
	CheckOut   string `json:"check_out"   validate:"required,calendardate"`
}

func (c *CreateBookingRequest) ToModel() (model.Booking, error) {
	checkIn, err := calendar.Parse(c.CheckIn)
	if err != nil {
		return model.Booking{}, err
	}

	checkOut, err := calendar.Parse(c.CheckOut)
	if err != nil {
		return model.Booking{}, err
	}

	return model.Booking{
		GuestName:  c.GuestName,
		RoomNumber: c.RoomNumber,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Status:     model.StatusActive,
		CreatedAt:  timezone.Now(),
	}, nil
}

type BookingResponse struct {
	ID           int64  `json:"id"`
	GuestName    string `json:"guest_name"`
	RoomNumber   string `json:"room_number"`
	CheckIn      string `json:"check_in"`
	CheckOut     string `json:"check_out"`
	CheckoutDate string `json:"checkout_date,omitempty"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.GuestName = model.GuestName
	r.RoomNumber = model.RoomNumber
	r.CheckIn = model.CheckIn.String()
	r.CheckOut = model.CheckOut.String()
	r.Status = model.Status
	r.CreatedAt = timezone.Format(model.CreatedAt, time.RFC3339)

	if model.CheckoutDate != nil {
		r.CheckoutDate = model.CheckoutDate.String()
	}
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

// CheckAvailabilityRequest asks whether a room is free. Without dates the
// answer is about today; with both dates it is about the requested range.
type CheckAvailabilityRequest struct {
	RoomNumber string `json:"room_number" validate:"required,max=20"`
	CheckIn    string `json:"check_in"    validate:"omitempty,calendardate"`
	CheckOut   string `json:"check_out"   validate:"omitempty,calendardate"`
}

type AvailabilityResponse struct {
	RoomNumber string            `json:"room_number"`
	CheckIn    string            `json:"check_in,omitempty"`
	CheckOut   string            `json:"check_out,omitempty"`
	Available  bool              `json:"available"`
	Conflicts  []BookingResponse `json:"conflicts,omitempty"`
}

type RoomOccupancyResponse struct {
	RoomNumber string           `json:"room_number"`
	Category   string           `json:"category"`
	Status     string           `json:"status"`
	Booking    *BookingResponse `json:"booking,omitempty"`
}

const (
	OccupancyStatusAvailable = "available"
	OccupancyStatusOccupied  = "occupied"
)

func (r *RoomOccupancyResponse) FromModel(occupancy model.RoomOccupancy) {
	r.RoomNumber = occupancy.RoomNumber
	r.Category = occupancy.Category
	r.Status = OccupancyStatusAvailable

	if occupancy.BookingID != nil {
		r.Status = OccupancyStatusOccupied
		r.Booking = &BookingResponse{
			ID:         *occupancy.BookingID,
			RoomNumber: occupancy.RoomNumber,
			Status:     model.StatusActive,
		}

		if occupancy.GuestName != nil {
			r.Booking.GuestName = *occupancy.GuestName
		}

		if occupancy.CheckIn != nil {
			r.Booking.CheckIn = occupancy.CheckIn.String()
		}

		if occupancy.CheckOut != nil {
			r.Booking.CheckOut = occupancy.CheckOut.String()
		}
	}
}

type GetRoomStatusResponse struct {
	Date  string                  `json:"date"`
	Rooms []RoomOccupancyResponse `json:"rooms"`
}

func (r *GetRoomStatusResponse) FromModels(date calendar.Date, models []model.RoomOccupancy) {
	r.Date = date.String()

	r.Rooms = make([]RoomOccupancyResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}

// BookingEvent is the payload published to the bookings topic on every
// lifecycle transition.
type BookingEvent struct {
	Event     string          `json:"event"`
	Booking   BookingResponse `json:"booking"`
	Timestamp string          `json:"timestamp"`
}

const (
	EventBookingCreated    = "booking.created"
	EventBookingCheckedOut = "booking.checked_out"
	EventBookingVacated    = "booking.vacated"
	EventBookingCancelled  = "booking.cancelled"
)
