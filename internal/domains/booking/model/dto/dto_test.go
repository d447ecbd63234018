package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"inn/internal/domains/booking/model"
	"inn/internal/domains/booking/model/dto"
	"inn/shared/calendar"
	"inn/shared/timezone"
)

func TestCreateBookingRequest_ToModel(t *testing.T) {
	req := dto.CreateBookingRequest{
		GuestName:  "Alice",
		RoomNumber: "101",
		CheckIn:    "2030-06-01",
		CheckOut:   "2030-06-05",
	}

	booking, err := req.ToModel()

	assert.NoError(t, err)
	assert.Equal(t, req.GuestName, booking.GuestName)
	assert.Equal(t, req.RoomNumber, booking.RoomNumber)
	assert.Equal(t, "2030-06-01", booking.CheckIn.String())
	assert.Equal(t, "2030-06-05", booking.CheckOut.String())
	assert.Equal(t, model.StatusActive, booking.Status)
	assert.False(t, booking.CreatedAt.IsZero(), "expected CreatedAt to be set")
}

func TestCreateBookingRequest_ToModel_BadDate(t *testing.T) {
	req := dto.CreateBookingRequest{
		GuestName:  "Alice",
		RoomNumber: "101",
		CheckIn:    "06/01/2030",
		CheckOut:   "2030-06-05",
	}

	_, err := req.ToModel()

	assert.Error(t, err)
}

func TestBookingResponse_FromModel(t *testing.T) {
	checkoutDate := calendar.MustParse("2030-06-03")

	booking := model.Booking{
		ID:           42,
		GuestName:    "Alice",
		RoomNumber:   "101",
		CheckIn:      calendar.MustParse("2030-06-01"),
		CheckOut:     calendar.MustParse("2030-06-05"),
		CheckoutDate: &checkoutDate,
		Status:       model.StatusCheckedOut,
		CreatedAt:    timezone.Now(),
	}

	var response dto.BookingResponse
	response.FromModel(booking)

	assert.Equal(t, booking.ID, response.ID)
	assert.Equal(t, booking.GuestName, response.GuestName)
	assert.Equal(t, "2030-06-01", response.CheckIn)
	assert.Equal(t, "2030-06-05", response.CheckOut)
	assert.Equal(t, "2030-06-03", response.CheckoutDate)
	assert.Equal(t, model.StatusCheckedOut, response.Status)
	assert.NotEmpty(t, response.CreatedAt)
}

func TestBookingResponse_FromModel_NoCheckoutDate(t *testing.T) {
	booking := model.Booking{
		ID:         42,
		GuestName:  "Alice",
		RoomNumber: "101",
		CheckIn:    calendar.MustParse("2030-06-01"),
		CheckOut:   calendar.MustParse("2030-06-05"),
		Status:     model.StatusActive,
		CreatedAt:  timezone.Now(),
	}

	var response dto.BookingResponse
	response.FromModel(booking)

	assert.Empty(t, response.CheckoutDate)
}

func TestGetBookingsResponse_FromModels(t *testing.T) {
	bookings := []model.Booking{
		{
			ID:         1,
			GuestName:  "Alice",
			RoomNumber: "101",
			CheckIn:    calendar.MustParse("2030-06-01"),
			CheckOut:   calendar.MustParse("2030-06-05"),
			Status:     model.StatusActive,
			CreatedAt:  timezone.Now(),
		},
		{
			ID:         2,
			GuestName:  "Bob",
			RoomNumber: "102",
			CheckIn:    calendar.MustParse("2030-06-02"),
			CheckOut:   calendar.MustParse("2030-06-04"),
			Status:     model.StatusActive,
			CreatedAt:  timezone.Now(),
		},
	}

	totalData := 15
	limit := 10

	var response dto.GetBookingsResponse
	response.FromModels(bookings, totalData, limit)

	assert.Equal(t, totalData, response.TotalData)
	assert.Equal(t, 2, response.TotalPage)
	assert.Len(t, response.Bookings, len(bookings))

	for i, booking := range response.Bookings {
		assert.Equal(t, bookings[i].ID, booking.ID)
		assert.Equal(t, bookings[i].GuestName, booking.GuestName)
	}
}

func TestRoomOccupancyResponse_FromModel(t *testing.T) {
	t.Run("occupied room carries its booking", func(t *testing.T) {
		bookingID := int64(42)
		guest := "Alice"
		checkIn := calendar.MustParse("2030-06-01")
		checkOut := calendar.MustParse("2030-06-05")

		occupancy := model.RoomOccupancy{
			RoomNumber: "101",
			Category:   "AC",
			BookingID:  &bookingID,
			GuestName:  &guest,
			CheckIn:    &checkIn,
			CheckOut:   &checkOut,
		}

		var response dto.RoomOccupancyResponse
		response.FromModel(occupancy)

		assert.Equal(t, dto.OccupancyStatusOccupied, response.Status)
		assert.NotNil(t, response.Booking)
		assert.Equal(t, bookingID, response.Booking.ID)
		assert.Equal(t, guest, response.Booking.GuestName)
		assert.Equal(t, "2030-06-01", response.Booking.CheckIn)
	})

	t.Run("free room has no booking", func(t *testing.T) {
		occupancy := model.RoomOccupancy{
			RoomNumber: "102",
			Category:   "Non-AC",
		}

		var response dto.RoomOccupancyResponse
		response.FromModel(occupancy)

		assert.Equal(t, dto.OccupancyStatusAvailable, response.Status)
		assert.Nil(t, response.Booking)
	})
}
