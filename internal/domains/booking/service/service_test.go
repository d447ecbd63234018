package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"inn/config"
	kafkaMocks "inn/infras/kafka/mocks"
	"inn/infras/otel/mocks"
	bookingMocks "inn/internal/domains/booking/mocks"
	"inn/internal/domains/booking/model"
	"inn/internal/domains/booking/model/dto"
	"inn/internal/domains/booking/repository"
	"inn/internal/domains/booking/service"
	roomMocks "inn/internal/domains/room/mocks"
	"inn/shared/calendar"
	"inn/shared/failure"
	"inn/shared/timezone"
)

func newService(t *testing.T) (service.Booking, *bookingMocks.MockBooking, *roomMocks.MockRoom) {
	t.Helper()

	ctrl := gomock.NewController(t)

	mockRepo := bookingMocks.NewMockBooking(ctrl)
	mockRoomRepo := roomMocks.NewMockRoom(ctrl)
	mockKafka := kafkaMocks.NewMockClient(ctrl)
	mockOtel := mocks.NewOtel()

	// Events disabled so no messages are published during tests.
	cfg := &config.Config{}

	svc := service.New(mockRepo, mockRoomRepo, cfg, mockKafka, mockOtel)

	return svc, mockRepo, mockRoomRepo
}

func TestBookingService_Create(t *testing.T) {
	today := calendar.DateOf(timezone.Now())

	validReq := dto.CreateBookingRequest{
		GuestName:  "Alice",
		RoomNumber: "101",
		CheckIn:    today.AddDays(1).String(),
		CheckOut:   today.AddDays(3).String(),
	}

	admitted := model.Booking{
		ID:         42,
		GuestName:  "Alice",
		RoomNumber: "101",
		CheckIn:    today.AddDays(1),
		CheckOut:   today.AddDays(3),
		Status:     model.StatusActive,
		CreatedAt:  timezone.Now(),
	}

	conflict := model.Booking{
		ID:         7,
		GuestName:  "Bob",
		RoomNumber: "101",
		CheckIn:    today,
		CheckOut:   today.AddDays(2),
		Status:     model.StatusActive,
	}

	tests := []struct {
		name      string
		req       dto.CreateBookingRequest
		setupMock func(repo *bookingMocks.MockBooking)
		wantErr   bool
		wantKind  string
	}{
		{
			name: "successful admission",
			req:  validReq,
			setupMock: func(repo *bookingMocks.MockBooking) {
				repo.EXPECT().
					Admit(gomock.Any(), gomock.Any()).
					Return(admitted, nil, nil)
			},
		},
		{
			name: "overlapping booking refused",
			req:  validReq,
			setupMock: func(repo *bookingMocks.MockBooking) {
				repo.EXPECT().
					Admit(gomock.Any(), gomock.Any()).
					Return(model.Booking{}, []model.Booking{conflict}, nil)
			},
			wantErr:  true,
			wantKind: failure.KindAvailability,
		},
		{
			name: "unknown room",
			req:  validReq,
			setupMock: func(repo *bookingMocks.MockBooking) {
				repo.EXPECT().
					Admit(gomock.Any(), gomock.Any()).
					Return(model.Booking{}, nil, repository.ErrRoomNotFound)
			},
			wantErr:  true,
			wantKind: failure.KindUnknownRoom,
		},
		{
			name: "check-out not after check-in",
			req: dto.CreateBookingRequest{
				GuestName:  "Alice",
				RoomNumber: "101",
				CheckIn:    today.AddDays(3).String(),
				CheckOut:   today.AddDays(1).String(),
			},
			setupMock: func(repo *bookingMocks.MockBooking) {},
			wantErr:   true,
			wantKind:  failure.KindDateRange,
		},
		{
			name: "identical check-in and check-out",
			req: dto.CreateBookingRequest{
				GuestName:  "Alice",
				RoomNumber: "101",
				CheckIn:    today.AddDays(1).String(),
				CheckOut:   today.AddDays(1).String(),
			},
			setupMock: func(repo *bookingMocks.MockBooking) {},
			wantErr:   true,
			wantKind:  failure.KindDateRange,
		},
		{
			name: "check-in in the past",
			req: dto.CreateBookingRequest{
				GuestName:  "Alice",
				RoomNumber: "101",
				CheckIn:    today.AddDays(-1).String(),
				CheckOut:   today.AddDays(2).String(),
			},
			setupMock: func(repo *bookingMocks.MockBooking) {},
			wantErr:   true,
			wantKind:  failure.KindDateRange,
		},
		{
			name: "malformed date",
			req: dto.CreateBookingRequest{
				GuestName:  "Alice",
				RoomNumber: "101",
				CheckIn:    "01-01-2030",
				CheckOut:   today.AddDays(2).String(),
			},
			setupMock: func(repo *bookingMocks.MockBooking) {},
			wantErr:   true,
			wantKind:  failure.KindValidation,
		},
		{
			name: "repository failure",
			req:  validReq,
			setupMock: func(repo *bookingMocks.MockBooking) {
				repo.EXPECT().
					Admit(gomock.Any(), gomock.Any()).
					Return(model.Booking{}, nil, errors.New("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, _ := newService(t)
			tt.setupMock(mockRepo)

			res, err := svc.Create(context.Background(), tt.req)

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantKind != "" {
					assert.Equal(t, tt.wantKind, failure.GetKind(err))
				}

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, admitted.ID, res.ID)
			assert.Equal(t, model.StatusActive, res.Status)
			assert.Equal(t, admitted.CheckIn.String(), res.CheckIn)
			assert.Equal(t, admitted.CheckOut.String(), res.CheckOut)
		})
	}
}

// bookingLedgerStub admits bookings against an in-memory ledger, holding a
// lock across the whole check-then-insert sequence the way the row lock
// serializes admissions per room.
type bookingLedgerStub struct {
	repository.Booking

	mu       sync.Mutex
	nextID   int64
	bookings []model.Booking
}

func (s *bookingLedgerStub) Admit(_ context.Context, booking model.Booking) (model.Booking, []model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var conflicts []model.Booking

	for _, existing := range s.bookings {
		if existing.RoomNumber == booking.RoomNumber && existing.Status == model.StatusActive &&
			calendar.Overlaps(booking.CheckIn, booking.CheckOut, existing.CheckIn, existing.CheckOut) {
			conflicts = append(conflicts, existing)
		}
	}

	if len(conflicts) > 0 {
		return model.Booking{}, conflicts, nil
	}

	s.nextID++
	booking.ID = s.nextID
	s.bookings = append(s.bookings, booking)

	return booking, nil, nil
}

func TestBookingService_CreateConcurrentOverlapsAdmitExactlyOne(t *testing.T) {
	ctrl := gomock.NewController(t)

	ledger := &bookingLedgerStub{}
	mockRoomRepo := roomMocks.NewMockRoom(ctrl)
	mockKafka := kafkaMocks.NewMockClient(ctrl)

	cfg := &config.Config{}

	svc := service.New(ledger, mockRoomRepo, cfg, mockKafka, mocks.NewOtel())

	today := calendar.DateOf(timezone.Now())

	const guests = 8

	results := make(chan error, guests)

	var wg sync.WaitGroup

	for i := 0; i < guests; i++ {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			// Staggered ranges that all cover the same nights.
			_, err := svc.Create(context.Background(), dto.CreateBookingRequest{
				GuestName:  fmt.Sprintf("Guest %d", i),
				RoomNumber: "101",
				CheckIn:    today.AddDays(1 + i%3).String(),
				CheckOut:   today.AddDays(5 + i%3).String(),
			})
			results <- err
		}(i)
	}

	wg.Wait()
	close(results)

	var admitted, refused int

	for err := range results {
		if err == nil {
			admitted++

			continue
		}

		assert.Equal(t, failure.KindAvailability, failure.GetKind(err))
		refused++
	}

	assert.Equal(t, 1, admitted)
	assert.Equal(t, guests-1, refused)
	assert.Len(t, ledger.bookings, 1)
}

func TestBookingService_CreateRefusalCarriesConflicts(t *testing.T) {
	svc, mockRepo, _ := newService(t)

	today := calendar.DateOf(timezone.Now())

	conflict := model.Booking{
		ID:         7,
		GuestName:  "Bob",
		RoomNumber: "101",
		CheckIn:    today,
		CheckOut:   today.AddDays(2),
		Status:     model.StatusActive,
	}

	mockRepo.EXPECT().
		Admit(gomock.Any(), gomock.Any()).
		Return(model.Booking{}, []model.Booking{conflict}, nil)

	_, err := svc.Create(context.Background(), dto.CreateBookingRequest{
		GuestName:  "Alice",
		RoomNumber: "101",
		CheckIn:    today.AddDays(1).String(),
		CheckOut:   today.AddDays(3).String(),
	})

	assert.Error(t, err)

	details, ok := failure.GetDetails(err).([]dto.BookingResponse)
	assert.True(t, ok)
	assert.Len(t, details, 1)
	assert.Equal(t, int64(7), details[0].ID)
}

func TestBookingService_Transitions(t *testing.T) {
	today := calendar.DateOf(timezone.Now())

	closed := model.Booking{
		ID:           42,
		GuestName:    "Alice",
		RoomNumber:   "101",
		CheckIn:      today.AddDays(-2),
		CheckOut:     today.AddDays(2),
		CheckoutDate: &today,
		Status:       model.StatusCheckedOut,
		CreatedAt:    timezone.Now(),
	}

	t.Run("checkout succeeds", func(t *testing.T) {
		svc, mockRepo, _ := newService(t)

		mockRepo.EXPECT().
			TransitionStatus(gomock.Any(), int64(42), model.StatusCheckedOut, gomock.Any()).
			Return(closed, int64(1), nil)

		res, err := svc.Checkout(context.Background(), 42)

		assert.NoError(t, err)
		assert.Equal(t, model.StatusCheckedOut, res.Status)
		assert.Equal(t, today.String(), res.CheckoutDate)
	})

	t.Run("vacate succeeds", func(t *testing.T) {
		svc, mockRepo, _ := newService(t)

		vacated := closed
		vacated.Status = model.StatusManuallyVacated

		mockRepo.EXPECT().
			TransitionStatus(gomock.Any(), int64(42), model.StatusManuallyVacated, gomock.Any()).
			Return(vacated, int64(1), nil)

		res, err := svc.Vacate(context.Background(), 42)

		assert.NoError(t, err)
		assert.Equal(t, model.StatusManuallyVacated, res.Status)
	})

	t.Run("checkout of missing or closed booking", func(t *testing.T) {
		svc, mockRepo, _ := newService(t)

		mockRepo.EXPECT().
			TransitionStatus(gomock.Any(), int64(99), model.StatusCheckedOut, gomock.Any()).
			Return(model.Booking{}, int64(0), nil)

		_, err := svc.Checkout(context.Background(), 99)

		assert.Error(t, err)
		assert.Equal(t, failure.KindNotFound, failure.GetKind(err))
	})

	t.Run("vacate of already vacated booking", func(t *testing.T) {
		svc, mockRepo, _ := newService(t)

		mockRepo.EXPECT().
			TransitionStatus(gomock.Any(), int64(42), model.StatusManuallyVacated, gomock.Any()).
			Return(model.Booking{}, int64(0), nil)

		_, err := svc.Vacate(context.Background(), 42)

		assert.Error(t, err)
		assert.Equal(t, failure.KindNotFound, failure.GetKind(err))
	})
}

func TestBookingService_Cancel(t *testing.T) {
	t.Run("cancel succeeds", func(t *testing.T) {
		svc, mockRepo, _ := newService(t)

		mockRepo.EXPECT().
			DeleteByID(gomock.Any(), int64(42)).
			Return(model.Booking{ID: 42, Status: model.StatusActive}, int64(1), nil)

		err := svc.Cancel(context.Background(), 42)

		assert.NoError(t, err)
	})

	t.Run("cancel of missing booking", func(t *testing.T) {
		svc, mockRepo, _ := newService(t)

		mockRepo.EXPECT().
			DeleteByID(gomock.Any(), int64(99)).
			Return(model.Booking{}, int64(0), nil)

		err := svc.Cancel(context.Background(), 99)

		assert.Error(t, err)
		assert.Equal(t, failure.KindNotFound, failure.GetKind(err))
	})
}

func TestBookingService_CheckAvailability(t *testing.T) {
	today := calendar.DateOf(timezone.Now())

	t.Run("current mode defaults to tonight", func(t *testing.T) {
		svc, mockRepo, mockRoomRepo := newService(t)

		mockRoomRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		mockRepo.EXPECT().
			FindOverlapping(gomock.Any(), "101", today, today.AddDays(1)).
			Return(nil, nil)

		res, err := svc.CheckAvailability(context.Background(), dto.CheckAvailabilityRequest{RoomNumber: "101"})

		assert.NoError(t, err)
		assert.True(t, res.Available)
		assert.Empty(t, res.Conflicts)
	})

	t.Run("range mode returns conflicts", func(t *testing.T) {
		svc, mockRepo, mockRoomRepo := newService(t)

		checkIn := today.AddDays(5)
		checkOut := today.AddDays(8)

		conflict := model.Booking{
			ID:         7,
			RoomNumber: "101",
			CheckIn:    today.AddDays(6),
			CheckOut:   today.AddDays(9),
			Status:     model.StatusActive,
		}

		mockRoomRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		mockRepo.EXPECT().
			FindOverlapping(gomock.Any(), "101", checkIn, checkOut).
			Return([]model.Booking{conflict}, nil)

		res, err := svc.CheckAvailability(context.Background(), dto.CheckAvailabilityRequest{
			RoomNumber: "101",
			CheckIn:    checkIn.String(),
			CheckOut:   checkOut.String(),
		})

		assert.NoError(t, err)
		assert.False(t, res.Available)
		assert.Len(t, res.Conflicts, 1)
		assert.Equal(t, int64(7), res.Conflicts[0].ID)
	})

	t.Run("range mode ignores today", func(t *testing.T) {
		svc, mockRepo, mockRoomRepo := newService(t)

		// A fully past range is still a valid question to ask.
		checkIn := today.AddDays(-10)
		checkOut := today.AddDays(-8)

		mockRoomRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		mockRepo.EXPECT().
			FindOverlapping(gomock.Any(), "101", checkIn, checkOut).
			Return(nil, nil)

		res, err := svc.CheckAvailability(context.Background(), dto.CheckAvailabilityRequest{
			RoomNumber: "101",
			CheckIn:    checkIn.String(),
			CheckOut:   checkOut.String(),
		})

		assert.NoError(t, err)
		assert.True(t, res.Available)
	})

	t.Run("one date without the other", func(t *testing.T) {
		svc, _, _ := newService(t)

		_, err := svc.CheckAvailability(context.Background(), dto.CheckAvailabilityRequest{
			RoomNumber: "101",
			CheckIn:    today.String(),
		})

		assert.Error(t, err)
		assert.Equal(t, failure.KindValidation, failure.GetKind(err))
	})

	t.Run("inverted range", func(t *testing.T) {
		svc, _, _ := newService(t)

		_, err := svc.CheckAvailability(context.Background(), dto.CheckAvailabilityRequest{
			RoomNumber: "101",
			CheckIn:    today.AddDays(3).String(),
			CheckOut:   today.AddDays(1).String(),
		})

		assert.Error(t, err)
		assert.Equal(t, failure.KindDateRange, failure.GetKind(err))
	})

	t.Run("unknown room", func(t *testing.T) {
		svc, _, mockRoomRepo := newService(t)

		mockRoomRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)

		_, err := svc.CheckAvailability(context.Background(), dto.CheckAvailabilityRequest{RoomNumber: "999"})

		assert.Error(t, err)
		assert.Equal(t, failure.KindUnknownRoom, failure.GetKind(err))
	})
}

func TestBookingService_RoomStatus(t *testing.T) {
	today := calendar.DateOf(timezone.Now())

	t.Run("board pairs rooms with covering bookings", func(t *testing.T) {
		svc, mockRepo, _ := newService(t)

		bookingID := int64(42)
		guest := "Alice"
		checkIn := today.AddDays(-1)
		checkOut := today.AddDays(2)

		occupancies := []model.RoomOccupancy{
			{RoomNumber: "101", Category: "AC", BookingID: &bookingID, GuestName: &guest, CheckIn: &checkIn, CheckOut: &checkOut},
			{RoomNumber: "102", Category: "Non-AC"},
		}

		mockRepo.EXPECT().
			OccupancyAsOf(gomock.Any(), today).
			Return(occupancies, nil)

		res, err := svc.RoomStatus(context.Background(), "")

		assert.NoError(t, err)
		assert.Equal(t, today.String(), res.Date)
		assert.Len(t, res.Rooms, 2)
		assert.Equal(t, dto.OccupancyStatusOccupied, res.Rooms[0].Status)
		assert.Equal(t, "Alice", res.Rooms[0].Booking.GuestName)
		assert.Equal(t, dto.OccupancyStatusAvailable, res.Rooms[1].Status)
		assert.Nil(t, res.Rooms[1].Booking)
	})

	t.Run("explicit projection date", func(t *testing.T) {
		svc, mockRepo, _ := newService(t)

		asOf := calendar.MustParse("2030-06-15")

		mockRepo.EXPECT().
			OccupancyAsOf(gomock.Any(), asOf).
			Return(nil, nil)

		res, err := svc.RoomStatus(context.Background(), "2030-06-15")

		assert.NoError(t, err)
		assert.Equal(t, "2030-06-15", res.Date)
	})

	t.Run("malformed date", func(t *testing.T) {
		svc, _, _ := newService(t)

		_, err := svc.RoomStatus(context.Background(), "June 15th")

		assert.Error(t, err)
		assert.Equal(t, failure.KindValidation, failure.GetKind(err))
	})
}
