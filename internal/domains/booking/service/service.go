package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"inn/config"
	"inn/infras/kafka"
	"inn/infras/otel"
	"inn/internal/domains/booking/model"
	"inn/internal/domains/booking/model/dto"
	"inn/internal/domains/booking/repository"
	roomModel "inn/internal/domains/room/model"
	roomRepo "inn/internal/domains/room/repository"
	"inn/shared"
	"inn/shared/calendar"
	"inn/shared/constant"
	gDto "inn/shared/dto"
	"inn/shared/failure"
	"inn/shared/timezone"
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Checkout(ctx context.Context, id int64) (dto.BookingResponse, error)
	Vacate(ctx context.Context, id int64) (dto.BookingResponse, error)
	Cancel(ctx context.Context, id int64) error
	CheckAvailability(ctx context.Context, req dto.CheckAvailabilityRequest) (dto.AvailabilityResponse, error)
	RoomStatus(ctx context.Context, date string) (dto.GetRoomStatusResponse, error)
}

type serviceImpl struct {
	repo     repository.Booking
	roomRepo roomRepo.Room
	cfg      *config.Config
	events   kafka.Client
	otel     otel.Otel
}

func New(repo repository.Booking, roomRepo roomRepo.Room, cfg *config.Config, events kafka.Client, otel otel.Otel) Booking {
	return &serviceImpl{
		repo:     repo,
		roomRepo: roomRepo,
		cfg:      cfg,
		events:   events,
		otel:     otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := req.ToModel()
	if err != nil {
		log.Warn().Err(err).Msg("invalid booking dates")

		return res, failure.Validation("invalid date format, expected YYYY-MM-DD")
	}

	if !booking.CheckIn.Before(booking.CheckOut) {
		return res, failure.DateRange("check-out date must be after check-in date")
	}

	today := calendar.DateOf(timezone.Now())
	if booking.CheckIn.Before(today) {
		return res, failure.DateRange("check-in date cannot be in the past")
	}

	admitted, conflicts, err := s.repo.Admit(ctx, booking)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			log.Warn().Str("room_number", req.RoomNumber).Msg("booking requested for unknown room")

			return res, failure.UnknownRoom("room does not exist")
		}

		log.Error().Err(err).Msg("failed to admit booking")

		return res, fmt.Errorf("failed to admit booking: %w", err)
	}

	if len(conflicts) > 0 {
		conflictResponses := make([]dto.BookingResponse, len(conflicts))
		for i, conflict := range conflicts {
			conflictResponses[i].FromModel(conflict)
		}

		log.Info().
			Str("room_number", req.RoomNumber).
			Int("conflicts", len(conflicts)).
			Msg("booking refused due to overlapping bookings")

		return res, failure.Availability("room is not available for the requested dates", conflictResponses)
	}

	res.FromModel(admitted)

	s.publishEvent(ctx, dto.EventBookingCreated, res)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	return res, nil
}

func (s *serviceImpl) Checkout(ctx context.Context, id int64) (dto.BookingResponse, error) {
	return s.transition(ctx, id, model.StatusCheckedOut, dto.EventBookingCheckedOut)
}

func (s *serviceImpl) Vacate(ctx context.Context, id int64) (dto.BookingResponse, error) {
	return s.transition(ctx, id, model.StatusManuallyVacated, dto.EventBookingVacated)
}

// transition closes an active booking. The conditional update makes the
// operation idempotent to race: whichever caller lands first wins and the
// loser sees not found.
func (s *serviceImpl) transition(ctx context.Context, id int64, status, event string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.transition")
	defer scope.End()
	defer scope.TraceIfError(err)

	today := calendar.DateOf(timezone.Now())

	booking, affected, err := s.repo.TransitionStatus(ctx, id, status, today)
	if err != nil {
		log.Error().Err(err).Int64("id", id).Msg("failed to transition booking")

		return res, fmt.Errorf("failed to transition booking: %w", err)
	}

	if affected == 0 {
		log.Warn().Int64("id", id).Str("status", status).Msg("no active booking to transition")

		return res, failure.NotFound("active booking not found")
	}

	res.FromModel(booking)

	s.publishEvent(ctx, event, res)

	return res, nil
}

func (s *serviceImpl) Cancel(ctx context.Context, id int64) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, affected, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		log.Error().Err(err).Int64("id", id).Msg("failed to cancel booking")

		return fmt.Errorf("failed to cancel booking: %w", err)
	}

	if affected == 0 {
		log.Warn().Int64("id", id).Msg("no booking to cancel")

		return failure.NotFound("booking not found")
	}

	var res dto.BookingResponse
	res.FromModel(booking)

	s.publishEvent(ctx, dto.EventBookingCancelled, res)

	return nil
}

func (s *serviceImpl) CheckAvailability(ctx context.Context, req dto.CheckAvailabilityRequest) (res dto.AvailabilityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.CheckAvailability")
	defer scope.End()
	defer scope.TraceIfError(err)

	if (req.CheckIn == "") != (req.CheckOut == "") {
		return res, failure.Validation("check_in and check_out must be provided together")
	}

	var checkIn, checkOut calendar.Date

	rangeMode := req.CheckIn != ""
	if rangeMode {
		if checkIn, err = calendar.Parse(req.CheckIn); err != nil {
			return res, failure.Validation("invalid date format, expected YYYY-MM-DD")
		}

		if checkOut, err = calendar.Parse(req.CheckOut); err != nil {
			return res, failure.Validation("invalid date format, expected YYYY-MM-DD")
		}

		if !checkIn.Before(checkOut) {
			return res, failure.DateRange("check-out date must be after check-in date")
		}
	} else {
		// Availability "right now" is the one-night range starting today.
		checkIn = calendar.DateOf(timezone.Now())
		checkOut = checkIn.AddDays(1)
	}

	exists, err := s.roomRepo.Exist(ctx, shared.FilterByID(req.RoomNumber, roomModel.FieldRoomNumber, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if room exists")

		return res, fmt.Errorf("failed to check if room exists: %w", err)
	}

	if !exists {
		return res, failure.UnknownRoom("room does not exist")
	}

	conflicts, err := s.repo.FindOverlapping(ctx, req.RoomNumber, checkIn, checkOut)
	if err != nil {
		log.Error().Err(err).Msg("failed to find overlapping bookings")

		return res, fmt.Errorf("failed to find overlapping bookings: %w", err)
	}

	res.RoomNumber = req.RoomNumber
	res.Available = len(conflicts) == 0

	if rangeMode {
		res.CheckIn = checkIn.String()
		res.CheckOut = checkOut.String()
	}

	if len(conflicts) > 0 {
		res.Conflicts = make([]dto.BookingResponse, len(conflicts))
		for i, conflict := range conflicts {
			res.Conflicts[i].FromModel(conflict)
		}
	}

	return res, nil
}

func (s *serviceImpl) RoomStatus(ctx context.Context, date string) (res dto.GetRoomStatusResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.RoomStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	asOf := calendar.DateOf(timezone.Now())
	if date != "" {
		if asOf, err = calendar.Parse(date); err != nil {
			return res, failure.Validation("invalid date format, expected YYYY-MM-DD")
		}
	}

	occupancies, err := s.repo.OccupancyAsOf(ctx, asOf)
	if err != nil {
		log.Error().Err(err).Msg("failed to project room occupancy")

		return res, fmt.Errorf("failed to project room occupancy: %w", err)
	}

	res.FromModels(asOf, occupancies)

	return res, nil
}

func (s *serviceImpl) publishEvent(ctx context.Context, event string, booking dto.BookingResponse) {
	if !s.cfg.Events.Kafka.Enable {
		return
	}

	payload := dto.BookingEvent{
		Event:     event,
		Booking:   booking,
		Timestamp: timezone.Format(timezone.Now(), time.RFC3339),
	}

	go func() {
		c := context.WithoutCancel(ctx)

		message := kafka.Message{
			Key:   strconv.FormatInt(booking.ID, 10),
			Value: payload,
		}

		if err := s.events.SendMessages(c, s.cfg.Events.Kafka.BookingsTopic, message); err != nil {
			log.Error().Err(err).Str("event", event).Msg("failed to publish booking event")
		}
	}()
}
