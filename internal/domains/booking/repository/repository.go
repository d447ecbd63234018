package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"inn/infras/otel"
	"inn/infras/postgres"
	"inn/internal/domains/booking/model"
	"inn/shared/calendar"
	"inn/shared/constant"
	gDto "inn/shared/dto"
	"inn/shared/logger"
	gRepo "inn/shared/repository"
)

var (
	ErrRoomNotFound = errors.New("room not found")
)

const (
	queryOverlapping = `SELECT id, guest_name, room_number, check_in, check_out, checkout_date, status, created_at
		FROM bookings
		WHERE room_number = $1 AND status = 'active' AND check_in < $3 AND check_out > $2
		ORDER BY check_in`

	queryInsertBooking = `INSERT INTO bookings (guest_name, room_number, check_in, check_out, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	queryOccupancy = `SELECT r.room_number, r.category, b.id AS booking_id, b.guest_name, b.check_in, b.check_out
		FROM rooms r
		LEFT JOIN bookings b
			ON b.room_number = r.room_number
			AND b.status = 'active'
			AND b.check_in <= $1 AND b.check_out > $1
		ORDER BY r.room_number`
)

type Booking interface {
	Admit(ctx context.Context, booking model.Booking) (model.Booking, []model.Booking, error)
	FindOverlapping(ctx context.Context, roomNumber string, checkIn, checkOut calendar.Date) ([]model.Booking, error)
	Get(ctx context.Context, filter gDto.FilterGroup) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) ([]model.Booking, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	TransitionStatus(ctx context.Context, id int64, status string, checkoutDate calendar.Date) (model.Booking, int64, error)
	DeleteByID(ctx context.Context, id int64) (model.Booking, int64, error)
	OccupancyAsOf(ctx context.Context, date calendar.Date) ([]model.RoomOccupancy, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// Admit inserts a booking if and only if no active booking overlaps the
// requested range. The room row is locked FOR UPDATE first, so concurrent
// admissions against the same room run one at a time and cannot both pass
// the overlap check. A non-empty conflict slice with a nil error means the
// booking was refused.
func (repo *repositoryImpl) Admit(ctx context.Context, booking model.Booking) (model.Booking, []model.Booking, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.Admit")
	defer scope.End()

	var conflicts []model.Booking

	err := repo.db.Transact(ctx, func(tx *sqlx.Tx) error {
		var locked string

		err := tx.GetContext(ctx, &locked, "SELECT room_number FROM rooms WHERE room_number = $1 FOR UPDATE", booking.RoomNumber)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrRoomNotFound
			}

			logger.ErrorWithStack(err)

			return fmt.Errorf("failed to lock room row: %w", err)
		}

		err = tx.SelectContext(ctx, &conflicts, queryOverlapping, booking.RoomNumber, booking.CheckIn, booking.CheckOut)
		if err != nil {
			logger.ErrorWithStack(err)

			return fmt.Errorf("failed to query overlapping bookings: %w", err)
		}

		if len(conflicts) > 0 {
			return nil
		}

		err = tx.GetContext(ctx, &booking.ID, queryInsertBooking,
			booking.GuestName, booking.RoomNumber, booking.CheckIn, booking.CheckOut, booking.Status, booking.CreatedAt)
		if err != nil {
			logger.ErrorWithStack(err)

			return fmt.Errorf("failed to insert booking: %w", err)
		}

		return nil
	})
	if err != nil {
		scope.TraceIfError(err)

		return model.Booking{}, nil, err
	}

	return booking, conflicts, nil
}

func (repo *repositoryImpl) FindOverlapping(ctx context.Context, roomNumber string, checkIn, checkOut calendar.Date) ([]model.Booking, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.FindOverlapping")
	defer scope.End()
	scope.SetAttribute(constant.OtelQueryAttributeKey, queryOverlapping)

	var bookings []model.Booking

	err := repo.db.Read.SelectContext(ctx, &bookings, queryOverlapping, roomNumber, checkIn, checkOut)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to query overlapping bookings: %w", err)
	}

	return bookings, nil
}

// TransitionStatus moves an active booking to a terminal status, stamping
// the checkout date. The status predicate makes the update a compare and
// swap: zero affected rows means the booking is missing or already closed.
func (repo *repositoryImpl) TransitionStatus(ctx context.Context, id int64, status string, checkoutDate calendar.Date) (model.Booking, int64, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.TransitionStatus")
	defer scope.End()

	query := `UPDATE bookings SET status = $2, checkout_date = $3
		WHERE id = $1 AND status = 'active'
		RETURNING id, guest_name, room_number, check_in, check_out, checkout_date, status, created_at`
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var booking model.Booking

	err := repo.db.Write.GetContext(ctx, &booking, query, id, status, checkoutDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Booking{}, 0, nil
		}

		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return model.Booking{}, 0, fmt.Errorf("failed to transition booking status: %w", err)
	}

	return booking, 1, nil
}

// DeleteByID removes a booking outright, freeing its dates immediately.
func (repo *repositoryImpl) DeleteByID(ctx context.Context, id int64) (model.Booking, int64, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.DeleteByID")
	defer scope.End()

	query := `DELETE FROM bookings WHERE id = $1
		RETURNING id, guest_name, room_number, check_in, check_out, checkout_date, status, created_at`
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var booking model.Booking

	err := repo.db.Write.GetContext(ctx, &booking, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Booking{}, 0, nil
		}

		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return model.Booking{}, 0, fmt.Errorf("failed to delete booking: %w", err)
	}

	return booking, 1, nil
}

// OccupancyAsOf projects the whole room inventory onto a single date,
// pairing each room with the active booking covering that date, if any.
func (repo *repositoryImpl) OccupancyAsOf(ctx context.Context, date calendar.Date) ([]model.RoomOccupancy, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.OccupancyAsOf")
	defer scope.End()
	scope.SetAttribute(constant.OtelQueryAttributeKey, queryOccupancy)

	var occupancies []model.RoomOccupancy

	err := repo.db.Read.SelectContext(ctx, &occupancies, queryOccupancy, date)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to query room occupancy: %w", err)
	}

	return occupancies, nil
}
