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
	"inn/internal/domains/room/model"
	"inn/shared/constant"
	gDto "inn/shared/dto"
	"inn/shared/logger"
	gRepo "inn/shared/repository"
)

var (
	ErrRoomNotFound      = errors.New("room not found")
	ErrHasActiveBookings = errors.New("room has active bookings")
)

type Room interface {
	Insert(ctx context.Context, model model.Room) error
	InsertBulk(ctx context.Context, models []model.Room) error
	Get(ctx context.Context, filter gDto.FilterGroup) (model.Room, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) ([]model.Room, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Remove(ctx context.Context, roomNumber string) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Room]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Room {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Room](model.EntityName, model.TableName, model.FieldRoomNumber, db, otel),
		db:         db,
		otel:       otel,
	}
}

// Remove deletes a room inside a transaction. The room row is locked first
// so a concurrent booking admission against the same room cannot slip in
// between the active-booking check and the delete.
func (repo *repositoryImpl) Remove(ctx context.Context, roomNumber string) error {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room.Remove")
	defer scope.End()

	err := repo.db.Transact(ctx, func(tx *sqlx.Tx) error {
		var locked string

		err := tx.GetContext(ctx, &locked, "SELECT room_number FROM rooms WHERE room_number = $1 FOR UPDATE", roomNumber)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrRoomNotFound
			}

			logger.ErrorWithStack(err)

			return fmt.Errorf("failed to lock room row: %w", err)
		}

		var activeCount int

		err = tx.GetContext(ctx, &activeCount, "SELECT COUNT(*) FROM bookings WHERE room_number = $1 AND status = 'active'", roomNumber)
		if err != nil {
			logger.ErrorWithStack(err)

			return fmt.Errorf("failed to count active bookings: %w", err)
		}

		if activeCount > 0 {
			return ErrHasActiveBookings
		}

		_, err = tx.ExecContext(ctx, "DELETE FROM rooms WHERE room_number = $1", roomNumber)
		if err != nil {
			logger.ErrorWithStack(err)

			return fmt.Errorf("failed to delete room: %w", err)
		}

		return nil
	})
	if err != nil {
		scope.TraceIfError(err)

		return err
	}

	return nil
}
