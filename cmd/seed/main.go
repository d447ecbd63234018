package main

import (
	"context"

	"github.com/rs/zerolog/log"

	"inn/config"
	"inn/infras/otel/mocks"
	"inn/infras/postgres"
	"inn/internal/domains/room/model"
	"inn/internal/domains/room/repository"
	"inn/shared/logger"
	gModel "inn/shared/model"
	"inn/shared/timezone"
)

const seedUser = "seed"

// Initial room inventory: three floors, a mix of AC and Non-AC rooms.
var rooms = []struct {
	number   string
	category string
}{
	{"101", model.CategoryAC},
	{"102", model.CategoryNonAC},
	{"103", model.CategoryNonAC},
	{"104", model.CategoryAC},
	{"105", model.CategoryNonAC},
	{"201", model.CategoryAC},
	{"202", model.CategoryNonAC},
	{"203", model.CategoryNonAC},
	{"204", model.CategoryAC},
	{"205", model.CategoryNonAC},
	{"301", model.CategoryAC},
	{"302", model.CategoryNonAC},
	{"303", model.CategoryNonAC},
	{"304", model.CategoryAC},
	{"305", model.CategoryNonAC},
}

func main() {
	cfg := config.Get()

	logger.InitLogger()
	logger.SetLogLevel(cfg)

	db := postgres.New(cfg)
	repo := repository.New(db, mocks.NewOtel())

	models := make([]model.Room, len(rooms))
	for i, room := range rooms {
		models[i] = model.Room{
			RoomNumber: room.number,
			Category:   room.category,
			Metadata: gModel.Metadata{
				CreatedAt:  timezone.Now(),
				ModifiedAt: timezone.Now(),
				CreatedBy:  seedUser,
				ModifiedBy: seedUser,
			},
		}
	}

	if err := repo.InsertBulk(context.Background(), models); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed rooms")
	}

	log.Info().Int("rooms", len(models)).Msg("Seeded room inventory")
}
