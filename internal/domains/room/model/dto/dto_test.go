package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"inn/internal/domains/room/model"
	"inn/internal/domains/room/model/dto"
	gModel "inn/shared/model"
	"inn/shared/timezone"
)

func TestCreateRoomRequest_ToModel(t *testing.T) {
	req := dto.CreateRoomRequest{
		RoomNumber: "101",
		Category:   "AC",
	}

	user := "frontdesk"
	room := req.ToModel(user)

	assert.Equal(t, req.RoomNumber, room.RoomNumber)
	assert.Equal(t, req.Category, room.Category)
	assert.Equal(t, user, room.CreatedBy)
	assert.Equal(t, user, room.ModifiedBy)
	assert.False(t, room.CreatedAt.IsZero(), "expected CreatedAt to be set")
}

func TestCreateRoomRequest_ToModel_DefaultCategory(t *testing.T) {
	req := dto.CreateRoomRequest{RoomNumber: "102"}

	room := req.ToModel("frontdesk")

	assert.Equal(t, model.CategoryNonAC, room.Category)
}

func TestRoomResponse_FromModel(t *testing.T) {
	now := timezone.Now()
	room := model.Room{
		RoomNumber: "101",
		Category:   "AC",
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  "frontdesk",
			ModifiedBy: "frontdesk",
		},
	}

	var response dto.RoomResponse
	response.FromModel(room)

	assert.Equal(t, room.RoomNumber, response.RoomNumber)
	assert.Equal(t, room.Category, response.Category)
	assert.Equal(t, room.CreatedBy, response.CreatedBy)
}

func TestGetRoomsResponse_FromModels(t *testing.T) {
	rooms := []model.Room{
		{RoomNumber: "101", Category: "AC"},
		{RoomNumber: "102", Category: "Non-AC"},
	}

	totalData := 15
	limit := 10

	var response dto.GetRoomsResponse
	response.FromModels(rooms, totalData, limit)

	assert.Equal(t, totalData, response.TotalData)
	assert.Equal(t, 2, response.TotalPage)
	assert.Len(t, response.Rooms, len(rooms))
}
