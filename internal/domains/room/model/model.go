package model

import "inn/shared/model"

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldRoomNumber = "room_number"
	FieldCategory   = "category"

	CategoryNonAC = "Non-AC"
	CategoryAC    = "AC"
)

type Room struct {
	RoomNumber string `db:"room_number"`
	Category   string `db:"category"`
	model.Metadata
}
