package dto

import (
	"inn/internal/domains/user/model"
	gDto "inn/shared/dto"
)

type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	gDto.Metadata
}

func (r *UserResponse) FromModel(model model.User) {
	r.ID = model.ID
	r.Username = model.Username
	r.Metadata.FromModel(model.Metadata)
}
