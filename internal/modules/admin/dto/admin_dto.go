package dto

import (
	"github.com/google/uuid"
	"github.com/rescueplate/backend/internal/entity"
)

type UpdateStatusInput struct {
	Status string `json:"status" binding:"required,oneof=available requested fulfilled"`
}

type UserSummary struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt string    `json:"created_at"`
}

type UserListResponse struct {
	Data  []UserSummary `json:"data"`
	Total int64         `json:"total"`
}

type DonationSummary struct {
	ID        uuid.UUID             `json:"id"`
	DonorName string                `json:"donor_name"`
	FoodType  string                `json:"food_type"`
	Quantity  int                   `json:"quantity"`
	Location  string                `json:"location"`
	Expiry    string                `json:"expiry"`
	Status    entity.DonationStatus `json:"status"`
	CreatedAt string                `json:"created_at"`
}

type DonationListResponse struct {
	Data []DonationSummary `json:"data"`
}
