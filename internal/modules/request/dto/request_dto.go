package dto

import (
	"github.com/google/uuid"
	"github.com/rescueplate/backend/internal/entity"
)

type RequestResponse struct {
	ID            uuid.UUID             `json:"id"`
	RecipientName string                `json:"recipient_name"`
	DonationID    uuid.UUID             `json:"donation_id"`
	FoodType      string                `json:"food_type"`
	Location      string                `json:"location"`
	DonationState entity.DonationStatus `json:"donation_status"`
	Status        entity.RequestStatus  `json:"status"`
	CreatedAt     string                `json:"created_at"`
	UpdatedAt     string                `json:"updated_at"`
}

type RequestListResponse struct {
	Data []RequestResponse `json:"data"`
}
