package dto

import (
	"github.com/google/uuid"
	"github.com/rescueplate/backend/internal/entity"
)

type CreateDonationRequest struct {
	FoodType string  `json:"food_type" binding:"required,oneof=fruits vegetables proteins dairy grains"`
	Quantity int     `json:"quantity" binding:"gte=0,lte=200"`
	Location string  `json:"location" binding:"required,max=100"`
	Expiry   string  `json:"expiry" binding:"required,max=20"`
	Notes    *string `json:"notes" binding:"omitempty,max=300"`
	PhotoURL *string `json:"photo_url" binding:"omitempty,url"`
}

// DonationFilter narrows browse results. Both filters are optional and
// combine with logical AND.
type DonationFilter struct {
	Search string `form:"q"`
	Status string `form:"status" binding:"omitempty,oneof=available requested fulfilled"`
}

type DonationResponse struct {
	ID        uuid.UUID             `json:"id"`
	DonorName string                `json:"donor_name"`
	FoodType  string                `json:"food_type"`
	Quantity  int                   `json:"quantity"`
	Location  string                `json:"location"`
	Expiry    string                `json:"expiry"`
	Notes     *string               `json:"notes,omitempty"`
	PhotoURL  *string               `json:"photo_url,omitempty"`
	Status    entity.DonationStatus `json:"status"`
	CreatedAt string                `json:"created_at"`
	UpdatedAt string                `json:"updated_at"`
}

type DonationListResponse struct {
	Data []DonationResponse `json:"data"`
}
