package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DonationStatus is the closed set of donation lifecycle states.
type DonationStatus string

const (
	DonationAvailable DonationStatus = "available"
	DonationRequested DonationStatus = "requested"
	DonationFulfilled DonationStatus = "fulfilled"
)

func (s DonationStatus) Valid() bool {
	switch s {
	case DonationAvailable, DonationRequested, DonationFulfilled:
		return true
	}
	return false
}

// CanTransitionTo enforces available -> requested -> fulfilled, allowing the
// donor to hand off an available donation directly. Admin overrides bypass
// this check entirely.
func (s DonationStatus) CanTransitionTo(next DonationStatus) bool {
	if !next.Valid() || s == next {
		return false
	}
	switch s {
	case DonationAvailable:
		return next == DonationRequested || next == DonationFulfilled
	case DonationRequested:
		return next == DonationFulfilled
	}
	return false
}

type Donation struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	DonorID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"donor_id"`
	Donor     User           `gorm:"constraint:OnDelete:CASCADE" json:"donor,omitempty"`
	FoodType  string         `gorm:"size:50;not null" json:"food_type"`
	Quantity  int            `gorm:"not null" json:"quantity"`
	Location  string         `gorm:"size:100;not null" json:"location"`
	Expiry    string         `gorm:"size:20;not null" json:"expiry"`
	Notes     *string        `gorm:"size:300" json:"notes,omitempty"`
	PhotoURL  *string        `gorm:"type:text" json:"photo_url,omitempty"`
	Status    DonationStatus `gorm:"size:20;not null;default:available;index" json:"status"`
	Requests  []Request      `gorm:"foreignKey:DonationID" json:"requests,omitempty"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (d *Donation) BeforeCreate(tx *gorm.DB) (err error) {
	if d.ID == uuid.Nil {
		d.ID, err = uuid.NewV7()
	}
	return
}
