package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RequestStatus is the closed set of request lifecycle states.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

func (s RequestStatus) Valid() bool {
	switch s {
	case RequestPending, RequestApproved, RequestRejected:
		return true
	}
	return false
}

// Terminal reports whether the request can no longer change state.
// The lifecycle is strictly pending -> approved | rejected.
func (s RequestStatus) Terminal() bool {
	return s == RequestApproved || s == RequestRejected
}

func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	return s == RequestPending && next.Terminal()
}

type Request struct {
	ID          uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	RecipientID uuid.UUID     `gorm:"type:uuid;not null;index" json:"recipient_id"`
	Recipient   User          `gorm:"constraint:OnDelete:CASCADE" json:"recipient,omitempty"`
	DonationID  uuid.UUID     `gorm:"type:uuid;not null;index" json:"donation_id"`
	Donation    Donation      `gorm:"constraint:OnDelete:CASCADE" json:"donation,omitempty"`
	Status      RequestStatus `gorm:"size:20;not null;default:pending;index" json:"status"`
	CreatedAt   time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

func (r *Request) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID, err = uuid.NewV7()
	}
	return
}
