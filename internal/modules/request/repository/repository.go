package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/rescueplate/backend/internal/entity"
	"gorm.io/gorm"
)

type RequestRepository interface {
	Create(ctx context.Context, request *entity.Request) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Request, error)
	FindByDonationID(ctx context.Context, donationID uuid.UUID) ([]*entity.Request, error)
	FindByRecipientID(ctx context.Context, recipientID uuid.UUID) ([]*entity.Request, error)
	Approve(ctx context.Context, request *entity.Request) error
	Reject(ctx context.Context, request *entity.Request) error
}

type requestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &requestRepository{db: db}
}

func (r *requestRepository) Create(ctx context.Context, request *entity.Request) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *requestRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Request, error) {
	var request entity.Request
	if err := r.db.WithContext(ctx).
		Preload("Recipient").
		Preload("Donation").
		Preload("Donation.Donor").
		Where("id = ?", id).
		First(&request).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *requestRepository) FindByDonationID(ctx context.Context, donationID uuid.UUID) ([]*entity.Request, error) {
	var requests []*entity.Request
	if err := r.db.WithContext(ctx).
		Preload("Recipient").
		Preload("Donation").
		Where("donation_id = ?", donationID).
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *requestRepository) FindByRecipientID(ctx context.Context, recipientID uuid.UUID) ([]*entity.Request, error) {
	var requests []*entity.Request
	if err := r.db.WithContext(ctx).
		Preload("Recipient").
		Preload("Donation").
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// Approve executes the whole approval transition in one transaction:
// the request becomes approved, its donation becomes requested, and every
// other pending request on the same donation is rejected. The guarded update
// keeps a concurrently resolved request from being approved twice.
func (r *requestRepository) Approve(ctx context.Context, request *entity.Request) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entity.Request{}).
			Where("id = ? AND status = ?", request.ID, entity.RequestPending).
			Update("status", entity.RequestApproved)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := tx.Model(&entity.Donation{}).
			Where("id = ?", request.DonationID).
			Update("status", entity.DonationRequested).Error; err != nil {
			return err
		}

		return tx.Model(&entity.Request{}).
			Where("donation_id = ? AND id <> ? AND status = ?", request.DonationID, request.ID, entity.RequestPending).
			Update("status", entity.RequestRejected).Error
	})
}

// Reject flips a pending request to rejected. The donation is left untouched
// and stays open to its other pending or future requests.
func (r *requestRepository) Reject(ctx context.Context, request *entity.Request) error {
	res := r.db.WithContext(ctx).Model(&entity.Request{}).
		Where("id = ? AND status = ?", request.ID, entity.RequestPending).
		Update("status", entity.RequestRejected)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
