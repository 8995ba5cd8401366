package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/rescueplate/backend/internal/entity"
	"gorm.io/gorm"
)

type DonationRepository interface {
	Create(ctx context.Context, donation *entity.Donation) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Donation, error)
	FindByDonorID(ctx context.Context, donorID uuid.UUID) ([]*entity.Donation, error)
	FindAll(ctx context.Context) ([]*entity.Donation, error)
	Search(ctx context.Context, query string, status entity.DonationStatus) ([]*entity.Donation, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.DonationStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type donationRepository struct {
	db *gorm.DB
}

func NewDonationRepository(db *gorm.DB) DonationRepository {
	return &donationRepository{db: db}
}

func (r *donationRepository) Create(ctx context.Context, donation *entity.Donation) error {
	return r.db.WithContext(ctx).Create(donation).Error
}

func (r *donationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Donation, error) {
	var donation entity.Donation
	if err := r.db.WithContext(ctx).
		Preload("Donor").
		Preload("Donor.Role").
		Where("id = ?", id).
		First(&donation).Error; err != nil {
		return nil, err
	}
	return &donation, nil
}

func (r *donationRepository) FindByDonorID(ctx context.Context, donorID uuid.UUID) ([]*entity.Donation, error) {
	var donations []*entity.Donation
	if err := r.db.WithContext(ctx).
		Where("donor_id = ?", donorID).
		Order("created_at DESC").
		Find(&donations).Error; err != nil {
		return nil, err
	}
	return donations, nil
}

func (r *donationRepository) FindAll(ctx context.Context) ([]*entity.Donation, error) {
	var donations []*entity.Donation
	if err := r.db.WithContext(ctx).
		Preload("Donor").
		Order("created_at DESC").
		Find(&donations).Error; err != nil {
		return nil, err
	}
	return donations, nil
}

func (r *donationRepository) Search(ctx context.Context, query string, status entity.DonationStatus) ([]*entity.Donation, error) {
	var donations []*entity.Donation

	q := r.db.WithContext(ctx).Preload("Donor")

	if query != "" {
		q = q.Where("food_type ILIKE ? OR location ILIKE ?", "%"+query+"%", "%"+query+"%")
	}

	if status != "" {
		q = q.Where("status = ?", status)
	}

	if err := q.Order("created_at DESC").Find(&donations).Error; err != nil {
		return nil, err
	}

	return donations, nil
}

func (r *donationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.DonationStatus) error {
	return r.db.WithContext(ctx).
		Model(&entity.Donation{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// Delete removes the donation together with every request against it,
// in one transaction. A donation exclusively owns its request collection.
func (r *donationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("donation_id = ?", id).Delete(&entity.Request{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Donation{}, "id = ?", id).Error
	})
}
