package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/rescueplate/backend/internal/entity"
	"github.com/rescueplate/backend/internal/metrics"
	"github.com/rescueplate/backend/internal/modules/admin/dto"
	donationRepo "github.com/rescueplate/backend/internal/modules/donation/repository"
	search "github.com/rescueplate/backend/internal/modules/search/service"
	userRepo "github.com/rescueplate/backend/internal/modules/user/repository"
	"github.com/rescueplate/backend/pkg/apperror"
	"github.com/rescueplate/backend/pkg/storage"
	"gorm.io/gorm"
)

// AdminService is the moderation surface: every operation here is gated on
// the admin role by middleware and runs without ownership checks.
type AdminService interface {
	GetAllUsers(ctx context.Context) (*dto.UserListResponse, error)
	GetAllDonations(ctx context.Context) (*dto.DonationListResponse, error)
	UpdateDonationStatus(ctx context.Context, donationID uuid.UUID, input dto.UpdateStatusInput) (*dto.DonationSummary, error)
	DeleteDonation(ctx context.Context, donationID uuid.UUID) error
}

type adminService struct {
	userRepo      userRepo.UserRepository
	donationRepo  donationRepo.DonationRepository
	searchService search.DonationSearchService
	fileStorage   storage.ImageStorage
}

func NewAdminService(userRepo userRepo.UserRepository, donationRepo donationRepo.DonationRepository, searchService search.DonationSearchService, fileStorage storage.ImageStorage) AdminService {
	return &adminService{
		userRepo:      userRepo,
		donationRepo:  donationRepo,
		searchService: searchService,
		fileStorage:   fileStorage,
	}
}

func (s *adminService) GetAllUsers(ctx context.Context) (*dto.UserListResponse, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	total, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]dto.UserSummary, 0, len(users))
	for _, u := range users {
		summaries = append(summaries, dto.UserSummary{
			ID:        u.ID,
			Username:  u.Username,
			Role:      u.Role.Name,
			CreatedAt: u.CreatedAt.Format(time.RFC3339),
		})
	}

	return &dto.UserListResponse{Data: summaries, Total: total}, nil
}

func (s *adminService) GetAllDonations(ctx context.Context) (*dto.DonationListResponse, error) {
	donations, err := s.donationRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]dto.DonationSummary, 0, len(donations))
	for _, d := range donations {
		summaries = append(summaries, toDonationSummary(d))
	}

	return &dto.DonationListResponse{Data: summaries}, nil
}

// UpdateDonationStatus sets any valid status unconditionally. The admin
// override is not held to the donor-side transition rules.
func (s *adminService) UpdateDonationStatus(ctx context.Context, donationID uuid.UUID, input dto.UpdateStatusInput) (*dto.DonationSummary, error) {
	status := entity.DonationStatus(input.Status)
	if !status.Valid() {
		return nil, fmt.Errorf("unknown status %q: %w", input.Status, apperror.ErrInvalidInput)
	}

	donation, err := s.donationRepo.FindByID(ctx, donationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("donation not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}

	if err := s.donationRepo.UpdateStatus(ctx, donation.ID, status); err != nil {
		return nil, err
	}
	donation.Status = status

	metrics.AdminOverrides.Inc()

	if s.searchService != nil {
		if err := s.searchService.IndexDonation(donation); err != nil {
			log.Printf("Failed to reindex donation %s: %v", donation.ID, err)
		}
	}

	summary := toDonationSummary(donation)
	return &summary, nil
}

// DeleteDonation removes a donation and every request against it.
func (s *adminService) DeleteDonation(ctx context.Context, donationID uuid.UUID) error {
	donation, err := s.donationRepo.FindByID(ctx, donationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("donation not found: %w", apperror.ErrNotFound)
		}
		return err
	}

	if err := s.donationRepo.Delete(ctx, donation.ID); err != nil {
		return err
	}

	metrics.DonationsDeleted.Inc()

	if s.searchService != nil {
		if err := s.searchService.DeleteDonation(donation.ID.String()); err != nil {
			log.Printf("Failed to remove donation %s from index: %v", donation.ID, err)
		}
	}

	if s.fileStorage != nil && donation.PhotoURL != nil {
		if err := s.fileStorage.DeleteImage(ctx, *donation.PhotoURL); err != nil {
			log.Printf("Failed to delete photo for donation %s: %v", donation.ID, err)
		}
	}

	return nil
}

func toDonationSummary(d *entity.Donation) dto.DonationSummary {
	return dto.DonationSummary{
		ID:        d.ID,
		DonorName: d.Donor.Username,
		FoodType:  d.FoodType,
		Quantity:  d.Quantity,
		Location:  d.Location,
		Expiry:    d.Expiry,
		Status:    d.Status,
		CreatedAt: d.CreatedAt.Format(time.RFC3339),
	}
}
