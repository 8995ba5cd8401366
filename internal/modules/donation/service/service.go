package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"github.com/rescueplate/backend/internal/entity"
	"github.com/rescueplate/backend/internal/metrics"
	"github.com/rescueplate/backend/internal/modules/donation/dto"
	"github.com/rescueplate/backend/internal/modules/donation/repository"
	search "github.com/rescueplate/backend/internal/modules/search/service"
	userRepo "github.com/rescueplate/backend/internal/modules/user/repository"
	"github.com/rescueplate/backend/pkg/apperror"
	"github.com/rescueplate/backend/pkg/ratelimiter"
	"gorm.io/gorm"
)

const createDonationAction = "create_donation"

type Service interface {
	CreateDonation(ctx context.Context, donorID uuid.UUID, req dto.CreateDonationRequest) (*dto.DonationResponse, error)
	GetMyDonations(ctx context.Context, donorID uuid.UUID) (*dto.DonationListResponse, error)
	BrowseDonations(ctx context.Context, filter dto.DonationFilter) (*dto.DonationListResponse, error)
	FulfillDonation(ctx context.Context, actorID uuid.UUID, donationID uuid.UUID) (*dto.DonationResponse, error)
}

type service struct {
	donationRepo  repository.DonationRepository
	userRepo      userRepo.UserRepository
	searchService search.DonationSearchService
	redisClient   *redis.Client
	rateLimit     time.Duration
	sanitizer     *bluemonday.Policy
}

func NewService(donationRepo repository.DonationRepository, userRepo userRepo.UserRepository, searchService search.DonationSearchService, redisClient *redis.Client, rateLimit time.Duration) Service {
	return &service{
		donationRepo:  donationRepo,
		userRepo:      userRepo,
		searchService: searchService,
		redisClient:   redisClient,
		rateLimit:     rateLimit,
		sanitizer:     bluemonday.StrictPolicy(),
	}
}

func (s *service) CreateDonation(ctx context.Context, donorID uuid.UUID, req dto.CreateDonationRequest) (*dto.DonationResponse, error) {
	allowed, err := ratelimiter.CheckAndSet(ctx, s.redisClient, donorID, createDonationAction, s.rateLimit)
	if err != nil {
		return nil, err
	}
	if !allowed {
		ttl, _ := ratelimiter.GetTTL(ctx, s.redisClient, donorID, createDonationAction)
		return nil, &ratelimiter.RateLimitError{
			Message:    "you are posting donations too quickly",
			RetryAfter: ttl,
		}
	}

	donor, err := s.userRepo.FindByID(ctx, donorID.String())
	if err != nil {
		ratelimiter.Clear(ctx, s.redisClient, donorID, createDonationAction)
		return nil, fmt.Errorf("donor not found: %w", apperror.ErrNotFound)
	}

	var notes *string
	if req.Notes != nil {
		clean := s.sanitizer.Sanitize(*req.Notes)
		notes = &clean
	}

	donation := &entity.Donation{
		DonorID:  donor.ID,
		FoodType: req.FoodType,
		Quantity: req.Quantity,
		Location: req.Location,
		Expiry:   ResolveExpiry(req.Expiry, time.Now()),
		Notes:    notes,
		PhotoURL: req.PhotoURL,
		Status:   entity.DonationAvailable,
	}

	if err := s.donationRepo.Create(ctx, donation); err != nil {
		ratelimiter.Clear(ctx, s.redisClient, donorID, createDonationAction)
		return nil, err
	}

	metrics.DonationsCreated.Inc()

	donation.Donor = *donor
	if s.searchService != nil {
		if err := s.searchService.IndexDonation(donation); err != nil {
			log.Printf("Failed to index donation %s: %v", donation.ID, err)
		}
	}

	resp := toDonationResponse(donation)
	return &resp, nil
}

func (s *service) GetMyDonations(ctx context.Context, donorID uuid.UUID) (*dto.DonationListResponse, error) {
	donations, err := s.donationRepo.FindByDonorID(ctx, donorID)
	if err != nil {
		return nil, err
	}
	return toDonationListResponse(donations), nil
}

func (s *service) BrowseDonations(ctx context.Context, filter dto.DonationFilter) (*dto.DonationListResponse, error) {
	donations, err := s.donationRepo.Search(ctx, filter.Search, entity.DonationStatus(filter.Status))
	if err != nil {
		return nil, err
	}
	return toDonationListResponse(donations), nil
}

// FulfillDonation marks a donation as handed off. Only the owning donor or
// an admin may do this; donors are further held to the legal transitions.
func (s *service) FulfillDonation(ctx context.Context, actorID uuid.UUID, donationID uuid.UUID) (*dto.DonationResponse, error) {
	donation, err := s.donationRepo.FindByID(ctx, donationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("donation not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}

	actor, err := s.userRepo.FindByID(ctx, actorID.String())
	if err != nil {
		return nil, fmt.Errorf("actor not found: %w", apperror.ErrUnauthorized)
	}

	if donation.DonorID != actor.ID && !actor.IsAdmin() {
		return nil, fmt.Errorf("only the owning donor may fulfill this donation: %w", apperror.ErrForbidden)
	}

	if !actor.IsAdmin() && !donation.Status.CanTransitionTo(entity.DonationFulfilled) {
		return nil, fmt.Errorf("donation is already %s: %w", donation.Status, apperror.ErrBadRequest)
	}

	if err := s.donationRepo.UpdateStatus(ctx, donation.ID, entity.DonationFulfilled); err != nil {
		return nil, err
	}
	donation.Status = entity.DonationFulfilled

	if s.searchService != nil {
		if err := s.searchService.IndexDonation(donation); err != nil {
			log.Printf("Failed to reindex donation %s: %v", donation.ID, err)
		}
	}

	resp := toDonationResponse(donation)
	return &resp, nil
}

func toDonationResponse(d *entity.Donation) dto.DonationResponse {
	return dto.DonationResponse{
		ID:        d.ID,
		DonorName: d.Donor.Username,
		FoodType:  d.FoodType,
		Quantity:  d.Quantity,
		Location:  d.Location,
		Expiry:    d.Expiry,
		Notes:     d.Notes,
		PhotoURL:  d.PhotoURL,
		Status:    d.Status,
		CreatedAt: d.CreatedAt.Format(time.RFC3339),
		UpdatedAt: d.UpdatedAt.Format(time.RFC3339),
	}
}

func toDonationListResponse(donations []*entity.Donation) *dto.DonationListResponse {
	responses := make([]dto.DonationResponse, 0, len(donations))
	for _, d := range donations {
		responses = append(responses, toDonationResponse(d))
	}
	return &dto.DonationListResponse{Data: responses}
}
