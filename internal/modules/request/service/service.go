package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rescueplate/backend/internal/entity"
	"github.com/rescueplate/backend/internal/metrics"
	donationRepo "github.com/rescueplate/backend/internal/modules/donation/repository"
	"github.com/rescueplate/backend/internal/modules/request/dto"
	"github.com/rescueplate/backend/internal/modules/request/repository"
	search "github.com/rescueplate/backend/internal/modules/search/service"
	userRepo "github.com/rescueplate/backend/internal/modules/user/repository"
	"github.com/rescueplate/backend/pkg/apperror"
	"github.com/rescueplate/backend/pkg/ratelimiter"
	"gorm.io/gorm"
)

const createRequestAction = "create_request"

type Service interface {
	CreateRequest(ctx context.Context, recipientID uuid.UUID, donationID uuid.UUID) (*dto.RequestResponse, error)
	Approve(ctx context.Context, actorID uuid.UUID, requestID uuid.UUID) (*dto.RequestResponse, error)
	Reject(ctx context.Context, actorID uuid.UUID, requestID uuid.UUID) (*dto.RequestResponse, error)
	ListForDonation(ctx context.Context, actorID uuid.UUID, donationID uuid.UUID) (*dto.RequestListResponse, error)
	ListForRecipient(ctx context.Context, recipientID uuid.UUID) (*dto.RequestListResponse, error)
}

type service struct {
	requestRepo   repository.RequestRepository
	donationRepo  donationRepo.DonationRepository
	userRepo      userRepo.UserRepository
	searchService search.DonationSearchService
	redisClient   *redis.Client
	rateLimit     time.Duration
}

func NewService(requestRepo repository.RequestRepository, donationRepo donationRepo.DonationRepository, userRepo userRepo.UserRepository, searchService search.DonationSearchService, redisClient *redis.Client, rateLimit time.Duration) Service {
	return &service{
		requestRepo:   requestRepo,
		donationRepo:  donationRepo,
		userRepo:      userRepo,
		searchService: searchService,
		redisClient:   redisClient,
		rateLimit:     rateLimit,
	}
}

// CreateRequest claims an available donation for a recipient. The
// availability check and the insert run as one read-then-write cycle; two
// recipients racing past the check may both end up pending, which is fine
// because only one request can later be approved.
func (s *service) CreateRequest(ctx context.Context, recipientID uuid.UUID, donationID uuid.UUID) (*dto.RequestResponse, error) {
	donation, err := s.donationRepo.FindByID(ctx, donationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("donation not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}

	if donation.Status != entity.DonationAvailable {
		return nil, fmt.Errorf("donation is %s: %w", donation.Status, apperror.ErrNotAvailable)
	}

	allowed, err := ratelimiter.CheckAndSet(ctx, s.redisClient, recipientID, createRequestAction, s.rateLimit)
	if err != nil {
		return nil, err
	}
	if !allowed {
		ttl, _ := ratelimiter.GetTTL(ctx, s.redisClient, recipientID, createRequestAction)
		return nil, &ratelimiter.RateLimitError{
			Message:    "you are requesting donations too quickly",
			RetryAfter: ttl,
		}
	}

	recipient, err := s.userRepo.FindByID(ctx, recipientID.String())
	if err != nil {
		ratelimiter.Clear(ctx, s.redisClient, recipientID, createRequestAction)
		return nil, fmt.Errorf("recipient not found: %w", apperror.ErrUnauthorized)
	}

	request := &entity.Request{
		RecipientID: recipient.ID,
		DonationID:  donation.ID,
		Status:      entity.RequestPending,
	}

	if err := s.requestRepo.Create(ctx, request); err != nil {
		ratelimiter.Clear(ctx, s.redisClient, recipientID, createRequestAction)
		return nil, err
	}

	metrics.RequestsCreated.Inc()

	request.Recipient = *recipient
	request.Donation = *donation

	resp := toRequestResponse(request)
	return &resp, nil
}

// Approve resolves a pending request in the requester's favor. Only the
// donor who owns the target donation, or an admin, may do this. The request
// and its donation change together in one transaction.
func (s *service) Approve(ctx context.Context, actorID uuid.UUID, requestID uuid.UUID) (*dto.RequestResponse, error) {
	request, err := s.authorizeResolution(ctx, actorID, requestID)
	if err != nil {
		return nil, err
	}

	if err := s.requestRepo.Approve(ctx, request); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("request was already resolved: %w", apperror.ErrBadRequest)
		}
		return nil, err
	}

	metrics.RequestsResolved.WithLabelValues("approved").Inc()

	request.Status = entity.RequestApproved
	request.Donation.Status = entity.DonationRequested

	if s.searchService != nil {
		if err := s.searchService.IndexDonation(&request.Donation); err != nil {
			log.Printf("Failed to reindex donation %s: %v", request.DonationID, err)
		}
	}

	resp := toRequestResponse(request)
	return &resp, nil
}

// Reject resolves a pending request against the requester. The donation
// status is deliberately untouched.
func (s *service) Reject(ctx context.Context, actorID uuid.UUID, requestID uuid.UUID) (*dto.RequestResponse, error) {
	request, err := s.authorizeResolution(ctx, actorID, requestID)
	if err != nil {
		return nil, err
	}

	if err := s.requestRepo.Reject(ctx, request); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("request was already resolved: %w", apperror.ErrBadRequest)
		}
		return nil, err
	}

	metrics.RequestsResolved.WithLabelValues("rejected").Inc()

	request.Status = entity.RequestRejected

	resp := toRequestResponse(request)
	return &resp, nil
}

func (s *service) ListForDonation(ctx context.Context, actorID uuid.UUID, donationID uuid.UUID) (*dto.RequestListResponse, error) {
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
		return nil, fmt.Errorf("requests are visible to the owning donor only: %w", apperror.ErrForbidden)
	}

	requests, err := s.requestRepo.FindByDonationID(ctx, donationID)
	if err != nil {
		return nil, err
	}

	return toRequestListResponse(requests), nil
}

func (s *service) ListForRecipient(ctx context.Context, recipientID uuid.UUID) (*dto.RequestListResponse, error) {
	requests, err := s.requestRepo.FindByRecipientID(ctx, recipientID)
	if err != nil {
		return nil, err
	}

	return toRequestListResponse(requests), nil
}

// authorizeResolution loads a request and verifies the actor may resolve it:
// actor == donation.donor, or actor is an admin. Terminal requests are
// refused before any write happens.
func (s *service) authorizeResolution(ctx context.Context, actorID uuid.UUID, requestID uuid.UUID) (*entity.Request, error) {
	request, err := s.requestRepo.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("request not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}

	actor, err := s.userRepo.FindByID(ctx, actorID.String())
	if err != nil {
		return nil, fmt.Errorf("actor not found: %w", apperror.ErrUnauthorized)
	}

	if request.Donation.DonorID != actor.ID && !actor.IsAdmin() {
		return nil, fmt.Errorf("only the donation's donor may resolve this request: %w", apperror.ErrForbidden)
	}

	if request.Status.Terminal() {
		return nil, fmt.Errorf("request is already %s: %w", request.Status, apperror.ErrBadRequest)
	}

	return request, nil
}

func toRequestResponse(r *entity.Request) dto.RequestResponse {
	return dto.RequestResponse{
		ID:            r.ID,
		RecipientName: r.Recipient.Username,
		DonationID:    r.DonationID,
		FoodType:      r.Donation.FoodType,
		Location:      r.Donation.Location,
		DonationState: r.Donation.Status,
		Status:        r.Status,
		CreatedAt:     r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     r.UpdatedAt.Format(time.RFC3339),
	}
}

func toRequestListResponse(requests []*entity.Request) *dto.RequestListResponse {
	responses := make([]dto.RequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, toRequestResponse(r))
	}
	return &dto.RequestListResponse{Data: responses}
}
