package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rescueplate/backend/internal/entity"
	"github.com/rescueplate/backend/internal/metrics"
	"github.com/rescueplate/backend/internal/middleware"
	"github.com/rescueplate/backend/internal/modules/user/dto"
	"github.com/rescueplate/backend/internal/modules/user/repository"
	"github.com/rescueplate/backend/pkg/apperror"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService interface {
	Register(ctx context.Context, input dto.RegisterInput) (*dto.RegisterResponse, error)
	Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error)
	Logout(ctx context.Context, tokenID string, expiresAt time.Time) error
}

type authService struct {
	repo        repository.UserRepository
	redisClient *redis.Client
	secret      string
	tokenTTL    time.Duration
}

func NewAuthService(repo repository.UserRepository, redisClient *redis.Client) AuthService {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "change-me"
	}

	ttl := time.Hour
	if ttlStr := os.Getenv("JWT_TTL_MINUTES"); ttlStr != "" {
		if minutes, err := strconv.Atoi(ttlStr); err == nil {
			ttl = time.Duration(minutes) * time.Minute
		}
	}

	return &authService{
		repo:        repo,
		redisClient: redisClient,
		secret:      secret,
		tokenTTL:    ttl,
	}
}

func (s *authService) Register(ctx context.Context, input dto.RegisterInput) (*dto.RegisterResponse, error) {
	if _, err := s.repo.FindByUsername(ctx, input.Username); err == nil {
		return nil, fmt.Errorf("username %q: %w", input.Username, apperror.ErrUsernameTaken)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	role, err := s.repo.FindRoleByName(ctx, input.Role)
	if err != nil {
		return nil, fmt.Errorf("role %q: %w", input.Role, apperror.ErrBadRequest)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Username:     input.Username,
		PasswordHash: string(hashed),
		RoleID:       &role.ID,
		Role:         *role,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	metrics.UsersRegistered.Inc()

	user.PasswordHash = ""
	return &dto.RegisterResponse{User: user}, nil
}

func (s *authService) Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error) {
	user, err := s.repo.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("invalid credentials: %w", apperror.ErrUnauthorized)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", apperror.ErrUnauthorized)
	}

	token, expiresAt, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""

	return &dto.AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresAt,
		User:        user,
		Role:        &user.Role,
	}, nil
}

// Logout blacklists the token ID until its natural expiry. Without redis the
// token simply ages out client-side.
func (s *authService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if s.redisClient == nil || tokenID == "" {
		return nil
	}

	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}

	return s.redisClient.Set(ctx, middleware.BlacklistKeyPrefix+tokenID, "revoked", ttl).Err()
}

func (s *authService) generateToken(user *entity.User) (string, int64, error) {
	expiresAt := time.Now().Add(s.tokenTTL)

	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   user.ID.String(),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", 0, err
	}

	return signed, expiresAt.Unix(), nil
}
