package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rescueplate/backend/internal/entity"
	userRepo "github.com/rescueplate/backend/internal/modules/user/repository"
)

type mockUserRepo struct {
	users map[string]*entity.User
}

func (m *mockUserRepo) Create(ctx context.Context, user *entity.User) error { return nil }

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*entity.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) FindRoleByName(ctx context.Context, name string) (*entity.Role, error) {
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) FindAll(ctx context.Context) ([]*entity.User, error) { return nil, nil }

func (m *mockUserRepo) Count(ctx context.Context) (int64, error) { return 0, nil }

var _ userRepo.UserRepository = (*mockUserRepo)(nil)

func signToken(t *testing.T, subject string, expiresAt time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("change-me"))
	require.NoError(t, err)
	return token
}

func newTestMiddleware(t *testing.T, repo userRepo.UserRepository) *AuthMiddleware {
	t.Helper()
	t.Setenv("JWT_SECRET", "change-me")
	return NewAuthMiddleware(repo, nil)
}

func newTestRouter(m *AuthMiddleware, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	handlers := append([]gin.HandlerFunc{m.RequireAuth()}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString("user_id")})
	})
	router.GET("/protected", handlers...)
	return router
}

func TestRequireAuthAcceptsValidBearerToken(t *testing.T) {
	userID := uuid.NewString()
	m := newTestMiddleware(t, &mockUserRepo{})
	router := newTestRouter(m)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, userID, time.Now().Add(time.Hour)))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID)
}

func TestRequireAuthRejectsMissingHeader(t *testing.T) {
	m := newTestMiddleware(t, &mockUserRepo{})
	router := newTestRouter(m)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthRejectsExpiredToken(t *testing.T) {
	m := newTestMiddleware(t, &mockUserRepo{})
	router := newTestRouter(m)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, uuid.NewString(), time.Now().Add(-time.Hour)))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthRejectsGarbageToken(t *testing.T) {
	m := newTestMiddleware(t, &mockUserRepo{})
	router := newTestRouter(m)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRoleMatchesUserRecord(t *testing.T) {
	donor := &entity.User{ID: uuid.New(), Username: "donor", Role: entity.Role{Name: entity.RoleDonor}}
	recipient := &entity.User{ID: uuid.New(), Username: "recipient", Role: entity.Role{Name: entity.RoleRecipient}}

	repo := &mockUserRepo{users: map[string]*entity.User{
		donor.ID.String():     donor,
		recipient.ID.String(): recipient,
	}}
	m := newTestMiddleware(t, repo)
	router := newTestRouter(m, m.RequireRole(entity.RoleDonor, entity.RoleAdmin))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, donor.ID.String(), time.Now().Add(time.Hour)))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, recipient.ID.String(), time.Now().Add(time.Hour)))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireAdminAllowsAdminOnly(t *testing.T) {
	admin := &entity.User{ID: uuid.New(), Username: "root", Role: entity.Role{Name: entity.RoleAdmin}}

	repo := &mockUserRepo{users: map[string]*entity.User{admin.ID.String(): admin}}
	m := newTestMiddleware(t, repo)
	router := newTestRouter(m, m.RequireAdmin())

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, admin.ID.String(), time.Now().Add(time.Hour)))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// Token for a user that no longer exists.
	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, uuid.NewString(), time.Now().Add(time.Hour)))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
