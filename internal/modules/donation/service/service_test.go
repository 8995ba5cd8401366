package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rescueplate/backend/internal/entity"
	"github.com/rescueplate/backend/internal/modules/donation/dto"
	"github.com/rescueplate/backend/internal/modules/donation/repository"
	userRepo "github.com/rescueplate/backend/internal/modules/user/repository"
	"github.com/rescueplate/backend/pkg/apperror"
)

// --- mocks ---

type mockDonationRepo struct {
	createFn       func(ctx context.Context, donation *entity.Donation) error
	findByIDFn     func(ctx context.Context, id uuid.UUID) (*entity.Donation, error)
	findByDonorFn  func(ctx context.Context, donorID uuid.UUID) ([]*entity.Donation, error)
	searchFn       func(ctx context.Context, query string, status entity.DonationStatus) ([]*entity.Donation, error)
	updateStatusFn func(ctx context.Context, id uuid.UUID, status entity.DonationStatus) error
}

func (m *mockDonationRepo) Create(ctx context.Context, donation *entity.Donation) error {
	if m.createFn != nil {
		return m.createFn(ctx, donation)
	}
	return nil
}

func (m *mockDonationRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Donation, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDonationRepo) FindByDonorID(ctx context.Context, donorID uuid.UUID) ([]*entity.Donation, error) {
	if m.findByDonorFn != nil {
		return m.findByDonorFn(ctx, donorID)
	}
	return nil, nil
}

func (m *mockDonationRepo) FindAll(ctx context.Context) ([]*entity.Donation, error) {
	return nil, nil
}

func (m *mockDonationRepo) Search(ctx context.Context, query string, status entity.DonationStatus) ([]*entity.Donation, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, query, status)
	}
	return nil, nil
}

func (m *mockDonationRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.DonationStatus) error {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, id, status)
	}
	return nil
}

func (m *mockDonationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

var _ repository.DonationRepository = (*mockDonationRepo)(nil)

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

func userRepoWith(users ...*entity.User) *mockUserRepo {
	m := &mockUserRepo{users: map[string]*entity.User{}}
	for _, u := range users {
		m.users[u.ID.String()] = u
	}
	return m
}

// --- tests ---

func TestCreateDonationDefaultsToAvailable(t *testing.T) {
	donor := &entity.User{ID: uuid.New(), Username: "donor", Role: entity.Role{Name: entity.RoleDonor}}

	var created *entity.Donation
	repo := &mockDonationRepo{
		createFn: func(_ context.Context, donation *entity.Donation) error {
			created = donation
			return nil
		},
	}

	svc := NewService(repo, userRepoWith(donor), nil, nil, 0)
	res, err := svc.CreateDonation(context.Background(), donor.ID, dto.CreateDonationRequest{
		FoodType: "vegetables",
		Quantity: 10,
		Location: "Jakarta",
		Expiry:   "2030-01-01",
	})
	require.NoError(t, err)

	require.NotNil(t, created)
	assert.Equal(t, entity.DonationAvailable, created.Status)
	assert.Equal(t, donor.ID, created.DonorID)
	assert.Equal(t, "2030-01-01", created.Expiry)

	assert.Equal(t, entity.DonationAvailable, res.Status)
	assert.Equal(t, "donor", res.DonorName)
}

func TestCreateDonationResolvesRelativeExpiry(t *testing.T) {
	donor := &entity.User{ID: uuid.New(), Username: "donor", Role: entity.Role{Name: entity.RoleDonor}}

	var created *entity.Donation
	repo := &mockDonationRepo{
		createFn: func(_ context.Context, donation *entity.Donation) error {
			created = donation
			return nil
		},
	}

	svc := NewService(repo, userRepoWith(donor), nil, nil, 0)
	_, err := svc.CreateDonation(context.Background(), donor.ID, dto.CreateDonationRequest{
		FoodType: "dairy",
		Quantity: 2,
		Location: "Surabaya",
		Expiry:   "tomorrow",
	})
	require.NoError(t, err)

	require.NotNil(t, created)
	want := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	assert.Equal(t, want, created.Expiry)
}

func TestCreateDonationSanitizesNotes(t *testing.T) {
	donor := &entity.User{ID: uuid.New(), Username: "donor", Role: entity.Role{Name: entity.RoleDonor}}

	var created *entity.Donation
	repo := &mockDonationRepo{
		createFn: func(_ context.Context, donation *entity.Donation) error {
			created = donation
			return nil
		},
	}

	notes := `still sealed <script>alert("x")</script>`
	svc := NewService(repo, userRepoWith(donor), nil, nil, 0)
	_, err := svc.CreateDonation(context.Background(), donor.ID, dto.CreateDonationRequest{
		FoodType: "grains",
		Quantity: 1,
		Location: "Medan",
		Expiry:   "today",
		Notes:    &notes,
	})
	require.NoError(t, err)

	require.NotNil(t, created)
	require.NotNil(t, created.Notes)
	assert.NotContains(t, *created.Notes, "<script>")
	assert.Contains(t, *created.Notes, "still sealed")
}

func TestCreateDonationUnknownDonor(t *testing.T) {
	svc := NewService(&mockDonationRepo{}, userRepoWith(), nil, nil, 0)
	_, err := svc.CreateDonation(context.Background(), uuid.New(), dto.CreateDonationRequest{
		FoodType: "fruits",
		Quantity: 1,
		Location: "Bogor",
		Expiry:   "today",
	})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestFulfillDonationByOwner(t *testing.T) {
	donor := &entity.User{ID: uuid.New(), Username: "donor", Role: entity.Role{Name: entity.RoleDonor}}
	donation := &entity.Donation{
		ID:      uuid.Must(uuid.NewV7()),
		DonorID: donor.ID,
		Donor:   *donor,
		Status:  entity.DonationRequested,
	}

	var updatedTo entity.DonationStatus
	repo := &mockDonationRepo{
		findByIDFn: func(_ context.Context, _ uuid.UUID) (*entity.Donation, error) {
			return donation, nil
		},
		updateStatusFn: func(_ context.Context, id uuid.UUID, status entity.DonationStatus) error {
			assert.Equal(t, donation.ID, id)
			updatedTo = status
			return nil
		},
	}

	svc := NewService(repo, userRepoWith(donor), nil, nil, 0)
	res, err := svc.FulfillDonation(context.Background(), donor.ID, donation.ID)
	require.NoError(t, err)

	assert.Equal(t, entity.DonationFulfilled, updatedTo)
	assert.Equal(t, entity.DonationFulfilled, res.Status)
}

func TestFulfillDonationForbiddenForOtherDonor(t *testing.T) {
	owner := &entity.User{ID: uuid.New(), Username: "owner", Role: entity.Role{Name: entity.RoleDonor}}
	other := &entity.User{ID: uuid.New(), Username: "other", Role: entity.Role{Name: entity.RoleDonor}}
	donation := &entity.Donation{
		ID:      uuid.Must(uuid.NewV7()),
		DonorID: owner.ID,
		Donor:   *owner,
		Status:  entity.DonationAvailable,
	}

	updateCalled := false
	repo := &mockDonationRepo{
		findByIDFn: func(_ context.Context, _ uuid.UUID) (*entity.Donation, error) {
			return donation, nil
		},
		updateStatusFn: func(_ context.Context, _ uuid.UUID, _ entity.DonationStatus) error {
			updateCalled = true
			return nil
		},
	}

	svc := NewService(repo, userRepoWith(owner, other), nil, nil, 0)
	_, err := svc.FulfillDonation(context.Background(), other.ID, donation.ID)

	assert.ErrorIs(t, err, apperror.ErrForbidden)
	assert.False(t, updateCalled)
}

func TestFulfillDonationAlreadyFulfilled(t *testing.T) {
	donor := &entity.User{ID: uuid.New(), Username: "donor", Role: entity.Role{Name: entity.RoleDonor}}
	donation := &entity.Donation{
		ID:      uuid.Must(uuid.NewV7()),
		DonorID: donor.ID,
		Donor:   *donor,
		Status:  entity.DonationFulfilled,
	}

	repo := &mockDonationRepo{
		findByIDFn: func(_ context.Context, _ uuid.UUID) (*entity.Donation, error) {
			return donation, nil
		},
	}

	svc := NewService(repo, userRepoWith(donor), nil, nil, 0)
	_, err := svc.FulfillDonation(context.Background(), donor.ID, donation.ID)
	assert.ErrorIs(t, err, apperror.ErrBadRequest)
}

func TestFulfillDonationAdminBypassesTransitionCheck(t *testing.T) {
	donor := &entity.User{ID: uuid.New(), Username: "donor", Role: entity.Role{Name: entity.RoleDonor}}
	admin := &entity.User{ID: uuid.New(), Username: "admin", Role: entity.Role{Name: entity.RoleAdmin}}
	donation := &entity.Donation{
		ID:      uuid.Must(uuid.NewV7()),
		DonorID: donor.ID,
		Donor:   *donor,
		Status:  entity.DonationFulfilled,
	}

	repo := &mockDonationRepo{
		findByIDFn: func(_ context.Context, _ uuid.UUID) (*entity.Donation, error) {
			return donation, nil
		},
	}

	svc := NewService(repo, userRepoWith(donor, admin), nil, nil, 0)
	res, err := svc.FulfillDonation(context.Background(), admin.ID, donation.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.DonationFulfilled, res.Status)
}

func TestBrowseDonationsPassesFilterThrough(t *testing.T) {
	repo := &mockDonationRepo{
		searchFn: func(_ context.Context, query string, status entity.DonationStatus) ([]*entity.Donation, error) {
			assert.Equal(t, "rice", query)
			assert.Equal(t, entity.DonationAvailable, status)
			return []*entity.Donation{
				{ID: uuid.Must(uuid.NewV7()), FoodType: "grains", Status: entity.DonationAvailable},
			}, nil
		},
	}

	svc := NewService(repo, userRepoWith(), nil, nil, 0)
	res, err := svc.BrowseDonations(context.Background(), dto.DonationFilter{Search: "rice", Status: "available"})
	require.NoError(t, err)
	require.Len(t, res.Data, 1)
	assert.Equal(t, "grains", res.Data[0].FoodType)
}

func TestGetMyDonations(t *testing.T) {
	donor := &entity.User{ID: uuid.New(), Username: "donor"}
	repo := &mockDonationRepo{
		findByDonorFn: func(_ context.Context, donorID uuid.UUID) ([]*entity.Donation, error) {
			assert.Equal(t, donor.ID, donorID)
			return []*entity.Donation{
				{ID: uuid.Must(uuid.NewV7()), DonorID: donor.ID, Status: entity.DonationAvailable},
				{ID: uuid.Must(uuid.NewV7()), DonorID: donor.ID, Status: entity.DonationFulfilled},
			}, nil
		},
	}

	svc := NewService(repo, userRepoWith(donor), nil, nil, 0)
	res, err := svc.GetMyDonations(context.Background(), donor.ID)
	require.NoError(t, err)
	assert.Len(t, res.Data, 2)
}
