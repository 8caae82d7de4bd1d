package authenticating

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/ljy951110/BRS-prototype-sub000/infrastructure/repository/mocks"
	"github.com/ljy951110/BRS-prototype-sub000/internal/config"
	"github.com/ljy951110/BRS-prototype-sub000/internal/domain"
)

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.Auth{Secret: "test-secret"},
	}
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestLoginUserIssuesValidToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockUserRepository(ctrl)
	repo.EXPECT().GetUserByEmail("admin@example.com").Return(&domain.User{
		ID:           1,
		Name:         "관리자",
		Email:        "admin@example.com",
		PasswordHash: hashOf(t, "secret-password"),
		Active:       true,
		RoleID:       domain.RoleAdmin,
	}, nil)

	service := NewService(repo, testConfig())

	token, err := service.LoginUser("Admin@Example.com ", "secret-password")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, 1, claims.UserID)
	assert.Equal(t, domain.RoleAdmin, claims.UserRoleID)
}

func TestLoginUserWrongPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockUserRepository(ctrl)
	repo.EXPECT().GetUserByEmail("admin@example.com").Return(&domain.User{
		ID:           1,
		Email:        "admin@example.com",
		PasswordHash: hashOf(t, "secret-password"),
		Active:       true,
	}, nil)

	service := NewService(repo, testConfig())

	_, err := service.LoginUser("admin@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUserDisabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockUserRepository(ctrl)
	repo.EXPECT().GetUserByEmail("old@example.com").Return(&domain.User{
		ID:           2,
		Email:        "old@example.com",
		PasswordHash: hashOf(t, "whatever"),
		Active:       false,
	}, nil)

	service := NewService(repo, testConfig())

	_, err := service.LoginUser("old@example.com", "whatever")
	assert.ErrorIs(t, err, ErrUserDisabled)
}

func TestLoginUserNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockUserRepository(ctrl)
	repo.EXPECT().GetUserByEmail("ghost@example.com").Return(nil, nil)

	service := NewService(repo, testConfig())

	_, err := service.LoginUser("ghost@example.com", "anything")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestValidateTokenRejectsForeignSecret(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockUserRepository(ctrl)
	repo.EXPECT().GetUserByEmail("admin@example.com").Return(&domain.User{
		ID:           1,
		Email:        "admin@example.com",
		PasswordHash: hashOf(t, "secret-password"),
		Active:       true,
	}, nil)

	issuer := NewService(repo, testConfig())
	token, err := issuer.LoginUser("admin@example.com", "secret-password")
	require.NoError(t, err)

	verifier := NewService(repo, &config.Config{Auth: config.Auth{Secret: "another-secret"}})
	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestCreateUserGeneratesPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockUserRepository(ctrl)
	repo.EXPECT().GetUserByEmail("new@example.com").Return(nil, nil)
	repo.EXPECT().CreateUser(gomock.Any()).DoAndReturn(func(u *domain.User) (*domain.User, error) {
		u.ID = 7
		return u, nil
	})

	service := NewService(repo, testConfig())

	user, password, err := service.CreateUser(&domain.User{Name: "신규", Email: "New@Example.com"})
	require.NoError(t, err)

	assert.Equal(t, 7, user.ID)
	assert.Equal(t, "new@example.com", user.Email)
	assert.Equal(t, domain.RoleManager, user.RoleID)
	assert.True(t, user.Active)
	assert.Len(t, password, 12)

	// The returned password must verify against the stored hash.
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)))
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockUserRepository(ctrl)
	repo.EXPECT().GetUserByEmail("dup@example.com").Return(&domain.User{ID: 3}, nil)

	service := NewService(repo, testConfig())

	_, _, err := service.CreateUser(&domain.User{Name: "중복", Email: "dup@example.com"})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestChangePasswordGuards(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service := NewService(mocks.NewMockUserRepository(ctrl), testConfig())

	assert.ErrorIs(t, service.ChangePassword(1, "old", "short"), ErrWeakPassword)
	assert.ErrorIs(t, service.ChangePassword(1, "same-password", "same-password"), ErrSamePassword)
}

func TestChangePassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockUserRepository(ctrl)
	repo.EXPECT().GetUserByID(1).Return(&domain.User{
		ID:           1,
		PasswordHash: hashOf(t, "current-password"),
		Active:       true,
	}, nil)
	repo.EXPECT().UpdateUser(gomock.Any()).DoAndReturn(func(u *domain.User) error {
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("fresh-password")))
		return nil
	})

	service := NewService(repo, testConfig())

	assert.NoError(t, service.ChangePassword(1, "current-password", "fresh-password"))
}
