package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	pkgauth "github.com/baxoq/baxoq-store-backend/pkg/auth"
	"github.com/baxoq/baxoq-store-backend/pkg/auth/session"
	"github.com/baxoq/baxoq-store-backend/pkg/config"
	"github.com/baxoq/baxoq-store-backend/pkg/db/models"
	pkgerrors "github.com/baxoq/baxoq-store-backend/pkg/errors"
	"github.com/baxoq/baxoq-store-backend/pkg/security"
)

type fakeUserRepo struct {
	byEmail map[string]*models.User
	byID    map[uuid.UUID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail: map[string]*models.User{},
		byID:    map[uuid.UUID]*models.User{},
	}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	f.byEmail[user.Email] = user
	f.byID[user.ID] = user
	return user, nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := f.byEmail[email]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := f.byID[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return nil
}

type fakeSessions struct {
	records map[string]string
	users   map[string]uuid.UUID
	revoked []string
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{
		records: map[string]string{},
		users:   map[string]uuid.UUID{},
	}
}

func (f *fakeSessions) Generate(ctx context.Context, accessID string, userID uuid.UUID) (string, error) {
	token := "refresh-" + accessID
	f.records[accessID] = token
	f.users[accessID] = userID
	return token, nil
}

func (f *fakeSessions) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, uuid.UUID, error) {
	stored, ok := f.records[oldAccessID]
	if !ok || stored != provided {
		return "", "", uuid.Nil, session.ErrInvalidRefreshToken
	}
	userID := f.users[oldAccessID]
	delete(f.records, oldAccessID)
	delete(f.users, oldAccessID)

	newAccessID := session.NewAccessID()
	token, _ := f.Generate(ctx, newAccessID, userID)
	return newAccessID, token, userID, nil
}

func (f *fakeSessions) Revoke(ctx context.Context, accessID string) error {
	f.revoked = append(f.revoked, accessID)
	delete(f.records, accessID)
	delete(f.users, accessID)
	return nil
}

func testConfigs() (config.JWTConfig, config.PasswordConfig) {
	jwtCfg := config.JWTConfig{
		Secret:                 "test-secret",
		Issuer:                 "baxoq-test",
		ExpirationMinutes:      15,
		RefreshTokenTTLMinutes: 60,
	}
	pwCfg := config.PasswordConfig{
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
	return jwtCfg, pwCfg
}

func newAuthService(t *testing.T) (Service, *fakeUserRepo, *fakeSessions) {
	t.Helper()
	repo := newFakeUserRepo()
	sessions := newFakeSessions()
	jwtCfg, pwCfg := testConfigs()
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: sessions,
		JWTConfig:      jwtCfg,
		PasswordConfig: pwCfg,
	})
	require.NoError(t, err)
	return svc, repo, sessions
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr, "expected typed error, got %v", err)
	assert.Equal(t, code, appErr.Code())
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, RegisterRequest{
		Name:     "Ada",
		Email:    "ADA@Example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", resp.User.Email)
	assert.NotEmpty(t, resp.Credentials.AccessToken)
	assert.NotEmpty(t, resp.Credentials.RefreshToken)
	assert.NotEmpty(t, resp.Credentials.AccessID)

	login, err := svc.Login(ctx, LoginRequest{Email: "ada@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)

	jwtCfg, _ := testConfigs()
	claims, err := pkgauth.ParseAccessToken(jwtCfg, login.Credentials.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.False(t, claims.IsAdmin)
	assert.Equal(t, login.Credentials.AccessID, claims.ID)
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := newAuthService(t)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Name:     " ",
		Email:    "",
		Password: "short",
	})
	assertCode(t, err, pkgerrors.CodeValidation)

	details, ok := pkgerrors.As(err).Details().(map[string]any)
	require.True(t, ok)
	assert.Contains(t, details, "name")
	assert.Contains(t, details, "email")
	assert.Contains(t, details, "password")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	req := RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "correct-horse"}
	_, err := svc.Register(ctx, req)
	require.NoError(t, err)

	_, err = svc.Register(ctx, req)
	assertCode(t, err, pkgerrors.CodeConflict)
}

func TestLoginBadCredentials(t *testing.T) {
	svc, repo, _ := newAuthService(t)
	ctx := context.Background()

	_, pwCfg := testConfigs()
	hash, err := security.HashPassword("correct-horse", pwCfg)
	require.NoError(t, err)
	_, err = repo.Create(ctx, &models.User{Name: "Ada", Email: "ada@example.com", PasswordHash: hash})
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginRequest{Email: "ada@example.com", Password: "wrong"})
	assertCode(t, err, pkgerrors.CodeUnauthorized)

	_, err = svc.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "correct-horse"})
	assertCode(t, err, pkgerrors.CodeUnauthorized)
	assert.True(t, strings.Contains(err.Error(), invalidCredentialsMessage))
}

func TestRefreshRotatesSession(t *testing.T) {
	svc, _, sessions := newAuthService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, RegisterRequest{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, resp.Credentials.AccessID, resp.Credentials.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, resp.Credentials.AccessID, refreshed.Credentials.AccessID)
	assert.Equal(t, resp.User.ID, refreshed.User.ID)

	// The old pair is burned.
	_, err = svc.Refresh(ctx, resp.Credentials.AccessID, resp.Credentials.RefreshToken)
	assertCode(t, err, pkgerrors.CodeUnauthorized)

	_, ok := sessions.records[refreshed.Credentials.AccessID]
	assert.True(t, ok)
}

func TestLogoutRevokes(t *testing.T) {
	svc, _, sessions := newAuthService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, RegisterRequest{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, resp.Credentials.AccessID))
	assert.Contains(t, sessions.revoked, resp.Credentials.AccessID)

	_, err = svc.Refresh(ctx, resp.Credentials.AccessID, resp.Credentials.RefreshToken)
	assertCode(t, err, pkgerrors.CodeUnauthorized)
}
