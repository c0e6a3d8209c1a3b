package unit_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/z3by/arabtree-sub000/internal/config"
	"github.com/z3by/arabtree-sub000/internal/domain"
	"github.com/z3by/arabtree-sub000/internal/repository"
	"github.com/z3by/arabtree-sub000/internal/service/auth"
	"github.com/z3by/arabtree-sub000/tests/mocks"
)

func testAuthConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 7 * 24 * time.Hour,
	}
}

func newAuthService() (auth.Service, *mocks.UserRepository, *mocks.SessionRepository, *mocks.EmailService) {
	userRepo := new(mocks.UserRepository)
	sessionRepo := new(mocks.SessionRepository)
	emailSvc := new(mocks.EmailService)
	return auth.NewService(userRepo, sessionRepo, emailSvc, testAuthConfig()), userRepo, sessionRepo, emailSvc
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("new account starts as an active contributor", func(t *testing.T) {
		svc, userRepo, sessionRepo, emailSvc := newAuthService()
		userRepo.On("ExistsByEmail", ctx, "fatimah@example.com").Return(false, nil).Once()
		userRepo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
			return u.Role == string(domain.RoleContributor) &&
				u.IsActive &&
				u.PasswordHash != "strong-password"
		})).Return(nil).Once()
		sessionRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		emailSvc.On("SendWelcomeEmail", mock.Anything, "fatimah@example.com", "Fatimah").Return(nil).Maybe()

		user, tokens, err := svc.Register(ctx, domain.CreateUserInput{
			Email:    "fatimah@example.com",
			Password: "strong-password",
			FullName: "Fatimah",
		})

		assert.NoError(t, err)
		assert.NotEmpty(t, tokens.AccessToken)
		assert.NotEmpty(t, tokens.RefreshToken)

		claims, err := svc.ValidateAccessToken(tokens.AccessToken)
		assert.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
		assert.Equal(t, string(domain.RoleContributor), claims.Role)
		userRepo.AssertExpectations(t)
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		svc, userRepo, _, _ := newAuthService()
		userRepo.On("ExistsByEmail", ctx, "taken@example.com").Return(true, nil).Once()

		_, _, err := svc.Register(ctx, domain.CreateUserInput{
			Email:    "taken@example.com",
			Password: "strong-password",
			FullName: "Someone",
		})

		assert.ErrorIs(t, err, auth.ErrEmailExists)
		userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.MinCost)
	stored := &domain.User{
		ID:           uuid.New(),
		Email:        "omar@example.com",
		PasswordHash: string(hash),
		Role:         string(domain.RoleVerifier),
		IsActive:     true,
	}

	t.Run("valid credentials issue a token pair", func(t *testing.T) {
		svc, userRepo, sessionRepo, _ := newAuthService()
		userRepo.On("GetByEmail", ctx, stored.Email).Return(stored, nil).Once()
		sessionRepo.On("Create", ctx, mock.MatchedBy(func(s *repository.Session) bool {
			return s.UserID == stored.ID && s.TokenHash != ""
		})).Return(nil).Once()

		user, tokens, err := svc.Login(ctx, domain.LoginInput{
			Email:    stored.Email,
			Password: "correct-password",
		}, auth.SessionMeta{})

		assert.NoError(t, err)
		assert.Equal(t, stored.ID, user.ID)
		assert.NotEmpty(t, tokens.RefreshToken)
		sessionRepo.AssertExpectations(t)
	})

	t.Run("wrong password fails without leaking which part was wrong", func(t *testing.T) {
		svc, userRepo, _, _ := newAuthService()
		userRepo.On("GetByEmail", ctx, stored.Email).Return(stored, nil).Once()

		_, _, err := svc.Login(ctx, domain.LoginInput{Email: stored.Email, Password: "nope"}, auth.SessionMeta{})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("unknown email fails the same way", func(t *testing.T) {
		svc, userRepo, _, _ := newAuthService()
		userRepo.On("GetByEmail", ctx, "ghost@example.com").Return(nil, nil).Once()

		_, _, err := svc.Login(ctx, domain.LoginInput{Email: "ghost@example.com", Password: "nope"}, auth.SessionMeta{})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("disabled account cannot sign in", func(t *testing.T) {
		svc, userRepo, _, _ := newAuthService()
		disabled := *stored
		disabled.IsActive = false
		userRepo.On("GetByEmail", ctx, stored.Email).Return(&disabled, nil).Once()

		_, _, err := svc.Login(ctx, domain.LoginInput{
			Email:    stored.Email,
			Password: "correct-password",
		}, auth.SessionMeta{})
		assert.ErrorIs(t, err, auth.ErrAccountDisabled)
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	ctx := context.Background()
	user := &domain.User{
		ID:       uuid.New(),
		Email:    "omar@example.com",
		Role:     string(domain.RoleContributor),
		IsActive: true,
	}

	t.Run("valid session rotates", func(t *testing.T) {
		svc, userRepo, sessionRepo, _ := newAuthService()
		session := &repository.Session{
			ID:        uuid.New(),
			UserID:    user.ID,
			ExpiresAt: time.Now().Add(time.Hour),
		}
		sessionRepo.On("GetByTokenHash", ctx, mock.AnythingOfType("string")).Return(session, nil).Once()
		userRepo.On("GetByID", ctx, user.ID).Return(user, nil).Once()
		sessionRepo.On("Revoke", ctx, session.ID).Return(nil).Once()
		sessionRepo.On("Create", ctx, mock.Anything).Return(nil).Once()

		tokens, err := svc.RefreshToken(ctx, "opaque-refresh-token")

		assert.NoError(t, err)
		assert.NotEmpty(t, tokens.AccessToken)
		sessionRepo.AssertExpectations(t)
	})

	t.Run("revoked session is refused", func(t *testing.T) {
		svc, _, sessionRepo, _ := newAuthService()
		revokedAt := time.Now().Add(-time.Minute)
		sessionRepo.On("GetByTokenHash", ctx, mock.AnythingOfType("string")).Return(&repository.Session{
			ID:        uuid.New(),
			UserID:    user.ID,
			ExpiresAt: time.Now().Add(time.Hour),
			RevokedAt: &revokedAt,
		}, nil).Once()

		_, err := svc.RefreshToken(ctx, "opaque-refresh-token")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
		sessionRepo.AssertNotCalled(t, "Revoke", mock.Anything, mock.Anything)
	})

	t.Run("expired session is refused", func(t *testing.T) {
		svc, _, sessionRepo, _ := newAuthService()
		sessionRepo.On("GetByTokenHash", ctx, mock.AnythingOfType("string")).Return(&repository.Session{
			ID:        uuid.New(),
			UserID:    user.ID,
			ExpiresAt: time.Now().Add(-time.Hour),
		}, nil).Once()

		_, err := svc.RefreshToken(ctx, "opaque-refresh-token")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("unknown token is refused", func(t *testing.T) {
		svc, _, sessionRepo, _ := newAuthService()
		sessionRepo.On("GetByTokenHash", ctx, mock.AnythingOfType("string")).Return(nil, nil).Once()

		_, err := svc.RefreshToken(ctx, "never-issued")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}

func TestAuthService_ValidateAccessToken(t *testing.T) {
	svc, _, _, _ := newAuthService()

	_, err := svc.ValidateAccessToken("not-a-jwt")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	otherCfg := testAuthConfig()
	otherCfg.JWTSecret = "a-different-secret"
	userRepo := new(mocks.UserRepository)
	sessionRepo := new(mocks.SessionRepository)
	emailSvc := new(mocks.EmailService)
	userRepo.On("ExistsByEmail", mock.Anything, "foreign@example.com").Return(false, nil).Once()
	userRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	sessionRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	emailSvc.On("SendWelcomeEmail", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	foreign := auth.NewService(userRepo, sessionRepo, emailSvc, otherCfg)

	_, tokens, err := foreign.Register(context.Background(), domain.CreateUserInput{
		Email:    "foreign@example.com",
		Password: "strong-password",
		FullName: "Foreign",
	})
	assert.NoError(t, err)

	// Signed under a different secret, so this service must refuse it.
	_, err = svc.ValidateAccessToken(tokens.AccessToken)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()

	t.Run("known session is revoked", func(t *testing.T) {
		svc, _, sessionRepo, _ := newAuthService()
		session := &repository.Session{ID: uuid.New(), ExpiresAt: time.Now().Add(time.Hour)}
		sessionRepo.On("GetByTokenHash", ctx, mock.AnythingOfType("string")).Return(session, nil).Once()
		sessionRepo.On("Revoke", ctx, session.ID).Return(nil).Once()

		assert.NoError(t, svc.Logout(ctx, "opaque-refresh-token"))
		sessionRepo.AssertExpectations(t)
	})

	t.Run("unknown token is a no-op", func(t *testing.T) {
		svc, _, sessionRepo, _ := newAuthService()
		sessionRepo.On("GetByTokenHash", ctx, mock.AnythingOfType("string")).Return(nil, nil).Once()

		assert.NoError(t, svc.Logout(ctx, "never-issued"))
		sessionRepo.AssertNotCalled(t, "Revoke", mock.Anything, mock.Anything)
	})
}
