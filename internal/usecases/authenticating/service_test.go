package authenticating

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/growzzy/growzzy-api/infrastructure/repository/mocks"
	"github.com/growzzy/growzzy-api/internal/config"
	"github.com/growzzy/growzzy-api/internal/domain"
	"github.com/growzzy/growzzy-api/pkg/apiErrors"
	"github.com/growzzy/growzzy-api/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret-key"

func newTestService(t *testing.T) (*Service, *mocks.MockUserRepository) {
	t.Helper()
	log.SetupTestLogger()

	ctrl := gomock.NewController(t)
	userRepo := mocks.NewMockUserRepository(ctrl)

	cfg := &config.Config{SecretKey: testSecret}
	return NewService(userRepo, cfg), userRepo
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestService_Register(t *testing.T) {
	tests := []struct {
		name     string
		req      domain.RegisterRequest
		setup    func(repo *mocks.MockUserRepository)
		validate func(t *testing.T, user *domain.User, err error)
	}{
		{
			name: "creates an active user with a hashed password",
			req:  domain.RegisterRequest{Name: " Ana Souza ", Email: " Ana@Growzzy.io ", Password: "s3cretpass"},
			setup: func(repo *mocks.MockUserRepository) {
				repo.EXPECT().GetUserByEmail(gomock.Any(), "ana@growzzy.io").Return(nil, nil)
				repo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, u *domain.User) (*domain.User, error) {
						assert.Equal(t, "Ana Souza", u.Name)
						assert.True(t, u.Active)
						assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3cretpass")))
						created := *u
						created.ID = "user-1"
						return &created, nil
					})
			},
			validate: func(t *testing.T, user *domain.User, err error) {
				require.NoError(t, err)
				assert.Equal(t, "user-1", user.ID)
				assert.Equal(t, "ana@growzzy.io", user.Email)
				assert.Empty(t, user.PasswordHash)
			},
		},
		{
			name:  "missing fields",
			req:   domain.RegisterRequest{Email: "ana@growzzy.io"},
			setup: func(repo *mocks.MockUserRepository) {},
			validate: func(t *testing.T, user *domain.User, err error) {
				var authErr *AuthError
				require.True(t, errors.As(err, &authErr))
				assert.Equal(t, apiErrors.ErrMissingRequiredData, authErr.Code)
			},
		},
		{
			name:  "weak password",
			req:   domain.RegisterRequest{Name: "Ana", Email: "ana@growzzy.io", Password: "onlyletters"},
			setup: func(repo *mocks.MockUserRepository) {},
			validate: func(t *testing.T, user *domain.User, err error) {
				assert.ErrorIs(t, err, ErrWeakPassword)
				assert.Nil(t, user)
			},
		},
		{
			name: "email already registered",
			req:  domain.RegisterRequest{Name: "Ana", Email: "ana@growzzy.io", Password: "s3cretpass"},
			setup: func(repo *mocks.MockUserRepository) {
				repo.EXPECT().GetUserByEmail(gomock.Any(), "ana@growzzy.io").Return(&domain.User{ID: "user-1"}, nil)
			},
			validate: func(t *testing.T, user *domain.User, err error) {
				var authErr *AuthError
				require.True(t, errors.As(err, &authErr))
				assert.Equal(t, apiErrors.ErrUserAlreadyExists, authErr.Code)
				assert.ErrorIs(t, err, ErrUserAlreadyExists)
			},
		},
		{
			name: "database failure",
			req:  domain.RegisterRequest{Name: "Ana", Email: "ana@growzzy.io", Password: "s3cretpass"},
			setup: func(repo *mocks.MockUserRepository) {
				repo.EXPECT().GetUserByEmail(gomock.Any(), gomock.Any()).Return(nil, nil)
				repo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection reset"))
			},
			validate: func(t *testing.T, user *domain.User, err error) {
				assert.ErrorIs(t, err, ErrDatabaseOperation)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, repo := newTestService(t)
			tt.setup(repo)

			user, err := s.Register(context.Background(), tt.req)
			tt.validate(t, user, err)
		})
	}
}

func TestService_Login(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		setup    func(t *testing.T, repo *mocks.MockUserRepository)
		validate func(t *testing.T, s *Service, token string, err error)
	}{
		{
			name:     "valid credentials return a signed session token",
			email:    "Ana@Growzzy.io",
			password: "s3cretpass",
			setup: func(t *testing.T, repo *mocks.MockUserRepository) {
				repo.EXPECT().GetUserByEmail(gomock.Any(), "ana@growzzy.io").Return(&domain.User{
					ID:           "user-1",
					Name:         "Ana",
					Email:        "ana@growzzy.io",
					PasswordHash: hashed(t, "s3cretpass"),
					Active:       true,
				}, nil)
			},
			validate: func(t *testing.T, s *Service, token string, err error) {
				require.NoError(t, err)
				require.NotEmpty(t, token)

				claims, err := s.ValidateToken(token)
				require.NoError(t, err)
				assert.Equal(t, "user-1", claims.UserID)
				assert.Equal(t, "user-1", claims.Subject)
				assert.Equal(t, "ana@growzzy.io", claims.UserEmail)
				assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, time.Minute)
			},
		},
		{
			name:     "unknown email",
			email:    "nobody@growzzy.io",
			password: "s3cretpass",
			setup: func(t *testing.T, repo *mocks.MockUserRepository) {
				repo.EXPECT().GetUserByEmail(gomock.Any(), "nobody@growzzy.io").Return(nil, nil)
			},
			validate: func(t *testing.T, s *Service, token string, err error) {
				assert.True(t, IsCredentialsError(err))
				assert.Empty(t, token)
			},
		},
		{
			name:     "wrong password",
			email:    "ana@growzzy.io",
			password: "wrongpass1",
			setup: func(t *testing.T, repo *mocks.MockUserRepository) {
				repo.EXPECT().GetUserByEmail(gomock.Any(), "ana@growzzy.io").Return(&domain.User{
					ID:           "user-1",
					PasswordHash: hashed(t, "s3cretpass"),
					Active:       true,
				}, nil)
			},
			validate: func(t *testing.T, s *Service, token string, err error) {
				var authErr *AuthError
				require.True(t, errors.As(err, &authErr))
				assert.Equal(t, apiErrors.ErrInvalidCredentials, authErr.Code)
				assert.Equal(t, "user-1", authErr.UserID)
			},
		},
		{
			name:     "disabled account",
			email:    "ana@growzzy.io",
			password: "s3cretpass",
			setup: func(t *testing.T, repo *mocks.MockUserRepository) {
				repo.EXPECT().GetUserByEmail(gomock.Any(), "ana@growzzy.io").Return(&domain.User{
					ID:           "user-1",
					PasswordHash: hashed(t, "s3cretpass"),
					Active:       false,
				}, nil)
			},
			validate: func(t *testing.T, s *Service, token string, err error) {
				assert.ErrorIs(t, err, ErrUserDisabled)
			},
		},
		{
			name:     "missing password",
			email:    "ana@growzzy.io",
			password: "",
			setup:    func(t *testing.T, repo *mocks.MockUserRepository) {},
			validate: func(t *testing.T, s *Service, token string, err error) {
				assert.ErrorIs(t, err, ErrMissingRequiredData)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, repo := newTestService(t)
			tt.setup(t, repo)

			token, err := s.Login(context.Background(), tt.email, tt.password)
			tt.validate(t, s, token, err)
		})
	}
}

func TestService_ValidateToken(t *testing.T) {
	s, _ := newTestService(t)
	user := &domain.User{ID: "user-1", Email: "ana@growzzy.io"}

	t.Run("expired token", func(t *testing.T) {
		s.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }
		defer func() { s.now = time.Now }()

		token, err := s.generateJWT(user)
		require.NoError(t, err)

		_, err = s.ValidateToken(token)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("token signed with another key", func(t *testing.T) {
		other := NewService(nil, &config.Config{SecretKey: "another-key"})
		token, err := other.generateJWT(user)
		require.NoError(t, err)

		_, err = s.ValidateToken(token)
		assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
	})

	t.Run("none algorithm is refused", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, domain.Claims{UserID: "user-1"}).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = s.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("token without a user", func(t *testing.T) {
		token, err := s.generateJWT(&domain.User{})
		require.NoError(t, err)

		_, err = s.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestService_GetUserProfile(t *testing.T) {
	s, repo := newTestService(t)

	repo.EXPECT().GetUserByID(gomock.Any(), "user-1").Return(&domain.User{ID: "user-1", PasswordHash: "hash"}, nil)
	user, err := s.GetUserProfile(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Empty(t, user.PasswordHash)

	repo.EXPECT().GetUserByID(gomock.Any(), "ghost").Return(nil, nil)
	_, err = s.GetUserProfile(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestValidatePasswordStrength(t *testing.T) {
	tests := []struct {
		password string
		valid    bool
	}{
		{password: "abc123", valid: false},
		{password: "abcdefgh", valid: false},
		{password: "12345678", valid: false},
		{password: "abcd1234", valid: true},
		{password: "Senha F0rte", valid: true},
	}

	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			err := ValidatePasswordStrength(tt.password)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrWeakPassword)
		})
	}
}
