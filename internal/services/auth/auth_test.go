package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sam1217s/modulo-autenticacion-equipo3/internal/lib/jwt"
	"github.com/sam1217s/modulo-autenticacion-equipo3/internal/lib/password"
	"github.com/sam1217s/modulo-autenticacion-equipo3/internal/models"
	"github.com/sam1217s/modulo-autenticacion-equipo3/internal/storage"
)

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) CreateUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *UserRepositoryMock) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetUserByUID(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *UserRepositoryMock) UpdateUserProfile(ctx context.Context, userUID string, upd models.ProfileUpdate) (*models.User, error) {
	args := m.Called(ctx, userUID, upd)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

type PublisherMock struct {
	mock.Mock
}

func (m *PublisherMock) Publish(message any) error {
	args := m.Called(message)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newTestMaker() jwt.Maker {
	return jwt.NewMaker("test_secret_key_1234567890", 15*time.Minute)
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("success normalizes username and hashes password", func(t *testing.T) {
		repo := new(UserRepositoryMock)
		pub := new(PublisherMock)
		svc := NewService(repo, newTestMaker(), pub, newNoopLogger(), 4)

		repo.On("CreateUser", ctx, mock.MatchedBy(func(u models.User) bool {
			return u.Username == "bob.smith" &&
				u.PasswordHash != "" && u.PasswordHash != "secret1" &&
				u.Status == models.StatusActive &&
				u.Preferences.Theme == models.ThemeLight &&
				u.Preferences.Language == models.LanguageES &&
				u.Profile.Avatar == models.DefaultAvatarURL("bob.smith")
		})).Return("uid-1", nil).Once()
		pub.On("Publish", mock.MatchedBy(func(e any) bool {
			event, ok := e.(UserRegisteredEvent)
			return ok && event.Event == "user.registered" && event.Username == "bob.smith"
		})).Return(nil).Once()

		user, err := svc.Register(ctx, "  Bob.Smith ", "secret1")
		require.NoError(t, err)

		assert.Equal(t, "uid-1", user.UID)
		assert.Equal(t, "bob.smith", user.Username)
		assert.NoError(t, password.CompareHash(user.PasswordHash, "secret1"))
		repo.AssertExpectations(t)
		pub.AssertExpectations(t)
	})

	t.Run("duplicate username maps to ErrUsernameTaken", func(t *testing.T) {
		repo := new(UserRepositoryMock)
		svc := NewService(repo, newTestMaker(), nil, newNoopLogger(), 4)

		repo.On("CreateUser", ctx, mock.Anything).Return("", storage.ErrUserExists).Once()

		user, err := svc.Register(ctx, "alice", "secret1")
		assert.Nil(t, user)
		assert.ErrorIs(t, err, ErrUsernameTaken)
	})

	t.Run("trimmed length outside 3-30 rejected before the store", func(t *testing.T) {
		repo := new(UserRepositoryMock)
		svc := NewService(repo, newTestMaker(), nil, newNoopLogger(), 4)

		// Padding must not count towards the minimum length.
		for _, username := range []string{" ab ", "ab", strings.Repeat("a", 31)} {
			user, err := svc.Register(ctx, username, "secret1")
			assert.Nil(t, user)
			assert.ErrorIs(t, err, ErrUsernameLength)
		}
		repo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("invalid charset rejected before the store", func(t *testing.T) {
		repo := new(UserRepositoryMock)
		svc := NewService(repo, newTestMaker(), nil, newNoopLogger(), 4)

		user, err := svc.Register(ctx, "ali ce!", "secret1")
		assert.Nil(t, user)
		assert.ErrorIs(t, err, ErrInvalidUsername)
		repo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("publish failure does not fail registration", func(t *testing.T) {
		repo := new(UserRepositoryMock)
		pub := new(PublisherMock)
		svc := NewService(repo, newTestMaker(), pub, newNoopLogger(), 4)

		repo.On("CreateUser", ctx, mock.Anything).Return("uid-2", nil).Once()
		pub.On("Publish", mock.Anything).Return(errors.New("broker down")).Once()

		user, err := svc.Register(ctx, "carla", "secret1")
		require.NoError(t, err)
		assert.Equal(t, "uid-2", user.UID)
	})
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()

	hash, err := password.GetHash("secret1", 4)
	require.NoError(t, err)
	stored := &models.User{UID: "uid-1", Username: "bob.smith", PasswordHash: hash}

	t.Run("success issues a token for the user uid", func(t *testing.T) {
		repo := new(UserRepositoryMock)
		maker := newTestMaker()
		svc := NewService(repo, maker, nil, newNoopLogger(), 4)

		repo.On("GetUserByUsername", ctx, "bob.smith").Return(stored, nil).Once()

		token, user, err := svc.Login(ctx, " Bob.Smith ", "secret1")
		require.NoError(t, err)
		assert.Equal(t, stored, user)

		claims, err := maker.ParseToken(token)
		require.NoError(t, err)
		assert.Equal(t, "uid-1", claims.UserUID())
	})

	t.Run("unknown user and wrong password are indistinguishable", func(t *testing.T) {
		repo := new(UserRepositoryMock)
		svc := NewService(repo, newTestMaker(), nil, newNoopLogger(), 4)

		repo.On("GetUserByUsername", ctx, "ghost").Return(nil, storage.ErrUserNotFound).Once()
		repo.On("GetUserByUsername", ctx, "bob.smith").Return(stored, nil).Once()

		_, _, errUnknown := svc.Login(ctx, "ghost", "secret1")
		_, _, errWrongPassword := svc.Login(ctx, "bob.smith", "not-the-password")

		assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
		assert.ErrorIs(t, errWrongPassword, ErrInvalidCredentials)
		assert.Equal(t, errUnknown.Error(), errWrongPassword.Error())
	})

	t.Run("store fault is not a credentials error", func(t *testing.T) {
		repo := new(UserRepositoryMock)
		svc := NewService(repo, newTestMaker(), nil, newNoopLogger(), 4)

		repo.On("GetUserByUsername", ctx, "bob.smith").Return(nil, errors.New("connection refused")).Once()

		_, _, err := svc.Login(ctx, "bob.smith", "secret1")
		require.Error(t, err)
		assert.False(t, errors.Is(err, ErrInvalidCredentials))
	})
}

func TestService_GetUser(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		repo := new(UserRepositoryMock)
		svc := NewService(repo, newTestMaker(), nil, newNoopLogger(), 4)

		stored := &models.User{UID: "uid-1", Username: "bob.smith"}
		repo.On("GetUserByUID", ctx, "uid-1").Return(stored, nil).Once()

		user, err := svc.GetUser(ctx, "uid-1")
		require.NoError(t, err)
		assert.Equal(t, stored, user)
	})

	t.Run("missing maps to ErrUserNotFound", func(t *testing.T) {
		repo := new(UserRepositoryMock)
		svc := NewService(repo, newTestMaker(), nil, newNoopLogger(), 4)

		repo.On("GetUserByUID", ctx, "uid-gone").Return(nil, storage.ErrUserNotFound).Once()

		user, err := svc.GetUser(ctx, "uid-gone")
		assert.Nil(t, user)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestService_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	firstName := "Bob"

	t.Run("delegates partial update", func(t *testing.T) {
		repo := new(UserRepositoryMock)
		svc := NewService(repo, newTestMaker(), nil, newNoopLogger(), 4)

		upd := models.ProfileUpdate{FirstName: &firstName}
		updated := &models.User{UID: "uid-1", Username: "bob.smith", Profile: models.Profile{FirstName: "Bob"}}
		repo.On("UpdateUserProfile", ctx, "uid-1", upd).Return(updated, nil).Once()

		user, err := svc.UpdateProfile(ctx, "uid-1", upd)
		require.NoError(t, err)
		assert.Equal(t, "Bob", user.Profile.FirstName)
	})

	t.Run("missing user maps to ErrUserNotFound", func(t *testing.T) {
		repo := new(UserRepositoryMock)
		svc := NewService(repo, newTestMaker(), nil, newNoopLogger(), 4)

		repo.On("UpdateUserProfile", ctx, "uid-gone", mock.Anything).Return(nil, storage.ErrUserNotFound).Once()

		user, err := svc.UpdateProfile(ctx, "uid-gone", models.ProfileUpdate{FirstName: &firstName})
		assert.Nil(t, user)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}
