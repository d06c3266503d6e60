// Package auth contains the business logic for registration, login and
// profile management of users.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/sam1217s/modulo-autenticacion-equipo3/internal/lib/jwt"
	"github.com/sam1217s/modulo-autenticacion-equipo3/internal/lib/password"
	"github.com/sam1217s/modulo-autenticacion-equipo3/internal/lib/sl"
	"github.com/sam1217s/modulo-autenticacion-equipo3/internal/models"
	"github.com/sam1217s/modulo-autenticacion-equipo3/internal/storage"
)

// Sentinel errors of the auth service. Handlers translate these into HTTP
// statuses; everything else becomes an internal error.
var (
	// ErrUsernameTaken is returned when the normalized username is
	// already registered.
	ErrUsernameTaken = errors.New("username already exists")
	// ErrInvalidUsername is returned when the username contains
	// characters outside letters, digits, dots and underscores.
	ErrInvalidUsername = errors.New("username can only contain letters, numbers, dots and underscores")
	// ErrUsernameLength is returned when the normalized username is
	// shorter than 3 or longer than 30 characters.
	ErrUsernameLength = errors.New("username must be between 3 and 30 characters")
	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password, deliberately indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserNotFound is returned when a referenced user no longer exists.
	ErrUserNotFound = errors.New("user not found")
)

var usernameRx = regexp.MustCompile(`^[a-zA-Z0-9._]+$`)

// UserRepository describes the credential store contract used by the
// service.
type UserRepository interface {
	// CreateUser persists a new user and returns the assigned UID.
	CreateUser(ctx context.Context, user models.User) (string, error)

	// GetUserByUsername returns a user by normalized username.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// GetUserByUID returns a user by UID.
	GetUserByUID(ctx context.Context, userUID string) (*models.User, error)

	// UpdateUserProfile applies a partial profile update.
	UpdateUserProfile(ctx context.Context, userUID string, upd models.ProfileUpdate) (*models.User, error)
}

// EventPublisher publishes account lifecycle events to the message broker.
type EventPublisher interface {
	Publish(message any) error
}

// UserRegisteredEvent is published after every successful registration.
type UserRegisteredEvent struct {
	Event        string    `json:"event"`
	UserUID      string    `json:"user_uid"`
	Username     string    `json:"username"`
	RegisteredAt time.Time `json:"registered_at"`
}

// Service implements registration, login and profile operations.
type Service struct {
	users      UserRepository
	jwtMaker   jwt.Maker
	publisher  EventPublisher // nil when no broker is configured
	log        *slog.Logger
	bcryptCost int
}

// NewService creates a Service. publisher may be nil, in which case no
// events are emitted.
func NewService(users UserRepository, jwtMaker jwt.Maker, publisher EventPublisher, log *slog.Logger, bcryptCost int) *Service {
	return &Service{
		users:      users,
		jwtMaker:   jwtMaker,
		publisher:  publisher,
		log:        log,
		bcryptCost: bcryptCost,
	}
}

// Register creates a new user from raw credentials: normalizes the
// username, checks its length and charset, hashes the password and
// persists the user with default profile and preferences. Length runs
// against the normalized value, so surrounding whitespace never counts.
//
// The store is the single source of truth for uniqueness: two concurrent
// registrations of the same name both reach the insert and the second one
// loses, surfacing here as ErrUsernameTaken.
func (s *Service) Register(ctx context.Context, username, rawPassword string) (*models.User, error) {
	const op = "services.auth.Register"

	normalized := models.NormalizeUsername(username)
	if l := len(normalized); l < 3 || l > 30 {
		return nil, ErrUsernameLength
	}
	if !usernameRx.MatchString(normalized) {
		return nil, ErrInvalidUsername
	}

	hashed, err := password.GetHash(rawPassword, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user := models.User{
		Username:     normalized,
		PasswordHash: hashed,
		Profile: models.Profile{
			Avatar: models.DefaultAvatarURL(normalized),
		},
		Preferences: models.Preferences{
			Theme:    models.ThemeLight,
			Language: models.LanguageES,
		},
		Status: models.StatusActive,
	}

	uid, err := s.users.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, storage.ErrUserExists) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user.UID = uid

	s.publishRegistered(&user)

	return &user, nil
}

// Login verifies credentials and issues a bearer token. An unknown
// username and a wrong password both return ErrInvalidCredentials so the
// response cannot be used to enumerate usernames.
func (s *Service) Login(ctx context.Context, username, rawPassword string) (string, *models.User, error) {
	const op = "services.auth.Login"

	user, err := s.users.GetUserByUsername(ctx, models.NormalizeUsername(username))
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.jwtMaker.GenerateToken(user.UID)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	return token, user, nil
}

// GetUser returns the user with the given UID.
func (s *Service) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "services.auth.GetUser"

	user, err := s.users.GetUserByUID(ctx, userUID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// UpdateProfile applies a partial profile update and returns the updated
// user.
func (s *Service) UpdateProfile(ctx context.Context, userUID string, upd models.ProfileUpdate) (*models.User, error) {
	const op = "services.auth.UpdateProfile"

	user, err := s.users.UpdateUserProfile(ctx, userUID, upd)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// publishRegistered emits the user.registered event. Failures are logged
// and ignored: the broker must never fail a registration.
func (s *Service) publishRegistered(user *models.User) {
	if s.publisher == nil {
		return
	}
	event := UserRegisteredEvent{
		Event:        "user.registered",
		UserUID:      user.UID,
		Username:     user.Username,
		RegisteredAt: time.Now().UTC(),
	}
	if err := s.publisher.Publish(event); err != nil {
		s.log.Error("failed to publish user.registered event", sl.Err(err))
	}
}
