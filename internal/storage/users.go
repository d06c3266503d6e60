package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/sam1217s/modulo-autenticacion-equipo3/internal/models"
)

const userColumns = `uid, username, password_hash, email, first_name, last_name,
	       avatar, theme, language, status, last_login, created_at, updated_at`

// CreateUser inserts a new user and returns the UID assigned by the
// database. The username must already be normalized by the caller. A
// concurrent insert of the same username loses at the unique index and
// comes back as ErrUserExists.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO users (username, password_hash, email, first_name, last_name,
			      avatar, theme, language, status)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Username, user.PasswordHash, nullableString(user.Email),
		nullableString(user.Profile.FirstName), nullableString(user.Profile.LastName),
		user.Profile.Avatar, user.Preferences.Theme, user.Preferences.Language,
		user.Status).Scan(&newUID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return "", fmt.Errorf("%s: %w", op, ErrUserExists)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetUserByUsername returns the user with the given normalized username,
// or ErrUserNotFound.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE username = $1`
	return s.scanUser(op, s.DB.QueryRowContext(ctx, query, username))
}

// GetUserByUID returns the user with the given UID, or ErrUserNotFound.
func (s *Storage) GetUserByUID(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUserByUID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE uid = $1`
	return s.scanUser(op, s.DB.QueryRowContext(ctx, query, userUID))
}

// UpdateUserProfile applies a partial profile update and returns the
// updated user. Nil fields keep their current value; updated_at is always
// refreshed.
func (s *Storage) UpdateUserProfile(ctx context.Context, userUID string, upd models.ProfileUpdate) (*models.User, error) {
	const op = "storage.UpdateUserProfile"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET first_name = COALESCE($2, first_name),
			      last_name  = COALESCE($3, last_name),
			      email      = COALESCE($4, email),
			      theme      = COALESCE($5, theme),
			      language   = COALESCE($6, language),
			      updated_at = now()
			  WHERE uid = $1
			  RETURNING ` + userColumns
	return s.scanUser(op, s.DB.QueryRowContext(ctx, query, userUID,
		upd.FirstName, upd.LastName, upd.Email, upd.Theme, upd.Language))
}

func (s *Storage) scanUser(op string, row *sql.Row) (*models.User, error) {
	u := &models.User{}
	var email, firstName, lastName sql.NullString
	var lastLogin sql.NullTime
	if err := row.Scan(&u.UID, &u.Username, &u.PasswordHash, &email,
		&firstName, &lastName, &u.Profile.Avatar,
		&u.Preferences.Theme, &u.Preferences.Language, &u.Status,
		&lastLogin, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	u.Email = email.String
	u.Profile.FirstName = firstName.String
	u.Profile.LastName = lastName.String
	if lastLogin.Valid {
		u.LastLogin = &lastLogin.Time
	}
	return u, nil
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
