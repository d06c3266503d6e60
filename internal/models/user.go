// Package models contains the domain model for service users: account
// credentials, profile, preferences and the client-safe representation.
// The password hash never appears in any client-facing view.
package models

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Theme values accepted in user preferences.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
	ThemeAuto  = "auto"
)

// Interface languages accepted in user preferences.
const (
	LanguageES = "es"
	LanguageEN = "en"
)

// Account statuses. Login and the auth middleware do not consult the
// status; it is stored and returned to the client as is.
const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusSuspended = "suspended"
)

// Profile holds the optional profile sub-record of a user.
type Profile struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Avatar    string `json:"avatar"`
}

// Preferences holds per-user interface settings.
type Preferences struct {
	Theme    string `json:"theme"`
	Language string `json:"language"`
}

// User represents a registered user of the service.
type User struct {
	UID          string      // Unique identifier, assigned by the database at creation
	Username     string      // Stored normalized (trim + lowercase), unique
	PasswordHash string      // bcrypt hash, never serialized
	Email        string      // Optional
	Profile      Profile
	Preferences  Preferences
	Status       string
	LastLogin    *time.Time // Never written by the login flow
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity is the public id+username pair returned by register and login.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// SafeView is the client-facing representation of a user, without the
// password hash.
type SafeView struct {
	ID          string      `json:"id"`
	Username    string      `json:"username"`
	Email       string      `json:"email,omitempty"`
	Profile     Profile     `json:"profile"`
	Preferences Preferences `json:"preferences"`
	Status      string      `json:"status"`
	LastLogin   *time.Time  `json:"lastLogin"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// ProfileUpdate describes a partial profile update. Nil fields are left
// unchanged.
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	Email     *string
	Theme     *string
	Language  *string
}

// Identity returns the public id+username pair for the user.
func (u *User) Identity() Identity {
	return Identity{ID: u.UID, Username: u.Username}
}

// Safe returns the user without the password hash.
func (u *User) Safe() SafeView {
	return SafeView{
		ID:          u.UID,
		Username:    u.Username,
		Email:       u.Email,
		Profile:     u.Profile,
		Preferences: u.Preferences,
		Status:      u.Status,
		LastLogin:   u.LastLogin,
		CreatedAt:   u.CreatedAt,
	}
}

// NormalizeUsername brings a username to its canonical form: trimmed and
// lowercased. Applied before every comparison and before every write.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// DefaultAvatarURL returns the avatar URL derived deterministically from
// the username, used when no avatar was provided.
func DefaultAvatarURL(username string) string {
	return fmt.Sprintf(
		"https://ui-avatars.com/api/?name=%s&background=6366f1&color=fff&size=128",
		url.QueryEscape(username),
	)
}
