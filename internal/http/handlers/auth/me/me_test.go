package me

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sam1217s/modulo-autenticacion-equipo3/internal/http/middlewarectx"
	"github.com/sam1217s/modulo-autenticacion-equipo3/internal/models"
	"github.com/sam1217s/modulo-autenticacion-equipo3/internal/services/auth"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func withIdentity(r *http.Request, uid, username string) *http.Request {
	ctx := context.WithValue(r.Context(), middlewarectx.UserUID, uid)
	ctx = context.WithValue(ctx, middlewarectx.Username, username)
	return r.WithContext(ctx)
}

func TestMeHandler_ServeHTTP(t *testing.T) {
	now := time.Now().UTC()
	user := &models.User{
		UID:          "uid-1",
		Username:     "alice_dev",
		PasswordHash: "$2a$12$secret-never-shown",
		Email:        "alice@example.com",
		Profile: models.Profile{
			FirstName: "Alice",
			Avatar:    models.DefaultAvatarURL("alice_dev"),
		},
		Preferences: models.Preferences{Theme: models.ThemeLight, Language: models.LanguageES},
		Status:      models.StatusActive,
		CreatedAt:   now,
	}

	tests := []struct {
		name           string
		withIdentity   bool
		mockUser       *models.User
		mockErr        error
		wantStatusCode int
		wantError      string
	}{
		{
			name:           "authenticated user",
			withIdentity:   true,
			mockUser:       user,
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "missing identity in context",
			withIdentity:   false,
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "Access denied. No token provided.",
		},
		{
			name:           "user deleted after token issuance",
			withIdentity:   true,
			mockErr:        auth.ErrUserNotFound,
			wantStatusCode: http.StatusNotFound,
			wantError:      "User not found",
		},
		{
			name:           "service fault",
			withIdentity:   true,
			mockErr:        errors.New("store unreachable"),
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock := new(ServiceMock)
			if tt.withIdentity {
				serviceMock.On("GetUser", mock.Anything, "uid-1").
					Return(tt.mockUser, tt.mockErr).Once()
			}
			handler := New(newNoopLogger(), serviceMock)

			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			if tt.withIdentity {
				req = withIdentity(req, "uid-1", "alice_dev")
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, body["error"])
				return
			}

			userBody, ok := body["user"].(map[string]any)
			require.True(t, ok)
			assert.Equal(t, "uid-1", userBody["id"])
			assert.Equal(t, "alice_dev", userBody["username"])
			assert.Equal(t, "alice@example.com", userBody["email"])
			assert.Equal(t, "active", userBody["status"])
			assert.NotContains(t, userBody, "password")
			assert.NotContains(t, userBody, "passwordHash")
			assert.NotContains(t, rec.Body.String(), user.PasswordHash)
		})
	}
}
