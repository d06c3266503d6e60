// Package profile implements the HTTP handler applying partial profile
// updates for the authenticated user.
package profile

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/sam1217s/modulo-autenticacion-equipo3/internal/http/middlewarectx"
	"github.com/sam1217s/modulo-autenticacion-equipo3/internal/http/response"
	"github.com/sam1217s/modulo-autenticacion-equipo3/internal/lib/sl"
	"github.com/sam1217s/modulo-autenticacion-equipo3/internal/models"
	"github.com/sam1217s/modulo-autenticacion-equipo3/internal/services/auth"
)

// PreferencesRequest carries optional preference changes.
type PreferencesRequest struct {
	Theme    *string `json:"theme" validate:"omitempty,oneof=light dark auto"`
	Language *string `json:"language" validate:"omitempty,oneof=es en"`
}

// Request carries a partial profile update. Absent fields keep their
// current value.
type Request struct {
	FirstName   *string             `json:"firstName" validate:"omitempty,max=50"`
	LastName    *string             `json:"lastName" validate:"omitempty,max=50"`
	Email       *string             `json:"email" validate:"omitempty,email"`
	Preferences *PreferencesRequest `json:"preferences"`
}

// Service is the slice of the auth service used by this handler.
type Service interface {
	UpdateProfile(ctx context.Context, userUID string, upd models.ProfileUpdate) (*models.User, error)
}

// CacheInvalidator drops cached payloads derived from the profile.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, userUID string)
}

// Handler processes profile updates.
type Handler struct {
	log       *slog.Logger
	service   Service
	dashboard CacheInvalidator
	validate  *validator.Validate
}

// New creates a profile Handler.
func New(log *slog.Logger, service Service, dashboard CacheInvalidator) *Handler {
	return &Handler{
		log:       log,
		service:   service,
		dashboard: dashboard,
		validate:  validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Update profile
// @Description Applies a partial update of first name, last name, email and preferences.
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Fields to update"
// @Success 200 {object} map[string]any "Profile updated"
// @Failure 400 {object} response.ErrorResponse "Validation failed"
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse "User not found"
// @Router /api/auth/profile [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.profile"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	uid, _, ok := middlewarectx.Identity(r.Context())
	if !ok {
		log.Error("identity missing from request context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("Access denied. No token provided."))
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("Invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	upd := models.ProfileUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	}
	if req.Preferences != nil {
		upd.Theme = req.Preferences.Theme
		upd.Language = req.Preferences.Language
	}

	user, err := h.service.UpdateProfile(r.Context(), uid, upd)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("User not found"))
			return
		}
		log.Error("profile update failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Internal server error"))
		return
	}

	// The dashboard user block embeds profile fields.
	h.dashboard.Invalidate(r.Context(), uid)

	log.Info("profile updated", slog.String("username", user.Username))
	render.JSON(w, r, map[string]any{
		"message": "Profile updated successfully",
		"user":    user.Safe(),
	})
}
