// Package me implements the HTTP handler returning the authenticated
// user's full safe profile.
package me

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/sam1217s/modulo-autenticacion-equipo3/internal/http/middlewarectx"
	"github.com/sam1217s/modulo-autenticacion-equipo3/internal/http/response"
	"github.com/sam1217s/modulo-autenticacion-equipo3/internal/lib/sl"
	"github.com/sam1217s/modulo-autenticacion-equipo3/internal/models"
	"github.com/sam1217s/modulo-autenticacion-equipo3/internal/services/auth"
)

// Service is the slice of the auth service used by this handler.
type Service interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// Handler serves the current user's profile.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New creates a profile Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Current user profile
// @Description Returns the full safe profile of the authenticated user.
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse "User not found"
// @Router /api/auth/me [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.me"

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

	user, err := h.service.GetUser(r.Context(), uid)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("User not found"))
			return
		}
		log.Error("failed to fetch user", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Internal server error"))
		return
	}

	render.JSON(w, r, map[string]any{
		"user": user.Safe(),
	})
}
