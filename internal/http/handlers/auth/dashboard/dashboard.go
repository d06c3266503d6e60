// Package dashboard implements the HTTP handler serving the dashboard
// data payload for the authenticated user.
package dashboard

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
	dashboardservice "github.com/sam1217s/modulo-autenticacion-equipo3/internal/services/dashboard"
)

// UserService is the slice of the auth service used by this handler.
type UserService interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// DataBuilder builds the dashboard payload for a user.
type DataBuilder interface {
	Build(ctx context.Context, user *models.User) *dashboardservice.Data
}

// Handler serves the dashboard payload.
type Handler struct {
	log     *slog.Logger
	users   UserService
	builder DataBuilder
}

// New creates a dashboard Handler.
func New(log *slog.Logger, users UserService, builder DataBuilder) *Handler {
	return &Handler{
		log:     log,
		users:   users,
		builder: builder,
	}
}

// ServeHTTP godoc
// @Summary Dashboard data
// @Description Returns the dashboard payload for the authenticated user.
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dashboard.Data
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse "User not found"
// @Router /api/auth/dashboard [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.dashboard"

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

	user, err := h.users.GetUser(r.Context(), uid)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("User not found"))
			return
		}
		log.Error("failed to fetch user", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Internal server error while fetching dashboard data"))
		return
	}

	render.JSON(w, r, h.builder.Build(r.Context(), user))
}
