// Package login implements the HTTP handler authenticating users.
//
// On success it returns a signed bearer token plus the public identity.
// An unknown username and a wrong password produce the identical response
// so the endpoint cannot be used to enumerate usernames.
package login

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/sam1217s/modulo-autenticacion-equipo3/internal/http/response"
	"github.com/sam1217s/modulo-autenticacion-equipo3/internal/lib/sl"
	"github.com/sam1217s/modulo-autenticacion-equipo3/internal/metrics"
	"github.com/sam1217s/modulo-autenticacion-equipo3/internal/models"
	"github.com/sam1217s/modulo-autenticacion-equipo3/internal/services/auth"
)

// Request carries the login input. Both fields are required; length rules
// only apply at registration.
type Request struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Service is the slice of the auth service used by this handler.
type Service interface {
	Login(ctx context.Context, username, password string) (string, *models.User, error)
}

// Handler processes login requests.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New creates a login Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Authenticate a user
// @Description Verifies username and password and returns a bearer token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body Request true "Credentials"
// @Success 200 {object} map[string]any "Login successful"
// @Failure 400 {object} response.ErrorResponse "Missing fields"
// @Failure 401 {object} response.ErrorResponse "Invalid credentials"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /api/auth/login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		metrics.LoginTotal.WithLabelValues("bad_request").Inc()
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("Invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		metrics.LoginTotal.WithLabelValues("bad_request").Inc()
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("Username and password are required"))
		return
	}

	token, user, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			// Same message and code for unknown user and wrong password.
			log.Info("invalid credentials", slog.String("username", req.Username))
			metrics.LoginTotal.WithLabelValues("invalid_credentials").Inc()
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("Invalid credentials"))
			return
		}
		log.Error("login failed", sl.Err(err))
		metrics.LoginTotal.WithLabelValues("error").Inc()
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Internal server error during login"))
		return
	}

	log.Info("user logged in", slog.String("username", user.Username))
	metrics.LoginTotal.WithLabelValues("success").Inc()
	render.JSON(w, r, map[string]any{
		"message": "Login successful",
		"token":   token,
		"user":    user.Identity(),
	})
}
