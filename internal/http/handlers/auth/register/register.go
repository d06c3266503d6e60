// Package register implements the HTTP handler creating new user
// accounts.
//
// The Request struct carries the raw credentials; the handler decodes the
// JSON body, validates it, and delegates to the auth service. Validation
// failures never reach the store.
package register

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/sam1217s/modulo-autenticacion-equipo3/internal/http/response"
	"github.com/sam1217s/modulo-autenticacion-equipo3/internal/lib/sl"
	"github.com/sam1217s/modulo-autenticacion-equipo3/internal/metrics"
	"github.com/sam1217s/modulo-autenticacion-equipo3/internal/models"
	"github.com/sam1217s/modulo-autenticacion-equipo3/internal/services/auth"
)

// Request carries the registration input.
type Request struct {
	Username string `json:"username" validate:"required,min=3,max=30"`
	Password string `json:"password" validate:"required,min=6"`
}

// Service is the slice of the auth service used by this handler.
type Service interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
}

// Handler processes registration requests.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New creates a registration Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Register a new user
// @Description Creates an account from username and password. The username is stored normalized (trimmed, lowercased).
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body Request true "Credentials"
// @Success 201 {object} map[string]any "User created"
// @Failure 400 {object} response.ErrorResponse "Validation failed"
// @Failure 409 {object} response.ErrorResponse "Username already exists"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /api/auth/register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		metrics.RegisterTotal.WithLabelValues("validation_error").Inc()
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("Invalid request body"))
		return
	}

	// Length rules apply to the trimmed username: padding would otherwise
	// let a too-short name through and reject a valid name pushed over the
	// maximum by whitespace.
	req.Username = strings.TrimSpace(req.Username)

	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		metrics.RegisterTotal.WithLabelValues("validation_error").Inc()
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	user, err := h.service.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUsernameTaken):
			log.Info("username already exists", slog.String("username", req.Username))
			metrics.RegisterTotal.WithLabelValues("conflict").Inc()
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("Username already exists"))
		case errors.Is(err, auth.ErrInvalidUsername):
			log.Info("invalid username charset", slog.String("username", req.Username))
			metrics.RegisterTotal.WithLabelValues("validation_error").Inc()
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.ValidationFailed("Username can only contain letters, numbers, dots and underscores"))
		case errors.Is(err, auth.ErrUsernameLength):
			log.Info("invalid username length", slog.String("username", req.Username))
			metrics.RegisterTotal.WithLabelValues("validation_error").Inc()
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.ValidationFailed("Username must be between 3 and 30 characters"))
		default:
			log.Error("registration failed", sl.Err(err))
			metrics.RegisterTotal.WithLabelValues("error").Inc()
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Internal server error during registration"))
		}
		return
	}

	log.Info("new user registered", slog.String("username", user.Username))
	metrics.RegisterTotal.WithLabelValues("success").Inc()
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, map[string]any{
		"message": "User registered successfully",
		"user":    user.Identity(),
	})
}
