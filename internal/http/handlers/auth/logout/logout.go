// Package logout implements the HTTP logout handler.
//
// Sessions are stateless bearer tokens, so logout has no server-side
// effect: the client discards its token. The endpoint still sits behind
// the auth gate so only an authenticated caller gets the confirmation.
package logout

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/sam1217s/modulo-autenticacion-equipo3/internal/http/middlewarectx"
)

// Handler processes logout requests.
type Handler struct {
	log *slog.Logger
}

// New creates a logout Handler.
func New(log *slog.Logger) *Handler {
	return &Handler{
		log: log,
	}
}

// ServeHTTP godoc
// @Summary Logout
// @Description Stateless logout; the client discards the token.
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 401 {object} response.ErrorResponse
// @Router /api/auth/logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	_, username, _ := middlewarectx.Identity(r.Context())
	h.log.Info("user logged out",
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("username", username),
	)

	render.JSON(w, r, map[string]any{
		"message": "Logged out successfully",
	})
}
