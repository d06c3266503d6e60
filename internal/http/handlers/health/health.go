// Package health implements the public health check endpoint.
package health

import (
	"net/http"
	"time"

	"github.com/go-chi/render"
)

// Handler serves the health check.
type Handler struct {
	env string
}

// New creates a health Handler reporting the given environment name.
func New(env string) *Handler {
	return &Handler{
		env: env,
	}
}

// ServeHTTP godoc
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]any{
		"message":     "Backend server is running",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"environment": h.env,
	})
}
