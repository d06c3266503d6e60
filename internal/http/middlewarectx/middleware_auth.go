// Package middlewarectx contains the HTTP middleware guarding the
// bearer-protected endpoints.
//
// JWTMiddleware extracts the bearer token from the Authorization header,
// verifies its signature and expiry, re-fetches the referenced user from
// the credential store and, on success, attaches the verified identity to
// the request context.
//
// Outcomes: no token -> 401; bad signature or expired -> 403; valid token
// but deleted user -> 401; store fault -> 500.
package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/sam1217s/modulo-autenticacion-equipo3/internal/http/response"
	jwtlib "github.com/sam1217s/modulo-autenticacion-equipo3/internal/lib/jwt"
	"github.com/sam1217s/modulo-autenticacion-equipo3/internal/lib/sl"
	"github.com/sam1217s/modulo-autenticacion-equipo3/internal/models"
	"github.com/sam1217s/modulo-autenticacion-equipo3/internal/services/auth"
)

// Key is the type of the request context keys set by this package.
type Key string

const (
	// UserUID is the context key of the verified user identifier.
	UserUID Key = "user_uid"
	// Username is the context key of the verified username.
	Username Key = "username"
)

// UserProvider re-fetches the token's user from the credential store.
type UserProvider interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// Identity returns the verified identity attached by JWTMiddleware.
func Identity(ctx context.Context) (uid, username string, ok bool) {
	uid, okUID := ctx.Value(UserUID).(string)
	username, okName := ctx.Value(Username).(string)
	return uid, username, okUID && okName
}

// JWTMiddleware returns the middleware enforcing bearer authentication.
// Only the id and username of the verified user are propagated to
// downstream handlers.
func JWTMiddleware(maker jwtlib.Maker, users UserProvider, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Info("no bearer token in request")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("Access denied. No token provided."))
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			claims, err := maker.ParseToken(tokenStr)
			if err != nil {
				if errors.Is(err, jwtlib.ErrTokenExpired) {
					log.Info("expired token presented")
					w.WriteHeader(http.StatusForbidden)
					render.JSON(w, r, response.Error("Token has expired"))
					return
				}
				log.Info("invalid token presented", sl.Err(err))
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Error("Invalid token"))
				return
			}

			// A structurally valid token can outlive its account; the
			// store lookup is what catches deleted users.
			user, err := users.GetUser(r.Context(), claims.UserUID())
			if err != nil {
				if errors.Is(err, auth.ErrUserNotFound) {
					log.Info("token references a deleted user")
					w.WriteHeader(http.StatusUnauthorized)
					render.JSON(w, r, response.Error("Token is valid but user no longer exists"))
					return
				}
				log.Error("failed to fetch token user", sl.Err(err))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error("Internal server error during authentication"))
				return
			}

			ctx := context.WithValue(r.Context(), UserUID, user.UID)
			ctx = context.WithValue(ctx, Username, user.Username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
