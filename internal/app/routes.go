package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/sam1217s/modulo-autenticacion-equipo3/internal/config"
	dashboardhandler "github.com/sam1217s/modulo-autenticacion-equipo3/internal/http/handlers/auth/dashboard"
	"github.com/sam1217s/modulo-autenticacion-equipo3/internal/http/handlers/auth/login"
	"github.com/sam1217s/modulo-autenticacion-equipo3/internal/http/handlers/auth/logout"
	"github.com/sam1217s/modulo-autenticacion-equipo3/internal/http/handlers/auth/me"
	"github.com/sam1217s/modulo-autenticacion-equipo3/internal/http/handlers/auth/profile"
	"github.com/sam1217s/modulo-autenticacion-equipo3/internal/http/handlers/auth/register"
	"github.com/sam1217s/modulo-autenticacion-equipo3/internal/http/handlers/health"
	"github.com/sam1217s/modulo-autenticacion-equipo3/internal/http/middlewarectx"
	"github.com/sam1217s/modulo-autenticacion-equipo3/internal/lib/jwt"
	authservice "github.com/sam1217s/modulo-autenticacion-equipo3/internal/services/auth"
	dashboardservice "github.com/sam1217s/modulo-autenticacion-equipo3/internal/services/dashboard"
)

// RegisterRoutes registers all routes of the service.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config,
	authService *authservice.Service, dashboardService *dashboardservice.Service, jwtMaker jwt.Maker) {
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.AllowedOrigin},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", health.New(cfg.Env).ServeHTTP)

		r.Route("/auth", func(r chi.Router) {
			// Public endpoints
			r.Post("/register", register.New(logger, authService).ServeHTTP)
			r.Post("/login", login.New(logger, authService).ServeHTTP)

			// Bearer-protected group
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.JWTMiddleware(jwtMaker, authService, logger))
				r.Get("/dashboard", dashboardhandler.New(logger, authService, dashboardService).ServeHTTP)
				r.Get("/me", me.New(logger, authService).ServeHTTP)
				r.Put("/profile", profile.New(logger, authService, dashboardService).ServeHTTP)
				r.Post("/logout", logout.New(logger).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
