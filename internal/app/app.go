// Package app wires together configuration, storage, cache, broker and
// HTTP server of the auth service.
package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/sam1217s/modulo-autenticacion-equipo3/internal/cache"
	"github.com/sam1217s/modulo-autenticacion-equipo3/internal/config"
	"github.com/sam1217s/modulo-autenticacion-equipo3/internal/lib/jwt"
	"github.com/sam1217s/modulo-autenticacion-equipo3/internal/migrations"
	"github.com/sam1217s/modulo-autenticacion-equipo3/internal/rabbitmq"
	authservice "github.com/sam1217s/modulo-autenticacion-equipo3/internal/services/auth"
	dashboardservice "github.com/sam1217s/modulo-autenticacion-equipo3/internal/services/dashboard"
	"github.com/sam1217s/modulo-autenticacion-equipo3/internal/storage"
)

// App holds the running parts of the service.
type App struct {
	server   *http.Server
	logger   *slog.Logger
	db       *storage.Storage
	amqpConn *amqp.Connection // nil when no broker is configured
}

// New builds the application: connects to Postgres, applies migrations,
// connects to Redis and optionally to RabbitMQ, and assembles the router.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}
	if err = storage.CheckDatabaseReady(db); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	var amqpConn *amqp.Connection
	var publisher authservice.EventPublisher
	if cfg.AMQPURL != "" {
		amqpConn, err = rabbitmq.Connect(cfg.AMQPURL, 5, 2*time.Second)
		if err != nil {
			return nil, err
		}
		pub, err := rabbitmq.NewPublisher(amqpConn)
		if err != nil {
			return nil, err
		}
		publisher = pub
	} else {
		logger.Info("no AMQP URL configured, account events disabled")
	}

	jwtMaker := jwt.NewMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	authService := authservice.NewService(db, jwtMaker, publisher, logger, cfg.BcryptCost)
	dashboardService := dashboardservice.NewService(cacheRedis, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, authService, dashboardService, jwtMaker)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:   srv,
		logger:   logger,
		db:       db,
		amqpConn: amqpConn,
	}, nil
}

// Run serves HTTP until the context is cancelled, then shuts down
// gracefully. Broker and database connections are released on every exit
// path, including a failed ListenAndServe.
func (a *App) Run(ctx context.Context) error {
	defer a.closeResources()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		return a.server.Shutdown(timeoutCtx)
	}
}

func (a *App) closeResources() {
	if a.amqpConn != nil {
		_ = a.amqpConn.Close()
	}
	_ = a.db.DB.Close()
}
