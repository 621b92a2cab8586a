// Package app assembles the application's stores, services, and handlers.
package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sekhonkennels/kennel-portal/internal/auth"
	"github.com/sekhonkennels/kennel-portal/internal/common"
	"github.com/sekhonkennels/kennel-portal/internal/config"
	"github.com/sekhonkennels/kennel-portal/internal/email"
	"github.com/sekhonkennels/kennel-portal/internal/handlers"
	"github.com/sekhonkennels/kennel-portal/internal/storage/media"
	"github.com/sekhonkennels/kennel-portal/internal/storage/postgres"
)

// App holds all application components and dependencies.
type App struct {
	Config *config.Config
	Logger *common.Logger

	Store    *postgres.Store
	Bucket   *media.MinioStorage
	Sessions *auth.Manager
	Mailer   *email.ResendSender

	// HTTP handlers
	HealthHandler      *handlers.HealthHandler
	VersionHandler     *handlers.VersionHandler
	AuthHandler        *handlers.AuthHandler
	PublicDogHandler   *handlers.PublicDogHandler
	AdminDogHandler    *handlers.AdminDogHandler
	ApplicationHandler *handlers.ApplicationHandler
	ContactHandler     *handlers.ContactHandler
	MediaHandler       *handlers.MediaHandler
	StatsHandler       *handlers.StatsHandler
}

// New initializes the application with all dependencies.
func New(ctx context.Context, cfg *config.Config, logger *common.Logger) (*App, error) {
	a := &App{
		Config: cfg,
		Logger: logger,
	}

	env := strings.ToLower(strings.TrimSpace(cfg.Environment))
	if cfg.IsDevMode() {
		logger.Warn().Msg("RUNNING IN DEV MODE, origin checks and rate limits disabled")
	} else if env != "prod" && env != "" {
		logger.Warn().
			Str("environment", cfg.Environment).
			Msg("unrecognized environment value, defaulting to prod behavior")
	}

	store, err := postgres.Connect(ctx, &cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	a.Store = store

	bucket, err := media.NewMinioStorage(&cfg.Storage)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("connect media storage: %w", err)
	}
	a.Bucket = bucket

	a.Sessions = auth.NewManager(auth.ManagerConfig{
		Lifetime:        time.Duration(cfg.Auth.SessionLifetimeHours) * time.Hour,
		CacheWindow:     time.Duration(cfg.Auth.CacheTTLSeconds) * time.Second,
		CacheMaxEntries: cfg.Auth.CacheMaxEntries,
	}, store.Sessions, logger)

	a.Mailer = email.NewResendSender(&cfg.Email, logger)

	a.initHandlers()

	logger.Info().Msg("application initialization complete")

	return a, nil
}

// initHandlers initializes all HTTP handlers.
func (a *App) initHandlers() {
	secureCookies := !a.Config.IsDevMode()

	a.HealthHandler = handlers.NewHealthHandler(a.Logger)
	a.VersionHandler = handlers.NewVersionHandler(a.Logger)
	a.AuthHandler = handlers.NewAuthHandler(a.Logger, a.Store.Users, a.Sessions, secureCookies)
	a.PublicDogHandler = handlers.NewPublicDogHandler(a.Logger, a.Store.Dogs)
	a.AdminDogHandler = handlers.NewAdminDogHandler(a.Logger, a.Store.Dogs, a.Bucket)
	a.ApplicationHandler = handlers.NewApplicationHandler(
		a.Logger, a.Store.Applications, a.Store.Dogs, a.Mailer, a.Config.Email.AdminEmail)
	a.ContactHandler = handlers.NewContactHandler(a.Logger, a.Mailer, a.Config.Email.AdminEmail)
	a.MediaHandler = handlers.NewMediaHandler(a.Logger, a.Bucket, a.Store.Dogs)
	a.StatsHandler = handlers.NewStatsHandler(a.Logger, a.Store)

	a.Logger.Debug().Msg("HTTP handlers initialized")
}

// Close closes all application resources.
func (a *App) Close() error {
	if a.Store != nil {
		a.Store.Close()
	}
	return nil
}
