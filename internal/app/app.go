package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"go-membership-api/internal/auth"
	"go-membership-api/internal/config"
	"go-membership-api/internal/database"
	"go-membership-api/internal/handler"
	"go-membership-api/internal/middleware"
	"go-membership-api/internal/repository"
	"go-membership-api/internal/router"
	"go-membership-api/internal/service"
	"go-membership-api/internal/storage"
)

type App struct {
	cfg          *config.Config
	server       *http.Server
	db           *database.DB
	cleanupFuncs []func()
}

// New connects to the database, applies migrations when enabled and wires
// every service behind the HTTP router.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	hasher, err := auth.NewPasswordHasher(cfg.PasswordScheme)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize password hasher: %w", err)
	}

	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.JWTAccessTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}

	store, err := storage.New(cfg.UploadRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	if cfg.AutoMigrate {
		if err := Migrate(cfg, func(m *database.Migrator) error { return m.Up() }); err != nil {
			return nil, err
		}
	}

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	organizationRepo := repository.NewOrganizationRepository(db.Pool)
	memberRepo := repository.NewMemberRepository(db.Pool)
	userRepo := repository.NewUserRepository(db.Pool)
	mediaRepo := repository.NewMediaRepository(db.Pool)
	slog.Info("database ready")

	organizationService := service.NewOrganizationService(organizationRepo, memberRepo, hasher, tokens)
	memberService := service.NewMemberService(memberRepo, organizationRepo)
	authService := service.NewAuthService(userRepo, memberRepo, organizationRepo, hasher, tokens)
	mediaService := service.NewMediaService(mediaRepo, memberRepo, organizationRepo, store, cfg.AllowedMIMETypes, cfg.MaxUploadSize)

	appRouter := router.New(cfg, middleware.NewAuthGate(tokens), middleware.NewMetrics(), router.Handlers{
		Health:       handler.NewHealthHandler(db),
		Auth:         handler.NewAuthHandler(authService),
		Organization: handler.NewOrganizationHandler(organizationService, mediaService, cfg.MaxUploadSize),
		Member:       handler.NewMemberHandler(memberService),
		Media:        handler.NewMediaHandler(mediaService, cfg.MaxUploadSize),
	})

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{
		cfg:    cfg,
		server: server,
		db:     db,
		cleanupFuncs: []func(){
			db.Close,
		},
	}, nil
}

// Migrate opens a migrator for cfg, runs fn and closes it again.
func Migrate(cfg *config.Config, fn func(m *database.Migrator) error) (err error) {
	migrator, err := database.NewMigrator(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open migrations: %w", err)
	}
	defer func() {
		if closeErr := migrator.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close migrator: %w", closeErr)
		}
	}()

	if err := fn(migrator); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Run serves until ctx is cancelled or SIGINT/SIGTERM arrives, then shuts
// the server down within the configured timeout.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", a.server.Addr, "env", a.cfg.Environment)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		a.cleanup()
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	shutdownErr := a.server.Shutdown(shutdownCtx)
	a.cleanup()
	if shutdownErr != nil {
		return fmt.Errorf("graceful shutdown failed: %w", shutdownErr)
	}

	slog.Info("server stopped")
	return nil
}

func (a *App) cleanup() {
	for _, fn := range a.cleanupFuncs {
		fn()
	}
}
