package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AnthoniusHendriyanto/realm-auth/config"
	"github.com/AnthoniusHendriyanto/realm-auth/db"
	"github.com/AnthoniusHendriyanto/realm-auth/internal/auth/domain"
	"github.com/AnthoniusHendriyanto/realm-auth/internal/auth/handler"
	"github.com/AnthoniusHendriyanto/realm-auth/internal/auth/limiter"
	"github.com/AnthoniusHendriyanto/realm-auth/internal/auth/repository/memory"
	repo "github.com/AnthoniusHendriyanto/realm-auth/internal/auth/repository/postgres"
	"github.com/AnthoniusHendriyanto/realm-auth/internal/auth/service"
	"github.com/AnthoniusHendriyanto/realm-auth/internal/auth/validator"
	"github.com/AnthoniusHendriyanto/realm-auth/internal/logging"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logger := logging.New(os.Stdout, cfg.Env, cfg.LogLevel)

	userRepo, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	loginLimiter, closeLimiter, err := openLimiter(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeLimiter()

	tokenService := service.NewTokenService(cfg.TokenSecret, cfg.TokenIssuer)
	userService := service.NewUserService(userRepo, tokenService, loginLimiter, cfg, logger)
	profileService := service.NewProfileService(userRepo, validator.NewProfileValidator(), logger)
	authHandler := handler.NewAuthHandler(userService, profileService, service.NewGate(tokenService), logger)

	app := fiber.New(fiberConfig(cfg))
	handler.RegisterRoutes(app, authHandler)

	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "listening", "port", cfg.Port, "store", cfg.StoreDriver)
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.ShutdownWithContext(shutdownCtx)
}

// fiberConfig only believes the proxy header when the request comes from one
// of cfg.TrustedProxies. The client address feeds the login throttle key.
func fiberConfig(cfg *config.Config) fiber.Config {
	fc := fiber.Config{
		AppName:               "realm-auth",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
	}
	if len(cfg.TrustedProxies) > 0 {
		fc.EnableTrustedProxyCheck = true
		fc.TrustedProxies = cfg.TrustedProxies
		fc.ProxyHeader = cfg.ProxyHeader
		fc.EnableIPValidation = true
	}
	return fc
}

func openStore(ctx context.Context, cfg *config.Config, logger logging.Logger) (domain.UserRepository, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		pool, err := db.NewPostgresPool(ctx, cfg.DBURL)
		if err != nil {
			return nil, nil, err
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("ping database: %w", err)
		}
		return repo.NewPostgresRepository(pool), pool.Close, nil

	case config.StoreDriverMemory:
		store := memory.NewRepository()
		if cfg.SeedFile != "" {
			n, err := memory.LoadSeed(store, cfg.SeedFile)
			if err != nil {
				return nil, nil, err
			}
			logger.Info(ctx, "seeded memory store", "users", n)
		}
		logger.Warn(ctx, "using in-memory store; data is lost on restart")
		return store, func() {}, nil

	default:
		return nil, nil, errors.New("unknown STORE_DRIVER " + cfg.StoreDriver)
	}
}

func openLimiter(ctx context.Context, cfg *config.Config, logger logging.Logger) (domain.LoginLimiter, func(), error) {
	if cfg.RedisURL == "" {
		logger.Info(ctx, "REDIS_URL not set; login throttling is per process")
		return limiter.NewMemoryLimiter(), func() {}, nil
	}

	client, err := limiter.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	return limiter.NewRedisLimiter(client), func() { _ = client.Close() }, nil
}
