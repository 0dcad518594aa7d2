package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/chatterboxhq/chatterbox-backend/api/routes"
	"github.com/chatterboxhq/chatterbox-backend/internal/admin"
	"github.com/chatterboxhq/chatterbox-backend/internal/auth"
	"github.com/chatterboxhq/chatterbox-backend/internal/chats"
	"github.com/chatterboxhq/chatterbox-backend/internal/messages"
	"github.com/chatterboxhq/chatterbox-backend/internal/users"
	"github.com/chatterboxhq/chatterbox-backend/pkg/auth/session"
	"github.com/chatterboxhq/chatterbox-backend/pkg/config"
	"github.com/chatterboxhq/chatterbox-backend/pkg/db"
	"github.com/chatterboxhq/chatterbox-backend/pkg/logger"
	"github.com/chatterboxhq/chatterbox-backend/pkg/metrics"
	"github.com/chatterboxhq/chatterbox-backend/pkg/migrate"
	"github.com/chatterboxhq/chatterbox-backend/pkg/openai"
	"github.com/chatterboxhq/chatterbox-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	defer func() {
		if closeErr := multierr.Combine(dbClient.Close(), redisClient.Close()); closeErr != nil {
			logg.Error(context.Background(), "error closing datasources", closeErr)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	aiClient, err := openai.New(cfg.OpenAI)
	if err != nil {
		logg.Error(context.Background(), "failed to create openai client", err)
		os.Exit(1)
	}

	userRepo := users.NewRepository(dbClient.DB())
	chatRepo := chats.NewRepository(dbClient.DB())
	messageRepo := messages.NewRepository(dbClient.DB())

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		Verifier:       auth.NewTokenClaimsVerifier(),
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	chatService, err := chats.NewService(chats.ServiceParams{
		ChatRepo: chatRepo,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create chat service", err)
		os.Exit(1)
	}

	messageService, err := messages.NewService(messages.ServiceParams{
		MessageRepo:  messageRepo,
		AIClient:     aiClient,
		Metrics:      httpMetrics,
		Logger:       logg,
		OpenAIConfig: cfg.OpenAI,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create message service", err)
		os.Exit(1)
	}

	adminService, err := admin.NewService(admin.ServiceParams{
		UserRepo:    userRepo,
		ChatRepo:    chatRepo,
		MessageRepo: messageRepo,
		Logger:      logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create admin service", err)
		os.Exit(1)
	}

	if err := auth.EnsureDefaultAdmin(context.Background(), userRepo, cfg.Admin, cfg.Password, logg); err != nil {
		logg.Error(context.Background(), "failed to seed default admin", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:      cfg,
			Logger:      logg,
			DB:          dbClient,
			Redis:       redisClient,
			Sessions:    sessionManager,
			AuthService: authService,
			UserStore:   userRepo,
			ChatService: chatService,
			MsgService:  messageService,
			AdminSvc:    adminService,
			HTTPMetrics: httpMetrics,
			Gatherer:    registry,
		}),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}
