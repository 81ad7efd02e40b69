package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gatewarden/gatewarden/internal/access"
	"github.com/gatewarden/gatewarden/internal/app"
	"github.com/gatewarden/gatewarden/internal/assignments"
	"github.com/gatewarden/gatewarden/internal/auth"
	"github.com/gatewarden/gatewarden/internal/elements"
	"github.com/gatewarden/gatewarden/internal/observability"
	"github.com/gatewarden/gatewarden/internal/platform/cache"
	"github.com/gatewarden/gatewarden/internal/platform/db"
	"github.com/gatewarden/gatewarden/internal/roles"
	"github.com/gatewarden/gatewarden/internal/rules"
	"github.com/gatewarden/gatewarden/internal/shared"
	"github.com/gatewarden/gatewarden/internal/users"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	tokenStore := shared.NewTokenStore(redisClient, dbpool, cfg.TokenTTL)
	auditLogger := shared.NewAuditLogger(dbpool)
	metrics := observability.NewMetrics()

	usersRepo := users.NewRepository(dbpool)
	usersService := users.NewService(usersRepo)

	authService := auth.NewService(usersRepo, tokenStore)
	authMiddleware := auth.Middleware{Tokens: tokenStore, Users: usersRepo, Logger: logger}
	authHandler := auth.NewHandler(logger, authService, authMiddleware)
	guard := authMiddleware.RequireSuperuser

	rolesRepo := roles.NewRepository(dbpool)
	rolesService := roles.NewService(rolesRepo, auditLogger)
	rolesHandler := roles.NewHandler(logger, rolesService, guard)

	elementsRepo := elements.NewRepository(dbpool)
	elementsService := elements.NewService(elementsRepo, auditLogger)
	elementsHandler := elements.NewHandler(logger, elementsService, guard)

	rulesRepo := rules.NewRepository(dbpool)
	rulesService := rules.NewService(rulesRepo, auditLogger)
	rulesHandler := rules.NewHandler(logger, rulesService, guard)

	assignmentsRepo := assignments.NewRepository(dbpool)
	assignmentsService := assignments.NewService(assignmentsRepo, auditLogger)
	assignmentsHandler := assignments.NewHandler(logger, assignmentsService, guard)

	accessService := access.NewService(usersRepo, elementsRepo, assignmentsRepo, rulesRepo)
	accessHandler := access.NewHandler(logger, accessService, metrics, guard)

	usersHandler := users.NewHandler(logger, usersService, guard)

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		AuthMiddleware:     authMiddleware,
		AuthHandler:        authHandler,
		AccessHandler:      accessHandler,
		RolesHandler:       rolesHandler,
		ElementsHandler:    elementsHandler,
		RulesHandler:       rulesHandler,
		UsersHandler:       usersHandler,
		AssignmentsHandler: assignmentsHandler,
		Metrics:            metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
