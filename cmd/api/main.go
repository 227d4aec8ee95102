package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/nafaymotors/inventory/internal/activity"
	"github.com/nafaymotors/inventory/internal/auth"
	"github.com/nafaymotors/inventory/internal/config"
	"github.com/nafaymotors/inventory/internal/database"
	inventoryHttp "github.com/nafaymotors/inventory/internal/http"
	activityHandler "github.com/nafaymotors/inventory/internal/http/activity"
	dashboardHandler "github.com/nafaymotors/inventory/internal/http/dashboard"
	authMiddleware "github.com/nafaymotors/inventory/internal/http/middleware"
	purchaseHandler "github.com/nafaymotors/inventory/internal/http/purchase"
	userHandler "github.com/nafaymotors/inventory/internal/http/user"
	"github.com/nafaymotors/inventory/internal/purchase"
	purchaseStore "github.com/nafaymotors/inventory/internal/purchase/store"
	"github.com/nafaymotors/inventory/internal/user"
	userStore "github.com/nafaymotors/inventory/internal/user/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	activityLog, err := activity.NewLogger(cfg.Activity.LogsDir)
	if err != nil {
		slog.Error("failed to initialize activity log", "error", err)
		os.Exit(1)
	}

	var (
		purchaseService = purchase.NewService(purchaseStore.New(db))
		userService     = user.NewService(userStore.New(db))
		tokens          = auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.TTL)
	)

	var (
		purchaseH  = purchaseHandler.NewHandler(purchaseService, activityLog)
		userH      = userHandler.NewHandler(userService, tokens, cfg.SecureCookies())
		activityH  = activityHandler.NewHandler(activityLog)
		dashboardH = dashboardHandler.NewHandler(purchaseService)
	)

	router := inventoryHttp.New(
		cfg.CORS.AllowedOrigins,
		authMiddleware.NewAuth(tokens, userService),
		purchaseH,
		userH,
		activityH,
		dashboardH,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	slog.Info("starting server", "app", cfg.App.Name, "addr", server.Addr)

	if err := server.ListenAndServe(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
