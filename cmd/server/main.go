package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Net-Advantage/ai-showcase/rental/internal/app"
	"github.com/Net-Advantage/ai-showcase/rental/internal/config"
	"github.com/Net-Advantage/ai-showcase/rental/internal/handlers"
	"github.com/Net-Advantage/ai-showcase/rental/internal/logger"
	"github.com/Net-Advantage/ai-showcase/rental/internal/middleware"
)

const (
	shutdownTimeout = 30 * time.Second
)

func main() {
	// Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewWithConfig(cfg.Server.Env, cfg.Log)
	log.Info("Starting Rental Workpaper API", map[string]interface{}{
		"version":     handlers.APIVersion,
		"environment": cfg.Server.Env,
		"port":        cfg.Server.Port,
		"store":       cfg.Store.Driver,
		"tax_year":    cfg.Tax.TaxYear,
	})

	ctx := context.Background()
	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to open record store", err, map[string]interface{}{
			"driver": cfg.Store.Driver,
		})
	}
	defer a.Close()

	log.Info("Record store ready", map[string]interface{}{
		"driver": cfg.Store.Driver,
	})

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Order matters: RequestID -> Logger -> Recovery -> CORS -> Actor
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS(cfg.CORS.Origins))
	router.Use(middleware.Actor(a.Actor))

	healthHandler := handlers.NewHealthHandler(a.DB, cfg.Store.Driver, cfg.Server.Env)
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)
	router.GET("/api/v1/info", healthHandler.Info)

	v1 := router.Group("/api/v1")
	handlers.NewSettingsHandler(a.Settings).Register(v1)
	handlers.NewPropertyHandler(a.Properties).Register(v1)
	handlers.NewWorkpaperHandler(a.Workpapers).Register(v1)
	handlers.NewPortfolioHandler(a.Portfolio).Register(v1)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Server listening", map[string]interface{}{
			"port": cfg.Server.Port,
			"addr": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", err, nil)
		}
	}()

	// Wait for interrupt signal (SIGINT or SIGTERM)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err, map[string]interface{}{
			"timeout": shutdownTimeout.String(),
		})
	}

	log.Info("Server exited", nil)
}
