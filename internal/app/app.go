// Package app wires the record store and the services from configuration.
// Both the API server and the admin CLI start from here.
package app

import (
	"context"

	"github.com/Net-Advantage/ai-showcase/rental/internal/config"
	"github.com/Net-Advantage/ai-showcase/rental/internal/database"
	"github.com/Net-Advantage/ai-showcase/rental/internal/logger"
	"github.com/Net-Advantage/ai-showcase/rental/internal/models"
	"github.com/Net-Advantage/ai-showcase/rental/internal/repository"
	"github.com/Net-Advantage/ai-showcase/rental/internal/services"
)

// App holds the open store and the services built on it.
type App struct {
	DB         *database.Database
	Store      *repository.Store
	Settings   services.SettingsService
	Properties services.PropertyService
	Workpapers services.WorkpaperService
	Portfolio  services.PortfolioService
	Actor      models.Actor
}

// New opens and migrates the configured store and builds the services.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	db, err := database.Open(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return Build(db, cfg, log), nil
}

// Build creates the services over an already open and migrated store.
func Build(db *database.Database, cfg *config.Config, log *logger.Logger) *App {
	store := repository.NewStore(db.Gorm)
	settings := services.NewSettingsService(store.Settings, Defaults(cfg), log)
	workpapers := services.NewWorkpaperService(store, settings, log)

	return &App{
		DB:         db,
		Store:      store,
		Settings:   settings,
		Properties: services.NewPropertyService(store, settings, log),
		Workpapers: workpapers,
		Portfolio:  services.NewPortfolioService(store, settings, workpapers, log),
		Actor:      DefaultActor(cfg),
	}
}

// Defaults returns the calculation settings configured for the process.
func Defaults(cfg *config.Config) models.Settings {
	return models.Settings{
		TaxYear:                   cfg.Tax.TaxYear,
		InterestDeductibilityRate: cfg.Tax.InterestDeductibilityRate,
	}
}

// DefaultActor returns the configured implicit current user.
func DefaultActor(cfg *config.Config) models.Actor {
	actor := models.Actor{
		UserID:      cfg.User.DefaultUserID,
		DisplayName: cfg.User.DefaultUserName,
	}
	return actor.OrDefault()
}

// Close releases the store connections.
func (a *App) Close() {
	a.DB.Close()
}
