package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Net-Advantage/ai-showcase/rental/internal/models"
)

// settingsRowID is the primary key of the single stored settings row.
const settingsRowID = 1

// SettingsRepository stores the user's overrides of the configured settings.
type SettingsRepository interface {
	// Get returns the stored overrides.
	// Returns nil, nil if nothing has been saved yet.
	Get(ctx context.Context) (*models.SettingsOverride, error)

	// Save replaces the stored overrides.
	Save(ctx context.Context, override *models.SettingsOverride) error
}

// settingsRepository is the GORM implementation of SettingsRepository.
type settingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository creates a new instance of SettingsRepository.
func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) Get(ctx context.Context) (*models.SettingsOverride, error) {
	var override models.SettingsOverride
	err := r.db.WithContext(ctx).Where("id = ?", settingsRowID).First(&override).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}
	return &override, nil
}

func (r *settingsRepository) Save(ctx context.Context, override *models.SettingsOverride) error {
	override.ID = settingsRowID
	if err := r.db.WithContext(ctx).Save(override).Error; err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
