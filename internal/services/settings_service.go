package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/Net-Advantage/ai-showcase/rental/internal/logger"
	"github.com/Net-Advantage/ai-showcase/rental/internal/models"
	"github.com/Net-Advantage/ai-showcase/rental/internal/repository"
)

// SettingsInput carries a partial settings update. Nil fields are left unchanged.
type SettingsInput struct {
	TaxYear                   *string  `json:"taxYear" binding:"omitempty,min=1,max=16"`
	InterestDeductibilityRate *float64 `json:"interestDeductibilityRate" binding:"omitempty,gte=0,lte=1"`
}

// SettingsService resolves the calculation settings in effect.
type SettingsService interface {
	// Resolve returns the configured defaults with stored overrides applied.
	// A failed read of the overrides is logged and the defaults are returned.
	Resolve(ctx context.Context) models.Settings

	// Defaults returns the configured defaults.
	Defaults() models.Settings

	// Update merges input into the stored overrides and returns the resolved settings.
	// Returns ErrInvalidInput for an empty tax year or a rate outside [0, 1].
	Update(ctx context.Context, input SettingsInput) (models.Settings, error)
}

// settingsService is the concrete implementation of SettingsService.
type settingsService struct {
	repo     repository.SettingsRepository
	defaults models.Settings
	log      *logger.Logger
}

// NewSettingsService creates a new instance of SettingsService.
func NewSettingsService(repo repository.SettingsRepository, defaults models.Settings, log *logger.Logger) SettingsService {
	return &settingsService{
		repo:     repo,
		defaults: defaults,
		log:      log,
	}
}

func (s *settingsService) Defaults() models.Settings {
	return s.defaults
}

func (s *settingsService) Resolve(ctx context.Context) models.Settings {
	override, err := s.repo.Get(ctx)
	if err != nil {
		s.log.Warn("Failed to read stored settings, using defaults", map[string]interface{}{
			"error":    err.Error(),
			"tax_year": s.defaults.TaxYear,
		})
		return s.defaults
	}
	return s.defaults.Merge(override)
}

func (s *settingsService) Update(ctx context.Context, input SettingsInput) (models.Settings, error) {
	if input.TaxYear != nil {
		trimmed := strings.TrimSpace(*input.TaxYear)
		if trimmed == "" {
			return models.Settings{}, fmt.Errorf("%w: tax year must not be empty", ErrInvalidInput)
		}
		input.TaxYear = &trimmed
	}
	if r := input.InterestDeductibilityRate; r != nil && (*r < 0 || *r > 1) {
		return models.Settings{}, fmt.Errorf("%w: interest deductibility rate must be between 0 and 1, got %f",
			ErrInvalidInput, *r)
	}

	override, err := s.repo.Get(ctx)
	if err != nil {
		s.log.Error("Failed to read stored settings", err, nil)
		return models.Settings{}, fmt.Errorf("failed to read settings: %w", err)
	}
	if override == nil {
		override = &models.SettingsOverride{}
	}
	if input.TaxYear != nil {
		override.TaxYear = input.TaxYear
	}
	if input.InterestDeductibilityRate != nil {
		override.InterestDeductibilityRate = input.InterestDeductibilityRate
	}

	if err := s.repo.Save(ctx, override); err != nil {
		s.log.Error("Failed to save settings", err, nil)
		return models.Settings{}, fmt.Errorf("failed to save settings: %w", err)
	}

	resolved := s.defaults.Merge(override)
	s.log.Info("Settings updated", map[string]interface{}{
		"tax_year":                    resolved.TaxYear,
		"interest_deductibility_rate": resolved.InterestDeductibilityRate,
	})
	return resolved, nil
}
