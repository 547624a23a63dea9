package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Net-Advantage/ai-showcase/rental/internal/diagnostics"
	"github.com/Net-Advantage/ai-showcase/rental/internal/logger"
	"github.com/Net-Advantage/ai-showcase/rental/internal/models"
	"github.com/Net-Advantage/ai-showcase/rental/internal/repository"
)

// Property defaults
const (
	DefaultPropertyType        = "House"
	DefaultOwnershipPercentage = 1.0
)

// PropertyInput carries property fields to create with or merge.
// Nil fields take their default on create and are left unchanged on update.
type PropertyInput struct {
	DisplayName         *string    `json:"displayName" binding:"omitempty,max=255"`
	AddressLine1        *string    `json:"addressLine1" binding:"omitempty,max=500"`
	City                *string    `json:"city" binding:"omitempty,max=255"`
	PropertyType        *string    `json:"propertyType" binding:"omitempty,max=64"`
	OwnershipPercentage *float64   `json:"ownershipPercentage" binding:"omitempty,gte=0,lte=1"`
	AcquisitionDate     *time.Time `json:"acquisitionDate"`
	DisposalDate        *time.Time `json:"disposalDate"`
	IsMainHome          *bool      `json:"isMainHome"`
	IsNewBuild          *bool      `json:"isNewBuild"`
	IsActive            *bool      `json:"isActive"`
}

// PropertySummary is a property with the state of its current-year workpaper.
type PropertySummary struct {
	Property        *models.Property      `json:"property"`
	Workpaper       *models.Workpaper     `json:"workpaper"`
	Diagnostics     []diagnostics.Finding `json:"diagnostics"`
	HasBlocking     bool                  `json:"hasBlocking"`
	HasWarning      bool                  `json:"hasWarning"`
	NetRentalIncome float64               `json:"netRentalIncome"`
	Status          models.Status         `json:"status"`
}

// PropertyService defines the interface for property business logic operations.
type PropertyService interface {
	// List returns properties in creation order, optionally only active ones.
	List(ctx context.Context, activeOnly bool) ([]models.Property, error)

	// Get returns the property with the given ID.
	// Returns ErrPropertyNotFound if it does not exist.
	Get(ctx context.Context, id string) (*models.Property, error)

	// Create stores a new property together with its current-year workpaper.
	// Returns ErrInvalidInput if the ownership share is outside [0, 1].
	Create(ctx context.Context, actor models.Actor, input PropertyInput) (*models.Property, error)

	// Update merges input into the property.
	Update(ctx context.Context, actor models.Actor, id string, input PropertyInput) (*models.Property, error)

	// Delete soft-deletes the property by clearing its active flag and
	// removes its workpapers and their evidence. The audit trail is kept.
	Delete(ctx context.Context, actor models.Actor, id string) error

	// Summary reports the property's current-year workpaper and its findings.
	Summary(ctx context.Context, id string) (*PropertySummary, error)
}

// propertyService is the concrete implementation of PropertyService.
type propertyService struct {
	store    *repository.Store
	settings SettingsService
	log      *logger.Logger
	now      Clock
}

// NewPropertyService creates a new instance of PropertyService.
func NewPropertyService(store *repository.Store, settings SettingsService, log *logger.Logger) PropertyService {
	return &propertyService{
		store:    store,
		settings: settings,
		log:      log,
		now:      utcNow,
	}
}

func (s *propertyService) List(ctx context.Context, activeOnly bool) ([]models.Property, error) {
	properties, err := s.store.Properties.List(ctx, activeOnly)
	if err != nil {
		return nil, logFailure(s.log, "list properties", err, map[string]interface{}{"active_only": activeOnly})
	}
	return properties, nil
}

func (s *propertyService) Get(ctx context.Context, id string) (*models.Property, error) {
	property, err := s.store.Properties.FindByID(ctx, id)
	if err != nil {
		return nil, logFailure(s.log, "get property", err, map[string]interface{}{"property_id": id})
	}
	if property == nil {
		return nil, ErrPropertyNotFound
	}
	return property, nil
}

func (s *propertyService) Create(ctx context.Context, actor models.Actor, input PropertyInput) (*models.Property, error) {
	actor = actor.OrDefault()
	if err := validateOwnership(input.OwnershipPercentage); err != nil {
		return nil, err
	}

	at := s.now()
	property := &models.Property{
		ID:                  uuid.NewString(),
		PropertyType:        DefaultPropertyType,
		OwnershipPercentage: DefaultOwnershipPercentage,
		IsActive:            true,
		CreatedAt:           at,
		UpdatedAt:           at,
	}
	applyPropertyInput(property, input)
	if strings.TrimSpace(property.PropertyType) == "" {
		property.PropertyType = DefaultPropertyType
	}

	taxYear := s.settings.Resolve(ctx).TaxYear
	var wp *models.Workpaper
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.Properties.Create(ctx, property); err != nil {
			return err
		}
		var err error
		wp, _, err = ensureWorkpaper(ctx, tx, actor, property.ID, taxYear, at)
		return err
	})
	if err != nil {
		return nil, logFailure(s.log, "create property", err, map[string]interface{}{
			"display_name": property.DisplayName,
		})
	}

	s.log.Info("Property created", map[string]interface{}{
		"property_id":  property.ID,
		"workpaper_id": wp.ID,
		"tax_year":     taxYear,
		"user_id":      actor.UserID,
	})
	return property, nil
}

func (s *propertyService) Update(ctx context.Context, actor models.Actor, id string, input PropertyInput) (*models.Property, error) {
	actor = actor.OrDefault()
	if err := validateOwnership(input.OwnershipPercentage); err != nil {
		return nil, err
	}

	unlock := workpaperLocks.Lock(propertyLockKey(id))
	defer unlock()

	var property *models.Property
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		property, err = tx.Properties.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if property == nil {
			return ErrPropertyNotFound
		}
		applyPropertyInput(property, input)
		property.UpdatedAt = s.now()
		return updateProperty(ctx, tx, property)
	})
	if err != nil {
		return nil, logFailure(s.log, "update property", err, map[string]interface{}{"property_id": id})
	}

	s.log.Info("Property updated", map[string]interface{}{
		"property_id": id,
		"user_id":     actor.UserID,
	})
	return property, nil
}

func (s *propertyService) Delete(ctx context.Context, actor models.Actor, id string) error {
	actor = actor.OrDefault()

	unlock := workpaperLocks.Lock(propertyLockKey(id))
	defer unlock()

	var workpaperIDs []string
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		property, err := tx.Properties.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if property == nil {
			return ErrPropertyNotFound
		}

		workpapers, err := tx.Workpapers.ListByProperty(ctx, id)
		if err != nil {
			return err
		}
		for _, wp := range workpapers {
			workpaperIDs = append(workpaperIDs, wp.ID)
		}

		if err := tx.Evidence.DeleteByWorkpapers(ctx, workpaperIDs); err != nil {
			return err
		}
		if err := tx.Workpapers.DeleteByProperty(ctx, id); err != nil {
			return err
		}

		property.IsActive = false
		property.UpdatedAt = s.now()
		return updateProperty(ctx, tx, property)
	})
	if err != nil {
		return logFailure(s.log, "delete property", err, map[string]interface{}{"property_id": id})
	}

	s.log.Info("Property deleted", map[string]interface{}{
		"property_id":        id,
		"workpapers_deleted": len(workpaperIDs),
		"user_id":            actor.UserID,
	})
	return nil
}

func (s *propertyService) Summary(ctx context.Context, id string) (*PropertySummary, error) {
	property, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	taxYear := s.settings.Resolve(ctx).TaxYear
	fields := map[string]interface{}{"property_id": id, "tax_year": taxYear}

	summary := &PropertySummary{
		Property:    property,
		Diagnostics: []diagnostics.Finding{},
		Status:      models.StatusNotStarted,
	}

	wp, err := s.store.Workpapers.FindByPropertyAndYear(ctx, id, taxYear)
	if err != nil {
		return nil, logFailure(s.log, "get workpaper", err, fields)
	}
	if wp == nil {
		return summary, nil
	}

	evidence, err := evidenceFor(ctx, s.store.Evidence, wp)
	if err != nil {
		return nil, logFailure(s.log, "list evidence", err, fields)
	}

	summary.Workpaper = wp
	summary.Diagnostics = diagnostics.Evaluate(wp, evidence)
	summary.HasBlocking = diagnostics.HasSeverity(summary.Diagnostics, diagnostics.SeverityBlocking)
	summary.HasWarning = diagnostics.HasSeverity(summary.Diagnostics, diagnostics.SeverityWarning)
	summary.NetRentalIncome = wp.NetRentalIncome
	summary.Status = wp.Status
	return summary, nil
}

func validateOwnership(v *float64) error {
	if v != nil && (*v < 0 || *v > 1) {
		return fmt.Errorf("%w: ownership percentage must be between 0 and 1, got %f", ErrInvalidInput, *v)
	}
	return nil
}

func applyPropertyInput(p *models.Property, input PropertyInput) {
	if input.DisplayName != nil {
		p.DisplayName = *input.DisplayName
	}
	if input.AddressLine1 != nil {
		p.AddressLine1 = *input.AddressLine1
	}
	if input.City != nil {
		p.City = *input.City
	}
	if input.PropertyType != nil {
		p.PropertyType = *input.PropertyType
	}
	if input.OwnershipPercentage != nil {
		p.OwnershipPercentage = *input.OwnershipPercentage
	}
	if input.AcquisitionDate != nil {
		p.AcquisitionDate = input.AcquisitionDate
	}
	if input.DisposalDate != nil {
		p.DisposalDate = input.DisposalDate
	}
	if input.IsMainHome != nil {
		p.IsMainHome = *input.IsMainHome
	}
	if input.IsNewBuild != nil {
		p.IsNewBuild = *input.IsNewBuild
	}
	if input.IsActive != nil {
		p.IsActive = *input.IsActive
	}
}

// updateProperty stores property, reporting a row removed underneath it as not found.
func updateProperty(ctx context.Context, tx *repository.Store, property *models.Property) error {
	err := tx.Properties.Update(ctx, property)
	if errors.Is(err, repository.ErrStaleRecord) {
		return ErrPropertyNotFound
	}
	return err
}
