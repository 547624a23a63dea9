package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Net-Advantage/ai-showcase/rental/internal/models"
)

// PropertyRepository defines the data access operations for properties.
type PropertyRepository interface {
	// FindByID returns the property with the given ID.
	// Returns nil, nil if no property is found (not an error).
	FindByID(ctx context.Context, id string) (*models.Property, error)

	// List returns properties ordered by creation time.
	// When activeOnly is set, deactivated properties are left out.
	List(ctx context.Context, activeOnly bool) ([]models.Property, error)

	// Create inserts a new property.
	Create(ctx context.Context, property *models.Property) error

	// Update overwrites every column of an existing property.
	// Returns ErrStaleRecord if the row is gone.
	Update(ctx context.Context, property *models.Property) error
}

// propertyRepository is the GORM implementation of PropertyRepository.
type propertyRepository struct {
	db *gorm.DB
}

// NewPropertyRepository creates a new instance of PropertyRepository.
func NewPropertyRepository(db *gorm.DB) PropertyRepository {
	return &propertyRepository{db: db}
}

func (r *propertyRepository) FindByID(ctx context.Context, id string) (*models.Property, error) {
	var property models.Property
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&property).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query property %s: %w", id, err)
	}
	return &property, nil
}

func (r *propertyRepository) List(ctx context.Context, activeOnly bool) ([]models.Property, error) {
	query := r.db.WithContext(ctx).Order("created_at ASC, id ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	properties := []models.Property{}
	if err := query.Find(&properties).Error; err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	return properties, nil
}

func (r *propertyRepository) Create(ctx context.Context, property *models.Property) error {
	if err := r.db.WithContext(ctx).Create(property).Error; err != nil {
		return fmt.Errorf("failed to insert property %s: %w", property.ID, err)
	}
	return nil
}

func (r *propertyRepository) Update(ctx context.Context, property *models.Property) error {
	result := r.db.WithContext(ctx).Model(property).Select("*").Updates(property)
	if result.Error != nil {
		return fmt.Errorf("failed to update property %s: %w", property.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to update property %s: %w", property.ID, ErrStaleRecord)
	}
	return nil
}
