package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Net-Advantage/ai-showcase/rental/internal/models"
)

// WorkpaperRepository defines the data access operations for workpapers.
// Expense lines are embedded and travel with their workpaper.
type WorkpaperRepository interface {
	// FindByID returns the workpaper with the given ID.
	// Returns nil, nil if no workpaper is found (not an error).
	FindByID(ctx context.Context, id string) (*models.Workpaper, error)

	// FindByPropertyAndYear returns the workpaper of a property for a tax year.
	// Returns nil, nil if none exists.
	FindByPropertyAndYear(ctx context.Context, propertyID, taxYear string) (*models.Workpaper, error)

	// ListByProperty returns every workpaper of a property, oldest first.
	ListByProperty(ctx context.Context, propertyID string) ([]models.Workpaper, error)

	// ListByTaxYear returns every workpaper of a tax year.
	ListByTaxYear(ctx context.Context, taxYear string) ([]models.Workpaper, error)

	// Create inserts a new workpaper.
	Create(ctx context.Context, workpaper *models.Workpaper) error

	// Update overwrites every column of an existing workpaper.
	// Returns ErrStaleRecord if the row is gone.
	Update(ctx context.Context, workpaper *models.Workpaper) error

	// DeleteByProperty removes every workpaper of a property.
	DeleteByProperty(ctx context.Context, propertyID string) error
}

// workpaperRepository is the GORM implementation of WorkpaperRepository.
type workpaperRepository struct {
	db *gorm.DB
}

// NewWorkpaperRepository creates a new instance of WorkpaperRepository.
func NewWorkpaperRepository(db *gorm.DB) WorkpaperRepository {
	return &workpaperRepository{db: db}
}

func (r *workpaperRepository) FindByID(ctx context.Context, id string) (*models.Workpaper, error) {
	return r.first(ctx, r.db.WithContext(ctx).Where("id = ?", id), "workpaper "+id)
}

func (r *workpaperRepository) FindByPropertyAndYear(ctx context.Context, propertyID, taxYear string) (*models.Workpaper, error) {
	query := r.db.WithContext(ctx).Where("property_id = ? AND tax_year = ?", propertyID, taxYear)
	return r.first(ctx, query, fmt.Sprintf("workpaper of property %s for %s", propertyID, taxYear))
}

func (r *workpaperRepository) first(ctx context.Context, query *gorm.DB, what string) (*models.Workpaper, error) {
	var workpaper models.Workpaper
	if err := query.First(&workpaper).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query %s: %w", what, err)
	}
	return &workpaper, nil
}

func (r *workpaperRepository) ListByProperty(ctx context.Context, propertyID string) ([]models.Workpaper, error) {
	workpapers := []models.Workpaper{}
	err := r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("created_at ASC").
		Find(&workpapers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list workpapers of property %s: %w", propertyID, err)
	}
	return workpapers, nil
}

func (r *workpaperRepository) ListByTaxYear(ctx context.Context, taxYear string) ([]models.Workpaper, error) {
	workpapers := []models.Workpaper{}
	err := r.db.WithContext(ctx).
		Where("tax_year = ?", taxYear).
		Order("created_at ASC").
		Find(&workpapers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list workpapers for %s: %w", taxYear, err)
	}
	return workpapers, nil
}

func (r *workpaperRepository) Create(ctx context.Context, workpaper *models.Workpaper) error {
	if err := r.db.WithContext(ctx).Create(workpaper).Error; err != nil {
		return fmt.Errorf("failed to insert workpaper %s: %w", workpaper.ID, err)
	}
	return nil
}

func (r *workpaperRepository) Update(ctx context.Context, workpaper *models.Workpaper) error {
	result := r.db.WithContext(ctx).Model(workpaper).Select("*").Updates(workpaper)
	if result.Error != nil {
		return fmt.Errorf("failed to update workpaper %s: %w", workpaper.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to update workpaper %s: %w", workpaper.ID, ErrStaleRecord)
	}
	return nil
}

func (r *workpaperRepository) DeleteByProperty(ctx context.Context, propertyID string) error {
	err := r.db.WithContext(ctx).Where("property_id = ?", propertyID).Delete(&models.Workpaper{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete workpapers of property %s: %w", propertyID, err)
	}
	return nil
}
