package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Net-Advantage/ai-showcase/rental/internal/models"
)

// EvidenceRepository defines the data access operations for evidence metadata.
type EvidenceRepository interface {
	// FindByID returns the evidence record with the given ID.
	// Returns nil, nil if no record is found (not an error).
	FindByID(ctx context.Context, id string) (*models.Evidence, error)

	// ListByWorkpaper returns the evidence uploaded against a workpaper, oldest first.
	ListByWorkpaper(ctx context.Context, workpaperID string) ([]models.Evidence, error)

	// FindByIDs returns the records among ids that exist. Unknown IDs are skipped.
	FindByIDs(ctx context.Context, ids []string) ([]models.Evidence, error)

	// Create inserts a new evidence record.
	Create(ctx context.Context, evidence *models.Evidence) error

	// Delete removes the evidence record with the given ID.
	Delete(ctx context.Context, id string) error

	// DeleteByWorkpapers removes every record owned by the given workpapers.
	DeleteByWorkpapers(ctx context.Context, workpaperIDs []string) error
}

// evidenceRepository is the GORM implementation of EvidenceRepository.
type evidenceRepository struct {
	db *gorm.DB
}

// NewEvidenceRepository creates a new instance of EvidenceRepository.
func NewEvidenceRepository(db *gorm.DB) EvidenceRepository {
	return &evidenceRepository{db: db}
}

func (r *evidenceRepository) FindByID(ctx context.Context, id string) (*models.Evidence, error) {
	var evidence models.Evidence
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&evidence).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query evidence %s: %w", id, err)
	}
	return &evidence, nil
}

func (r *evidenceRepository) ListByWorkpaper(ctx context.Context, workpaperID string) ([]models.Evidence, error) {
	evidence := []models.Evidence{}
	err := r.db.WithContext(ctx).
		Where("workpaper_id = ?", workpaperID).
		Order("uploaded_at ASC, id ASC").
		Find(&evidence).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list evidence of workpaper %s: %w", workpaperID, err)
	}
	return evidence, nil
}

func (r *evidenceRepository) FindByIDs(ctx context.Context, ids []string) ([]models.Evidence, error) {
	evidence := []models.Evidence{}
	if len(ids) == 0 {
		return evidence, nil
	}

	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("uploaded_at ASC, id ASC").
		Find(&evidence).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query evidence by ids: %w", err)
	}
	return evidence, nil
}

func (r *evidenceRepository) Create(ctx context.Context, evidence *models.Evidence) error {
	if err := r.db.WithContext(ctx).Create(evidence).Error; err != nil {
		return fmt.Errorf("failed to insert evidence %s: %w", evidence.ID, err)
	}
	return nil
}

func (r *evidenceRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&models.Evidence{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete evidence %s: %w", id, err)
	}
	return nil
}

func (r *evidenceRepository) DeleteByWorkpapers(ctx context.Context, workpaperIDs []string) error {
	if len(workpaperIDs) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Where("workpaper_id IN ?", workpaperIDs).Delete(&models.Evidence{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete evidence of %d workpaper(s): %w", len(workpaperIDs), err)
	}
	return nil
}
