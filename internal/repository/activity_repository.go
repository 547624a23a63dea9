package repository

import (
	"context"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"github.com/Net-Advantage/ai-showcase/rental/internal/models"
)

// ActivityRepository defines the data access operations for the audit trail.
// Activities are append-only: there is no update or delete.
type ActivityRepository interface {
	// Append records a new activity, numbering it after the workpaper's
	// last one. Callers serialise appends per workpaper.
	Append(ctx context.Context, activity *models.Activity) error

	// ListByWorkpaper returns the activities of a workpaper, newest first.
	// Activities sharing a timestamp are ordered by sequence.
	ListByWorkpaper(ctx context.Context, workpaperID string) ([]models.Activity, error)
}

// activityRepository is the GORM implementation of ActivityRepository.
type activityRepository struct {
	db *gorm.DB
}

// NewActivityRepository creates a new instance of ActivityRepository.
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Append(ctx context.Context, activity *models.Activity) error {
	var last int64
	err := r.db.WithContext(ctx).Model(&models.Activity{}).
		Where("workpaper_id = ?", activity.WorkpaperID).
		Select("COALESCE(MAX(sequence), 0)").
		Scan(&last).Error
	if err != nil {
		return fmt.Errorf("failed to number activity %s: %w", activity.ID, err)
	}
	activity.Sequence = last + 1

	if err := r.db.WithContext(ctx).Create(activity).Error; err != nil {
		return fmt.Errorf("failed to insert activity %s: %w", activity.ID, err)
	}
	return nil
}

func (r *activityRepository) ListByWorkpaper(ctx context.Context, workpaperID string) ([]models.Activity, error) {
	activities := []models.Activity{}
	err := r.db.WithContext(ctx).
		Where("workpaper_id = ?", workpaperID).
		Order("timestamp DESC").
		Order("sequence DESC").
		Find(&activities).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list activities of workpaper %s: %w", workpaperID, err)
	}

	// SQLite compares timestamps as text, so settle the order on the parsed values.
	sort.SliceStable(activities, func(i, j int) bool {
		a, b := activities[i], activities[j]
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.After(b.Timestamp)
		}
		return a.Sequence > b.Sequence
	})
	return activities, nil
}
