package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrStaleRecord is returned by Update when the row no longer exists,
// typically because a concurrent delete removed it.
var ErrStaleRecord = errors.New("record no longer exists")

// Store bundles the typed repositories of the five record collections.
type Store struct {
	Properties PropertyRepository
	Workpapers WorkpaperRepository
	Evidence   EvidenceRepository
	Activities ActivityRepository
	Settings   SettingsRepository

	db *gorm.DB
}

// NewStore creates a Store whose repositories share db.
func NewStore(db *gorm.DB) *Store {
	return &Store{
		Properties: NewPropertyRepository(db),
		Workpapers: NewWorkpaperRepository(db),
		Evidence:   NewEvidenceRepository(db),
		Activities: NewActivityRepository(db),
		Settings:   NewSettingsRepository(db),
		db:         db,
	}
}

// Transaction runs fn against a Store bound to a single transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
// A Store assembled without a database (as in tests) runs fn directly.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	if s.db == nil {
		return fn(s)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
