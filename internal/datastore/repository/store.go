package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store groups the repositories bound to one *gorm.DB (or one transaction).
type Store struct {
	db *gorm.DB

	LifelistTypes   LifelistTypeRepository
	Lifelists       LifelistRepository
	Tiers           TierRepository
	Fields          FieldRepository
	Classifications ClassificationRepository
	Entries         ClassificationEntryRepository
	Observations    ObservationRepository
	Photos          PhotoRepository
	Tags            TagRepository
}

// NewStore creates a Store whose repositories share db.
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:              db,
		LifelistTypes:   NewLifelistTypeRepository(db),
		Lifelists:       NewLifelistRepository(db),
		Tiers:           NewTierRepository(db),
		Fields:          NewFieldRepository(db),
		Classifications: NewClassificationRepository(db),
		Entries:         NewClassificationEntryRepository(db),
		Observations:    NewObservationRepository(db),
		Photos:          NewPhotoRepository(db),
		Tags:            NewTagRepository(db),
	}
}

// DB returns the underlying database handle.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Transaction runs fn with a Store bound to a single transaction. Any error returned
// by fn, or a panic, rolls back every write made through the transactional Store.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
