package repository

import (
	"context"

	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/datastore/entities"
)

// ClassificationRepository provides access to the classifications of a lifelist.
type ClassificationRepository interface {
	// Create inserts a classification.
	Create(ctx context.Context, c *entities.Classification) error

	// GetByID retrieves a classification by ID.
	// Returns ErrClassificationNotFound if not found.
	GetByID(ctx context.Context, id uint) (*entities.Classification, error)

	// ListByLifelist returns the classifications of a lifelist in creation order.
	ListByLifelist(ctx context.Context, lifelistID uint) ([]*entities.Classification, error)

	// GetActive returns the active classification of a lifelist.
	// Returns ErrNoActiveClassification when none is active.
	GetActive(ctx context.Context, lifelistID uint) (*entities.Classification, error)

	// HasActive reports whether the lifelist has an active classification.
	HasActive(ctx context.Context, lifelistID uint) (bool, error)

	// SetActive clears the active flag of every classification of the lifelist and sets it on
	// id, in one transaction. Returns ErrClassificationNotFound, with nothing changed, when id
	// does not belong to the lifelist.
	SetActive(ctx context.Context, id, lifelistID uint) error

	// Delete removes a classification and, through cascades, its entries.
	Delete(ctx context.Context, id uint) error
}

// EntryMatch is one ranked search hit. MatchRank is 1 for a name prefix match,
// 2 for an alternate name prefix match and 3 for any other substring match.
type EntryMatch struct {
	ID            uint
	Name          string
	AlternateName string
	Category      string
	MatchRank     int
}

// ClassificationEntryRepository provides access to classification entries.
type ClassificationEntryRepository interface {
	// Create inserts one entry.
	Create(ctx context.Context, e *entities.ClassificationEntry) error

	// CreateBatch inserts entries in batches of batchSize inside the caller's transaction scope.
	CreateBatch(ctx context.Context, entries []*entities.ClassificationEntry, batchSize int) error

	// GetByID retrieves an entry by ID.
	// Returns ErrClassificationEntryNotFound if not found.
	GetByID(ctx context.Context, id uint) (*entities.ClassificationEntry, error)

	// ListByClassification returns all entries of a classification in insertion order.
	ListByClassification(ctx context.Context, classificationID uint) ([]*entities.ClassificationEntry, error)

	// SetParent links an entry to a parent entry, or clears the link when parentID is nil.
	SetParent(ctx context.Context, id uint, parentID *uint) error

	// Count returns the number of entries in a classification.
	Count(ctx context.Context, classificationID uint) (int64, error)

	// Search returns up to limit entries whose name or alternate name contains term, ignoring
	// case. Results are ordered by MatchRank, then name, then ID.
	Search(ctx context.Context, classificationID uint, term string, limit int) ([]EntryMatch, error)
}
