package repository

import (
	"context"

	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/datastore/entities"
)

// TagRepository provides access to tags, the tag hierarchy and observation tag links.
type TagRepository interface {
	// GetOrCreate returns the tag with the given name, creating it with category if absent.
	// The category of an existing tag is never changed.
	GetOrCreate(ctx context.Context, name, category string) (*entities.Tag, error)

	// GetByID retrieves a tag by ID.
	// Returns ErrTagNotFound if not found.
	GetByID(ctx context.Context, id uint) (*entities.Tag, error)

	// GetByName retrieves a tag by exact name.
	// Returns ErrTagNotFound if not found.
	GetByName(ctx context.Context, name string) (*entities.Tag, error)

	// GetAll returns every tag ordered by category, then name.
	GetAll(ctx context.Context) ([]*entities.Tag, error)

	// Delete removes a tag. Observation links and hierarchy edges cascade.
	Delete(ctx context.Context, id uint) error

	// AddToObservation links a tag to an observation. Returns false when the link already existed.
	AddToObservation(ctx context.Context, observationID, tagID uint) (bool, error)

	// RemoveFromObservation unlinks a tag from an observation. Returns false when there was no link.
	RemoveFromObservation(ctx context.Context, observationID, tagID uint) (bool, error)

	// ForObservation returns the tags of an observation ordered by name.
	ForObservation(ctx context.Context, observationID uint) ([]*entities.Tag, error)

	// ForObservations returns the tags of several observations keyed by observation ID.
	ForObservations(ctx context.Context, observationIDs []uint) (map[uint][]*entities.Tag, error)

	// AddParent records parentID as a parent of tagID. Returns false when the edge already existed.
	AddParent(ctx context.Context, tagID, parentID uint) (bool, error)

	// Parents returns the direct parents of a tag ordered by name.
	Parents(ctx context.Context, tagID uint) ([]*entities.Tag, error)

	// Children returns the direct children of a tag ordered by name.
	Children(ctx context.Context, tagID uint) ([]*entities.Tag, error)
}
