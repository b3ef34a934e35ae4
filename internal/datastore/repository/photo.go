package repository

import (
	"context"

	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/datastore/entities"
)

// PhotoRepository provides access to photos and the entry primary-photo pointer.
type PhotoRepository interface {
	// Create inserts a photo row. The primary flag is not interpreted; use SetPrimary.
	Create(ctx context.Context, p *entities.Photo) error

	// GetByID retrieves a photo by ID.
	// Returns ErrPhotoNotFound if not found.
	GetByID(ctx context.Context, id uint) (*entities.Photo, error)

	// ListByObservation returns the photos of one observation in insertion order.
	ListByObservation(ctx context.Context, observationID uint) ([]*entities.Photo, error)

	// ListByEntry returns the photos of every observation of an entry in insertion order.
	ListByEntry(ctx context.Context, lifelistID uint, entryName string) ([]*entities.Photo, error)

	// Delete removes a photo row. A pointer referencing it cascades away.
	Delete(ctx context.Context, id uint) error

	// SetPrimary makes photoID the primary photo of the entry, in one transaction: the pointer
	// row is upserted, every photo of every observation of the entry loses its flag and the
	// target gains it.
	SetPrimary(ctx context.Context, photoID, lifelistID uint, entryName string) error

	// ClearPrimary removes the entry's pointer and clears the flags of the entry's photos.
	ClearPrimary(ctx context.Context, lifelistID uint, entryName string) error

	// ClearPrimaryForObservation removes any pointer that references a photo of the
	// observation and clears those photos' flags.
	ClearPrimaryForObservation(ctx context.Context, observationID uint) error

	// Primary returns the photo the entry's pointer references.
	// Returns ErrPhotoNotFound when the entry has no pointer.
	Primary(ctx context.Context, lifelistID uint, entryName string) (*entities.Photo, error)
}
