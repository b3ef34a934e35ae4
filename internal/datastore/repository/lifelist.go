package repository

import (
	"context"

	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/datastore/entities"
)

// LifelistRepository provides access to lifelists.
type LifelistRepository interface {
	// Create inserts a lifelist. A duplicate name returns an error wrapping ErrDuplicateKey.
	Create(ctx context.Context, l *entities.Lifelist) error

	// GetByID retrieves a lifelist by ID.
	// Returns ErrLifelistNotFound if not found.
	GetByID(ctx context.Context, id uint) (*entities.Lifelist, error)

	// GetByName retrieves a lifelist by exact name.
	// Returns ErrLifelistNotFound if not found.
	GetByName(ctx context.Context, name string) (*entities.Lifelist, error)

	// GetAll retrieves all lifelists ordered by name.
	GetAll(ctx context.Context) ([]*entities.Lifelist, error)

	// NameExists reports whether a lifelist with the given name exists.
	NameExists(ctx context.Context, name string) (bool, error)

	// Rename changes the name of a lifelist.
	Rename(ctx context.Context, id uint, name string) error

	// Delete removes a lifelist and, through cascades, everything it owns.
	Delete(ctx context.Context, id uint) error
}
