package repository

import (
	"context"

	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/datastore/entities"
)

// LifelistTypeRepository provides access to lifelist types and their default tiers and fields.
type LifelistTypeRepository interface {
	// Count returns the number of lifelist types.
	Count(ctx context.Context) (int64, error)

	// GetByID retrieves a type by ID.
	// Returns ErrLifelistTypeNotFound if not found.
	GetByID(ctx context.Context, id uint) (*entities.LifelistType, error)

	// GetByName retrieves a type by name, ignoring case.
	// Returns ErrLifelistTypeNotFound if not found.
	GetByName(ctx context.Context, name string) (*entities.LifelistType, error)

	// GetAll retrieves all types in creation order.
	GetAll(ctx context.Context) ([]*entities.LifelistType, error)

	// Create inserts a type together with its default tiers and fields in one transaction.
	// Tier order is the slice index; field IDs and type IDs are filled in.
	Create(ctx context.Context, t *entities.LifelistType, tiers []string, fields []*entities.LifelistTypeField) error

	// GetTiers returns the default tier names of a type in order.
	GetTiers(ctx context.Context, typeID uint) ([]string, error)

	// GetFields returns the default fields of a type ordered by display order.
	GetFields(ctx context.Context, typeID uint) ([]*entities.LifelistTypeField, error)
}
