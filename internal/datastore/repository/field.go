package repository

import (
	"context"

	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/datastore/entities"
)

// FieldRepository provides access to custom field definitions, their choice options,
// their dependencies and the values stored on observations.
type FieldRepository interface {
	// Create inserts a field and its ordered options in one transaction.
	// A duplicate (lifelist, name) returns an error wrapping ErrDuplicateKey.
	Create(ctx context.Context, field *entities.CustomField, options []entities.FieldOption) error

	// GetByID retrieves a field by ID.
	// Returns ErrFieldNotFound if not found.
	GetByID(ctx context.Context, id uint) (*entities.CustomField, error)

	// ListByLifelist returns all fields of a lifelist ordered by display order, then ID.
	ListByLifelist(ctx context.Context, lifelistID uint) ([]*entities.CustomField, error)

	// OptionsByFields returns the ordered options of the given fields keyed by field ID.
	OptionsByFields(ctx context.Context, fieldIDs []uint) (map[uint][]entities.FieldOption, error)

	// Delete removes a field. Options, dependencies and stored values cascade.
	Delete(ctx context.Context, id uint) error

	// AddDependency stores a dependency edge as-is.
	AddDependency(ctx context.Context, dep *entities.FieldDependency) error

	// Dependencies returns the dependency edges declared by a field.
	Dependencies(ctx context.Context, fieldID uint) ([]*entities.FieldDependency, error)

	// ReplaceValues deletes every stored value of an observation and inserts the non-empty
	// entries of values, atomically.
	ReplaceValues(ctx context.Context, observationID uint, values map[uint]string) error

	// Values returns the stored values of an observation keyed by field ID.
	Values(ctx context.Context, observationID uint) (map[uint]string, error)
}
