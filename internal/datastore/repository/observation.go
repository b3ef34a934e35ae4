package repository

import (
	"context"

	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/datastore/entities"
)

// AllTiers is the tier filter value that disables tier filtering.
const AllTiers = "All"

// ObservationFilter narrows an observation listing. Zero values disable each filter.
type ObservationFilter struct {
	Tier   string // exact match; "" or AllTiers matches every tier
	TagIDs []uint // observation must carry every listed tag
	Search string // case-insensitive substring of entry name, notes or location
}

// ObservationRepository provides access to observations.
type ObservationRepository interface {
	// Create inserts an observation.
	Create(ctx context.Context, o *entities.Observation) error

	// Update writes every user-editable column of o.
	// Returns ErrObservationNotFound if o.ID does not exist.
	Update(ctx context.Context, o *entities.Observation) error

	// GetByID retrieves an observation by ID.
	// Returns ErrObservationNotFound if not found.
	GetByID(ctx context.Context, id uint) (*entities.Observation, error)

	// Delete removes an observation and returns the file paths of its photos.
	// Photos, field values and tag links cascade; files on disk are left alone.
	Delete(ctx context.Context, id uint) ([]string, error)

	// Filter lists a lifelist's observations, newest first. Observations without a date sort
	// last because both SQLite and MySQL order NULL below every value; ID DESC breaks ties.
	Filter(ctx context.Context, lifelistID uint, filter ObservationFilter) ([]*entities.Observation, error)

	// ByEntry lists every observation of one entry, newest first.
	ByEntry(ctx context.Context, lifelistID uint, entryName string) ([]*entities.Observation, error)

	// UniqueEntryNames returns the distinct entry names of a lifelist in alphabetical order.
	UniqueEntryNames(ctx context.Context, lifelistID uint) ([]string, error)

	// WithCoordinates lists the observations of a lifelist that carry both latitude and longitude.
	WithCoordinates(ctx context.Context, lifelistID uint) ([]*entities.Observation, error)

	// CountByLifelist returns the number of observations in a lifelist.
	CountByLifelist(ctx context.Context, lifelistID uint) (int64, error)
}
