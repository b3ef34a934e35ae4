// Package observation records observations of lifelist entries together with their
// custom field values, tags and photos, and aggregates repeated observations of the
// same entry into one summary.
package observation

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/datastore/entities"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/datastore/repository"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/errors"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/fields"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/logger"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/tiers"
)

// AllTiers disables tier filtering in GetFiltered.
const AllTiers = repository.AllTiers

// Input holds the user-editable columns of an observation.
type Input struct {
	LifelistID uint
	EntryName  string
	Date       *time.Time
	Location   string
	Latitude   *float64
	Longitude  *float64
	Tier       string // empty uses the lifelist's first tier
	Notes      string
}

// Filter narrows GetFiltered. Zero values disable each filter.
type Filter struct {
	Tier       string // exact match; "" or AllTiers matches every tier
	TagIDs     []uint // every listed tag must be present
	SearchTerm string // case-insensitive substring of entry name, notes or location
}

// TagInput names a tag to attach; the tag is created with Category when it does not exist.
type TagInput struct {
	Name     string
	Category string
}

// SaveInput is everything written by Save. A zero ID creates a new observation.
type SaveInput struct {
	ID     uint
	Input  Input
	Values map[uint]string // custom field values by field id; replaces all stored values
	Tags   []TagInput      // replaces the observation's tags
	Photos []PhotoInput    // appended; ObservationID is filled in
}

// Service manages observations.
type Service struct {
	store     *repository.Store
	tiers     *tiers.Service
	fields    *fields.Service
	extractor MetadataExtractor
	log       logger.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithMetadataExtractor fills missing photo coordinates and dates from image files.
func WithMetadataExtractor(e MetadataExtractor) Option {
	return func(s *Service) { s.extractor = e }
}

// NewService creates an observation service. The tier and field services must be bound to
// the same store.
func NewService(store *repository.Store, tierSvc *tiers.Service, fieldSvc *fields.Service, log logger.Logger, opts ...Option) *Service {
	s := &Service{
		store:  store,
		tiers:  tierSvc,
		fields: fieldSvc,
		log:    logger.OrDiscard(log).Module("observation"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithStore returns a copy of the service whose dependencies are bound to store.
func (s *Service) WithStore(store *repository.Store) *Service {
	return &Service{
		store:     store,
		tiers:     s.tiers.WithStore(store),
		fields:    s.fields.WithStore(store),
		extractor: s.extractor,
		log:       s.log,
	}
}

// Add records a new observation and returns its id.
func (s *Service) Add(ctx context.Context, in Input) (uint, error) {
	o, err := s.prepare(ctx, in)
	if err != nil {
		return 0, err
	}
	if err := s.store.Observations.Create(ctx, o); err != nil {
		return 0, err
	}

	s.log.Debug("observation added",
		logger.Uint("lifelist_id", o.LifelistID),
		logger.Uint("observation_id", o.ID),
		logger.String("entry", o.EntryName),
		logger.String("tier", o.Tier))
	return o.ID, nil
}

// Update rewrites the editable columns of an observation. The lifelist cannot change.
// Renaming the entry drops any primary-photo pointer that references this observation's
// photos, since the pointer belongs to the old entry.
func (s *Service) Update(ctx context.Context, id uint, in Input) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		current, err := tx.Observations.GetByID(ctx, id)
		if err != nil {
			return err
		}
		in.LifelistID = current.LifelistID

		o, err := s.WithStore(tx).prepare(ctx, in)
		if err != nil {
			return err
		}
		o.ID = id

		if o.EntryName != current.EntryName {
			if err := tx.Photos.ClearPrimaryForObservation(ctx, id); err != nil {
				return err
			}
		}
		return tx.Observations.Update(ctx, o)
	})
}

// Save writes an observation with its field values, tags and photos in one transaction.
// Any failure leaves the store unchanged.
func (s *Service) Save(ctx context.Context, in SaveInput) (uint, error) {
	id := in.ID
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		txs := s.WithStore(tx)

		if id == 0 {
			newID, err := txs.Add(ctx, in.Input)
			if err != nil {
				return err
			}
			id = newID
		} else if err := txs.Update(ctx, id, in.Input); err != nil {
			return err
		}

		o, err := tx.Observations.GetByID(ctx, id)
		if err != nil {
			return err
		}

		descriptors, err := txs.fields.ListFields(ctx, o.LifelistID)
		if err != nil {
			return err
		}
		values, err := fields.NormalizeValues(descriptors, in.Values)
		if err != nil {
			return err
		}
		if err := txs.fields.SetValues(ctx, id, values); err != nil {
			return err
		}

		if err := txs.replaceTags(ctx, id, in.Tags); err != nil {
			return err
		}

		for _, p := range in.Photos {
			p.ObservationID = id
			if _, err := txs.AddPhoto(ctx, p); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.log.Warn("observation save rolled back", logger.Uint("observation_id", in.ID), logger.Error(err))
		return 0, err
	}

	s.log.Info("observation saved",
		logger.Uint("observation_id", id),
		logger.Int("values", len(in.Values)),
		logger.Int("tags", len(in.Tags)),
		logger.Int("photos", len(in.Photos)))
	return id, nil
}

// Get returns an observation by id.
func (s *Service) Get(ctx context.Context, id uint) (*entities.Observation, error) {
	return s.store.Observations.GetByID(ctx, id)
}

// GetFiltered lists a lifelist's observations newest first; undated observations come last.
func (s *Service) GetFiltered(ctx context.Context, lifelistID uint, f Filter) ([]*entities.Observation, error) {
	return s.store.Observations.Filter(ctx, lifelistID, repository.ObservationFilter{
		Tier:   f.Tier,
		TagIDs: f.TagIDs,
		Search: strings.TrimSpace(f.SearchTerm),
	})
}

// ByEntry lists the observations of one entry, newest first.
func (s *Service) ByEntry(ctx context.Context, lifelistID uint, entryName string) ([]*entities.Observation, error) {
	return s.store.Observations.ByEntry(ctx, lifelistID, entryName)
}

// UniqueEntries returns the distinct entry names of a lifelist in alphabetical order.
func (s *Service) UniqueEntries(ctx context.Context, lifelistID uint) ([]string, error) {
	return s.store.Observations.UniqueEntryNames(ctx, lifelistID)
}

// WithCoordinates lists the observations that can be placed on a map.
func (s *Service) WithCoordinates(ctx context.Context, lifelistID uint) ([]*entities.Observation, error) {
	return s.store.Observations.WithCoordinates(ctx, lifelistID)
}

// Count returns the number of observations in a lifelist.
func (s *Service) Count(ctx context.Context, lifelistID uint) (int64, error) {
	return s.store.Observations.CountByLifelist(ctx, lifelistID)
}

// Delete removes an observation with its values, tag links and photo rows, and returns the
// photo file paths. Files are left for the caller to remove.
func (s *Service) Delete(ctx context.Context, id uint) ([]string, error) {
	paths, err := s.store.Observations.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.log.Info("observation deleted", logger.Uint("observation_id", id), logger.Int("photos", len(paths)))
	return paths, nil
}

// Summary lists a lifelist's entries aggregated with GroupByEntry using the lifelist's tier
// order.
func (s *Service) Summary(ctx context.Context, lifelistID uint, f Filter) ([]EntrySummary, error) {
	list, err := s.GetFiltered(ctx, lifelistID, f)
	if err != nil {
		return nil, err
	}
	order, err := s.tiers.GetTiers(ctx, lifelistID)
	if err != nil {
		return nil, err
	}
	_, sorted := GroupByEntry(list, order)
	return sorted, nil
}

// prepare validates in and builds the row to write.
func (s *Service) prepare(ctx context.Context, in Input) (*entities.Observation, error) {
	name := strings.TrimSpace(in.EntryName)
	if name == "" {
		return nil, validationError("entry name is required", "entry_name", in.EntryName)
	}
	if in.Latitude != nil && (*in.Latitude < -90 || *in.Latitude > 90) {
		return nil, validationError("latitude must be within [-90, 90]", "latitude", *in.Latitude)
	}
	if in.Longitude != nil && (*in.Longitude < -180 || *in.Longitude > 180) {
		return nil, validationError("longitude must be within [-180, 180]", "longitude", *in.Longitude)
	}

	tier := strings.TrimSpace(in.Tier)
	if tier == "" {
		var err error
		if tier, err = s.tiers.DefaultTier(ctx, in.LifelistID); err != nil {
			return nil, err
		}
	} else if _, err := s.store.Lifelists.GetByID(ctx, in.LifelistID); err != nil {
		return nil, err
	}

	return &entities.Observation{
		LifelistID:      in.LifelistID,
		EntryName:       name,
		ObservationDate: in.Date,
		Location:        strings.TrimSpace(in.Location),
		Latitude:        in.Latitude,
		Longitude:       in.Longitude,
		Tier:            tier,
		Notes:           in.Notes,
	}, nil
}

// replaceTags makes the observation's tags exactly tags.
func (s *Service) replaceTags(ctx context.Context, observationID uint, tags []TagInput) error {
	current, err := s.store.Tags.ForObservation(ctx, observationID)
	if err != nil {
		return err
	}

	keep := make([]uint, 0, len(tags))
	for _, t := range tags {
		if strings.TrimSpace(t.Name) == "" {
			continue
		}
		tag, err := s.AddTag(ctx, t.Name, t.Category)
		if err != nil {
			return err
		}
		keep = append(keep, tag.ID)
		if _, err := s.store.Tags.AddToObservation(ctx, observationID, tag.ID); err != nil {
			return err
		}
	}

	for _, tag := range current {
		if slices.Contains(keep, tag.ID) {
			continue
		}
		if _, err := s.store.Tags.RemoveFromObservation(ctx, observationID, tag.ID); err != nil {
			return err
		}
	}
	return nil
}

func validationError(message, field string, value any) error {
	return errors.Newf("%w: %s", repository.ErrInvalidInput, message).
		Component("observation").
		Category(errors.CategoryValidation).
		Context("field", field).
		Context("value", value).
		Build()
}
