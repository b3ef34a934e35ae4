package observation

import (
	"context"
	"strings"
	"time"

	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/datastore/entities"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/datastore/repository"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/errors"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/logger"
)

// MetadataExtractor reads location and capture time from an image file. Any return value
// may be nil when the file does not carry it.
type MetadataExtractor interface {
	Extract(path string) (lat, lon *float64, taken *time.Time, err error)
}

// PhotoInput describes a photo to attach to an observation.
type PhotoInput struct {
	ObservationID uint
	FilePath      string
	IsPrimary     bool
	Latitude      *float64
	Longitude     *float64
	TakenDate     *time.Time
}

// AddPhoto attaches a photo to an observation. Missing metadata is filled from the
// configured MetadataExtractor; extraction failures are logged and ignored. A primary photo
// becomes the primary photo of the whole entry.
func (s *Service) AddPhoto(ctx context.Context, in PhotoInput) (uint, error) {
	in.FilePath = strings.TrimSpace(in.FilePath)
	if in.FilePath == "" {
		return 0, validationError("photo file path is required", "file_path", in.FilePath)
	}
	s.fillMetadata(&in)

	photo := &entities.Photo{
		ObservationID: in.ObservationID,
		FilePath:      in.FilePath,
		Latitude:      in.Latitude,
		Longitude:     in.Longitude,
		TakenDate:     in.TakenDate,
	}
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		o, err := tx.Observations.GetByID(ctx, in.ObservationID)
		if err != nil {
			return err
		}
		if err := tx.Photos.Create(ctx, photo); err != nil {
			return err
		}
		if in.IsPrimary {
			return tx.Photos.SetPrimary(ctx, photo.ID, o.LifelistID, o.EntryName)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.log.Debug("photo added",
		logger.Uint("observation_id", in.ObservationID),
		logger.Uint("photo_id", photo.ID),
		logger.Bool("primary", in.IsPrimary))
	return photo.ID, nil
}

// Photos returns the photos of one observation.
func (s *Service) Photos(ctx context.Context, observationID uint) ([]*entities.Photo, error) {
	return s.store.Photos.ListByObservation(ctx, observationID)
}

// EntryPhotos returns the photos of every observation of an entry.
func (s *Service) EntryPhotos(ctx context.Context, lifelistID uint, entryName string) ([]*entities.Photo, error) {
	return s.store.Photos.ListByEntry(ctx, lifelistID, entryName)
}

// SetPrimaryPhoto makes photoID the primary photo of the entry that observationID records.
// Every other photo of every observation of that entry stops being primary.
func (s *Service) SetPrimaryPhoto(ctx context.Context, photoID, observationID uint) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		o, err := tx.Observations.GetByID(ctx, observationID)
		if err != nil {
			return err
		}
		photo, err := tx.Photos.GetByID(ctx, photoID)
		if err != nil {
			return err
		}
		owner, err := tx.Observations.GetByID(ctx, photo.ObservationID)
		if err != nil {
			return err
		}
		if owner.LifelistID != o.LifelistID || owner.EntryName != o.EntryName {
			return validationError("photo does not belong to the entry", "photo_id", photoID)
		}
		return tx.Photos.SetPrimary(ctx, photoID, o.LifelistID, o.EntryName)
	})
}

// PrimaryPhoto returns the primary photo of an entry, or any photo of the entry when none is
// marked. Returns repository.ErrPhotoNotFound when the entry has no photos.
func (s *Service) PrimaryPhoto(ctx context.Context, lifelistID uint, entryName string) (*entities.Photo, error) {
	photo, err := s.store.Photos.Primary(ctx, lifelistID, entryName)
	if err == nil {
		return photo, nil
	}
	if !errors.Is(err, repository.ErrPhotoNotFound) {
		return nil, err
	}

	all, err := s.store.Photos.ListByEntry(ctx, lifelistID, entryName)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, errors.New(repository.ErrPhotoNotFound).
			Component("observation").
			Category(errors.CategoryNotFound).
			Context("lifelist_id", lifelistID).
			Context("entry_name", entryName).
			Build()
	}
	return all[0], nil
}

// DeletePhoto removes a photo row and returns its file path. When it was the entry's primary
// photo, the remaining photo of the entry with the lowest id becomes primary.
func (s *Service) DeletePhoto(ctx context.Context, id uint) (string, error) {
	var path string
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		photo, err := tx.Photos.GetByID(ctx, id)
		if err != nil {
			return err
		}
		path = photo.FilePath

		o, err := tx.Observations.GetByID(ctx, photo.ObservationID)
		if err != nil {
			return err
		}

		wasPrimary := photo.IsPrimary
		if current, err := tx.Photos.Primary(ctx, o.LifelistID, o.EntryName); err == nil {
			wasPrimary = current.ID == id
		} else if !errors.Is(err, repository.ErrPhotoNotFound) {
			return err
		}

		if err := tx.Photos.Delete(ctx, id); err != nil {
			return err
		}
		if !wasPrimary {
			return nil
		}

		rest, err := tx.Photos.ListByEntry(ctx, o.LifelistID, o.EntryName)
		if err != nil {
			return err
		}
		if len(rest) == 0 {
			return tx.Photos.ClearPrimary(ctx, o.LifelistID, o.EntryName)
		}
		return tx.Photos.SetPrimary(ctx, rest[0].ID, o.LifelistID, o.EntryName)
	})
	if err != nil {
		return "", err
	}
	return path, nil
}

func (s *Service) fillMetadata(in *PhotoInput) {
	if s.extractor == nil || (in.Latitude != nil && in.Longitude != nil && in.TakenDate != nil) {
		return
	}
	lat, lon, taken, err := s.extractor.Extract(in.FilePath)
	if err != nil {
		s.log.Warn("photo metadata extraction failed",
			logger.String("path", in.FilePath),
			logger.Error(err))
		return
	}
	if in.Latitude == nil && in.Longitude == nil && lat != nil && lon != nil {
		in.Latitude, in.Longitude = lat, lon
	}
	if in.TakenDate == nil {
		in.TakenDate = taken
	}
}
