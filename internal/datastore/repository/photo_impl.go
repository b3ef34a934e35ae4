package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/datastore/entities"
)

// photoRepository implements PhotoRepository.
type photoRepository struct {
	db *gorm.DB
}

// NewPhotoRepository creates a new PhotoRepository.
func NewPhotoRepository(db *gorm.DB) PhotoRepository {
	return &photoRepository{db: db}
}

func (r *photoRepository) Create(ctx context.Context, p *entities.Photo) error {
	err := r.db.WithContext(ctx).Create(p).Error
	return dbError(err, "create_photo", "observation_id", p.ObservationID)
}

func (r *photoRepository) GetByID(ctx context.Context, id uint) (*entities.Photo, error) {
	var p entities.Photo
	err := r.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFoundError(ErrPhotoNotFound, "photo", id)
	}
	if err != nil {
		return nil, dbError(err, "get_photo", "id", id)
	}
	return &p, nil
}

func (r *photoRepository) ListByObservation(ctx context.Context, observationID uint) ([]*entities.Photo, error) {
	var photos []*entities.Photo
	err := r.db.WithContext(ctx).
		Where("observation_id = ?", observationID).
		Order("id ASC").
		Find(&photos).Error
	return photos, dbError(err, "list_photos", "observation_id", observationID)
}

func (r *photoRepository) ListByEntry(ctx context.Context, lifelistID uint, entryName string) ([]*entities.Photo, error) {
	var photos []*entities.Photo
	err := r.db.WithContext(ctx).
		Where("observation_id IN (?)", entryObservationIDs(r.db, lifelistID, entryName)).
		Order("id ASC").
		Find(&photos).Error
	return photos, dbError(err, "list_entry_photos", "lifelist_id", lifelistID, "entry_name", entryName)
}

func (r *photoRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&entities.Photo{}, id)
	if result.Error != nil {
		return dbError(result.Error, "delete_photo", "id", id)
	}
	if result.RowsAffected == 0 {
		return notFoundError(ErrPhotoNotFound, "photo", id)
	}
	return nil
}

func (r *photoRepository) SetPrimary(ctx context.Context, photoID, lifelistID uint, entryName string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// A photo can head at most one entry; drop a pointer left under a previous entry name.
		if err := tx.Where("photo_id = ?", photoID).Delete(&entities.EntryPrimaryPhoto{}).Error; err != nil {
			return err
		}

		pointer := entities.EntryPrimaryPhoto{
			LifelistID: lifelistID,
			EntryName:  entryName,
			PhotoID:    photoID,
			UpdatedAt:  time.Now(),
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "lifelist_id"}, {Name: "entry_name"}},
			DoUpdates: clause.AssignmentColumns([]string{"photo_id", "updated_at"}),
		}).Create(&pointer).Error; err != nil {
			return err
		}

		if err := tx.Model(&entities.Photo{}).
			Where("observation_id IN (?)", entryObservationIDs(tx, lifelistID, entryName)).
			Update("is_primary", false).Error; err != nil {
			return err
		}

		return tx.Model(&entities.Photo{}).
			Where("id = ?", photoID).
			Update("is_primary", true).Error
	})
	return dbError(err, "set_primary_photo", "photo_id", photoID, "lifelist_id", lifelistID, "entry_name", entryName)
}

func (r *photoRepository) ClearPrimary(ctx context.Context, lifelistID uint, entryName string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("lifelist_id = ? AND entry_name = ?", lifelistID, entryName).
			Delete(&entities.EntryPrimaryPhoto{}).Error; err != nil {
			return err
		}
		return tx.Model(&entities.Photo{}).
			Where("observation_id IN (?)", entryObservationIDs(tx, lifelistID, entryName)).
			Update("is_primary", false).Error
	})
	return dbError(err, "clear_primary_photo", "lifelist_id", lifelistID, "entry_name", entryName)
}

func (r *photoRepository) ClearPrimaryForObservation(ctx context.Context, observationID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		photoIDs := tx.Model(&entities.Photo{}).Select("id").Where("observation_id = ?", observationID)
		if err := tx.Where("photo_id IN (?)", photoIDs).Delete(&entities.EntryPrimaryPhoto{}).Error; err != nil {
			return err
		}
		return tx.Model(&entities.Photo{}).
			Where("observation_id = ?", observationID).
			Update("is_primary", false).Error
	})
	return dbError(err, "clear_observation_primary_photo", "observation_id", observationID)
}

func (r *photoRepository) Primary(ctx context.Context, lifelistID uint, entryName string) (*entities.Photo, error) {
	var p entities.Photo
	err := r.db.WithContext(ctx).
		Joins("JOIN entry_primary_photos ON entry_primary_photos.photo_id = photos.id").
		Where("entry_primary_photos.lifelist_id = ? AND entry_primary_photos.entry_name = ?", lifelistID, entryName).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFoundError(ErrPhotoNotFound, "primary_photo", entryName)
	}
	if err != nil {
		return nil, dbError(err, "get_primary_photo", "lifelist_id", lifelistID, "entry_name", entryName)
	}
	return &p, nil
}

// entryObservationIDs is a subquery selecting the IDs of every observation of an entry.
func entryObservationIDs(db *gorm.DB, lifelistID uint, entryName string) *gorm.DB {
	return db.Session(&gorm.Session{NewDB: true}).
		Model(&entities.Observation{}).
		Select("id").
		Where("lifelist_id = ? AND entry_name = ?", lifelistID, entryName)
}
