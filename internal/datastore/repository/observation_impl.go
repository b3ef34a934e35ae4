package repository

import (
	"context"
	"errors"
	"slices"
	"strings"

	"gorm.io/gorm"

	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/datastore/entities"
)

// observationRepository implements ObservationRepository.
type observationRepository struct {
	db *gorm.DB
}

// NewObservationRepository creates a new ObservationRepository.
func NewObservationRepository(db *gorm.DB) ObservationRepository {
	return &observationRepository{db: db}
}

// editableObservationColumns are written by Update. Select forces zero values through.
var editableObservationColumns = []string{
	"entry_name", "observation_date", "location", "latitude", "longitude", "tier", "notes", "search_text",
}

func (r *observationRepository) Create(ctx context.Context, o *entities.Observation) error {
	err := r.db.WithContext(ctx).Create(o).Error
	return dbError(err, "create_observation", "lifelist_id", o.LifelistID, "entry_name", o.EntryName)
}

func (r *observationRepository) Update(ctx context.Context, o *entities.Observation) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.Observation{}).Where("id = ?", o.ID).Count(&count).Error; err != nil {
		return dbError(err, "update_observation", "id", o.ID)
	}
	if count == 0 {
		return notFoundError(ErrObservationNotFound, "observation", o.ID)
	}

	err := r.db.WithContext(ctx).Model(o).Select(editableObservationColumns).Updates(o).Error
	return dbError(err, "update_observation", "id", o.ID)
}

func (r *observationRepository) GetByID(ctx context.Context, id uint) (*entities.Observation, error) {
	var o entities.Observation
	err := r.db.WithContext(ctx).First(&o, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFoundError(ErrObservationNotFound, "observation", id)
	}
	if err != nil {
		return nil, dbError(err, "get_observation", "id", id)
	}
	return &o, nil
}

func (r *observationRepository) Delete(ctx context.Context, id uint) ([]string, error) {
	var paths []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entities.Photo{}).
			Where("observation_id = ?", id).
			Order("id ASC").
			Pluck("file_path", &paths).Error; err != nil {
			return err
		}

		result := tx.Delete(&entities.Observation{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return notFoundError(ErrObservationNotFound, "observation", id)
		}
		return nil
	})
	if err != nil {
		return nil, dbError(err, "delete_observation", "id", id)
	}
	return paths, nil
}

func (r *observationRepository) Filter(ctx context.Context, lifelistID uint, filter ObservationFilter) ([]*entities.Observation, error) {
	query := r.db.WithContext(ctx).Model(&entities.Observation{}).Where("lifelist_id = ?", lifelistID)

	if filter.Tier != "" && filter.Tier != AllTiers {
		query = query.Where("tier = ?", filter.Tier)
	}

	if term := strings.TrimSpace(filter.Search); term != "" {
		query = query.Where("search_text LIKE ? ESCAPE '!'", containsPattern(term))
	}

	if tagIDs := uniqueIDs(filter.TagIDs); len(tagIDs) > 0 {
		tagged := r.db.Model(&entities.ObservationTag{}).
			Select("observation_id").
			Where("tag_id IN ?", tagIDs).
			Group("observation_id").
			Having("COUNT(DISTINCT tag_id) = ?", len(tagIDs))
		query = query.Where("id IN (?)", tagged)
	}

	var observations []*entities.Observation
	err := query.Order("observation_date DESC, id DESC").Find(&observations).Error
	return observations, dbError(err, "filter_observations", "lifelist_id", lifelistID)
}

func (r *observationRepository) ByEntry(ctx context.Context, lifelistID uint, entryName string) ([]*entities.Observation, error) {
	var observations []*entities.Observation
	err := r.db.WithContext(ctx).
		Where("lifelist_id = ? AND entry_name = ?", lifelistID, entryName).
		Order("observation_date DESC, id DESC").
		Find(&observations).Error
	return observations, dbError(err, "observations_by_entry", "lifelist_id", lifelistID, "entry_name", entryName)
}

func (r *observationRepository) UniqueEntryNames(ctx context.Context, lifelistID uint) ([]string, error) {
	names := []string{}
	err := r.db.WithContext(ctx).Model(&entities.Observation{}).
		Where("lifelist_id = ?", lifelistID).
		Distinct("entry_name").
		Order("entry_name ASC").
		Pluck("entry_name", &names).Error
	return names, dbError(err, "unique_entry_names", "lifelist_id", lifelistID)
}

func (r *observationRepository) WithCoordinates(ctx context.Context, lifelistID uint) ([]*entities.Observation, error) {
	var observations []*entities.Observation
	err := r.db.WithContext(ctx).
		Where("lifelist_id = ? AND latitude IS NOT NULL AND longitude IS NOT NULL", lifelistID).
		Order("id ASC").
		Find(&observations).Error
	return observations, dbError(err, "observations_with_coordinates", "lifelist_id", lifelistID)
}

func (r *observationRepository) CountByLifelist(ctx context.Context, lifelistID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Observation{}).
		Where("lifelist_id = ?", lifelistID).
		Count(&count).Error
	return count, dbError(err, "count_observations", "lifelist_id", lifelistID)
}

// uniqueIDs returns ids without duplicates, preserving first occurrence.
func uniqueIDs(ids []uint) []uint {
	if len(ids) == 0 {
		return nil
	}
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
