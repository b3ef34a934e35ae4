package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/datastore/entities"
)

// tagRepository implements TagRepository.
type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates a new TagRepository.
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

// GetOrCreate uses the unique name index to resolve concurrent creates to one row.
func (r *tagRepository) GetOrCreate(ctx context.Context, name, category string) (*entities.Tag, error) {
	var tag entities.Tag
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&tag).Error
	if err == nil {
		return &tag, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, dbError(err, "get_tag", "name", name)
	}

	tag = entities.Tag{Name: name, Category: category}
	if err := r.db.WithContext(ctx).Create(&tag).Error; err != nil {
		// Lost a race; re-fetch the winner.
		var existing entities.Tag
		if findErr := r.db.WithContext(ctx).Where("name = ?", name).First(&existing).Error; findErr != nil {
			return nil, dbError(err, "create_tag", "name", name)
		}
		return &existing, nil
	}
	return &tag, nil
}

func (r *tagRepository) GetByID(ctx context.Context, id uint) (*entities.Tag, error) {
	var tag entities.Tag
	err := r.db.WithContext(ctx).First(&tag, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFoundError(ErrTagNotFound, "tag", id)
	}
	if err != nil {
		return nil, dbError(err, "get_tag", "id", id)
	}
	return &tag, nil
}

func (r *tagRepository) GetByName(ctx context.Context, name string) (*entities.Tag, error) {
	var tag entities.Tag
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&tag).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFoundError(ErrTagNotFound, "tag", name)
	}
	if err != nil {
		return nil, dbError(err, "get_tag_by_name", "name", name)
	}
	return &tag, nil
}

func (r *tagRepository) GetAll(ctx context.Context) ([]*entities.Tag, error) {
	var tags []*entities.Tag
	err := r.db.WithContext(ctx).Order("category ASC, name ASC").Find(&tags).Error
	return tags, dbError(err, "list_tags")
}

func (r *tagRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&entities.Tag{}, id)
	if result.Error != nil {
		return dbError(result.Error, "delete_tag", "id", id)
	}
	if result.RowsAffected == 0 {
		return notFoundError(ErrTagNotFound, "tag", id)
	}
	return nil
}

func (r *tagRepository) AddToObservation(ctx context.Context, observationID, tagID uint) (bool, error) {
	link := entities.ObservationTag{ObservationID: observationID, TagID: tagID}
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&link)
	if result.Error != nil {
		return false, dbError(result.Error, "add_observation_tag", "observation_id", observationID, "tag_id", tagID)
	}
	return result.RowsAffected > 0, nil
}

func (r *tagRepository) RemoveFromObservation(ctx context.Context, observationID, tagID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("observation_id = ? AND tag_id = ?", observationID, tagID).
		Delete(&entities.ObservationTag{})
	if result.Error != nil {
		return false, dbError(result.Error, "remove_observation_tag", "observation_id", observationID, "tag_id", tagID)
	}
	return result.RowsAffected > 0, nil
}

func (r *tagRepository) ForObservation(ctx context.Context, observationID uint) ([]*entities.Tag, error) {
	var tags []*entities.Tag
	err := r.db.WithContext(ctx).
		Joins("JOIN observation_tags ON observation_tags.tag_id = tags.id").
		Where("observation_tags.observation_id = ?", observationID).
		Order("tags.name ASC").
		Find(&tags).Error
	return tags, dbError(err, "observation_tags", "observation_id", observationID)
}

func (r *tagRepository) ForObservations(ctx context.Context, observationIDs []uint) (map[uint][]*entities.Tag, error) {
	result := make(map[uint][]*entities.Tag, len(observationIDs))
	if len(observationIDs) == 0 {
		return result, nil
	}

	var rows []struct {
		ObservationID uint
		ID            uint
		Name          string
		Category      string
	}
	err := r.db.WithContext(ctx).Model(&entities.Tag{}).
		Select("observation_tags.observation_id, tags.id, tags.name, tags.category").
		Joins("JOIN observation_tags ON observation_tags.tag_id = tags.id").
		Where("observation_tags.observation_id IN ?", observationIDs).
		Order("observation_tags.observation_id ASC, tags.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, dbError(err, "observations_tags")
	}
	for _, row := range rows {
		result[row.ObservationID] = append(result[row.ObservationID], &entities.Tag{
			ID:       row.ID,
			Name:     row.Name,
			Category: row.Category,
		})
	}
	return result, nil
}

func (r *tagRepository) AddParent(ctx context.Context, tagID, parentID uint) (bool, error) {
	if tagID == parentID {
		return false, validationError("a tag cannot be its own parent", "parent_tag_id", parentID)
	}
	edge := entities.TagHierarchy{TagID: tagID, ParentTagID: parentID}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tag_id"}, {Name: "parent_tag_id"}},
			DoNothing: true,
		}).
		Create(&edge)
	if result.Error != nil {
		return false, dbError(result.Error, "add_tag_parent", "tag_id", tagID, "parent_tag_id", parentID)
	}
	return result.RowsAffected > 0, nil
}

func (r *tagRepository) Parents(ctx context.Context, tagID uint) ([]*entities.Tag, error) {
	var tags []*entities.Tag
	err := r.db.WithContext(ctx).
		Joins("JOIN tag_hierarchy ON tag_hierarchy.parent_tag_id = tags.id").
		Where("tag_hierarchy.tag_id = ?", tagID).
		Order("tags.name ASC").
		Find(&tags).Error
	return tags, dbError(err, "tag_parents", "tag_id", tagID)
}

func (r *tagRepository) Children(ctx context.Context, tagID uint) ([]*entities.Tag, error) {
	var tags []*entities.Tag
	err := r.db.WithContext(ctx).
		Joins("JOIN tag_hierarchy ON tag_hierarchy.tag_id = tags.id").
		Where("tag_hierarchy.parent_tag_id = ?", tagID).
		Order("tags.name ASC").
		Find(&tags).Error
	return tags, dbError(err, "tag_children", "tag_id", tagID)
}
