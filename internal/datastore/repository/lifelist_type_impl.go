package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/datastore/entities"
)

// lifelistTypeRepository implements LifelistTypeRepository.
type lifelistTypeRepository struct {
	db *gorm.DB
}

// NewLifelistTypeRepository creates a new LifelistTypeRepository.
func NewLifelistTypeRepository(db *gorm.DB) LifelistTypeRepository {
	return &lifelistTypeRepository{db: db}
}

func (r *lifelistTypeRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.LifelistType{}).Count(&count).Error
	return count, dbError(err, "count_lifelist_types")
}

func (r *lifelistTypeRepository) GetByID(ctx context.Context, id uint) (*entities.LifelistType, error) {
	var t entities.LifelistType
	err := r.db.WithContext(ctx).First(&t, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFoundError(ErrLifelistTypeNotFound, "lifelist_type", id)
	}
	if err != nil {
		return nil, dbError(err, "get_lifelist_type", "id", id)
	}
	return &t, nil
}

func (r *lifelistTypeRepository) GetByName(ctx context.Context, name string) (*entities.LifelistType, error) {
	// Types are few; matching in Go keeps non-ASCII names case-insensitive on SQLite.
	var types []*entities.LifelistType
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&types).Error; err != nil {
		return nil, dbError(err, "get_lifelist_type_by_name", "name", name)
	}
	want := entities.FoldSearch(strings.TrimSpace(name))
	for _, t := range types {
		if entities.FoldSearch(t.Name) == want {
			return t, nil
		}
	}
	return nil, notFoundError(ErrLifelistTypeNotFound, "lifelist_type", name)
}

func (r *lifelistTypeRepository) GetAll(ctx context.Context) ([]*entities.LifelistType, error) {
	var types []*entities.LifelistType
	err := r.db.WithContext(ctx).Order("id ASC").Find(&types).Error
	return types, dbError(err, "list_lifelist_types")
}

func (r *lifelistTypeRepository) Create(ctx context.Context, t *entities.LifelistType, tiers []string, fields []*entities.LifelistTypeField) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(t).Error; err != nil {
			if isDuplicateKey(err) {
				return conflictError(err, "create_lifelist_type", "name", t.Name)
			}
			return err
		}

		if len(tiers) > 0 {
			rows := make([]entities.LifelistTypeTier, len(tiers))
			for i, name := range tiers {
				rows[i] = entities.LifelistTypeTier{LifelistTypeID: t.ID, TierName: name, TierOrder: i}
			}
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}

		for i, f := range fields {
			f.LifelistTypeID = t.ID
			if f.DisplayOrder == 0 {
				f.DisplayOrder = i
			}
		}
		if len(fields) > 0 {
			if err := tx.Create(&fields).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return dbError(err, "create_lifelist_type", "name", t.Name)
}

func (r *lifelistTypeRepository) GetTiers(ctx context.Context, typeID uint) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).Model(&entities.LifelistTypeTier{}).
		Where("lifelist_type_id = ?", typeID).
		Order("tier_order ASC, id ASC").
		Pluck("tier_name", &names).Error
	return names, dbError(err, "get_lifelist_type_tiers", "type_id", typeID)
}

func (r *lifelistTypeRepository) GetFields(ctx context.Context, typeID uint) ([]*entities.LifelistTypeField, error) {
	var fields []*entities.LifelistTypeField
	err := r.db.WithContext(ctx).
		Where("lifelist_type_id = ?", typeID).
		Order("display_order ASC, id ASC").
		Find(&fields).Error
	return fields, dbError(err, "get_lifelist_type_fields", "type_id", typeID)
}
