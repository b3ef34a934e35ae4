package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/datastore/entities"
)

// tierRepository implements TierRepository.
type tierRepository struct {
	db *gorm.DB
}

// NewTierRepository creates a new TierRepository.
func NewTierRepository(db *gorm.DB) TierRepository {
	return &tierRepository{db: db}
}

func (r *tierRepository) GetTiers(ctx context.Context, lifelistID uint) ([]string, error) {
	names := []string{}
	err := r.db.WithContext(ctx).Model(&entities.LifelistTier{}).
		Where("lifelist_id = ?", lifelistID).
		Order("tier_order ASC, id ASC").
		Pluck("tier_name", &names).Error
	return names, dbError(err, "get_tiers", "lifelist_id", lifelistID)
}

func (r *tierRepository) ReplaceTiers(ctx context.Context, lifelistID uint, names []string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("lifelist_id = ?", lifelistID).Delete(&entities.LifelistTier{}).Error; err != nil {
			return err
		}
		if len(names) == 0 {
			return nil
		}
		rows := make([]entities.LifelistTier, len(names))
		for i, name := range names {
			rows[i] = entities.LifelistTier{LifelistID: lifelistID, TierName: name, TierOrder: i}
		}
		return tx.Create(&rows).Error
	})
	if isDuplicateKey(err) {
		return conflictError(err, "replace_tiers", "lifelist_id", lifelistID)
	}
	return dbError(err, "replace_tiers", "lifelist_id", lifelistID)
}

func (r *tierRepository) UsedTiers(ctx context.Context, lifelistID uint) ([]string, error) {
	var rows []struct {
		Tier    string
		FirstID uint
	}
	err := r.db.WithContext(ctx).Model(&entities.Observation{}).
		Select("tier, MIN(id) AS first_id").
		Where("lifelist_id = ? AND tier IS NOT NULL AND tier <> ''", lifelistID).
		Group("tier").
		Order("first_id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, dbError(err, "used_tiers", "lifelist_id", lifelistID)
	}

	tiers := make([]string, len(rows))
	for i, row := range rows {
		tiers[i] = row.Tier
	}
	return tiers, nil
}

func (r *tierRepository) CountByTier(ctx context.Context, lifelistID uint) ([]TierCount, error) {
	var counts []TierCount
	err := r.db.WithContext(ctx).Model(&entities.Observation{}).
		Select("tier, COUNT(*) AS count").
		Where("lifelist_id = ?", lifelistID).
		Group("tier").
		Order("tier ASC").
		Scan(&counts).Error
	return counts, dbError(err, "count_by_tier", "lifelist_id", lifelistID)
}
