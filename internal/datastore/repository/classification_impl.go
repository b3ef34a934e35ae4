package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/datastore/entities"
)

// classificationRepository implements ClassificationRepository.
type classificationRepository struct {
	db *gorm.DB
}

// NewClassificationRepository creates a new ClassificationRepository.
func NewClassificationRepository(db *gorm.DB) ClassificationRepository {
	return &classificationRepository{db: db}
}

func (r *classificationRepository) Create(ctx context.Context, c *entities.Classification) error {
	err := r.db.WithContext(ctx).Create(c).Error
	return dbError(err, "create_classification", "lifelist_id", c.LifelistID, "name", c.Name)
}

func (r *classificationRepository) GetByID(ctx context.Context, id uint) (*entities.Classification, error) {
	var c entities.Classification
	err := r.db.WithContext(ctx).First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFoundError(ErrClassificationNotFound, "classification", id)
	}
	if err != nil {
		return nil, dbError(err, "get_classification", "id", id)
	}
	return &c, nil
}

func (r *classificationRepository) ListByLifelist(ctx context.Context, lifelistID uint) ([]*entities.Classification, error) {
	var list []*entities.Classification
	err := r.db.WithContext(ctx).
		Where("lifelist_id = ?", lifelistID).
		Order("id ASC").
		Find(&list).Error
	return list, dbError(err, "list_classifications", "lifelist_id", lifelistID)
}

func (r *classificationRepository) GetActive(ctx context.Context, lifelistID uint) (*entities.Classification, error) {
	var c entities.Classification
	err := r.db.WithContext(ctx).
		Where("lifelist_id = ? AND is_active = ?", lifelistID, true).
		Order("id ASC").
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFoundError(ErrNoActiveClassification, "classification", lifelistID)
	}
	if err != nil {
		return nil, dbError(err, "get_active_classification", "lifelist_id", lifelistID)
	}
	return &c, nil
}

func (r *classificationRepository) HasActive(ctx context.Context, lifelistID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Classification{}).
		Where("lifelist_id = ? AND is_active = ?", lifelistID, true).
		Count(&count).Error
	if err != nil {
		return false, dbError(err, "has_active_classification", "lifelist_id", lifelistID)
	}
	return count > 0, nil
}

func (r *classificationRepository) SetActive(ctx context.Context, id, lifelistID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var target entities.Classification
		err := tx.Where("id = ? AND lifelist_id = ?", id, lifelistID).First(&target).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundError(ErrClassificationNotFound, "classification", id)
		}
		if err != nil {
			return err
		}

		if err := tx.Model(&entities.Classification{}).
			Where("lifelist_id = ?", lifelistID).
			Update("is_active", false).Error; err != nil {
			return err
		}

		return tx.Model(&entities.Classification{}).
			Where("id = ?", id).
			Update("is_active", true).Error
	})
	return dbError(err, "set_active_classification", "id", id, "lifelist_id", lifelistID)
}

func (r *classificationRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&entities.Classification{}, id)
	if result.Error != nil {
		return dbError(result.Error, "delete_classification", "id", id)
	}
	if result.RowsAffected == 0 {
		return notFoundError(ErrClassificationNotFound, "classification", id)
	}
	return nil
}

// classificationEntryRepository implements ClassificationEntryRepository.
type classificationEntryRepository struct {
	db *gorm.DB
}

// NewClassificationEntryRepository creates a new ClassificationEntryRepository.
func NewClassificationEntryRepository(db *gorm.DB) ClassificationEntryRepository {
	return &classificationEntryRepository{db: db}
}

func (r *classificationEntryRepository) Create(ctx context.Context, e *entities.ClassificationEntry) error {
	err := r.db.WithContext(ctx).Create(e).Error
	return dbError(err, "create_classification_entry", "classification_id", e.ClassificationID, "name", e.Name)
}

func (r *classificationEntryRepository) CreateBatch(ctx context.Context, entries []*entities.ClassificationEntry, batchSize int) error {
	if len(entries) == 0 {
		return nil
	}
	if batchSize <= 0 {
		batchSize = 500
	}
	err := r.db.WithContext(ctx).CreateInBatches(entries, batchSize).Error
	return dbError(err, "create_classification_entries", "count", len(entries))
}

func (r *classificationEntryRepository) GetByID(ctx context.Context, id uint) (*entities.ClassificationEntry, error) {
	var e entities.ClassificationEntry
	err := r.db.WithContext(ctx).First(&e, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFoundError(ErrClassificationEntryNotFound, "classification_entry", id)
	}
	if err != nil {
		return nil, dbError(err, "get_classification_entry", "id", id)
	}
	return &e, nil
}

func (r *classificationEntryRepository) ListByClassification(ctx context.Context, classificationID uint) ([]*entities.ClassificationEntry, error) {
	var list []*entities.ClassificationEntry
	err := r.db.WithContext(ctx).
		Where("classification_id = ?", classificationID).
		Order("id ASC").
		Find(&list).Error
	return list, dbError(err, "list_classification_entries", "classification_id", classificationID)
}

func (r *classificationEntryRepository) SetParent(ctx context.Context, id uint, parentID *uint) error {
	result := r.db.WithContext(ctx).Model(&entities.ClassificationEntry{}).
		Where("id = ?", id).
		Update("parent_id", parentID)
	if result.Error != nil {
		return dbError(result.Error, "set_entry_parent", "id", id)
	}
	if result.RowsAffected == 0 {
		return notFoundError(ErrClassificationEntryNotFound, "classification_entry", id)
	}
	return nil
}

func (r *classificationEntryRepository) Count(ctx context.Context, classificationID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.ClassificationEntry{}).
		Where("classification_id = ?", classificationID).
		Count(&count).Error
	return count, dbError(err, "count_classification_entries", "classification_id", classificationID)
}

// Ranked substring search over the folded search columns, so matching is
// case-insensitive for any script and independent of the database collation.
const entryRankExpr = "CASE WHEN search_name LIKE ? ESCAPE '!' THEN 1 " +
	"WHEN search_alternate LIKE ? ESCAPE '!' THEN 2 " +
	"ELSE 3 END AS match_rank"

func (r *classificationEntryRepository) Search(ctx context.Context, classificationID uint, term string, limit int) ([]EntryMatch, error) {
	prefix := prefixPattern(term)
	contains := containsPattern(term)

	var matches []EntryMatch
	err := r.db.WithContext(ctx).Model(&entities.ClassificationEntry{}).
		Select("id, name, COALESCE(alternate_name, '') AS alternate_name, COALESCE(category, '') AS category, "+entryRankExpr, prefix, prefix).
		Where("classification_id = ?", classificationID).
		Where("(search_name LIKE ? ESCAPE '!' OR search_alternate LIKE ? ESCAPE '!')", contains, contains).
		Order("match_rank ASC, search_name ASC, id ASC").
		Limit(limit).
		Scan(&matches).Error
	if err != nil {
		return nil, dbError(err, "search_classification_entries", "classification_id", classificationID, "term", term)
	}
	return matches, nil
}
