package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/datastore/entities"
)

// lifelistRepository implements LifelistRepository.
type lifelistRepository struct {
	db *gorm.DB
}

// NewLifelistRepository creates a new LifelistRepository.
func NewLifelistRepository(db *gorm.DB) LifelistRepository {
	return &lifelistRepository{db: db}
}

func (r *lifelistRepository) Create(ctx context.Context, l *entities.Lifelist) error {
	err := r.db.WithContext(ctx).Create(l).Error
	if isDuplicateKey(err) {
		return conflictError(err, "create_lifelist", "name", l.Name)
	}
	return dbError(err, "create_lifelist", "name", l.Name)
}

func (r *lifelistRepository) GetByID(ctx context.Context, id uint) (*entities.Lifelist, error) {
	var l entities.Lifelist
	err := r.db.WithContext(ctx).First(&l, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFoundError(ErrLifelistNotFound, "lifelist", id)
	}
	if err != nil {
		return nil, dbError(err, "get_lifelist", "id", id)
	}
	return &l, nil
}

func (r *lifelistRepository) GetByName(ctx context.Context, name string) (*entities.Lifelist, error) {
	var l entities.Lifelist
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFoundError(ErrLifelistNotFound, "lifelist", name)
	}
	if err != nil {
		return nil, dbError(err, "get_lifelist_by_name", "name", name)
	}
	return &l, nil
}

func (r *lifelistRepository) GetAll(ctx context.Context) ([]*entities.Lifelist, error) {
	var lists []*entities.Lifelist
	err := r.db.WithContext(ctx).Order("name ASC, id ASC").Find(&lists).Error
	return lists, dbError(err, "list_lifelists")
}

func (r *lifelistRepository) NameExists(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Lifelist{}).Where("name = ?", name).Count(&count).Error
	if err != nil {
		return false, dbError(err, "lifelist_name_exists", "name", name)
	}
	return count > 0, nil
}

func (r *lifelistRepository) Rename(ctx context.Context, id uint, name string) error {
	result := r.db.WithContext(ctx).Model(&entities.Lifelist{}).Where("id = ?", id).Update("name", name)
	if isDuplicateKey(result.Error) {
		return conflictError(result.Error, "rename_lifelist", "id", id, "name", name)
	}
	if result.Error != nil {
		return dbError(result.Error, "rename_lifelist", "id", id)
	}
	if result.RowsAffected == 0 {
		return notFoundError(ErrLifelistNotFound, "lifelist", id)
	}
	return nil
}

func (r *lifelistRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&entities.Lifelist{}, id)
	if result.Error != nil {
		return dbError(result.Error, "delete_lifelist", "id", id)
	}
	if result.RowsAffected == 0 {
		return notFoundError(ErrLifelistNotFound, "lifelist", id)
	}
	return nil
}
