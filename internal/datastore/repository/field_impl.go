package repository

import (
	"context"
	"errors"
	"slices"

	"gorm.io/gorm"

	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/datastore/entities"
)

// fieldRepository implements FieldRepository.
type fieldRepository struct {
	db *gorm.DB
}

// NewFieldRepository creates a new FieldRepository.
func NewFieldRepository(db *gorm.DB) FieldRepository {
	return &fieldRepository{db: db}
}

func (r *fieldRepository) Create(ctx context.Context, field *entities.CustomField, options []entities.FieldOption) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(field).Error; err != nil {
			return err
		}
		if len(options) == 0 {
			return nil
		}
		for i := range options {
			options[i].FieldID = field.ID
		}
		return tx.Create(&options).Error
	})
	if isDuplicateKey(err) {
		return conflictError(err, "create_field", "lifelist_id", field.LifelistID, "name", field.FieldName)
	}
	return dbError(err, "create_field", "lifelist_id", field.LifelistID, "name", field.FieldName)
}

func (r *fieldRepository) GetByID(ctx context.Context, id uint) (*entities.CustomField, error) {
	var f entities.CustomField
	err := r.db.WithContext(ctx).First(&f, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFoundError(ErrFieldNotFound, "custom_field", id)
	}
	if err != nil {
		return nil, dbError(err, "get_field", "id", id)
	}
	return &f, nil
}

func (r *fieldRepository) ListByLifelist(ctx context.Context, lifelistID uint) ([]*entities.CustomField, error) {
	var fields []*entities.CustomField
	err := r.db.WithContext(ctx).
		Where("lifelist_id = ?", lifelistID).
		Order("display_order ASC, id ASC").
		Find(&fields).Error
	return fields, dbError(err, "list_fields", "lifelist_id", lifelistID)
}

func (r *fieldRepository) OptionsByFields(ctx context.Context, fieldIDs []uint) (map[uint][]entities.FieldOption, error) {
	result := make(map[uint][]entities.FieldOption, len(fieldIDs))
	if len(fieldIDs) == 0 {
		return result, nil
	}

	var options []entities.FieldOption
	err := r.db.WithContext(ctx).
		Where("field_id IN ?", fieldIDs).
		Order("field_id ASC, option_order ASC, id ASC").
		Find(&options).Error
	if err != nil {
		return nil, dbError(err, "list_field_options")
	}
	for _, opt := range options {
		result[opt.FieldID] = append(result[opt.FieldID], opt)
	}
	return result, nil
}

func (r *fieldRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&entities.CustomField{}, id)
	if result.Error != nil {
		return dbError(result.Error, "delete_field", "id", id)
	}
	if result.RowsAffected == 0 {
		return notFoundError(ErrFieldNotFound, "custom_field", id)
	}
	return nil
}

func (r *fieldRepository) AddDependency(ctx context.Context, dep *entities.FieldDependency) error {
	err := r.db.WithContext(ctx).Create(dep).Error
	return dbError(err, "add_field_dependency", "field_id", dep.FieldID, "parent_field_id", dep.ParentFieldID)
}

func (r *fieldRepository) Dependencies(ctx context.Context, fieldID uint) ([]*entities.FieldDependency, error) {
	var deps []*entities.FieldDependency
	err := r.db.WithContext(ctx).
		Where("field_id = ?", fieldID).
		Order("id ASC").
		Find(&deps).Error
	return deps, dbError(err, "list_field_dependencies", "field_id", fieldID)
}

func (r *fieldRepository) ReplaceValues(ctx context.Context, observationID uint, values map[uint]string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("observation_id = ?", observationID).Delete(&entities.ObservationCustomField{}).Error; err != nil {
			return err
		}

		rows := make([]entities.ObservationCustomField, 0, len(values))
		for fieldID, value := range values {
			if value == "" {
				continue
			}
			rows = append(rows, entities.ObservationCustomField{
				ObservationID: observationID,
				FieldID:       fieldID,
				Value:         value,
			})
		}
		if len(rows) == 0 {
			return nil
		}
		// Stable insert order keeps row IDs deterministic across runs.
		slices.SortFunc(rows, func(a, b entities.ObservationCustomField) int {
			return int(a.FieldID) - int(b.FieldID) //nolint:gosec // row ids fit in int
		})
		return tx.Create(&rows).Error
	})
	return dbError(err, "replace_field_values", "observation_id", observationID)
}

func (r *fieldRepository) Values(ctx context.Context, observationID uint) (map[uint]string, error) {
	var rows []entities.ObservationCustomField
	err := r.db.WithContext(ctx).
		Where("observation_id = ?", observationID).
		Find(&rows).Error
	if err != nil {
		return nil, dbError(err, "get_field_values", "observation_id", observationID)
	}

	values := make(map[uint]string, len(rows))
	for _, row := range rows {
		values[row.FieldID] = row.Value
	}
	return values, nil
}
