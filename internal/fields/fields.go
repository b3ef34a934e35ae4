// Package fields manages per-lifelist custom field definitions, their choice options,
// declarative dependencies between fields and the values stored on observations.
//
// Values are stored as text. Conversion to typed values lives in package fieldvalue;
// this package validates values against the declared type before they are written but
// never enforces required-ness. Entry points call MissingRequired for that.
package fields

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/datastore/entities"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/datastore/repository"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/errors"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/fieldvalue"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/logger"
)

var validate = validator.New()

// Common condition types. Conditions are stored as given; any string is accepted.
const (
	ConditionEquals    = "equals"
	ConditionNotEquals = "not_equals"
	ConditionNotEmpty  = "not_empty"
)

// FieldSpec describes a field to create.
type FieldSpec struct {
	Name     string              `validate:"required,max=100"`
	Type     fieldvalue.Type     `validate:"required"`
	Options  *fieldvalue.Options `validate:"omitempty"`
	Required bool
	Order    int
}

// FieldDescriptor is a stored field definition. Choices is populated for choice fields
// only and is nil for every other type.
type FieldDescriptor struct {
	ID         uint
	LifelistID uint
	Name       string
	Type       fieldvalue.Type
	Required   bool
	Order      int
	Options    *fieldvalue.Options
	Choices    []fieldvalue.Choice
}

// TypedOptions returns the options to use when parsing values of this field, with choices
// taken from the stored option rows.
func (d FieldDescriptor) TypedOptions() *fieldvalue.Options {
	opts := d.Options.Clone()
	if d.Type != fieldvalue.TypeChoice {
		return opts
	}
	if opts == nil {
		opts = &fieldvalue.Options{}
	}
	opts.Choices = append([]fieldvalue.Choice(nil), d.Choices...)
	return opts
}

// Dependency is a declarative gate: FieldID is relevant when the value of ParentFieldID
// satisfies the condition. Nothing in this package evaluates it.
type Dependency struct {
	ID             uint
	FieldID        uint
	ParentFieldID  uint
	ConditionType  string
	ConditionValue string
}

// Service manages custom fields.
type Service struct {
	store *repository.Store
	log   logger.Logger
}

// NewService creates a field service over store.
func NewService(store *repository.Store, log logger.Logger) *Service {
	return &Service{
		store: store,
		log:   logger.OrDiscard(log).Module("fields"),
	}
}

// WithStore returns a copy of the service bound to another store, typically a transaction.
func (s *Service) WithStore(store *repository.Store) *Service {
	return &Service{store: store, log: s.log}
}

// AddField creates a field. Choice fields must carry at least one option; each option is
// stored with its position and a label defaulting to its value. A name already used in the
// lifelist returns an error wrapping repository.ErrDuplicateKey.
func (s *Service) AddField(ctx context.Context, lifelistID uint, spec FieldSpec) (uint, error) {
	spec.Name = strings.TrimSpace(spec.Name)
	if err := validateSpec(spec); err != nil {
		return 0, err
	}

	payload, err := fieldvalue.EncodeOptions(spec.Options)
	if err != nil {
		return 0, err
	}

	field := &entities.CustomField{
		LifelistID:   lifelistID,
		FieldName:    spec.Name,
		FieldType:    string(spec.Type),
		FieldOptions: payload,
		IsRequired:   spec.Required,
		DisplayOrder: spec.Order,
	}

	var options []entities.FieldOption
	if spec.Type == fieldvalue.TypeChoice {
		options = make([]entities.FieldOption, len(spec.Options.Choices))
		for i, c := range spec.Options.Choices {
			options[i] = entities.FieldOption{
				OptionValue: c.Value,
				OptionLabel: c.DisplayLabel(),
				OptionOrder: i,
			}
		}
	}

	if err := s.store.Fields.Create(ctx, field, options); err != nil {
		return 0, err
	}

	s.log.Debug("field added",
		logger.Uint("lifelist_id", lifelistID),
		logger.Uint("field_id", field.ID),
		logger.String("name", spec.Name),
		logger.String("type", string(spec.Type)))
	return field.ID, nil
}

func validateSpec(spec FieldSpec) error {
	if err := validate.Struct(spec); err != nil {
		return fieldsValidation(err, spec.Name)
	}
	if !spec.Type.Valid() {
		return fieldsValidation(fmt.Errorf("unknown field type %q", spec.Type), spec.Name)
	}
	if spec.Type != fieldvalue.TypeChoice {
		return nil
	}

	if spec.Options == nil || len(spec.Options.Choices) == 0 {
		return fieldsValidation(fmt.Errorf("choice field %q needs at least one option", spec.Name), spec.Name)
	}
	seen := make(map[string]bool, len(spec.Options.Choices))
	for _, c := range spec.Options.Choices {
		if strings.TrimSpace(c.Value) == "" {
			return fieldsValidation(fmt.Errorf("choice field %q has an empty option value", spec.Name), spec.Name)
		}
		if seen[c.Value] {
			return fieldsValidation(fmt.Errorf("choice field %q repeats option %q", spec.Name, c.Value), spec.Name)
		}
		seen[c.Value] = true
	}
	return nil
}

// ListFields returns the fields of a lifelist ordered by display order, then ID.
func (s *Service) ListFields(ctx context.Context, lifelistID uint) ([]FieldDescriptor, error) {
	rows, err := s.store.Fields.ListByLifelist(ctx, lifelistID)
	if err != nil {
		return nil, err
	}
	return s.describe(ctx, rows)
}

// GetField returns one field definition.
func (s *Service) GetField(ctx context.Context, fieldID uint) (FieldDescriptor, error) {
	row, err := s.store.Fields.GetByID(ctx, fieldID)
	if err != nil {
		return FieldDescriptor{}, err
	}
	described, err := s.describe(ctx, []*entities.CustomField{row})
	if err != nil {
		return FieldDescriptor{}, err
	}
	return described[0], nil
}

func (s *Service) describe(ctx context.Context, rows []*entities.CustomField) ([]FieldDescriptor, error) {
	var choiceIDs []uint
	for _, row := range rows {
		if fieldvalue.Type(row.FieldType) == fieldvalue.TypeChoice {
			choiceIDs = append(choiceIDs, row.ID)
		}
	}
	options, err := s.store.Fields.OptionsByFields(ctx, choiceIDs)
	if err != nil {
		return nil, err
	}

	out := make([]FieldDescriptor, 0, len(rows))
	for _, row := range rows {
		opts, err := fieldvalue.DecodeOptions(row.FieldOptions)
		if err != nil {
			// A damaged payload should not hide the field.
			s.log.Warn("ignoring unreadable field options",
				logger.Uint("field_id", row.ID),
				logger.Error(err))
			opts = nil
		}

		d := FieldDescriptor{
			ID:         row.ID,
			LifelistID: row.LifelistID,
			Name:       row.FieldName,
			Type:       fieldvalue.Type(row.FieldType),
			Required:   row.IsRequired,
			Order:      row.DisplayOrder,
			Options:    opts,
		}
		if d.Type == fieldvalue.TypeChoice {
			d.Choices = make([]fieldvalue.Choice, 0, len(options[row.ID]))
			for _, o := range options[row.ID] {
				d.Choices = append(d.Choices, fieldvalue.Choice{Value: o.OptionValue, Label: o.OptionLabel})
			}
		}
		out = append(out, d)
	}
	return out, nil
}

// DeleteField removes a field with its options, dependencies and stored values.
func (s *Service) DeleteField(ctx context.Context, fieldID uint) error {
	if err := s.store.Fields.Delete(ctx, fieldID); err != nil {
		return err
	}
	s.log.Debug("field deleted", logger.Uint("field_id", fieldID))
	return nil
}

// AddDependency records that fieldID depends on parentFieldID. The condition is stored
// verbatim; both fields must exist and belong to the same lifelist.
func (s *Service) AddDependency(ctx context.Context, fieldID, parentFieldID uint, conditionType, conditionValue string) (uint, error) {
	conditionType = strings.TrimSpace(conditionType)
	if conditionType == "" {
		return 0, fieldsValidation(fmt.Errorf("condition type is required"), "")
	}
	if fieldID == parentFieldID {
		return 0, fieldsValidation(fmt.Errorf("field %d cannot depend on itself", fieldID), "")
	}

	field, err := s.store.Fields.GetByID(ctx, fieldID)
	if err != nil {
		return 0, err
	}
	parent, err := s.store.Fields.GetByID(ctx, parentFieldID)
	if err != nil {
		return 0, err
	}
	if field.LifelistID != parent.LifelistID {
		return 0, fieldsValidation(fmt.Errorf("fields %d and %d belong to different lifelists", fieldID, parentFieldID), field.FieldName)
	}

	dep := &entities.FieldDependency{
		FieldID:        fieldID,
		ParentFieldID:  parentFieldID,
		ConditionType:  conditionType,
		ConditionValue: conditionValue,
	}
	if err := s.store.Fields.AddDependency(ctx, dep); err != nil {
		return 0, err
	}
	return dep.ID, nil
}

// Dependencies returns the dependencies declared by a field.
func (s *Service) Dependencies(ctx context.Context, fieldID uint) ([]Dependency, error) {
	rows, err := s.store.Fields.Dependencies(ctx, fieldID)
	if err != nil {
		return nil, err
	}
	deps := make([]Dependency, len(rows))
	for i, row := range rows {
		deps[i] = Dependency{
			ID:             row.ID,
			FieldID:        row.FieldID,
			ParentFieldID:  row.ParentFieldID,
			ConditionType:  row.ConditionType,
			ConditionValue: row.ConditionValue,
		}
	}
	return deps, nil
}

func fieldsValidation(err error, field string) error {
	return errors.New(fmt.Errorf("%w: %w", repository.ErrInvalidInput, err)).
		Component("fields").
		Category(errors.CategoryValidation).
		Context("field", field).
		Build()
}
