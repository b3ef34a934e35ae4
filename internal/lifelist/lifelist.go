// Package lifelist creates and manages lifelists. A new lifelist copies the default tiers and
// fields of its lifelist type so later edits to the type never change existing lists.
package lifelist

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/datastore/entities"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/datastore/repository"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/errors"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/fields"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/fieldvalue"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/logger"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/registry"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/tiers"
)

var validate = validator.New()

// CreateInput describes a lifelist to create. TypeName may be empty for an untyped list.
type CreateInput struct {
	Name           string `validate:"required,max=200"`
	TypeName       string `validate:"max=100"`
	Classification string `validate:"max=200"`
}

// TypeInfo is a lifelist type with its default tiers and field names.
type TypeInfo struct {
	Type   *entities.LifelistType
	Tiers  []string
	Fields []string
	Terms  Terms
}

// Terms are the nouns a lifelist type uses for its entries and observations,
// e.g. "species" and "sighting".
type Terms struct {
	Entry       string `json:"entry"`
	Observation string `json:"observation"`
}

// TemplateSource resolves lifelist type templates by name. *registry.Registry implements it.
type TemplateSource interface {
	GetTemplate(typeName string) registry.Template
	HasTemplate(typeName string) bool
}

// Option configures a Service.
type Option func(*Service)

// WithTemplates makes Terms consult the configured templates first.
func WithTemplates(src TemplateSource) Option {
	return func(s *Service) {
		s.templates = src
	}
}

// Service manages lifelists.
type Service struct {
	store     *repository.Store
	tiers     *tiers.Service
	fields    *fields.Service
	templates TemplateSource
	log       logger.Logger
}

// NewService creates a lifelist service.
func NewService(store *repository.Store, tierSvc *tiers.Service, fieldSvc *fields.Service, log logger.Logger, opts ...Option) *Service {
	s := &Service{
		store:  store,
		tiers:  tierSvc,
		fields: fieldSvc,
		log:    logger.OrDiscard(log).Module("lifelist"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithStore returns a copy of the service bound to another store, typically a transaction.
func (s *Service) WithStore(store *repository.Store) *Service {
	return &Service{
		store:     store,
		tiers:     s.tiers.WithStore(store),
		fields:    s.fields.WithStore(store),
		templates: s.templates,
		log:       s.log,
	}
}

// Create makes a lifelist named name. When typeName is set the type's default tiers and
// fields are copied in the same transaction. A taken name returns an error wrapping
// repository.ErrDuplicateKey; an unknown type returns repository.ErrLifelistTypeNotFound.
func (s *Service) Create(ctx context.Context, name, typeName, classification string) (*entities.Lifelist, error) {
	in := CreateInput{
		Name:           strings.TrimSpace(name),
		TypeName:       strings.TrimSpace(typeName),
		Classification: strings.TrimSpace(classification),
	}
	if err := validate.Struct(in); err != nil {
		return nil, validationError(err, in.Name)
	}

	var created *entities.Lifelist
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		exists, err := tx.Lifelists.NameExists(ctx, in.Name)
		if err != nil {
			return err
		}
		if exists {
			return duplicateName(in.Name)
		}

		l := &entities.Lifelist{Name: in.Name, Classification: in.Classification}
		var lt *entities.LifelistType
		if in.TypeName != "" {
			if lt, err = tx.LifelistTypes.GetByName(ctx, in.TypeName); err != nil {
				return err
			}
			l.LifelistTypeID = &lt.ID
		}
		if err := tx.Lifelists.Create(ctx, l); err != nil {
			return err
		}
		if lt != nil {
			if err := s.WithStore(tx).copyDefaults(ctx, l.ID, lt.ID); err != nil {
				return err
			}
		}
		created = l
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("lifelist created",
		logger.Uint("lifelist_id", created.ID),
		logger.String("name", created.Name),
		logger.String("type", in.TypeName))
	return created, nil
}

// copyDefaults writes the type's default tiers and fields to a new lifelist.
func (s *Service) copyDefaults(ctx context.Context, lifelistID, typeID uint) error {
	names, err := s.store.LifelistTypes.GetTiers(ctx, typeID)
	if err != nil {
		return err
	}
	if len(names) > 0 {
		if err := s.tiers.SetTiers(ctx, lifelistID, names); err != nil {
			return err
		}
	}

	templates, err := s.store.LifelistTypes.GetFields(ctx, typeID)
	if err != nil {
		return err
	}
	for _, t := range templates {
		opts, err := fieldvalue.DecodeOptions(t.FieldOptions)
		if err != nil {
			return err
		}
		if _, err := s.fields.AddField(ctx, lifelistID, fields.FieldSpec{
			Name:     t.FieldName,
			Type:     fieldvalue.Type(t.FieldType),
			Options:  opts,
			Required: t.IsRequired,
			Order:    t.DisplayOrder,
		}); err != nil {
			return err
		}
	}
	return nil
}

// Get returns a lifelist by id.
func (s *Service) Get(ctx context.Context, id uint) (*entities.Lifelist, error) {
	return s.store.Lifelists.GetByID(ctx, id)
}

// GetByName returns a lifelist by exact name.
func (s *Service) GetByName(ctx context.Context, name string) (*entities.Lifelist, error) {
	return s.store.Lifelists.GetByName(ctx, strings.TrimSpace(name))
}

// List returns every lifelist ordered by name.
func (s *Service) List(ctx context.Context) ([]*entities.Lifelist, error) {
	return s.store.Lifelists.GetAll(ctx)
}

// Rename changes a lifelist's name.
func (s *Service) Rename(ctx context.Context, id uint, name string) error {
	in := CreateInput{Name: strings.TrimSpace(name)}
	if err := validate.Struct(in); err != nil {
		return validationError(err, in.Name)
	}
	if err := s.store.Lifelists.Rename(ctx, id, in.Name); err != nil {
		return err
	}
	s.log.Info("lifelist renamed", logger.Uint("lifelist_id", id), logger.String("name", in.Name))
	return nil
}

// Delete removes a lifelist. Tiers, fields, observations, photos and classifications go with it.
func (s *Service) Delete(ctx context.Context, id uint) error {
	if err := s.store.Lifelists.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("lifelist deleted", logger.Uint("lifelist_id", id))
	return nil
}

// Types lists the lifelist types with their defaults.
func (s *Service) Types(ctx context.Context) ([]TypeInfo, error) {
	types, err := s.store.LifelistTypes.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]TypeInfo, 0, len(types))
	for _, t := range types {
		names, err := s.store.LifelistTypes.GetTiers(ctx, t.ID)
		if err != nil {
			return nil, err
		}
		templates, err := s.store.LifelistTypes.GetFields(ctx, t.ID)
		if err != nil {
			return nil, err
		}
		fieldNames := make([]string, len(templates))
		for i, f := range templates {
			fieldNames[i] = f.FieldName
		}
		out = append(out, TypeInfo{Type: t, Tiers: names, Fields: fieldNames, Terms: s.termsFor(t.Name, t)})
	}
	return out, nil
}

// TypeName returns the name of the lifelist's type, or "" for an untyped list.
func (s *Service) TypeName(ctx context.Context, l *entities.Lifelist) (string, error) {
	lt, err := s.lifelistType(ctx, l)
	if err != nil || lt == nil {
		return "", err
	}
	return lt.Name, nil
}

// Terms returns the entry and observation nouns of the lifelist's type. A configured
// template wins over the terms stored on the type; untyped lists get the generic terms.
func (s *Service) Terms(ctx context.Context, l *entities.Lifelist) (Terms, error) {
	lt, err := s.lifelistType(ctx, l)
	if err != nil {
		return Terms{}, err
	}
	name := ""
	if lt != nil {
		name = lt.Name
	}
	return s.termsFor(name, lt), nil
}

func (s *Service) termsFor(typeName string, lt *entities.LifelistType) Terms {
	if s.templates != nil && s.templates.HasTemplate(typeName) {
		t := s.templates.GetTemplate(typeName)
		return Terms{Entry: t.EntryTerm, Observation: t.ObservationTerm}
	}
	if lt != nil && lt.EntryTerm != "" {
		return Terms{Entry: lt.EntryTerm, Observation: lt.ObservationTerm}
	}
	fallback := registry.FallbackTemplate(typeName)
	return Terms{Entry: fallback.EntryTerm, Observation: fallback.ObservationTerm}
}

// lifelistType loads the lifelist's type. Untyped lists and dangling type ids yield nil.
func (s *Service) lifelistType(ctx context.Context, l *entities.Lifelist) (*entities.LifelistType, error) {
	if l.LifelistTypeID == nil {
		return nil, nil
	}
	lt, err := s.store.LifelistTypes.GetByID(ctx, *l.LifelistTypeID)
	if errors.Is(err, repository.ErrLifelistTypeNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return lt, nil
}

func duplicateName(name string) error {
	return errors.New(fmt.Errorf("%w: lifelist %q already exists", repository.ErrDuplicateKey, name)).
		Component("lifelist").
		Category(errors.CategoryConflict).
		Context("name", name).
		Build()
}

func validationError(err error, name string) error {
	return errors.New(fmt.Errorf("%w: %w", repository.ErrInvalidInput, err)).
		Component("lifelist").
		Category(errors.CategoryValidation).
		Context("name", name).
		Build()
}
