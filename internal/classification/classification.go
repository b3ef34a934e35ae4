// Package classification manages the reference taxonomies of a lifelist: creation and
// activation, ranked autocomplete search, CSV ingestion driven by a field mapping, and
// downloads of well-known taxonomy sources.
package classification

import (
	"context"
	"strings"

	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/datastore/entities"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/datastore/repository"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/errors"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/logger"
)

// Search limits.
const (
	DefaultSearchLimit = 10
	MaxSearchLimit     = 100
)

// ErrClassificationActive is returned when deleting the active classification of a lifelist.
var ErrClassificationActive = errors.NewStd("classification is active")

// Meta describes a classification record.
type Meta struct {
	Name        string `json:"name" validate:"required"`
	Version     string `json:"version,omitempty"`
	Source      string `json:"source,omitempty"`
	Description string `json:"description,omitempty"`
}

// EntryInput is one classification entry to store.
type EntryInput struct {
	Name           string
	AlternateName  string
	ParentID       *uint
	Category       string
	Code           string
	Rank           string
	IsCustom       bool
	AdditionalData map[string]string
}

// SearchResult is one autocomplete hit.
type SearchResult struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	AlternateName string `json:"alternate_name,omitempty"`
	Category      string `json:"category,omitempty"`
}

// Service manages classifications and their entries.
type Service struct {
	store *repository.Store
	log   logger.Logger
}

// NewService creates a classification service over store.
func NewService(store *repository.Store, log logger.Logger) *Service {
	return &Service{
		store: store,
		log:   logger.OrDiscard(log).Module("classification"),
	}
}

// WithStore returns a copy of the service bound to another store, typically a transaction.
func (s *Service) WithStore(store *repository.Store) *Service {
	return &Service{store: store, log: s.log}
}

// AddClassification creates a classification for a lifelist. It becomes the active
// classification when the lifelist has none.
func (s *Service) AddClassification(ctx context.Context, lifelistID uint, meta Meta) (uint, error) {
	meta.Name = strings.TrimSpace(meta.Name)
	if meta.Name == "" {
		return 0, validationError("classification name is required", "name")
	}

	var created entities.Classification
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := tx.Lifelists.GetByID(ctx, lifelistID); err != nil {
			return err
		}
		hasActive, err := tx.Classifications.HasActive(ctx, lifelistID)
		if err != nil {
			return err
		}

		created = entities.Classification{
			LifelistID:  lifelistID,
			Name:        meta.Name,
			Version:     meta.Version,
			Source:      meta.Source,
			Description: meta.Description,
			IsActive:    !hasActive,
		}
		return tx.Classifications.Create(ctx, &created)
	})
	if err != nil {
		return 0, err
	}

	s.log.Info("classification added",
		logger.Uint("lifelist_id", lifelistID),
		logger.Uint("classification_id", created.ID),
		logger.String("name", created.Name),
		logger.Bool("active", created.IsActive))
	return created.ID, nil
}

// Get returns a classification by id.
func (s *Service) Get(ctx context.Context, id uint) (*entities.Classification, error) {
	return s.store.Classifications.GetByID(ctx, id)
}

// List returns the classifications of a lifelist in creation order.
func (s *Service) List(ctx context.Context, lifelistID uint) ([]*entities.Classification, error) {
	return s.store.Classifications.ListByLifelist(ctx, lifelistID)
}

// Active returns the active classification of a lifelist, or repository.ErrNoActiveClassification.
func (s *Service) Active(ctx context.Context, lifelistID uint) (*entities.Classification, error) {
	return s.store.Classifications.GetActive(ctx, lifelistID)
}

// SetActive makes classificationID the only active classification of lifelistID.
// Activating the already active classification is a no-op.
func (s *Service) SetActive(ctx context.Context, classificationID, lifelistID uint) error {
	if err := s.store.Classifications.SetActive(ctx, classificationID, lifelistID); err != nil {
		return err
	}
	s.log.Info("classification activated",
		logger.Uint("lifelist_id", lifelistID),
		logger.Uint("classification_id", classificationID))
	return nil
}

// Delete removes a classification and its entries. The active classification cannot be
// deleted; activate another one first.
func (s *Service) Delete(ctx context.Context, id uint) error {
	c, err := s.store.Classifications.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c.IsActive {
		return errors.New(ErrClassificationActive).
			Component("classification").
			Category(errors.CategoryState).
			Context("classification_id", id).
			Context("lifelist_id", c.LifelistID).
			Build()
	}
	if err := s.store.Classifications.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("classification deleted", logger.Uint("classification_id", id))
	return nil
}

// AddEntry stores one entry in a classification.
func (s *Service) AddEntry(ctx context.Context, classificationID uint, in EntryInput) (uint, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return 0, validationError("entry name is required", "name")
	}
	if _, err := s.store.Classifications.GetByID(ctx, classificationID); err != nil {
		return 0, err
	}

	entry := newEntry(classificationID, in)
	if err := s.store.Entries.Create(ctx, entry); err != nil {
		return 0, err
	}
	return entry.ID, nil
}

// Entries returns every entry of a classification in insertion order.
func (s *Service) Entries(ctx context.Context, classificationID uint) ([]*entities.ClassificationEntry, error) {
	return s.store.Entries.ListByClassification(ctx, classificationID)
}

// Search returns up to limit entries whose name or alternate name contains term, ignoring
// case. Name prefix matches come first, then alternate name prefix matches, then the rest,
// alphabetical by name within each group. A blank term returns no results.
func (s *Service) Search(ctx context.Context, classificationID uint, term string, limit int) ([]SearchResult, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []SearchResult{}, nil
	}

	matches, err := s.store.Entries.Search(ctx, classificationID, term, clampLimit(limit))
	if err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(matches))
	for _, m := range matches {
		results = append(results, SearchResult{
			ID:            m.ID,
			Name:          m.Name,
			AlternateName: m.AlternateName,
			Category:      m.Category,
		})
	}
	return results, nil
}

// SearchActive searches the active classification of a lifelist. A lifelist without an
// active classification yields no results.
func (s *Service) SearchActive(ctx context.Context, lifelistID uint, term string, limit int) ([]SearchResult, error) {
	active, err := s.store.Classifications.GetActive(ctx, lifelistID)
	if errors.Is(err, repository.ErrNoActiveClassification) {
		return []SearchResult{}, nil
	}
	if err != nil {
		return nil, err
	}
	return s.Search(ctx, active.ID, term, limit)
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultSearchLimit
	case limit > MaxSearchLimit:
		return MaxSearchLimit
	default:
		return limit
	}
}

func newEntry(classificationID uint, in EntryInput) *entities.ClassificationEntry {
	var extra entities.AdditionalData
	if len(in.AdditionalData) > 0 {
		extra = entities.AdditionalData(in.AdditionalData).Clone()
	}
	return &entities.ClassificationEntry{
		ClassificationID: classificationID,
		Name:             in.Name,
		AlternateName:    strings.TrimSpace(in.AlternateName),
		ParentID:         in.ParentID,
		Category:         strings.TrimSpace(in.Category),
		Code:             strings.TrimSpace(in.Code),
		Rank:             strings.TrimSpace(in.Rank),
		IsCustom:         in.IsCustom,
		AdditionalData:   extra,
	}
}

func validationError(message, field string) error {
	return errors.Newf("%w: %s", repository.ErrInvalidInput, message).
		Component("classification").
		Category(errors.CategoryValidation).
		Context("field", field).
		Build()
}
