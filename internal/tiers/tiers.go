// Package tiers manages the ordered tier list of each lifelist and resolves which of two
// tiers takes precedence when observations of the same entry are aggregated.
package tiers

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/datastore/repository"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/errors"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/logger"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/registry"
)

// Service reads and replaces lifelist tiers.
type Service struct {
	store *repository.Store
	log   logger.Logger
}

// NewService creates a tier service over store.
func NewService(store *repository.Store, log logger.Logger) *Service {
	return &Service{
		store: store,
		log:   logger.OrDiscard(log).Module("tiers"),
	}
}

// WithStore returns a copy of the service bound to another store, typically a transaction.
func (s *Service) WithStore(store *repository.Store) *Service {
	return &Service{store: store, log: s.log}
}

// SetTiers replaces the tier list of a lifelist. Names are trimmed and de-duplicated,
// keeping the first occurrence; at least one name must remain. The old list is replaced
// in one transaction so readers never see a partial list.
func (s *Service) SetTiers(ctx context.Context, lifelistID uint, names []string) error {
	cleaned := Normalize(names)
	if len(cleaned) == 0 {
		return errors.New(fmt.Errorf("%w: tier list is empty", repository.ErrInvalidInput)).
			Component("tiers").
			Category(errors.CategoryValidation).
			Context("lifelist_id", lifelistID).
			Build()
	}

	if _, err := s.store.Lifelists.GetByID(ctx, lifelistID); err != nil {
		return err
	}

	if err := s.store.Tiers.ReplaceTiers(ctx, lifelistID, cleaned); err != nil {
		return err
	}

	s.log.Info("tiers replaced",
		logger.Uint("lifelist_id", lifelistID),
		logger.Any("tiers", cleaned))
	return nil
}

// GetTiers returns the configured tiers of a lifelist. When none are configured it falls
// back to the default tiers of the lifelist's type, and then to the generic owned/wanted
// pair. The result is never empty.
func (s *Service) GetTiers(ctx context.Context, lifelistID uint) ([]string, error) {
	configured, err := s.store.Tiers.GetTiers(ctx, lifelistID)
	if err != nil {
		return nil, err
	}
	if len(configured) > 0 {
		return configured, nil
	}

	lifelist, err := s.store.Lifelists.GetByID(ctx, lifelistID)
	if err != nil {
		return nil, err
	}

	if lifelist.LifelistTypeID != nil {
		defaults, err := s.store.LifelistTypes.GetTiers(ctx, *lifelist.LifelistTypeID)
		if err != nil {
			return nil, err
		}
		if len(defaults) > 0 {
			s.log.Debug("using lifelist type default tiers", logger.Uint("lifelist_id", lifelistID))
			return defaults, nil
		}
	}

	return slices.Clone(registry.FallbackTiers), nil
}

// GetAllTiers returns the tiers of GetTiers followed by any other tier recorded on the
// lifelist's observations, without duplicates, in order of first appearance.
func (s *Service) GetAllTiers(ctx context.Context, lifelistID uint) ([]string, error) {
	tiers, err := s.GetTiers(ctx, lifelistID)
	if err != nil {
		return nil, err
	}
	used, err := s.store.Tiers.UsedTiers(ctx, lifelistID)
	if err != nil {
		return nil, err
	}

	for _, tier := range used {
		if !slices.Contains(tiers, tier) {
			tiers = append(tiers, tier)
		}
	}
	return tiers, nil
}

// DefaultTier returns the tier assigned to observations recorded without one:
// the first tier of GetTiers.
func (s *Service) DefaultTier(ctx context.Context, lifelistID uint) (string, error) {
	tiers, err := s.GetTiers(ctx, lifelistID)
	if err != nil {
		return "", err
	}
	if len(tiers) == 0 {
		return registry.FallbackTiers[0], nil
	}
	return tiers[0], nil
}

// TierCounts returns the number of observations recorded with each tier.
func (s *Service) TierCounts(ctx context.Context, lifelistID uint) ([]repository.TierCount, error) {
	return s.store.Tiers.CountByTier(ctx, lifelistID)
}

// Normalize trims names, drops blanks and removes duplicates, keeping the first occurrence.
func Normalize(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || slices.Contains(out, name) {
			continue
		}
		out = append(out, name)
	}
	return out
}
