package repository

import (
	"context"
)

// TierCount is the number of observations recorded with one tier.
type TierCount struct {
	Tier  string
	Count int64
}

// TierRepository provides access to the configured tiers of a lifelist.
type TierRepository interface {
	// GetTiers returns the configured tier names of a lifelist in order.
	// An empty slice means the lifelist has no configured tiers.
	GetTiers(ctx context.Context, lifelistID uint) ([]string, error)

	// ReplaceTiers deletes all configured tiers of a lifelist and inserts names in order,
	// atomically. Readers never observe a partial list.
	ReplaceTiers(ctx context.Context, lifelistID uint, names []string) error

	// UsedTiers returns the distinct non-empty tiers recorded on observations in order of first use.
	UsedTiers(ctx context.Context, lifelistID uint) ([]string, error)

	// CountByTier returns observation counts grouped by tier.
	CountByTier(ctx context.Context, lifelistID uint) ([]TierCount, error)
}
