package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTierRepository_ReplaceTiers(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()
	l := createLifelist(t, s, "Books")

	tiers, err := s.Tiers.GetTiers(ctx, l.ID)
	require.NoError(t, err)
	assert.Empty(t, tiers)

	require.NoError(t, s.Tiers.ReplaceTiers(ctx, l.ID, []string{"read", "reading", "want"}))
	require.NoError(t, s.Tiers.ReplaceTiers(ctx, l.ID, []string{"want", "read"}))

	tiers, err = s.Tiers.GetTiers(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"want", "read"}, tiers)
}

func TestTierRepository_ReplaceTiersRollsBackOnDuplicate(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()
	l := createLifelist(t, s, "Books")

	require.NoError(t, s.Tiers.ReplaceTiers(ctx, l.ID, []string{"read", "want"}))

	err := s.Tiers.ReplaceTiers(ctx, l.ID, []string{"a", "a"})
	require.ErrorIs(t, err, ErrDuplicateKey)

	tiers, err := s.Tiers.GetTiers(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"read", "want"}, tiers, "failed replace must leave the old list intact")
}

func TestTierRepository_UsedTiersAndCounts(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()
	l := createLifelist(t, s, "Birds")

	createObservation(t, s, l.ID, "Jay", "heard", nil)
	createObservation(t, s, l.ID, "Robin", "legacy", nil)
	createObservation(t, s, l.ID, "Crow", "heard", nil)
	createObservation(t, s, l.ID, "Owl", "", nil)

	used, err := s.Tiers.UsedTiers(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"heard", "legacy"}, used, "first-use order, empty tiers skipped")

	counts, err := s.Tiers.CountByTier(ctx, l.ID)
	require.NoError(t, err)
	got := map[string]int64{}
	for _, c := range counts {
		got[c.Tier] = c.Count
	}
	assert.Equal(t, map[string]int64{"": 1, "heard": 2, "legacy": 1}, got)
}
