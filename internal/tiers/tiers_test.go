package tiers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/datastore/entities"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/datastore/repository"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/errors"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/testutil"
)

func TestGetTiers_Fallbacks(t *testing.T) {
	t.Parallel()
	store := testutil.NewStore(t)
	svc := NewService(store, nil)
	ctx := context.Background()

	birds := testutil.CreateLifelistOfType(t, store, "Backyard Birds", "Wildlife")
	untyped := testutil.CreateLifelist(t, store, "Misc")

	got, err := svc.GetTiers(ctx, birds.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"wild", "heard", "captive"}, got, "type defaults when nothing is configured")

	got, err = svc.GetTiers(ctx, untyped.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"owned", "wanted"}, got)

	require.NoError(t, svc.SetTiers(ctx, birds.ID, []string{"seen", "heard"}))
	got, err = svc.GetTiers(ctx, birds.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"seen", "heard"}, got, "configured tiers win")
}

func TestGetTiers_UnknownLifelist(t *testing.T) {
	t.Parallel()
	svc := NewService(testutil.NewStore(t), nil)

	_, err := svc.GetTiers(context.Background(), 404)
	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrLifelistNotFound)
}

func TestSetTiers_NormalizesAndRejectsEmpty(t *testing.T) {
	t.Parallel()
	store := testutil.NewStore(t)
	svc := NewService(store, nil)
	ctx := context.Background()
	l := testutil.CreateLifelist(t, store, "Books")

	require.NoError(t, svc.SetTiers(ctx, l.ID, []string{" read ", "", "reading", "read"}))
	got, err := svc.GetTiers(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"read", "reading"}, got)

	err = svc.SetTiers(ctx, l.ID, []string{" ", ""})
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))

	got, err = svc.GetTiers(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"read", "reading"}, got, "failed replace leaves the old list")

	err = svc.SetTiers(ctx, 404, []string{"a"})
	assert.ErrorIs(t, err, repository.ErrLifelistNotFound)
}

func TestGetAllTiers_AppendsLegacyTiers(t *testing.T) {
	t.Parallel()
	store := testutil.NewStore(t)
	svc := NewService(store, nil)
	ctx := context.Background()
	l := testutil.CreateLifelist(t, store, "Travel")
	require.NoError(t, svc.SetTiers(ctx, l.ID, []string{"visited", "planned"}))

	for _, tier := range []string{"visited", "transit", "", "layover", "transit"} {
		require.NoError(t, store.Observations.Create(ctx, &entities.Observation{
			LifelistID: l.ID, EntryName: "Lisbon", Tier: tier,
		}))
	}

	all, err := svc.GetAllTiers(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"visited", "planned", "transit", "layover"}, all)

	def, err := svc.DefaultTier(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, "visited", def)

	counts, err := svc.TierCounts(ctx, l.ID)
	require.NoError(t, err)
	byTier := make(map[string]int64, len(counts))
	for _, c := range counts {
		byTier[c.Tier] = c.Count
	}
	assert.Equal(t, int64(2), byTier["transit"])
	assert.Equal(t, int64(1), byTier["visited"])
}

func TestPrecedence(t *testing.T) {
	t.Parallel()
	order := []string{"wild", "heard", "captive"}

	tests := []struct {
		name      string
		current   string
		candidate string
		want      string
	}{
		{"higher candidate replaces", "heard", "wild", "wild"},
		{"lower candidate ignored", "wild", "captive", "wild"},
		{"tie keeps current", "heard", "heard", "heard"},
		{"unknown candidate ignored", "captive", "zoo", "captive"},
		{"known beats unknown", "zoo", "captive", "captive"},
		{"two unknowns keep current", "zoo", "aquarium", "zoo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(order, tt.current, tt.candidate))
		})
	}

	p := NewPrecedence([]string{"a", "b", "a"})
	assert.Greater(t, p.Rank("a"), p.Rank("b"), "first occurrence sets the rank")
	assert.Zero(t, p.Rank("c"))
}

func TestNormalize(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"x", "y"}, Normalize([]string{"x", " y", "x ", "  "}))
	assert.Empty(t, Normalize(nil))
}
