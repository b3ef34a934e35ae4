package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/datastore/entities"
)

func activeIDs(t *testing.T, s *Store, lifelistID uint) []uint {
	t.Helper()
	var ids []uint
	require.NoError(t, s.DB().Model(&entities.Classification{}).
		Where("lifelist_id = ? AND is_active = ?", lifelistID, true).
		Pluck("id", &ids).Error)
	return ids
}

func TestClassificationRepository_SetActive(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()
	l := createLifelist(t, s, "Birds")
	other := createLifelist(t, s, "Plants")

	c1 := &entities.Classification{LifelistID: l.ID, Name: "eBird"}
	c2 := &entities.Classification{LifelistID: l.ID, Name: "IOC"}
	foreign := &entities.Classification{LifelistID: other.ID, Name: "WFO"}
	for _, c := range []*entities.Classification{c1, c2, foreign} {
		require.NoError(t, s.Classifications.Create(ctx, c))
	}

	_, err := s.Classifications.GetActive(ctx, l.ID)
	require.ErrorIs(t, err, ErrNoActiveClassification)

	require.NoError(t, s.Classifications.SetActive(ctx, c1.ID, l.ID))
	require.NoError(t, s.Classifications.SetActive(ctx, c2.ID, l.ID))
	require.NoError(t, s.Classifications.SetActive(ctx, c2.ID, l.ID), "re-activating is idempotent")
	assert.Equal(t, []uint{c2.ID}, activeIDs(t, s, l.ID))

	err = s.Classifications.SetActive(ctx, foreign.ID, l.ID)
	require.ErrorIs(t, err, ErrClassificationNotFound)
	assert.Equal(t, []uint{c2.ID}, activeIDs(t, s, l.ID), "mismatched lifelist changes nothing")

	active, err := s.Classifications.GetActive(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, "IOC", active.Name)

	has, err := s.Classifications.HasActive(ctx, other.ID)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestClassificationEntryRepository_SearchRanking(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()
	l := createLifelist(t, s, "Birds")
	c := &entities.Classification{LifelistID: l.ID, Name: "Test"}
	require.NoError(t, s.Classifications.Create(ctx, c))

	entries := []*entities.ClassificationEntry{
		{ClassificationID: c.ID, Name: "Corvus"},
		{ClassificationID: c.ID, Name: "Turdus migratorius", AlternateName: "Robin"},
		{ClassificationID: c.ID, Name: "American Robin"},
		{ClassificationID: c.ID, Name: "Robin"},
		{ClassificationID: c.ID, Name: "robin chat"},
	}
	require.NoError(t, s.Entries.CreateBatch(ctx, entries, 2))

	matches, err := s.Entries.Search(ctx, c.ID, "rob", 10)
	require.NoError(t, err)

	var names []string
	var ranks []int
	for _, m := range matches {
		names = append(names, m.Name)
		ranks = append(ranks, m.MatchRank)
	}
	assert.Equal(t, []string{"Robin", "robin chat", "Turdus migratorius", "American Robin"}, names)
	assert.Equal(t, []int{1, 1, 2, 3}, ranks)
	assert.Equal(t, "Robin", matches[2].AlternateName)

	limited, err := s.Entries.Search(ctx, c.ID, "rob", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestClassificationEntryRepository_SearchEscapesWildcards(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()
	l := createLifelist(t, s, "Books")
	c := &entities.Classification{LifelistID: l.ID, Name: "Shelf"}
	require.NoError(t, s.Classifications.Create(ctx, c))

	require.NoError(t, s.Entries.CreateBatch(ctx, []*entities.ClassificationEntry{
		{ClassificationID: c.ID, Name: "100% Cotton"},
		{ClassificationID: c.ID, Name: "1000 Cranes"},
		{ClassificationID: c.ID, Name: "snake_case"},
		{ClassificationID: c.ID, Name: "snakes"},
	}, 0))

	matches, err := s.Entries.Search(ctx, c.ID, "100%", 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "100% Cotton", matches[0].Name)

	matches, err = s.Entries.Search(ctx, c.ID, "e_c", 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "snake_case", matches[0].Name)
}

func TestClassificationEntryRepository_SearchFoldsNonASCII(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()
	l := createLifelist(t, s, "Oiseaux")
	c := &entities.Classification{LifelistID: l.ID, Name: "Avibase"}
	require.NoError(t, s.Classifications.Create(ctx, c))

	require.NoError(t, s.Entries.CreateBatch(ctx, []*entities.ClassificationEntry{
		{ClassificationID: c.ID, Name: "Étourneau sansonnet", AlternateName: "Sturnus vulgaris"},
		{ClassificationID: c.ID, Name: "Sturnus unicolor", AlternateName: "ÉTOURNEAU UNICOLORE"},
		{ClassificationID: c.ID, Name: "Straße-Taube"},
	}, 0))

	for _, term := range []string{"étourneau", "Étourneau", "ÉTOURNEAU"} {
		matches, err := s.Entries.Search(ctx, c.ID, term, 10)
		require.NoError(t, err, term)
		require.Len(t, matches, 2, term)
		assert.Equal(t, "Étourneau sansonnet", matches[0].Name, term)
		assert.Equal(t, 1, matches[0].MatchRank, term)
		assert.Equal(t, "Sturnus unicolor", matches[1].Name, term)
		assert.Equal(t, 2, matches[1].MatchRank, term)
	}

	matches, err := s.Entries.Search(ctx, c.ID, "STRASSE", 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Straße-Taube", matches[0].Name)
}

func TestClassificationEntry_AdditionalDataAndParent(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()
	l := createLifelist(t, s, "Birds")
	c := &entities.Classification{LifelistID: l.ID, Name: "Test"}
	require.NoError(t, s.Classifications.Create(ctx, c))

	parent := &entities.ClassificationEntry{ClassificationID: c.ID, Name: "Turdidae", Rank: "family"}
	require.NoError(t, s.Entries.Create(ctx, parent))
	child := &entities.ClassificationEntry{
		ClassificationID: c.ID,
		Name:             "Turdus migratorius",
		ParentID:         &parent.ID,
		AdditionalData:   entities.AdditionalData{"Notes": "common"},
	}
	require.NoError(t, s.Entries.Create(ctx, child))

	got, err := s.Entries.GetByID(ctx, child.ID)
	require.NoError(t, err)
	assert.Equal(t, "common", got.AdditionalData["Notes"])

	require.NoError(t, s.DB().Delete(&entities.ClassificationEntry{}, parent.ID).Error)
	got, err = s.Entries.GetByID(ctx, child.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ParentID, "parent deletion sets the reference to NULL")

	count, err := s.Entries.Count(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, s.Classifications.Delete(ctx, c.ID))
	count, err = s.Entries.Count(ctx, c.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}
