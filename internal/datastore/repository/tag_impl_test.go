package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/datastore/entities"
)

func TestTagRepository_GetOrCreateIsIdempotent(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.Tags.GetOrCreate(ctx, "Owl", "Bird")
	require.NoError(t, err)
	second, err := s.Tags.GetOrCreate(ctx, "Owl", "Other")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Bird", second.Category, "category is fixed at creation")

	var count int64
	require.NoError(t, s.DB().Model(&entities.Tag{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestTagRepository_GetOrCreateConcurrent(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	const workers = 8
	ids := make([]uint, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tag, err := s.Tags.GetOrCreate(ctx, "Migrant", "")
			if assert.NoError(t, err) {
				ids[i] = tag.ID
			}
		}()
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
}

func TestTagRepository_ObservationLinks(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()
	l := createLifelist(t, s, "Birds")
	o := createObservation(t, s, l.ID, "Owl", "wild", nil)
	o2 := createObservation(t, s, l.ID, "Jay", "wild", nil)

	night, err := s.Tags.GetOrCreate(ctx, "night", "time")
	require.NoError(t, err)
	forest, err := s.Tags.GetOrCreate(ctx, "forest", "habitat")
	require.NoError(t, err)

	added, err := s.Tags.AddToObservation(ctx, o.ID, night.ID)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = s.Tags.AddToObservation(ctx, o.ID, night.ID)
	require.NoError(t, err)
	assert.False(t, added, "duplicate add is a no-op")

	_, err = s.Tags.AddToObservation(ctx, o.ID, forest.ID)
	require.NoError(t, err)
	_, err = s.Tags.AddToObservation(ctx, o2.ID, forest.ID)
	require.NoError(t, err)

	tags, err := s.Tags.ForObservation(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "forest", tags[0].Name)

	byObs, err := s.Tags.ForObservations(ctx, []uint{o.ID, o2.ID})
	require.NoError(t, err)
	assert.Len(t, byObs[o.ID], 2)
	assert.Len(t, byObs[o2.ID], 1)

	removed, err := s.Tags.RemoveFromObservation(ctx, o.ID, night.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = s.Tags.RemoveFromObservation(ctx, o.ID, night.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	require.NoError(t, s.Tags.Delete(ctx, forest.ID))
	tags, err = s.Tags.ForObservation(ctx, o.ID)
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestTagRepository_Hierarchy(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	owl, err := s.Tags.GetOrCreate(ctx, "owl", "")
	require.NoError(t, err)
	raptor, err := s.Tags.GetOrCreate(ctx, "raptor", "")
	require.NoError(t, err)
	nocturnal, err := s.Tags.GetOrCreate(ctx, "nocturnal", "")
	require.NoError(t, err)

	added, err := s.Tags.AddParent(ctx, owl.ID, raptor.ID)
	require.NoError(t, err)
	assert.True(t, added)
	added, err = s.Tags.AddParent(ctx, owl.ID, raptor.ID)
	require.NoError(t, err)
	assert.False(t, added)
	_, err = s.Tags.AddParent(ctx, owl.ID, nocturnal.ID)
	require.NoError(t, err)

	_, err = s.Tags.AddParent(ctx, owl.ID, owl.ID)
	require.ErrorIs(t, err, ErrInvalidInput)

	parents, err := s.Tags.Parents(ctx, owl.ID)
	require.NoError(t, err)
	require.Len(t, parents, 2)
	assert.Equal(t, "nocturnal", parents[0].Name)
	assert.Equal(t, "raptor", parents[1].Name)

	children, err := s.Tags.Children(ctx, raptor.ID)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, "owl", children[0].Name)
}

func TestEscapeLike(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "100!%", escapeLike("100%"))
	assert.Equal(t, "a!_b", escapeLike("a_b"))
	assert.Equal(t, "wow!!", escapeLike("wow!"))
	assert.Equal(t, "%rob!%%", containsPattern("ROB%"))
	assert.Equal(t, "rob%", prefixPattern("Rob"))
}
