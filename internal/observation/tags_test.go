package observation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/datastore/repository"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/errors"
)

func TestTags(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	birds, err := f.svc.AddTag(ctx, " birds ", "group")
	require.NoError(t, err)
	again, err := f.svc.AddTag(ctx, "birds", "other")
	require.NoError(t, err)
	assert.Equal(t, birds.ID, again.ID)
	assert.Equal(t, "group", again.Category, "existing category is kept")

	_, err = f.svc.AddTag(ctx, "", "")
	assert.True(t, errors.IsValidation(err))

	corvids, err := f.svc.AddTag(ctx, "corvids", "group")
	require.NoError(t, err)
	jays, err := f.svc.AddTag(ctx, "jays", "group")
	require.NoError(t, err)

	created, err := f.svc.AddTagParent(ctx, corvids.ID, birds.ID)
	require.NoError(t, err)
	assert.True(t, created)
	created, err = f.svc.AddTagParent(ctx, corvids.ID, birds.ID)
	require.NoError(t, err)
	assert.False(t, created)
	_, err = f.svc.AddTagParent(ctx, jays.ID, corvids.ID)
	require.NoError(t, err)
	_, err = f.svc.AddTagParent(ctx, jays.ID, jays.ID)
	assert.Error(t, err)

	parents, children, err := f.svc.TagHierarchy(ctx, corvids.ID)
	require.NoError(t, err)
	require.Len(t, parents, 1)
	assert.Equal(t, "birds", parents[0].Name)
	require.Len(t, children, 1)
	assert.Equal(t, "jays", children[0].Name)

	_, _, err = f.svc.TagHierarchy(ctx, 404)
	assert.ErrorIs(t, err, repository.ErrTagNotFound)

	obs := f.add(t, Input{EntryName: "Blue Jay"})
	linked, err := f.svc.AddTagToObservation(ctx, obs, jays.ID)
	require.NoError(t, err)
	assert.True(t, linked)
	linked, err = f.svc.AddTagToObservation(ctx, obs, jays.ID)
	require.NoError(t, err)
	assert.False(t, linked)

	removed, err := f.svc.RemoveTagFromObservation(ctx, obs, jays.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = f.svc.RemoveTagFromObservation(ctx, obs, jays.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	require.NoError(t, f.svc.DeleteTag(ctx, jays.ID))
	all, err := f.svc.AllTags(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
