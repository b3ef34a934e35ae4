package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/datastore/entities"
)

func primaryFlags(t *testing.T, s *Store, photos ...*entities.Photo) []bool {
	t.Helper()
	flags := make([]bool, len(photos))
	for i, p := range photos {
		got, err := s.Photos.GetByID(context.Background(), p.ID)
		require.NoError(t, err)
		flags[i] = got.IsPrimary
	}
	return flags
}

func TestPhotoRepository_SetPrimarySpansObservations(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()
	l := createLifelist(t, s, "Birds")

	first := createObservation(t, s, l.ID, "Blue Jay", "wild", nil)
	second := createObservation(t, s, l.ID, "Blue Jay", "heard", nil)
	other := createObservation(t, s, l.ID, "Robin", "wild", nil)

	p1 := createPhoto(t, s, first.ID, "a.jpg")
	p2 := createPhoto(t, s, second.ID, "b.jpg")
	p3 := createPhoto(t, s, other.ID, "c.jpg")

	require.NoError(t, s.Photos.SetPrimary(ctx, p3.ID, l.ID, "Robin"))
	require.NoError(t, s.Photos.SetPrimary(ctx, p1.ID, l.ID, "Blue Jay"))
	require.NoError(t, s.Photos.SetPrimary(ctx, p2.ID, l.ID, "Blue Jay"))

	assert.Equal(t, []bool{false, true, true}, primaryFlags(t, s, p1, p2, p3),
		"the other observation's photo is cleared; other entries are untouched")

	primary, err := s.Photos.Primary(ctx, l.ID, "Blue Jay")
	require.NoError(t, err)
	assert.Equal(t, p2.ID, primary.ID)

	var pointers int64
	require.NoError(t, s.DB().Model(&entities.EntryPrimaryPhoto{}).Count(&pointers).Error)
	assert.Equal(t, int64(2), pointers, "one pointer per entry")

	entryPhotos, err := s.Photos.ListByEntry(ctx, l.ID, "Blue Jay")
	require.NoError(t, err)
	assert.Len(t, entryPhotos, 2)
}

func TestPhotoRepository_ClearAndDelete(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()
	l := createLifelist(t, s, "Birds")

	o := createObservation(t, s, l.ID, "Owl", "wild", nil)
	p1 := createPhoto(t, s, o.ID, "a.jpg")
	p2 := createPhoto(t, s, o.ID, "b.jpg")

	require.NoError(t, s.Photos.SetPrimary(ctx, p1.ID, l.ID, "Owl"))
	require.NoError(t, s.Photos.ClearPrimary(ctx, l.ID, "Owl"))
	_, err := s.Photos.Primary(ctx, l.ID, "Owl")
	require.ErrorIs(t, err, ErrPhotoNotFound)
	assert.Equal(t, []bool{false, false}, primaryFlags(t, s, p1, p2))

	require.NoError(t, s.Photos.SetPrimary(ctx, p2.ID, l.ID, "Owl"))
	require.NoError(t, s.Photos.ClearPrimaryForObservation(ctx, o.ID))
	_, err = s.Photos.Primary(ctx, l.ID, "Owl")
	require.ErrorIs(t, err, ErrPhotoNotFound)

	require.NoError(t, s.Photos.SetPrimary(ctx, p2.ID, l.ID, "Owl"))
	require.NoError(t, s.Photos.Delete(ctx, p2.ID))
	_, err = s.Photos.Primary(ctx, l.ID, "Owl")
	require.ErrorIs(t, err, ErrPhotoNotFound, "pointer cascades with the photo")

	photos, err := s.Photos.ListByObservation(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, photos, 1)
	assert.Equal(t, p1.ID, photos[0].ID)

	assert.ErrorIs(t, s.Photos.Delete(ctx, p2.ID), ErrPhotoNotFound)
}
