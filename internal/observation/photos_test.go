package observation

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/datastore/repository"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/errors"
)

type fakeExtractor struct {
	lat, lon *float64
	taken    *time.Time
	err      error
	calls    int
}

func (f *fakeExtractor) Extract(string) (lat, lon *float64, taken *time.Time, err error) {
	f.calls++
	return f.lat, f.lon, f.taken, f.err
}

func (f *fixture) photo(t *testing.T, observationID uint, path string, primary bool) uint {
	t.Helper()
	id, err := f.svc.AddPhoto(context.Background(), PhotoInput{ObservationID: observationID, FilePath: path, IsPrimary: primary})
	require.NoError(t, err)
	return id
}

func (f *fixture) isPrimary(t *testing.T, photoID uint) bool {
	t.Helper()
	p, err := f.store.Photos.GetByID(context.Background(), photoID)
	require.NoError(t, err)
	return p.IsPrimary
}

func TestSetPrimaryPhoto_SpansObservationsOfEntry(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	first := f.add(t, Input{EntryName: "Blue Jay"})
	second := f.add(t, Input{EntryName: "Blue Jay"})
	robin := f.add(t, Input{EntryName: "Robin"})

	a := f.photo(t, first, "a.jpg", true)
	b := f.photo(t, second, "b.jpg", false)
	r := f.photo(t, robin, "r.jpg", true)

	require.NoError(t, f.svc.SetPrimaryPhoto(ctx, b, first))

	assert.False(t, f.isPrimary(t, a))
	assert.True(t, f.isPrimary(t, b))
	assert.True(t, f.isPrimary(t, r), "other entries keep their primary photo")

	primary, err := f.svc.PrimaryPhoto(ctx, f.birds.ID, "Blue Jay")
	require.NoError(t, err)
	assert.Equal(t, b, primary.ID)

	err = f.svc.SetPrimaryPhoto(ctx, r, first)
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err), "photo of another entry is rejected")
	assert.True(t, f.isPrimary(t, b))

	err = f.svc.SetPrimaryPhoto(ctx, 404, first)
	assert.ErrorIs(t, err, repository.ErrPhotoNotFound)
}

func TestPrimaryPhoto_FallsBackToFirstPhoto(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.PrimaryPhoto(ctx, f.birds.ID, "Owl")
	assert.ErrorIs(t, err, repository.ErrPhotoNotFound)

	obs := f.add(t, Input{EntryName: "Owl"})
	first := f.photo(t, obs, "owl-1.jpg", false)
	f.photo(t, obs, "owl-2.jpg", false)

	photo, err := f.svc.PrimaryPhoto(ctx, f.birds.ID, "Owl")
	require.NoError(t, err)
	assert.Equal(t, first, photo.ID)
	assert.False(t, photo.IsPrimary)
}

func TestDeletePhoto_PromotesRemainingPhoto(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	first := f.add(t, Input{EntryName: "Blue Jay"})
	second := f.add(t, Input{EntryName: "Blue Jay"})
	p1 := f.photo(t, first, "1.jpg", false)
	p2 := f.photo(t, first, "2.jpg", false)
	p3 := f.photo(t, second, "3.jpg", true)

	path, err := f.svc.DeletePhoto(ctx, p3)
	require.NoError(t, err)
	assert.Equal(t, "3.jpg", path)

	primary, err := f.store.Photos.Primary(ctx, f.birds.ID, "Blue Jay")
	require.NoError(t, err)
	assert.Equal(t, p1, primary.ID, "lowest remaining id is promoted")

	_, err = f.svc.DeletePhoto(ctx, p2)
	require.NoError(t, err)
	primary, err = f.store.Photos.Primary(ctx, f.birds.ID, "Blue Jay")
	require.NoError(t, err)
	assert.Equal(t, p1, primary.ID, "deleting a secondary photo keeps the pointer")

	_, err = f.svc.DeletePhoto(ctx, p1)
	require.NoError(t, err)
	_, err = f.store.Photos.Primary(ctx, f.birds.ID, "Blue Jay")
	assert.ErrorIs(t, err, repository.ErrPhotoNotFound)

	_, err = f.svc.DeletePhoto(ctx, p1)
	assert.ErrorIs(t, err, repository.ErrPhotoNotFound)
}

func TestAddPhoto(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("metadata filled from extractor", func(t *testing.T) {
		taken := time.Date(2024, 5, 1, 7, 30, 0, 0, time.UTC)
		extractor := &fakeExtractor{lat: ptr(45.5), lon: ptr(-73.6), taken: &taken}
		f := newFixture(t, WithMetadataExtractor(extractor))
		obs := f.add(t, Input{EntryName: "Blue Jay"})

		id := f.photo(t, obs, "jay.jpg", false)
		p, err := f.store.Photos.GetByID(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, p.Latitude)
		assert.InDelta(t, 45.5, *p.Latitude, 1e-9)
		assert.InDelta(t, -73.6, *p.Longitude, 1e-9)
		require.NotNil(t, p.TakenDate)
		assert.True(t, taken.Equal(*p.TakenDate))

		explicit := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
		id, err = f.svc.AddPhoto(ctx, PhotoInput{
			ObservationID: obs, FilePath: "given.jpg",
			Latitude: ptr(1), Longitude: ptr(2), TakenDate: &explicit,
		})
		require.NoError(t, err)
		assert.Equal(t, 1, extractor.calls, "complete metadata skips extraction")
		p, err = f.store.Photos.GetByID(ctx, id)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, *p.Latitude, 1e-9)
	})

	t.Run("extractor failure is ignored", func(t *testing.T) {
		f := newFixture(t, WithMetadataExtractor(&fakeExtractor{err: fmt.Errorf("no exif")}))
		obs := f.add(t, Input{EntryName: "Owl"})

		id := f.photo(t, obs, "owl.jpg", false)
		p, err := f.store.Photos.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, p.Latitude)
		assert.Nil(t, p.TakenDate)
	})

	t.Run("validation", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.AddPhoto(ctx, PhotoInput{ObservationID: 1, FilePath: ""})
		assert.True(t, errors.IsValidation(err))

		_, err = f.svc.AddPhoto(ctx, PhotoInput{ObservationID: 404, FilePath: "x.jpg"})
		assert.ErrorIs(t, err, repository.ErrObservationNotFound)
	})
}
