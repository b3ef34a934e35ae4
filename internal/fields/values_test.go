package fields

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/datastore/entities"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/errors"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/fieldvalue"
)

func TestValues_StoredAsTextAndTyped(t *testing.T) {
	t.Parallel()
	svc, store, l := newTestService(t)
	ctx := context.Background()

	price, err := svc.AddField(ctx, l.ID, FieldSpec{Name: "Price", Type: fieldvalue.TypeNumber})
	require.NoError(t, err)
	tried, err := svc.AddField(ctx, l.ID, FieldSpec{Name: "Tried", Type: fieldvalue.TypeDate})
	require.NoError(t, err)
	vegan, err := svc.AddField(ctx, l.ID, FieldSpec{Name: "Vegan", Type: fieldvalue.TypeBoolean})
	require.NoError(t, err)

	o := &entities.Observation{LifelistID: l.ID, EntryName: "Ramen"}
	require.NoError(t, store.Observations.Create(ctx, o))

	descriptors, err := svc.ListFields(ctx, l.ID)
	require.NoError(t, err)

	normalized, err := NormalizeValues(descriptors, map[uint]string{price: "12.5", tried: "2024-03-01", vegan: "yes"})
	require.NoError(t, err)
	assert.Equal(t, "true", normalized[vegan])

	require.NoError(t, svc.SetValues(ctx, o.ID, normalized))

	raw, err := svc.Values(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, map[uint]string{price: "12.5", tried: "2024-03-01", vegan: "true"}, raw)

	typed, err := svc.TypedValues(ctx, l.ID, o.ID)
	require.NoError(t, err)
	n, ok := typed["Price"].Number()
	require.True(t, ok)
	assert.InDelta(t, 12.5, n, 0.0001)
	b, ok := typed["Vegan"].Bool()
	require.True(t, ok)
	assert.True(t, b)
	d, ok := typed["Tried"].Date()
	require.True(t, ok)
	assert.Equal(t, 2024, d.Year())
}

func TestNormalizeValues_RejectsBadInput(t *testing.T) {
	t.Parallel()

	descriptors := []FieldDescriptor{
		{ID: 1, Name: "Taste", Type: fieldvalue.TypeRating, Options: &fieldvalue.Options{Max: 5}},
		{ID: 2, Name: "Course", Type: fieldvalue.TypeChoice, Choices: []fieldvalue.Choice{{Value: "main"}}},
	}

	_, err := NormalizeValues(descriptors, map[uint]string{1: "6"})
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
	assert.ErrorIs(t, err, fieldvalue.ErrInvalidValue)

	_, err = NormalizeValues(descriptors, map[uint]string{2: "dessert"})
	assert.ErrorIs(t, err, fieldvalue.ErrInvalidValue)

	_, err = NormalizeValues(descriptors, map[uint]string{3: "x"})
	assert.True(t, errors.IsValidation(err))

	out, err := NormalizeValues(descriptors, map[uint]string{1: "", 2: "main"})
	require.NoError(t, err)
	assert.Equal(t, map[uint]string{2: "main"}, out, "blank values are dropped")
}

func TestMissingRequired(t *testing.T) {
	t.Parallel()

	descriptors := []FieldDescriptor{
		{ID: 1, Name: "Author", Required: true},
		{ID: 2, Name: "Pages"},
		{ID: 3, Name: "Publisher", Required: true},
	}

	assert.Equal(t, []string{"Author", "Publisher"}, MissingRequired(descriptors, nil))
	assert.Equal(t, []string{"Publisher"}, MissingRequired(descriptors, map[uint]string{1: "Le Guin", 3: "  "}))
	assert.Empty(t, MissingRequired(descriptors, map[uint]string{1: "a", 3: "b"}))
}

func TestResolveNames(t *testing.T) {
	t.Parallel()

	descriptors := []FieldDescriptor{{ID: 1, Name: "Author"}, {ID: 2, Name: "Pages"}}
	values, unknown := ResolveNames(descriptors, map[string]string{"author": "Le Guin", "Pages": "300", "Isbn": "x", "Genre": "y"})

	assert.Equal(t, map[uint]string{1: "Le Guin", 2: "300"}, values)
	assert.Equal(t, []string{"Genre", "Isbn"}, unknown)
}
