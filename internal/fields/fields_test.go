package fields

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/datastore/entities"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/datastore/repository"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/errors"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/fieldvalue"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/testutil"
)

func newTestService(t *testing.T) (*Service, *repository.Store, *entities.Lifelist) {
	t.Helper()
	store := testutil.NewStore(t)
	l := testutil.CreateLifelist(t, store, "Foods")
	return NewService(store, nil), store, l
}

func TestAddField_ChoiceOptionsKeepOrder(t *testing.T) {
	t.Parallel()
	svc, _, l := newTestService(t)
	ctx := context.Background()

	id, err := svc.AddField(ctx, l.ID, FieldSpec{
		Name: "Course",
		Type: fieldvalue.TypeChoice,
		Options: &fieldvalue.Options{Choices: []fieldvalue.Choice{
			{Value: "starter", Label: "Starter"},
			{Value: "main"},
			{Value: "dessert", Label: "Sweet"},
		}},
		Order: 1,
	})
	require.NoError(t, err)

	got, err := svc.GetField(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, fieldvalue.TypeChoice, got.Type)
	assert.Equal(t, []fieldvalue.Choice{
		{Value: "starter", Label: "Starter"},
		{Value: "main", Label: "main"},
		{Value: "dessert", Label: "Sweet"},
	}, got.Choices, "label defaults to value")
}

func TestAddField_Validation(t *testing.T) {
	t.Parallel()
	svc, _, l := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		spec FieldSpec
	}{
		{"empty name", FieldSpec{Name: "  ", Type: fieldvalue.TypeText}},
		{"unknown type", FieldSpec{Name: "Size", Type: "blob"}},
		{"choice without options", FieldSpec{Name: "Course", Type: fieldvalue.TypeChoice}},
		{"choice with empty value", FieldSpec{Name: "Course", Type: fieldvalue.TypeChoice,
			Options: &fieldvalue.Options{Choices: []fieldvalue.Choice{{Value: ""}}}}},
		{"choice with repeated value", FieldSpec{Name: "Course", Type: fieldvalue.TypeChoice,
			Options: &fieldvalue.Options{Choices: []fieldvalue.Choice{{Value: "a"}, {Value: "a"}}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddField(ctx, l.ID, tt.spec)
			require.Error(t, err)
			assert.True(t, errors.IsValidation(err))
			assert.ErrorIs(t, err, repository.ErrInvalidInput)
		})
	}

	fields, err := svc.ListFields(ctx, l.ID)
	require.NoError(t, err)
	assert.Empty(t, fields, "nothing is written when validation fails")
}

func TestAddField_DuplicateName(t *testing.T) {
	t.Parallel()
	svc, _, l := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddField(ctx, l.ID, FieldSpec{Name: "Restaurant", Type: fieldvalue.TypeText})
	require.NoError(t, err)

	_, err = svc.AddField(ctx, l.ID, FieldSpec{Name: "Restaurant", Type: fieldvalue.TypeNumber})
	require.ErrorIs(t, err, repository.ErrDuplicateKey)
}

func TestListFields_ShapesDifferByType(t *testing.T) {
	t.Parallel()
	svc, _, l := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddField(ctx, l.ID, FieldSpec{Name: "Taste", Type: fieldvalue.TypeRating,
		Options: &fieldvalue.Options{Max: 10}, Order: 2})
	require.NoError(t, err)
	_, err = svc.AddField(ctx, l.ID, FieldSpec{Name: "Spicy", Type: fieldvalue.TypeChoice,
		Options: &fieldvalue.Options{Choices: []fieldvalue.Choice{{Value: "mild"}, {Value: "hot"}}}, Order: 1})
	require.NoError(t, err)
	_, err = svc.AddField(ctx, l.ID, FieldSpec{Name: "Notes", Type: fieldvalue.TypeText, Required: true, Order: 1})
	require.NoError(t, err)

	fields, err := svc.ListFields(ctx, l.ID)
	require.NoError(t, err)
	require.Len(t, fields, 3)

	assert.Equal(t, "Spicy", fields[0].Name, "equal order falls back to creation order")
	assert.Len(t, fields[0].Choices, 2)
	assert.Equal(t, "Notes", fields[1].Name)
	assert.Nil(t, fields[1].Choices)
	assert.True(t, fields[1].Required)
	assert.Equal(t, "Taste", fields[2].Name)
	assert.Nil(t, fields[2].Choices)
	assert.Equal(t, 10, fields[2].Options.RatingMax())
}

func TestDependencies_RoundTripOpaqueData(t *testing.T) {
	t.Parallel()
	svc, store, l := newTestService(t)
	ctx := context.Background()

	parent, err := svc.AddField(ctx, l.ID, FieldSpec{Name: "Homemade", Type: fieldvalue.TypeBoolean})
	require.NoError(t, err)
	child, err := svc.AddField(ctx, l.ID, FieldSpec{Name: "Recipe", Type: fieldvalue.TypeText})
	require.NoError(t, err)

	_, err = svc.AddDependency(ctx, child, parent, "matches_regex", `^(?i)true|yes$`)
	require.NoError(t, err)
	_, err = svc.AddDependency(ctx, child, parent, ConditionNotEmpty, "")
	require.NoError(t, err)

	deps, err := svc.Dependencies(ctx, child)
	require.NoError(t, err)
	require.Len(t, deps, 2)
	assert.Equal(t, Dependency{ID: deps[0].ID, FieldID: child, ParentFieldID: parent,
		ConditionType: "matches_regex", ConditionValue: `^(?i)true|yes$`}, deps[0])
	assert.Equal(t, ConditionNotEmpty, deps[1].ConditionType)

	_, err = svc.AddDependency(ctx, child, child, ConditionEquals, "x")
	assert.True(t, errors.IsValidation(err))

	other := testutil.CreateLifelist(t, store, "Other")
	foreign, err := svc.AddField(ctx, other.ID, FieldSpec{Name: "X", Type: fieldvalue.TypeText})
	require.NoError(t, err)
	_, err = svc.AddDependency(ctx, child, foreign, ConditionEquals, "x")
	assert.True(t, errors.IsValidation(err))

	_, err = svc.AddDependency(ctx, child, 9999, ConditionEquals, "x")
	assert.ErrorIs(t, err, repository.ErrFieldNotFound)
}

func TestDeleteField(t *testing.T) {
	t.Parallel()
	svc, _, l := newTestService(t)
	ctx := context.Background()

	id, err := svc.AddField(ctx, l.ID, FieldSpec{Name: "Course", Type: fieldvalue.TypeChoice,
		Options: &fieldvalue.Options{Choices: []fieldvalue.Choice{{Value: "main"}}}})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteField(ctx, id))
	_, err = svc.GetField(ctx, id)
	assert.ErrorIs(t, err, repository.ErrFieldNotFound)
}
