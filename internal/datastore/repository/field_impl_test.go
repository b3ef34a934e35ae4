package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/datastore/entities"
)

func TestFieldRepository_CreateWithOptions(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()
	l := createLifelist(t, s, "Foods")

	choice := &entities.CustomField{LifelistID: l.ID, FieldName: "Course", FieldType: "choice", DisplayOrder: 2}
	options := []entities.FieldOption{
		{OptionValue: "main", OptionLabel: "Main", OptionOrder: 0},
		{OptionValue: "dessert", OptionLabel: "dessert", OptionOrder: 1},
	}
	require.NoError(t, s.Fields.Create(ctx, choice, options))

	text := &entities.CustomField{LifelistID: l.ID, FieldName: "Restaurant", FieldType: "text", DisplayOrder: 1}
	require.NoError(t, s.Fields.Create(ctx, text, nil))

	fields, err := s.Fields.ListByLifelist(ctx, l.ID)
	require.NoError(t, err)
	require.Len(t, fields, 2)
	assert.Equal(t, "Restaurant", fields[0].FieldName)
	assert.Equal(t, "Course", fields[1].FieldName)

	byField, err := s.Fields.OptionsByFields(ctx, []uint{choice.ID, text.ID})
	require.NoError(t, err)
	require.Len(t, byField[choice.ID], 2)
	assert.Equal(t, "main", byField[choice.ID][0].OptionValue)
	assert.Equal(t, "dessert", byField[choice.ID][1].OptionValue)
	assert.Empty(t, byField[text.ID])

	err = s.Fields.Create(ctx, &entities.CustomField{LifelistID: l.ID, FieldName: "Course", FieldType: "text"}, nil)
	assert.ErrorIs(t, err, ErrDuplicateKey)
}

func TestFieldRepository_DependenciesAndValues(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()
	l := createLifelist(t, s, "Birds")

	parent := &entities.CustomField{LifelistID: l.ID, FieldName: "Captive", FieldType: "boolean"}
	child := &entities.CustomField{LifelistID: l.ID, FieldName: "Facility", FieldType: "text"}
	require.NoError(t, s.Fields.Create(ctx, parent, nil))
	require.NoError(t, s.Fields.Create(ctx, child, nil))

	dep := &entities.FieldDependency{FieldID: child.ID, ParentFieldID: parent.ID, ConditionType: "equals", ConditionValue: "true"}
	require.NoError(t, s.Fields.AddDependency(ctx, dep))

	deps, err := s.Fields.Dependencies(ctx, child.ID)
	require.NoError(t, err)
	require.Len(t, deps, 1)
	assert.Equal(t, "equals", deps[0].ConditionType)
	assert.Equal(t, "true", deps[0].ConditionValue)

	o := createObservation(t, s, l.ID, "Owl", "wild", nil)
	require.NoError(t, s.Fields.ReplaceValues(ctx, o.ID, map[uint]string{parent.ID: "true", child.ID: "Zoo"}))
	require.NoError(t, s.Fields.ReplaceValues(ctx, o.ID, map[uint]string{parent.ID: "false", child.ID: ""}))

	values, err := s.Fields.Values(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, map[uint]string{parent.ID: "false"}, values, "empty values are not stored")

	require.NoError(t, s.Fields.Delete(ctx, parent.ID))
	deps, err = s.Fields.Dependencies(ctx, child.ID)
	require.NoError(t, err)
	assert.Empty(t, deps, "dependency cascades with its parent field")

	values, err = s.Fields.Values(ctx, o.ID)
	require.NoError(t, err)
	assert.Empty(t, values)

	assert.ErrorIs(t, s.Fields.Delete(ctx, parent.ID), ErrFieldNotFound)
}
