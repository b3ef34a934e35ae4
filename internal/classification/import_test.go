package classification

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/datastore/entities"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/datastore/repository"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/errors"
)

const birdsCSV = "\ufeffSCI_NAME,PRIMARY_COM_NAME,FAMILY,SPECIES_CODE,NOTES,PARENT\n" +
	"Turdus migratorius,American Robin,Turdidae,amerob,  common  ,\n" +
	",Nameless,Unknown,none,,\n" +
	"Turdus migratorius achrusterus,Southern Robin,Turdidae,amerob1,,amerob\n" +
	"  Cyanocitta cristata ,Blue Jay,Corvidae,blujay,\n"

var birdsMapping = FieldMapping{
	FieldName:          "SCI_NAME",
	FieldAlternateName: "PRIMARY_COM_NAME",
	FieldCategory:      "FAMILY",
	FieldCode:          "SPECIES_CODE",
	FieldParentID:      "PARENT",
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "taxonomy.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReadCSV(t *testing.T) {
	t.Parallel()
	headers, rows, err := ReadCSV(strings.NewReader(birdsCSV))
	require.NoError(t, err)
	assert.Equal(t, []string{"SCI_NAME", "PRIMARY_COM_NAME", "FAMILY", "SPECIES_CODE", "NOTES", "PARENT"}, headers,
		"byte order mark is stripped")
	assert.Len(t, rows, 4)
	assert.Len(t, rows[3], 5, "short rows are kept")

	_, _, err = ReadCSV(strings.NewReader(""))
	assert.Error(t, err)
}

func TestImportCSV(t *testing.T) {
	t.Parallel()
	svc, _, l := newTestService(t)
	ctx := context.Background()

	cid, err := svc.AddClassification(ctx, l.ID, Meta{Name: "eBird"})
	require.NoError(t, err)

	headers, rows, err := ReadCSV(strings.NewReader(birdsCSV))
	require.NoError(t, err)

	n, err := svc.ImportCSV(ctx, cid, rows, headers, birdsMapping)
	require.NoError(t, err)
	assert.Equal(t, 3, n, "row without a name is skipped")

	entries, err := svc.Entries(ctx, cid)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	robin, subspecies, jay := entries[0], entries[1], entries[2]
	assert.Equal(t, "Turdus migratorius", robin.Name)
	assert.Equal(t, "American Robin", robin.AlternateName)
	assert.Equal(t, "Turdidae", robin.Category)
	assert.Equal(t, "amerob", robin.Code)
	assert.Equal(t, entities.AdditionalData{"NOTES": "  common  "}, robin.AdditionalData, "unmapped cells are kept verbatim")
	assert.Nil(t, robin.ParentID)

	require.NotNil(t, subspecies.ParentID, "parent resolved by code")
	assert.Equal(t, robin.ID, *subspecies.ParentID)
	assert.Nil(t, subspecies.AdditionalData)

	assert.Equal(t, "Cyanocitta cristata", jay.Name, "cells are trimmed")

	results, err := svc.Search(ctx, cid, "robin", 10)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestImportCSV_ParentByExistingID(t *testing.T) {
	t.Parallel()
	svc, _, l := newTestService(t)
	ctx := context.Background()

	cid, err := svc.AddClassification(ctx, l.ID, Meta{Name: "Plants"})
	require.NoError(t, err)
	genus, err := svc.AddEntry(ctx, cid, EntryInput{Name: "Quercus", Rank: "genus"})
	require.NoError(t, err)

	headers := []string{"name", "parent"}
	rows := [][]string{
		{"Quercus robur", itoa(genus)},
		{"Quercus alba", "999999"},
		{"Quercus rubra", "not-a-number"},
	}
	n, err := svc.ImportCSV(ctx, cid, rows, headers, FieldMapping{FieldName: "name", FieldParentID: "parent"})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	entries, err := svc.Entries(ctx, cid)
	require.NoError(t, err)
	require.Len(t, entries, 4)
	require.NotNil(t, entries[1].ParentID)
	assert.Equal(t, genus, *entries[1].ParentID)
	assert.Nil(t, entries[2].ParentID, "unknown id is ignored")
	assert.Nil(t, entries[3].ParentID)
}

func TestImportCSV_StructuralErrors(t *testing.T) {
	t.Parallel()
	svc, _, l := newTestService(t)
	ctx := context.Background()
	cid, err := svc.AddClassification(ctx, l.ID, Meta{Name: "eBird"})
	require.NoError(t, err)

	_, err = svc.ImportCSV(ctx, cid, [][]string{{"x"}}, []string{"a"}, FieldMapping{FieldCode: "a"})
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))

	_, err = svc.ImportCSV(ctx, 404, [][]string{{"x"}}, []string{"a"}, FieldMapping{FieldName: "a"})
	assert.ErrorIs(t, err, repository.ErrClassificationNotFound)

	n, err := svc.ImportCSV(ctx, cid, nil, []string{"a"}, FieldMapping{FieldName: "a"})
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = svc.ImportCSV(ctx, cid, [][]string{{"x"}}, []string{"a"}, FieldMapping{FieldName: "missing"})
	require.NoError(t, err)
	assert.Zero(t, n, "unknown name header imports nothing")
}

func TestImportFile(t *testing.T) {
	t.Parallel()
	svc, _, l := newTestService(t)
	ctx := context.Background()

	res, err := svc.ImportFile(ctx, l.ID, writeCSV(t, birdsCSV), Meta{Name: "eBird", Version: "v2023"}, birdsMapping)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Imported)
	assert.Equal(t, 1, res.Skipped)

	c, err := svc.Get(ctx, res.ClassificationID)
	require.NoError(t, err)
	assert.Equal(t, "v2023", c.Version)
	assert.True(t, c.IsActive)
}

func TestImportFile_RollsBackClassification(t *testing.T) {
	t.Parallel()
	svc, _, l := newTestService(t)
	ctx := context.Background()

	_, err := svc.ImportFile(ctx, l.ID, writeCSV(t, birdsCSV), Meta{Name: ""}, birdsMapping)
	require.Error(t, err)

	_, err = svc.ImportFile(ctx, l.ID, filepath.Join(t.TempDir(), "missing.csv"), Meta{Name: "x"}, birdsMapping)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryFileIO))

	list, err := svc.List(ctx, l.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
