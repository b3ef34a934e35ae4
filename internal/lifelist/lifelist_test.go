package lifelist

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/datastore"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/datastore/repository"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/errors"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/fields"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/fieldvalue"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/registry"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/testutil"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/tiers"
)

type fixture struct {
	svc    *Service
	store  *repository.Store
	tiers  *tiers.Service
	fields *fields.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := testutil.NewStore(t)
	tierSvc := tiers.NewService(store, nil)
	fieldSvc := fields.NewService(store, nil)
	return &fixture{
		svc:    NewService(store, tierSvc, fieldSvc, nil),
		store:  store,
		tiers:  tierSvc,
		fields: fieldSvc,
	}
}

func TestCreate_CopiesTypeDefaults(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	l, err := f.svc.Create(ctx, "  Reading 2024 ", "books", "")
	require.NoError(t, err)
	assert.Equal(t, "Reading 2024", l.Name)
	require.NotNil(t, l.LifelistTypeID)

	names, err := f.tiers.GetTiers(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"read", "currently reading", "want to read", "abandoned"}, names)

	configured, err := f.store.Tiers.GetTiers(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, names, configured, "tiers are copied, not resolved through the type")

	descriptors, err := f.fields.ListFields(ctx, l.ID)
	require.NoError(t, err)
	require.Len(t, descriptors, 5)
	assert.Equal(t, "Author", descriptors[0].Name)
	assert.True(t, descriptors[0].Required)
	rating := descriptors[4]
	assert.Equal(t, fieldvalue.TypeRating, rating.Type)
	assert.Equal(t, fieldvalue.DefaultRatingMax, rating.Options.RatingMax())

	typeName, err := f.svc.TypeName(ctx, l)
	require.NoError(t, err)
	assert.Equal(t, "Books", typeName)
}

func TestCreate_Untyped(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	l, err := f.svc.Create(ctx, "Misc", "", "My own taxonomy")
	require.NoError(t, err)
	assert.Nil(t, l.LifelistTypeID)
	assert.Equal(t, "My own taxonomy", l.Classification)

	names, err := f.tiers.GetTiers(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"owned", "wanted"}, names)

	descriptors, err := f.fields.ListFields(ctx, l.ID)
	require.NoError(t, err)
	assert.Empty(t, descriptors)

	typeName, err := f.svc.TypeName(ctx, l)
	require.NoError(t, err)
	assert.Empty(t, typeName)
}

func TestCreate_Rejections(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, "Birds", "Wildlife", "")
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, "Birds", "Plants", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrDuplicateKey)
	assert.True(t, errors.IsConflict(err))

	_, err = f.svc.Create(ctx, "Stamps", "Philately", "")
	assert.ErrorIs(t, err, repository.ErrLifelistTypeNotFound)
	_, err = f.svc.GetByName(ctx, "Stamps")
	assert.ErrorIs(t, err, repository.ErrLifelistNotFound, "failed create leaves nothing behind")

	for _, name := range []string{"", "   ", strings.Repeat("x", 201)} {
		_, err = f.svc.Create(ctx, name, "", "")
		require.Error(t, err)
		assert.True(t, errors.IsValidation(err))
		assert.ErrorIs(t, err, repository.ErrInvalidInput)
	}

	lists, err := f.svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, lists, 1)
}

func TestRenameAndDelete(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	birds, err := f.svc.Create(ctx, "Birds", "Wildlife", "")
	require.NoError(t, err)
	plants, err := f.svc.Create(ctx, "Plants", "Plants", "")
	require.NoError(t, err)

	require.NoError(t, f.svc.Rename(ctx, birds.ID, "Garden Birds"))
	got, err := f.svc.GetByName(ctx, "Garden Birds")
	require.NoError(t, err)
	assert.Equal(t, birds.ID, got.ID)

	err = f.svc.Rename(ctx, plants.ID, "Garden Birds")
	assert.ErrorIs(t, err, repository.ErrDuplicateKey)
	err = f.svc.Rename(ctx, plants.ID, " ")
	assert.True(t, errors.IsValidation(err))
	err = f.svc.Rename(ctx, 404, "Nope")
	assert.ErrorIs(t, err, repository.ErrLifelistNotFound)

	require.NoError(t, f.svc.Delete(ctx, birds.ID))
	_, err = f.svc.Get(ctx, birds.ID)
	assert.ErrorIs(t, err, repository.ErrLifelistNotFound)
	configured, err := f.store.Tiers.GetTiers(ctx, birds.ID)
	require.NoError(t, err)
	assert.Empty(t, configured, "tiers cascade")

	lists, err := f.svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, lists, 1)
	assert.Equal(t, "Plants", lists[0].Name)

	assert.ErrorIs(t, f.svc.Delete(ctx, birds.ID), repository.ErrLifelistNotFound)
}

func TestTypes(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	types, err := f.svc.Types(context.Background())
	require.NoError(t, err)
	require.Len(t, types, 5)
	assert.Equal(t, "Wildlife", types[0].Type.Name)
	assert.Equal(t, []string{"wild", "heard", "captive"}, types[0].Tiers)
	assert.Equal(t, []string{"Scientific Name", "Family", "Weather"}, types[0].Fields)
	assert.Equal(t, Terms{Entry: "species", Observation: "sighting"}, types[0].Terms)
}

func TestTerms(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	reg := registry.New(nil)
	books := reg.GetTemplate("Books")
	books.EntryTerm = "title"
	require.NoError(t, reg.SetTemplate(books))
	svc := NewService(f.store, f.tiers, f.fields, nil, WithTemplates(reg))

	typed, err := svc.Create(ctx, "Shelf", "Books", "")
	require.NoError(t, err)
	terms, err := svc.Terms(ctx, typed)
	require.NoError(t, err)
	assert.Equal(t, "title", terms.Entry, "configured template wins over the stored type")

	stored, err := f.svc.Terms(ctx, typed)
	require.NoError(t, err)
	assert.Equal(t, "book", stored.Entry, "without templates the stored type terms are used")

	untyped, err := svc.Create(ctx, "Misc", "", "")
	require.NoError(t, err)
	terms, err = svc.Terms(ctx, untyped)
	require.NoError(t, err)
	assert.Equal(t, Terms{Entry: registry.FallbackEntryTerm, Observation: registry.FallbackObservationTerm}, terms)
}

// A template registered after the database was first seeded becomes a usable type on
// the next initialize.
func TestCreate_TemplateAddedAfterSeeding(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir := t.TempDir()

	reg, err := registry.Open(filepath.Join(dir, "registry.yaml"), nil)
	require.NoError(t, err)
	cfg := datastore.Config{Path: filepath.Join(dir, "lifelists.db")}

	mgr, err := datastore.NewSQLiteManager(cfg)
	require.NoError(t, err)
	require.NoError(t, mgr.Initialize(ctx, reg.Templates()))
	require.NoError(t, mgr.Close())

	require.NoError(t, reg.SetTemplate(registry.Template{
		Name:            "Stamps",
		Tiers:           []string{"mint", "used"},
		EntryTerm:       "stamp",
		ObservationTerm: "acquisition",
	}))

	reopened, err := registry.Open(reg.Path(), nil)
	require.NoError(t, err)
	mgr, err = datastore.NewSQLiteManager(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = mgr.Close() })
	require.NoError(t, mgr.Initialize(ctx, reopened.Templates()))

	store := repository.NewStore(mgr.DB())
	tierSvc := tiers.NewService(store, nil)
	svc := NewService(store, tierSvc, fields.NewService(store, nil), nil, WithTemplates(reopened))

	l, err := svc.Create(ctx, "My stamps", "Stamps", "")
	require.NoError(t, err)
	names, err := tierSvc.GetTiers(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"mint", "used"}, names)

	terms, err := svc.Terms(ctx, l)
	require.NoError(t, err)
	assert.Equal(t, Terms{Entry: "stamp", Observation: "acquisition"}, terms)
}
