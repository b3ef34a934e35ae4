package datastore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/conf"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/datastore/entities"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/datastore/repository"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/fieldvalue"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/registry"
)

func newTestManager(t *testing.T) *SQLiteManager {
	t.Helper()
	mgr, err := NewSQLiteManager(Config{Path: filepath.Join(t.TempDir(), "data", "lifelists.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = mgr.Close() })
	return mgr
}

func testTemplates() []registry.Template {
	return []registry.Template{
		{
			Name:            "Wildlife",
			Tiers:           []string{"wild", "heard", "captive"},
			EntryTerm:       "species",
			ObservationTerm: "sighting",
			DefaultFields: []registry.FieldTemplate{
				{Name: "Family", Type: fieldvalue.TypeText},
				{Name: "Rating", Type: fieldvalue.TypeRating, Options: &fieldvalue.Options{Max: 5}},
			},
		},
		{
			Name:            "Books",
			Tiers:           []string{"read", "reading", "to-read"},
			EntryTerm:       "book",
			ObservationTerm: "reading",
		},
	}
}

func TestSQLiteManager_InitializeSeedsOnce(t *testing.T) {
	t.Parallel()
	mgr := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, mgr.Initialize(ctx, testTemplates()))
	require.NoError(t, mgr.Initialize(ctx, testTemplates()), "initialize is idempotent")

	store := repository.NewStore(mgr.DB())
	types, err := store.LifelistTypes.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, types, 2, "seeding runs only on an empty table")
	assert.Equal(t, "Wildlife", types[0].Name)
	assert.Equal(t, "species", types[0].EntryTerm)

	tiers, err := store.LifelistTypes.GetTiers(ctx, types[0].ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"wild", "heard", "captive"}, tiers)

	fields, err := store.LifelistTypes.GetFields(ctx, types[0].ID)
	require.NoError(t, err)
	require.Len(t, fields, 2)
	assert.Equal(t, "rating", fields[1].FieldType)
	assert.JSONEq(t, `{"max":5}`, fields[1].FieldOptions)
}

func TestSQLiteManager_InitializeAddsMissingTemplates(t *testing.T) {
	t.Parallel()
	mgr := newTestManager(t)
	ctx := context.Background()
	store := repository.NewStore(mgr.DB())

	require.NoError(t, mgr.Initialize(ctx, testTemplates()[:1]))

	changed := testTemplates()
	changed[0].Name = "WILDLIFE"
	changed[0].EntryTerm = "taxon"
	changed = append(changed, registry.Template{
		Name:            "Stamps",
		Tiers:           []string{"mint", "used"},
		EntryTerm:       "stamp",
		ObservationTerm: "acquisition",
	})
	require.NoError(t, mgr.Initialize(ctx, changed))
	require.NoError(t, mgr.Initialize(ctx, changed), "sync is idempotent")

	types, err := store.LifelistTypes.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, types, 3)
	assert.Equal(t, "Wildlife", types[0].Name)
	assert.Equal(t, "species", types[0].EntryTerm, "existing types are left untouched")
	assert.Equal(t, "Books", types[1].Name)

	stamps, err := store.LifelistTypes.GetByName(ctx, "stamps")
	require.NoError(t, err)
	assert.Equal(t, "acquisition", stamps.ObservationTerm)
	tiers, err := store.LifelistTypes.GetTiers(ctx, stamps.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"mint", "used"}, tiers)
}

func TestSQLiteManager_InitializeBackfillsSearchColumns(t *testing.T) {
	t.Parallel()
	mgr := newTestManager(t)
	ctx := context.Background()
	require.NoError(t, mgr.Initialize(ctx, nil))
	db := mgr.DB()
	store := repository.NewStore(db)

	l := &entities.Lifelist{Name: "Oiseaux"}
	require.NoError(t, store.Lifelists.Create(ctx, l))
	c := &entities.Classification{LifelistID: l.ID, Name: "Avibase"}
	require.NoError(t, store.Classifications.Create(ctx, c))
	e := &entities.ClassificationEntry{ClassificationID: c.ID, Name: "Étourneau sansonnet"}
	require.NoError(t, store.Entries.CreateBatch(ctx, []*entities.ClassificationEntry{e}, 0))
	o := &entities.Observation{LifelistID: l.ID, EntryName: "Étourneau sansonnet"}
	require.NoError(t, store.Observations.Create(ctx, o))

	// Simulate rows written before the search columns existed, plus a stale index.
	require.NoError(t, db.Model(e).UpdateColumns(map[string]any{"search_name": "", "search_alternate": ""}).Error)
	require.NoError(t, db.Model(o).UpdateColumn("search_text", nil).Error)
	require.NoError(t, db.Exec("CREATE INDEX idx_classification_name ON classification_entries (classification_id, name)").Error)

	require.NoError(t, mgr.Initialize(ctx, nil))

	assert.False(t, db.Migrator().HasIndex(&entities.ClassificationEntry{}, "idx_classification_name"))

	matches, err := store.Entries.Search(ctx, c.ID, "ÉTOURNEAU", 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)

	got, err := store.Observations.Filter(ctx, l.ID, repository.ObservationFilter{Search: "étourneau"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, o.ID, got[0].ID)
}

func TestSQLiteManager_ClassificationIndexes(t *testing.T) {
	t.Parallel()
	mgr := newTestManager(t)
	require.NoError(t, mgr.Initialize(context.Background(), nil))

	migrator := mgr.DB().Migrator()
	for _, name := range entities.ClassificationEntryIndexes {
		assert.True(t, migrator.HasIndex(&entities.ClassificationEntry{}, name), name)
	}
	for _, model := range entities.All() {
		assert.True(t, migrator.HasTable(model), "%T table", model)
	}
}

func TestSQLiteManager_ForeignKeysEnabled(t *testing.T) {
	t.Parallel()
	mgr := newTestManager(t)
	require.NoError(t, mgr.Initialize(context.Background(), nil))

	var enabled int
	require.NoError(t, mgr.DB().Raw("PRAGMA foreign_keys").Scan(&enabled).Error)
	assert.Equal(t, 1, enabled)

	err := mgr.DB().Create(&entities.LifelistTier{LifelistID: 999, TierName: "wild"}).Error
	assert.Error(t, err, "orphan tier must be rejected")
}

func TestSQLiteManager_DeleteAndExists(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "lifelists.db")
	mgr, err := NewSQLiteManager(Config{Path: path})
	require.NoError(t, err)
	require.NoError(t, mgr.Initialize(context.Background(), nil))

	assert.True(t, mgr.Exists())
	assert.Equal(t, path, mgr.Path())
	assert.False(t, mgr.IsMySQL())

	require.NoError(t, mgr.Delete())
	assert.False(t, mgr.Exists())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestNewSQLiteManager_EmptyPath(t *testing.T) {
	t.Parallel()
	_, err := NewSQLiteManager(Config{})
	assert.Error(t, err)
}

func TestOpen_SelectsDriver(t *testing.T) {
	t.Parallel()

	settings := &conf.Settings{}
	settings.Database.Driver = conf.DriverSQLite
	settings.Database.Path = filepath.Join(t.TempDir(), "open.db")

	mgr, err := Open(settings, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = mgr.Close() })
	assert.False(t, mgr.IsMySQL())

	settings.Database.Driver = "postgres"
	_, err = Open(settings, nil)
	assert.Error(t, err)
}

// getMySQLConfig returns MySQL config from environment variables.
// Returns nil if MySQL is not configured for testing.
func getMySQLConfig() *MySQLConfig {
	host := os.Getenv("MYSQL_TEST_HOST")
	if host == "" {
		return nil
	}
	port := os.Getenv("MYSQL_TEST_PORT")
	if port == "" {
		port = "3306"
	}
	return &MySQLConfig{
		Host:     host,
		Port:     port,
		Username: os.Getenv("MYSQL_TEST_USER"),
		Password: os.Getenv("MYSQL_TEST_PASSWORD"),
		Database: os.Getenv("MYSQL_TEST_DATABASE"),
	}
}

func TestMySQLManager_Initialize(t *testing.T) {
	cfg := getMySQLConfig()
	if cfg == nil {
		t.Skip("MySQL not configured. Set MYSQL_TEST_HOST, MYSQL_TEST_USER, MYSQL_TEST_PASSWORD, MYSQL_TEST_DATABASE to enable.")
	}

	mgr, err := NewMySQLManager(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = mgr.Delete()
		_ = mgr.Close()
	})

	require.NoError(t, mgr.Initialize(context.Background(), testTemplates()))
	assert.True(t, mgr.IsMySQL())
	assert.True(t, mgr.Exists())
}
