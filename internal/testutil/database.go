package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/datastore"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/datastore/entities"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/datastore/repository"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/registry"
)

// NewManager opens a SQLite database in a temp directory, migrated and seeded with the
// built-in lifelist types. The database is closed when the test ends.
func NewManager(t *testing.T) *datastore.SQLiteManager {
	t.Helper()

	mgr, err := datastore.NewSQLiteManager(datastore.Config{
		Path: filepath.Join(t.TempDir(), "lifelists.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = mgr.Close() })

	require.NoError(t, mgr.Initialize(context.Background(), registry.New(nil).Templates()))
	return mgr
}

// NewStore returns a repository store over a fresh test database.
func NewStore(t *testing.T) *repository.Store {
	t.Helper()
	return repository.NewStore(NewManager(t).DB())
}

// CreateLifelist inserts a bare lifelist row without tiers or fields.
func CreateLifelist(t *testing.T, store *repository.Store, name string) *entities.Lifelist {
	t.Helper()
	l := &entities.Lifelist{Name: name}
	require.NoError(t, store.Lifelists.Create(context.Background(), l))
	return l
}

// CreateLifelistOfType inserts a lifelist row linked to a seeded lifelist type, without
// copying the type's tiers or fields.
func CreateLifelistOfType(t *testing.T, store *repository.Store, name, typeName string) *entities.Lifelist {
	t.Helper()
	ctx := context.Background()
	lt, err := store.LifelistTypes.GetByName(ctx, typeName)
	require.NoError(t, err)

	l := &entities.Lifelist{Name: name, LifelistTypeID: &lt.ID}
	require.NoError(t, store.Lifelists.Create(ctx, l))
	return l
}
