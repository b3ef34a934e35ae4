package datastore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcmysql "github.com/testcontainers/testcontainers-go/modules/mysql"

	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/datastore/entities"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/datastore/repository"
)

// newMySQLManager starts a throwaway MySQL server. It needs a container runtime and is
// skipped with -short.
func newMySQLManager(t *testing.T) *MySQLManager {
	t.Helper()
	if testing.Short() {
		t.Skip("mysql integration test skipped in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	ctr, err := tcmysql.Run(ctx, "mysql:8.4",
		tcmysql.WithDatabase("lifelists"),
		tcmysql.WithUsername("lifelist"),
		tcmysql.WithPassword("lifelist"),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	host, err := ctr.Host(ctx)
	require.NoError(t, err)
	port, err := ctr.MappedPort(ctx, "3306/tcp")
	require.NoError(t, err)

	mgr, err := NewMySQLManager(&MySQLConfig{
		Host:     host,
		Port:     port.Port(),
		Username: "lifelist",
		Password: "lifelist",
		Database: "lifelists",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = mgr.Close() })
	return mgr
}

func TestMySQLManager_Lifecycle(t *testing.T) {
	mgr := newMySQLManager(t)
	ctx := context.Background()

	assert.True(t, mgr.IsMySQL())
	assert.False(t, mgr.Exists())

	require.NoError(t, mgr.Initialize(ctx, testTemplates()))
	require.NoError(t, mgr.Initialize(ctx, testTemplates()))
	assert.True(t, mgr.Exists())

	store := repository.NewStore(mgr.DB())
	types, err := store.LifelistTypes.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, types, 2)

	l := &entities.Lifelist{Name: "Backyard", LifelistTypeID: &types[0].ID}
	require.NoError(t, store.Lifelists.Create(ctx, l))
	got, err := store.Lifelists.GetByName(ctx, "Backyard")
	require.NoError(t, err)
	assert.Equal(t, l.ID, got.ID)

	require.NoError(t, mgr.Delete())
	assert.False(t, mgr.Exists())
}
