package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/datastore/entities"
)

// newTestStore opens a migrated SQLite database in a temp directory.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=ON",
		filepath.Join(t.TempDir(), "test.db"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(entities.All()...))
	return NewStore(db)
}

func createLifelist(t *testing.T, s *Store, name string) *entities.Lifelist {
	t.Helper()
	l := &entities.Lifelist{Name: name}
	require.NoError(t, s.Lifelists.Create(context.Background(), l))
	return l
}

func createObservation(t *testing.T, s *Store, lifelistID uint, entry, tier string, date *time.Time) *entities.Observation {
	t.Helper()
	o := &entities.Observation{LifelistID: lifelistID, EntryName: entry, Tier: tier, ObservationDate: date}
	require.NoError(t, s.Observations.Create(context.Background(), o))
	return o
}

func createPhoto(t *testing.T, s *Store, observationID uint, path string) *entities.Photo {
	t.Helper()
	p := &entities.Photo{ObservationID: observationID, FilePath: path}
	require.NoError(t, s.Photos.Create(context.Background(), p))
	return p
}

func datePtr(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}
