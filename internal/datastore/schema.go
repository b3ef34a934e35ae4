package datastore

import (
	"context"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/conf"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/datastore/entities"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/datastore/repository"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/errors"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/fieldvalue"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/logger"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/registry"
)

// Open creates the manager selected by settings.Database.Driver.
func Open(settings *conf.Settings, log logger.Logger) (Manager, error) {
	dbLog := logger.OrDiscard(log).Module("datastore")
	slow := settings.Database.SlowQueryThreshold()

	switch settings.Database.Driver {
	case conf.DriverMySQL:
		my := settings.Database.MySQL
		return NewMySQLManager(&MySQLConfig{
			Host:          my.Host,
			Port:          strconv.Itoa(my.Port),
			Username:      my.Username,
			Password:      my.Password,
			Database:      my.Database,
			Logger:        dbLog,
			SlowThreshold: slow,
		})
	case conf.DriverSQLite, "":
		return NewSQLiteManager(Config{
			Path:          settings.Database.Path,
			Logger:        dbLog,
			SlowThreshold: slow,
		})
	default:
		return nil, errors.Newf("unsupported database driver %q", settings.Database.Driver).
			Component("datastore").
			Category(errors.CategoryConfiguration).
			Build()
	}
}

// initialize migrates the schema, ensures the search indexes and syncs lifelist types.
// Every step is idempotent; any failure is returned and is fatal to the caller.
func initialize(ctx context.Context, db *gorm.DB, templates []registry.Template, log logger.Logger) error {
	start := time.Now()
	db = db.WithContext(ctx)

	if err := db.AutoMigrate(entities.All()...); err != nil {
		return schemaError(err, "auto_migrate")
	}

	if err := ensureIndexes(db); err != nil {
		return schemaError(err, "ensure_indexes")
	}

	backfilled, err := backfillSearchColumns(db)
	if err != nil {
		return schemaError(err, "backfill_search_columns")
	}

	seeded, err := syncLifelistTypes(ctx, db, templates)
	if err != nil {
		return schemaError(err, "seed_lifelist_types")
	}

	log.Info("database schema ready",
		logger.Int("seeded_types", seeded),
		logger.Int64("backfilled_rows", backfilled),
		logger.Duration("elapsed", time.Since(start)))
	return nil
}

// ensureIndexes creates the covering indexes used by classification search when a
// database created by an older schema lacks them, and drops the superseded ones.
func ensureIndexes(db *gorm.DB) error {
	migrator := db.Migrator()
	for _, name := range entities.ClassificationEntryIndexes {
		if migrator.HasIndex(&entities.ClassificationEntry{}, name) {
			continue
		}
		if err := migrator.CreateIndex(&entities.ClassificationEntry{}, name); err != nil {
			return err
		}
	}
	for _, name := range entities.LegacyClassificationEntryIndexes {
		if !migrator.HasIndex(&entities.ClassificationEntry{}, name) {
			continue
		}
		if err := migrator.DropIndex(&entities.ClassificationEntry{}, name); err != nil {
			return err
		}
	}
	return nil
}

const backfillBatchSize = 500

// backfillSearchColumns fills the folded search columns of rows written before those
// columns existed. The BeforeSave hooks compute the values. Returns the rows updated.
func backfillSearchColumns(db *gorm.DB) (int64, error) {
	var updated int64

	var entries []*entities.ClassificationEntry
	err := db.Where("search_name = '' AND name <> ''").
		FindInBatches(&entries, backfillBatchSize, func(_ *gorm.DB, _ int) error {
			for _, e := range entries {
				if err := db.Model(e).Select("search_name", "search_alternate").Updates(e).Error; err != nil {
					return err
				}
			}
			updated += int64(len(entries))
			return nil
		}).Error
	if err != nil {
		return updated, err
	}

	var observations []*entities.Observation
	err = db.Where("search_text IS NULL OR search_text = ''").
		FindInBatches(&observations, backfillBatchSize, func(_ *gorm.DB, _ int) error {
			for _, o := range observations {
				if err := db.Model(o).Select("search_text").Updates(o).Error; err != nil {
					return err
				}
			}
			updated += int64(len(observations))
			return nil
		}).Error
	return updated, err
}

// syncLifelistTypes inserts one lifelist type per template, with its tiers and fields, for
// every template whose name (compared case-insensitively) is not in lifelist_types yet. On
// an empty table this seeds every template; afterwards it only adds templates registered
// since, and never modifies existing types. Returns the number of types inserted.
func syncLifelistTypes(ctx context.Context, db *gorm.DB, templates []registry.Template) (int, error) {
	if len(templates) == 0 {
		return 0, nil
	}
	store := repository.NewStore(db)

	existing, err := store.LifelistTypes.GetAll(ctx)
	if err != nil {
		return 0, err
	}
	known := make(map[string]bool, len(existing))
	for _, t := range existing {
		known[entities.FoldSearch(t.Name)] = true
	}

	inserted := 0
	err = store.Transaction(ctx, func(tx *repository.Store) error {
		for _, tmpl := range templates {
			key := entities.FoldSearch(tmpl.Name)
			if known[key] {
				continue
			}
			fields, err := templateFields(tmpl.DefaultFields)
			if err != nil {
				return err
			}
			lt := &entities.LifelistType{
				Name:            tmpl.Name,
				Description:     tmpl.Description,
				EntryTerm:       tmpl.EntryTerm,
				ObservationTerm: tmpl.ObservationTerm,
			}
			if err := tx.LifelistTypes.Create(ctx, lt, tmpl.Tiers, fields); err != nil {
				return err
			}
			known[key] = true
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// templateFields converts registry field templates into lifelist type field rows.
func templateFields(defs []registry.FieldTemplate) ([]*entities.LifelistTypeField, error) {
	fields := make([]*entities.LifelistTypeField, 0, len(defs))
	for i, def := range defs {
		payload, err := fieldvalue.EncodeOptions(def.Options)
		if err != nil {
			return nil, err
		}
		fields = append(fields, &entities.LifelistTypeField{
			FieldName:    def.Name,
			FieldType:    string(def.Type),
			IsRequired:   def.Required,
			FieldOptions: payload,
			DisplayOrder: i,
		})
	}
	return fields, nil
}

func schemaError(err error, operation string) error {
	return errors.New(err).
		Component("datastore").
		Category(errors.CategoryDatabase).
		Priority(errors.PriorityCritical).
		Context("operation", operation).
		Build()
}
