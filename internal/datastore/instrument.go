package datastore

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/observability/metrics"
)

const startKey = "metrics:start"

// Instrument registers gorm callbacks that record every statement in m. Lookups that find
// no row are counted as successful.
func Instrument(db *gorm.DB, m *metrics.StoreMetrics) error {
	if m == nil {
		return nil
	}

	cb := db.Callback()
	errs := []error{
		cb.Create().Before("gorm:create").Register("metrics:before_create", startTimer),
		cb.Create().After("gorm:create").Register("metrics:after_create", recordStatement(m, "create")),
		cb.Query().Before("gorm:query").Register("metrics:before_query", startTimer),
		cb.Query().After("gorm:query").Register("metrics:after_query", recordStatement(m, "query")),
		cb.Update().Before("gorm:update").Register("metrics:before_update", startTimer),
		cb.Update().After("gorm:update").Register("metrics:after_update", recordStatement(m, "update")),
		cb.Delete().Before("gorm:delete").Register("metrics:before_delete", startTimer),
		cb.Delete().After("gorm:delete").Register("metrics:after_delete", recordStatement(m, "delete")),
		cb.Row().Before("gorm:row").Register("metrics:before_row", startTimer),
		cb.Row().After("gorm:row").Register("metrics:after_row", recordStatement(m, "row")),
		cb.Raw().Before("gorm:raw").Register("metrics:before_raw", startTimer),
		cb.Raw().After("gorm:raw").Register("metrics:after_raw", recordStatement(m, "raw")),
	}
	return errors.Join(errs...)
}

func startTimer(db *gorm.DB) {
	db.InstanceSet(startKey, time.Now())
}

func recordStatement(m *metrics.StoreMetrics, op string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		table := db.Statement.Table
		if table == "" && db.Statement.SQL.Len() > 0 {
			_, table = parseSQLOperation(db.Statement.SQL.String())
		}
		if table == "" {
			table = sqlUnknown
		}

		if v, ok := db.InstanceGet(startKey); ok {
			if start, ok := v.(time.Time); ok {
				m.RecordDbOperationDuration(op, table, time.Since(start).Seconds())
			}
		}

		if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
			m.RecordDbOperation(op, table, metrics.StatusError)
			m.RecordDbOperationError(op, table, categorizeError(db.Error))
			return
		}
		m.RecordDbOperation(op, table, metrics.StatusSuccess)
		m.RecordRowsAffected(op, table, db.Statement.RowsAffected)
	}
}
