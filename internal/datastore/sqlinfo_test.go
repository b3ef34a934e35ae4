package datastore

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestParseSQLOperation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		sql       string
		wantOp    string
		wantTable string
	}{
		{"SELECT * FROM `observations` WHERE id = 1", "select", "observations"},
		{"  insert into tags (name) values (?)", "insert", "tags"},
		{`UPDATE "photos" SET is_primary = false`, "update", "photos"},
		{"DELETE FROM observation_tags WHERE tag_id = ?", "delete", "observation_tags"},
		{"CREATE INDEX IF NOT EXISTS idx_entries_name ON classification_entries(name)", "create", "idx_entries_name"},
		{"PRAGMA foreign_keys", sqlUnknown, sqlUnknown},
	}
	for _, tt := range tests {
		op, table := parseSQLOperation(tt.sql)
		assert.Equal(t, tt.wantOp, op, tt.sql)
		assert.Equal(t, tt.wantTable, table, tt.sql)
	}
}

func TestCategorizeError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "none", categorizeError(nil))
	assert.Equal(t, "constraint_violation", categorizeError(fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey)))
	assert.Equal(t, "foreign_key_violation", categorizeError(gorm.ErrForeignKeyViolated))
	assert.Equal(t, "timeout", categorizeError(context.DeadlineExceeded))
	assert.Equal(t, "canceled", categorizeError(context.Canceled))
	assert.Equal(t, "database_locked", categorizeError(errors.New("database is locked (5)")))
	assert.Equal(t, "null_violation", categorizeError(errors.New("NOT NULL constraint failed: tags.name")))
	assert.Equal(t, "other", categorizeError(errors.New("boom")))
}
