package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"evalportal/internal/db"
)

// NewSQLite returns a migrated in-memory SQLite database private to the test.
func NewSQLite(t *testing.T) *gorm.DB {
	t.Helper()

	gormDB, err := db.Open("sqlite", "file::memory:")
	require.NoError(t, err, "failed to open sqlite")
	require.NoError(t, db.Migrate(gormDB), "failed to migrate schema")

	t.Cleanup(func() {
		if sqlDB, err := gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gormDB
}
