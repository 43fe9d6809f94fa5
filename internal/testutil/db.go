package testutil

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/researchdesk/researchdesk/db"
)

// OpenTestDB points the global database handle at a fresh in-memory SQLite
// database with foreign keys enforced, so cascade and uniqueness rules
// behave as they do against the real store.
func OpenTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:?_pragma=foreign_keys(1)"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	// With more than one connection each would get its own empty in-memory
	// database.
	sqlDB.SetMaxOpenConns(1)

	db.DB = gdb
	require.NoError(t, db.MigrateDatabase())

	t.Cleanup(func() { _ = sqlDB.Close() })

	return gdb
}
