package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"focustrack/internal/db"
	"focustrack/migrations"
)

// NewTestDB opens a migrated sqlite database in a temp dir that is closed
// when the test ends.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = database.Close()
	})

	_, err = db.RunMigrations(database, migrations.FS)
	require.NoError(t, err)
	return database
}
