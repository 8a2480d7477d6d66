// Package dbtest opens throwaway SQLite databases for tests
package dbtest

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/megaplex/realestate/internal/database"
)

// New returns a migrated database in the test's temp dir, closed on cleanup
func New(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Open(filepath.Join(t.TempDir(), "test.sqlite"), zerolog.Nop())
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = database.Close(db)
	})
	return db
}
