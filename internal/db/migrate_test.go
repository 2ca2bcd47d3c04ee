package db

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations_EmbeddedPairs(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	require.NoError(t, err)

	ups, downs := 0, 0
	for _, e := range entries {
		switch {
		case strings.HasSuffix(e.Name(), ".up.sql"):
			ups++
		case strings.HasSuffix(e.Name(), ".down.sql"):
			downs++
		}
	}
	assert.Positive(t, ups)
	assert.Equal(t, ups, downs)
}

func TestMigrations_SourceParses(t *testing.T) {
	src, err := iofs.New(migrationsFS, "migrations")
	require.NoError(t, err)
	defer src.Close()

	first, err := src.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)
}

func TestMigrations_CreatePointTables(t *testing.T) {
	b, err := migrationsFS.ReadFile("migrations/000001_create_point_tables.up.sql")
	require.NoError(t, err)
	sql := string(b)

	assert.Contains(t, sql, "CREATE TABLE IF NOT EXISTS user_points")
	assert.Contains(t, sql, "CHECK (point >= 0)")
	assert.Contains(t, sql, "CREATE TABLE IF NOT EXISTS point_histories")
	assert.Contains(t, sql, "CHECK (amount > 0)")
}

func TestRunMigrations_BadURL(t *testing.T) {
	err := RunMigrations("not-a-url")
	assert.Error(t, err)
}
