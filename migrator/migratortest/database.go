package migratortest

import (
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver for pgtestdb
	"github.com/peterldowns/pgtestdb"
	"github.com/stretchr/testify/require"

	"github.com/screwyprof/dexactivity/migrator"
)

// CreateTestDatabase creates a test database with the activity schema applied.
// Returns the connection pool and database URL for further connections.
func CreateTestDatabase(t *testing.T, migrationsDir string) (*pgxpool.Pool, string) {
	t.Helper()

	config := createTestDatabaseConfig()

	// Create test database from a template migrated once per schema hash
	dbConfig := pgtestdb.Custom(t, config, migrator.NewSchemaMigrator(migrationsDir))

	pool, err := pgxpool.New(t.Context(), dbConfig.URL())
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	// Log the database URL for debugging
	t.Logf("testdbconf: %s", dbConfig.URL())

	return pool, dbConfig.URL()
}

// createTestDatabaseConfig creates the standard pgtestdb configuration for collector tests
func createTestDatabaseConfig() pgtestdb.Config {
	return pgtestdb.Config{
		DriverName: "pgx",
		User:       "collector",
		Password:   "collector",
		Host:       "localhost",
		Port:       "5432",
		Options:    "sslmode=disable",
	}
}
