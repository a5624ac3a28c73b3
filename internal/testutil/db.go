package testutil

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/recentro-booking/internal/infra/storage"
	"github.com/m04kA/recentro-booking/pkg/dbmetrics"
)

// EnvPostgresDSN включает интеграционные тесты на Postgres
const EnvPostgresDSN = "TEST_POSTGRES_DSN"

// NewTestDB creates a temporary SQLite database with migrations applied.
func NewTestDB(t *testing.T) *dbmetrics.DB {
	t.Helper()
	return OpenTestDB(t, NewTestDBFile(t))
}

// NewTestDBFile creates a migrated SQLite file and returns its path.
// Each OpenTestDB on the path is a separate connection, so statements
// from different handles really interleave.
func NewTestDBFile(t *testing.T) string {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	sqlDB, err := storage.Open(storage.DriverSQLite, dbPath, storage.PoolConfig{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	defer sqlDB.Close()

	if err := storage.Migrate(sqlDB, storage.DriverSQLite); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	return dbPath
}

// OpenTestDB opens one more handle to an existing SQLite file.
func OpenTestDB(t *testing.T, dbPath string) *dbmetrics.DB {
	t.Helper()

	sqlDB, err := storage.Open(storage.DriverSQLite, dbPath, storage.PoolConfig{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return dbmetrics.Wrap(sqlDB, nil, "test")
}

// NewPostgresTestDB creates a throwaway schema in the database from
// TEST_POSTGRES_DSN and applies migrations to it. The test is skipped
// when the variable is not set. The pool allows many connections so that
// concurrent transactions run in parallel.
func NewPostgresTestDB(t *testing.T) *dbmetrics.DB {
	t.Helper()

	dsn := os.Getenv(EnvPostgresDSN)
	if dsn == "" {
		t.Skipf("%s is not set", EnvPostgresDSN)
	}

	pool := storage.PoolConfig{MaxOpenConns: 32, MaxIdleConns: 32, ConnMaxLifetime: time.Minute}

	admin, err := storage.Open(storage.DriverPostgres, dsn, storage.PoolConfig{MaxOpenConns: 1, MaxIdleConns: 1})
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	defer admin.Close()

	schema := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	if _, err := admin.Exec("CREATE SCHEMA " + schema); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	t.Cleanup(func() {
		cleanup, err := sql.Open("postgres", dsn)
		if err != nil {
			return
		}
		defer cleanup.Close()
		_, _ = cleanup.Exec("DROP SCHEMA " + schema + " CASCADE")
	})

	sqlDB, err := storage.Open(storage.DriverPostgres, withSearchPath(dsn, schema), pool)
	if err != nil {
		t.Fatalf("open postgres schema %s: %v", schema, err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	if err := storage.Migrate(sqlDB, storage.DriverPostgres); err != nil {
		t.Fatalf("migrate postgres: %v", err)
	}

	return dbmetrics.Wrap(sqlDB, nil, "test")
}

// withSearchPath добавляет search_path для URL- и key=value-форм DSN
func withSearchPath(dsn, schema string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		return dsn + sep + "search_path=" + schema
	}
	return fmt.Sprintf("%s search_path=%s", dsn, schema)
}
