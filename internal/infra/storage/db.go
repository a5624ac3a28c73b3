package storage

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// ErrUnsupportedDriver возвращается для неизвестного драйвера БД
var ErrUnsupportedDriver = errors.New("storage: unsupported database driver")

// PoolConfig параметры пула соединений Postgres
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Open открывает соединение и проверяет его.
// SQLite работает через одно соединение: запись сериализуется самой БД,
// а транзакции берут блокировку записи сразу (BEGIN IMMEDIATE).
func Open(driver, dsn string, pool PoolConfig) (*sql.DB, error) {
	var (
		db  *sql.DB
		err error
	)

	switch driver {
	case DriverPostgres:
		db, err = sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("storage: open postgres: %w", err)
		}
		db.SetMaxOpenConns(pool.MaxOpenConns)
		db.SetMaxIdleConns(pool.MaxIdleConns)
		db.SetConnMaxLifetime(pool.ConnMaxLifetime)

	case DriverSQLite:
		if dir := filepath.Dir(dsnPath(dsn)); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("storage: create database directory: %w", err)
			}
		}
		db, err = sql.Open("sqlite3", sqliteDSN(dsn))
		if err != nil {
			return nil, fmt.Errorf("storage: open sqlite: %w", err)
		}
		db.SetMaxOpenConns(1)

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, driver)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: ping %s: %w", driver, err)
	}

	return db, nil
}

// sqliteDSN добавляет параметры, без которых SQLite не годится для конкурентной записи
func sqliteDSN(dsn string) string {
	params := []struct{ key, value string }{
		{"_txlock", "immediate"},
		{"_busy_timeout", "5000"},
		{"_fk", "1"},
	}

	for _, p := range params {
		if strings.Contains(dsn, p.key+"=") {
			continue
		}
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + p.key + "=" + p.value
	}
	return dsn
}

func dsnPath(dsn string) string {
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.Index(path, "?"); i >= 0 {
		path = path[:i]
	}
	return path
}

// NewMigrator создает golang-migrate поверх встроенных миграций драйвера.
// Закрывать его не нужно: Close закрыл бы и сам db.
func NewMigrator(db *sql.DB, driver string) (*migrate.Migrate, error) {
	var (
		target database.Driver
		err    error
	)

	switch driver {
	case DriverPostgres:
		target, err = postgres.WithInstance(db, &postgres.Config{})
	case DriverSQLite:
		target, err = sqlite3.WithInstance(db, &sqlite3.Config{})
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, driver)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: create migrate driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations/"+driver)
	if err != nil {
		return nil, fmt.Errorf("storage: open migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, driver, target)
	if err != nil {
		return nil, fmt.Errorf("storage: create migrate instance: %w", err)
	}

	return m, nil
}

// Migrate применяет все миграции; отсутствие изменений не ошибка
func Migrate(db *sql.DB, driver string) error {
	m, err := NewMigrator(db, driver)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("storage: apply migrations: %w", err)
	}

	return nil
}
