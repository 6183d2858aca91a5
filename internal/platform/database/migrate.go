package database

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// ApplyMigrations runs every pending up migration found under root in
// migrations. Files follow the golang-migrate naming scheme
// ({version}_{title}.up.sql).
func ApplyMigrations(ctx context.Context, db *DB, migrations fs.FS, root string) error {
	if db == nil {
		return fmt.Errorf("database is required")
	}
	if root == "" {
		root = "."
	}

	src, err := iofs.New(migrations, root)
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}

	driver, release, err := migrationDriver(ctx, db)
	if err != nil {
		_ = src.Close()
		return err
	}
	defer release()

	m, err := migrate.NewWithInstance("iofs", src, db.Dialect.Family(), driver)
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// migrationDriver binds golang-migrate to the open pool. The release func
// frees what the driver holds without closing the pool itself.
func migrationDriver(ctx context.Context, db *DB) (migratedb.Driver, func(), error) {
	switch db.Dialect {
	case Postgres, PGX:
		conn, err := db.Conn(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("acquire migration connection: %w", err)
		}
		driver, err := postgres.WithConnection(ctx, conn, &postgres.Config{})
		if err != nil {
			_ = conn.Close()
			return nil, nil, fmt.Errorf("postgres migration driver: %w", err)
		}
		return driver, func() { _ = driver.Close() }, nil
	case SQLite:
		driver, err := sqlite.WithInstance(db.DB, &sqlite.Config{})
		if err != nil {
			return nil, nil, fmt.Errorf("sqlite migration driver: %w", err)
		}
		// Closing the sqlite driver closes the pool.
		return driver, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("no migration driver for %q", db.Dialect.Driver)
	}
}
