// Package database opens the SQL connection backing the content
// repositories and describes the dialect differences the stores care about.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	// Registers the "pgx" driver.
	_ "github.com/jackc/pgx/v5/stdlib"
	// Registers the "postgres" driver.
	_ "github.com/lib/pq"
	// Registers the "sqlite" driver.
	_ "modernc.org/sqlite"

	"newsdesk/internal/platform/config"
)

// Dialect captures the SQL differences between supported drivers.
type Dialect struct {
	Driver   string
	numbered bool
}

var (
	Postgres = Dialect{Driver: "postgres", numbered: true}
	PGX      = Dialect{Driver: "pgx", numbered: true}
	SQLite   = Dialect{Driver: "sqlite"}
)

// DialectFor returns the dialect registered for driver.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case Postgres.Driver:
		return Postgres, nil
	case PGX.Driver:
		return PGX, nil
	case SQLite.Driver:
		return SQLite, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Placeholder renders the n-th (1-based) bind parameter.
func (d Dialect) Placeholder(n int) string {
	if d.numbered {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// Family names the SQL dialect family; both postgres drivers share one.
func (d Dialect) Family() string {
	if d.numbered {
		return "postgres"
	}
	return d.Driver
}

// DB pairs a connection pool with its dialect.
type DB struct {
	*sql.DB
	Dialect Dialect
}

// Open connects to the configured database and verifies the connection.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*DB, error) {
	dialect, err := DialectFor(cfg.Driver)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(dialect.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect.Driver, err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if dialect == SQLite {
		// A single connection keeps in-memory databases shared across queries.
		db.SetMaxOpenConns(1)
	}
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect.Driver, err)
	}

	return &DB{DB: db, Dialect: dialect}, nil
}

// Health checks if the database connection is healthy.
func (d *DB) Health(ctx context.Context) error {
	return d.PingContext(ctx)
}
