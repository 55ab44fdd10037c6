// Package db provides a small constructor for sqlite databases used by the
// client's persistent state (hash entries, sync timestamps).
package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/hubtools/hubsync/internal/utils"
)

const driverName = "sqlite3"

// Pragmas applied to every connection. WAL keeps concurrent readers cheap,
// busy_timeout covers the rare case of two commands racing on the same dir.
const defaultPragma = `
PRAGMA journal_mode=WAL;
PRAGMA busy_timeout=5000;
PRAGMA foreign_keys=ON;
PRAGMA temp_store=MEMORY;
`

type config struct {
	path         string
	pragmas      string
	maxOpenConns int
}

// Option configures the sqlite database.
type Option func(*config)

// WithPath sets the database file path. Use ":memory:" for an in-memory db.
func WithPath(path string) Option {
	return func(c *config) { c.path = path }
}

// WithPragmas replaces the default connection pragmas.
func WithPragmas(pragmas string) Option {
	return func(c *config) { c.pragmas = pragmas }
}

// WithMaxOpenConns caps the number of open connections.
func WithMaxOpenConns(n int) Option {
	return func(c *config) { c.maxOpenConns = n }
}

// NewSqliteDB opens (creating if needed) a sqlite database with the
// provided options.
func NewSqliteDB(opts ...Option) (*sqlx.DB, error) {
	cfg := &config{
		path:    ":memory:",
		pragmas: defaultPragma,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	dsn := cfg.path
	if cfg.path != ":memory:" {
		if err := utils.EnsureParent(cfg.path); err != nil {
			return nil, fmt.Errorf("ensure parent directory: %w", err)
		}
		dsn = fmt.Sprintf("file:%s?_txlock=immediate&mode=rwc", cfg.path)
	}

	db, err := sqlx.Connect(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if cfg.maxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.maxOpenConns)
	}

	if _, err := db.Exec(cfg.pragmas); err != nil {
		db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}

	return db, nil
}
