package sync

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/hubtools/hubsync/internal/db"
)

const hashSchema = `
CREATE TABLE IF NOT EXISTS hash_entries (
    scope TEXT NOT NULL,               -- artifact type name
    name TEXT NOT NULL,                -- artifact name
    resource_id TEXT NOT NULL DEFAULT '',
    md5 TEXT NOT NULL,
    last_pushed_rev TEXT NOT NULL DEFAULT '',
    last_modified_local TEXT NOT NULL, -- RFC3339
    PRIMARY KEY (scope, name)
);

CREATE TABLE IF NOT EXISTS sync_timestamps (
    scope TEXT PRIMARY KEY,
    last_push TEXT NOT NULL DEFAULT '',
    last_pull TEXT NOT NULL DEFAULT ''
);
`

// HashEntry is the persisted fingerprint of one locally synced artifact.
// Its MD5 matches the on-disk content at the moment of the last successful
// push or pull; divergence signals local modification.
type HashEntry struct {
	ResourceID        string
	MD5               string
	LastPushedRev     string
	LastModifiedLocal time.Time
}

type dbHashEntry struct {
	Scope             string `db:"scope"`
	Name              string `db:"name"`
	ResourceID        string `db:"resource_id"`
	MD5               string `db:"md5"`
	LastPushedRev     string `db:"last_pushed_rev"`
	LastModifiedLocal string `db:"last_modified_local"`
}

// HashStore persists hash entries and per-type sync timestamps for one
// working directory, backed by sqlite.
type HashStore struct {
	db     *sqlx.DB
	dbPath string
}

// NewHashStore prepares a HashStore at the given database path. Call Open
// before use.
func NewHashStore(dbPath string) *HashStore {
	return &HashStore{dbPath: dbPath}
}

// Open opens the underlying database and initializes the schema.
func (h *HashStore) Open() error {
	if h.db != nil {
		return fmt.Errorf("hash store already open")
	}

	conn, err := db.NewSqliteDB(db.WithPath(h.dbPath), db.WithMaxOpenConns(1))
	if err != nil {
		return fmt.Errorf("open hash store: %w", err)
	}

	if _, err := conn.Exec(hashSchema); err != nil {
		conn.Close()
		return fmt.Errorf("initialize hash store schema: %w", err)
	}

	h.db = conn
	return nil
}

// Close closes the underlying database.
func (h *HashStore) Close() error {
	if h.db == nil {
		return fmt.Errorf("hash store not open")
	}
	return h.db.Close()
}

// Get returns the entry for (scope, name), or nil when none exists.
func (h *HashStore) Get(scope, name string) (*HashEntry, error) {
	var row dbHashEntry
	err := h.db.Get(&row,
		"SELECT scope, name, resource_id, md5, last_pushed_rev, last_modified_local FROM hash_entries WHERE scope = ? AND name = ?",
		scope, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query hash entry %s/%s: %w", scope, name, err)
	}

	modTime, err := time.Parse(time.RFC3339, row.LastModifiedLocal)
	if err != nil {
		return nil, fmt.Errorf("parse stored timestamp for %s/%s: %w", scope, name, err)
	}

	return &HashEntry{
		ResourceID:        row.ResourceID,
		MD5:               row.MD5,
		LastPushedRev:     row.LastPushedRev,
		LastModifiedLocal: modTime,
	}, nil
}

// Set inserts or updates the entry for (scope, name).
func (h *HashStore) Set(scope, name string, entry *HashEntry) error {
	if entry == nil {
		return fmt.Errorf("cannot set nil hash entry")
	}

	row := dbHashEntry{
		Scope:             scope,
		Name:              name,
		ResourceID:        entry.ResourceID,
		MD5:               entry.MD5,
		LastPushedRev:     entry.LastPushedRev,
		LastModifiedLocal: entry.LastModifiedLocal.Format(time.RFC3339),
	}

	query := `INSERT OR REPLACE INTO hash_entries (scope, name, resource_id, md5, last_pushed_rev, last_modified_local)
	          VALUES (:scope, :name, :resource_id, :md5, :last_pushed_rev, :last_modified_local)`
	if _, err := h.db.NamedExec(query, row); err != nil {
		return fmt.Errorf("set hash entry %s/%s: %w", scope, name, err)
	}
	slog.Debug("hash store set", "scope", scope, "name", name, "md5", entry.MD5)
	return nil
}

// Delete removes the entry for (scope, name). Deleting a missing entry is
// not an error.
func (h *HashStore) Delete(scope, name string) error {
	if _, err := h.db.Exec("DELETE FROM hash_entries WHERE scope = ? AND name = ?", scope, name); err != nil {
		return fmt.Errorf("delete hash entry %s/%s: %w", scope, name, err)
	}
	return nil
}

// Names returns all artifact names with an entry in the given scope.
func (h *HashStore) Names(scope string) ([]string, error) {
	var names []string
	if err := h.db.Select(&names, "SELECT name FROM hash_entries WHERE scope = ? ORDER BY name", scope); err != nil {
		return nil, fmt.Errorf("query hash entry names for %s: %w", scope, err)
	}
	return names, nil
}

// Entries returns the full entry map for a scope. Corrupt rows are skipped
// with a log line so one bad entry cannot abort classification of the
// others.
func (h *HashStore) Entries(scope string) (map[string]*HashEntry, error) {
	var rows []dbHashEntry
	if err := h.db.Select(&rows,
		"SELECT scope, name, resource_id, md5, last_pushed_rev, last_modified_local FROM hash_entries WHERE scope = ?",
		scope); err != nil {
		return nil, fmt.Errorf("query hash entries for %s: %w", scope, err)
	}

	entries := make(map[string]*HashEntry, len(rows))
	for _, row := range rows {
		modTime, err := time.Parse(time.RFC3339, row.LastModifiedLocal)
		if err != nil {
			slog.Warn("skipping corrupt hash entry", "scope", scope, "name", row.Name, "value", row.LastModifiedLocal, "error", err)
			continue
		}
		entries[row.Name] = &HashEntry{
			ResourceID:        row.ResourceID,
			MD5:               row.MD5,
			LastPushedRev:     row.LastPushedRev,
			LastModifiedLocal: modTime,
		}
	}
	return entries, nil
}

// RemoveAll deletes every entry in a scope. Used only for read-only remote
// types (renditions) where local hashes are a pure cache.
func (h *HashStore) RemoveAll(scope string) error {
	if _, err := h.db.Exec("DELETE FROM hash_entries WHERE scope = ?", scope); err != nil {
		return fmt.Errorf("remove hash entries for %s: %w", scope, err)
	}
	return nil
}

// PushTimestamp returns the last successful bulk-push time for a scope,
// zero when never pushed.
func (h *HashStore) PushTimestamp(scope string) (time.Time, error) {
	return h.timestamp(scope, "last_push")
}

// PullTimestamp returns the last successful bulk-pull time for a scope,
// zero when never pulled.
func (h *HashStore) PullTimestamp(scope string) (time.Time, error) {
	return h.timestamp(scope, "last_pull")
}

// SetPushTimestamp records the last successful bulk-push time. Callers
// must only invoke this after a run with zero item-level errors.
func (h *HashStore) SetPushTimestamp(scope string, ts time.Time) error {
	return h.setTimestamp(scope, "last_push", ts)
}

// SetPullTimestamp records the last successful bulk-pull time.
func (h *HashStore) SetPullTimestamp(scope string, ts time.Time) error {
	return h.setTimestamp(scope, "last_pull", ts)
}

func (h *HashStore) timestamp(scope, column string) (time.Time, error) {
	var value string
	err := h.db.Get(&value, fmt.Sprintf("SELECT %s FROM sync_timestamps WHERE scope = ?", column), scope)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("query %s for %s: %w", column, scope, err)
	}
	if value == "" {
		return time.Time{}, nil
	}

	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %s for %s: %w", column, scope, err)
	}
	return ts, nil
}

func (h *HashStore) setTimestamp(scope, column string, ts time.Time) error {
	query := fmt.Sprintf(`INSERT INTO sync_timestamps (scope, %[1]s) VALUES (?, ?)
	          ON CONFLICT(scope) DO UPDATE SET %[1]s = excluded.%[1]s`, column)
	if _, err := h.db.Exec(query, scope, ts.Format(time.RFC3339)); err != nil {
		return fmt.Errorf("set %s for %s: %w", column, scope, err)
	}
	return nil
}
