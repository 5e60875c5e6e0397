package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// InitDB opens/creates a SQLite DB file and ensures tables exist.
func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open(sqliteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}

	// One connection serializes writers; counter and link transactions rely on it.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA foreign_keys = ON;",
		"PRAGMA busy_timeout = 5000;",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return db, nil
}

const sqliteDriverName = "sqlite"

const schemaUsers = `
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL,
    api_rate_limit TEXT,
    limit_aid INTEGER NOT NULL DEFAULT 10,
    limit_channel_group INTEGER NOT NULL DEFAULT 20,
    limit_channel_per_group INTEGER NOT NULL DEFAULT 10,
    limit_direct_link INTEGER NOT NULL DEFAULT 50,
    limit_loc INTEGER NOT NULL DEFAULT 10,
    limit_oauth_client INTEGER NOT NULL DEFAULT 20,
    limit_schedule INTEGER NOT NULL DEFAULT 20
);
`

const schemaChannels = `
CREATE TABLE IF NOT EXISTS channels (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    iodevice_id INTEGER NOT NULL,
    channel_number INTEGER NOT NULL,
    caption TEXT NOT NULL DEFAULT '',
    type INTEGER NOT NULL,
    func INTEGER NOT NULL,
    param1 INTEGER NOT NULL DEFAULT 0,
    param2 INTEGER NOT NULL DEFAULT 0,
    param3 INTEGER NOT NULL DEFAULT 0,
    param4 INTEGER NOT NULL DEFAULT 0,
    UNIQUE (iodevice_id, channel_number)
);
`

const schemaChannelEvents = `
CREATE TABLE IF NOT EXISTS channel_events (
    id TEXT PRIMARY KEY,
    occurred_at TIMESTAMP NOT NULL,
    type TEXT NOT NULL,
    user_id INTEGER NOT NULL,
    channel_id INTEGER,
    message TEXT NOT NULL,
    meta TEXT
);
`

const schemaRateLimitCounters = `
CREATE TABLE IF NOT EXISTS api_rate_limit_counters (
    user_key TEXT PRIMARY KEY,
    rule TEXT NOT NULL,
    count INTEGER NOT NULL,
    window_start INTEGER NOT NULL
);
`

func ensureSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for i, stmt := range []string{
		schemaUsers,
		schemaChannels,
		schemaChannelEvents,
		schemaRateLimitCounters,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema transaction: %w", err)
	}
	return nil
}
