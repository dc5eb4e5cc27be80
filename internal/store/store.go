// Package store provides the SQLite-backed note and folder repositories.
package store

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS folders (
	id           TEXT PRIMARY KEY,
	owner_id     TEXT NOT NULL,
	title        TEXT NOT NULL,
	date_created INTEGER NOT NULL,
	date_updated INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS notes (
	id           TEXT PRIMARY KEY,
	owner_id     TEXT NOT NULL,
	title        TEXT NOT NULL DEFAULT '',
	body         TEXT NOT NULL DEFAULT '',
	color        TEXT NOT NULL DEFAULT '',
	category     TEXT NOT NULL DEFAULT '',
	tag          TEXT NOT NULL DEFAULT 'none',
	folder_id    TEXT REFERENCES folders(id),
	is_trash     INTEGER NOT NULL DEFAULT 0,
	date_created INTEGER NOT NULL,
	date_updated INTEGER NOT NULL,
	date_deleted INTEGER
);

CREATE INDEX IF NOT EXISTS idx_notes_owner  ON notes(owner_id, is_trash);
CREATE INDEX IF NOT EXISTS idx_notes_folder ON notes(folder_id);
CREATE INDEX IF NOT EXISTS idx_folders_owner ON folders(owner_id);
`

// DB wraps a sql.DB with repository operations. Timestamps are stored as
// Unix milliseconds so trash ageing keeps millisecond precision.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Notes returns the note repository.
func (db *DB) Notes() *NoteStore { return &NoteStore{conn: db.conn} }

// Folders returns the folder repository.
func (db *DB) Folders() *FolderStore { return &FolderStore{conn: db.conn} }

// placeholders returns "?, ?, ..., ?" for n parameters.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// idArgs converts a slice of string ids into []any for variadic Exec/Query.
func idArgs(ids []string) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}
