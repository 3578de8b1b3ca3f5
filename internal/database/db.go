package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// DB wraps the database connection
type DB struct {
	conn *sql.DB
	path string
}

// New creates a new database connection
func New(dbPath string) (*DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Use WAL mode for better concurrency
	conn, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(5)

	return &DB{
		conn: conn,
		path: dbPath,
	}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// Conn returns the underlying sql.DB connection
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Path returns the database file path
func (db *DB) Path() string {
	return db.path
}

// Migrate creates the audit-history schema if it does not exist
func (db *DB) Migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS audit_runs (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		geography    TEXT NOT NULL,
		device_count INTEGER NOT NULL,
		created_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS audit_devices (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id          INTEGER NOT NULL REFERENCES audit_runs(id) ON DELETE CASCADE,
		device_class    TEXT NOT NULL,
		age_years       REAL NOT NULL,
		persona_id      TEXT NOT NULL,
		geography       TEXT NOT NULL,
		recommendation  TEXT NOT NULL,
		composite_score REAL NOT NULL,
		urgency         TEXT NOT NULL,
		annual_savings  REAL NOT NULL,
		co2_savings     REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS audit_summaries (
		run_id               INTEGER PRIMARY KEY REFERENCES audit_runs(id) ON DELETE CASCADE,
		keep_count           INTEGER NOT NULL,
		new_count            INTEGER NOT NULL,
		refurb_count         INTEGER NOT NULL,
		high_urgency_count   INTEGER NOT NULL,
		total_savings_eur    REAL NOT NULL,
		total_co2_savings_kg REAL NOT NULL,
		mean_savings_eur     REAL NOT NULL,
		median_savings_eur   REAL NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_audit_devices_run ON audit_devices(run_id);
	`

	if _, err := db.conn.Exec(schema); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Begin starts a new transaction
func (db *DB) Begin() (*sql.Tx, error) {
	return db.conn.Begin()
}

// Exec executes a query without returning rows
func (db *DB) Exec(query string, args ...interface{}) (sql.Result, error) {
	return db.conn.Exec(query, args...)
}

// Query executes a query that returns rows
func (db *DB) Query(query string, args ...interface{}) (*sql.Rows, error) {
	return db.conn.Query(query, args...)
}

// QueryRow executes a query that returns at most one row
func (db *DB) QueryRow(query string, args ...interface{}) *sql.Row {
	return db.conn.QueryRow(query, args...)
}
