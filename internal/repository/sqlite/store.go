/*
Package sqlite is the embedded backend of the ledger store.

It implements the same repository interfaces as the postgres package on top
of database/sql and mattn/go-sqlite3. Write transactions are opened with
_txlock=immediate, so a transaction holds the database write lock from BEGIN
and a concurrent purchase waits (busy_timeout) instead of reading a stale
balance. Timestamps are stored as RFC 3339 text in UTC.

Use ":memory:" for tests; the pool is then pinned to one connection so every
caller sees the same database.
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	repo "github.com/baharkarakas/kuota-backend/internal/repository"
)

type Store struct {
	db *sql.DB
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func Open(path string) (*Store, error) {
	dsn := path + "?_foreign_keys=on&_busy_timeout=5000&_txlock=immediate"
	memory := strings.Contains(path, ":memory:")
	if !memory {
		dsn += "&_journal_mode=WAL"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if memory {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	s := &Store{db: db}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Ping(ctx context.Context) error { return mapErr(s.db.PingContext(ctx)) }

func (s *Store) Repositories() repo.Repositories {
	return repo.Repositories{
		Customers:    &customersRepo{db: s.db},
		Transactions: &transactionsRepo{db: s.db},
		Users:        &usersRepo{db: s.db},
		AuditLogs:    &auditLogsRepo{db: s.db},
	}
}

func (s *Store) migrate(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS customers (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		name       TEXT NOT NULL,
		email      TEXT NOT NULL,
		phone      TEXT NOT NULL DEFAULT '',
		address    TEXT NOT NULL DEFAULT '',
		balance    INTEGER NOT NULL DEFAULT 0 CHECK (balance >= 0),
		created_at TEXT NOT NULL
	);

	-- append-only; no foreign key so history survives customer deletion
	CREATE TABLE IF NOT EXISTS transactions (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		customer_id     INTEGER NOT NULL,
		package_id      INTEGER NOT NULL,
		amount          INTEGER NOT NULL CHECK (amount >= 0),
		status          TEXT NOT NULL,
		payment_method  TEXT NOT NULL,
		idempotency_key TEXT UNIQUE,
		created_at      TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_transactions_customer
		ON transactions(customer_id, id);

	CREATE TABLE IF NOT EXISTS users (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		username      TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role          TEXT NOT NULL,
		name          TEXT NOT NULL DEFAULT '',
		customer_id   INTEGER REFERENCES customers(id) ON DELETE SET NULL,
		created_at    TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS audit_logs (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		entity_type TEXT NOT NULL,
		entity_id   TEXT,
		action      TEXT NOT NULL,
		details     TEXT,
		created_at  TEXT NOT NULL
	);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

func formatTime(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

func parseTime(s string) (time.Time, error) { return time.Parse(time.RFC3339Nano, s) }
