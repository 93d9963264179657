package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"clientdesk/internal/client"
)

// SQLiteStore wraps the SQLite connection and provides CRUD operations.
type SQLiteStore struct {
	db   *sql.DB
	lock *FileLock
}

var _ Repository = (*SQLiteStore)(nil)

// NewSQLiteStore locks, opens (or creates) the SQLite database at path.
// ":memory:" skips the file lock.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	var lock *FileLock
	if path != ":memory:" {
		var err error
		lock, err = AcquireLock(ctx, path+".lock")
		if err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		lock.Release()
		return nil, fmt.Errorf("open db: %w", err)
	}
	// One connection keeps ":memory:" databases shared and serialises writers.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db, lock: lock}
	if err := s.initSchema(ctx); err != nil {
		db.Close()
		lock.Release()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection and releases the file lock.
func (s *SQLiteStore) Close() error {
	err := s.db.Close()
	if lerr := s.lock.Release(); err == nil {
		err = lerr
	}
	return err
}

// Ping checks the database connection.
func (s *SQLiteStore) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

const schema = `
PRAGMA journal_mode=WAL;

CREATE TABLE IF NOT EXISTS clients (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    name       TEXT NOT NULL,
    email      TEXT NOT NULL,
    phone      TEXT NOT NULL,
    company    TEXT DEFAULT '',
    address    TEXT DEFAULT '',
    status     TEXT NOT NULL DEFAULT 'active',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS clients_email ON clients (email COLLATE NOCASE);
`

func (s *SQLiteStore) initSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// ── Clients ───────────────────────────────────────────────────────────────────

const clientColumns = `id, name, email, phone, company, address, status, created_at, updated_at`

// List returns every client ordered by id.
func (s *SQLiteStore) List(ctx context.Context) ([]client.Client, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+clientColumns+` FROM clients ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	clients := []client.Client{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

// Get returns the client by id.
func (s *SQLiteStore) Get(ctx context.Context, id int64) (client.Client, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = ?`, id)
	return scanClient(row)
}

// FindByEmail returns the client whose email matches case-insensitively.
func (s *SQLiteStore) FindByEmail(ctx context.Context, email string) (client.Client, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE email = ? COLLATE NOCASE ORDER BY id LIMIT 1`, email)
	return scanClient(row)
}

// Create inserts c and returns it with the assigned id.
func (s *SQLiteStore) Create(ctx context.Context, c client.Client) (client.Client, error) {
	res, err := s.db.ExecContext(ctx, `
INSERT INTO clients (name, email, phone, company, address, status, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.Name, c.Email, c.Phone, c.Company, c.Address, string(c.Status),
		formatTime(c.CreatedAt), formatTime(c.UpdatedAt))
	if err != nil {
		return client.Client{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return client.Client{}, err
	}
	c.ID = id
	return c, nil
}

// Update replaces every mutable column of the client with c.ID.
func (s *SQLiteStore) Update(ctx context.Context, c client.Client) (client.Client, error) {
	res, err := s.db.ExecContext(ctx, `
UPDATE clients SET name=?, email=?, phone=?, company=?, address=?, status=?, updated_at=?
WHERE id=?`,
		c.Name, c.Email, c.Phone, c.Company, c.Address, string(c.Status), formatTime(c.UpdatedAt), c.ID)
	if err != nil {
		return client.Client{}, err
	}
	if err := expectOneRow(res); err != nil {
		return client.Client{}, err
	}
	return s.Get(ctx, c.ID)
}

// Delete removes the client.
func (s *SQLiteStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM clients WHERE id=?`, id)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

// Count returns the number of stored clients.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM clients`).Scan(&n)
	return n, err
}

// ── Helpers ───────────────────────────────────────────────────────────────────

type scanner interface {
	Scan(dest ...any) error
}

func scanClient(row scanner) (client.Client, error) {
	var (
		c                client.Client
		status           string
		created, updated string
	)
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Company, &c.Address, &status, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return client.Client{}, client.ErrNotFound
	}
	if err != nil {
		return client.Client{}, err
	}
	c.Status = client.Status(status)
	if c.CreatedAt, err = parseTime(created); err != nil {
		return client.Client{}, fmt.Errorf("client %d created_at: %w", c.ID, err)
	}
	if c.UpdatedAt, err = parseTime(updated); err != nil {
		return client.Client{}, fmt.Errorf("client %d updated_at: %w", c.ID, err)
	}
	return c, nil
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return client.ErrNotFound
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
