package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/tinoosan/bookkeeper/internal/ledger"
	"github.com/tinoosan/bookkeeper/internal/storage"
)

// Store manages a SQLite database connection.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the database at path and applies Schema.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	connStr := fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL", path)
	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Ready pings the database.
func (s *Store) Ready(ctx context.Context) error { return s.db.PingContext(ctx) }

// Load reads the last saved snapshot.
func (s *Store) Load(ctx context.Context) (ledger.Tables, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT kind, position, id, payload FROM ledger_records ORDER BY `+kindOrder+`, position`)
	if err != nil {
		return nil, fmt.Errorf("sqlite load: %w", err)
	}
	defer rows.Close()

	var out []storage.Row
	for rows.Next() {
		var (
			kind, id, payload string
			r                 storage.Row
		)
		if err := rows.Scan(&kind, &r.Position, &id, &payload); err != nil {
			return nil, fmt.Errorf("sqlite load: %w", err)
		}
		if r.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("sqlite load: record id %q: %w", id, err)
		}
		r.Kind = ledger.Kind(kind)
		r.Payload = []byte(payload)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite load: %w", err)
	}
	return storage.FromRows(out)
}

// Save replaces the stored snapshot with tables in one transaction.
func (s *Store) Save(ctx context.Context, tables ledger.Tables) error {
	recs, err := storage.Rows(tables)
	if err != nil {
		return err
	}
	return s.Transaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM ledger_records`); err != nil {
			return err
		}
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO ledger_records (kind, position, id, payload) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, r := range recs {
			if _, err := stmt.ExecContext(ctx, string(r.Kind), r.Position, r.ID.String(), string(r.Payload)); err != nil {
				return fmt.Errorf("insert %s[%d]: %w", r.Kind, r.Position, err)
			}
		}
		return nil
	})
}

// Transaction executes fn within a transaction.
// If fn returns an error, the transaction is rolled back.
// Otherwise, the transaction is committed.
func (s *Store) Transaction(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

var _ storage.Snapshotter = (*Store)(nil)
