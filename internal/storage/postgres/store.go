// Package postgres provides a pgx-backed session snapshot adapter.
//
// The schema lives under db/migrations. Save replaces every persisted record
// inside one transaction; Load returns them in ledger and insertion order.
package postgres

import (
    "context"
    "fmt"

    "github.com/jackc/pgx/v5"
    "github.com/jackc/pgx/v5/pgxpool"

    "github.com/tinoosan/bookkeeper/internal/ledger"
    "github.com/tinoosan/bookkeeper/internal/storage"
)

// Store holds a pgx connection pool. All methods are safe for concurrent use.
type Store struct {
    pool *pgxpool.Pool
}

// Open establishes a pgx pool using the provided connection string.
func Open(ctx context.Context, dsn string) (*Store, error) {
    cfg, err := pgxpool.ParseConfig(dsn)
    if err != nil { return nil, err }
    pool, err := pgxpool.NewWithConfig(ctx, cfg)
    if err != nil { return nil, err }
    // Verify connection
    if err := pool.Ping(ctx); err != nil { pool.Close(); return nil, err }
    return &Store{pool: pool}, nil
}

// Close releases the underlying pool.
func (s *Store) Close() { if s.pool != nil { s.pool.Close() } }

// Ready pings the pool to verify connectivity.
func (s *Store) Ready(ctx context.Context) error { return s.pool.Ping(ctx) }

// Load reads the last saved snapshot. An empty database yields empty tables.
func (s *Store) Load(ctx context.Context) (ledger.Tables, error) {
    rows, err := s.pool.Query(ctx, `
        select kind, position, id, payload
        from ledger_records
        order by array_position(array['sale','purchase','expense','inventory','party'], kind), position
    `)
    if err != nil { return nil, fmt.Errorf("postgres load: %w", err) }
    defer rows.Close()
    var out []storage.Row
    for rows.Next() {
        var r storage.Row
        var kind string
        if err := rows.Scan(&kind, &r.Position, &r.ID, &r.Payload); err != nil { return nil, fmt.Errorf("postgres load: %w", err) }
        r.Kind = ledger.Kind(kind)
        out = append(out, r)
    }
    if err := rows.Err(); err != nil { return nil, fmt.Errorf("postgres load: %w", err) }
    return storage.FromRows(out)
}

// Save replaces the persisted snapshot with tables, all or nothing.
func (s *Store) Save(ctx context.Context, tables ledger.Tables) error {
    recs, err := storage.Rows(tables)
    if err != nil { return err }
    tx, err := s.pool.Begin(ctx)
    if err != nil { return fmt.Errorf("postgres save: %w", err) }
    defer func() { _ = tx.Rollback(ctx) }()
    if err := replaceAll(ctx, tx, recs); err != nil { return fmt.Errorf("postgres save: %w", err) }
    if err := tx.Commit(ctx); err != nil { return fmt.Errorf("postgres save: %w", err) }
    return nil
}

func replaceAll(ctx context.Context, tx pgx.Tx, recs []storage.Row) error {
    if _, err := tx.Exec(ctx, `delete from ledger_records`); err != nil { return err }
    if len(recs) == 0 { return nil }
    batch := &pgx.Batch{}
    for _, r := range recs {
        batch.Queue(`
            insert into ledger_records (kind, position, id, payload)
            values ($1, $2, $3, $4::jsonb)
        `, string(r.Kind), r.Position, r.ID, string(r.Payload))
    }
    br := tx.SendBatch(ctx, batch)
    for range recs {
        if _, err := br.Exec(); err != nil { _ = br.Close(); return err }
    }
    return br.Close()
}

var _ storage.Snapshotter = (*Store)(nil)
