// Package sqlite provides a single-file session snapshot adapter backed by
// mattn/go-sqlite3, for running the bookkeeper without a database server.
package sqlite

// Schema defines the SQL statements to create the snapshot table.
const Schema = `
-- One row per ledger record; replaced wholesale on every save.
CREATE TABLE IF NOT EXISTS ledger_records (
    kind TEXT NOT NULL,                -- sale, purchase, expense, inventory, party
    position INTEGER NOT NULL,         -- 0-based insertion index within the ledger
    id TEXT NOT NULL,                  -- record UUID
    payload TEXT NOT NULL,             -- stable JSON field map
    saved_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (kind, position)
);

CREATE INDEX IF NOT EXISTS idx_ledger_records_id
    ON ledger_records(id);
`

const kindOrder = `CASE kind
    WHEN 'sale' THEN 0
    WHEN 'purchase' THEN 1
    WHEN 'expense' THEN 2
    WHEN 'inventory' THEN 3
    WHEN 'party' THEN 4
    ELSE 5 END`
