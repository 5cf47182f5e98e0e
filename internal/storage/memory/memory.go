// Package memory provides the in-process ledger store: one ordered, append-only
// table per ledger kind. It is the only place records live during a session;
// persistence adapters load into it at startup and save from it at shutdown.
package memory

import (
    "context"
    "iter"
    "sync"

    "github.com/tinoosan/bookkeeper/internal/errs"
    "github.com/tinoosan/bookkeeper/internal/ledger"
)

// Store is guarded by an RWMutex: appends take the write lock, reads copy the
// table under the read lock so scans never observe a half-appended table.
type Store struct {
    mu     sync.RWMutex
    tables map[ledger.Kind][]ledger.Record
}

// New constructs an empty store with every ledger table present.
func New() *Store {
    s := &Store{}
    s.Reset()
    return s
}

// Reset drops all records.
func (s *Store) Reset() {
    s.mu.Lock()
    s.tables = make(map[ledger.Kind][]ledger.Record, len(ledger.Kinds()))
    for _, k := range ledger.Kinds() { s.tables[k] = nil }
    s.mu.Unlock()
}

// Restore replaces the store contents with tables, typically loaded by a
// persistence adapter at session start. Unknown kinds are rejected.
func (s *Store) Restore(tables ledger.Tables) error {
    for k, recs := range tables {
        if !k.Valid() { return errs.ErrUnknownLedgerKind }
        for _, r := range recs {
            if r.Kind() != k { return errs.ErrInvalid }
        }
    }
    cp := tables.Clone()
    s.mu.Lock()
    defer s.mu.Unlock()
    s.tables = make(map[ledger.Kind][]ledger.Record, len(ledger.Kinds()))
    for _, k := range ledger.Kinds() { s.tables[k] = cp[k] }
    return nil
}

// Append adds rec to the end of the kind table.
func (s *Store) Append(_ context.Context, kind ledger.Kind, rec ledger.Record) error {
    if !kind.Valid() { return errs.ErrUnknownLedgerKind }
    if rec == nil || rec.Kind() != kind { return errs.ErrInvalid }
    s.mu.Lock()
    defer s.mu.Unlock()
    s.tables[kind] = append(s.tables[kind], rec)
    return nil
}

// All yields the records of kind in insertion order. Each range over the
// sequence reads a fresh copy, so it can be iterated more than once. Unknown
// kinds yield nothing.
func (s *Store) All(kind ledger.Kind) iter.Seq[ledger.Record] {
    return func(yield func(ledger.Record) bool) {
        for _, r := range s.table(kind) {
            if !yield(r) { return }
        }
    }
}

// Records returns a copy of one table; unknown kinds return an empty slice.
func (s *Store) Records(_ context.Context, kind ledger.Kind) ([]ledger.Record, error) {
    return s.table(kind), nil
}

// Len returns the number of records in kind.
func (s *Store) Len(kind ledger.Kind) int {
    s.mu.RLock(); defer s.mu.RUnlock()
    return len(s.tables[kind])
}

// Tables returns a consistent snapshot of every table.
func (s *Store) Tables(_ context.Context) (ledger.Tables, error) {
    s.mu.RLock()
    defer s.mu.RUnlock()
    return ledger.Tables(s.tables).Clone(), nil
}

func (s *Store) table(kind ledger.Kind) []ledger.Record {
    s.mu.RLock()
    defer s.mu.RUnlock()
    recs := s.tables[kind]
    out := make([]ledger.Record, len(recs))
    copy(out, recs)
    return out
}
