package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/govalues/decimal"

	"github.com/tinoosan/bookkeeper/internal/ledger"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data", "books.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	empty, err := s.Load(ctx)
	if err != nil || empty.Len() != 0 {
		t.Fatalf("empty load: %v %d", err, empty.Len())
	}

	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	in := ledger.Tables{
		ledger.KindParty:   {ledger.Party{ID: uuid.New(), Name: "Sara", Phone: "0501234567"}},
		ledger.KindExpense: {ledger.Expense{ID: uuid.New(), Date: day, Category: "rent", Amount: decimal.MustParse("3000"), Currency: "SAR", Status: ledger.StatusComplete}},
		ledger.KindSale: {
			ledger.Sale{ID: uuid.New(), Date: day, Customer: "x", Amount: decimal.MustParse("1"), Currency: "SAR", Status: ledger.StatusPending},
			ledger.Sale{ID: uuid.New(), Date: day, Customer: "y", Amount: decimal.MustParse("2"), Currency: "SAR", Status: ledger.StatusPending},
		},
	}
	if err := s.Save(ctx, in); err != nil {
		t.Fatalf("save: %v", err)
	}
	out, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if out.Len() != 4 {
		t.Fatalf("loaded %d records", out.Len())
	}
	for _, k := range ledger.Kinds() {
		for i := range in[k] {
			if out[k][i].RecordID() != in[k][i].RecordID() {
				t.Fatalf("%s[%d] mismatch", k, i)
			}
		}
	}
	e := out[ledger.KindExpense][0].(ledger.Expense)
	if e.Category != "rent" || e.Amount.Cmp(decimal.MustParse("3000")) != 0 || !e.Date.Equal(day) {
		t.Fatalf("expense: %+v", e)
	}
}

func TestSaveReplacesSnapshot(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	first := ledger.Tables{ledger.KindSale: {ledger.Sale{ID: uuid.New(), Amount: decimal.MustParse("1"), Currency: "SAR", Status: ledger.StatusPending}}}
	if err := s.Save(ctx, first); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Save(ctx, ledger.Tables{}); err != nil {
		t.Fatalf("save empty: %v", err)
	}
	out, err := s.Load(ctx)
	if err != nil || out.Len() != 0 {
		t.Fatalf("expected empty after replace: %v %d", err, out.Len())
	}
}

func TestTransactionRollsBack(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	boom := errors.New("boom")
	err := s.Transaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO ledger_records (kind, position, id, payload) VALUES ('party', 0, ?, '{"name":"x"}')`, uuid.NewString()); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	out, err := s.Load(ctx)
	if err != nil || out.Len() != 0 {
		t.Fatalf("rollback failed: %v %d", err, out.Len())
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	id := uuid.New()
	if err := s.Save(context.Background(), ledger.Tables{ledger.KindInventory: {ledger.InventoryItem{ID: id, Name: "Ink", Quantity: 4}}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	_ = s.Close()
	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	out, err := s2.Load(context.Background())
	if err != nil || len(out[ledger.KindInventory]) != 1 || out[ledger.KindInventory][0].RecordID() != id {
		t.Fatalf("reload: %v %+v", err, out)
	}
}
