package audit

import (
	"testing"

	"github.com/google/uuid"
	"github.com/govalues/decimal"

	"github.com/tinoosan/bookkeeper/internal/ledger"
)

func sale(amount string) ledger.Sale {
	return ledger.Sale{ID: uuid.New(), Customer: "Acme", Amount: decimal.MustParse(amount), Currency: "SAR", Status: ledger.StatusComplete}
}

func item(name string, qty, threshold int64) ledger.InventoryItem {
	return ledger.InventoryItem{ID: uuid.New(), Name: name, Quantity: qty, ReorderThreshold: threshold}
}

func TestAuditEmptyTables(t *testing.T) {
	got := Default().Audit(ledger.Tables{})
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil findings, got %#v", got)
	}
	if got := Default().Audit(nil); got == nil || len(got) != 0 {
		t.Fatalf("nil tables: %#v", got)
	}
}

func TestNonPositiveAmount(t *testing.T) {
	tables := ledger.Tables{ledger.KindSale: {sale("100"), sale("-5")}}
	got := Default().Audit(tables)
	if len(got) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(got))
	}
	f := got[0]
	if f.Code != CodeNonPositiveAmount || f.Ledger != ledger.KindSale || f.Position != 2 || f.Value != "-5" {
		t.Fatalf("unexpected finding: %+v", f)
	}
}

func TestZeroAmountIsFlagged(t *testing.T) {
	tables := ledger.Tables{ledger.KindExpense: {ledger.Expense{ID: uuid.New(), Category: "general", Amount: decimal.Zero, Currency: "SAR", Status: ledger.StatusPending}}}
	if got := Default().Audit(tables); len(got) != 1 || got[0].Ledger != ledger.KindExpense {
		t.Fatalf("zero expense should be flagged: %+v", got)
	}
}

func TestReorderNeeded(t *testing.T) {
	cases := []struct {
		qty, threshold int64
		want           int
	}{
		{3, 5, 1},
		{5, 5, 1},
		{10, 5, 0},
		{0, 0, 1},
	}
	for _, c := range cases {
		got := Default().Audit(ledger.Tables{ledger.KindInventory: {item("Paper", c.qty, c.threshold)}})
		if len(got) != c.want {
			t.Fatalf("qty %d threshold %d: got %d findings", c.qty, c.threshold, len(got))
		}
		if c.want == 1 && (got[0].Subject != "Paper" || got[0].Code != CodeReorderNeeded) {
			t.Fatalf("finding should reference item: %+v", got[0])
		}
	}
}

func TestAuditOrderAndPurity(t *testing.T) {
	tables := ledger.Tables{
		ledger.KindInventory: {item("Ink", 1, 2)},
		ledger.KindExpense:   {ledger.Expense{ID: uuid.New(), Category: "rent", Amount: decimal.MustParse("-1"), Currency: "SAR", Status: ledger.StatusComplete}},
		ledger.KindSale:      {sale("0"), sale("7"), sale("-2")},
	}
	before := tables.Len()
	got := Default().Audit(tables)
	want := []struct {
		kind ledger.Kind
		pos  int
	}{
		{ledger.KindSale, 1},
		{ledger.KindSale, 3},
		{ledger.KindExpense, 1},
		{ledger.KindInventory, 1},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d findings: %+v", len(got), got)
	}
	for i, w := range want {
		if got[i].Ledger != w.kind || got[i].Position != w.pos {
			t.Fatalf("finding %d = %s#%d, want %s#%d", i, got[i].Ledger, got[i].Position, w.kind, w.pos)
		}
	}
	if tables.Len() != before {
		t.Fatalf("audit must not mutate tables")
	}
}

func TestCustomEngineRules(t *testing.T) {
	e := NewEngine(ReorderNeeded{})
	got := e.Audit(ledger.Tables{ledger.KindSale: {sale("-1")}, ledger.KindInventory: {item("Ink", 0, 1)}})
	if len(got) != 1 || got[0].Code != CodeReorderNeeded {
		t.Fatalf("only reorder rule should run: %+v", got)
	}
}
