package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/govalues/decimal"

	"github.com/tinoosan/bookkeeper/internal/errs"
	"github.com/tinoosan/bookkeeper/internal/ledger"
)

func TestWriteTable(t *testing.T) {
	id := uuid.New()
	recs := []ledger.Record{ledger.Sale{ID: id, Date: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), Customer: "شركة, النور", Amount: decimal.MustParse("1500"), Currency: "SAR", Status: ledger.StatusPending}}
	var buf bytes.Buffer
	if err := WriteTable(&buf, ledger.KindSale, recs); err != nil {
		t.Fatalf("write: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(rows) != 2 || rows[0][0] != "id" || rows[0][2] != "customer" {
		t.Fatalf("header: %v", rows)
	}
	want := []string{id.String(), "2024-01-05", "شركة, النور", "1500", "SAR", "", "pending"}
	for i := range want {
		if rows[1][i] != want[i] {
			t.Fatalf("col %d = %q, want %q", i, rows[1][i], want[i])
		}
	}
}

func TestWriteTableErrors(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTable(&buf, ledger.Kind("assets"), nil); !errors.Is(err, errs.ErrUnknownLedgerKind) {
		t.Fatalf("expected unknown kind, got %v", err)
	}
	mixed := []ledger.Record{ledger.Party{ID: uuid.New(), Name: "x"}}
	if err := WriteTable(&buf, ledger.KindSale, mixed); !errors.Is(err, errs.ErrInvalid) {
		t.Fatalf("expected invalid, got %v", err)
	}
}

func TestWriteAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	tables := ledger.Tables{
		ledger.KindInventory: {ledger.InventoryItem{ID: uuid.New(), Name: "Paper", Quantity: 3, UnitPrice: decimal.MustParse("2.5"), ReorderThreshold: 5}},
	}
	paths, err := WriteAll(dir, tables)
	if err != nil {
		t.Fatalf("write all: %v", err)
	}
	if len(paths) != len(ledger.Kinds()) {
		t.Fatalf("paths = %v", paths)
	}
	b, err := os.ReadFile(filepath.Join(dir, "inventory.csv"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	text := strings.TrimPrefix(string(b), utf8BOM)
	if !strings.HasPrefix(text, "id,name,quantity,unit_price,reorder_threshold\n") || !strings.Contains(text, ",Paper,3,2.5,5\n") {
		t.Fatalf("inventory.csv = %q", text)
	}
	b, err = os.ReadFile(filepath.Join(dir, "party.csv"))
	if err != nil {
		t.Fatalf("read party: %v", err)
	}
	if strings.Count(strings.TrimPrefix(string(b), utf8BOM), "\n") != 1 {
		t.Fatalf("empty ledger should have only a header: %q", b)
	}
}
