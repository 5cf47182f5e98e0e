// Package export writes ledger tables as CSV, one file per ledger, or as a
// single xlsx workbook with one sheet per ledger.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/tinoosan/bookkeeper/internal/errs"
	"github.com/tinoosan/bookkeeper/internal/ledger"
)

// utf8BOM lets spreadsheet tools detect UTF-8 (Arabic text) in exported files.
const utf8BOM = "\uFEFF"

var headers = map[ledger.Kind][]string{
	ledger.KindSale:      {"id", "date", "customer", "amount", "currency", "description", "status"},
	ledger.KindPurchase:  {"id", "date", "supplier", "amount", "currency", "description", "status"},
	ledger.KindExpense:   {"id", "date", "category", "amount", "currency", "description", "status"},
	ledger.KindInventory: {"id", "name", "quantity", "unit_price", "reorder_threshold"},
	ledger.KindParty:     {"id", "name", "role", "phone", "email", "address"},
}

// Header returns the CSV column names of kind.
func Header(kind ledger.Kind) ([]string, error) {
	h, ok := headers[kind]
	if !ok {
		return nil, errs.ErrUnknownLedgerKind
	}
	return append([]string(nil), h...), nil
}

// WriteTable writes one ledger, header first, rows in insertion order.
func WriteTable(w io.Writer, kind ledger.Kind, recs []ledger.Record) error {
	h, err := Header(kind)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(h); err != nil {
		return err
	}
	for i, rec := range recs {
		if rec.Kind() != kind {
			return fmt.Errorf("%s row %d holds a %s record: %w", kind, i+1, rec.Kind(), errs.ErrInvalid)
		}
		if err := cw.Write(row(rec)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteAll writes every ledger to dir as <kind>.csv and returns the paths
// written, in ledger order.
func WriteAll(dir string, tables ledger.Tables) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(ledger.Kinds()))
	for _, k := range ledger.Kinds() {
		p := filepath.Join(dir, string(k)+".csv")
		if err := writeFile(p, k, tables[k]); err != nil {
			return paths, fmt.Errorf("export %s: %w", k, err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}

func writeFile(path string, kind ledger.Kind, recs []ledger.Record) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	if _, err = io.WriteString(f, utf8BOM); err != nil {
		return err
	}
	return WriteTable(f, kind, recs)
}

func row(rec ledger.Record) []string {
	id := rec.RecordID().String()
	switch r := rec.(type) {
	case ledger.Sale:
		return []string{id, day(r.Date), r.Customer, r.Amount.String(), r.Currency, r.Description, string(r.Status)}
	case ledger.Purchase:
		return []string{id, day(r.Date), r.Supplier, r.Amount.String(), r.Currency, r.Description, string(r.Status)}
	case ledger.Expense:
		return []string{id, day(r.Date), r.Category, r.Amount.String(), r.Currency, r.Description, string(r.Status)}
	case ledger.InventoryItem:
		return []string{id, r.Name, strconv.FormatInt(r.Quantity, 10), r.UnitPrice.String(), strconv.FormatInt(r.ReorderThreshold, 10)}
	case ledger.Party:
		return []string{id, r.Name, r.Role, r.Phone, r.Email, r.Address}
	}
	return []string{id}
}

func day(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
