package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/tinoosan/bookkeeper/internal/errs"
	"github.com/tinoosan/bookkeeper/internal/ledger"
)

// WorkbookName is the file WriteWorkbookFile writes into the export dir.
const WorkbookName = "ledgers.xlsx"

// sheetNames are the Arabic ledger titles used as worksheet tabs.
var sheetNames = map[ledger.Kind]string{
	ledger.KindSale:      "المبيعات",
	ledger.KindPurchase:  "المشتريات",
	ledger.KindExpense:   "المصروفات",
	ledger.KindInventory: "المخزون",
	ledger.KindParty:     "الأطراف",
}

// SheetName returns the worksheet title of kind.
func SheetName(kind ledger.Kind) string { return sheetNames[kind] }

// WriteWorkbook writes every ledger as one sheet of a single xlsx workbook,
// in ledger order, with the same columns as the CSV export.
func WriteWorkbook(w io.Writer, tables ledger.Tables) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	for i, k := range ledger.Kinds() {
		name := sheetNames[k]
		if i == 0 {
			// a new workbook starts with one default sheet
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return err
		}
		if err := writeSheet(f, name, k, tables[k]); err != nil {
			return fmt.Errorf("sheet %s: %w", k, err)
		}
	}
	f.SetActiveSheet(0)
	return f.Write(w)
}

func writeSheet(f *excelize.File, sheet string, kind ledger.Kind, recs []ledger.Record) error {
	h, err := Header(kind)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, "A1", &h); err != nil {
		return err
	}
	for i, rec := range recs {
		if rec.Kind() != kind {
			return fmt.Errorf("%s row %d holds a %s record: %w", kind, i+1, rec.Kind(), errs.ErrInvalid)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		cols := row(rec)
		if err := f.SetSheetRow(sheet, cell, &cols); err != nil {
			return err
		}
	}
	return nil
}

// WriteWorkbookFile writes the workbook to dir/WorkbookName and returns its path.
func WriteWorkbookFile(dir string, tables ledger.Tables) (path string, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path = filepath.Join(dir, WorkbookName)
	out, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()
	return path, WriteWorkbook(out, tables)
}
