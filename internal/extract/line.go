package extract

import (
	"fmt"
	"strings"

	"github.com/tinoosan/bookkeeper/internal/errs"
	"github.com/tinoosan/bookkeeper/internal/ledger"
	"github.com/tinoosan/bookkeeper/internal/meta"
)

// lineColumns lists the comma-separated column order of manual entry lines.
var lineColumns = map[ledger.Kind][]string{
	ledger.KindSale:      {meta.KeyDate, meta.KeyParty, meta.KeyAmount, meta.KeyCurrency},
	ledger.KindPurchase:  {meta.KeyDate, meta.KeyParty, meta.KeyAmount, meta.KeyCurrency},
	ledger.KindExpense:   {meta.KeyDate, meta.KeyCategory, meta.KeyAmount, meta.KeyCurrency},
	ledger.KindInventory: {meta.KeyName, meta.KeyQuantity, meta.KeyUnitPrice, meta.KeyReorder},
	ledger.KindParty:     {meta.KeyName, meta.KeyRole, meta.KeyPhone, meta.KeyEmail, meta.KeyAddress},
}

// LineToForm splits a manual entry line such as "2024-01-05, Acme, 1500, SAR"
// into a form. Both ',' and the Arabic comma '،' separate columns. Transaction
// and inventory lines need every column; party lines need at least a name.
func LineToForm(kind ledger.Kind, raw string) (meta.Metadata, error) {
	cols, ok := lineColumns[kind]
	if !ok {
		return nil, errs.ErrUnknownLedgerKind
	}
	parts := strings.Split(strings.ReplaceAll(raw, "،", ","), ",")
	need := len(cols)
	if kind == ledger.KindParty {
		need = 1
	}
	if len(parts) < need || len(parts) > len(cols) {
		return nil, errs.FieldErrors{{
			Field: "line",
			Value: strings.TrimSpace(raw),
			Msg:   fmt.Sprintf("expected %d comma-separated values, got %d", len(cols), len(parts)),
		}}
	}
	form := meta.New(nil)
	for i, p := range parts {
		form.Set(cols[i], strings.TrimSpace(p))
	}
	return form, nil
}
