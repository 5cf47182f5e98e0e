package ledger

import (
	"strings"

	"github.com/tinoosan/bookkeeper/internal/errs"
)

// Kind names one of the fixed ledger tables.
type Kind string

const (
	KindSale      Kind = "sale"
	KindPurchase  Kind = "purchase"
	KindExpense   Kind = "expense"
	KindInventory Kind = "inventory"
	KindParty     Kind = "party"
	// KindUnclassified is a classifier outcome only; no table carries it.
	KindUnclassified Kind = "unclassified"
)

var kindOrder = []Kind{KindSale, KindPurchase, KindExpense, KindInventory, KindParty}

// Kinds returns the ledger kinds in their fixed iteration order.
func Kinds() []Kind {
	out := make([]Kind, len(kindOrder))
	copy(out, kindOrder)
	return out
}

// Valid reports whether k names a ledger table.
func (k Kind) Valid() bool {
	for _, v := range kindOrder {
		if v == k {
			return true
		}
	}
	return false
}

// Transactional reports whether records of k carry an amount and a status.
func (k Kind) Transactional() bool {
	return k == KindSale || k == KindPurchase || k == KindExpense
}

// Arabic table names used by the desktop form UI.
var kindAliases = map[string]Kind{
	"sales":     KindSale,
	"purchases": KindPurchase,
	"expenses":  KindExpense,
	"parties":   KindParty,
	"people":    KindParty,
	"المبيعات":  KindSale,
	"المشتريات": KindPurchase,
	"المصروفات": KindExpense,
	"المخزون":   KindInventory,
	"الأطراف":   KindParty,
}

// ParseKind resolves a ledger kind by English name (any case, singular or plural)
// or by Arabic table name.
func ParseKind(s string) (Kind, error) {
	s = strings.TrimSpace(s)
	k := Kind(strings.ToLower(s))
	if k.Valid() {
		return k, nil
	}
	if a, ok := kindAliases[strings.ToLower(s)]; ok {
		return a, nil
	}
	return "", errs.ErrUnknownLedgerKind
}

// Status separates auto-classified entries from manually confirmed ones.
type Status string

const (
	// StatusPending marks entries classified from text and awaiting review.
	StatusPending Status = "pending"
	// StatusComplete marks entries entered or confirmed by a user.
	StatusComplete Status = "complete"
)
