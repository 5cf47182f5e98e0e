// Package audit inspects ledger tables for data-quality and business-rule
// issues. It never mutates the tables and never fails.
package audit

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/tinoosan/bookkeeper/internal/ledger"
)

// Finding codes.
const (
	CodeNonPositiveAmount = "non_positive_amount"
	CodeReorderNeeded     = "reorder_needed"
)

// Finding is one reported issue. Position is the 1-based row within Ledger.
type Finding struct {
	Code        string      `json:"code"`
	Ledger      ledger.Kind `json:"ledger"`
	Position    int         `json:"position"`
	RecordID    uuid.UUID   `json:"record_id"`
	Subject     string      `json:"subject,omitempty"`
	Value       string      `json:"value"`
	Description string      `json:"description"`
}

// Rule checks records of the kinds it applies to.
type Rule interface {
	Code() string
	Applies(kind ledger.Kind) bool
	// Check returns the finding for rec at 1-based position pos, if any.
	Check(pos int, rec ledger.Record) (Finding, bool)
}

// Engine runs an ordered rule set over ledger tables.
type Engine struct {
	rules []Rule
}

func NewEngine(rules ...Rule) *Engine {
	return &Engine{rules: append([]Rule(nil), rules...)}
}

// Default returns an engine with the built-in rules.
func Default() *Engine {
	return NewEngine(NonPositiveAmount{}, ReorderNeeded{})
}

// Audit returns every finding, ordered by ledger kind, then row, then rule.
// The result is empty, never nil, when the tables are clean.
func (e *Engine) Audit(tables ledger.Tables) []Finding {
	out := []Finding{}
	for _, kind := range ledger.Kinds() {
		var rules []Rule
		for _, r := range e.rules {
			if r.Applies(kind) {
				rules = append(rules, r)
			}
		}
		if len(rules) == 0 {
			continue
		}
		for i, rec := range tables[kind] {
			for _, r := range rules {
				if f, ok := r.Check(i+1, rec); ok {
					out = append(out, f)
				}
			}
		}
	}
	return out
}

// NonPositiveAmount flags sales, purchases and expenses whose amount is zero or
// negative.
type NonPositiveAmount struct{}

func (NonPositiveAmount) Code() string { return CodeNonPositiveAmount }

func (NonPositiveAmount) Applies(kind ledger.Kind) bool { return kind.Transactional() }

func (NonPositiveAmount) Check(pos int, rec ledger.Record) (Finding, bool) {
	tx, ok := rec.(ledger.Transaction)
	if !ok {
		return Finding{}, false
	}
	amt, cur := tx.Money()
	if amt.Sign() > 0 {
		return Finding{}, false
	}
	return Finding{
		Code:        CodeNonPositiveAmount,
		Ledger:      rec.Kind(),
		Position:    pos,
		RecordID:    rec.RecordID(),
		Subject:     tx.Counterparty(),
		Value:       amt.String(),
		Description: fmt.Sprintf("%s row %d has non-positive amount %s %s", rec.Kind(), pos, amt, cur),
	}, true
}

// ReorderNeeded flags inventory items at or below their reorder threshold.
type ReorderNeeded struct{}

func (ReorderNeeded) Code() string { return CodeReorderNeeded }

func (ReorderNeeded) Applies(kind ledger.Kind) bool { return kind == ledger.KindInventory }

func (ReorderNeeded) Check(pos int, rec ledger.Record) (Finding, bool) {
	it, ok := rec.(ledger.InventoryItem)
	if !ok || it.Quantity > it.ReorderThreshold {
		return Finding{}, false
	}
	return Finding{
		Code:        CodeReorderNeeded,
		Ledger:      ledger.KindInventory,
		Position:    pos,
		RecordID:    it.ID,
		Subject:     it.Name,
		Value:       strconv.FormatInt(it.Quantity, 10),
		Description: fmt.Sprintf("item %q needs reorder: quantity %d, threshold %d", it.Name, it.Quantity, it.ReorderThreshold),
	}, true
}
