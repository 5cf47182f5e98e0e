// Package report summarises ledger tables: counts, per-currency totals,
// inventory valuation and the reorder list.
package report

import (
	"sort"
	"strings"

	"github.com/govalues/decimal"
	"github.com/govalues/money"

	"github.com/tinoosan/bookkeeper/internal/ledger"
)

// Summary is a read-only view over one Tables snapshot.
type Summary struct {
	Counts map[ledger.Kind]int
	// Totals holds, per transaction kind, one amount per ISO currency.
	Totals map[ledger.Kind]map[string]money.Amount
	// Net is sales minus purchases minus expenses, per currency.
	Net      map[string]money.Amount
	Pending  int
	Complete int
	// Unpriced counts transactions whose currency is not a known ISO 4217 code.
	Unpriced int
	// Overflowed counts entries left out of Totals, Net or InventoryValue
	// because adding them would exceed decimal precision.
	Overflowed     int
	InventoryValue money.Amount
	Reorder        []string
}

// Summarize builds a Summary. Inventory unit prices are valued in
// defaultCurrency, which falls back to SAR when it is not a known code.
func Summarize(tables ledger.Tables, defaultCurrency string) Summary {
	s := Summary{
		Counts: make(map[ledger.Kind]int, len(ledger.Kinds())),
		Totals: make(map[ledger.Kind]map[string]money.Amount),
		Net:    make(map[string]money.Amount),
	}
	for _, k := range ledger.Kinds() {
		s.Counts[k] = len(tables[k])
		if k.Transactional() {
			s.Totals[k] = make(map[string]money.Amount)
		}
	}

	for _, k := range ledger.Kinds() {
		if !k.Transactional() {
			continue
		}
		for _, rec := range tables[k] {
			tx, ok := rec.(ledger.Transaction)
			if !ok {
				continue
			}
			switch tx.EntryStatus() {
			case ledger.StatusPending:
				s.Pending++
			case ledger.StatusComplete:
				s.Complete++
			}
			amt, cur := tx.Money()
			a, err := amountOf(cur, amt)
			if err != nil {
				s.Unpriced++
				continue
			}
			code := a.Curr().Code()
			signed := a
			if k != ledger.KindSale {
				signed = a.Neg()
			}
			// an entry counts in both Totals and Net or in neither
			total, err := sum(s.Totals[k], code, a)
			if err != nil {
				s.Overflowed++
				continue
			}
			net, err := sum(s.Net, code, signed)
			if err != nil {
				s.Overflowed++
				continue
			}
			s.Totals[k][code] = total
			s.Net[code] = net
		}
	}

	curr, err := money.ParseCurr(defaultCurrency)
	if err != nil {
		curr, _ = money.ParseCurr("SAR")
	}
	s.InventoryValue, _ = money.NewAmountFromMinorUnits(curr.Code(), 0)
	for _, rec := range tables[ledger.KindInventory] {
		it, ok := rec.(ledger.InventoryItem)
		if !ok {
			continue
		}
		if it.Quantity <= it.ReorderThreshold {
			s.Reorder = append(s.Reorder, it.Name)
		}
		line, err := it.UnitPrice.Mul(decimal.MustNew(it.Quantity, 0))
		if err != nil {
			s.Overflowed++
			continue
		}
		a, err := money.NewAmountFromDecimal(curr, line)
		if err != nil {
			s.Overflowed++
			continue
		}
		v, err := s.InventoryValue.Add(a)
		if err != nil {
			s.Overflowed++
			continue
		}
		s.InventoryValue = v
	}
	sort.Strings(s.Reorder)
	return s
}

// Currencies returns the currency codes that appear in Totals, sorted.
func (s Summary) Currencies() []string {
	seen := map[string]struct{}{}
	for _, byCur := range s.Totals {
		for c := range byCur {
			seen[c] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

func amountOf(cur string, amt decimal.Decimal) (money.Amount, error) {
	c, err := money.ParseCurr(strings.TrimSpace(cur))
	if err != nil {
		return money.Amount{}, err
	}
	return money.NewAmountFromDecimal(c, amt)
}

// sum returns acc[code] + a without storing it.
func sum(acc map[string]money.Amount, code string, a money.Amount) (money.Amount, error) {
	cur, ok := acc[code]
	if !ok {
		return a, nil
	}
	return cur.Add(a)
}
