package ledger

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/govalues/decimal"
)

// Record is one row of a ledger table. Each table holds exactly one variant.
type Record interface {
	Kind() Kind
	RecordID() uuid.UUID
	Validate() error
}

// Transaction is implemented by the amount-bearing variants (sale, purchase, expense).
type Transaction interface {
	Record
	Money() (decimal.Decimal, string)
	EntryStatus() Status
	// Counterparty returns the customer, supplier or expense category.
	Counterparty() string
}

// Sale records revenue from a customer.
type Sale struct {
	ID          uuid.UUID
	Date        time.Time
	Customer    string
	Amount      decimal.Decimal
	Currency    string
	Description string
	Status      Status
}

// Purchase records goods bought from a supplier.
type Purchase struct {
	ID          uuid.UUID
	Date        time.Time
	Supplier    string
	Amount      decimal.Decimal
	Currency    string
	Description string
	Status      Status
}

// Expense records an operating cost under a category.
type Expense struct {
	ID          uuid.UUID
	Date        time.Time
	Category    string
	Amount      decimal.Decimal
	Currency    string
	Description string
	Status      Status
}

// InventoryItem is a stock line with its reorder threshold.
type InventoryItem struct {
	ID               uuid.UUID
	Name             string
	Quantity         int64
	UnitPrice        decimal.Decimal
	ReorderThreshold int64
}

// Party is a customer, supplier or other contact.
type Party struct {
	ID      uuid.UUID
	Name    string
	Role    string
	Phone   string
	Email   string
	Address string
}

func (Sale) Kind() Kind          { return KindSale }
func (Purchase) Kind() Kind      { return KindPurchase }
func (Expense) Kind() Kind       { return KindExpense }
func (InventoryItem) Kind() Kind { return KindInventory }
func (Party) Kind() Kind         { return KindParty }

func (s Sale) RecordID() uuid.UUID          { return s.ID }
func (p Purchase) RecordID() uuid.UUID      { return p.ID }
func (e Expense) RecordID() uuid.UUID       { return e.ID }
func (i InventoryItem) RecordID() uuid.UUID { return i.ID }
func (p Party) RecordID() uuid.UUID         { return p.ID }

func (s Sale) Money() (decimal.Decimal, string)     { return s.Amount, s.Currency }
func (p Purchase) Money() (decimal.Decimal, string) { return p.Amount, p.Currency }
func (e Expense) Money() (decimal.Decimal, string)  { return e.Amount, e.Currency }

func (s Sale) EntryStatus() Status     { return s.Status }
func (p Purchase) EntryStatus() Status { return p.Status }
func (e Expense) EntryStatus() Status  { return e.Status }

func (s Sale) Counterparty() string     { return s.Customer }
func (p Purchase) Counterparty() string { return p.Supplier }
func (e Expense) Counterparty() string  { return e.Category }

// Amounts may be zero or negative here; the audit engine reports those.
func (s Sale) Validate() error     { return validateTx(s.Currency, s.Status) }
func (p Purchase) Validate() error { return validateTx(p.Currency, p.Status) }
func (e Expense) Validate() error {
	if strings.TrimSpace(e.Category) == "" {
		return errors.New("category is required")
	}
	return validateTx(e.Currency, e.Status)
}

func (i InventoryItem) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return errors.New("item name is required")
	}
	if i.Quantity < 0 {
		return errors.New("quantity must be >= 0")
	}
	if i.UnitPrice.Sign() < 0 {
		return errors.New("unit price must be >= 0")
	}
	if i.ReorderThreshold < 0 {
		return errors.New("reorder threshold must be >= 0")
	}
	return nil
}

func (p Party) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("name is required")
	}
	return nil
}

func validateTx(currency string, st Status) error {
	if currency == "" {
		return errors.New("currency is required")
	}
	switch st {
	case StatusPending, StatusComplete:
		return nil
	default:
		return errors.New("status must be pending or complete")
	}
}

// Tables maps each ledger kind to its records in insertion order.
type Tables map[Kind][]Record

// Len returns the total number of records across all tables.
func (t Tables) Len() int {
	n := 0
	for _, recs := range t {
		n += len(recs)
	}
	return n
}

// Clone copies the table slices. Records are value types, so this is a full copy.
func (t Tables) Clone() Tables {
	out := make(Tables, len(t))
	for k, recs := range t {
		cp := make([]Record, len(recs))
		copy(cp, recs)
		out[k] = cp
	}
	return out
}
