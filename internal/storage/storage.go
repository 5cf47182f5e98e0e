// Package storage defines the session persistence contract and the row codec
// shared by the SQL adapters. Records live in the memory store during a
// session; adapters load them at startup and save them at shutdown.
package storage

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/govalues/decimal"

	"github.com/tinoosan/bookkeeper/internal/ledger"
	"github.com/tinoosan/bookkeeper/internal/meta"
)

// Snapshotter persists whole ledger snapshots.
type Snapshotter interface {
	Load(ctx context.Context) (ledger.Tables, error)
	// Save replaces the persisted snapshot atomically.
	Save(ctx context.Context, tables ledger.Tables) error
}

// Row is one persisted record. Position is the 0-based insertion index
// within its ledger; Payload is the record's stable JSON field map.
type Row struct {
	Kind     ledger.Kind
	Position int
	ID       uuid.UUID
	Payload  []byte
}

const (
	keyID     = "id"
	keyStatus = "status"
)

// Rows encodes tables in kind order, then insertion order.
func Rows(tables ledger.Tables) ([]Row, error) {
	out := make([]Row, 0, tables.Len())
	for _, k := range ledger.Kinds() {
		for i, rec := range tables[k] {
			b, err := Encode(rec).MarshalStableJSON()
			if err != nil {
				return nil, fmt.Errorf("encode %s[%d]: %w", k, i, err)
			}
			out = append(out, Row{Kind: k, Position: i, ID: rec.RecordID(), Payload: b})
		}
	}
	return out, nil
}

// FromRows decodes rows already sorted by kind and position.
func FromRows(rows []Row) (ledger.Tables, error) {
	out := ledger.Tables{}
	for _, r := range rows {
		var m meta.Metadata
		if err := m.UnmarshalJSON(r.Payload); err != nil {
			return nil, fmt.Errorf("decode %s[%d]: %w", r.Kind, r.Position, err)
		}
		rec, err := Decode(r.Kind, r.ID, m)
		if err != nil {
			return nil, fmt.Errorf("decode %s[%d]: %w", r.Kind, r.Position, err)
		}
		out[r.Kind] = append(out[r.Kind], rec)
	}
	return out, nil
}

// Encode flattens rec into a field map. Values bypass the form size limits.
func Encode(rec ledger.Record) meta.Metadata {
	m := meta.Metadata{}
	m[keyID] = rec.RecordID().String()
	switch r := rec.(type) {
	case ledger.Sale:
		encodeTx(m, r.Date, r.Customer, r.Amount, r.Currency, r.Description, r.Status)
	case ledger.Purchase:
		encodeTx(m, r.Date, r.Supplier, r.Amount, r.Currency, r.Description, r.Status)
	case ledger.Expense:
		encodeTx(m, r.Date, r.Category, r.Amount, r.Currency, r.Description, r.Status)
	case ledger.InventoryItem:
		m[meta.KeyName] = r.Name
		m[meta.KeyQuantity] = strconv.FormatInt(r.Quantity, 10)
		m[meta.KeyUnitPrice] = r.UnitPrice.String()
		m[meta.KeyReorder] = strconv.FormatInt(r.ReorderThreshold, 10)
	case ledger.Party:
		m[meta.KeyName] = r.Name
		m[meta.KeyRole] = r.Role
		m[meta.KeyPhone] = r.Phone
		m[meta.KeyEmail] = r.Email
		m[meta.KeyAddress] = r.Address
	}
	return m
}

func encodeTx(m meta.Metadata, date time.Time, party string, amt decimal.Decimal, cur, desc string, st ledger.Status) {
	m[meta.KeyDate] = date.UTC().Format(time.RFC3339)
	m[meta.KeyParty] = party
	m[meta.KeyAmount] = amt.String()
	m[meta.KeyCurrency] = cur
	m[meta.KeyDescription] = desc
	m[keyStatus] = string(st)
}

// Decode rebuilds a record of kind from its field map.
func Decode(kind ledger.Kind, id uuid.UUID, m meta.Metadata) (ledger.Record, error) {
	var d decoder
	var rec ledger.Record
	switch kind {
	case ledger.KindSale:
		rec = ledger.Sale{ID: id, Date: d.date(m), Customer: m.GetOr(meta.KeyParty, ""), Amount: d.dec(m, meta.KeyAmount), Currency: m.GetOr(meta.KeyCurrency, ""), Description: m.GetOr(meta.KeyDescription, ""), Status: ledger.Status(m.GetOr(keyStatus, ""))}
	case ledger.KindPurchase:
		rec = ledger.Purchase{ID: id, Date: d.date(m), Supplier: m.GetOr(meta.KeyParty, ""), Amount: d.dec(m, meta.KeyAmount), Currency: m.GetOr(meta.KeyCurrency, ""), Description: m.GetOr(meta.KeyDescription, ""), Status: ledger.Status(m.GetOr(keyStatus, ""))}
	case ledger.KindExpense:
		rec = ledger.Expense{ID: id, Date: d.date(m), Category: m.GetOr(meta.KeyParty, ""), Amount: d.dec(m, meta.KeyAmount), Currency: m.GetOr(meta.KeyCurrency, ""), Description: m.GetOr(meta.KeyDescription, ""), Status: ledger.Status(m.GetOr(keyStatus, ""))}
	case ledger.KindInventory:
		rec = ledger.InventoryItem{ID: id, Name: m.GetOr(meta.KeyName, ""), Quantity: d.int(m, meta.KeyQuantity), UnitPrice: d.dec(m, meta.KeyUnitPrice), ReorderThreshold: d.int(m, meta.KeyReorder)}
	case ledger.KindParty:
		rec = ledger.Party{ID: id, Name: m.GetOr(meta.KeyName, ""), Role: m.GetOr(meta.KeyRole, ""), Phone: m.GetOr(meta.KeyPhone, ""), Email: m.GetOr(meta.KeyEmail, ""), Address: m.GetOr(meta.KeyAddress, "")}
	default:
		return nil, fmt.Errorf("kind %q: unknown ledger kind", kind)
	}
	if d.err != nil {
		return nil, d.err
	}
	return rec, nil
}

// decoder keeps the first parse error.
type decoder struct{ err error }

func (d *decoder) date(m meta.Metadata) time.Time {
	v, ok := m.Get(meta.KeyDate)
	if !ok {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil && d.err == nil {
		d.err = fmt.Errorf("date %q: %w", v, err)
	}
	return t.UTC()
}

func (d *decoder) dec(m meta.Metadata, key string) decimal.Decimal {
	v, ok := m.Get(key)
	if !ok {
		return decimal.Zero
	}
	x, err := decimal.Parse(v)
	if err != nil && d.err == nil {
		d.err = fmt.Errorf("%s %q: %w", key, v, err)
	}
	return x
}

func (d *decoder) int(m meta.Metadata, key string) int64 {
	v, ok := m.Get(key)
	if !ok {
		return 0
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil && d.err == nil {
		d.err = fmt.Errorf("%s %q: %w", key, v, err)
	}
	return n
}
