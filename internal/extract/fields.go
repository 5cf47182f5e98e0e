package extract

import (
	"strconv"
	"strings"
	"time"

	"github.com/govalues/decimal"

	"github.com/tinoosan/bookkeeper/internal/dictionary"
	"github.com/tinoosan/bookkeeper/internal/errs"
	"github.com/tinoosan/bookkeeper/internal/ledger"
	"github.com/tinoosan/bookkeeper/internal/meta"
)

// Fields is the normalized field set of a sale, purchase or expense.
type Fields struct {
	Date        time.Time
	Party       string
	Amount      decimal.Decimal
	AmountFound bool
	Currency    string
	Description string
}

// Item is the normalized field set of an inventory line.
type Item struct {
	Name             string
	Quantity         int64
	UnitPrice        decimal.Decimal
	ReorderThreshold int64
}

// Contact is the normalized field set of a party.
type Contact struct {
	Name, Role, Phone, Email, Address string
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006/01/02",
	"02/01/2006",
	"02-01-2006",
	"2006-1-2",
}

// Extractor turns text or forms into field sets using a vocabulary, a default
// currency and a clock for the processing date.
type Extractor struct {
	dict     *dictionary.Dictionary
	currency string
	now      func() time.Time
}

// New builds an Extractor. A nil dictionary means dictionary.Default(); a nil
// clock means time.Now.
func New(dict *dictionary.Dictionary, defaultCurrency string, now func() time.Time) *Extractor {
	if dict == nil {
		dict = dictionary.Default()
	}
	if now == nil {
		now = time.Now
	}
	if defaultCurrency == "" {
		defaultCurrency = "SAR"
	}
	return &Extractor{dict: dict, currency: strings.ToUpper(defaultCurrency), now: now}
}

// Today returns the processing date truncated to midnight UTC.
func (x *Extractor) Today() time.Time {
	t := x.now().UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DefaultCurrency returns the currency used when none is given.
func (x *Extractor) DefaultCurrency() string { return x.currency }

// Dictionary exposes the vocabulary in use.
func (x *Extractor) Dictionary() *dictionary.Dictionary { return x.dict }

// FromText reads a transaction from free text. Only the amount is taken from the
// text itself (plus currency aliases and expense category words); everything
// else defaults.
func (x *Extractor) FromText(kind ledger.Kind, text string) Fields {
	text = strings.TrimSpace(text)
	amt, found := AmountOK(text)
	cur, ok := x.dict.CurrencyIn(text)
	if !ok {
		cur = x.currency
	}
	party := x.dict.Placeholder(kind)
	if kind == ledger.KindExpense {
		party = x.dict.CategoryFor(text)
	}
	return Fields{
		Date:        x.Today(),
		Party:       party,
		Amount:      amt,
		AmountFound: found,
		Currency:    cur,
		Description: text,
	}
}

// FromMap reads a transaction from a form. Missing date and party fall back to
// the processing date and the kind placeholder; a missing amount becomes zero.
// Malformed amount or date values are reported per field.
func (x *Extractor) FromMap(kind ledger.Kind, form meta.Metadata) (Fields, error) {
	var fe errs.FieldErrors
	f := Fields{
		Date:        x.Today(),
		Party:       x.dict.Placeholder(kind),
		Amount:      decimal.Zero,
		Currency:    x.currency,
		Description: form.GetOr(meta.KeyDescription, ""),
	}
	if v, ok := form.Get(meta.KeyDate); ok {
		if d, err := ParseDate(v); err == nil {
			f.Date = d
		} else {
			fe = append(fe, errs.FieldError{Field: meta.KeyDate, Value: v, Msg: "unrecognized date"})
		}
	}
	if kind == ledger.KindExpense {
		f.Party = x.dict.NormalizeCategory(form.GetOr(meta.KeyCategory, form.GetOr(meta.KeyParty, "")))
	} else if v, ok := form.Get(meta.KeyParty); ok {
		f.Party = v
	}
	if v, ok := form.Get(meta.KeyAmount); ok {
		if d, err := ParseDecimal(v); err == nil {
			f.Amount, f.AmountFound = d, true
		} else {
			fe = append(fe, errs.FieldError{Field: meta.KeyAmount, Value: v, Msg: "not a number"})
		}
	}
	if v, ok := form.Get(meta.KeyCurrency); ok {
		f.Currency = x.dict.NormalizeCurrency(v)
	}
	return f, fe.OrNil()
}

// ItemFromMap reads an inventory line from a form. Every numeric field must parse.
func (x *Extractor) ItemFromMap(form meta.Metadata) (Item, error) {
	var fe errs.FieldErrors
	it := Item{Name: form.GetOr(meta.KeyName, ""), UnitPrice: decimal.Zero}
	if it.Name == "" {
		fe = append(fe, errs.FieldError{Field: meta.KeyName, Msg: "required"})
	}
	it.Quantity = intField(form, meta.KeyQuantity, &fe)
	it.ReorderThreshold = intField(form, meta.KeyReorder, &fe)
	if v, ok := form.Get(meta.KeyUnitPrice); ok {
		if d, err := ParseDecimal(v); err == nil && d.Sign() >= 0 {
			it.UnitPrice = d
		} else {
			fe = append(fe, errs.FieldError{Field: meta.KeyUnitPrice, Value: v, Msg: "must be a non-negative number"})
		}
	}
	return it, fe.OrNil()
}

// ContactFromMap reads a party from a form.
func (x *Extractor) ContactFromMap(form meta.Metadata) (Contact, error) {
	c := Contact{
		Name:    form.GetOr(meta.KeyName, form.GetOr(meta.KeyParty, "")),
		Role:    form.GetOr(meta.KeyRole, ""),
		Phone:   NormalizeDigits(form.GetOr(meta.KeyPhone, "")),
		Email:   form.GetOr(meta.KeyEmail, ""),
		Address: form.GetOr(meta.KeyAddress, ""),
	}
	if c.Name == "" {
		return c, errs.FieldErrors{{Field: meta.KeyName, Msg: "required"}}
	}
	if c.Email != "" && !strings.Contains(c.Email, "@") {
		return c, errs.FieldErrors{{Field: meta.KeyEmail, Value: c.Email, Msg: "invalid email"}}
	}
	return c, nil
}

func intField(form meta.Metadata, key string, fe *errs.FieldErrors) int64 {
	v, ok := form.Get(key)
	if !ok {
		return 0
	}
	n, err := strconv.ParseInt(NormalizeDigits(v), 10, 64)
	if err != nil || n < 0 {
		*fe = append(*fe, errs.FieldError{Field: key, Value: v, Msg: "must be a non-negative integer"})
		return 0
	}
	return n
}

// ParseDecimal parses a form amount, accepting Arabic digits and thousands commas.
func ParseDecimal(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(NormalizeDigits(strings.TrimSpace(s)), ",", "")
	s = strings.ReplaceAll(s, "٬", "")
	return decimal.Parse(s)
}

// ParseDate accepts ISO dates plus the slash/dash day-first forms used on paper.
func ParseDate(s string) (time.Time, error) {
	s = NormalizeDigits(strings.TrimSpace(s))
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
