package extract

import (
	"errors"
	"testing"
	"time"

	"github.com/govalues/decimal"

	"github.com/tinoosan/bookkeeper/internal/errs"
	"github.com/tinoosan/bookkeeper/internal/ledger"
	"github.com/tinoosan/bookkeeper/internal/meta"
)

var fixedNow = func() time.Time { return time.Date(2024, 3, 9, 15, 4, 5, 0, time.UTC) }

func testExtractor() *Extractor { return New(nil, "SAR", fixedNow) }

func TestAmount(t *testing.T) {
	cases := []struct {
		in    string
		want  string
		found bool
	}{
		{"بيع بمبلغ 1500 ريال", "1500", true},
		{"paid 12.75 then 40", "12.75", true},
		{"شراء بضاعة ٢٥٠٠ ريال", "2500", true},
		{"٣٫٥ كيلو", "3.5", true},
		{"no digits at all", "0", false},
		{"", "0", false},
		{"version 1.", "1", true},
		{"invoice 12345678901234567890 sale 1500", "0", false},
	}
	for _, c := range cases {
		got, found := AmountOK(c.in)
		if found != c.found || got.Cmp(decimal.MustParse(c.want)) != 0 {
			t.Fatalf("AmountOK(%q) = %s, %v; want %s, %v", c.in, got, found, c.want, c.found)
		}
		if Amount(c.in).Cmp(got) != 0 {
			t.Fatalf("Amount and AmountOK disagree for %q", c.in)
		}
	}
}

func TestFromText(t *testing.T) {
	x := testExtractor()
	f := x.FromText(ledger.KindSale, "  بيع بمبلغ 1500 ريال ")
	if f.Amount.Cmp(decimal.MustParse("1500")) != 0 || !f.AmountFound {
		t.Fatalf("amount: %s %v", f.Amount, f.AmountFound)
	}
	if f.Currency != "SAR" || f.Party != "عميل نقدي" || f.Description != "بيع بمبلغ 1500 ريال" {
		t.Fatalf("unexpected fields: %+v", f)
	}
	if !f.Date.Equal(time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("date: %v", f.Date)
	}
	e := x.FromText(ledger.KindExpense, "paid rent 300 $")
	if e.Party != "rent" || e.Currency != "USD" {
		t.Fatalf("expense fields: %+v", e)
	}
}

func TestFromMap(t *testing.T) {
	x := testExtractor()
	f, err := x.FromMap(ledger.KindPurchase, meta.New(map[string]string{
		"date": "2024-01-05", "supplier": "Acme", "amount": "1,250.50", "currency": "usd", "description": "stock",
	}))
	if err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if f.Party != "Acme" || f.Currency != "USD" || f.Amount.Cmp(decimal.MustParse("1250.50")) != 0 {
		t.Fatalf("fields: %+v", f)
	}
	if f.Date.Format("2006-01-02") != "2024-01-05" {
		t.Fatalf("date: %v", f.Date)
	}

	// defaults
	f, err = x.FromMap(ledger.KindSale, meta.New(nil))
	if err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if f.Party != "عميل نقدي" || f.AmountFound || !f.Amount.IsZero() || f.Currency != "SAR" {
		t.Fatalf("defaults: %+v", f)
	}
	if !f.Date.Equal(x.Today()) {
		t.Fatalf("default date: %v", f.Date)
	}
}

func TestFromMapFieldErrors(t *testing.T) {
	x := testExtractor()
	_, err := x.FromMap(ledger.KindSale, meta.New(map[string]string{"date": "yesterday", "amount": "abc"}))
	if !errors.Is(err, errs.ErrFieldParse) {
		t.Fatalf("expected field parse error, got %v", err)
	}
	var fe errs.FieldErrors
	if !errors.As(err, &fe) || len(fe) != 2 {
		t.Fatalf("expected two field errors, got %v", err)
	}
	if fe[0].Field != meta.KeyDate || fe[1].Field != meta.KeyAmount {
		t.Fatalf("field order: %+v", fe)
	}
}

func TestExpenseCategoryFromForm(t *testing.T) {
	x := testExtractor()
	f, err := x.FromMap(ledger.KindExpense, meta.New(map[string]string{"category": "رواتب", "amount": "9000"}))
	if err != nil || f.Party != "salaries" {
		t.Fatalf("category: %+v %v", f, err)
	}
	f, _ = x.FromMap(ledger.KindExpense, meta.New(map[string]string{"amount": "5"}))
	if f.Party != "general" {
		t.Fatalf("default category: %q", f.Party)
	}
}

func TestItemFromMap(t *testing.T) {
	x := testExtractor()
	it, err := x.ItemFromMap(meta.New(map[string]string{"الصنف": "ورق", "الكمية": "٣", "سعر الوحدة": "2.5", "حد إعادة الطلب": "5"}))
	if err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if it.Name != "ورق" || it.Quantity != 3 || it.ReorderThreshold != 5 || it.UnitPrice.Cmp(decimal.MustParse("2.5")) != 0 {
		t.Fatalf("item: %+v", it)
	}
	_, err = x.ItemFromMap(meta.New(map[string]string{"quantity": "-1", "unit_price": "x"}))
	var fe errs.FieldErrors
	if !errors.As(err, &fe) || len(fe) != 3 {
		t.Fatalf("expected name, quantity and price errors, got %v", err)
	}
}

func TestContactFromMap(t *testing.T) {
	x := testExtractor()
	c, err := x.ContactFromMap(meta.New(map[string]string{"name": "Sara", "phone": "٠٥٥١٢٣", "email": "s@example.com"}))
	if err != nil || c.Phone != "055123" {
		t.Fatalf("contact: %+v %v", c, err)
	}
	if _, err := x.ContactFromMap(meta.New(map[string]string{"name": "x", "email": "nope"})); !errors.Is(err, errs.ErrFieldParse) {
		t.Fatalf("expected email error, got %v", err)
	}
	if _, err := x.ContactFromMap(meta.New(nil)); !errors.Is(err, errs.ErrFieldParse) {
		t.Fatalf("expected name error, got %v", err)
	}
}

func TestLineToForm(t *testing.T) {
	form, err := LineToForm(ledger.KindSale, "2024-01-05, شركة النور، 1500, SAR")
	if err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if v, _ := form.Get(meta.KeyParty); v != "شركة النور" {
		t.Fatalf("party: %q", v)
	}
	if v, _ := form.Get(meta.KeyAmount); v != "1500" {
		t.Fatalf("amount: %q", v)
	}
	form, err = LineToForm(ledger.KindInventory, "Paper, 3, 2.5, 5")
	if err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if v, _ := form.Get(meta.KeyReorder); v != "5" {
		t.Fatalf("reorder: %q", v)
	}
	if _, err := LineToForm(ledger.KindSale, "2024-01-05, only two"); !errors.Is(err, errs.ErrFieldParse) {
		t.Fatalf("expected column count error, got %v", err)
	}
	if _, err := LineToForm(ledger.KindParty, "Sara"); err != nil {
		t.Fatalf("party name only: %v", err)
	}
	if _, err := LineToForm(ledger.KindUnclassified, "x"); !errors.Is(err, errs.ErrUnknownLedgerKind) {
		t.Fatalf("expected unknown kind, got %v", err)
	}
}

func TestParseDateLayouts(t *testing.T) {
	for _, s := range []string{"2024-01-05", "2024/01/05", "05/01/2024", "٢٠٢٤-٠١-٠٥"} {
		d, err := ParseDate(s)
		if err != nil || d.Format("2006-01-02") != "2024-01-05" {
			t.Fatalf("ParseDate(%q) = %v, %v", s, d, err)
		}
	}
}
