// Package dictionary holds the curated vocabulary used to read free-text
// transactions: kind keywords, expense categories, currency aliases and the
// placeholder names used when text does not name a counter-party.
package dictionary

import (
	"fmt"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/tinoosan/bookkeeper/internal/ledger"
	"github.com/tinoosan/bookkeeper/internal/slug"
)

// CategoryDef is an expense category and the words that select it.
type CategoryDef struct {
	Code     string   `yaml:"code" json:"code"`
	Label    string   `yaml:"label" json:"label"`
	Keywords []string `yaml:"keywords" json:"keywords"`
}

// Posting names the preview-only debit/credit account labels for a kind.
type Posting struct {
	Debit  string `yaml:"debit" json:"debit"`
	Credit string `yaml:"credit" json:"credit"`
}

// Dictionary is the full vocabulary. The zero value is empty; use Default or Load.
type Dictionary struct {
	SaleKeywords     []string                `yaml:"sale_keywords"`
	PurchaseKeywords []string                `yaml:"purchase_keywords"`
	ExpenseKeywords  []string                `yaml:"expense_keywords"`
	Categories       []CategoryDef           `yaml:"categories"`
	Currencies       map[string]string       `yaml:"currencies"`
	Placeholders     map[ledger.Kind]string  `yaml:"placeholders"`
	Postings         map[ledger.Kind]Posting `yaml:"postings"`
}

// DefaultCategory is used for expenses whose text matches no category keyword.
const DefaultCategory = "general"

// Default returns the built-in Arabic/English vocabulary.
func Default() *Dictionary {
	return &Dictionary{
		SaleKeywords:     []string{"بيع", "مبيعات", "بعت", "sale", "sold", "sell"},
		PurchaseKeywords: []string{"شراء", "مشتريات", "اشتريت", "purchase", "bought", "buy"},
		ExpenseKeywords:  []string{"مصروف", "مصاريف", "دفع", "سداد", "expense", "paid", "payment"},
		Categories: []CategoryDef{
			{Code: "rent", Label: "Rent", Keywords: []string{"إيجار", "ايجار", "rent"}},
			{Code: "salaries", Label: "Salaries", Keywords: []string{"رواتب", "راتب", "salary", "salaries", "payroll"}},
			{Code: "utilities", Label: "Utilities", Keywords: []string{"كهرباء", "ماء", "مياه", "انترنت", "electricity", "water", "internet"}},
			{Code: "transport", Label: "Transport", Keywords: []string{"نقل", "وقود", "بنزين", "fuel", "transport", "taxi"}},
			{Code: "maintenance", Label: "Maintenance", Keywords: []string{"صيانة", "maintenance", "repair"}},
			{Code: DefaultCategory, Label: "General", Keywords: nil},
		},
		Currencies: map[string]string{
			"ريال": "SAR", "ر.س": "SAR", "sar": "SAR",
			"دولار": "USD", "$": "USD", "usd": "USD",
			"يورو": "EUR", "€": "EUR", "eur": "EUR",
			"جنيه": "EGP", "egp": "EGP",
			"درهم": "AED", "aed": "AED",
		},
		Placeholders: map[ledger.Kind]string{
			ledger.KindSale:     "عميل نقدي",
			ledger.KindPurchase: "مورد غير محدد",
			ledger.KindExpense:  DefaultCategory,
		},
		Postings: map[ledger.Kind]Posting{
			ledger.KindSale:     {Debit: "Cash", Credit: "Sales Revenue"},
			ledger.KindPurchase: {Debit: "Purchases", Credit: "Cash"},
			ledger.KindExpense:  {Debit: "Expenses", Credit: "Cash"},
		},
	}
}

// Load reads a YAML vocabulary file and overlays it on Default. Lists present
// in the file replace the defaults; maps are merged key by key.
func Load(path string) (*Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read keywords file: %w", err)
	}
	var file Dictionary
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	d := Default()
	if len(file.SaleKeywords) > 0 {
		d.SaleKeywords = file.SaleKeywords
	}
	if len(file.PurchaseKeywords) > 0 {
		d.PurchaseKeywords = file.PurchaseKeywords
	}
	if len(file.ExpenseKeywords) > 0 {
		d.ExpenseKeywords = file.ExpenseKeywords
	}
	if len(file.Categories) > 0 {
		d.Categories = file.Categories
	}
	for k, v := range file.Currencies {
		d.Currencies[strings.ToLower(k)] = strings.ToUpper(v)
	}
	for k, v := range file.Placeholders {
		d.Placeholders[k] = v
	}
	for k, v := range file.Postings {
		d.Postings[k] = v
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// Validate checks that every category code is a slug and that there is at least
// one keyword for sales and purchases.
func (d *Dictionary) Validate() error {
	if len(d.SaleKeywords) == 0 || len(d.PurchaseKeywords) == 0 {
		return fmt.Errorf("sale and purchase keywords are required")
	}
	for _, c := range d.Categories {
		if !slug.IsSlug(c.Code) {
			return fmt.Errorf("invalid category code %q", c.Code)
		}
	}
	return nil
}

// Keywords returns the keyword list for a transactional kind.
func (d *Dictionary) Keywords(k ledger.Kind) []string {
	switch k {
	case ledger.KindSale:
		return d.SaleKeywords
	case ledger.KindPurchase:
		return d.PurchaseKeywords
	case ledger.KindExpense:
		return d.ExpenseKeywords
	}
	return nil
}

// CategoryFor returns the first category whose keyword appears in text.
func (d *Dictionary) CategoryFor(text string) string {
	lower := strings.ToLower(text)
	for _, c := range d.Categories {
		for _, kw := range c.Keywords {
			if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
				return c.Code
			}
		}
	}
	return DefaultCategory
}

// NormalizeCategory maps free-form category input to a slug code. Labels and
// keywords of known categories resolve to that category's code.
func (d *Dictionary) NormalizeCategory(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultCategory
	}
	for _, c := range d.Categories {
		if strings.EqualFold(c.Code, s) || strings.EqualFold(c.Label, s) {
			return c.Code
		}
		for _, kw := range c.Keywords {
			if strings.EqualFold(kw, s) {
				return c.Code
			}
		}
	}
	if code := slug.Slugify(s); code != "" {
		return code
	}
	return DefaultCategory
}

// CurrencyIn returns the ISO code of the earliest currency alias found in text.
// On a tie the longer alias wins ("ر.س" over "ر").
func (d *Dictionary) CurrencyIn(text string) (string, bool) {
	lower := strings.ToLower(text)
	best, bestAlias, bestAt := "", "", -1
	for alias, code := range d.Currencies {
		i := aliasIndex(lower, strings.ToLower(alias))
		if i < 0 {
			continue
		}
		if bestAt < 0 || i < bestAt || (i == bestAt && (len(alias) > len(bestAlias) || (len(alias) == len(bestAlias) && alias < bestAlias))) {
			best, bestAlias, bestAt = code, alias, i
		}
	}
	return best, bestAt >= 0
}

// aliasIndex finds alias in text. Latin aliases ("usd", "eur") must stand as
// whole words so "necessary" does not read as SAR; Arabic and symbol aliases
// match anywhere since Arabic attaches prefixes such as "بال" to the word.
func aliasIndex(text, alias string) int {
	if alias == "" {
		return -1
	}
	if !isLatinWord(alias) {
		return strings.Index(text, alias)
	}
	for off := 0; off < len(text); {
		i := strings.Index(text[off:], alias)
		if i < 0 {
			return -1
		}
		at := off + i
		end := at + len(alias)
		before, _ := utf8.DecodeLastRuneInString(text[:at])
		after, _ := utf8.DecodeRuneInString(text[end:])
		if (at == 0 || !isWordRune(before)) && (end == len(text) || !isWordRune(after)) {
			return at
		}
		off = at + 1
	}
	return -1
}

func isLatinWord(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }

// NormalizeCurrency resolves aliases ("ريال", "$") and upper-cases ISO codes.
func (d *Dictionary) NormalizeCurrency(s string) string {
	s = strings.TrimSpace(s)
	if code, ok := d.Currencies[strings.ToLower(s)]; ok {
		return code
	}
	return strings.ToUpper(s)
}

// Placeholder returns the default counter-party for a kind.
func (d *Dictionary) Placeholder(k ledger.Kind) string {
	return d.Placeholders[k]
}

// PostingFor returns the preview account labels for a kind.
func (d *Dictionary) PostingFor(k ledger.Kind) Posting {
	return d.Postings[k]
}
