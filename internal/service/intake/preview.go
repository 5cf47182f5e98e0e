package intake

import (
	"context"
	"time"

	"github.com/govalues/decimal"

	"github.com/tinoosan/bookkeeper/internal/errs"
	"github.com/tinoosan/bookkeeper/internal/ledger"
	"github.com/tinoosan/bookkeeper/internal/meta"
)

// ClassifiedTransaction is the preview shown before an entry is committed.
// The debit/credit labels and VAT are display-only and never stored.
type ClassifiedTransaction struct {
	Kind          ledger.Kind     `json:"kind"`
	Amount        decimal.Decimal `json:"amount"`
	AmountFound   bool            `json:"amount_found"`
	Currency      string          `json:"currency"`
	Date          time.Time       `json:"date"`
	Description   string          `json:"description"`
	Party         string          `json:"party"`
	DebitAccount  string          `json:"debit_account"`
	CreditAccount string          `json:"credit_account"`
	VAT           decimal.Decimal `json:"vat"`
	Status        ledger.Status   `json:"status"`
}

// Fields returns the editable form that Commit accepts.
func (c ClassifiedTransaction) Fields() meta.Metadata {
	form := meta.New(nil)
	form.Set(meta.KeyDate, c.Date.Format("2006-01-02"))
	form.Set(meta.KeyCurrency, c.Currency)
	form.Set(meta.KeyDescription, c.Description)
	if c.AmountFound {
		form.Set(meta.KeyAmount, c.Amount.String())
	}
	if c.Kind == ledger.KindExpense {
		form.Set(meta.KeyCategory, c.Party)
	} else {
		form.Set(meta.KeyParty, c.Party)
	}
	return form
}

func (s *service) Preview(ctx context.Context, text string) (ClassifiedTransaction, error) {
	kind := s.cls.Classify(ctx, text)
	if kind != ledger.KindUnclassified && !kind.Transactional() {
		// an external classifier answered outside the contract
		kind = ledger.KindUnclassified
	}
	if kind == ledger.KindUnclassified {
		s.rejected(kind, errs.ErrUnclassified)
		return ClassifiedTransaction{Kind: kind}, errs.ErrUnclassified
	}
	f := s.x.FromText(kind, text)
	post := s.x.Dictionary().PostingFor(kind)
	debit := post.Debit
	if kind == ledger.KindExpense && f.Party != "" {
		debit = debit + ":" + f.Party
	}
	vat, err := f.Amount.Mul(s.vat)
	if err != nil {
		vat = decimal.Zero
	}
	s.log.Debug("transaction classified", "kind", kind, "amount", f.Amount.String(), "amount_found", f.AmountFound)
	return ClassifiedTransaction{
		Kind:          kind,
		Amount:        f.Amount,
		AmountFound:   f.AmountFound,
		Currency:      f.Currency,
		Date:          f.Date,
		Description:   f.Description,
		Party:         f.Party,
		DebitAccount:  debit,
		CreditAccount: post.Credit,
		VAT:           vat.Round(2),
		Status:        ledger.StatusPending,
	}, nil
}
