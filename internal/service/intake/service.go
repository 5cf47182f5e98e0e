// Package intake routes classified or manually entered transactions into the
// ledger tables. It is the only component allowed to append to the store.
package intake

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/govalues/decimal"

	"github.com/tinoosan/bookkeeper/internal/classify"
	"github.com/tinoosan/bookkeeper/internal/errs"
	"github.com/tinoosan/bookkeeper/internal/events"
	"github.com/tinoosan/bookkeeper/internal/extract"
	"github.com/tinoosan/bookkeeper/internal/ledger"
	"github.com/tinoosan/bookkeeper/internal/meta"
)

// Reader defines read operations needed by the service.
type Reader interface {
	Tables(ctx context.Context) (ledger.Tables, error)
	Records(ctx context.Context, kind ledger.Kind) ([]ledger.Record, error)
}

// Writer defines write operations needed by the service.
type Writer interface {
	Append(ctx context.Context, kind ledger.Kind, rec ledger.Record) error
}

// Service is the intake pipeline: classify, extract, route, append.
type Service interface {
	// Route appends an auto-classified entry (status pending).
	Route(ctx context.Context, kind ledger.Kind, f extract.Fields) (ledger.Record, error)
	// Append records a manual form entry for any ledger kind (status complete).
	Append(ctx context.Context, kind ledger.Kind, form meta.Metadata) (ledger.Record, error)
	// AppendLine records a manual comma-separated entry (status complete).
	AppendLine(ctx context.Context, kind ledger.Kind, raw string) (ledger.Record, error)
	// Preview classifies free text and returns the proposed entry without storing it.
	Preview(ctx context.Context, text string) (ClassifiedTransaction, error)
	// Commit appends a previewed (and possibly edited) form as a pending entry.
	Commit(ctx context.Context, kind ledger.Kind, form meta.Metadata) (ledger.Record, error)
	// Tables returns a snapshot of every ledger.
	Tables(ctx context.Context) (ledger.Tables, error)
	// Records returns one ledger in insertion order.
	Records(ctx context.Context, kind ledger.Kind) ([]ledger.Record, error)
	// Record returns the entry with id from one ledger, or errs.ErrNotFound.
	Record(ctx context.Context, kind ledger.Kind, id uuid.UUID) (ledger.Record, error)
}

// Config carries the collaborators of the pipeline. Zero values get defaults
// (keyword classifier, default dictionary extractor, no-op publisher and
// slog.Default). A nil VATRate means DefaultVATRate; a zero rate disables VAT.
type Config struct {
	Classifier classify.Classifier
	Extractor  *extract.Extractor
	Publisher  events.Publisher
	Logger     *slog.Logger
	VATRate    *decimal.Decimal
	Now        func() time.Time
}

type service struct {
	repo   Reader
	writer Writer
	cls    classify.Classifier
	x      *extract.Extractor
	pub    events.Publisher
	log    *slog.Logger
	vat    decimal.Decimal
	now    func() time.Time
}

// DefaultVATRate is applied when Config.VATRate is nil.
var DefaultVATRate = decimal.MustParse("0.15")

func New(repo Reader, writer Writer, cfg Config) Service {
	s := &service{repo: repo, writer: writer, cls: cfg.Classifier, x: cfg.Extractor, pub: cfg.Publisher, log: cfg.Logger, vat: DefaultVATRate, now: cfg.Now}
	if s.now == nil {
		s.now = time.Now
	}
	if s.x == nil {
		s.x = extract.New(nil, "", s.now)
	}
	if s.cls == nil {
		s.cls = classify.NewKeyword(s.x.Dictionary())
	}
	if s.pub == nil {
		s.pub = events.Noop{}
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if cfg.VATRate != nil {
		s.vat = *cfg.VATRate
	}
	return s
}

func (s *service) Route(ctx context.Context, kind ledger.Kind, f extract.Fields) (ledger.Record, error) {
	if err := routable(kind); err != nil {
		s.rejected(kind, err)
		return nil, err
	}
	rec := buildTx(kind, f, ledger.StatusPending)
	return s.store(ctx, rec)
}

func (s *service) Append(ctx context.Context, kind ledger.Kind, form meta.Metadata) (ledger.Record, error) {
	if kind == ledger.KindUnclassified {
		s.rejected(kind, errs.ErrUnclassified)
		return nil, errs.ErrUnclassified
	}
	if !kind.Valid() {
		return nil, errs.ErrUnknownLedgerKind
	}
	if err := form.Validate(); err != nil {
		return nil, errors.Join(errs.ErrInvalid, err)
	}
	var rec ledger.Record
	switch kind {
	case ledger.KindInventory:
		it, err := s.x.ItemFromMap(form)
		if err != nil {
			return nil, err
		}
		rec = ledger.InventoryItem{ID: uuid.New(), Name: it.Name, Quantity: it.Quantity, UnitPrice: it.UnitPrice, ReorderThreshold: it.ReorderThreshold}
	case ledger.KindParty:
		c, err := s.x.ContactFromMap(form)
		if err != nil {
			return nil, err
		}
		rec = ledger.Party{ID: uuid.New(), Name: c.Name, Role: c.Role, Phone: c.Phone, Email: c.Email, Address: c.Address}
	default:
		f, err := s.x.FromMap(kind, form)
		if err != nil {
			return nil, err
		}
		rec = buildTx(kind, f, ledger.StatusComplete)
	}
	return s.store(ctx, rec)
}

func (s *service) AppendLine(ctx context.Context, kind ledger.Kind, raw string) (ledger.Record, error) {
	if kind == ledger.KindUnclassified {
		return nil, errs.ErrUnclassified
	}
	form, err := extract.LineToForm(kind, raw)
	if err != nil {
		return nil, err
	}
	return s.Append(ctx, kind, form)
}

func (s *service) Commit(ctx context.Context, kind ledger.Kind, form meta.Metadata) (ledger.Record, error) {
	if err := routable(kind); err != nil {
		s.rejected(kind, err)
		return nil, err
	}
	if err := form.Validate(); err != nil {
		return nil, errors.Join(errs.ErrInvalid, err)
	}
	f, err := s.x.FromMap(kind, form)
	if err != nil {
		return nil, err
	}
	return s.Route(ctx, kind, f)
}

func (s *service) Tables(ctx context.Context) (ledger.Tables, error) {
	return s.repo.Tables(ctx)
}

func (s *service) Records(ctx context.Context, kind ledger.Kind) ([]ledger.Record, error) {
	return s.repo.Records(ctx, kind)
}

func (s *service) Record(ctx context.Context, kind ledger.Kind, id uuid.UUID) (ledger.Record, error) {
	recs, err := s.repo.Records(ctx, kind)
	if err != nil {
		return nil, err
	}
	for _, rec := range recs {
		if rec.RecordID() == id {
			return rec, nil
		}
	}
	return nil, fmt.Errorf("%s %s: %w", kind, id, errs.ErrNotFound)
}

// store validates, appends and announces rec. Publishing is best effort.
func (s *service) store(ctx context.Context, rec ledger.Record) (ledger.Record, error) {
	if err := rec.Validate(); err != nil {
		return nil, errors.Join(errs.ErrInvalid, err)
	}
	if err := s.writer.Append(ctx, rec.Kind(), rec); err != nil {
		return nil, err
	}
	s.log.Info("entry recorded", "kind", rec.Kind(), "record_id", rec.RecordID().String())
	s.learn(rec)
	if err := s.pub.Publish(ctx, events.NewEntryRecorded(rec, s.now())); err != nil {
		s.log.Warn("event publish failed", "kind", rec.Kind(), "record_id", rec.RecordID().String(), "err", err)
	}
	return rec, nil
}

// learn feeds stored transactions back to a classifier that can use them.
func (s *service) learn(rec ledger.Record) {
	l, ok := s.cls.(classify.Learner)
	if !ok {
		return
	}
	var desc string
	switch r := rec.(type) {
	case ledger.Sale:
		desc = r.Description
	case ledger.Purchase:
		desc = r.Description
	case ledger.Expense:
		desc = r.Description
	default:
		return
	}
	if desc != "" {
		l.Learn(rec.Kind(), desc)
	}
}

func (s *service) rejected(kind ledger.Kind, err error) {
	if errors.Is(err, errs.ErrUnclassified) {
		s.log.Info("could not determine transaction type, no entry added")
		return
	}
	s.log.Debug("routing rejected", "kind", kind, "err", err)
}

// routable accepts only the auto-classifiable kinds.
func routable(kind ledger.Kind) error {
	switch {
	case kind == ledger.KindUnclassified:
		return errs.ErrUnclassified
	case kind.Transactional():
		return nil
	default:
		return errs.ErrUnknownLedgerKind
	}
}

func buildTx(kind ledger.Kind, f extract.Fields, st ledger.Status) ledger.Record {
	id := uuid.New()
	switch kind {
	case ledger.KindSale:
		return ledger.Sale{ID: id, Date: f.Date, Customer: f.Party, Amount: f.Amount, Currency: f.Currency, Description: f.Description, Status: st}
	case ledger.KindPurchase:
		return ledger.Purchase{ID: id, Date: f.Date, Supplier: f.Party, Amount: f.Amount, Currency: f.Currency, Description: f.Description, Status: st}
	default:
		return ledger.Expense{ID: id, Date: f.Date, Category: f.Party, Amount: f.Amount, Currency: f.Currency, Description: f.Description, Status: st}
	}
}
