package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/govalues/decimal"

	"github.com/tinoosan/bookkeeper/internal/errs"
	"github.com/tinoosan/bookkeeper/internal/ledger"
)

func sale(n int) ledger.Sale {
	return ledger.Sale{ID: uuid.New(), Customer: fmt.Sprintf("c%d", n), Amount: decimal.MustNew(int64(n), 0), Currency: "SAR", Status: ledger.StatusComplete}
}

func TestAppendPreservesOrder(t *testing.T) {
	s := New()
	ctx := context.Background()
	want := make([]ledger.Sale, 0, 5)
	for i := 1; i <= 5; i++ {
		r := sale(i)
		want = append(want, r)
		if err := s.Append(ctx, ledger.KindSale, r); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	i := 0
	for r := range s.All(ledger.KindSale) {
		if r.(ledger.Sale).ID != want[i].ID {
			t.Fatalf("record %d out of order", i)
		}
		i++
	}
	if i != 5 || s.Len(ledger.KindSale) != 5 {
		t.Fatalf("got %d records", i)
	}
	// restartable
	n := 0
	for range s.All(ledger.KindSale) {
		n++
	}
	if n != 5 {
		t.Fatalf("second iteration yielded %d", n)
	}
}

func TestAppendDuplicatesAllowed(t *testing.T) {
	s := New()
	r := sale(1)
	_ = s.Append(context.Background(), ledger.KindSale, r)
	_ = s.Append(context.Background(), ledger.KindSale, r)
	if s.Len(ledger.KindSale) != 2 {
		t.Fatalf("duplicates must be kept")
	}
}

func TestAppendRejectsUnknownAndMismatchedKinds(t *testing.T) {
	s := New()
	ctx := context.Background()
	if err := s.Append(ctx, ledger.Kind("assets"), sale(1)); !errors.Is(err, errs.ErrUnknownLedgerKind) {
		t.Fatalf("expected unknown kind, got %v", err)
	}
	if err := s.Append(ctx, ledger.KindUnclassified, sale(1)); !errors.Is(err, errs.ErrUnknownLedgerKind) {
		t.Fatalf("expected unknown kind, got %v", err)
	}
	if err := s.Append(ctx, ledger.KindPurchase, sale(1)); !errors.Is(err, errs.ErrInvalid) {
		t.Fatalf("expected invalid, got %v", err)
	}
	tables, _ := s.Tables(ctx)
	if tables.Len() != 0 {
		t.Fatalf("failed appends must not store anything")
	}
}

func TestAllUnknownKindIsEmpty(t *testing.T) {
	s := New()
	for range s.All(ledger.Kind("nope")) {
		t.Fatalf("unknown kind must yield nothing")
	}
	recs, err := s.Records(context.Background(), ledger.Kind("nope"))
	if err != nil || len(recs) != 0 {
		t.Fatalf("records: %v %v", recs, err)
	}
}

func TestSnapshotIsolation(t *testing.T) {
	s := New()
	ctx := context.Background()
	_ = s.Append(ctx, ledger.KindSale, sale(1))
	snap, _ := s.Tables(ctx)
	_ = s.Append(ctx, ledger.KindSale, sale(2))
	if len(snap[ledger.KindSale]) != 1 {
		t.Fatalf("snapshot changed after append")
	}
	for _, k := range ledger.Kinds() {
		if _, ok := snap[k]; !ok {
			t.Fatalf("snapshot missing table %s", k)
		}
	}
}

func TestRestore(t *testing.T) {
	s := New()
	ctx := context.Background()
	_ = s.Append(ctx, ledger.KindSale, sale(9))
	in := ledger.Tables{ledger.KindParty: {ledger.Party{ID: uuid.New(), Name: "Sara"}}}
	if err := s.Restore(in); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if s.Len(ledger.KindSale) != 0 || s.Len(ledger.KindParty) != 1 {
		t.Fatalf("restore did not replace contents")
	}
	bad := ledger.Tables{ledger.KindSale: {ledger.Party{Name: "x"}}}
	if err := s.Restore(bad); !errors.Is(err, errs.ErrInvalid) {
		t.Fatalf("expected invalid, got %v", err)
	}
}

func TestConcurrentAppends(t *testing.T) {
	s := New()
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = s.Append(ctx, ledger.KindSale, sale(i))
			_, _ = s.Tables(ctx)
		}(i)
	}
	wg.Wait()
	if s.Len(ledger.KindSale) != 50 {
		t.Fatalf("lost appends: %d", s.Len(ledger.KindSale))
	}
}
