package classify

import (
	"context"
	"testing"

	"github.com/tinoosan/bookkeeper/internal/ledger"
)

func TestKeywordClassify(t *testing.T) {
	c := NewKeyword(nil)
	ctx := context.Background()
	cases := []struct {
		text string
		want ledger.Kind
	}{
		{"بيع بمبلغ 1500 ريال", ledger.KindSale},
		{"Sold 3 chairs for 90", ledger.KindSale},
		{"شراء بضاعة من المورد 2500", ledger.KindPurchase},
		{"bought printer ink", ledger.KindPurchase},
		{"دفع فاتورة الكهرباء 300", ledger.KindExpense},
		{"PAID rent", ledger.KindExpense},
		{"hello world 42", ledger.KindUnclassified},
		{"", ledger.KindUnclassified},
	}
	for _, tc := range cases {
		if got := c.Classify(ctx, tc.text); got != tc.want {
			t.Fatalf("Classify(%q) = %s, want %s", tc.text, got, tc.want)
		}
	}
}

func TestKeywordSaleWinsOverPurchase(t *testing.T) {
	c := NewKeyword(nil)
	for _, text := range []string{
		"شراء بضاعة ثم بيع جزء منها",
		"bought stock and sold half",
		"purchase return, sale credited",
	} {
		if got := c.Classify(context.Background(), text); got != ledger.KindSale {
			t.Fatalf("Classify(%q) = %s, want sale", text, got)
		}
	}
}

func TestChain(t *testing.T) {
	never := Func(func(context.Context, string) ledger.Kind { return ledger.KindUnclassified })
	always := Func(func(context.Context, string) ledger.Kind { return ledger.KindExpense })
	ctx := context.Background()
	if got := Chain(never, nil, always).Classify(ctx, "x"); got != ledger.KindExpense {
		t.Fatalf("chain fallback = %s", got)
	}
	if got := Chain(NewKeyword(nil), always).Classify(ctx, "sale 5"); got != ledger.KindSale {
		t.Fatalf("chain primary = %s", got)
	}
	if got := Chain(never).Classify(ctx, "x"); got != ledger.KindUnclassified {
		t.Fatalf("chain none = %s", got)
	}
}

func TestBayesUntrainedIsSilent(t *testing.T) {
	b := NewBayes()
	if b.Ready() {
		t.Fatalf("fresh model must not be ready")
	}
	b.Learn(ledger.KindSale, "customer invoice widgets")
	if got := b.Classify(context.Background(), "customer invoice"); got != ledger.KindUnclassified {
		t.Fatalf("partially trained model answered %s", got)
	}
}

func TestBayesTrainFromTables(t *testing.T) {
	tables := ledger.Tables{
		ledger.KindSale: {
			ledger.Sale{Description: "customer invoice widgets delivered"},
			ledger.Sale{Description: "customer invoice gadgets delivered"},
		},
		ledger.KindPurchase: {
			ledger.Purchase{Description: "supplier restock raw material"},
			ledger.Purchase{Description: "supplier restock packaging material"},
		},
		ledger.KindExpense: {
			ledger.Expense{Description: "office electricity bill"},
			ledger.Expense{Description: "office water bill"},
		},
		ledger.KindParty: {ledger.Party{Name: "ignored"}},
	}
	b := NewBayes()
	if n := b.Train(tables); n != 6 {
		t.Fatalf("trained on %d documents, want 6", n)
	}
	ctx := context.Background()
	if got := b.Classify(ctx, "customer invoice delivered"); got != ledger.KindSale {
		t.Fatalf("sale-like text = %s", got)
	}
	if got := b.Classify(ctx, "supplier restock material"); got != ledger.KindPurchase {
		t.Fatalf("purchase-like text = %s", got)
	}
	if got := b.Classify(ctx, "12345"); got != ledger.KindUnclassified {
		t.Fatalf("no-word text = %s", got)
	}
}

func TestChainForwardsLearning(t *testing.T) {
	b := NewBayes()
	c := Chain(NewKeyword(nil), b)
	l, ok := c.(Learner)
	if !ok {
		t.Fatalf("chain should be a Learner")
	}
	l.Learn(ledger.KindSale, "customer invoice widgets")
	l.Learn(ledger.KindPurchase, "supplier restock material")
	l.Learn(ledger.KindExpense, "office electricity bill")
	if !b.Ready() {
		t.Fatalf("bayes should be ready after learning every class")
	}
	if got := c.Classify(context.Background(), "widgets invoice customer 40"); got != ledger.KindSale {
		t.Fatalf("learned text = %s, want sale", got)
	}
}
