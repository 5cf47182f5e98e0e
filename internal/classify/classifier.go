// Package classify decides which ledger a free-text transaction belongs to.
package classify

import (
	"context"
	"strings"

	"github.com/tinoosan/bookkeeper/internal/dictionary"
	"github.com/tinoosan/bookkeeper/internal/ledger"
)

// Classifier maps free text to sale, purchase, expense or unclassified.
// Implementations may call out to an external model; they must not mutate ledgers.
type Classifier interface {
	Classify(ctx context.Context, text string) ledger.Kind
}

// Func adapts a plain function to Classifier.
type Func func(ctx context.Context, text string) ledger.Kind

func (f Func) Classify(ctx context.Context, text string) ledger.Kind { return f(ctx, text) }

// priority is the fixed tie-break: a text naming both a sale and a purchase is a sale.
var priority = []ledger.Kind{ledger.KindSale, ledger.KindPurchase, ledger.KindExpense}

// Keyword is a case-insensitive substring classifier over a dictionary.
type Keyword struct {
	keywords map[ledger.Kind][]string
}

// NewKeyword builds a keyword classifier; nil means dictionary.Default().
func NewKeyword(dict *dictionary.Dictionary) *Keyword {
	if dict == nil {
		dict = dictionary.Default()
	}
	k := &Keyword{keywords: make(map[ledger.Kind][]string, len(priority))}
	for _, kind := range priority {
		for _, w := range dict.Keywords(kind) {
			if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
				k.keywords[kind] = append(k.keywords[kind], w)
			}
		}
	}
	return k
}

func (k *Keyword) Classify(_ context.Context, text string) ledger.Kind {
	lower := strings.ToLower(text)
	for _, kind := range priority {
		for _, w := range k.keywords[kind] {
			if strings.Contains(lower, w) {
				return kind
			}
		}
	}
	return ledger.KindUnclassified
}

// Learner is implemented by classifiers that improve from entries filed
// during the session.
type Learner interface {
	Learn(kind ledger.Kind, text string)
}

type chain []Classifier

// Chain asks each classifier in turn and returns the first definite answer.
// The result is also a Learner that forwards to every member that learns.
func Chain(cs ...Classifier) Classifier {
	out := make(chain, 0, len(cs))
	for _, c := range cs {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}

func (c chain) Classify(ctx context.Context, text string) ledger.Kind {
	for _, cl := range c {
		if k := cl.Classify(ctx, text); k != ledger.KindUnclassified {
			return k
		}
	}
	return ledger.KindUnclassified
}

func (c chain) Learn(kind ledger.Kind, text string) {
	for _, cl := range c {
		if l, ok := cl.(Learner); ok {
			l.Learn(kind, text)
		}
	}
}
