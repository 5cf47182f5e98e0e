package classify

import (
	"context"
	"strings"
	"sync"
	"unicode"

	"github.com/jbrukh/bayesian"

	"github.com/tinoosan/bookkeeper/internal/ledger"
)

// Bayes is a naive Bayes fallback trained on descriptions already filed in the
// ledgers. It stays silent (unclassified) until every class has been trained.
type Bayes struct {
	mu      sync.RWMutex
	cl      *bayesian.Classifier
	learned map[ledger.Kind]int
}

// NewBayes returns an untrained classifier.
func NewBayes() *Bayes {
	b := &Bayes{}
	b.reset()
	return b
}

func (b *Bayes) reset() {
	classes := make([]bayesian.Class, 0, len(priority))
	for _, k := range priority {
		classes = append(classes, bayesian.Class(k))
	}
	b.cl = bayesian.NewClassifier(classes...)
	b.learned = make(map[ledger.Kind]int, len(priority))
}

// Learn adds one labelled document. Non-transaction kinds are ignored.
func (b *Bayes) Learn(kind ledger.Kind, text string) {
	if !kind.Transactional() {
		return
	}
	words := tokenize(text)
	if len(words) == 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cl.Learn(words, bayesian.Class(kind))
	b.learned[kind]++
}

// Train replaces the model with one learned from the descriptions in tables.
func (b *Bayes) Train(tables ledger.Tables) int {
	b.mu.Lock()
	b.reset()
	b.mu.Unlock()
	n := 0
	for _, kind := range priority {
		for _, rec := range tables[kind] {
			if d := description(rec); d != "" {
				b.Learn(kind, d)
				n++
			}
		}
	}
	return n
}

// Ready reports whether every transaction class has at least one document.
func (b *Bayes) Ready() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, k := range priority {
		if b.learned[k] == 0 {
			return false
		}
	}
	return true
}

func (b *Bayes) Classify(_ context.Context, text string) ledger.Kind {
	if !b.Ready() {
		return ledger.KindUnclassified
	}
	words := tokenize(text)
	if len(words) == 0 {
		return ledger.KindUnclassified
	}
	b.mu.RLock()
	_, idx, strict := b.cl.LogScores(words)
	b.mu.RUnlock()
	if !strict || idx < 0 || idx >= len(priority) {
		return ledger.KindUnclassified
	}
	return priority[idx]
}

func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	out := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) > 1 {
			out = append(out, f)
		}
	}
	return out
}

func description(rec ledger.Record) string {
	switch r := rec.(type) {
	case ledger.Sale:
		return r.Description
	case ledger.Purchase:
		return r.Description
	case ledger.Expense:
		return r.Description
	}
	return ""
}
