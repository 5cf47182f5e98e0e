package v1

import (
	"net/http"

	"github.com/tinoosan/bookkeeper/internal/dictionary"
	"github.com/tinoosan/bookkeeper/internal/ledger"
)

// GET /v1/dictionary
// Exposes the classification vocabulary so clients can show why text was
// classified the way it was.
func (s *Server) getDictionary(w http.ResponseWriter, r *http.Request) {
	type kindItem struct {
		Kind        ledger.Kind        `json:"kind"`
		Keywords    []string           `json:"keywords"`
		Placeholder string             `json:"placeholder,omitempty"`
		Posting     dictionary.Posting `json:"posting"`
	}
	out := struct {
		Kinds      []kindItem               `json:"kinds"`
		Categories []dictionary.CategoryDef `json:"categories"`
		Currencies map[string]string        `json:"currencies"`
	}{
		Kinds:      []kindItem{},
		Categories: s.dict.Categories,
		Currencies: s.dict.Currencies,
	}
	for _, k := range ledger.Kinds() {
		if !k.Transactional() {
			continue
		}
		out.Kinds = append(out.Kinds, kindItem{Kind: k, Keywords: s.dict.Keywords(k), Placeholder: s.dict.Placeholder(k), Posting: s.dict.PostingFor(k)})
	}
	toJSON(w, http.StatusOK, out)
}
