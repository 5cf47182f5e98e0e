package v1

import (
    "net/http"

    "github.com/tinoosan/bookkeeper/internal/ledger"
)

// postEntry handles POST /v1/entries/{kind}: a manual form entry, stored complete.
func (s *Server) postEntry(w http.ResponseWriter, r *http.Request) {
    req, _ := r.Context().Value(ctxKeyPostEntry).(postEntryRequest)
    rec, err := s.intake.Append(r.Context(), kindFrom(r), req.Fields)
    s.respondRecorded(w, r, rec, err)
}

// postEntryLine handles POST /v1/entries/{kind}/line: "date, party, amount, currency".
func (s *Server) postEntryLine(w http.ResponseWriter, r *http.Request) {
    req, _ := r.Context().Value(ctxKeyPostLine).(postLineRequest)
    rec, err := s.intake.AppendLine(r.Context(), kindFrom(r), req.Line)
    s.respondRecorded(w, r, rec, err)
}

// previewTransaction handles POST /v1/transactions/preview. Nothing is stored.
func (s *Server) previewTransaction(w http.ResponseWriter, r *http.Request) {
    req, _ := r.Context().Value(ctxKeyPreview).(previewRequest)
    pv, err := s.intake.Preview(r.Context(), req.Text)
    if err != nil {
        observeRejected(err)
        writeServiceErr(w, err)
        return
    }
    toJSON(w, http.StatusOK, toPreviewResponse(pv))
}

// commitTransaction handles POST /v1/transactions/commit, storing the entry as pending.
func (s *Server) commitTransaction(w http.ResponseWriter, r *http.Request) {
    vc, _ := r.Context().Value(ctxKeyCommit).(validatedCommit)
    rec, err := s.intake.Commit(r.Context(), vc.Kind, vc.Req.Fields)
    s.respondRecorded(w, r, rec, err)
}

func (s *Server) respondRecorded(w http.ResponseWriter, r *http.Request, rec ledger.Record, err error) {
    if err != nil {
        observeRejected(err)
        if rejectionReason(err) == "other" {
            s.log.Error("append failed", "err", err)
        }
        writeServiceErr(w, err)
        return
    }
    observeRecorded(rec)
    toJSON(w, http.StatusCreated, toRecordResponse(rec))
}
