package v1

import (
    "bytes"
    "errors"
    "net/http"

    "github.com/go-chi/chi/v5"
    "github.com/google/uuid"

    "github.com/tinoosan/bookkeeper/internal/errs"
    "github.com/tinoosan/bookkeeper/internal/export"
    "github.com/tinoosan/bookkeeper/internal/ledger"
    "github.com/tinoosan/bookkeeper/internal/service/report"
)

// listTables handles GET /v1/tables: every ledger, in fixed kind order.
func (s *Server) listTables(w http.ResponseWriter, r *http.Request) {
    tables, err := s.intake.Tables(r.Context())
    if err != nil { writeServiceErr(w, err); return }
    out := tablesResponse{Tables: make([]tableResponse, 0, len(ledger.Kinds()))}
    for _, k := range ledger.Kinds() {
        out.Tables = append(out.Tables, tableResponse{Kind: k, Records: toRecordList(tables[k])})
    }
    toJSON(w, http.StatusOK, out)
}

// getTable handles GET /v1/tables/{kind}.
func (s *Server) getTable(w http.ResponseWriter, r *http.Request) {
    kind := kindFrom(r)
    recs, err := s.intake.Records(r.Context(), kind)
    if err != nil { writeServiceErr(w, err); return }
    toJSON(w, http.StatusOK, tableResponse{Kind: kind, Records: toRecordList(recs)})
}

// getRecord handles GET /v1/tables/{kind}/{id}.
func (s *Server) getRecord(w http.ResponseWriter, r *http.Request) {
    id, err := uuid.Parse(chi.URLParam(r, "id"))
    if err != nil { badRequest(w, "invalid record id"); return }
    rec, err := s.intake.Record(r.Context(), kindFrom(r), id)
    if err != nil { writeServiceErr(w, err); return }
    toJSON(w, http.StatusOK, toRecordResponse(rec))
}

// getAudit handles GET /v1/audit. A clean ledger yields an empty list.
func (s *Server) getAudit(w http.ResponseWriter, r *http.Request) {
    tables, err := s.intake.Tables(r.Context())
    if err != nil { writeServiceErr(w, err); return }
    findings := s.audit.Audit(tables)
    auditFindings.Set(float64(len(findings)))
    toJSON(w, http.StatusOK, auditResponse{Findings: findings})
}

// getSummary handles GET /v1/reports/summary.
func (s *Server) getSummary(w http.ResponseWriter, r *http.Request) {
    tables, err := s.intake.Tables(r.Context())
    if err != nil { writeServiceErr(w, err); return }
    toJSON(w, http.StatusOK, toSummaryResponse(report.Summarize(tables, s.currency)))
}

// exportTable handles GET /v1/export/{kind} as a CSV download.
func (s *Server) exportTable(w http.ResponseWriter, r *http.Request) {
    kind := kindFrom(r)
    recs, err := s.intake.Records(r.Context(), kind)
    if err != nil { writeServiceErr(w, err); return }
    w.Header().Set("Content-Type", "text/csv; charset=utf-8")
    w.Header().Set("Content-Disposition", `attachment; filename="`+string(kind)+`.csv"`)
    w.WriteHeader(http.StatusOK)
    if err := export.WriteTable(w, kind, recs); err != nil {
        // headers are gone; the truncated body is all the client gets
        s.log.Error("csv export failed", "kind", kind, "err", err)
    }
}

// exportWorkbook handles GET /v1/export: every ledger as one xlsx workbook,
// a sheet per ledger. The workbook is built in memory so a failure can still
// be reported as a JSON error.
func (s *Server) exportWorkbook(w http.ResponseWriter, r *http.Request) {
    tables, err := s.intake.Tables(r.Context())
    if err != nil { writeServiceErr(w, err); return }
    var buf bytes.Buffer
    if err := export.WriteWorkbook(&buf, tables); err != nil {
        s.log.Error("xlsx export failed", "err", err)
        writeServiceErr(w, err)
        return
    }
    w.Header().Set("Content-Type", xlsxContentType)
    w.Header().Set("Content-Disposition", `attachment; filename="`+export.WorkbookName+`"`)
    w.WriteHeader(http.StatusOK)
    _, _ = buf.WriteTo(w)
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// saveSession handles POST /v1/session/save through the configured adapter.
func (s *Server) saveSession(w http.ResponseWriter, r *http.Request) {
    if s.snap == nil { writeServiceErr(w, errs.ErrNoPersistence); return }
    tables, err := s.intake.Tables(r.Context())
    if err != nil { writeServiceErr(w, err); return }
    if err := s.snap.Save(r.Context(), tables); err != nil {
        s.log.Error("session save failed", "err", err)
        status := http.StatusInternalServerError
        if errors.Is(err, r.Context().Err()) { status = http.StatusServiceUnavailable }
        writeErr(w, status, "session save failed", "persistence_failed")
        return
    }
    s.log.Info("session saved", "records", tables.Len())
    toJSON(w, http.StatusOK, saveResponse{Saved: tables.Len(), SavedAt: s.now().UTC()})
}
