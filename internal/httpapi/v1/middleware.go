package v1

import (
    "context"
    "net/http"
    "strings"

    chi "github.com/go-chi/chi/v5"

    "github.com/tinoosan/bookkeeper/internal/ledger"
    "github.com/tinoosan/bookkeeper/internal/meta"
)

type ctxKey string

const (
    ctxKeyKind      ctxKey = "validatedKind"
    ctxKeyPostEntry ctxKey = "validatedPostEntry"
    ctxKeyPostLine  ctxKey = "validatedPostLine"
    ctxKeyPreview   ctxKey = "validatedPreview"
    ctxKeyCommit    ctxKey = "validatedCommit"
)

// validatedCommit carries the resolved kind alongside the form.
type validatedCommit struct {
    Kind ledger.Kind
    Req  commitRequest
}

// validateKind resolves the {kind} URL parameter (English or Arabic table
// name). Unknown kinds are 404.
func (s *Server) validateKind(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        kind, err := ledger.ParseKind(chi.URLParam(r, "kind"))
        if err != nil {
            observeRejected(err)
            unknownKind(w)
            return
        }
        ctx := context.WithValue(r.Context(), ctxKeyKind, kind)
        next.ServeHTTP(w, r.WithContext(ctx))
    })
}

// validatePostEntry decodes the manual form and checks its size limits.
func (s *Server) validatePostEntry(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        var req postEntryRequest
        if err := decodeJSON(w, r, &req); err != nil {
            badRequest(w, "invalid JSON: "+err.Error())
            return
        }
        if len(req.Fields) == 0 {
            badRequest(w, "fields is required")
            return
        }
        if err := req.Fields.Validate(); err != nil {
            unprocessable(w, err.Error(), "validation_error")
            return
        }
        ctx := context.WithValue(r.Context(), ctxKeyPostEntry, req)
        next.ServeHTTP(w, r.WithContext(ctx))
    })
}

// validatePostLine decodes a comma-separated manual entry line.
func (s *Server) validatePostLine(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        var req postLineRequest
        if err := decodeJSON(w, r, &req); err != nil {
            badRequest(w, "invalid JSON: "+err.Error())
            return
        }
        if strings.TrimSpace(req.Line) == "" {
            badRequest(w, "line is required")
            return
        }
        ctx := context.WithValue(r.Context(), ctxKeyPostLine, req)
        next.ServeHTTP(w, r.WithContext(ctx))
    })
}

// validatePreview decodes the free-text description.
func (s *Server) validatePreview(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        var req previewRequest
        if err := decodeJSON(w, r, &req); err != nil {
            badRequest(w, "invalid JSON: "+err.Error())
            return
        }
        if strings.TrimSpace(req.Text) == "" {
            badRequest(w, "text is required")
            return
        }
        ctx := context.WithValue(r.Context(), ctxKeyPreview, req)
        next.ServeHTTP(w, r.WithContext(ctx))
    })
}

// validateCommit decodes a (possibly edited) preview. The kind "unclassified"
// is passed through so the service reports it like any other rejection.
func (s *Server) validateCommit(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        var req commitRequest
        if err := decodeJSON(w, r, &req); err != nil {
            badRequest(w, "invalid JSON: "+err.Error())
            return
        }
        if strings.TrimSpace(req.Kind) == "" {
            badRequest(w, "kind is required")
            return
        }
        kind := ledger.KindUnclassified
        if !strings.EqualFold(strings.TrimSpace(req.Kind), string(ledger.KindUnclassified)) {
            k, err := ledger.ParseKind(req.Kind)
            if err != nil {
                observeRejected(err)
                unknownKind(w)
                return
            }
            kind = k
        }
        for _, form := range []meta.Metadata{req.Fields, req.Edits} {
            if err := form.Validate(); err != nil {
                unprocessable(w, err.Error(), "validation_error")
                return
            }
        }
        req.Fields = req.Fields.Edited(req.Edits)
        ctx := context.WithValue(r.Context(), ctxKeyCommit, validatedCommit{Kind: kind, Req: req})
        next.ServeHTTP(w, r.WithContext(ctx))
    })
}

func kindFrom(r *http.Request) ledger.Kind {
    k, _ := r.Context().Value(ctxKeyKind).(ledger.Kind)
    return k
}
