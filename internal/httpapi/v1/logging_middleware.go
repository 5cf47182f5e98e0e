package v1

import (
    "net/http"
    "runtime/debug"
    "time"

    chi "github.com/go-chi/chi/v5"
    chimw "github.com/go-chi/chi/v5/middleware"
    "log/slog"
)

// requestLogger logs request start and completion at INFO, tagged with the
// chi request id. The id is echoed in X-Request-Id for client correlation.
// Completion lines carry the matched route and, for ledger routes, the kind.
func requestLogger(l *slog.Logger) func(next http.Handler) http.Handler {
    return func(next http.Handler) http.Handler {
        return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
            ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
            start := time.Now()

            reqID := chimw.GetReqID(r.Context())
            if reqID != "" { ww.Header().Set("X-Request-Id", reqID) }
            l.Info("request started", "req_id", reqID, "method", r.Method, "path", r.URL.Path)

            next.ServeHTTP(ww, r)

            lvl := slog.LevelInfo
            if ww.Status() >= 500 { lvl = slog.LevelError }
            attrs := []any{"req_id", reqID, "route", routePattern(r), "status", ww.Status()}
            if rc := chi.RouteContext(r.Context()); rc != nil {
                if kind := rc.URLParam("kind"); kind != "" { attrs = append(attrs, "kind", kind) }
            }
            if r.Header.Get("Idempotency-Key") != "" { attrs = append(attrs, "idempotent", true) }
            l.Log(r.Context(), lvl, "request complete", append(attrs,
                "bytes", ww.BytesWritten(),
                "duration", time.Since(start).String(),
            )...)
        })
    }
}

// recoverer logs panics as ERROR and returns a JSON 500.
func recoverer(l *slog.Logger) func(next http.Handler) http.Handler {
    return func(next http.Handler) http.Handler {
        return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
            defer func() {
                if rec := recover(); rec != nil {
                    if rec == http.ErrAbortHandler { panic(rec) }
                    reqID := chimw.GetReqID(r.Context())
                    l.Error("panic", "req_id", reqID, "err", rec, "stack", string(debug.Stack()))
                    writeErr(w, http.StatusInternalServerError, "internal error", "internal")
                }
            }()
            next.ServeHTTP(w, r)
        })
    }
}
