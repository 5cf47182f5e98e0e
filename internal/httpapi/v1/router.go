// Package v1 wires the HTTP surface of the bookkeeper service.
// It keeps handlers thin, delegating business rules to the service layer.
package v1

import (
    "net/http"
    "strings"
    "time"

    chi "github.com/go-chi/chi/v5"
    chimw "github.com/go-chi/chi/v5/middleware"
    "github.com/patrickmn/go-cache"
    "log/slog"

    "github.com/tinoosan/bookkeeper/internal/dictionary"
    "github.com/tinoosan/bookkeeper/internal/service/audit"
    "github.com/tinoosan/bookkeeper/internal/service/intake"
    "github.com/tinoosan/bookkeeper/internal/storage"
)

// Deps are the collaborators the HTTP layer delegates to. Snapshot is
// optional; without it /v1/session/save answers 503.
type Deps struct {
    Intake          intake.Service
    Audit           *audit.Engine
    Dictionary      *dictionary.Dictionary
    Snapshot        storage.Snapshotter
    DefaultCurrency string
    Auth            AuthConfig
}

// Server wires handlers and middleware using Chi.
type Server struct {
    intake   intake.Service
    audit    *audit.Engine
    dict     *dictionary.Dictionary
    snap     storage.Snapshotter
    currency string
    idem     *cache.Cache
    now      func() time.Time
    log      *slog.Logger
    rt       *chi.Mux
}

// New constructs the HTTP server with routes and middleware.
// The logger is used by request logging and panic recovery.
func New(d Deps, logger *slog.Logger) *Server {
    if logger == nil { logger = slog.Default() }
    if d.Audit == nil { d.Audit = audit.Default() }
    if d.Dictionary == nil { d.Dictionary = dictionary.Default() }
    if d.DefaultCurrency == "" { d.DefaultCurrency = "SAR" }

    r := chi.NewRouter()
    r.Use(chimw.RequestID)
    r.Use(requestLogger(logger))
    r.Use(recoverer(logger))
    r.Use(metricsMiddleware)
    if auth := authJWT(d.Auth); auth != nil { r.Use(auth) }

    s := &Server{
        intake:   d.Intake,
        audit:    d.Audit,
        dict:     d.Dictionary,
        snap:     d.Snapshot,
        currency: strings.ToUpper(d.DefaultCurrency),
        idem:     newIdemCache(),
        now:      time.Now,
        log:      logger,
        rt:       r,
    }
    s.routes()
    return s
}

// Handler exposes the configured http.Handler.
func (s *Server) Handler() http.Handler { return s.rt }

// routes declares the public HTTP API endpoints and attaches any per-route middleware.
func (s *Server) routes() {
    // Manual entry (complete)
    s.rt.With(requireJSON, s.validateKind, s.idempotent, s.validatePostEntry).Post("/v1/entries/{kind}", s.postEntry)
    s.rt.With(requireJSON, s.validateKind, s.idempotent, s.validatePostLine).Post("/v1/entries/{kind}/line", s.postEntryLine)
    // Free-text intake (pending)
    s.rt.With(requireJSON, s.validatePreview).Post("/v1/transactions/preview", s.previewTransaction)
    s.rt.With(requireJSON, s.idempotent, s.validateCommit).Post("/v1/transactions/commit", s.commitTransaction)
    // Read side
    s.rt.Get("/v1/tables", s.listTables)
    s.rt.With(s.validateKind).Get("/v1/tables/{kind}", s.getTable)
    s.rt.With(s.validateKind).Get("/v1/tables/{kind}/{id}", s.getRecord)
    s.rt.Get("/v1/audit", s.getAudit)
    s.rt.Get("/v1/reports/summary", s.getSummary)
    s.rt.Get("/v1/export", s.exportWorkbook)
    s.rt.With(s.validateKind).Get("/v1/export/{kind}", s.exportTable)
    s.rt.Get("/v1/dictionary", s.getDictionary)
    // Session persistence
    s.rt.Post("/v1/session/save", s.saveSession)
    // Health and metrics (unversioned)
    s.rt.Get("/healthz", s.healthz)
    s.rt.Get("/readyz", s.readyz)
    s.rt.Handle("/metrics", metricsHandler())
}
