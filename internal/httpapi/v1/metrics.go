package v1

import (
    "net/http"
    "strconv"
    "time"

    chi "github.com/go-chi/chi/v5"
    chimw "github.com/go-chi/chi/v5/middleware"
    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/promauto"
    "github.com/prometheus/client_golang/prometheus/promhttp"

    "github.com/tinoosan/bookkeeper/internal/ledger"
)

var (
    httpRequestsTotal = promauto.NewCounterVec(
        prometheus.CounterOpts{
            Namespace: "bookkeeper",
            Name:      "http_requests_total",
            Help:      "Total number of HTTP requests",
        },
        []string{"method", "route", "status"},
    )
    httpRequestDuration = promauto.NewHistogramVec(
        prometheus.HistogramOpts{
            Namespace: "bookkeeper",
            Name:      "http_request_duration_seconds",
            Help:      "Duration of HTTP requests in seconds",
            Buckets:   prometheus.DefBuckets,
        },
        []string{"method", "route", "status"},
    )
    entriesRecorded = promauto.NewCounterVec(
        prometheus.CounterOpts{
            Namespace: "bookkeeper",
            Name:      "entries_recorded_total",
            Help:      "Ledger records appended, by kind and status",
        },
        []string{"kind", "status"},
    )
    routingRejections = promauto.NewCounterVec(
        prometheus.CounterOpts{
            Namespace: "bookkeeper",
            Name:      "routing_rejections_total",
            Help:      "Entries that were not appended, by reason",
        },
        []string{"reason"},
    )
    auditFindings = promauto.NewGauge(
        prometheus.GaugeOpts{
            Namespace: "bookkeeper",
            Name:      "audit_findings",
            Help:      "Number of findings in the most recent audit run",
        },
    )
)

func metricsHandler() http.Handler {
    return promhttp.Handler()
}

func metricsMiddleware(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
        start := time.Now()
        next.ServeHTTP(ww, r)
        route := routePattern(r)
        status := strconv.Itoa(ww.Status())
        httpRequestsTotal.WithLabelValues(r.Method, route, status).Inc()
        httpRequestDuration.WithLabelValues(r.Method, route, status).Observe(time.Since(start).Seconds())
    })
}

// routePattern is read after the handler ran, once chi has matched. The
// pattern keeps label cardinality bounded.
func routePattern(r *http.Request) string {
    if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
        return rc.RoutePattern()
    }
    return "unmatched"
}

func observeRecorded(rec ledger.Record) {
    status := "complete"
    if tx, ok := rec.(ledger.Transaction); ok { status = string(tx.EntryStatus()) }
    entriesRecorded.WithLabelValues(string(rec.Kind()), status).Inc()
}

func observeRejected(err error) {
    routingRejections.WithLabelValues(rejectionReason(err)).Inc()
}
