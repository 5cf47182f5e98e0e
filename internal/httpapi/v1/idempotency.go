package v1

import (
    "bytes"
    "crypto/sha256"
    "encoding/hex"
    "io"
    "net/http"
    "time"

    "github.com/patrickmn/go-cache"
)

// storedResponse is a replayable write response keyed by Idempotency-Key.
// Status is the original status.
type storedResponse struct {
    Status  int
    Payload []byte
}

// idemEntry is reserved before the handler runs so that concurrent requests
// with the same key wait for one response instead of each appending. resp is
// set before done is closed and only for successful responses.
type idemEntry struct {
    bodyHash string
    done     chan struct{}
    resp     *storedResponse
}

// Keys expire so a long-running session does not keep every response.
const (
    idemTTL     = 24 * time.Hour
    idemCleanup = time.Hour
)

func newIdemCache() *cache.Cache { return cache.New(idemTTL, idemCleanup) }

func hashBytes(b []byte) string {
    h := sha256.Sum256(b)
    return hex.EncodeToString(h[:])
}

// idempotent replays the stored response when a request repeats an
// Idempotency-Key with the same body, and answers 409 when the body differs.
// A repeat that arrives while the first request is still running waits for it.
// Only successful responses are kept so a corrected retry can go through.
func (s *Server) idempotent(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        key := r.Header.Get("Idempotency-Key")
        if key == "" {
            next.ServeHTTP(w, r)
            return
        }
        body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
        if err != nil {
            badRequest(w, "request body too large or unreadable")
            return
        }
        r.Body = io.NopCloser(bytes.NewReader(body))
        // scope the key to the route so one key cannot replay across endpoints
        scoped := r.Method + " " + r.URL.Path + " " + key
        h := hashBytes(body)

        for {
            own := &idemEntry{bodyHash: h, done: make(chan struct{})}
            if s.idem.Add(scoped, own, cache.DefaultExpiration) == nil {
                s.runReserved(w, r, next, scoped, own)
                return
            }
            v, ok := s.idem.Get(scoped)
            if !ok {
                // released or expired between Add and Get
                continue
            }
            prev := v.(*idemEntry)
            if prev.bodyHash != h {
                writeErr(w, http.StatusConflict, "idempotency key reused with a different body", "idempotency_mismatch")
                return
            }
            select {
            case <-prev.done:
            case <-r.Context().Done():
                writeErr(w, http.StatusConflict, "request with this idempotency key is still in progress", "in_progress")
                return
            }
            if prev.resp == nil {
                // the first attempt failed and released the key; try to take it
                continue
            }
            w.Header().Set("Content-Type", "application/json")
            w.Header().Set("Idempotent-Replayed", "true")
            // a replay creates nothing, so it answers 200 rather than the stored 201
            w.WriteHeader(http.StatusOK)
            _, _ = w.Write(prev.resp.Payload)
            return
        }
    })
}

// runReserved serves the request that owns the key. Failed or panicking
// requests release the key before waiters are woken.
func (s *Server) runReserved(w http.ResponseWriter, r *http.Request, next http.Handler, scoped string, e *idemEntry) {
    defer func() {
        if e.resp == nil { s.idem.Delete(scoped) }
        close(e.done)
    }()
    rw := &captureWriter{ResponseWriter: w, status: http.StatusOK}
    next.ServeHTTP(rw, r)
    if rw.status >= 200 && rw.status < 300 {
        e.resp = &storedResponse{Status: rw.status, Payload: append([]byte(nil), rw.buf...)}
    }
}

type captureWriter struct {
    http.ResponseWriter
    status int
    buf    []byte
}

func (w *captureWriter) WriteHeader(code int) { w.status = code; w.ResponseWriter.WriteHeader(code) }
func (w *captureWriter) Write(b []byte) (int, error) {
    w.buf = append(w.buf, b...)
    return w.ResponseWriter.Write(b)
}
