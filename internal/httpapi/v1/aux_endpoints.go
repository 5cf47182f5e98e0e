package v1

import (
    "context"
    "net/http"
    "time"
)

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }
func (s *Server) readyz(w http.ResponseWriter, r *http.Request)  {
    // The memory store is always ready; a configured adapter must answer a ping
    deadline := 800 * time.Millisecond
    ctx, cancel := context.WithTimeout(r.Context(), deadline)
    defer cancel()
    if rc, ok := s.snap.(ReadyChecker); ok {
        if err := rc.Ready(ctx); err != nil { w.WriteHeader(http.StatusServiceUnavailable); return }
    }
    w.WriteHeader(http.StatusOK)
}
