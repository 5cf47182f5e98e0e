package v1

import (
    "net/http"
    "strings"
)

// requireJSON ensures POST bodies are declared as application/json (parameters
// such as charset allowed). Writes 415 otherwise.
func requireJSON(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        ct := r.Header.Get("Content-Type")
        mime := strings.ToLower(strings.TrimSpace(strings.Split(ct, ";")[0]))
        if mime != "application/json" {
            writeErr(w, http.StatusUnsupportedMediaType, "unsupported_media_type", "unsupported_media_type")
            return
        }
        next.ServeHTTP(w, r)
    })
}
