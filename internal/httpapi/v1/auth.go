package v1

import (
    "net/http"
    "strings"

    "github.com/golang-jwt/jwt/v5"
)

// AuthConfig enables bearer-token auth when Secret is non-empty. Issuer and
// Audience are checked only when set.
type AuthConfig struct {
    Secret   string
    Issuer   string
    Audience string
}

// openPaths stay reachable without a token.
var openPaths = map[string]bool{
    "/healthz":       true,
    "/readyz":        true,
    "/metrics":       true,
    "/v1/dictionary": true,
}

func parseBearerToken(r *http.Request) (string, bool) {
    h := r.Header.Get("Authorization")
    if len(h) < len("Bearer ") || !strings.EqualFold(h[:len("Bearer ")], "Bearer ") { return "", false }
    tok := strings.TrimSpace(h[len("Bearer "):])
    return tok, tok != ""
}

// verifyHS256 parses and validates token. Expiry and not-before are enforced by
// the parser; issuer and audience only when configured.
func verifyHS256(token string, cfg AuthConfig) (*jwt.RegisteredClaims, error) {
    opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
    if cfg.Issuer != "" { opts = append(opts, jwt.WithIssuer(cfg.Issuer)) }
    if cfg.Audience != "" { opts = append(opts, jwt.WithAudience(cfg.Audience)) }
    claims := &jwt.RegisteredClaims{}
    _, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
        return []byte(cfg.Secret), nil
    }, opts...)
    if err != nil { return nil, err }
    return claims, nil
}

// authJWT returns a middleware that enforces Authorization: Bearer <HS256 JWT>,
// or nil when auth is disabled.
func authJWT(cfg AuthConfig) func(http.Handler) http.Handler {
    cfg.Secret = strings.TrimSpace(cfg.Secret)
    if cfg.Secret == "" { return nil }
    cfg.Issuer = strings.TrimSpace(cfg.Issuer)
    cfg.Audience = strings.TrimSpace(cfg.Audience)
    return func(next http.Handler) http.Handler {
        return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
            if openPaths[r.URL.Path] {
                next.ServeHTTP(w, r)
                return
            }
            tok, ok := parseBearerToken(r)
            if !ok {
                writeErr(w, http.StatusUnauthorized, "missing bearer token", "unauthorized")
                return
            }
            if _, err := verifyHS256(tok, cfg); err != nil {
                writeErr(w, http.StatusUnauthorized, "invalid token", "unauthorized")
                return
            }
            next.ServeHTTP(w, r)
        })
    }
}
