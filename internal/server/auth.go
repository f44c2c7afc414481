package server

import (
	"crypto/ed25519"
	"net/http"
	"strings"

	"github.com/selensince1817/resume-mcp/internal/token"
)

// bearerAuth rejects requests that do not carry a valid signed token
// for the configured audience.
func bearerAuth(publicKey ed25519.PublicKey, audience string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		value := strings.TrimSpace(r.Header.Get("Authorization"))
		const scheme = "Bearer "
		if !strings.HasPrefix(value, scheme) {
			http.Error(w, "missing bearer token", http.StatusUnauthorized)
			return
		}
		raw := strings.TrimSpace(strings.TrimPrefix(value, scheme))
		if _, err := token.VerifyString(publicKey, raw, audience); err != nil {
			http.Error(w, "invalid bearer token", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
