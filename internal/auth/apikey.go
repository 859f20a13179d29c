package auth

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/edusupply/console-api/internal/platform/httpx"
)

const apiKeyHeader = "X-API-Key"

// Verifier checks presented API keys against the configured bcrypt hash.
type Verifier struct {
	hash   []byte
	logger *slog.Logger
}

// NewVerifier builds a Verifier from a bcrypt hash of the expected key.
// An empty hash disables authentication, which is only acceptable in
// development.
func NewVerifier(hash string, logger *slog.Logger) *Verifier {
	v := &Verifier{logger: logger}
	if strings.TrimSpace(hash) != "" {
		v.hash = []byte(hash)
	}
	return v
}

// Enabled reports whether a key hash was configured.
func (v *Verifier) Enabled() bool {
	return v != nil && len(v.hash) > 0
}

// Verify compares the presented key against the configured hash.
func (v *Verifier) Verify(key string) bool {
	if !v.Enabled() {
		return true
	}
	if key == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword(v.hash, []byte(key)) == nil
}

// Middleware rejects requests lacking a valid X-API-Key header. Health
// checks stay open so load balancers can probe without credentials.
func (v *Verifier) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !v.Enabled() || r.URL.Path == "/healthz" {
			next.ServeHTTP(w, r)
			return
		}
		key := r.Header.Get(apiKeyHeader)
		if key == "" {
			key = bearerToken(r)
		}
		if !v.Verify(key) {
			if v.logger != nil {
				v.logger.Warn("rejected api key", slog.String("path", r.URL.Path))
			}
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "missing or invalid API key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	const prefix = "Bearer "
	header := r.Header.Get("Authorization")
	if len(header) <= len(prefix) {
		return ""
	}
	if subtle.ConstantTimeCompare([]byte(header[:len(prefix)]), []byte(prefix)) != 1 {
		return ""
	}
	return header[len(prefix):]
}
