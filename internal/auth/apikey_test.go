package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newVerifier(t *testing.T, key string) *Verifier {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.MinCost)
	require.NoError(t, err)
	return NewVerifier(string(hash), nil)
}

func serve(v *Verifier, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	handler := v.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	handler.ServeHTTP(rec, req)
	return rec
}

func TestMiddlewareAcceptsValidKey(t *testing.T) {
	v := newVerifier(t, "console-key")

	req := httptest.NewRequest(http.MethodGet, "/categories", nil)
	req.Header.Set("X-API-Key", "console-key")

	rec := serve(v, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestMiddlewareAcceptsBearerToken(t *testing.T) {
	v := newVerifier(t, "console-key")

	req := httptest.NewRequest(http.MethodGet, "/categories", nil)
	req.Header.Set("Authorization", "Bearer console-key")

	rec := serve(v, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestMiddlewareRejectsMissingAndWrongKeys(t *testing.T) {
	v := newVerifier(t, "console-key")

	rec := serve(v, httptest.NewRequest(http.MethodGet, "/categories", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/categories", nil)
	req.Header.Set("X-API-Key", "wrong")
	rec = serve(v, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddlewareSkipsHealthz(t *testing.T) {
	v := newVerifier(t, "console-key")

	rec := serve(v, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestMiddlewareDisabledWithoutHash(t *testing.T) {
	v := NewVerifier("", nil)
	require.False(t, v.Enabled())

	rec := serve(v, httptest.NewRequest(http.MethodGet, "/categories", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)
}
