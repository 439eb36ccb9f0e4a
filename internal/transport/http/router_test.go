package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vendora/api/internal/config"
	"github.com/vendora/api/internal/infrastructure/kvstore"
)

// newTestRouter wires the router with in-memory infrastructure only. The
// requests below fail validation before any repository is touched, so the
// nil repos are never dereferenced.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	return NewRouter(&config.Config{}, &Deps{KVStore: kvstore.NewMemory()})
}

func TestRouter_BuyerLoginMountedAtLogin(t *testing.T) {
	r := newTestRouter(t)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rr, req)

	// The empty body is rejected by the handler, not by the mux: the
	// route exists.
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRouter_SellerLoginMountedAtLoginSeller(t *testing.T) {
	r := newTestRouter(t)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login-seller", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
