package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv, err := New(Config{
		Port:      0,
		DBPath:    filepath.Join(t.TempDir(), "test.db"),
		JWTSecret: "test-secret-that-is-long-enough-for-hs256",
		ImagesDir: t.TempDir(),
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { srv.db.Close() })
	return srv
}

// doJSON runs one request through the full router and middleware stack.
func doJSON(t *testing.T, srv *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		buf := &bytes.Buffer{}
		require.NoError(t, json.NewEncoder(buf).Encode(body))
		reader = buf
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

// register creates an account through the API and returns its token.
func register(t *testing.T, srv *Server, username string) string {
	t.Helper()

	rec := doJSON(t, srv, http.MethodPost, "/api/auth/register", "",
		map[string]string{"username": username, "password": "secret1"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

// ============================================================
// Routing and middleware
// ============================================================

func TestServer_Health(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"OK"`)
}

func TestServer_UnknownRouteIsJSON(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/nope", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "route not found")
}

func TestServer_AuthFlow(t *testing.T) {
	srv := newTestServer(t)
	token := register(t, srv, "alice")

	// Token works.
	rec := doJSON(t, srv, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"alice"`)

	// Missing token is 401, garbage token is 403.
	rec = doJSON(t, srv, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/auth/me", "not-a-jwt", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestServer_AdminGates(t *testing.T) {
	srv := newTestServer(t)
	token := register(t, srv, "alice")

	// Catalog writes are admin only.
	rec := doJSON(t, srv, http.MethodPost, "/api/artists", token,
		map[string]string{"name": "Orbital"})
	require.Equal(t, http.StatusForbidden, rec.Code)

	// No token at all is a 401 before the admin check.
	rec = doJSON(t, srv, http.MethodPost, "/api/artists", "",
		map[string]string{"name": "Orbital"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// The per-album ratings read is gated too.
	rec = doJSON(t, srv, http.MethodGet, "/api/ratings/albums/x/ratings", token, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	// Nothing was written by the rejected request.
	rec = doJSON(t, srv, http.MethodGet, "/api/artists/search?q=Orbital", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestServer_PublicReadsNeedNoToken(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{
		"/api/artists",
		"/api/artists/grouped",
		"/api/labels",
		"/api/lists/public",
		"/api/ratings/top-rated",
	} {
		rec := doJSON(t, srv, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusOK, rec.Code, "GET %s", path)
	}
}

func TestServer_ListLifecycle(t *testing.T) {
	srv := newTestServer(t)
	owner := register(t, srv, "alice")
	stranger := register(t, srv, "mallory")

	rec := doJSON(t, srv, http.MethodPost, "/api/lists", owner,
		map[string]any{"name": "Picks", "is_public": false})
	require.Equal(t, http.StatusCreated, rec.Code)

	var list struct {
		ID      string `json:"id"`
		ShareID string `json:"share_id"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))

	// Owner sees it, a stranger gets 403, anonymous gets 403.
	assert.Equal(t, http.StatusOK, doJSON(t, srv, http.MethodGet, "/api/lists/"+list.ID, owner, nil).Code)
	assert.Equal(t, http.StatusForbidden, doJSON(t, srv, http.MethodGet, "/api/lists/"+list.ID, stranger, nil).Code)
	assert.Equal(t, http.StatusForbidden, doJSON(t, srv, http.MethodGet, "/api/lists/"+list.ID, "", nil).Code)

	// A private list's share id resolves to nothing.
	assert.Equal(t, http.StatusNotFound, doJSON(t, srv, http.MethodGet, "/api/lists/share/"+list.ShareID, "", nil).Code)

	// Making it public opens both doors.
	rec = doJSON(t, srv, http.MethodPut, "/api/lists/"+list.ID, owner,
		map[string]any{"name": "Picks", "is_public": true})
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, http.StatusOK, doJSON(t, srv, http.MethodGet, "/api/lists/"+list.ID, "", nil).Code)
	assert.Equal(t, http.StatusOK, doJSON(t, srv, http.MethodGet, "/api/lists/share/"+list.ShareID, "", nil).Code)
}
