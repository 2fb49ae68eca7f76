package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silentchat/relay-service/internal/transport/ws"
)

type fakeProbe struct{ up bool }

func (f fakeProbe) Available(ctx context.Context) bool { return f.up }

func newTestRouter(t *testing.T, probe StoreProbe) (http.Handler, *ws.Hub) {
	t.Helper()
	staticDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "index.html"), []byte("<html>relay</html>"), 0o600))

	hub := ws.NewHub()
	wsServer := ws.NewServer(hub, nil, nil, 50)
	return NewRouter(NewHandler(staticDir, probe, hub), wsServer), hub
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, fakeProbe{up: true})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, true, body["has_ws"])
	assert.Equal(t, true, body["db"])
}

func TestHealthEndpoint_StoreDown(t *testing.T) {
	router, _ := newTestRouter(t, fakeProbe{up: false})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	// a down store degrades the report but not the status: sessions keep running
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["db"])
}

func TestStatsEndpoint(t *testing.T) {
	router, hub := newTestRouter(t, fakeProbe{up: true})
	hub.Register("r1", "alice", nil)
	hub.Register("r1", "bob", nil)
	hub.Register("r2", "carol", nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]int
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body["rooms"])
	assert.Equal(t, 3, body["clients"])
}

func TestIndexServesStaticPage(t *testing.T) {
	router, _ := newTestRouter(t, fakeProbe{up: true})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "relay")
}
