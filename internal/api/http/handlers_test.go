package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webtop-os/webtop/internal/domain/content"
	"github.com/webtop-os/webtop/internal/domain/instance"
	"github.com/webtop-os/webtop/internal/domain/registry"
	"github.com/webtop-os/webtop/internal/domain/session"
	"github.com/webtop-os/webtop/internal/domain/vfs"
	"github.com/webtop-os/webtop/internal/domain/workspace"
	"github.com/webtop-os/webtop/internal/infrastructure/config"
	"github.com/webtop-os/webtop/internal/infrastructure/logging"
)

func testContentConfig() config.ContentConfig {
	return config.ContentConfig{
		CacheEntries:  64,
		CacheTTL:      time.Minute,
		CacheMaxBytes: 128 * 1024,
		CompressMin:   4096,
		FetchTimeout:  time.Second,
	}
}

// tinyPNG is a valid 1x1 transparent PNG, small enough to inline.
var tinyPNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a,
	0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4,
	0x89, 0x00, 0x00, 0x00, 0x0a, 0x49, 0x44, 0x41,
	0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00,
	0x00, 0x00, 0x00, 0x49, 0x45, 0x4e, 0x44, 0xae,
	0x42, 0x60, 0x82,
}

// fixture wires the full desktop core behind a router, the way the server
// does, minus metrics and the WebSocket.
type fixture struct {
	router    *gin.Engine
	handlers  *Handlers
	ws        *workspace.Manager
	fs        *vfs.Manager
	store     *content.Store
	loader    *content.Loader
	registry  *registry.Manager
	instances *instance.Manager
	sessions  *session.Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logging.NewNop()

	backend, err := content.NewBackendForTest()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	store, err := content.NewStore(backend, testContentConfig(), log)
	require.NoError(t, err)
	loader := content.NewLoader(store, content.NewFetcher(testContentConfig()), "", log)

	fs := vfs.NewManager(log)
	reg := registry.NewManager(log)
	seeder := registry.NewSeeder(reg, store, log)
	require.NoError(t, seeder.SeedBuiltins())
	instances := instance.NewManager(reg, log)

	ws := workspace.NewManager(workspace.Deps{
		FS:        fs,
		Content:   store,
		Loader:    loader,
		Registry:  reg,
		Seeder:    seeder,
		Instances: instances,
	}, log)
	require.NoError(t, fs.Bootstrap(context.Background(), store))

	sessions := session.NewManager(instances, t.TempDir(), log)

	handlers := NewHandlers(ws, instances, sessions, reg, store, loader, fs, log)
	router := gin.New()
	handlers.Routes(router)

	return &fixture{
		router: router, handlers: handlers,
		ws: ws, fs: fs, store: store, loader: loader,
		registry: reg, instances: instances, sessions: sessions,
	}
}

// do issues one request against the fixture's router. A non-nil body is
// sent as JSON.
func (f *fixture) do(t *testing.T, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// saveFile saves content through the API and returns the created item.
func (f *fixture) saveFile(t *testing.T, path, content string) map[string]interface{} {
	t.Helper()
	w := f.do(t, http.MethodPost, "/fs/save", gin.H{"path": path, "content": content})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	require.Equal(t, true, body["ok"])
	return body["item"].(map[string]interface{})
}

// launch opens a window through the API and returns its id.
func (f *fixture) launch(t *testing.T, appID string) string {
	t.Helper()
	w := f.do(t, http.MethodPost, "/instances", gin.H{"app_id": appID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	inst := body["instance"].(map[string]interface{})
	return inst["id"].(string)
}

func TestRoot(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "webtop", body["service"])
	assert.Equal(t, "online", body["status"])
}

func TestHealth(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "healthy", body["status"])
	assert.Contains(t, body, "fs")
	assert.Contains(t, body, "instances")
	assert.Contains(t, body, "registry")
	assert.Contains(t, body, "sessions")
}
