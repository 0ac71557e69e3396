package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLaunchAndGet(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/instances", map[string]interface{}{
		"app_id": "notepad",
		"title":  "Shopping list",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	require.Equal(t, true, body["ok"])
	inst := body["instance"].(map[string]interface{})
	iid := inst["id"].(string)
	require.NotEmpty(t, iid)
	assert.Equal(t, "notepad", inst["app_id"])
	assert.Equal(t, "Shopping list", inst["title"])
	assert.Equal(t, true, inst["is_foreground"])

	w = f.do(t, http.MethodGet, "/instances/"+iid, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode(t, w)["instance"].(map[string]interface{})
	assert.Equal(t, iid, got["id"])

	w = f.do(t, http.MethodGet, "/instances", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	assert.Len(t, body["instances"], 1)
	stats := body["stats"].(map[string]interface{})
	assert.EqualValues(t, 1, stats["total"])
	assert.Equal(t, iid, stats["foreground_id"])
}

func TestLaunchUnknownApp(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/instances", map[string]interface{}{"app_id": "zzz"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(t, http.MethodPost, "/instances", map[string]interface{}{"title": "no app"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLaunchSingleWindowReuses(t *testing.T) {
	f := newFixture(t)

	first := f.launch(t, "settings")
	w := f.do(t, http.MethodPost, "/instances", map[string]interface{}{"app_id": "settings"})
	require.Equal(t, http.StatusOK, w.Code)
	inst := decode(t, w)["instance"].(map[string]interface{})
	assert.Equal(t, first, inst["id"], "single-window app should refocus, not multiply")

	w = f.do(t, http.MethodGet, "/instances", nil)
	stats := decode(t, w)["stats"].(map[string]interface{})
	assert.EqualValues(t, 1, stats["total"])
}

func TestFocusMinimizeRestore(t *testing.T) {
	f := newFixture(t)
	pad := f.launch(t, "notepad")
	files := f.launch(t, "files")

	// files was launched last, so it holds the foreground.
	w := f.do(t, http.MethodGet, "/instances", nil)
	stats := decode(t, w)["stats"].(map[string]interface{})
	require.Equal(t, files, stats["foreground_id"])

	w = f.do(t, http.MethodPost, "/instances/"+pad+"/focus", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, pad, body["instance_id"])

	w = f.do(t, http.MethodPost, "/instances/blur", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["ok"])

	w = f.do(t, http.MethodGet, "/instances", nil)
	stats = decode(t, w)["stats"].(map[string]interface{})
	_, hasForeground := stats["foreground_id"]
	assert.False(t, hasForeground, "blur should leave no window focused")

	w = f.do(t, http.MethodPost, "/instances/"+pad+"/minimize", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["ok"])

	w = f.do(t, http.MethodGet, "/instances/"+pad, nil)
	inst := decode(t, w)["instance"].(map[string]interface{})
	assert.Equal(t, true, inst["is_minimized"])

	w = f.do(t, http.MethodPost, "/instances/"+pad+"/restore", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["ok"])

	w = f.do(t, http.MethodGet, "/instances/"+pad, nil)
	inst = decode(t, w)["instance"].(map[string]interface{})
	assert.Equal(t, false, inst["is_minimized"])
	assert.Equal(t, true, inst["is_foreground"])
}

func TestCloseInstance(t *testing.T) {
	f := newFixture(t)
	iid := f.launch(t, "notepad")

	w := f.do(t, http.MethodDelete, "/instances/"+iid, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["ok"])

	w = f.do(t, http.MethodGet, "/instances/"+iid, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Closing again is a harmless no-op.
	w = f.do(t, http.MethodDelete, "/instances/"+iid, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["ok"])
}

func TestSetGeometry(t *testing.T) {
	f := newFixture(t)
	iid := f.launch(t, "notepad")

	w := f.do(t, http.MethodPut, "/instances/"+iid+"/geometry", map[string]interface{}{
		"position": map[string]float64{"x": 40, "y": 60},
		"size":     map[string]float64{"width": 900, "height": 700},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, decode(t, w)["ok"])

	w = f.do(t, http.MethodGet, "/instances/"+iid, nil)
	inst := decode(t, w)["instance"].(map[string]interface{})
	pos := inst["position"].(map[string]interface{})
	assert.EqualValues(t, 40, pos["x"])
	assert.EqualValues(t, 60, pos["y"])

	w = f.do(t, http.MethodPut, "/instances/"+iid+"/geometry", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code, "empty geometry patch should be rejected")
}

func TestSetTitle(t *testing.T) {
	f := newFixture(t)
	iid := f.launch(t, "notepad")

	w := f.do(t, http.MethodPut, "/instances/"+iid+"/title", map[string]interface{}{
		"title": "Draft",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["ok"])

	w = f.do(t, http.MethodGet, "/instances/"+iid, nil)
	inst := decode(t, w)["instance"].(map[string]interface{})
	assert.Equal(t, "Draft", inst["title"])

	w = f.do(t, http.MethodPut, "/instances/"+iid+"/title", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMarkLoaded(t *testing.T) {
	f := newFixture(t)
	// Paint is flagged lazy, so it opens in a loading state.
	w := f.do(t, http.MethodPost, "/instances", map[string]interface{}{"app_id": "paint"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	inst := decode(t, w)["instance"].(map[string]interface{})
	iid := inst["id"].(string)
	require.Equal(t, true, inst["is_loading"])

	w = f.do(t, http.MethodPost, "/instances/"+iid+"/loaded", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["ok"])

	w = f.do(t, http.MethodGet, "/instances/"+iid, nil)
	inst = decode(t, w)["instance"].(map[string]interface{})
	assert.Equal(t, false, inst["is_loading"])
}
