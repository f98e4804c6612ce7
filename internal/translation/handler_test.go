package translation

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vertox/portal/internal/user"
	"github.com/vertox/portal/internal/web"
)

func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()
	console, _, _ := newConsole()
	devices := NewDevices(time.Hour, nil)
	t.Cleanup(devices.Close)
	h := NewHandler(console, devices, web.RespondJSON, web.RespondError)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /options", h.GetOptions)
	mux.HandleFunc("GET /session", h.GetState)
	mux.HandleFunc("PUT /session", h.UpdateState)
	mux.HandleFunc("POST /session/start", h.Start)
	mux.HandleFunc("POST /session/stop", h.Stop)
	mux.HandleFunc("GET /devices", h.GetDevices)
	mux.HandleFunc("POST /devices/{kind}/{id}/pair", h.PairDevice)
	return mux
}

func call(mux *http.ServeMux, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req = req.WithContext(user.WithUserID(req.Context(), userA))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func dataOf(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body["data"].(map[string]interface{})
}

func TestOptionsHandler(t *testing.T) {
	mux := newTestMux(t)
	w := call(mux, http.MethodGet, "/options", "")
	require.Equal(t, http.StatusOK, w.Code)
	data := dataOf(t, w)
	assert.Len(t, data["languages"], 8)
	assert.Len(t, data["voices"], 4)
}

func TestSessionHandlers(t *testing.T) {
	mux := newTestMux(t)

	w := call(mux, http.MethodPut, "/session", `{"target_language":"fr","voice":"formal"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "fr", dataOf(t, w)["target_language"])

	assert.Equal(t, http.StatusBadRequest, call(mux, http.MethodPut, "/session", `{"noise_level":7}`).Code)

	w = call(mux, http.MethodPost, "/session/start", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, dataOf(t, w)["active"])
	assert.Equal(t, http.StatusConflict, call(mux, http.MethodPost, "/session/start", "").Code)

	w = call(mux, http.MethodPost, "/session/stop", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, dataOf(t, w)["active"])
	assert.Equal(t, http.StatusConflict, call(mux, http.MethodPost, "/session/stop", "").Code)
}

func TestDeviceHandlers(t *testing.T) {
	mux := newTestMux(t)

	w := call(mux, http.MethodPost, "/devices/headphones/airpods/pair", "")
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, StatusPairing, dataOf(t, w)["status"])

	assert.Equal(t, http.StatusOK, call(mux, http.MethodPost, "/devices/microphone/yeti/pair", "").Code)
	assert.Equal(t, http.StatusNotFound, call(mux, http.MethodPost, "/devices/microphone/nope/pair", "").Code)

	w = call(mux, http.MethodGet, "/devices", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, dataOf(t, w)["headphones"], 4)
}
