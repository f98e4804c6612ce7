package support

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vertox/portal/internal/user"
	"github.com/vertox/portal/internal/web"
)

func newTestMux(svc Service) *http.ServeMux {
	h := NewHandler(svc, nil, web.RespondJSON, web.RespondError)
	mux := http.NewServeMux()
	mux.HandleFunc("POST /support", h.PostRequest)
	mux.HandleFunc("GET /support", h.GetRequests)
	return mux
}

func do(t *testing.T, mux *http.ServeMux, method string, body interface{}, signedIn bool) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, "/support", &buf)
	if signedIn {
		req = req.WithContext(user.WithUserID(req.Context(), testUserID))
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return w, out
}

func TestPostRequest(t *testing.T) {
	svc, repo, _ := newTestService("support@vertox.com")
	mux := newTestMux(svc)

	w, body := do(t, mux, http.MethodPost, validInput(), true)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, msgSent, body["message"])
	assert.Equal(t, "Audio drops during meetings", body["data"].(map[string]interface{})["subject"])
	assert.Len(t, repo.Requests, 1)

	w, body = do(t, mux, http.MethodGet, nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["data"], 1)
}

func TestPostRequest_Invalid(t *testing.T) {
	svc, repo, _ := newTestService("support@vertox.com")
	mux := newTestMux(svc)

	in := validInput()
	in.Subject = ""
	w, body := do(t, mux, http.MethodPost, in, true)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Subject is required", body["message"])
	assert.Equal(t, []interface{}{"Subject is required"}, body["errors"])
	assert.Empty(t, repo.Requests)
}

func TestPostRequest_Unauthorized(t *testing.T) {
	svc, _, _ := newTestService("support@vertox.com")
	w, _ := do(t, newTestMux(svc), http.MethodPost, validInput(), false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPostRequest_StoreFailure(t *testing.T) {
	svc, repo, sender := newTestService("support@vertox.com")
	repo.Err = errors.New("db down")
	w, body := do(t, newTestMux(svc), http.MethodPost, validInput(), true)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to send your message", body["message"])
	assert.Empty(t, sender.sent)
}
