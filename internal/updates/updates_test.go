package updates

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vertox/portal/internal/web"
)

func statuses(rs []Release) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Status
	}
	return out
}

func TestReleases_StatusFollowsInstalledVersion(t *testing.T) {
	svc, err := NewService("2.3.2")
	require.NoError(t, err)
	assert.Equal(t, []string{StatusAvailable, StatusCurrent, StatusPast, StatusPast}, statuses(svc.Releases()))

	svc, err = NewService("2.4.0")
	require.NoError(t, err)
	assert.Equal(t, []string{StatusCurrent, StatusPast, StatusPast, StatusPast}, statuses(svc.Releases()))
}

func TestCheck(t *testing.T) {
	svc, err := NewService("2.2.0")
	require.NoError(t, err)
	r := svc.Check()
	require.NotNil(t, r)
	assert.Equal(t, "2.4.0", r.Version)

	svc, err = NewService("v2.10.0")
	require.NoError(t, err)
	assert.Nil(t, svc.Check())
}

func TestReleasesDoNotShareState(t *testing.T) {
	svc, err := NewService("2.3.2")
	require.NoError(t, err)
	first := svc.Releases()
	first[0].Changes[0].Description = "changed"
	assert.NotEqual(t, "changed", svc.Releases()[0].Changes[0].Description)
}

func TestNewService_InvalidVersion(t *testing.T) {
	for _, v := range []string{"", "2.3", "2.x.0", "1.2.3.4", "02.3.1"} {
		_, err := NewService(v)
		assert.Error(t, err, v)
	}
}

func TestReleases_PrereleaseSortsBeforeRelease(t *testing.T) {
	svc, err := NewService("2.4.0-rc.1")
	require.NoError(t, err)
	assert.Equal(t, []string{StatusAvailable, StatusPast, StatusPast, StatusPast}, statuses(svc.Releases()))
	assert.Equal(t, "2.4.0-rc.1", svc.CurrentVersion())
}

func TestCheckForUpdateHandler(t *testing.T) {
	svc, err := NewService("2.3.2")
	require.NoError(t, err)
	h := NewHandler(svc, web.RespondJSON, web.RespondError)

	w := httptest.NewRecorder()
	h.CheckForUpdate(w, httptest.NewRequest(http.MethodGet, "/api/updates/check", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "Version 2.4.0 is available", body["message"])
	data := body["data"].(map[string]interface{})
	assert.Equal(t, true, data["update_available"])
	assert.Equal(t, "2.3.2", data["current_version"])

	w = httptest.NewRecorder()
	h.GetReleases(w, httptest.NewRequest(http.MethodGet, "/api/updates", nil))
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Len(t, body["data"], 4)
}
