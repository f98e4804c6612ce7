package plans

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vertox/portal/internal/web"
)

func newTestHandler() (*Handler, *MockSalesRepository) {
	svc, repo, _ := newTestService()
	return NewHandler(svc, nil, web.RespondJSON, web.RespondError), repo
}

func jsonBody(t *testing.T, v interface{}) *bytes.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body
}

func TestNewHandler_PanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { NewHandler(nil, nil, web.RespondJSON, web.RespondError) })
}

func TestGetCatalog(t *testing.T) {
	h, _ := newTestHandler()
	w := httptest.NewRecorder()
	h.GetCatalog(w, httptest.NewRequest(http.MethodGet, "/api/plans/catalog?source=en", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	data := body["data"].(map[string]interface{})
	assert.Len(t, data["source_languages"], len(SourceLanguages))
	assert.Len(t, data["target_languages"], len(TargetLanguages)-1)
	assert.Len(t, data["criticality_levels"], 4)
}

func TestPostQuote(t *testing.T) {
	h, _ := newTestHandler()
	w := httptest.NewRecorder()
	h.PostQuote(w, httptest.NewRequest(http.MethodPost, "/api/plans/quote", jsonBody(t, baseConfig())))

	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, float64(500), data["price"])
	assert.Equal(t, float64(60), data["total_minutes"])
}

func TestPostQuote_IncompleteStep(t *testing.T) {
	h, _ := newTestHandler()
	cfg := baseConfig()
	cfg.Format = ""
	w := httptest.NewRecorder()
	h.PostQuote(w, httptest.NewRequest(http.MethodPost, "/api/plans/quote", jsonBody(t, cfg)))

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, float64(StepFormat), body["step"])
	assert.Equal(t, []interface{}{"Please select a translation format"}, body["errors"])
}

func TestPostQuote_BadJSON(t *testing.T) {
	h, _ := newTestHandler()
	w := httptest.NewRecorder()
	h.PostQuote(w, httptest.NewRequest(http.MethodPost, "/api/plans/quote", bytes.NewBufferString("{")))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid request payload", decode(t, w)["message"])
}

func TestPostProposal(t *testing.T) {
	h, _ := newTestHandler()
	w := httptest.NewRecorder()
	h.PostProposal(w, httptest.NewRequest(http.MethodPost, "/api/plans/proposal", jsonBody(t, baseConfig())))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "vertox-proposal.txt")
	assert.Contains(t, w.Body.String(), "Total Price: $500")
}

func TestPostContactSales(t *testing.T) {
	h, repo := newTestHandler()

	w := httptest.NewRecorder()
	h.PostContactSales(w, httptest.NewRequest(http.MethodPost, "/api/plans/contact-sales", jsonBody(t, ContactSalesInput{Name: "Ana"})))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Please fill in required fields", decode(t, w)["message"])

	w = httptest.NewRecorder()
	in := ContactSalesInput{Name: "Ana", Email: "ana@acme.com", Company: "Acme"}
	h.PostContactSales(w, httptest.NewRequest(http.MethodPost, "/api/plans/contact-sales", jsonBody(t, in)))
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Your request has been sent. Our sales team will contact you within 24 hours.", decode(t, w)["message"])
	assert.Len(t, repo.Requests, 1)
}

func TestPostCheckout(t *testing.T) {
	h, _ := newTestHandler()

	w := httptest.NewRecorder()
	h.PostCheckout(w, httptest.NewRequest(http.MethodPost, "/api/plans/checkout", jsonBody(t, validCheckout())))
	require.Equal(t, http.StatusAccepted, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, StatusProcessing, data["status"])

	req := validCheckout()
	req.Billing = BillingDetails{}
	w = httptest.NewRecorder()
	h.PostCheckout(w, httptest.NewRequest(http.MethodPost, "/api/plans/checkout", jsonBody(t, req)))
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, msgBillingDetails, body["message"])

	req = validCheckout()
	req.Billing.Email = "anyone"
	w = httptest.NewRecorder()
	h.PostCheckout(w, httptest.NewRequest(http.MethodPost, "/api/plans/checkout", jsonBody(t, req)))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, ErrInvalidEmail.Error(), decode(t, w)["message"])
}
