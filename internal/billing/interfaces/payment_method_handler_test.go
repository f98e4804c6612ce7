package interfaces

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vertox/portal/internal/billing/domain"
	billingErrors "github.com/vertox/portal/internal/billing/errors"
	"github.com/vertox/portal/internal/user"
	"github.com/vertox/portal/internal/web"
)

const testUserID = "00000000-0000-0000-0000-000000000001"

func authed(r *http.Request) *http.Request {
	return r.WithContext(user.WithUserID(r.Context(), testUserID))
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	return response
}

func TestGetPaymentMethods_Success(t *testing.T) {
	mockMethods := []domain.PaymentMethod{
		{ID: uuid.New(), Type: domain.TypeCard, Name: "Visa ending in 4242", Details: "Expires 12/26", IsDefault: true},
		{ID: uuid.New(), Type: domain.TypePayPal, Name: "PayPal", Details: "ana@example.com"},
	}
	handler := NewPaymentMethodHandler(NewMockPaymentMethodService(mockMethods, nil), nil, web.RespondJSON, web.RespondError)

	w := httptest.NewRecorder()
	handler.GetPaymentMethods(w, authed(httptest.NewRequest(http.MethodGet, "/api/protected/billing/payment-methods", nil)))

	assert.Equal(t, http.StatusOK, w.Code)
	response := decodeResponse(t, w)
	assert.Equal(t, "success", response["status"])

	methods, ok := response["data"].([]interface{})
	require.True(t, ok, "Expected 'data' to be an array in the response")
	require.Len(t, methods, 2)
	first := methods[0].(map[string]interface{})
	assert.Equal(t, "Visa ending in 4242", first["name"])
	assert.Equal(t, true, first["is_default"])
	assert.NotContains(t, first, "UserID")
}

func TestGetPaymentMethods_Error(t *testing.T) {
	handler := NewPaymentMethodHandler(NewMockPaymentMethodService(nil, errors.New("database error")), nil, web.RespondJSON, web.RespondError)

	w := httptest.NewRecorder()
	handler.GetPaymentMethods(w, authed(httptest.NewRequest(http.MethodGet, "/api/protected/billing/payment-methods", nil)))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to retrieve payment methods", decodeResponse(t, w)["message"])
}

func TestGetPaymentMethods_Unauthorized(t *testing.T) {
	handler := NewPaymentMethodHandler(NewMockPaymentMethodService(nil, nil), nil, web.RespondJSON, web.RespondError)

	w := httptest.NewRecorder()
	handler.GetPaymentMethods(w, httptest.NewRequest(http.MethodGet, "/api/protected/billing/payment-methods", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAddPaymentMethod(t *testing.T) {
	handler := NewPaymentMethodHandler(NewMockPaymentMethodService(nil, nil), nil, web.RespondJSON, web.RespondError)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantMsg    string
	}{
		{"card", `{"type":"card","card_number":"4242424242424242","card_name":"Ana","expiry":"12/26","cvv":"123"}`, http.StatusCreated, "Payment method added successfully"},
		{"missing card fields", `{"type":"card","card_number":"4242"}`, http.StatusBadRequest, "Please fill in all card details"},
		{"missing paypal email", `{"type":"paypal"}`, http.StatusBadRequest, "Please enter your PayPal email"},
		{"bad json", `{`, http.StatusBadRequest, "Invalid request body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/protected/billing/payment-methods", bytes.NewBufferString(tt.body))
			handler.AddPaymentMethod(w, authed(req))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantMsg, decodeResponse(t, w)["message"])
		})
	}
}

func TestRemoveAndSetDefault(t *testing.T) {
	mockService := NewMockPaymentMethodService(nil, nil)
	handler := NewPaymentMethodHandler(mockService, nil, web.RespondJSON, web.RespondError)
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /api/protected/billing/payment-methods/{id}", handler.RemovePaymentMethod)
	mux.HandleFunc("PUT /api/protected/billing/payment-methods/{id}/default", handler.SetDefaultPaymentMethod)

	id := uuid.New()
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, authed(httptest.NewRequest(http.MethodDelete, "/api/protected/billing/payment-methods/"+id.String(), nil)))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Payment method removed", decodeResponse(t, w)["message"])
	assert.Equal(t, []uuid.UUID{id}, mockService.removed)

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, authed(httptest.NewRequest(http.MethodPut, "/api/protected/billing/payment-methods/"+id.String()+"/default", nil)))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Default payment method updated", decodeResponse(t, w)["message"])

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, authed(httptest.NewRequest(http.MethodDelete, "/api/protected/billing/payment-methods/not-a-uuid", nil)))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	mockService.err = billingErrors.ErrPaymentMethodNotFound
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, authed(httptest.NewRequest(http.MethodPut, "/api/protected/billing/payment-methods/"+id.String()+"/default", nil)))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
