package plans

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vertox/portal/internal/validation"
)

func TestFormatCardNumber(t *testing.T) {
	assert.Equal(t, "4242 4242 4242 4242", FormatCardNumber("4242424242424242"))
	assert.Equal(t, "4242 42", FormatCardNumber("4242 42"))
	assert.Equal(t, "4242 4242 4242 4242", FormatCardNumber("4242-4242-4242-4242-99"))
	assert.Equal(t, "424", FormatCardNumber("424"))
}

func TestFormatExpiry(t *testing.T) {
	assert.Equal(t, "1", FormatExpiry("1"))
	assert.Equal(t, "12/", FormatExpiry("12"))
	assert.Equal(t, "12/25", FormatExpiry("1225"))
	assert.Equal(t, "12/25", FormatExpiry("12/2599"))
}

func TestFormatCVC(t *testing.T) {
	assert.Equal(t, "123", FormatCVC("1a2b3"))
	assert.Equal(t, "1234", FormatCVC("123456"))
}

func validCheckout() CheckoutRequest {
	return CheckoutRequest{
		Configuration: baseConfig(),
		Method:        CheckoutCard,
		Card:          CardDetails{Number: "4242 4242 4242 4242", Expiry: "12/29", CVC: "123", Name: "Ana Lima"},
		Billing:       BillingDetails{Email: "ana@example.com", Address: "1 Main St", City: "Lisbon", Country: "PT", Zip: "1000"},
	}
}

func TestValidateCheckout(t *testing.T) {
	assert.NoError(t, ValidateCheckout(validCheckout()))

	req := validCheckout()
	req.Card.CVC = " "
	req.Billing.Zip = ""
	assert.Equal(t, []string{msgCardDetails, msgBillingDetails}, validation.MessagesOf(ValidateCheckout(req)))

	req = validCheckout()
	req.Method = CheckoutPayPal
	req.Card = CardDetails{}
	assert.NoError(t, ValidateCheckout(req))

	req.Method = "cash"
	assert.Equal(t, []string{"Please select a payment method"}, validation.MessagesOf(ValidateCheckout(req)))

	req = validCheckout()
	req.Billing.Email = "victim@example.com\r\nBcc: list@example.com"
	assert.Equal(t, []string{"Please enter a valid email address"}, validation.MessagesOf(ValidateCheckout(req)))
	req.Billing.Email = "not-an-address"
	assert.Equal(t, []string{"Please enter a valid email address"}, validation.MessagesOf(ValidateCheckout(req)))
}
