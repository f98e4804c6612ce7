package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	billingErrors "github.com/vertox/portal/internal/billing/errors"
)

func TestCardBrand(t *testing.T) {
	tests := map[string]string{
		"4242 4242 4242 4242": "Visa",
		"5105105105105100":    "Mastercard",
		"5500000000000004":    "Mastercard",
		"5600000000000000":    "Card",
		"378282246310005":     "American Express",
		"341111111111111":     "American Express",
		"6011111111111117":    "Discover",
		"6500000000000002":    "Discover",
		"3530111333300000":    "Card",
	}
	for number, want := range tests {
		assert.Equal(t, want, CardBrand(number), number)
	}
}

func TestMask_Card(t *testing.T) {
	pm, err := NewPaymentMethod{
		Type:       TypeCard,
		CardNumber: "4242 4242 4242 4242",
		CardName:   "Ana Lima",
		Expiry:     "1226",
		CVV:        "123",
	}.Mask()
	require.NoError(t, err)
	assert.Equal(t, "Visa ending in 4242", pm.Name)
	assert.Equal(t, "Expires 12/26", pm.Details)

	_, err = NewPaymentMethod{Type: TypeCard, CardNumber: "4242", CardName: "Ana", Expiry: "12/26"}.Mask()
	assert.ErrorIs(t, err, billingErrors.ErrCardDetails)
	assert.True(t, billingErrors.IsValidationError(err))
}

func TestMask_WalletsAndBank(t *testing.T) {
	pm, err := NewPaymentMethod{Type: TypePayPal, Email: " ana@example.com "}.Mask()
	require.NoError(t, err)
	assert.Equal(t, "PayPal", pm.Name)
	assert.Equal(t, "ana@example.com", pm.Details)

	pm, err = NewPaymentMethod{Type: TypeStripe, Email: "billing@acme.com"}.Mask()
	require.NoError(t, err)
	assert.Equal(t, "Stripe", pm.Name)

	_, err = NewPaymentMethod{Type: TypeStripe}.Mask()
	assert.ErrorIs(t, err, billingErrors.ErrStripeEmail)
	_, err = NewPaymentMethod{Type: TypePayPal, Email: "nope"}.Mask()
	assert.ErrorIs(t, err, billingErrors.ErrInvalidEmail)

	pm, err = NewPaymentMethod{Type: TypeBank, BankName: "Chase", AccountNumber: "000123456789", RoutingNumber: "021000021"}.Mask()
	require.NoError(t, err)
	assert.Equal(t, "Chase", pm.Name)
	assert.Equal(t, "Account ending in 6789", pm.Details)

	_, err = NewPaymentMethod{Type: TypeBank, BankName: "Chase"}.Mask()
	assert.ErrorIs(t, err, billingErrors.ErrBankDetails)

	_, err = NewPaymentMethod{Type: "crypto"}.Mask()
	assert.ErrorIs(t, err, billingErrors.ErrInvalidType)
}
