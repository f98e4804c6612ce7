package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vertox/portal/internal/billing/domain"
	billingErrors "github.com/vertox/portal/internal/billing/errors"
	"github.com/vertox/portal/internal/billing/infrastructure"
)

const userID = "00000000-0000-0000-0000-000000000001"

func defaults(methods []domain.PaymentMethod) []string {
	var names []string
	for _, pm := range methods {
		if pm.IsDefault {
			names = append(names, pm.Name)
		}
	}
	return names
}

func TestPaymentMethodLifecycle(t *testing.T) {
	repo := &infrastructure.MockPaymentMethodRepository{}
	svc := NewPaymentMethodService(repo, nil)
	ctx := context.Background()

	methods, err := svc.ListPaymentMethods(ctx, userID)
	require.NoError(t, err)
	assert.NotNil(t, methods)
	assert.Empty(t, methods)

	card, err := svc.AddPaymentMethod(ctx, userID, domain.NewPaymentMethod{Type: domain.TypeCard, CardNumber: "5555 5555 5555 4444", CardName: "Ana", Expiry: "01/28", CVV: "999"})
	require.NoError(t, err)
	assert.True(t, card.IsDefault)
	assert.Equal(t, "Mastercard ending in 4444", card.Name)

	paypal, err := svc.AddPaymentMethod(ctx, userID, domain.NewPaymentMethod{Type: domain.TypePayPal, Email: "ana@example.com"})
	require.NoError(t, err)
	assert.False(t, paypal.IsDefault)

	require.NoError(t, svc.SetDefaultPaymentMethod(ctx, userID, paypal.ID))
	methods, err = svc.ListPaymentMethods(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []string{"PayPal"}, defaults(methods))

	require.NoError(t, svc.RemovePaymentMethod(ctx, userID, paypal.ID))
	methods, err = svc.ListPaymentMethods(ctx, userID)
	require.NoError(t, err)
	require.Len(t, methods, 1)
	assert.Empty(t, defaults(methods))

	assert.ErrorIs(t, svc.RemovePaymentMethod(ctx, "someone-else", card.ID), billingErrors.ErrPaymentMethodNotFound)
	assert.ErrorIs(t, svc.SetDefaultPaymentMethod(ctx, "someone-else", card.ID), billingErrors.ErrPaymentMethodNotFound)
}

func TestAddPaymentMethod_InvalidNeverStored(t *testing.T) {
	repo := &infrastructure.MockPaymentMethodRepository{}
	svc := NewPaymentMethodService(repo, nil)

	_, err := svc.AddPaymentMethod(context.Background(), userID, domain.NewPaymentMethod{Type: domain.TypeBank, BankName: "Chase"})
	assert.ErrorIs(t, err, billingErrors.ErrBankDetails)
	assert.Empty(t, repo.Methods)
}
