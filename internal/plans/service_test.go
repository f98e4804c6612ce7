package plans

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vertox/portal/internal/clock"
	emailService "github.com/vertox/portal/internal/email"
	"github.com/vertox/portal/internal/validation"
)

type recordingSender struct {
	mu   sync.Mutex
	to   []string
	sent []emailService.EmailData
}

func (r *recordingSender) QueueEmail(to string, data emailService.EmailData) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.to = append(r.to, to)
	r.sent = append(r.sent, data)
}

func newTestService() (Service, *MockSalesRepository, *recordingSender) {
	repo := &MockSalesRepository{}
	sender := &recordingSender{}
	svc := NewService(repo, sender, "sales@vertox.io", clock.NewFixed(time.Date(2024, 12, 15, 12, 0, 0, 0, time.UTC)), nil)
	return svc, repo, sender
}

func TestContactSales(t *testing.T) {
	svc, repo, sender := newTestService()
	cfg := baseConfig()

	req, err := svc.ContactSales(context.Background(), ContactSalesInput{
		Name:          " Ana ",
		Email:         "ana@acme.com",
		Company:       "Acme",
		Message:       "We run a summit in May",
		Configuration: &cfg,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana", req.Name)
	assert.Equal(t, 500, req.Price)
	assert.NotEmpty(t, req.Summary)

	require.Len(t, repo.Requests, 1)
	assert.Equal(t, req.ID, repo.Requests[0].ID)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "sales@vertox.io", sender.to[0])
	data, ok := sender.sent[0].(emailService.SalesRequestData)
	require.True(t, ok)
	assert.Equal(t, "Acme", data.Company)
	assert.Equal(t, 500, data.Price)
}

func TestContactSales_RequiredFields(t *testing.T) {
	svc, repo, sender := newTestService()

	_, err := svc.ContactSales(context.Background(), ContactSalesInput{Name: "Ana", Email: "ana@acme.com"})
	assert.ErrorIs(t, err, ErrSalesRequiredFields)
	assert.Equal(t, "Please fill in required fields", err.Error())

	_, err = svc.ContactSales(context.Background(), ContactSalesInput{Name: "Ana", Email: "not-an-email", Company: "Acme"})
	assert.ErrorIs(t, err, ErrInvalidEmail)

	assert.Empty(t, repo.Requests)
	assert.Empty(t, sender.sent)
}

func TestContactSales_IncompleteConfigurationIsNotFatal(t *testing.T) {
	svc, _, _ := newTestService()
	cfg := Configuration{SourceLanguage: "en"}

	req, err := svc.ContactSales(context.Background(), ContactSalesInput{Name: "Ana", Email: "ana@acme.com", Company: "Acme", Configuration: &cfg})
	require.NoError(t, err)
	assert.Empty(t, req.Summary)
	assert.Zero(t, req.Price)
}

func TestContactSales_RepositoryError(t *testing.T) {
	svc, repo, sender := newTestService()
	repo.Err = errors.New("db down")

	_, err := svc.ContactSales(context.Background(), ContactSalesInput{Name: "Ana", Email: "ana@acme.com", Company: "Acme"})
	assert.Error(t, err)
	assert.Empty(t, sender.sent)
}

func TestCheckout(t *testing.T) {
	svc, _, sender := newTestService()

	result, err := svc.Checkout(context.Background(), validCheckout())
	require.NoError(t, err)
	assert.Equal(t, StatusProcessing, result.Status)
	assert.Equal(t, 500, result.Amount)
	assert.Equal(t, "Payment processing... You will receive a confirmation email shortly.", result.Message)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "ana@example.com", sender.to[0])
	assert.IsType(t, emailService.CheckoutConfirmationData{}, sender.sent[0])
}

func TestCheckout_Rejected(t *testing.T) {
	svc, _, sender := newTestService()

	req := validCheckout()
	req.Configuration.Criticality = ""
	_, err := svc.Checkout(context.Background(), req)
	assert.ErrorIs(t, err, ErrIncompleteConfiguration)

	req = validCheckout()
	req.Card.Number = ""
	_, err = svc.Checkout(context.Background(), req)
	assert.EqualError(t, err, "validation failed: "+msgCardDetails)

	req = validCheckout()
	req.Billing.Email = "nobody"
	_, err = svc.Checkout(context.Background(), req)
	assert.True(t, validation.IsValidationErrors(err))

	assert.Empty(t, sender.sent)
}

func TestProposalUsesClock(t *testing.T) {
	svc, _, _ := newTestService()
	text, err := svc.Proposal(baseConfig())
	require.NoError(t, err)
	assert.Contains(t, text, "Issued: December 15, 2024")
}
