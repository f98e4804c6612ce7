package interfaces

import (
	"context"

	"github.com/google/uuid"

	"github.com/vertox/portal/internal/billing/domain"
)

type MockPaymentMethodService struct {
	methods []domain.PaymentMethod
	err     error
	removed []uuid.UUID
}

func NewMockPaymentMethodService(methods []domain.PaymentMethod, err error) *MockPaymentMethodService {
	return &MockPaymentMethodService{methods: methods, err: err}
}

func (m *MockPaymentMethodService) ListPaymentMethods(_ context.Context, _ string) ([]domain.PaymentMethod, error) {
	return m.methods, m.err
}

func (m *MockPaymentMethodService) AddPaymentMethod(_ context.Context, userID string, in domain.NewPaymentMethod) (*domain.PaymentMethod, error) {
	if m.err != nil {
		return nil, m.err
	}
	pm, err := in.Mask()
	if err != nil {
		return nil, err
	}
	pm.ID = uuid.New()
	pm.UserID = userID
	pm.IsDefault = len(m.methods) == 0
	m.methods = append(m.methods, *pm)
	return pm, nil
}

func (m *MockPaymentMethodService) RemovePaymentMethod(_ context.Context, _ string, id uuid.UUID) error {
	if m.err != nil {
		return m.err
	}
	m.removed = append(m.removed, id)
	return nil
}

func (m *MockPaymentMethodService) SetDefaultPaymentMethod(_ context.Context, _ string, _ uuid.UUID) error {
	return m.err
}
