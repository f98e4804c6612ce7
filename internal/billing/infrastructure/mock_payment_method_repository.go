package infrastructure

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	billingErrors "github.com/vertox/portal/internal/billing/errors"
	"github.com/vertox/portal/internal/billing/domain"
)

type MockPaymentMethodRepository struct {
	mu      sync.Mutex
	Methods []domain.PaymentMethod
	Err     error
}

func (m *MockPaymentMethodRepository) FindByUser(_ context.Context, userID string) ([]domain.PaymentMethod, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var out []domain.PaymentMethod
	for _, pm := range m.Methods {
		if pm.UserID == userID {
			out = append(out, pm)
		}
	}
	return out, nil
}

func (m *MockPaymentMethodRepository) Create(_ context.Context, pm *domain.PaymentMethod) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	pm.IsDefault = true
	for _, existing := range m.Methods {
		if existing.UserID == pm.UserID {
			pm.IsDefault = false
			break
		}
	}
	pm.CreatedAt = time.Now().UTC()
	m.Methods = append(m.Methods, *pm)
	return nil
}

func (m *MockPaymentMethodRepository) Delete(_ context.Context, id uuid.UUID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, pm := range m.Methods {
		if pm.ID == id && pm.UserID == userID {
			m.Methods = append(m.Methods[:i], m.Methods[i+1:]...)
			return nil
		}
	}
	return billingErrors.ErrPaymentMethodNotFound
}

func (m *MockPaymentMethodRepository) SetDefault(_ context.Context, id uuid.UUID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	found := false
	for _, pm := range m.Methods {
		if pm.ID == id && pm.UserID == userID {
			found = true
		}
	}
	if !found {
		return billingErrors.ErrPaymentMethodNotFound
	}
	for i := range m.Methods {
		if m.Methods[i].UserID == userID {
			m.Methods[i].IsDefault = m.Methods[i].ID == id
		}
	}
	return nil
}
