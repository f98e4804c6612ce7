package auth

import (
	"context"
	"sync"
)

// TwoFactorFlagSetter is the part of the user store the in-memory repository toggles.
type TwoFactorFlagSetter interface {
	SetTwoFactorEnabled(userID string, enabled bool)
}

// MockTwoFactorRepository keeps secrets in memory and mirrors the enabled flag onto users.
type MockTwoFactorRepository struct {
	mu      sync.Mutex
	secrets map[string]string
	users   TwoFactorFlagSetter
}

func NewMockTwoFactorRepository(users TwoFactorFlagSetter) *MockTwoFactorRepository {
	return &MockTwoFactorRepository{
		secrets: make(map[string]string),
		users:   users,
	}
}

func (m *MockTwoFactorRepository) SaveTwoFactorSecret(_ context.Context, userID, secret string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.secrets[userID] = secret
	return nil
}

func (m *MockTwoFactorRepository) GetTwoFactorSecret(_ context.Context, userID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	secret, ok := m.secrets[userID]
	if !ok {
		return "", ErrTwoFactorNotRegistered
	}
	return secret, nil
}

func (m *MockTwoFactorRepository) EnableTwoFactor(_ context.Context, userID string) error {
	m.users.SetTwoFactorEnabled(userID, true)
	return nil
}

func (m *MockTwoFactorRepository) DisableTwoFactor(_ context.Context, userID string) error {
	m.mu.Lock()
	delete(m.secrets, userID)
	m.mu.Unlock()
	m.users.SetTwoFactorEnabled(userID, false)
	return nil
}
