package user

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MockRepository is an in-memory Repository for tests.
type MockRepository struct {
	mu       sync.Mutex
	users    map[string]*User
	profiles map[string]*Profile
	codes    map[string]*VerificationCode
	nextID   int
	Err      error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		users:    make(map[string]*User),
		profiles: make(map[string]*Profile),
		codes:    make(map[string]*VerificationCode),
	}
}

func (m *MockRepository) CreateUser(_ context.Context, u *User, fullName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return ErrEmailAlreadyExists
		}
	}
	m.nextID++
	u.ID = fmt.Sprintf("00000000-0000-0000-0000-%012d", m.nextID)
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	stored := *u
	m.users[u.ID] = &stored

	p := DefaultProfile(u.ID, u.Email)
	p.FullName = fullName
	m.profiles[u.ID] = &p
	return nil
}

func (m *MockRepository) find(match func(*User) bool) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for _, u := range m.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *MockRepository) GetUserByEmail(_ context.Context, email string) (*User, error) {
	return m.find(func(u *User) bool { return u.Email == email })
}

func (m *MockRepository) GetUserByID(_ context.Context, id string) (*User, error) {
	return m.find(func(u *User) bool { return u.ID == id })
}

func (m *MockRepository) GetUserByGoogleSubject(_ context.Context, subject string) (*User, error) {
	return m.find(func(u *User) bool { return u.GoogleSubject != "" && u.GoogleSubject == subject })
}

func (m *MockRepository) LinkGoogleSubject(_ context.Context, userID, subject string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	u.GoogleSubject = subject
	return nil
}

func (m *MockRepository) UpdatePasswordAndHashToken(_ context.Context, userID, passwordHash, hashToken string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	u.HashToken = hashToken
	return nil
}

// SetTwoFactorEnabled flips the flag the auth repository owns in production.
func (m *MockRepository) SetTwoFactorEnabled(userID string, enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[userID]; ok {
		u.TwoFactorEnabled = enabled
	}
}

func (m *MockRepository) SaveVerificationCode(_ context.Context, code VerificationCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if code.CreatedAt.IsZero() {
		code.CreatedAt = time.Now().UTC()
	}
	m.codes[code.UserID] = &code
	return nil
}

func (m *MockRepository) GetVerificationCode(_ context.Context, userID string) (*VerificationCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.codes[userID]
	if !ok {
		return nil, ErrVerificationCodeNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *MockRepository) DeleteVerificationCode(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.codes, userID)
	return nil
}

func (m *MockRepository) DeleteExpiredVerificationCodes(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, c := range m.codes {
		if c.ExpiresAt.Before(now) {
			delete(m.codes, id)
			n++
		}
	}
	return n, nil
}

func (m *MockRepository) GetProfile(_ context.Context, userID string) (*Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	p, ok := m.profiles[userID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockRepository) UpsertProfile(_ context.Context, p *Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	p.UpdatedAt = time.Now().UTC()
	cp := *p
	m.profiles[p.UserID] = &cp
	return nil
}

func (m *MockRepository) UpdateAvatarURL(_ context.Context, userID, email, avatarURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[userID]
	if !ok {
		def := DefaultProfile(userID, email)
		p = &def
		m.profiles[userID] = p
	}
	p.AvatarURL = avatarURL
	return nil
}

// DeleteProfile drops the profile row while keeping the account.
func (m *MockRepository) DeleteProfile(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.profiles, userID)
}
