package history

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MockRepository is an in-memory Repository for tests.
type MockRepository struct {
	mu       sync.Mutex
	sessions []Session
	Err      error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{}
}

func (m *MockRepository) List(_ context.Context, userID string, f Filter) ([]Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var out []Session
	for _, s := range m.sessions {
		if s.UserID == userID && f.Matches(s) {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (m *MockRepository) CreateBulk(_ context.Context, sessions []Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.sessions = append(m.sessions, sessions...)
	return nil
}

func (m *MockRepository) Delete(_ context.Context, userID string, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, s := range m.sessions {
		if s.ID == id && s.UserID == userID {
			m.sessions = append(m.sessions[:i], m.sessions[i+1:]...)
			return nil
		}
	}
	return ErrSessionNotFound
}

func (m *MockRepository) DeleteAll(_ context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.sessions[:0]
	var n int64
	for _, s := range m.sessions {
		if s.UserID == userID {
			n++
			continue
		}
		kept = append(kept, s)
	}
	m.sessions = kept
	return n, nil
}

func (m *MockRepository) Stats(_ context.Context, userID string, weekStart time.Time) (Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return Stats{}, m.Err
	}
	var st Stats
	langs := make(map[string]struct{})
	for _, s := range m.sessions {
		if s.UserID != userID {
			continue
		}
		st.TotalSessions++
		st.TotalMinutes += s.DurationMinutes
		langs[s.TargetLanguage] = struct{}{}
		if !s.StartedAt.Before(weekStart) {
			st.ThisWeek++
		}
	}
	st.LanguagesUsed = len(langs)
	st.TotalDuration = FormatDuration(st.TotalMinutes)
	return st, nil
}
