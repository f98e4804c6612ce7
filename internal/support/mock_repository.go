package support

import (
	"context"
	"sort"
	"sync"
)

// MockRepository keeps requests in memory.
type MockRepository struct {
	mu       sync.Mutex
	Requests []Request
	Err      error
}

func (m *MockRepository) Save(_ context.Context, req *Request) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Requests = append(m.Requests, *req)
	return nil
}

func (m *MockRepository) ListByUser(_ context.Context, userID string, limit int) ([]Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := []Request{}
	for _, r := range m.Requests {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
