package settings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

var ErrSettingsNotFound = errors.New("settings not found")

type Repository interface {
	Get(ctx context.Context, userID string) (*Settings, error)
	Save(ctx context.Context, userID string, s Settings) error
	Delete(ctx context.Context, userID string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Get(ctx context.Context, userID string) (*Settings, error) {
	var raw []byte
	err := r.db.QueryRowContext(ctx, "SELECT data FROM user_settings WHERE user_id = $1", userID).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSettingsNotFound
		}
		return nil, err
	}
	// stored documents may predate newer fields, which keep their defaults
	s := Defaults()
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("could not decode settings: %w", err)
	}
	return &s, nil
}

func (r *repository) Save(ctx context.Context, userID string, s Settings) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO user_settings (user_id, data, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()
	`, userID, raw)
	return err
}

func (r *repository) Delete(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM user_settings WHERE user_id = $1", userID)
	return err
}

// MockRepository keeps settings in memory.
type MockRepository struct {
	mu   sync.Mutex
	data map[string]Settings
	Err  error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{data: make(map[string]Settings)}
}

func (m *MockRepository) Get(_ context.Context, userID string) (*Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	s, ok := m.data[userID]
	if !ok {
		return nil, ErrSettingsNotFound
	}
	return &s, nil
}

func (m *MockRepository) Save(_ context.Context, userID string, s Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.data[userID] = s
	return nil
}

func (m *MockRepository) Delete(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, userID)
	return nil
}
