package plans

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SalesRequest is a "Contact Sales" submission.
type SalesRequest struct {
	ID        uuid.UUID      `json:"id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Company   string         `json:"company"`
	Phone     string         `json:"phone"`
	Message   string         `json:"message"`
	Summary   string         `json:"summary"`
	Price     int            `json:"price"`
	CreatedAt time.Time      `json:"created_at"`
	Config    *Configuration `json:"configuration,omitempty"`
}

type SalesRepository interface {
	Save(ctx context.Context, req *SalesRequest) error
}

type salesRepository struct {
	db *sql.DB
}

func NewSalesRepository(db *sql.DB) SalesRepository {
	return &salesRepository{db: db}
}

func (r *salesRepository) Save(ctx context.Context, req *SalesRequest) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO sales_requests (id, name, email, company, phone, message, summary, price, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING created_at
	`, req.ID, req.Name, req.Email, req.Company, req.Phone, req.Message, req.Summary, req.Price).Scan(&req.CreatedAt)
	if err != nil {
		return fmt.Errorf("could not save sales request: %w", err)
	}
	return nil
}

type MockSalesRepository struct {
	mu       sync.Mutex
	Requests []SalesRequest
	Err      error
}

func (m *MockSalesRepository) Save(_ context.Context, req *SalesRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	req.CreatedAt = time.Now().UTC()
	m.Requests = append(m.Requests, *req)
	return nil
}
