// Package support handles the "Contact Support" form of the help page.
package support

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Request is one message sent to the support team.
type Request struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"-"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type Repository interface {
	Save(ctx context.Context, req *Request) error
	ListByUser(ctx context.Context, userID string, limit int) ([]Request, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Save(ctx context.Context, req *Request) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO support_requests (id, user_id, name, email, subject, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`, req.ID, req.UserID, req.Name, req.Email, req.Subject, req.Message, req.CreatedAt).Scan(&req.CreatedAt)
	if err != nil {
		return fmt.Errorf("could not save support request: %w", err)
	}
	return nil
}

func (r *repository) ListByUser(ctx context.Context, userID string, limit int) ([]Request, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, name, email, subject, message, created_at
		FROM support_requests WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := []Request{}
	for rows.Next() {
		var req Request
		if err := rows.Scan(&req.ID, &req.UserID, &req.Name, &req.Email, &req.Subject, &req.Message, &req.CreatedAt); err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}
