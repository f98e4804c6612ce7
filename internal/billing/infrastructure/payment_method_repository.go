package infrastructure

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	billingErrors "github.com/vertox/portal/internal/billing/errors"
	"github.com/vertox/portal/internal/billing/domain"
)

type PaymentMethodRepository struct {
	db *sql.DB
}

func NewPaymentMethodRepository(db *sql.DB) *PaymentMethodRepository {
	return &PaymentMethodRepository{db: db}
}

func (r *PaymentMethodRepository) FindByUser(ctx context.Context, userID string) ([]domain.PaymentMethod, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, type, name, details, is_default, created_at
		FROM payment_methods
		WHERE user_id = $1
		ORDER BY created_at, id
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var methods []domain.PaymentMethod
	for rows.Next() {
		var pm domain.PaymentMethod
		if err := rows.Scan(&pm.ID, &pm.UserID, &pm.Type, &pm.Name, &pm.Details, &pm.IsDefault, &pm.CreatedAt); err != nil {
			return nil, err
		}
		methods = append(methods, pm)
	}
	return methods, rows.Err()
}

func (r *PaymentMethodRepository) Create(ctx context.Context, pm *domain.PaymentMethod) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO payment_methods (id, user_id, type, name, details, is_default)
		VALUES ($1, $2, $3, $4, $5, NOT EXISTS (SELECT 1 FROM payment_methods WHERE user_id = $2))
		RETURNING is_default, created_at
	`, pm.ID, pm.UserID, pm.Type, pm.Name, pm.Details).Scan(&pm.IsDefault, &pm.CreatedAt)
	if err != nil {
		return fmt.Errorf("could not save payment method: %w", err)
	}
	return nil
}

func (r *PaymentMethodRepository) Delete(ctx context.Context, id uuid.UUID, userID string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM payment_methods WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return billingErrors.ErrPaymentMethodNotFound
	}
	return nil
}

func (r *PaymentMethodRepository) SetDefault(ctx context.Context, id uuid.UUID, userID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM payment_methods WHERE id = $1 AND user_id = $2)", id, userID).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return billingErrors.ErrPaymentMethodNotFound
	}

	if _, err := tx.ExecContext(ctx, "UPDATE payment_methods SET is_default = FALSE WHERE user_id = $1 AND is_default", userID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "UPDATE payment_methods SET is_default = TRUE WHERE id = $1", id); err != nil {
		return err
	}
	return tx.Commit()
}
