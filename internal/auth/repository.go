package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type TwoFactorRepository interface {
	SaveTwoFactorSecret(ctx context.Context, userID, secret string) error
	GetTwoFactorSecret(ctx context.Context, userID string) (string, error)
	EnableTwoFactor(ctx context.Context, userID string) error
	DisableTwoFactor(ctx context.Context, userID string) error
}

type twoFactorRepository struct {
	db *sql.DB
}

func NewTwoFactorRepository(db *sql.DB) TwoFactorRepository {
	return &twoFactorRepository{
		db: db,
	}
}

func (r *twoFactorRepository) SaveTwoFactorSecret(ctx context.Context, userID, secret string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_two_factor_secrets (user_id, encrypted_secret, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET encrypted_secret = EXCLUDED.encrypted_secret,
		    created_at = NOW()
	`, userID, secret)
	if err != nil {
		return fmt.Errorf("could not save two-factor secret: %w", err)
	}
	return nil
}

func (r *twoFactorRepository) GetTwoFactorSecret(ctx context.Context, userID string) (string, error) {
	var secret string
	err := r.db.QueryRowContext(ctx, `
		SELECT encrypted_secret
		FROM user_two_factor_secrets
		WHERE user_id = $1
	`, userID).Scan(&secret)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrTwoFactorNotRegistered
		}
		return "", fmt.Errorf("could not get two-factor secret: %w", err)
	}
	return secret, nil
}

func (r *twoFactorRepository) EnableTwoFactor(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET two_factor_enabled = TRUE, updated_at = NOW()
		WHERE id = $1
	`, userID)
	if err != nil {
		return fmt.Errorf("could not enable two-factor authentication: %w", err)
	}
	return nil
}

// DisableTwoFactor clears the flag and deletes the stored secret in one transaction.
func (r *twoFactorRepository) DisableTwoFactor(ctx context.Context, userID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		UPDATE users SET two_factor_enabled = FALSE, updated_at = NOW() WHERE id = $1
	`, userID); err != nil {
		return fmt.Errorf("could not disable two-factor authentication in users table: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM user_two_factor_secrets WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("could not delete TOTP secret: %w", err)
	}
	return tx.Commit()
}
