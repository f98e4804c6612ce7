package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

var (
	ErrUserNotFound             = errors.New("user not found")
	ErrProfileNotFound          = errors.New("profile not found")
	ErrVerificationCodeNotFound = errors.New("no verification code generated")
)

type Repository interface {
	CreateUser(ctx context.Context, user *User, fullName string) error
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id string) (*User, error)
	GetUserByGoogleSubject(ctx context.Context, subject string) (*User, error)
	LinkGoogleSubject(ctx context.Context, userID, subject string) error
	UpdatePasswordAndHashToken(ctx context.Context, userID, passwordHash, hashToken string) error

	SaveVerificationCode(ctx context.Context, code VerificationCode) error
	GetVerificationCode(ctx context.Context, userID string) (*VerificationCode, error)
	DeleteVerificationCode(ctx context.Context, userID string) error
	DeleteExpiredVerificationCodes(ctx context.Context, now time.Time) (int64, error)

	GetProfile(ctx context.Context, userID string) (*Profile, error)
	UpsertProfile(ctx context.Context, profile *Profile) error
	UpdateAvatarURL(ctx context.Context, userID, email, avatarURL string) error
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) Repository {
	return &userRepository{
		db: db,
	}
}

const userColumns = `id, email, password_hash, two_factor_enabled, hash_token, COALESCE(google_subject, ''), created_at, updated_at`

func scanUser(row *sql.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.TwoFactorEnabled, &u.HashToken, &u.GoogleSubject, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("could not find user: %w", err)
	}
	return &u, nil
}

// CreateUser inserts the account and its profile row in one transaction.
func (r *userRepository) CreateUser(ctx context.Context, user *User, fullName string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	var subject any
	if user.GoogleSubject != "" {
		subject = user.GoogleSubject
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO users (email, password_hash, two_factor_enabled, hash_token, google_subject, created_at, updated_at)
		VALUES ($1, $2, FALSE, $3, $4, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`, user.Email, user.PasswordHash, user.HashToken, subject).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrEmailAlreadyExists
		}
		return fmt.Errorf("could not create user: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO profiles (user_id, full_name, email, preferred_language, notification_email, notification_push, notification_updates)
		VALUES ($1, $2, $3, $4, TRUE, TRUE, FALSE)
	`, user.ID, fullName, user.Email, DefaultPreferredLanguage)
	if err != nil {
		return fmt.Errorf("could not create profile: %w", err)
	}

	return tx.Commit()
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *userRepository) GetUserByID(ctx context.Context, id string) (*User, error) {
	return scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *userRepository) GetUserByGoogleSubject(ctx context.Context, subject string) (*User, error) {
	return scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE google_subject = $1`, subject))
}

func (r *userRepository) LinkGoogleSubject(ctx context.Context, userID, subject string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET google_subject = $1, updated_at = NOW() WHERE id = $2`, subject, userID)
	if err != nil {
		return fmt.Errorf("could not link google account: %w", err)
	}
	return nil
}

func (r *userRepository) UpdatePasswordAndHashToken(ctx context.Context, userID, passwordHash, hashToken string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET password_hash = $1, hash_token = $2, updated_at = NOW()
		WHERE id = $3
	`, passwordHash, hashToken, userID)
	if err != nil {
		return fmt.Errorf("could not update password: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *userRepository) SaveVerificationCode(ctx context.Context, code VerificationCode) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_email_verification_codes (user_id, code, type, expires_at, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET code = EXCLUDED.code, type = EXCLUDED.type, expires_at = EXCLUDED.expires_at, created_at = NOW()
	`, code.UserID, code.Code, code.Type, code.ExpiresAt)
	if err != nil {
		return fmt.Errorf("could not save verification code: %w", err)
	}
	return nil
}

func (r *userRepository) GetVerificationCode(ctx context.Context, userID string) (*VerificationCode, error) {
	var c VerificationCode
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id, code, type, expires_at, created_at
		FROM user_email_verification_codes
		WHERE user_id = $1
	`, userID).Scan(&c.UserID, &c.Code, &c.Type, &c.ExpiresAt, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVerificationCodeNotFound
		}
		return nil, fmt.Errorf("could not get verification code: %w", err)
	}
	return &c, nil
}

func (r *userRepository) DeleteVerificationCode(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM user_email_verification_codes WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("could not delete verification code: %w", err)
	}
	return nil
}

func (r *userRepository) DeleteExpiredVerificationCodes(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM user_email_verification_codes WHERE expires_at < $1`, now)
	if err != nil {
		return 0, fmt.Errorf("could not purge verification codes: %w", err)
	}
	return res.RowsAffected()
}

func (r *userRepository) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	var p Profile
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id, full_name, email, company, location, avatar_url, preferred_language,
		       notification_email, notification_push, notification_updates, updated_at
		FROM profiles
		WHERE user_id = $1
	`, userID).Scan(&p.UserID, &p.FullName, &p.Email, &p.Company, &p.Location, &p.AvatarURL, &p.PreferredLanguage,
		&p.NotificationEmail, &p.NotificationPush, &p.NotificationUpdates, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("could not get profile: %w", err)
	}
	return &p, nil
}

func (r *userRepository) UpsertProfile(ctx context.Context, p *Profile) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO profiles (user_id, full_name, email, company, location, avatar_url, preferred_language,
		                      notification_email, notification_push, notification_updates, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET full_name = EXCLUDED.full_name,
		    company = EXCLUDED.company,
		    location = EXCLUDED.location,
		    preferred_language = EXCLUDED.preferred_language,
		    notification_email = EXCLUDED.notification_email,
		    notification_push = EXCLUDED.notification_push,
		    notification_updates = EXCLUDED.notification_updates,
		    updated_at = NOW()
		RETURNING updated_at
	`, p.UserID, p.FullName, p.Email, p.Company, p.Location, p.AvatarURL, p.PreferredLanguage,
		p.NotificationEmail, p.NotificationPush, p.NotificationUpdates).Scan(&p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("could not save profile: %w", err)
	}
	return nil
}

func (r *userRepository) UpdateAvatarURL(ctx context.Context, userID, email, avatarURL string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (user_id, email, avatar_url, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET avatar_url = EXCLUDED.avatar_url, updated_at = NOW()
	`, userID, email, avatarURL)
	if err != nil {
		return fmt.Errorf("could not update avatar: %w", err)
	}
	return nil
}
