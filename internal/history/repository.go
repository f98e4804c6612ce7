package history

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	List(ctx context.Context, userID string, f Filter) ([]Session, error)
	CreateBulk(ctx context.Context, sessions []Session) error
	Delete(ctx context.Context, userID string, id uuid.UUID) error
	DeleteAll(ctx context.Context, userID string) (int64, error)
	Stats(ctx context.Context, userID string, weekStart time.Time) (Stats, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *repository) List(ctx context.Context, userID string, f Filter) ([]Session, error) {
	query := `SELECT id, user_id, title, source_language, target_language, duration_minutes, kind, started_at
		FROM translation_sessions WHERE user_id = $1`
	args := []interface{}{userID}

	if f.Kind != "" {
		args = append(args, f.Kind)
		query += fmt.Sprintf(" AND kind = $%d", len(args))
	}
	if f.Query != "" {
		args = append(args, "%"+likeEscaper.Replace(f.Query)+"%")
		query += fmt.Sprintf(" AND title ILIKE $%d", len(args))
	}
	query += " ORDER BY started_at DESC"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var s Session
		if err := rows.Scan(&s.ID, &s.UserID, &s.Title, &s.SourceLanguage, &s.TargetLanguage, &s.DurationMinutes, &s.Kind, &s.StartedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func (r *repository) CreateBulk(ctx context.Context, sessions []Session) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO translation_sessions (id, user_id, title, source_language, target_language, duration_minutes, kind, started_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, s := range sessions {
		if _, err := stmt.ExecContext(ctx, s.ID, s.UserID, s.Title, s.SourceLanguage, s.TargetLanguage, s.DurationMinutes, s.Kind, s.StartedAt); err != nil {
			return fmt.Errorf("could not insert session %q: %w", s.Title, err)
		}
	}
	return tx.Commit()
}

func (r *repository) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM translation_sessions WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (r *repository) DeleteAll(ctx context.Context, userID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM translation_sessions WHERE user_id = $1", userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *repository) Stats(ctx context.Context, userID string, weekStart time.Time) (Stats, error) {
	var st Stats
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COALESCE(SUM(duration_minutes), 0),
			COUNT(DISTINCT target_language),
			COUNT(*) FILTER (WHERE started_at >= $2)
		FROM translation_sessions
		WHERE user_id = $1
	`, userID, weekStart).Scan(&st.TotalSessions, &st.TotalMinutes, &st.LanguagesUsed, &st.ThisWeek)
	if err != nil {
		return Stats{}, err
	}
	st.TotalDuration = FormatDuration(st.TotalMinutes)
	return st, nil
}
