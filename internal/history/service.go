package history

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vertox/portal/internal/clock"
	"github.com/vertox/portal/internal/user"
)

type Service interface {
	List(ctx context.Context, userID string, f Filter) ([]View, error)
	Recent(ctx context.Context, userID string) ([]View, error)
	Stats(ctx context.Context, userID string) (Stats, error)
	Delete(ctx context.Context, userID string, id uuid.UUID) error
	Clear(ctx context.Context, userID string) (int64, error)
	Seed(ctx context.Context, userID string) error
	Record(ctx context.Context, s Session) (*Session, error)
}

type service struct {
	repo   Repository
	clock  clock.Clock
	logger *log.Logger
}

func NewService(repo Repository, clk clock.Clock, logger *log.Logger) Service {
	if clk == nil {
		clk = clock.NewSystem()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &service{repo: repo, clock: clk, logger: logger.With("component", "history")}
}

func views(sessions []Session) []View {
	out := make([]View, len(sessions))
	for i, s := range sessions {
		out[i] = NewView(s)
	}
	return out
}

func (s *service) List(ctx context.Context, userID string, f Filter) ([]View, error) {
	f, err := f.Normalize()
	if err != nil {
		return nil, err
	}
	sessions, err := s.repo.List(ctx, userID, f)
	if err != nil {
		return nil, err
	}
	return views(sessions), nil
}

func (s *service) Recent(ctx context.Context, userID string) ([]View, error) {
	sessions, err := s.repo.List(ctx, userID, Filter{Limit: RecentLimit})
	if err != nil {
		return nil, err
	}
	return views(sessions), nil
}

// Stats counts a session toward this week when it started within the last seven days.
func (s *service) Stats(ctx context.Context, userID string) (Stats, error) {
	return s.repo.Stats(ctx, userID, s.clock.Now().AddDate(0, 0, -7))
}

func (s *service) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	return s.repo.Delete(ctx, userID, id)
}

func (s *service) Clear(ctx context.Context, userID string) (int64, error) {
	n, err := s.repo.DeleteAll(ctx, userID)
	if err != nil {
		return 0, err
	}
	s.logger.Info("history cleared", "user", userID, "sessions", n)
	return n, nil
}

func (s *service) Seed(ctx context.Context, userID string) error {
	return s.repo.CreateBulk(ctx, DemoSessions(userID, s.clock.Now()))
}

// Record stores a finished session and assigns its id.
func (s *service) Record(ctx context.Context, session Session) (*Session, error) {
	if !isKind(session.Kind) {
		return nil, ErrInvalidKind
	}
	if session.DurationMinutes < 0 {
		session.DurationMinutes = 0
	}
	session.ID = uuid.New()
	if err := s.repo.CreateBulk(ctx, []Session{session}); err != nil {
		return nil, err
	}
	s.logger.Debug("session recorded", "user", session.UserID, "minutes", session.DurationMinutes)
	return &session, nil
}

// SeedHook seeds the demo sessions for every new account.
func SeedHook(svc Service) user.RegistrationHook {
	return func(ctx context.Context, u *user.User) error {
		return svc.Seed(ctx, u.ID)
	}
}
