package application

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vertox/portal/internal/billing/domain"
)

type PaymentMethodService struct {
	repo   domain.PaymentMethodRepository
	logger *log.Logger
}

func NewPaymentMethodService(repo domain.PaymentMethodRepository, logger *log.Logger) *PaymentMethodService {
	if logger == nil {
		logger = log.Default()
	}
	return &PaymentMethodService{repo: repo, logger: logger.With("component", "billing")}
}

func (s *PaymentMethodService) ListPaymentMethods(ctx context.Context, userID string) ([]domain.PaymentMethod, error) {
	methods, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if methods == nil {
		return []domain.PaymentMethod{}, nil
	}
	return methods, nil
}

func (s *PaymentMethodService) AddPaymentMethod(ctx context.Context, userID string, in domain.NewPaymentMethod) (*domain.PaymentMethod, error) {
	pm, err := in.Mask()
	if err != nil {
		return nil, err
	}
	pm.ID = uuid.New()
	pm.UserID = userID
	if err := s.repo.Create(ctx, pm); err != nil {
		return nil, err
	}
	s.logger.Info("payment method added", "user", userID, "type", pm.Type, "default", pm.IsDefault)
	return pm, nil
}

// RemovePaymentMethod leaves the user without a default when the default is removed.
func (s *PaymentMethodService) RemovePaymentMethod(ctx context.Context, userID string, id uuid.UUID) error {
	return s.repo.Delete(ctx, id, userID)
}

func (s *PaymentMethodService) SetDefaultPaymentMethod(ctx context.Context, userID string, id uuid.UUID) error {
	return s.repo.SetDefault(ctx, id, userID)
}
