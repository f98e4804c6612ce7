package plans

import (
	"context"
	"errors"
	"strings"

	"github.com/badoux/checkmail"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vertox/portal/internal/clock"
	emailService "github.com/vertox/portal/internal/email"
	"github.com/vertox/portal/internal/validation"
)

var (
	ErrSalesRequiredFields = errors.New("Please fill in required fields")
	ErrInvalidEmail        = errors.New("Please enter a valid email address")
)

type ContactSalesInput struct {
	Name          string         `json:"name"`
	Email         string         `json:"email"`
	Company       string         `json:"company"`
	Phone         string         `json:"phone"`
	Message       string         `json:"message"`
	Configuration *Configuration `json:"configuration,omitempty"`
}

type Service interface {
	Catalog() Catalog
	Quote(cfg Configuration) (*Quote, error)
	Proposal(cfg Configuration) (string, error)
	ContactSales(ctx context.Context, in ContactSalesInput) (*SalesRequest, error)
	Checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error)
}

type service struct {
	sales      SalesRepository
	email      emailService.EmailSender
	salesInbox string
	clock      clock.Clock
	logger     *log.Logger
}

func NewService(sales SalesRepository, email emailService.EmailSender, salesInbox string, clk clock.Clock, logger *log.Logger) Service {
	if clk == nil {
		clk = clock.NewSystem()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &service{
		sales:      sales,
		email:      email,
		salesInbox: salesInbox,
		clock:      clk,
		logger:     logger.With("component", "plans"),
	}
}

func (s *service) Catalog() Catalog {
	return DefaultCatalog()
}

func (s *service) Quote(cfg Configuration) (*Quote, error) {
	return NewQuote(cfg)
}

func (s *service) Proposal(cfg Configuration) (string, error) {
	q, err := NewQuote(cfg)
	if err != nil {
		return "", err
	}
	return RenderProposal(q, s.clock.Now()), nil
}

// ContactSales stores the request and notifies the sales inbox. An attached configuration
// is summarised and priced when it is complete.
func (s *service) ContactSales(ctx context.Context, in ContactSalesInput) (*SalesRequest, error) {
	if blank(in.Name) || blank(in.Email) || blank(in.Company) {
		return nil, ErrSalesRequiredFields
	}
	email := strings.TrimSpace(in.Email)
	if err := checkmail.ValidateFormat(email); err != nil {
		return nil, ErrInvalidEmail
	}

	req := &SalesRequest{
		ID:      uuid.New(),
		Name:    strings.TrimSpace(in.Name),
		Email:   email,
		Company: strings.TrimSpace(in.Company),
		Phone:   strings.TrimSpace(in.Phone),
		Message: strings.TrimSpace(in.Message),
		Config:  in.Configuration,
	}
	if in.Configuration != nil {
		if q, err := NewQuote(*in.Configuration); err == nil {
			req.Summary = q.Summary
			req.Price = q.Price
		} else {
			s.logger.Debug("sales request with incomplete configuration", "err", err)
		}
	}

	if err := s.sales.Save(ctx, req); err != nil {
		return nil, err
	}

	if s.email != nil && s.salesInbox != "" {
		s.email.QueueEmail(s.salesInbox, emailService.SalesRequestData{
			Name:    req.Name,
			Email:   req.Email,
			Company: req.Company,
			Phone:   req.Phone,
			Message: req.Message,
			Summary: req.Summary,
			Price:   req.Price,
		})
	}
	s.logger.Info("sales request received", "id", req.ID, "company", req.Company)
	return req, nil
}

// Checkout validates the payment form and reports the simulated payment as processing.
func (s *service) Checkout(_ context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	q, err := NewQuote(req.Configuration)
	if err != nil {
		return nil, err
	}
	if err := ValidateCheckout(req); err != nil {
		return nil, err
	}

	if s.email != nil {
		s.email.QueueEmail(strings.TrimSpace(req.Billing.Email), emailService.CheckoutConfirmationData{
			Email:   req.Billing.Email,
			Method:  req.Method,
			Summary: q.Summary,
			Price:   q.Price,
		})
	}
	return &CheckoutResult{
		Status:  StatusProcessing,
		Amount:  q.Price,
		Method:  req.Method,
		Message: "Payment processing... You will receive a confirmation email shortly.",
	}, nil
}

// firstMessage picks the toast text for a validation error.
func firstMessage(err error) (string, []string) {
	messages := validation.MessagesOf(err)
	if len(messages) == 0 {
		return err.Error(), nil
	}
	return messages[0], messages
}
