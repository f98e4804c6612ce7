package support

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/badoux/checkmail"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vertox/portal/internal/clock"
	emailService "github.com/vertox/portal/internal/email"
	"github.com/vertox/portal/internal/validation"
)

const (
	maxNameChars    = 100
	maxSubjectChars = 200
	maxMessageChars = 5000

	// RecentLimit is how many of a user's own requests are listed.
	RecentLimit = 20
)

type Input struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type Service interface {
	Submit(ctx context.Context, userID string, in Input) (*Request, error)
	Recent(ctx context.Context, userID string) ([]Request, error)
}

type service struct {
	repo   Repository
	email  emailService.EmailSender
	inbox  string
	clock  clock.Clock
	logger *log.Logger
}

// NewService stores requests in repo and forwards each one to inbox. An empty inbox
// only stores them.
func NewService(repo Repository, email emailService.EmailSender, inbox string, clk clock.Clock, logger *log.Logger) Service {
	if clk == nil {
		clk = clock.NewSystem()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &service{
		repo:   repo,
		email:  email,
		inbox:  inbox,
		clock:  clk,
		logger: logger.With("component", "support"),
	}
}

func (in Input) trimmed() Input {
	return Input{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.TrimSpace(in.Email),
		Subject: strings.TrimSpace(in.Subject),
		Message: strings.TrimSpace(in.Message),
	}
}

// Validate checks the form the way the help page does, plus length caps.
func Validate(in Input) error {
	in = in.trimmed()
	errs := &validation.Errors{}
	required := func(field, value, label string, max int) {
		switch {
		case value == "":
			errs.Add(field, label+" is required")
		case utf8.RuneCountInString(value) > max:
			errs.Add(field, label+" is too long")
		}
	}
	required("name", in.Name, "Name", maxNameChars)
	if in.Email == "" {
		errs.Add("email", "Email is required")
	} else if checkmail.ValidateFormat(in.Email) != nil {
		errs.Add("email", "Please enter a valid email address")
	}
	required("subject", in.Subject, "Subject", maxSubjectChars)
	required("message", in.Message, "Message", maxMessageChars)
	return errs.ErrOrNil()
}

func (s *service) Submit(ctx context.Context, userID string, in Input) (*Request, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}
	in = in.trimmed()

	req := &Request{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      in.Name,
		Email:     in.Email,
		Subject:   in.Subject,
		Message:   in.Message,
		CreatedAt: s.clock.Now().UTC(),
	}
	if err := s.repo.Save(ctx, req); err != nil {
		return nil, err
	}

	if s.email != nil && s.inbox != "" {
		s.email.QueueEmail(s.inbox, emailService.SupportRequestData{
			Name:    req.Name,
			Email:   req.Email,
			Subject: req.Subject,
			Message: req.Message,
		})
	}
	s.logger.Info("support request received", "id", req.ID, "user_id", userID)
	return req, nil
}

func (s *service) Recent(ctx context.Context, userID string) ([]Request, error) {
	return s.repo.ListByUser(ctx, userID, RecentLimit)
}
