package emailService

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/smtp"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vertox/portal/internal/config"
)

//go:embed templates/*.html
var templateFiles embed.FS

const (
	subjectWelcome        = "Welcome to VertoX"
	templateWelcome       = "welcome.html"
	subjectResetPassword  = "Reset your VertoX password"
	templateResetPassword = "reset_password.html"
	subjectSalesRequest   = "New enterprise plan request"
	templateSalesRequest  = "sales_request.html"
	subjectCheckout       = "Your VertoX plan order"
	templateCheckout      = "checkout_confirmation.html"
	subjectSupport        = "New support request"
	templateSupport       = "support_request.html"
	defaultQueueSize      = 100
)

type EmailData interface {
	TemplateFileName() string
	Subject() string
}

type EmailSender interface {
	QueueEmail(to string, data EmailData)
}

type WelcomeData struct {
	FullName string
}

func (WelcomeData) TemplateFileName() string { return templateWelcome }
func (WelcomeData) Subject() string { return subjectWelcome }

type ResetPasswordData struct {
	FullName string
	Code     string
}

func (ResetPasswordData) TemplateFileName() string { return templateResetPassword }
func (ResetPasswordData) Subject() string { return subjectResetPassword }

type SalesRequestData struct {
	Name    string
	Email   string
	Company string
	Phone   string
	Message string
	Summary string
	Price   int
}

func (SalesRequestData) TemplateFileName() string { return templateSalesRequest }
func (SalesRequestData) Subject() string { return subjectSalesRequest }

type CheckoutConfirmationData struct {
	Email   string
	Method  string
	Summary string
	Price   int
}

func (CheckoutConfirmationData) TemplateFileName() string { return templateCheckout }
func (CheckoutConfirmationData) Subject() string { return subjectCheckout }

type SupportRequestData struct {
	Name    string
	Email   string
	Subject string
	Message string
}

func (SupportRequestData) TemplateFileName() string { return templateSupport }
func (SupportRequestData) Subject() string { return subjectSupport }

// SendFunc delivers one rendered message.
type SendFunc func(to, subject, htmlBody string) error

type EmailService struct {
	from      string
	password  string
	smtpHost  string
	smtpPort  string
	templates *template.Template
	send      SendFunc
	logger    *log.Logger

	taskQueue chan EmailTask
	mu        sync.Mutex
	closed    bool
	wg        sync.WaitGroup
}

type EmailTask struct {
	to   string
	data EmailData
}

// NewEmailService parses the embedded templates and starts the delivery worker.
// Without an sender address configured, messages are logged instead of sent.
func NewEmailService(cfg config.EmailConfig, logger *log.Logger) *EmailService {
	if logger == nil {
		logger = log.Default()
	}
	s := &EmailService{
		from:      cfg.Address,
		password:  cfg.Password,
		smtpHost:  cfg.SMTPHost,
		smtpPort:  cfg.SMTPPort,
		templates: template.Must(template.ParseFS(templateFiles, "templates/*.html")),
		logger:    logger.With("component", "email"),
		taskQueue: make(chan EmailTask, defaultQueueSize),
	}
	if cfg.Address == "" {
		s.send = s.logOnly
	} else {
		s.send = s.sendSMTP
	}

	s.wg.Add(1)
	go s.worker()
	return s
}

// WithSender replaces the delivery function. Used by tests and local tooling.
func (s *EmailService) WithSender(fn SendFunc) *EmailService {
	s.send = fn
	return s
}

func (s *EmailService) worker() {
	defer s.wg.Done()
	for task := range s.taskQueue {
		body, err := s.Render(task.data)
		if err != nil {
			s.logger.Error("render email", "to", task.to, "template", task.data.TemplateFileName(), "err", err)
			continue
		}
		if err := s.send(task.to, task.data.Subject(), body); err != nil {
			s.logger.Error("send email", "to", task.to, "err", err)
		}
	}
}

// QueueEmail schedules a message without blocking the caller. Messages queued after
// Close, or while the queue is full, are dropped.
func (s *EmailService) QueueEmail(to string, data EmailData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		s.logger.Warn("email queue closed, dropping message", "to", to, "subject", data.Subject())
		return
	}
	select {
	case s.taskQueue <- EmailTask{to: to, data: data}:
	default:
		s.logger.Warn("email queue full, dropping message", "to", to, "subject", data.Subject())
	}
}

// Close stops accepting messages and waits for queued ones to be delivered.
func (s *EmailService) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.taskQueue)
	s.mu.Unlock()
	s.wg.Wait()
}

// Render executes the template bound to data.
func (s *EmailService) Render(data EmailData) (string, error) {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, data.TemplateFileName(), data); err != nil {
		return "", fmt.Errorf("error executing template: %w", err)
	}
	return body.String(), nil
}

func (s *EmailService) sendSMTP(to, subject, htmlBody string) error {
	message := []byte("From: " + s.from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-version: 1.0;\r\n" +
		"Content-Type: text/html; charset=\"UTF-8\";\r\n\r\n" +
		htmlBody)

	auth := smtp.PlainAuth("", s.from, s.password, s.smtpHost)
	if err := smtp.SendMail(s.smtpHost+":"+s.smtpPort, auth, s.from, []string{to}, message); err != nil {
		return fmt.Errorf("error sending email: %w", err)
	}
	return nil
}

func (s *EmailService) logOnly(to, subject, _ string) error {
	s.logger.Info("email not sent, no sender configured", "to", to, "subject", subject)
	return nil
}
