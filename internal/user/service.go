package user

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/badoux/checkmail"
	"github.com/charmbracelet/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/vertox/portal/internal/clock"
	emailService "github.com/vertox/portal/internal/email"
	"github.com/vertox/portal/internal/storage"
)

const (
	bcryptCost     = 12
	maxEmailLength = 254
	MaxAvatarBytes = 5 * 1024 * 1024
)

var (
	ErrInvalidEmail        = errors.New("Please enter a valid email address")
	ErrEmailAlreadyExists  = errors.New("This email is already registered. Please sign in.")
	ErrFullNameRequired    = errors.New("Name is required")
	ErrPasswordsDoNotMatch = errors.New("Passwords do not match")
	ErrInvalidOldPassword  = errors.New("invalid old password")
	ErrNotAnImage          = errors.New("Please upload an image file")
	ErrAvatarTooLarge      = errors.New("Image must be less than 5MB")
	ErrInternalError       = errors.New("internal Server Error")
)

type RegisterInput struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	FullName        string `json:"full_name"`
}

type AvatarUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// RegistrationHook runs after an account is created. A failing hook is logged and
// does not undo the registration.
type RegistrationHook func(ctx context.Context, u *User) error

type Service interface {
	Register(ctx context.Context, in RegisterInput) (*User, error)
	FindOrCreateGoogleUser(ctx context.Context, subject, email, fullName string) (*User, error)
	GetUserByID(ctx context.Context, userID string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	ChangePasswordWithOldPassword(ctx context.Context, userID, oldPassword, newPassword string) error
	ResetPassword(ctx context.Context, userID, newPassword string) error

	SaveVerificationCode(ctx context.Context, code VerificationCode) error
	GetVerificationCode(ctx context.Context, userID string) (*VerificationCode, error)
	DeleteVerificationCode(ctx context.Context, userID string) error
	PurgeExpiredVerificationCodes(ctx context.Context) (int64, error)

	GetProfile(ctx context.Context, userID string) (*Profile, error)
	UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*Profile, error)
	UploadAvatar(ctx context.Context, userID string, upload AvatarUpload) (*Profile, error)
}

type service struct {
	repo         Repository
	emailService emailService.EmailSender
	avatars      storage.AvatarStore
	clock        clock.Clock
	logger       *log.Logger
	hooks        []RegistrationHook
}

func NewUserService(repo Repository, emailSender emailService.EmailSender, avatars storage.AvatarStore, clk clock.Clock, logger *log.Logger, hooks ...RegistrationHook) Service {
	if clk == nil {
		clk = clock.NewSystem()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &service{
		repo:         repo,
		emailService: emailSender,
		avatars:      avatars,
		clock:        clk,
		logger:       logger.With("component", "user"),
		hooks:        hooks,
	}
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("could not hash password: %w", err)
	}
	return string(hashed), nil
}

// DoPasswordsMatch reports whether password matches the stored bcrypt hash.
// Accounts created through Google have no hash and never match.
func DoPasswordsMatch(hashedPassword, password string) bool {
	if hashedPassword == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}

func generateHashToken() (string, error) {
	token := make([]byte, 32)
	if _, err := rand.Read(token); err != nil {
		return "", fmt.Errorf("could not generate hash token: %w", err)
	}
	return hex.EncodeToString(token), nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmailAddress(email string) error {
	if len(email) > maxEmailLength {
		return ErrInvalidEmail
	}
	if err := checkmail.ValidateFormat(email); err != nil {
		return ErrInvalidEmail
	}
	return nil
}

func (s *service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	email := NormalizeEmail(in.Email)
	if err := validateEmailAddress(email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(in.Password); err != nil {
		return nil, err
	}
	if in.Password != in.ConfirmPassword {
		return nil, ErrPasswordsDoNotMatch
	}
	fullName := strings.TrimSpace(in.FullName)
	if fullName == "" {
		return nil, ErrFullNameRequired
	}

	passwordHash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	hashToken, err := generateHashToken()
	if err != nil {
		return nil, err
	}

	u := &User{
		Email:        email,
		PasswordHash: passwordHash,
		HashToken:    hashToken,
	}
	if err := s.repo.CreateUser(ctx, u, fullName); err != nil {
		return nil, err
	}

	s.afterRegister(ctx, u, fullName)
	return u, nil
}

// FindOrCreateGoogleUser resolves a Google identity to an account. An existing account
// with the same email is linked instead of duplicated.
func (s *service) FindOrCreateGoogleUser(ctx context.Context, subject, email, fullName string) (*User, error) {
	u, err := s.repo.GetUserByGoogleSubject(ctx, subject)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	email = NormalizeEmail(email)
	u, err = s.repo.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if err := s.repo.LinkGoogleSubject(ctx, u.ID, subject); err != nil {
			return nil, err
		}
		u.GoogleSubject = subject
		return u, nil
	case !errors.Is(err, ErrUserNotFound):
		return nil, err
	}

	if err := validateEmailAddress(email); err != nil {
		return nil, err
	}
	hashToken, err := generateHashToken()
	if err != nil {
		return nil, err
	}
	u = &User{
		Email:         email,
		HashToken:     hashToken,
		GoogleSubject: subject,
	}
	if err := s.repo.CreateUser(ctx, u, strings.TrimSpace(fullName)); err != nil {
		return nil, err
	}
	s.afterRegister(ctx, u, fullName)
	return u, nil
}

func (s *service) afterRegister(ctx context.Context, u *User, fullName string) {
	if s.emailService != nil {
		s.emailService.QueueEmail(u.Email, emailService.WelcomeData{FullName: fullName})
	}
	for _, hook := range s.hooks {
		if err := hook(ctx, u); err != nil {
			s.logger.Warn("registration hook failed", "user_id", u.ID, "err", err)
		}
	}
}

func (s *service) GetUserByID(ctx context.Context, userID string) (*User, error) {
	return s.repo.GetUserByID(ctx, userID)
}

func (s *service) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return s.repo.GetUserByEmail(ctx, NormalizeEmail(email))
}

func (s *service) ChangePasswordWithOldPassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	u, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if !DoPasswordsMatch(u.PasswordHash, oldPassword) {
		return ErrInvalidOldPassword
	}
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}
	return s.changePassword(ctx, userID, newPassword)
}

// ResetPassword sets a new password without the old one. Callers verify the reset code first.
func (s *service) ResetPassword(ctx context.Context, userID, newPassword string) error {
	return s.changePassword(ctx, userID, newPassword)
}

// changePassword also rotates the hash token, which invalidates every refresh token issued before.
func (s *service) changePassword(ctx context.Context, userID, newPassword string) error {
	passwordHash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	hashToken, err := generateHashToken()
	if err != nil {
		return err
	}
	return s.repo.UpdatePasswordAndHashToken(ctx, userID, passwordHash, hashToken)
}

func (s *service) SaveVerificationCode(ctx context.Context, code VerificationCode) error {
	return s.repo.SaveVerificationCode(ctx, code)
}

func (s *service) GetVerificationCode(ctx context.Context, userID string) (*VerificationCode, error) {
	return s.repo.GetVerificationCode(ctx, userID)
}

func (s *service) DeleteVerificationCode(ctx context.Context, userID string) error {
	return s.repo.DeleteVerificationCode(ctx, userID)
}

func (s *service) PurgeExpiredVerificationCodes(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpiredVerificationCodes(ctx, s.clock.Now())
}

// GetProfile returns the stored profile, or the defaults when the row does not exist yet.
func (s *service) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	p, err := s.repo.GetProfile(ctx, userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrProfileNotFound) {
		return nil, err
	}

	u, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	def := DefaultProfile(userID, u.Email)
	return &def, nil
}

func (s *service) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*Profile, error) {
	p, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	update.apply(p)
	if err := s.repo.UpsertProfile(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) UploadAvatar(ctx context.Context, userID string, upload AvatarUpload) (*Profile, error) {
	if !strings.HasPrefix(upload.ContentType, "image/") {
		return nil, ErrNotAnImage
	}
	if upload.Size > MaxAvatarBytes {
		return nil, ErrAvatarTooLarge
	}

	p, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	// the declared size is not trusted, the body is capped while reading
	data, err := io.ReadAll(io.LimitReader(upload.Body, MaxAvatarBytes+1))
	if err != nil {
		return nil, fmt.Errorf("could not read avatar: %w", err)
	}
	if len(data) > MaxAvatarBytes {
		return nil, ErrAvatarTooLarge
	}

	ext, ok := avatarExtension(data)
	if !ok {
		return nil, ErrNotAnImage
	}

	objectPath, err := s.avatars.Upload(ctx, userID, ext, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("could not upload avatar: %w", err)
	}

	p.AvatarURL = s.avatars.PublicURL(objectPath)
	if err := s.repo.UpdateAvatarURL(ctx, userID, p.Email, p.AvatarURL); err != nil {
		return nil, err
	}
	return p, nil
}

// avatarTypes are the only formats stored as avatars. The extension is picked from
// the sniffed bytes, never from the client's filename or declared type.
var avatarTypes = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/gif":  "gif",
	"image/webp": "webp",
}

func avatarExtension(data []byte) (string, bool) {
	ext, ok := avatarTypes[http.DetectContentType(data)]
	return ext, ok
}
