package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vertox/portal/internal/clock"
	emailService "github.com/vertox/portal/internal/email"
	"github.com/vertox/portal/internal/user"
)

const (
	defaultCodeTimeout    = 2 * time.Minute
	defaultCodeExpiry     = 10 * time.Minute
	CodePassType          = "password"
	minResetPasswordChars = 6
	maxResetAttempts      = 5
)

var (
	ErrInvalidCredentials       = errors.New("Invalid email or password.")
	ErrPasswordRequired         = errors.New("Password is required")
	ErrInternalError            = errors.New("internal Server Error")
	ErrUser2FANotEnabled        = errors.New("two factor auth is not enabled")
	ErrUser2FAAlreadyEnabled    = errors.New("2fa auth already enabled")
	ErrTwoFactorNotRegistered   = errors.New("two factor auth has not been registered")
	ErrInvalid2FACode           = errors.New("2fa code is invalid")
	ErrInvalidVerificationCode  = errors.New("Invalid verification code")
	ErrVerificationCodeExpired  = errors.New("Verification code expired")
	ErrTooManyEmailCodeRequests = errors.New("Too many requests, please try again later")
	ErrResetPasswordTooShort    = errors.New("Password must be at least 6 characters")
)

// Tokens is the outcome of a successful credential check. When TwoFactorRequired is set only
// SessionToken is filled and the caller must finish with VerifyTwoFactor.
type Tokens struct {
	AccessToken       string
	RefreshToken      string
	SessionToken      string
	TwoFactorRequired bool
}

type ResetPasswordInput struct {
	Email           string `json:"email"`
	Code            string `json:"code"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// SessionInfo is what the browser sees as the current auth state.
type SessionInfo struct {
	UserID           string        `json:"user_id"`
	Email            string        `json:"email"`
	TwoFactorEnabled bool          `json:"two_factor_enabled"`
	GoogleLinked     bool          `json:"google_linked"`
	Profile          *user.Profile `json:"profile"`
}

type Service interface {
	SignUp(ctx context.Context, in user.RegisterInput) (*user.User, *Tokens, error)
	SignIn(ctx context.Context, email, password string) (*user.User, *Tokens, error)
	SignInWithGoogle(ctx context.Context, subject, email, fullName string) (*user.User, *Tokens, error)
	VerifyTwoFactor(ctx context.Context, sessionToken, code string) (*user.User, *Tokens, error)
	RegisterTwoFactor(ctx context.Context, userID string) (string, error)
	VerifyTwoFactorCode(ctx context.Context, userID, code string) error
	DisableTwoFactorAuth(ctx context.Context, userID, code string) error
	RefreshAccessToken(ctx context.Context, userID string) (*Tokens, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, in ResetPasswordInput) error
	Session(ctx context.Context, userID string) (*SessionInfo, error)
	CleanupSessions() int
	JWTRefreshTokenMiddleware() func(http.Handler) http.Handler
	JWTAccessTokenMiddleware() func(http.Handler) http.Handler
}

type service struct {
	repo           TwoFactorRepository
	userService    user.Service
	sessionManager SessionManagerInterface
	jwtManager     JWTManagerInterface
	emailService   emailService.EmailSender
	authenticator  TwoFactorAuthenticator
	clock          clock.Clock
	logger         *log.Logger

	// failed reset code guesses per user, cleared when a new code is issued
	attemptsMu    sync.Mutex
	resetAttempts map[string]int
}

func NewAuthService(repo TwoFactorRepository, userService user.Service, sessionManager SessionManagerInterface, jwtManager JWTManagerInterface, emailSender emailService.EmailSender, authenticator TwoFactorAuthenticator, clk clock.Clock, logger *log.Logger) Service {
	if clk == nil {
		clk = clock.NewSystem()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &service{
		repo:           repo,
		userService:    userService,
		sessionManager: sessionManager,
		jwtManager:     jwtManager,
		emailService:   emailSender,
		authenticator:  authenticator,
		clock:          clk,
		logger:         logger.With("component", "auth"),
		resetAttempts:  make(map[string]int),
	}
}

// GenerateVerificationCode returns a random 6-digit code.
func GenerateVerificationCode() (string, error) {
	code := make([]byte, 6)
	if _, err := rand.Read(code); err != nil {
		return "", fmt.Errorf("could not generate verification code: %w", err)
	}
	for i := range code {
		code[i] = '0' + (code[i] % 10)
	}
	return string(code), nil
}

func (s *service) issueTokens(u *user.User) (*Tokens, error) {
	accessToken, err := s.jwtManager.GenerateAccessJWT(u.ID, defaultJWTDuration)
	if err != nil {
		s.logger.Error("generate access token", "user_id", u.ID, "err", err)
		return nil, ErrInternalError
	}
	refreshToken, err := s.jwtManager.GenerateRefreshJWT(u.ID, u.HashToken, defaultJWTRefreshDuration)
	if err != nil {
		s.logger.Error("generate refresh token", "user_id", u.ID, "err", err)
		return nil, ErrInternalError
	}
	return &Tokens{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// completeSignIn hands out tokens, or a short-lived session token when TOTP is on.
func (s *service) completeSignIn(u *user.User) (*Tokens, error) {
	if !u.TwoFactorEnabled {
		return s.issueTokens(u)
	}
	sessionToken, err := s.sessionManager.GenerateSessionToken(u.ID, defaultSessionTokenDuration)
	if err != nil {
		return nil, ErrInternalError
	}
	return &Tokens{SessionToken: sessionToken, TwoFactorRequired: true}, nil
}

func (s *service) SignUp(ctx context.Context, in user.RegisterInput) (*user.User, *Tokens, error) {
	u, err := s.userService.Register(ctx, in)
	if err != nil {
		return nil, nil, err
	}
	tokens, err := s.issueTokens(u)
	if err != nil {
		return nil, nil, err
	}
	s.logger.Info("user signed up", "user_id", u.ID)
	return u, tokens, nil
}

func (s *service) SignIn(ctx context.Context, email, password string) (*user.User, *Tokens, error) {
	if password == "" {
		return nil, nil, ErrPasswordRequired
	}
	existingUser, err := s.userService.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		s.logger.Error("sign in lookup", "err", err)
		return nil, nil, ErrInternalError
	}
	if !user.DoPasswordsMatch(existingUser.PasswordHash, password) {
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.completeSignIn(existingUser)
	if err != nil {
		return nil, nil, err
	}
	return existingUser, tokens, nil
}

func (s *service) SignInWithGoogle(ctx context.Context, subject, email, fullName string) (*user.User, *Tokens, error) {
	u, err := s.userService.FindOrCreateGoogleUser(ctx, subject, email, fullName)
	if err != nil {
		return nil, nil, err
	}
	tokens, err := s.completeSignIn(u)
	if err != nil {
		return nil, nil, err
	}
	return u, tokens, nil
}

func (s *service) VerifyTwoFactor(ctx context.Context, sessionToken, code string) (*user.User, *Tokens, error) {
	userID, err := s.sessionManager.VerifySessionToken(sessionToken)
	if err != nil {
		return nil, nil, err
	}
	existingUser, err := s.userService.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, nil, user.ErrUserNotFound
		}
		return nil, nil, ErrInternalError
	}
	if !existingUser.TwoFactorEnabled {
		return nil, nil, ErrUser2FANotEnabled
	}

	secret, err := s.repo.GetTwoFactorSecret(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if !s.authenticator.VerifyCode(secret, code) {
		return nil, nil, ErrInvalid2FACode
	}
	s.sessionManager.DeleteSessionToken(sessionToken)

	tokens, err := s.issueTokens(existingUser)
	if err != nil {
		return nil, nil, err
	}
	return existingUser, tokens, nil
}

func (s *service) RegisterTwoFactor(ctx context.Context, userID string) (string, error) {
	existingUser, err := s.userService.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return "", user.ErrUserNotFound
		}
		return "", ErrInternalError
	}
	if existingUser.TwoFactorEnabled {
		return "", ErrUser2FAAlreadyEnabled
	}

	otpURI, secret, err := s.authenticator.GenerateSecret(existingUser.Email)
	if err != nil {
		s.logger.Error("generate totp secret", "user_id", userID, "err", err)
		return "", ErrInternalError
	}
	if err := s.repo.SaveTwoFactorSecret(ctx, userID, secret); err != nil {
		s.logger.Error("save totp secret", "user_id", userID, "err", err)
		return "", ErrInternalError
	}
	return otpURI, nil
}

// VerifyTwoFactorCode confirms a pending registration and turns two-factor on.
func (s *service) VerifyTwoFactorCode(ctx context.Context, userID, code string) error {
	existingUser, err := s.userService.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return user.ErrUserNotFound
		}
		return ErrInternalError
	}
	if existingUser.TwoFactorEnabled {
		return ErrUser2FAAlreadyEnabled
	}

	secret, err := s.repo.GetTwoFactorSecret(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrTwoFactorNotRegistered) {
			return err
		}
		return ErrInternalError
	}
	if !s.authenticator.VerifyCode(secret, code) {
		return ErrInvalid2FACode
	}
	if err := s.repo.EnableTwoFactor(ctx, userID); err != nil {
		s.logger.Error("enable two-factor", "user_id", userID, "err", err)
		return ErrInternalError
	}
	return nil
}

func (s *service) DisableTwoFactorAuth(ctx context.Context, userID, code string) error {
	existingUser, err := s.userService.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return user.ErrUserNotFound
		}
		return ErrInternalError
	}
	if !existingUser.TwoFactorEnabled {
		return ErrUser2FANotEnabled
	}

	secret, err := s.repo.GetTwoFactorSecret(ctx, userID)
	if err != nil {
		return ErrInternalError
	}
	if !s.authenticator.VerifyCode(secret, code) {
		return ErrInvalid2FACode
	}
	if err := s.repo.DisableTwoFactor(ctx, userID); err != nil {
		s.logger.Error("disable two-factor", "user_id", userID, "err", err)
		return ErrInternalError
	}
	return nil
}

// RefreshAccessToken requests are already checked in refresh token middleware.
func (s *service) RefreshAccessToken(ctx context.Context, userID string) (*Tokens, error) {
	existingUser, err := s.userService.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, ErrInternalError
	}
	return s.issueTokens(existingUser)
}

// RequestPasswordReset e-mails a reset code. Unknown addresses succeed silently so the
// endpoint does not reveal which e-mails have accounts.
func (s *service) RequestPasswordReset(ctx context.Context, email string) error {
	existingUser, err := s.userService.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			s.logger.Debug("password reset for unknown email")
			return nil
		}
		return ErrInternalError
	}

	now := s.clock.Now()
	stored, err := s.userService.GetVerificationCode(ctx, existingUser.ID)
	switch {
	case err == nil:
		if stored.Type == CodePassType && now.Sub(stored.CreatedAt) < defaultCodeTimeout {
			return ErrTooManyEmailCodeRequests
		}
	case !errors.Is(err, user.ErrVerificationCodeNotFound):
		return ErrInternalError
	}

	code, err := GenerateVerificationCode()
	if err != nil {
		return ErrInternalError
	}
	err = s.userService.SaveVerificationCode(ctx, user.VerificationCode{
		UserID:    existingUser.ID,
		Code:      code,
		Type:      CodePassType,
		ExpiresAt: now.Add(defaultCodeExpiry),
		CreatedAt: now,
	})
	if err != nil {
		s.logger.Error("save reset code", "user_id", existingUser.ID, "err", err)
		return ErrInternalError
	}
	s.clearResetAttempts(existingUser.ID)

	fullName := ""
	if profile, err := s.userService.GetProfile(ctx, existingUser.ID); err == nil {
		fullName = profile.FullName
	}
	s.emailService.QueueEmail(existingUser.Email, emailService.ResetPasswordData{
		FullName: fullName,
		Code:     code,
	})
	return nil
}

func (s *service) ResetPassword(ctx context.Context, in ResetPasswordInput) error {
	if len([]rune(in.Password)) < minResetPasswordChars {
		return ErrResetPasswordTooShort
	}
	if in.Password != in.ConfirmPassword {
		return user.ErrPasswordsDoNotMatch
	}

	existingUser, err := s.userService.GetUserByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return ErrInvalidVerificationCode
		}
		return ErrInternalError
	}

	stored, err := s.userService.GetVerificationCode(ctx, existingUser.ID)
	if err != nil {
		if errors.Is(err, user.ErrVerificationCodeNotFound) {
			return ErrInvalidVerificationCode
		}
		return ErrInternalError
	}
	if stored.Type != CodePassType {
		return ErrInvalidVerificationCode
	}
	if subtle.ConstantTimeCompare([]byte(stored.Code), []byte(in.Code)) != 1 {
		s.failResetAttempt(ctx, existingUser.ID)
		return ErrInvalidVerificationCode
	}
	if s.clock.Now().After(stored.ExpiresAt) {
		return ErrVerificationCodeExpired
	}

	if err := s.userService.ResetPassword(ctx, existingUser.ID, in.Password); err != nil {
		s.logger.Error("reset password", "user_id", existingUser.ID, "err", err)
		return ErrInternalError
	}
	s.clearResetAttempts(existingUser.ID)
	if err := s.userService.DeleteVerificationCode(ctx, existingUser.ID); err != nil {
		s.logger.Warn("delete used reset code", "user_id", existingUser.ID, "err", err)
	}
	return nil
}

// failResetAttempt burns the stored code once it has been guessed wrong too often.
func (s *service) failResetAttempt(ctx context.Context, userID string) {
	s.attemptsMu.Lock()
	s.resetAttempts[userID]++
	exhausted := s.resetAttempts[userID] >= maxResetAttempts
	if exhausted {
		delete(s.resetAttempts, userID)
	}
	s.attemptsMu.Unlock()

	if !exhausted {
		return
	}
	s.logger.Warn("too many wrong reset codes, code revoked", "user_id", userID)
	if err := s.userService.DeleteVerificationCode(ctx, userID); err != nil {
		s.logger.Warn("revoke reset code", "user_id", userID, "err", err)
	}
}

func (s *service) clearResetAttempts(userID string) {
	s.attemptsMu.Lock()
	delete(s.resetAttempts, userID)
	s.attemptsMu.Unlock()
}

func (s *service) Session(ctx context.Context, userID string) (*SessionInfo, error) {
	existingUser, err := s.userService.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile, err := s.userService.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &SessionInfo{
		UserID:           existingUser.ID,
		Email:            existingUser.Email,
		TwoFactorEnabled: existingUser.TwoFactorEnabled,
		GoogleLinked:     existingUser.GoogleSubject != "",
		Profile:          profile,
	}, nil
}

func (s *service) CleanupSessions() int {
	return s.sessionManager.CleanupExpired()
}
