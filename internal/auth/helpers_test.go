package auth

import (
	"sync"
	"testing"
	"time"

	emailService "github.com/vertox/portal/internal/email"
	"github.com/vertox/portal/internal/user"
)

const testSecret = "test-secret"

type recordingSender struct {
	mu   sync.Mutex
	sent []emailService.EmailData
}

func (r *recordingSender) QueueEmail(_ string, data emailService.EmailData) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, data)
}

func (r *recordingSender) last() emailService.EmailData {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.sent) == 0 {
		return nil
	}
	return r.sent[len(r.sent)-1]
}

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testEnv struct {
	svc      Service
	users    user.Service
	userRepo *user.MockRepository
	sender   *recordingSender
	clock    *manualClock
	jwt      JWTManagerInterface
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	userRepo := user.NewMockRepository()
	sender := &recordingSender{}
	clk := &manualClock{now: time.Date(2024, 12, 15, 12, 0, 0, 0, time.UTC)}
	users := user.NewUserService(userRepo, sender, nil, clk, nil)
	jwtManager := NewJWTManager(testSecret, "VertoX")
	svc := NewAuthService(
		NewMockTwoFactorRepository(userRepo),
		users,
		NewSessionManager(),
		jwtManager,
		sender,
		NewAuthenticator("VertoX"),
		clk,
		nil,
	)
	return &testEnv{svc: svc, users: users, userRepo: userRepo, sender: sender, clock: clk, jwt: jwtManager}
}

const testPassword = "Str0ng!pass"

func (e *testEnv) signUp(t *testing.T, email string) (*user.User, *Tokens) {
	t.Helper()
	u, tokens, err := e.svc.SignUp(t.Context(), user.RegisterInput{
		Email:           email,
		Password:        testPassword,
		ConfirmPassword: testPassword,
		FullName:        "Ana Lima",
	})
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	return u, tokens
}
