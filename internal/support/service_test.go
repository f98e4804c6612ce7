package support

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vertox/portal/internal/clock"
	emailService "github.com/vertox/portal/internal/email"
	"github.com/vertox/portal/internal/validation"
)

type recordingSender struct {
	mu   sync.Mutex
	to   []string
	sent []emailService.EmailData
}

func (r *recordingSender) QueueEmail(to string, data emailService.EmailData) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.to = append(r.to, to)
	r.sent = append(r.sent, data)
}

const testUserID = "3f2b9c1e-7a4d-4e2a-9b1c-5d6e7f8a9b0c"

var now = time.Date(2024, 12, 15, 14, 32, 0, 0, time.UTC)

func newTestService(inbox string) (Service, *MockRepository, *recordingSender) {
	repo := &MockRepository{}
	sender := &recordingSender{}
	return NewService(repo, sender, inbox, clock.NewFixed(now), nil), repo, sender
}

func validInput() Input {
	return Input{
		Name:    " Ana Lima ",
		Email:   "ana@example.com",
		Subject: "Audio drops during meetings",
		Message: "The translation stops after ten minutes.",
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(validInput()))

	assert.Equal(t,
		[]string{"Name is required", "Email is required", "Subject is required", "Message is required"},
		validation.MessagesOf(Validate(Input{Name: "  "})))

	in := validInput()
	in.Email = "ana@"
	assert.Equal(t, []string{"Please enter a valid email address"}, validation.MessagesOf(Validate(in)))

	in = validInput()
	in.Subject = strings.Repeat("a", maxSubjectChars+1)
	in.Message = strings.Repeat("é", maxMessageChars)
	assert.Equal(t, []string{"Subject is too long"}, validation.MessagesOf(Validate(in)))
}

func TestSubmit(t *testing.T) {
	svc, repo, sender := newTestService("support@vertox.com")

	req, err := svc.Submit(context.Background(), testUserID, validInput())
	require.NoError(t, err)
	assert.Equal(t, "Ana Lima", req.Name)
	assert.Equal(t, now, req.CreatedAt)
	require.Len(t, repo.Requests, 1)
	assert.Equal(t, testUserID, repo.Requests[0].UserID)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "support@vertox.com", sender.to[0])
	data, ok := sender.sent[0].(emailService.SupportRequestData)
	require.True(t, ok)
	assert.Equal(t, "Audio drops during meetings", data.Subject)
	assert.Equal(t, "ana@example.com", data.Email)
}

func TestSubmit_Rejected(t *testing.T) {
	svc, repo, sender := newTestService("support@vertox.com")

	_, err := svc.Submit(context.Background(), testUserID, Input{})
	assert.True(t, validation.IsValidationErrors(err))

	repo.Err = errors.New("db down")
	_, err = svc.Submit(context.Background(), testUserID, validInput())
	assert.Error(t, err)

	assert.Empty(t, sender.sent)
}

func TestSubmit_NoInboxOnlyStores(t *testing.T) {
	svc, repo, sender := newTestService("")
	_, err := svc.Submit(context.Background(), testUserID, validInput())
	require.NoError(t, err)
	assert.Len(t, repo.Requests, 1)
	assert.Empty(t, sender.sent)
}

func TestRecent(t *testing.T) {
	repo := &MockRepository{}
	base := time.Date(2024, 12, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < RecentLimit+3; i++ {
		svc := NewService(repo, nil, "", clock.NewFixed(base.Add(time.Duration(i)*time.Hour)), nil)
		_, err := svc.Submit(context.Background(), testUserID, validInput())
		require.NoError(t, err)
	}
	svc := NewService(repo, nil, "", clock.NewFixed(base), nil)
	_, err := svc.Submit(context.Background(), "someone-else", validInput())
	require.NoError(t, err)

	recent, err := svc.Recent(context.Background(), testUserID)
	require.NoError(t, err)
	require.Len(t, recent, RecentLimit)
	assert.Equal(t, base.Add(time.Duration(RecentLimit+2)*time.Hour), recent[0].CreatedAt)
}
