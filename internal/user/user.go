package user

import (
	"context"
	"time"
)

const DefaultPreferredLanguage = "en"

type User struct {
	ID               string
	Email            string
	PasswordHash     string
	TwoFactorEnabled bool
	HashToken        string
	GoogleSubject    string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Profile is the editable account row shown on the profile page.
type Profile struct {
	UserID              string    `json:"user_id"`
	FullName            string    `json:"full_name"`
	Email               string    `json:"email"`
	Company             string    `json:"company"`
	Location            string    `json:"location"`
	AvatarURL           string    `json:"avatar_url"`
	PreferredLanguage   string    `json:"preferred_language"`
	NotificationEmail   bool      `json:"notification_email"`
	NotificationPush    bool      `json:"notification_push"`
	NotificationUpdates bool      `json:"notification_updates"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// DefaultProfile is what a user sees before their profile row exists.
func DefaultProfile(userID, email string) Profile {
	return Profile{
		UserID:              userID,
		Email:               email,
		PreferredLanguage:   DefaultPreferredLanguage,
		NotificationEmail:   true,
		NotificationPush:    true,
		NotificationUpdates: false,
	}
}

// ProfileUpdate carries the fields a user may change. Nil fields are left untouched.
// Email is not part of it: it is owned by the account and read-only here.
type ProfileUpdate struct {
	FullName            *string `json:"full_name"`
	Company             *string `json:"company"`
	Location            *string `json:"location"`
	PreferredLanguage   *string `json:"preferred_language"`
	NotificationEmail   *bool   `json:"notification_email"`
	NotificationPush    *bool   `json:"notification_push"`
	NotificationUpdates *bool   `json:"notification_updates"`
}

func (u ProfileUpdate) apply(p *Profile) {
	if u.FullName != nil {
		p.FullName = *u.FullName
	}
	if u.Company != nil {
		p.Company = *u.Company
	}
	if u.Location != nil {
		p.Location = *u.Location
	}
	if u.PreferredLanguage != nil && *u.PreferredLanguage != "" {
		p.PreferredLanguage = *u.PreferredLanguage
	}
	if u.NotificationEmail != nil {
		p.NotificationEmail = *u.NotificationEmail
	}
	if u.NotificationPush != nil {
		p.NotificationPush = *u.NotificationPush
	}
	if u.NotificationUpdates != nil {
		p.NotificationUpdates = *u.NotificationUpdates
	}
}

type VerificationCode struct {
	UserID    string
	Code      string
	Type      string
	ExpiresAt time.Time
	CreatedAt time.Time
}

type contextKey string

const userIDKey contextKey = "userID"

// WithUserID stores the authenticated user id on ctx.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// IDFromContext returns the authenticated user id placed by the auth middleware.
func IDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}
