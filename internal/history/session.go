package history

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	KindMeeting   = "meeting"
	KindDemo      = "demo"
	KindCall      = "call"
	KindPitch     = "pitch"
	KindTraining  = "training"
	KindInterview = "interview"
	KindWebinar   = "webinar"
	KindEvent     = "event"

	RecentLimit  = 4
	DefaultLimit = 50
	MaxLimit     = 200
)

var Kinds = []string{KindMeeting, KindDemo, KindCall, KindPitch, KindTraining, KindInterview, KindWebinar, KindEvent}

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidKind     = errors.New("Invalid session type")
	ErrInvalidLimit    = errors.New("Invalid limit")
)

// Session is one finished translation session.
type Session struct {
	ID              uuid.UUID `json:"id"`
	UserID          string    `json:"-"`
	Title           string    `json:"title"`
	SourceLanguage  string    `json:"source_language"`
	TargetLanguage  string    `json:"target_language"`
	DurationMinutes int       `json:"duration_minutes"`
	Kind            string    `json:"type"`
	StartedAt       time.Time `json:"started_at"`
}

// displayCodes holds the badges that differ from the upper-cased language code.
var displayCodes = map[string]string{"ja": "JP"}

func languageBadge(code string) string {
	if c, ok := displayCodes[code]; ok {
		return c
	}
	return strings.ToUpper(code)
}

// Languages renders the pair the way the list shows it, e.g. "EN → JP".
func (s Session) Languages() string {
	return languageBadge(s.SourceLanguage) + " → " + languageBadge(s.TargetLanguage)
}

// FormatDuration renders minutes as "45 min" or "1h 12 min".
func FormatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	return fmt.Sprintf("%dh %d min", minutes/60, minutes%60)
}

// View is the list row with its display strings.
type View struct {
	Session
	Languages string `json:"languages"`
	Duration  string `json:"duration"`
}

func NewView(s Session) View {
	return View{Session: s, Languages: s.Languages(), Duration: FormatDuration(s.DurationMinutes)}
}

type Filter struct {
	Query string
	Kind  string
	Limit int
}

func isKind(kind string) bool {
	for _, k := range Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Normalize applies the default limit and treats "all" as no kind filter.
func (f Filter) Normalize() (Filter, error) {
	f.Query = strings.TrimSpace(f.Query)
	if f.Kind == "all" {
		f.Kind = ""
	}
	if f.Kind != "" && !isKind(f.Kind) {
		return f, ErrInvalidKind
	}
	switch {
	case f.Limit == 0:
		f.Limit = DefaultLimit
	case f.Limit < 0 || f.Limit > MaxLimit:
		return f, ErrInvalidLimit
	}
	return f, nil
}

func (f Filter) Matches(s Session) bool {
	if f.Kind != "" && s.Kind != f.Kind {
		return false
	}
	return f.Query == "" || strings.Contains(strings.ToLower(s.Title), strings.ToLower(f.Query))
}

type Stats struct {
	TotalSessions int    `json:"total_sessions"`
	TotalMinutes  int    `json:"total_minutes"`
	TotalDuration string `json:"total_duration"`
	LanguagesUsed int    `json:"languages_used"`
	ThisWeek      int    `json:"this_week"`
}
