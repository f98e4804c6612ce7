package history

import (
	"time"

	"github.com/google/uuid"
)

type demoSession struct {
	title   string
	target  string
	minutes int
	kind    string
	daysAgo int
	hour    int
	minute  int
}

// demoSessions populate the dashboard of a new account, newest first.
var demoSessions = []demoSession{
	{"Client Meeting - Tokyo Office", "ja", 45, KindMeeting, 1, 14, 30},
	{"Product Demo - Berlin", "de", 32, KindDemo, 1, 11, 0},
	{"Support Call - São Paulo", "pt", 18, KindCall, 2, 16, 15},
	{"Board Meeting - Paris", "fr", 72, KindMeeting, 2, 10, 0},
	{"Sales Pitch - Madrid", "es", 28, KindPitch, 3, 15, 0},
	{"Training Session - Seoul", "ko", 90, KindTraining, 3, 9, 0},
	{"Investor Call - Shanghai", "zh", 52, KindCall, 4, 14, 0},
	{"Team Sync - Amsterdam", "nl", 25, KindMeeting, 4, 11, 30},
	{"Customer Interview - Milan", "it", 40, KindInterview, 5, 16, 0},
	{"Webinar - Moscow", "ru", 105, KindWebinar, 5, 13, 0},
	{"Conference Call - Dubai", "ar", 55, KindCall, 6, 15, 30},
	{"Product Launch - Mexico City", "es", 135, KindEvent, 6, 10, 0},
}

// DemoSessions dates the demo list relative to now so every session lies in the past.
func DemoSessions(userID string, now time.Time) []Session {
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	out := make([]Session, len(demoSessions))
	for i, d := range demoSessions {
		out[i] = Session{
			ID:              uuid.New(),
			UserID:          userID,
			Title:           d.title,
			SourceLanguage:  "en",
			TargetLanguage:  d.target,
			DurationMinutes: d.minutes,
			Kind:            d.kind,
			StartedAt:       today.AddDate(0, 0, -d.daysAgo).Add(time.Duration(d.hour)*time.Hour + time.Duration(d.minute)*time.Minute),
		}
	}
	return out
}
