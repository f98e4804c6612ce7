package settings

import (
	"fmt"

	"github.com/vertox/portal/internal/translation"
	"github.com/vertox/portal/internal/validation"
)

const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"
)

type Notifications struct {
	SessionReminders    bool `json:"session_reminders"`
	TranslationComplete bool `json:"translation_complete"`
	DeviceChanges       bool `json:"device_changes"`
	Updates             bool `json:"updates"`
	Marketing           bool `json:"marketing"`
}

// Settings is stored as one JSON document per user.
type Settings struct {
	Microphone       string        `json:"microphone"`
	Headphones       string        `json:"headphones"`
	InputVolume      int           `json:"input_volume"`
	OutputVolume     int           `json:"output_volume"`
	SpeakerLanguage  string        `json:"speaker_language"`
	ListenerLanguage string        `json:"listener_language"`
	Theme            string        `json:"theme"`
	Notifications    Notifications `json:"notifications"`
}

func Defaults() Settings {
	return Settings{
		Microphone:       "yeti",
		Headphones:       "sony",
		InputVolume:      75,
		OutputVolume:     80,
		SpeakerLanguage:  "en",
		ListenerLanguage: "es",
		Theme:            ThemeSystem,
		Notifications: Notifications{
			SessionReminders:    true,
			TranslationComplete: true,
			DeviceChanges:       false,
			Updates:             true,
			Marketing:           false,
		},
	}
}

var languages = map[string]bool{
	"en": true, "es": true, "fr": true, "de": true, "zh": true,
	"ja": true, "ko": true, "pt": true, "ru": true, "ar": true,
}

func hasDevice(devices []translation.Device, id string) bool {
	for _, d := range devices {
		if d.ID == id {
			return true
		}
	}
	return false
}

func (s Settings) Validate() error {
	errs := &validation.Errors{}
	if !hasDevice(translation.Microphones, s.Microphone) {
		errs.Add("microphone", fmt.Sprintf("Unknown microphone %q", s.Microphone))
	}
	if !hasDevice(translation.Headphones, s.Headphones) {
		errs.Add("headphones", fmt.Sprintf("Unknown headphones %q", s.Headphones))
	}
	if s.InputVolume < 0 || s.InputVolume > 100 {
		errs.Add("input_volume", "Input volume must be between 0 and 100")
	}
	if s.OutputVolume < 0 || s.OutputVolume > 100 {
		errs.Add("output_volume", "Output volume must be between 0 and 100")
	}
	if !languages[s.SpeakerLanguage] {
		errs.Add("speaker_language", fmt.Sprintf("Unsupported language %q", s.SpeakerLanguage))
	}
	if !languages[s.ListenerLanguage] {
		errs.Add("listener_language", fmt.Sprintf("Unsupported language %q", s.ListenerLanguage))
	}
	switch s.Theme {
	case ThemeLight, ThemeDark, ThemeSystem:
	default:
		errs.Add("theme", "Theme must be light, dark or system")
	}
	return errs.ErrOrNil()
}
