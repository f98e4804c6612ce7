package plans

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vertox/portal/internal/validation"
)

type Step int

const (
	StepLanguages Step = iota + 1
	StepFormat
	StepDuration
	StepEventType
	StepParticipants
	StepCriticality
	StepSummary
)

const TotalSteps = int(StepSummary)

var stepTitles = map[Step]string{
	StepLanguages:    "Languages",
	StepFormat:       "Translation Format",
	StepDuration:     "Usage Duration",
	StepEventType:    "Event Type",
	StepParticipants: "Participants",
	StepCriticality:  "Criticality Level",
	StepSummary:      "Summary & Price",
}

func (s Step) String() string {
	if t, ok := stepTitles[s]; ok {
		return t
	}
	return fmt.Sprintf("Step %d", int(s))
}

var ErrIncompleteConfiguration = errors.New("configuration is incomplete")

// StepError names the first wizard step that cannot be left yet.
type StepError struct {
	Step   Step
	Fields *validation.Errors
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s): %s", int(e.Step), e.Step, strings.Join(e.Fields.Messages(), "; "))
}

func (e *StepError) Unwrap() []error {
	return []error{ErrIncompleteConfiguration, e.Fields}
}

// CanProceed mirrors the Next button gates of the configurator. The summary step always passes.
func CanProceed(step Step, c Configuration) bool {
	switch step {
	case StepLanguages:
		return c.SourceLanguage != "" && len(c.TargetLanguages) > 0
	case StepFormat:
		return c.Format != ""
	case StepDuration:
		return c.DurationPreset != "" && (c.DurationPreset != DurationCustom || c.CustomHours != "")
	case StepEventType:
		return c.EventType != ""
	case StepParticipants:
		return c.ParticipantRange != ""
	case StepCriticality:
		return c.Criticality != ""
	default:
		return true
	}
}

// checkStep applies the gate of one step plus membership in the catalog.
func checkStep(step Step, c Configuration) *validation.Errors {
	errs := &validation.Errors{}
	switch step {
	case StepLanguages:
		if c.SourceLanguage == "" {
			errs.Add("source_language", "Please select a source language")
		} else if _, ok := findOption(SourceLanguages, c.SourceLanguage); !ok {
			errs.Add("source_language", fmt.Sprintf("Unknown source language %q", c.SourceLanguage))
		}
		if len(c.TargetLanguages) == 0 {
			errs.Add("target_languages", "Please select at least one target language")
		}
		seen := make(map[string]bool, len(c.TargetLanguages))
		for _, lang := range c.TargetLanguages {
			switch {
			case lang == c.SourceLanguage:
				errs.Add("target_languages", "Target languages must differ from the source language")
			case seen[lang]:
				errs.Add("target_languages", fmt.Sprintf("Target language %q is selected twice", lang))
			default:
				if _, ok := findOption(TargetLanguages, lang); !ok {
					errs.Add("target_languages", fmt.Sprintf("Unknown target language %q", lang))
				}
			}
			seen[lang] = true
		}
	case StepFormat:
		if c.Format == "" {
			errs.Add("format", "Please select a translation format")
		} else if _, ok := formatMultipliers[c.Format]; !ok {
			errs.Add("format", fmt.Sprintf("Unknown translation format %q", c.Format))
		}
	case StepDuration:
		switch {
		case c.DurationPreset == "":
			errs.Add("duration_preset", "Please select a duration")
		case c.DurationPreset == DurationCustom:
			hours := c.EffectiveHours()
			if c.CustomHours == "" {
				errs.Add("custom_hours", "Please enter the number of hours")
			} else if hours < MinCustomHours || hours > MaxCustomHours {
				errs.Add("custom_hours", fmt.Sprintf("Custom duration must be between %.1f and %.0f hours", MinCustomHours, MaxCustomHours))
			}
		default:
			if _, ok := findOption(DurationPresets, c.DurationPreset); !ok {
				errs.Add("duration_preset", fmt.Sprintf("Unknown duration %q", c.DurationPreset))
			}
		}
	case StepEventType:
		if c.EventType == "" {
			errs.Add("event_type", "Please select an event type")
		} else if _, ok := eventCosts[c.EventType]; !ok {
			errs.Add("event_type", fmt.Sprintf("Unknown event type %q", c.EventType))
		}
	case StepParticipants:
		if c.ParticipantRange == "" {
			errs.Add("participant_range", "Please select the number of participants")
		} else if _, ok := participantMultipliers[c.ParticipantRange]; !ok {
			errs.Add("participant_range", fmt.Sprintf("Unknown participant range %q", c.ParticipantRange))
		}
	case StepCriticality:
		if c.Criticality == "" {
			errs.Add("criticality", "Please select a criticality level")
		} else if _, ok := criticalityMultipliers[c.Criticality]; !ok {
			errs.Add("criticality", fmt.Sprintf("Unknown criticality level %q", c.Criticality))
		}
	}
	return errs
}

// Validate walks the steps in order and reports the first one that fails. Unlike Price,
// it rejects keys that are not in the catalog.
func Validate(c Configuration) error {
	for step := StepLanguages; step < StepSummary; step++ {
		if errs := checkStep(step, c); errs.ErrOrNil() != nil {
			return &StepError{Step: step, Fields: errs}
		}
	}
	return nil
}

// Quote is the summary view of a valid configuration.
type Quote struct {
	Configuration Configuration `json:"configuration"`
	Price         int           `json:"price"`
	TotalMinutes  float64       `json:"total_minutes"`
	Lines         []SummaryLine `json:"lines"`
	Summary       string        `json:"summary"`
}

type SummaryLine struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

func NewQuote(c Configuration) (*Quote, error) {
	if err := Validate(c); err != nil {
		return nil, err
	}
	lines := summaryLines(c)
	parts := make([]string, len(lines))
	for i, l := range lines {
		parts[i] = l.Label + ": " + l.Value
	}
	return &Quote{
		Configuration: c,
		Price:         Price(c),
		TotalMinutes:  c.TotalMinutes(),
		Lines:         lines,
		Summary:       strings.Join(parts, "; "),
	}, nil
}

func summaryLines(c Configuration) []SummaryLine {
	targets := make([]string, len(c.TargetLanguages))
	for i, t := range c.TargetLanguages {
		targets[i] = LanguageName(t)
	}
	duration := optionName(DurationPresets, c.DurationPreset)
	if c.DurationPreset == DurationCustom {
		duration = c.CustomHours + " hours"
	}
	return []SummaryLine{
		{Label: "Source Language", Value: LanguageName(c.SourceLanguage)},
		{Label: "Target Languages", Value: strings.Join(targets, ", ")},
		{Label: "Translation Format", Value: optionName(Formats, c.Format)},
		{Label: "Duration", Value: duration},
		{Label: "Event Type", Value: optionName(EventTypes, c.EventType)},
		{Label: "Participants", Value: optionName(ParticipantRanges, c.ParticipantRange)},
		{Label: "Criticality Level", Value: optionName(CriticalityLevels, c.Criticality)},
	}
}
