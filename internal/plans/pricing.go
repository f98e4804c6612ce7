package plans

import (
	"math"
	"strconv"
	"strings"
)

// MaxPrice caps absurd custom durations so the price always fits an int32.
const MaxPrice = math.MaxInt32

// Configuration holds the wizard selections. It is never persisted.
type Configuration struct {
	SourceLanguage   string   `json:"source_language"`
	TargetLanguages  []string `json:"target_languages"`
	Format           string   `json:"format"`
	DurationPreset   string   `json:"duration_preset"`
	CustomHours      string   `json:"custom_hours,omitempty"`
	EventType        string   `json:"event_type"`
	ParticipantRange string   `json:"participant_range"`
	Criticality      string   `json:"criticality"`
}

// EffectiveHours resolves the preset, or parses the custom hours. Anything unparsable counts as 0.
func (c Configuration) EffectiveHours() float64 {
	if c.DurationPreset == DurationCustom {
		hours, err := strconv.ParseFloat(strings.TrimSpace(c.CustomHours), 64)
		if err != nil || math.IsNaN(hours) || math.IsInf(hours, 0) {
			return 0
		}
		return hours
	}
	if o, ok := findOption(DurationPresets, c.DurationPreset); ok {
		return o.Hours
	}
	return 0
}

func (c Configuration) TotalMinutes() float64 {
	return c.EffectiveHours() * 60
}

func multiplier(table map[string]float64, key string) float64 {
	if m, ok := table[key]; ok && m != 0 {
		return m
	}
	return 1
}

func eventCost(eventType string) float64 {
	if cost, ok := eventCosts[eventType]; ok && cost != 0 {
		return cost
	}
	return defaultEventCost
}

// Price computes the displayed plan price:
//
//	round((eventCost + languages*150 + hours*60*2.5) * format * participants * criticality)
//
// Unmapped multiplier keys count as 1 and an unmapped event type costs 100.
// The result is clamped to [0, MaxPrice].
func Price(c Configuration) int {
	base := eventCost(c.EventType)
	base += float64(len(c.TargetLanguages)) * perLanguageRate
	base += c.EffectiveHours() * 60 * minuteRate

	total := base *
		multiplier(formatMultipliers, c.Format) *
		multiplier(participantMultipliers, c.ParticipantRange) *
		multiplier(criticalityMultipliers, c.Criticality)
	if total < 0 {
		return 0
	}
	if total > MaxPrice {
		return MaxPrice
	}
	return int(math.Floor(total + 0.5))
}
