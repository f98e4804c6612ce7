package plans

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func baseConfig() Configuration {
	return Configuration{
		SourceLanguage:   "en",
		TargetLanguages:  []string{"es"},
		Format:           FormatConsecutive,
		DurationPreset:   "1h",
		EventType:        "conference",
		ParticipantRange: "1-5",
		Criticality:      "internal",
	}
}

func TestPrice(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Configuration)
		want   int
	}{
		{"base plan", func(*Configuration) {}, 500},
		{"all multipliers", func(c *Configuration) {
			c.Format = FormatEvent
			c.ParticipantRange = "500+"
			c.Criticality = "mission"
		}, 6750},
		{"custom hours", func(c *Configuration) {
			c.DurationPreset = DurationCustom
			c.CustomHours = "1.5"
		}, 575},
		{"rounds half up", func(c *Configuration) {
			c.EventType = "online"
			c.Format = FormatSimultaneous
			c.DurationPreset = DurationCustom
			c.CustomHours = "0.5"
		}, 458},
		{"unknown event type costs 100", func(c *Configuration) { c.EventType = "parade" }, 400},
		{"unknown multiplier keys count as 1", func(c *Configuration) {
			c.Format = "telepathy"
			c.ParticipantRange = "many"
			c.Criticality = "?"
		}, 500},
		{"unparsable custom hours count as zero", func(c *Configuration) {
			c.DurationPreset = DurationCustom
			c.CustomHours = "soon"
		}, 350},
		{"never negative", func(c *Configuration) {
			c.DurationPreset = DurationCustom
			c.CustomHours = "-5"
		}, 0},
		{"huge custom hours are capped", func(c *Configuration) {
			c.DurationPreset = DurationCustom
			c.CustomHours = "1e300"
		}, MaxPrice},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := baseConfig()
			tt.modify(&c)
			assert.Equal(t, tt.want, Price(c))
		})
	}
}

func TestPrice_GrowsWithEachSelection(t *testing.T) {
	c := baseConfig()
	prev := Price(c)

	c.TargetLanguages = append(c.TargetLanguages, "de")
	assert.Greater(t, Price(c), prev)
	prev = Price(c)

	for _, preset := range []string{"2h", "4h", "8h"} {
		c.DurationPreset = preset
		assert.Greater(t, Price(c), prev, preset)
		prev = Price(c)
	}

	for _, level := range []string{"business", "high", "mission"} {
		c.Criticality = level
		assert.Greater(t, Price(c), prev, level)
		prev = Price(c)
	}
}

func TestPrice_MonotonicAcrossCatalog(t *testing.T) {
	hours := []string{"0", "0.5", "1", "2", "4", "8", "24", "1e12"}
	for _, format := range Formats {
		for _, event := range EventTypes {
			for _, participants := range ParticipantRanges {
				for _, level := range CriticalityLevels {
					c := Configuration{
						SourceLanguage:   "en",
						Format:           format.ID,
						DurationPreset:   DurationCustom,
						EventType:        event.ID,
						ParticipantRange: participants.ID,
						Criticality:      level.ID,
					}
					name := format.ID + "/" + event.ID + "/" + participants.ID + "/" + level.ID

					prev := -1
					for _, lang := range TargetLanguages {
						c.TargetLanguages = append(c.TargetLanguages, lang.ID)
						c.CustomHours = "1"
						p := Price(c)
						assert.GreaterOrEqual(t, p, 0, name)
						assert.GreaterOrEqual(t, p, prev, "%s with %d languages", name, len(c.TargetLanguages))
						prev = p
					}

					c.TargetLanguages = []string{"es"}
					prev = -1
					for _, h := range hours {
						c.CustomHours = h
						p := Price(c)
						assert.GreaterOrEqual(t, p, 0, name)
						assert.LessOrEqual(t, p, MaxPrice, name)
						assert.GreaterOrEqual(t, p, prev, "%s at %sh", name, h)
						prev = p
					}
				}
			}
		}
	}
}

func TestTotalMinutes(t *testing.T) {
	c := baseConfig()
	c.DurationPreset = "8h"
	assert.Equal(t, 480.0, c.TotalMinutes())

	c.DurationPreset = DurationCustom
	c.CustomHours = " 2.25 "
	assert.Equal(t, 135.0, c.TotalMinutes())
}
