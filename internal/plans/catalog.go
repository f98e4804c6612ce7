package plans

// Option is one selectable entry of a configurator step.
type Option struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Hours       float64 `json:"hours,omitempty"`
}

const (
	FormatConsecutive  = "consecutive"
	FormatSimultaneous = "simultaneous"
	FormatEvent        = "event"

	DurationCustom = "custom"

	perLanguageRate = 150.0
	minuteRate      = 2.5
	// cost used when the event type is not in the table
	defaultEventCost = 100.0

	MinCustomHours = 0.5
	MaxCustomHours = 24.0
)

var SourceLanguages = []Option{
	{ID: "en", Name: "English"},
	{ID: "ru", Name: "Russian"},
	{ID: "ja", Name: "Japanese"},
	{ID: "zh", Name: "Chinese"},
	{ID: "es", Name: "Spanish"},
	{ID: "de", Name: "German"},
	{ID: "fr", Name: "French"},
	{ID: "ar", Name: "Arabic"},
	{ID: "ko", Name: "Korean"},
	{ID: "pt", Name: "Portuguese"},
}

var TargetLanguages = append(append([]Option{}, SourceLanguages...),
	Option{ID: "it", Name: "Italian"},
	Option{ID: "nl", Name: "Dutch"},
	Option{ID: "pl", Name: "Polish"},
	Option{ID: "tr", Name: "Turkish"},
	Option{ID: "vi", Name: "Vietnamese"},
)

var Formats = []Option{
	{ID: FormatConsecutive, Name: "Consecutive", Description: "Dialog meetings with alternating speakers"},
	{ID: FormatSimultaneous, Name: "Simultaneous", Description: "Real-time translation with minimal delay"},
	{ID: FormatEvent, Name: "Event + Q&A", Description: "Stage to audience with bidirectional Q&A"},
}

var DurationPresets = []Option{
	{ID: "1h", Name: "1 hour", Hours: 1},
	{ID: "2h", Name: "2 hours", Hours: 2},
	{ID: "4h", Name: "4 hours", Hours: 4},
	{ID: "8h", Name: "Full day (8h)", Hours: 8},
	{ID: DurationCustom, Name: "Custom"},
}

var EventTypes = []Option{
	{ID: "conference", Name: "Conference"},
	{ID: "corporate", Name: "Corporate Meeting"},
	{ID: "training", Name: "Training / Workshop"},
	{ID: "sales", Name: "Sales Presentation"},
	{ID: "medical", Name: "Medical"},
	{ID: "legal", Name: "Legal"},
	{ID: "government", Name: "Government"},
	{ID: "education", Name: "Education"},
	{ID: "online", Name: "Online / Hybrid"},
	{ID: "other", Name: "Others"},
}

var ParticipantRanges = []Option{
	{ID: "1-5", Name: "1–5 participants"},
	{ID: "6-20", Name: "6–20 participants"},
	{ID: "21-100", Name: "21–100 participants"},
	{ID: "100-500", Name: "100–500 participants"},
	{ID: "500+", Name: "500+ participants"},
}

var CriticalityLevels = []Option{
	{ID: "internal", Name: "Internal", Description: "Low criticality, internal communications"},
	{ID: "business", Name: "Business-critical", Description: "Important business operations and decisions"},
	{ID: "high", Name: "High responsibility", Description: "Medical, legal, and compliance-sensitive content"},
	{ID: "mission", Name: "Mission-critical", Description: "Government, public events, zero-tolerance for errors"},
}

var formatMultipliers = map[string]float64{
	FormatConsecutive:  1,
	FormatSimultaneous: 1.5,
	FormatEvent:        1.8,
}

var eventCosts = map[string]float64{
	"conference": 200,
	"corporate":  150,
	"training":   100,
	"sales":      150,
	"medical":    400,
	"legal":      450,
	"government": 500,
	"education":  100,
	"online":     80,
	"other":      120,
}

var participantMultipliers = map[string]float64{
	"1-5":     1,
	"6-20":    1.2,
	"21-100":  1.5,
	"100-500": 2,
	"500+":    3,
}

var criticalityMultipliers = map[string]float64{
	"internal": 1,
	"business": 1.3,
	"high":     1.8,
	"mission":  2.5,
}

// Catalog is the full option set the configurator renders.
type Catalog struct {
	SourceLanguages   []Option `json:"source_languages"`
	TargetLanguages   []Option `json:"target_languages"`
	Formats           []Option `json:"formats"`
	DurationPresets   []Option `json:"duration_presets"`
	EventTypes        []Option `json:"event_types"`
	ParticipantRanges []Option `json:"participant_ranges"`
	CriticalityLevels []Option `json:"criticality_levels"`
}

func DefaultCatalog() Catalog {
	return Catalog{
		SourceLanguages:   SourceLanguages,
		TargetLanguages:   TargetLanguages,
		Formats:           Formats,
		DurationPresets:   DurationPresets,
		EventTypes:        EventTypes,
		ParticipantRanges: ParticipantRanges,
		CriticalityLevels: CriticalityLevels,
	}
}

// TargetOptionsFor lists the target languages selectable for source; the source itself is excluded.
func TargetOptionsFor(source string) []Option {
	out := make([]Option, 0, len(TargetLanguages))
	for _, o := range TargetLanguages {
		if o.ID != source {
			out = append(out, o)
		}
	}
	return out
}

func findOption(options []Option, id string) (Option, bool) {
	for _, o := range options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

// optionName falls back to the id itself, the way the summary shows unknown codes.
func optionName(options []Option, id string) string {
	if o, ok := findOption(options, id); ok {
		return o.Name
	}
	return id
}

func LanguageName(id string) string {
	return optionName(TargetLanguages, id)
}
