package translation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vertox/portal/internal/clock"
	"github.com/vertox/portal/internal/history"
)

const (
	defaultSource     = "en"
	defaultTarget     = "es"
	defaultVoice      = "natural"
	defaultNoiseLevel = 50
	noiseStep         = 5
	demoConfidence    = 94
	demoLatencyMillis = 42
)

var (
	ErrUnknownLanguage   = errors.New("Unsupported language")
	ErrUnknownVoice      = errors.New("Unknown voice")
	ErrInvalidNoiseLevel = errors.New("Noise level must be between 0 and 100 in steps of 5")
	ErrAlreadyActive     = errors.New("Translation is already active")
	ErrNotActive         = errors.New("Translation is not active")
)

type TranscriptLine struct {
	Language string `json:"language"`
	Text     string `json:"text"`
}

type Event struct {
	At      time.Time `json:"at"`
	Message string    `json:"message"`
}

// State is the console view for one user.
type State struct {
	Active         bool             `json:"active"`
	SourceLanguage string           `json:"source_language"`
	TargetLanguage string           `json:"target_language"`
	Voice          string           `json:"voice"`
	NoiseLevel     int              `json:"noise_level"`
	Confidence     int              `json:"confidence"`
	LatencyMillis  int              `json:"latency_ms"`
	StartedAt      *time.Time       `json:"started_at,omitempty"`
	Transcript     []TranscriptLine `json:"transcript"`
	Events         []Event          `json:"events"`
}

// Options changes the console settings. Nil fields are left alone.
type Options struct {
	SourceLanguage *string `json:"source_language"`
	TargetLanguage *string `json:"target_language"`
	Voice          *string `json:"voice"`
	NoiseLevel     *int    `json:"noise_level"`
}

// SessionRecorder receives every stopped session.
type SessionRecorder interface {
	Record(ctx context.Context, s history.Session) (*history.Session, error)
}

type Console struct {
	mu       sync.Mutex
	states   map[string]*State
	recorder SessionRecorder
	clock    clock.Clock
	logger   *log.Logger
}

func NewConsole(recorder SessionRecorder, clk clock.Clock, logger *log.Logger) *Console {
	if clk == nil {
		clk = clock.NewSystem()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Console{
		states:   make(map[string]*State),
		recorder: recorder,
		clock:    clk,
		logger:   logger.With("component", "translation"),
	}
}

func defaultState() *State {
	return &State{
		SourceLanguage: defaultSource,
		TargetLanguage: defaultTarget,
		Voice:          defaultVoice,
		NoiseLevel:     defaultNoiseLevel,
		Confidence:     demoConfidence,
		LatencyMillis:  demoLatencyMillis,
		Events:         []Event{},
	}
}

func (c *Console) stateFor(userID string) *State {
	st, ok := c.states[userID]
	if !ok {
		st = defaultState()
		c.states[userID] = st
	}
	return st
}

func snapshot(st *State) State {
	out := *st
	out.Transcript = demoTranscript(st)
	out.Events = append([]Event(nil), st.Events...)
	return out
}

// demoTranscript is only shown while translation is active.
func demoTranscript(st *State) []TranscriptLine {
	if !st.Active {
		return []TranscriptLine{}
	}
	return []TranscriptLine{
		{Language: strings.ToUpper(st.SourceLanguage), Text: "Welcome to today's presentation about our Q4 results..."},
		{Language: strings.ToUpper(st.TargetLanguage), Text: "Bienvenidos a la presentación de hoy sobre nuestros resultados del cuarto trimestre..."},
	}
}

func (c *Console) State(userID string) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return snapshot(c.stateFor(userID))
}

func (c *Console) Update(userID string, opts Options) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := c.stateFor(userID)

	next := *st
	if opts.SourceLanguage != nil {
		if !isLanguage(*opts.SourceLanguage) {
			return State{}, fmt.Errorf("%w: %q", ErrUnknownLanguage, *opts.SourceLanguage)
		}
		next.SourceLanguage = *opts.SourceLanguage
	}
	if opts.TargetLanguage != nil {
		if !isLanguage(*opts.TargetLanguage) {
			return State{}, fmt.Errorf("%w: %q", ErrUnknownLanguage, *opts.TargetLanguage)
		}
		next.TargetLanguage = *opts.TargetLanguage
	}
	if opts.Voice != nil {
		if !isVoice(*opts.Voice) {
			return State{}, ErrUnknownVoice
		}
		next.Voice = *opts.Voice
	}
	if opts.NoiseLevel != nil {
		n := *opts.NoiseLevel
		if n < 0 || n > 100 || n%noiseStep != 0 {
			return State{}, ErrInvalidNoiseLevel
		}
		next.NoiseLevel = n
	}
	*st = next
	return snapshot(st), nil
}

func (c *Console) addEvent(st *State, message string) {
	st.Events = append([]Event{{At: c.clock.Now(), Message: message}}, st.Events...)
	if len(st.Events) > 20 {
		st.Events = st.Events[:20]
	}
}

// DeviceConnected logs a finished pairing in the user's event feed.
func (c *Console) DeviceConnected(userID string, d Device) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.addEvent(c.stateFor(userID), d.Name+" connected")
}

func (c *Console) Start(userID string) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := c.stateFor(userID)
	if st.Active {
		return State{}, ErrAlreadyActive
	}
	now := c.clock.Now()
	st.Active = true
	st.StartedAt = &now
	c.addEvent(st, "Session started")
	return snapshot(st), nil
}

// Stop ends the session and hands it to the recorder. A recorder failure is logged, the
// console is stopped either way.
func (c *Console) Stop(ctx context.Context, userID string) (State, error) {
	c.mu.Lock()
	st := c.stateFor(userID)
	if !st.Active {
		c.mu.Unlock()
		return State{}, ErrNotActive
	}
	startedAt := *st.StartedAt
	elapsed := c.clock.Now().Sub(startedAt)
	record := history.Session{
		UserID:          userID,
		Title:           fmt.Sprintf("Live Translation - %s → %s", strings.ToUpper(st.SourceLanguage), strings.ToUpper(st.TargetLanguage)),
		SourceLanguage:  st.SourceLanguage,
		TargetLanguage:  st.TargetLanguage,
		DurationMinutes: int(math.Ceil(elapsed.Minutes())),
		Kind:            history.KindMeeting,
		StartedAt:       startedAt,
	}
	st.Active = false
	st.StartedAt = nil
	c.addEvent(st, "Session stopped")
	out := snapshot(st)
	c.mu.Unlock()

	if c.recorder != nil {
		if _, err := c.recorder.Record(ctx, record); err != nil {
			c.logger.Error("recording session", "user", userID, "err", err)
		}
	}
	return out, nil
}
