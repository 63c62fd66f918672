package macro

import (
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/dshills/keys/internal/input"
	"github.com/dshills/keys/internal/input/key"
)

// Recorder and player errors.
var (
	ErrAlreadyRecording   = errors.New("already recording")
	ErrAlreadyPlaying     = errors.New("already playing a macro")
	ErrEmptyMacro         = errors.New("macro has no steps")
	ErrUnsupportedVersion = errors.New("unsupported macro file version")
)

// Step is one recorded event.
type Step struct {
	Type   key.EventType `json:"type"`
	Code   int           `json:"code"`
	Mods   key.Modifier  `json:"mods,omitempty"`
	Target string        `json:"target,omitempty"`

	// Offset is the time since the recording started.
	Offset time.Duration `json:"offset"`
}

// Event builds a fresh event for the step.
func (s Step) Event() *key.Event {
	ev := key.NewEvent(s.Type, s.Code, s.Mods)
	ev.Target = s.Target
	return ev
}

// Macro is a recorded run of events.
type Macro struct {
	Steps []Step
}

// Duration returns the offset of the last step.
func (m *Macro) Duration() time.Duration {
	if m == nil || len(m.Steps) == 0 {
		return 0
	}
	return m.Steps[len(m.Steps)-1].Offset
}

// Recorder captures events from a source.
type Recorder struct {
	src   input.Source
	types []key.EventType

	mu        sync.Mutex
	recording bool
	start     time.Time
	steps     []Step
	subs      []string
}

// NewRecorder creates a recorder for src capturing the given event types,
// keydown and keypress by default.
func NewRecorder(src input.Source, types ...key.EventType) *Recorder {
	if len(types) == 0 {
		types = []key.EventType{key.KeyDown, key.KeyPress}
	}
	return &Recorder{src: src, types: types}
}

// Start begins a new recording.
func (r *Recorder) Start() error {
	r.mu.Lock()
	if r.recording {
		r.mu.Unlock()
		return ErrAlreadyRecording
	}
	r.recording = true
	r.start = time.Now()
	r.steps = nil
	r.mu.Unlock()

	subs := make([]string, 0, len(r.types))
	for _, t := range r.types {
		subs = append(subs, r.src.Subscribe(t, r.record))
	}

	r.mu.Lock()
	r.subs = subs
	r.mu.Unlock()
	return nil
}

// Stop ends the recording and returns it, or nil when not recording.
func (r *Recorder) Stop() *Macro {
	r.mu.Lock()
	if !r.recording {
		r.mu.Unlock()
		return nil
	}
	r.recording = false
	subs := r.subs
	r.subs = nil
	m := &Macro{Steps: r.steps}
	r.steps = nil
	r.mu.Unlock()

	for _, id := range subs {
		r.src.Unsubscribe(id)
	}
	return m
}

// IsRecording reports whether a recording is in progress.
func (r *Recorder) IsRecording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recording
}

// Len returns the number of steps recorded so far.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.steps)
}

func (r *Recorder) record(ev *key.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.recording || !slices.Contains(r.types, ev.Type) {
		return
	}

	offset := ev.Time.Sub(r.start)
	if ev.Time.IsZero() || offset < 0 {
		offset = time.Since(r.start)
	}
	r.steps = append(r.steps, Step{
		Type:   ev.Type,
		Code:   ev.Code,
		Mods:   ev.Modifiers(),
		Target: ev.Target,
		Offset: offset,
	})
}
