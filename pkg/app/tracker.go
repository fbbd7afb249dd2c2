// Package app holds the Tracker: the in-memory owner of ideas, projects,
// deadlines and check-in settings, mirrored into persistence after every
// mutation. CLIs and the MCP server share it.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"tableflip.dev/rpt/pkg/research"
	"tableflip.dev/rpt/pkg/store"
)

// ErrInvalidInput wraps validation failures on create and update.
var ErrInvalidInput = errors.New("app: invalid input")

// State is a full copy of everything the tracker owns.
type State struct {
	Ideas     []research.Idea
	Projects  []research.Project
	Deadlines []research.Deadline
	Settings  research.CheckInSettings
}

// Present marks which parts of a State are meaningful, for partial restores.
type Present struct {
	Ideas     bool
	Projects  bool
	Deadlines bool
	Settings  bool
}

// All marks every collection present.
func All() Present {
	return Present{Ideas: true, Projects: true, Deadlines: true, Settings: true}
}

// Tracker owns the four collections. It is safe for concurrent use.
type Tracker struct {
	mu          sync.Mutex
	persistence store.Persistence
	now         func() time.Time
	newID       func() string
	state       State
}

// Option customizes a Tracker.
type Option func(*Tracker)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithIDs replaces uuid generation.
func WithIDs(fn func() string) Option {
	return func(t *Tracker) { t.newID = fn }
}

// Open loads the tracker from p. Missing or unreadable slots fall back to
// empty collections and default settings; Open never fails.
func Open(p store.Persistence, opts ...Option) *Tracker {
	t := &Tracker{
		persistence: p,
		now:         time.Now,
		newID:       func() string { return uuid.New().String() },
	}
	for _, o := range opts {
		o(t)
	}
	t.state = load(p)
	return t
}

// Reload discards in-memory state and re-reads persistence.
func (t *Tracker) Reload() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = load(t.persistence)
}

// Now is the tracker's clock.
func (t *Tracker) Now() time.Time {
	return t.now()
}

// Snapshot returns a deep copy of the current state.
func (t *Tracker) Snapshot() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return State{
		Ideas:     cloneIdeas(t.state.Ideas),
		Projects:  cloneProjects(t.state.Projects),
		Deadlines: cloneDeadlines(t.state.Deadlines),
		Settings:  t.state.Settings,
	}
}

func (t *Tracker) Ideas() []research.Idea {
	t.mu.Lock()
	defer t.mu.Unlock()
	return cloneIdeas(t.state.Ideas)
}

func (t *Tracker) Projects() []research.Project {
	t.mu.Lock()
	defer t.mu.Unlock()
	return cloneProjects(t.state.Projects)
}

func (t *Tracker) Deadlines() []research.Deadline {
	t.mu.Lock()
	defer t.mu.Unlock()
	return cloneDeadlines(t.state.Deadlines)
}

func (t *Tracker) Settings() research.CheckInSettings {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.Settings
}

// Replace swaps in the collections marked present, wholesale, and persists
// them in one batch. Records are taken as given.
func (t *Tracker) Replace(s State, present Present) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	var keys []string
	if present.Ideas {
		t.state.Ideas = nonNil(cloneIdeas(s.Ideas))
		keys = append(keys, store.KeyIdeas)
	}
	if present.Projects {
		t.state.Projects = nonNil(cloneProjects(s.Projects))
		keys = append(keys, store.KeyProjects)
	}
	if present.Deadlines {
		t.state.Deadlines = nonNil(cloneDeadlines(s.Deadlines))
		keys = append(keys, store.KeyDeadlines)
	}
	if present.Settings {
		t.state.Settings = s.Settings
		keys = append(keys, store.KeyCheckIn)
	}
	if len(keys) == 0 {
		return nil
	}
	return t.persist(keys...)
}

// persist writes the named slots from the current state. Callers hold mu.
func (t *Tracker) persist(keys ...string) error {
	if t.persistence == nil {
		return nil
	}
	batch := make(map[string][]byte, len(keys))
	for _, key := range keys {
		var v any
		switch key {
		case store.KeyIdeas:
			v = nonNil(t.state.Ideas)
		case store.KeyProjects:
			v = nonNil(t.state.Projects)
		case store.KeyDeadlines:
			v = nonNil(t.state.Deadlines)
		case store.KeyCheckIn:
			v = t.state.Settings
		default:
			return fmt.Errorf("app: unknown slot %q", key)
		}
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("app: encode %s: %w", key, err)
		}
		batch[key] = b
	}
	if err := t.persistence.WriteBatch(batch); err != nil {
		return fmt.Errorf("app: persist: %w", err)
	}
	return nil
}

func load(p store.Persistence) State {
	s := State{
		Ideas:     make([]research.Idea, 0),
		Projects:  make([]research.Project, 0),
		Deadlines: make([]research.Deadline, 0),
		Settings:  research.DefaultCheckInSettings(),
	}
	if p == nil {
		return s
	}
	s.Ideas = nonNil(loadSlot(p, store.KeyIdeas, s.Ideas))
	s.Projects = nonNil(loadSlot(p, store.KeyProjects, s.Projects))
	s.Deadlines = nonNil(loadSlot(p, store.KeyDeadlines, s.Deadlines))
	s.Settings = loadSlot(p, store.KeyCheckIn, s.Settings)
	return s
}

// loadSlot decodes one slot, returning fallback when it is absent or corrupt.
func loadSlot[T any](p store.Persistence, key string, fallback T) T {
	raw, err := p.Read(key)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Debug().Err(err).Str("slot", key).Msg("app: read failed, using defaults")
		}
		return fallback
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		log.Debug().Err(err).Str("slot", key).Msg("app: malformed slot, using defaults")
		return fallback
	}
	return v
}

// Keys reports the slots currently in persistence.
func (t *Tracker) Keys(ctx context.Context) []string {
	if t.persistence == nil {
		return nil
	}
	return t.persistence.Keys(ctx)
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return make([]T, 0)
	}
	return in
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneIdeas(in []research.Idea) []research.Idea {
	if in == nil {
		return nil
	}
	out := make([]research.Idea, len(in))
	for i, idea := range in {
		idea.Tags = cloneStrings(idea.Tags)
		out[i] = idea
	}
	return out
}

func cloneProjects(in []research.Project) []research.Project {
	if in == nil {
		return nil
	}
	out := make([]research.Project, len(in))
	for i, p := range in {
		p.RelatedIdeaIDs = cloneStrings(p.RelatedIdeaIDs)
		out[i] = p
	}
	return out
}

func cloneDeadlines(in []research.Deadline) []research.Deadline {
	if in == nil {
		return nil
	}
	out := make([]research.Deadline, len(in))
	copy(out, in)
	return out
}
