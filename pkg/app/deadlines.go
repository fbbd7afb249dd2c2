package app

import (
	"fmt"
	"strings"
	"time"

	"tableflip.dev/rpt/pkg/research"
	"tableflip.dev/rpt/pkg/store"
)

// DeadlineInput describes a new deadline. Type defaults to hard.
type DeadlineInput struct {
	Name      string
	Datetime  time.Time
	Type      research.DeadlineType
	ProjectID string
}

// DeadlinePatch changes only the non-nil fields. An empty ProjectID detaches
// the deadline from its project.
type DeadlinePatch struct {
	Name      *string
	Datetime  *time.Time
	Type      *research.DeadlineType
	ProjectID *string
}

func (t *Tracker) Deadline(id string) (research.Deadline, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if i := t.deadlineIndex(id); i >= 0 {
		return t.state.Deadlines[i], true
	}
	return research.Deadline{}, false
}

// AddDeadline records a deadline. The project reference is not checked.
func (t *Tracker) AddDeadline(in DeadlineInput) (research.Deadline, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return research.Deadline{}, fmt.Errorf("%w: deadline name is required", ErrInvalidInput)
	}
	if in.Datetime.IsZero() {
		return research.Deadline{}, fmt.Errorf("%w: deadline date is required", ErrInvalidInput)
	}
	typ := in.Type
	if typ == "" {
		typ = research.DeadlineHard
	}
	if _, err := research.ParseDeadlineType(string(typ)); err != nil {
		return research.Deadline{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	d := research.Deadline{
		ID:        t.newID(),
		Name:      name,
		Datetime:  research.At(in.Datetime),
		Type:      typ,
		ProjectID: strings.TrimSpace(in.ProjectID),
	}
	t.state.Deadlines = append(t.state.Deadlines, d)
	return d, t.persist(store.KeyDeadlines)
}

func (t *Tracker) UpdateDeadline(id string, patch DeadlinePatch) (research.Deadline, bool, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return research.Deadline{}, false, fmt.Errorf("%w: deadline name is required", ErrInvalidInput)
	}
	if patch.Datetime != nil && patch.Datetime.IsZero() {
		return research.Deadline{}, false, fmt.Errorf("%w: deadline date is required", ErrInvalidInput)
	}
	if patch.Type != nil {
		if _, err := research.ParseDeadlineType(string(*patch.Type)); err != nil {
			return research.Deadline{}, false, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	i := t.deadlineIndex(id)
	if i < 0 {
		return research.Deadline{}, false, nil
	}
	d := t.state.Deadlines[i]
	if patch.Name != nil {
		d.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Datetime != nil {
		d.Datetime = research.At(*patch.Datetime)
	}
	if patch.Type != nil {
		d.Type = *patch.Type
	}
	if patch.ProjectID != nil {
		d.ProjectID = strings.TrimSpace(*patch.ProjectID)
	}
	t.state.Deadlines[i] = d
	return d, true, t.persist(store.KeyDeadlines)
}

// DeleteDeadline removes a deadline. Its project is unaffected.
func (t *Tracker) DeleteDeadline(id string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	i := t.deadlineIndex(id)
	if i < 0 {
		return false, nil
	}
	t.state.Deadlines = append(t.state.Deadlines[:i:i], t.state.Deadlines[i+1:]...)
	return true, t.persist(store.KeyDeadlines)
}

func (t *Tracker) deadlineIndex(id string) int {
	for i := range t.state.Deadlines {
		if t.state.Deadlines[i].ID == id {
			return i
		}
	}
	return -1
}
