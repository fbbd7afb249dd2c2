package app

import (
	"fmt"

	"tableflip.dev/rpt/pkg/checkin"
	"tableflip.dev/rpt/pkg/research"
	"tableflip.dev/rpt/pkg/store"
)

// DismissCheckIn hides the check-in until tomorrow.
func (t *Tracker) DismissCheckIn() (research.CheckInSettings, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.Settings = checkin.Dismiss(t.state.Settings, t.now())
	return t.state.Settings, t.persist(store.KeyCheckIn)
}

// SetCheckTime changes when the check-in becomes due. value is 24h "HH:MM".
func (t *Tracker) SetCheckTime(value string) (research.CheckInSettings, error) {
	hour, minute, err := research.ParseClock(value)
	if err != nil {
		return research.CheckInSettings{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.Settings.CheckTime = fmt.Sprintf("%02d:%02d", hour, minute)
	return t.state.Settings, t.persist(store.KeyCheckIn)
}

// CheckIn returns the summary for now, and whether it is due at all: not
// dismissed, past the check time, and not empty.
func (t *Tracker) CheckIn() (checkin.Summary, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	s := checkin.Summarize(t.state.Projects, t.state.Deadlines, now)
	return s, checkin.ShouldShow(t.state.Settings, now) && !s.Empty()
}
