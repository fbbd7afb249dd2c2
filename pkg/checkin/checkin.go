// Package checkin decides when the daily check-in is due and what it shows.
// Nothing here mutates state; callers persist dismissals themselves.
package checkin

import (
	"sort"
	"time"

	"tableflip.dev/rpt/pkg/countdown"
	"tableflip.dev/rpt/pkg/research"
)

const (
	layoutDate = "2006-01-02"

	// UpcomingWindow bounds the "coming up soon" list.
	UpcomingWindow = 3 * 24 * time.Hour
	// StaleDays is how long a project may sit untouched before it is called out.
	StaleDays = 7
	// TopActionCount caps the focus list.
	TopActionCount = 3
)

// Today is the calendar date of now in its own location.
func Today(now time.Time) string {
	return now.Format(layoutDate)
}

// ShouldShow reports whether the check-in is due: not yet dismissed today and
// not before the configured check time.
func ShouldShow(settings research.CheckInSettings, now time.Time) bool {
	if settings.LastCheckDate == Today(now) {
		return false
	}
	hour, minute, err := research.ParseClock(settings.CheckTime)
	if err != nil {
		hour, minute, _ = research.ParseClock(research.DefaultCheckTime)
	}
	if now.Hour() < hour || (now.Hour() == hour && now.Minute() < minute) {
		return false
	}
	return true
}

// Dismiss returns settings marked as checked in for today.
func Dismiss(settings research.CheckInSettings, now time.Time) research.CheckInSettings {
	settings.LastCheckDate = Today(now)
	return settings
}

// StaleProject is a project that has been quiet for at least StaleDays.
type StaleProject struct {
	Project research.Project `json:"project"`
	Days    int              `json:"days"`
}

// Summary is the content of one check-in. The lists overlap freely.
type Summary struct {
	Upcoming   []research.Deadline `json:"upcoming"`
	Overdue    []research.Deadline `json:"overdue"`
	Stale      []StaleProject      `json:"stale"`
	TopActions []research.Project  `json:"topActions"`
}

// Empty reports whether there is nothing worth showing.
func (s Summary) Empty() bool {
	return len(s.Upcoming) == 0 && len(s.Overdue) == 0 && len(s.Stale) == 0 && len(s.TopActions) == 0
}

// Summarize builds the check-in for now. Inputs are not modified.
func Summarize(projects []research.Project, deadlines []research.Deadline, now time.Time) Summary {
	s := Summary{
		Upcoming:   make([]research.Deadline, 0),
		Overdue:    make([]research.Deadline, 0),
		Stale:      make([]StaleProject, 0),
		TopActions: make([]research.Project, 0),
	}

	for _, d := range deadlines {
		diff := d.Datetime.Sub(now)
		if diff > 0 && diff <= UpcomingWindow {
			s.Upcoming = append(s.Upcoming, d)
		}
		if diff < 0 {
			s.Overdue = append(s.Overdue, d)
		}
	}

	open := make([]research.Project, 0, len(projects))
	for _, p := range projects {
		if p.Done() {
			continue
		}
		open = append(open, p)
		if days := countdown.DaysSince(p.LastUpdated.Time, now); days >= StaleDays {
			s.Stale = append(s.Stale, StaleProject{Project: p, Days: days})
		}
	}

	sort.SliceStable(open, func(i, j int) bool {
		return open[i].Priority.Rank() < open[j].Priority.Rank()
	})
	if len(open) > TopActionCount {
		open = open[:TopActionCount]
	}
	s.TopActions = append(s.TopActions, open...)

	return s
}
