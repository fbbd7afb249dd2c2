// Package countdown frames a deadline as a human countdown with an urgency tone.
package countdown

import (
	"fmt"
	"time"
)

// Tone classifies how urgent a deadline is.
type Tone string

const (
	Safe    Tone = "safe"
	Soon    Tone = "soon"
	Today   Tone = "today"
	Overdue Tone = "overdue"
)

const (
	day = 24 * time.Hour

	// SoonDays is the inclusive number of whole days that still counts as soon.
	SoonDays = 3
)

// Countdown is the rendered distance to a deadline.
type Countdown struct {
	Label string `json:"label"`
	Tone  Tone   `json:"tone"`
}

// Classify compares target against now. It is pure: the same inputs always
// produce the same countdown.
func Classify(target, now time.Time) Countdown {
	diff := target.Sub(now)

	if diff < 0 {
		days := int((-diff + day - 1) / day)
		if days == 1 {
			return Countdown{Label: "1 day ago", Tone: Overdue}
		}
		return Countdown{Label: fmt.Sprintf("%d days ago", days), Tone: Overdue}
	}

	hours := int(diff / time.Hour)
	days := hours / 24

	switch {
	case days == 0 && hours == 0:
		return Countdown{Label: fmt.Sprintf("%dm left", int(diff/time.Minute)), Tone: Today}
	case days == 0:
		return Countdown{Label: fmt.Sprintf("%dh left", hours), Tone: Today}
	case days <= SoonDays:
		return Countdown{Label: fmt.Sprintf("%dd %dh left", days, hours%24), Tone: Soon}
	default:
		return Countdown{Label: fmt.Sprintf("%d days left", days), Tone: Safe}
	}
}

// Message is the encouragement shown next to a deadline of the given tone.
func Message(t Tone) string {
	switch t {
	case Safe:
		return "Still some time, you've got this."
	case Soon:
		return "Getting closer, you're doing great."
	case Today:
		return "Today's the day. One step at a time."
	case Overdue:
		return "This one slipped past. No rush, just don't forget it."
	}
	return ""
}

// DaysSince counts the whole days elapsed between then and now.
func DaysSince(then, now time.Time) int {
	diff := now.Sub(then)
	days := diff / day
	if diff < 0 && diff%day != 0 {
		days--
	}
	return int(days)
}
