package printers

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/rpt/pkg/countdown"
	"tableflip.dev/rpt/pkg/research"
)

const weekWidth = len("11 12 13 14 15 16 17")

// Month draws a small calendar for the month containing then. Days holding
// a deadline are drawn in the color of the most urgent deadline that day,
// and the deadlines are listed underneath.
func (pp *PrettyPrint) Month(then time.Time, deadlines []research.Deadline) {
	now := pp.now()
	loc := then.Location()
	first := time.Date(then.Year(), then.Month(), 1, 0, 0, 0, 0, loc)
	days := DaysIn(first)

	tones := make([]countdown.Tone, days)
	var listed []research.Deadline
	for _, d := range deadlines {
		at := d.Datetime.In(loc)
		if at.Year() != first.Year() || at.Month() != first.Month() {
			continue
		}
		listed = append(listed, d)
		tone := countdown.Classify(d.Datetime.Time, now).Tone
		if i := at.Day() - 1; tones[i] == "" || urgency(tone) > urgency(tones[i]) {
			tones[i] = tone
		}
	}

	title := first.Format("January 2006")
	mid := (weekWidth - len(title)) / 2
	if mid < 0 {
		mid = 0
	}
	_, _ = color.New(color.Italic).Fprintf(pp.out(), "%s%s\n", strings.Repeat(" ", mid), title)
	_, _ = faint.Fprintln(pp.out(), "Su Mo Tu We Th Fr Sa")

	wd := first.Weekday()
	_, _ = fmt.Fprint(pp.out(), strings.Repeat("   ", int(wd)))
	for i := 0; i < days; i++ {
		c := faint
		if tones[i] != "" {
			c = ToneColor(tones[i]).Add(color.Bold)
		}
		_, _ = c.Fprintf(pp.out(), "%2d ", i+1)
		if wd++; wd > time.Saturday {
			wd = time.Sunday
			_, _ = fmt.Fprintln(pp.out())
		}
	}
	_, _ = fmt.Fprint(pp.out(), "\n\n")

	if len(listed) > 0 {
		pp.Deadlines(listed, nil)
	}
}

func urgency(t countdown.Tone) int {
	switch t {
	case countdown.Overdue:
		return 3
	case countdown.Today:
		return 2
	case countdown.Soon:
		return 1
	default:
		return 0
	}
}

// DaysIn counts the days in then's month.
func DaysIn(then time.Time) int {
	return time.Date(then.Year(), then.Month()+1, 0, 0, 0, 0, 0, then.Location()).Day()
}
