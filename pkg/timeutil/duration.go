// Package timeutil parses the loose date and duration forms accepted on the
// command line.
package timeutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"tableflip.dev/rpt/pkg/research"
)

// DefaultDeadlineClock is used when a deadline is given a date but no time.
const DefaultDeadlineClock = "23:59"

const day = 24 * time.Hour

var units = map[string]time.Duration{
	"m": time.Minute, "min": time.Minute, "mins": time.Minute, "minute": time.Minute, "minutes": time.Minute,
	"h": time.Hour, "hr": time.Hour, "hrs": time.Hour, "hour": time.Hour, "hours": time.Hour,
	"d": day, "day": day, "days": day,
	"w": 7 * day, "wk": 7 * day, "wks": 7 * day, "week": 7 * day, "weeks": 7 * day,
}

// ParseWindow reads a compact span such as "3d", "2w" or "1w2d6h" and returns
// it with its canonical label.
func ParseWindow(input string) (time.Duration, string, error) {
	rest := strings.ToLower(strings.TrimSpace(input))
	if rest == "" {
		return 0, "", fmt.Errorf("timeutil: empty window")
	}
	var total time.Duration
	for rest != "" {
		digits := strings.IndexFunc(rest, func(r rune) bool { return !unicode.IsDigit(r) })
		if digits <= 0 {
			return 0, "", fmt.Errorf("timeutil: invalid window segment %q", rest)
		}
		n, err := strconv.Atoi(rest[:digits])
		if err != nil {
			return 0, "", fmt.Errorf("timeutil: invalid window value %q: %w", rest[:digits], err)
		}
		rest = strings.TrimLeft(rest[digits:], " ")
		end := strings.IndexFunc(rest, func(r rune) bool { return !unicode.IsLetter(r) })
		if end < 0 {
			end = len(rest)
		}
		unit, ok := units[rest[:end]]
		if !ok {
			return 0, "", fmt.Errorf("timeutil: unsupported unit %q", rest[:end])
		}
		total += time.Duration(n) * unit
		rest = strings.TrimLeft(rest[end:], " ")
	}
	if total <= 0 {
		return 0, "", fmt.Errorf("timeutil: window must be greater than zero")
	}
	return total, FormatWindow(total), nil
}

// FormatWindow renders d in week, day, hour and minute tokens, dropping
// anything finer than a minute.
func FormatWindow(d time.Duration) string {
	var b strings.Builder
	for _, u := range []struct {
		label string
		size  time.Duration
	}{{"w", 7 * day}, {"d", day}, {"h", time.Hour}, {"m", time.Minute}} {
		if n := d / u.size; n > 0 {
			fmt.Fprintf(&b, "%d%s", n, u.label)
			d -= n * u.size
		}
	}
	if b.Len() == 0 {
		return "0m"
	}
	return b.String()
}

// ResolveDeadline works out the instant a deadline falls on. A non-empty in
// is a window counted from now. Otherwise date is either a full timestamp or
// a YYYY-MM-DD day, completed with clock (23:59 when empty) in now's zone.
func ResolveDeadline(date, clock, in string, now time.Time) (time.Time, error) {
	if strings.TrimSpace(in) != "" {
		d, _, err := ParseWindow(in)
		if err != nil {
			return time.Time{}, err
		}
		return now.Add(d), nil
	}
	date = strings.TrimSpace(date)
	if date == "" {
		return time.Time{}, fmt.Errorf("timeutil: a date or --in window is required")
	}
	if len(date) > len("2006-01-02") {
		return research.ParseTime(date)
	}
	midnight, err := time.ParseInLocation("2006-01-02", date, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("timeutil: date %q is not YYYY-MM-DD", date)
	}
	if strings.TrimSpace(clock) == "" {
		clock = DefaultDeadlineClock
	}
	hour, minute, err := research.ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return midnight.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute), nil
}
