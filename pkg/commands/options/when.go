package options

import (
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/rpt/pkg/timeutil"
)

const (
	layoutISO      = "2006-1-2"
	layoutISOShort = "1/2"
)

// WhenOptions says when a deadline falls.
type WhenOptions struct {
	Date string
	Time string
	In   string
}

func AddWhenArgs(cmd *cobra.Command, o *WhenOptions) {
	cmd.Flags().StringVar(&o.Date, "on", "",
		`Due date, example: --on="2025-2-28" or --on="2/28". A full timestamp is also accepted.`)
	cmd.Flags().StringVar(&o.Time, "at", "",
		`Time of day, 24h, example: --at="17:00". Defaults to 23:59.`)
	cmd.Flags().StringVar(&o.In, "in", "",
		`Due after a span from now instead of on a date, example: --in=2w or --in=3d12h.`)
}

// Set reports whether any of the flags were given.
func (o *WhenOptions) Set() bool {
	return o.Date != "" || o.Time != "" || o.In != ""
}

// Resolve works out the instant, reading short dates relative to now.
func (o *WhenOptions) Resolve(now time.Time) (time.Time, error) {
	return timeutil.ResolveDeadline(normalizeDate(o.Date, now), o.Time, o.In, now)
}

// normalizeDate rewrites "2025-2-8" and "2/8" as YYYY-MM-DD. Anything else
// passes through untouched.
func normalizeDate(v string, now time.Time) string {
	if t, err := time.ParseInLocation(layoutISO, v, now.Location()); err == nil {
		return t.Format("2006-01-02")
	}
	t, err := time.ParseInLocation(layoutISOShort, v, now.Location())
	if err != nil {
		return v
	}
	t = t.AddDate(now.Year(), 0, 0)
	// I am gonna assume if you said 1/3 on 12/5, you meant next year, not 11 months ago.
	if t.Before(time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())) {
		t = t.AddDate(1, 0, 0)
	}
	return t.Format("2006-01-02")
}

// WithinOptions limits a listing to a window from now.
type WithinOptions struct {
	Within string
}

func AddWithinArgs(cmd *cobra.Command, o *WithinOptions) {
	cmd.Flags().StringVarP(&o.Within, "within", "w", "",
		`Only deadlines due inside this span from now, example: --within=1w.`)
}

func (o *WithinOptions) Duration() (time.Duration, error) {
	if o.Within == "" {
		return 0, nil
	}
	d, _, err := timeutil.ParseWindow(o.Within)
	return d, err
}
