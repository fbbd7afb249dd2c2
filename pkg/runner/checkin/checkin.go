// Package checkin runs the daily check-in commands.
package checkin

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/rpt/pkg/app"
	"tableflip.dev/rpt/pkg/printers"
)

var errNoTracker = errors.New("checkin: no tracker")

// CheckIn prints today's check-in card when it is due. Force shows it even
// when dismissed or early, and Dismiss hides it until tomorrow afterwards.
// Quiet suppresses the note printed when nothing is due.
type CheckIn struct {
	Tracker *app.Tracker
	Force   bool
	Dismiss bool
	Quiet   bool
	JSON    bool
	Out     io.Writer
}

func (c *CheckIn) Do(_ context.Context) error {
	_, err := c.Show()
	return err
}

// Show prints the card if due and reports whether it did.
func (c *CheckIn) Show() (bool, error) {
	if c.Tracker == nil {
		return false, errNoTracker
	}
	summary, due := c.Tracker.CheckIn()
	show := due || (c.Force && !summary.Empty())
	pp := printers.PrettyPrint{Out: c.Out, Now: c.Tracker.Now()}

	if c.JSON {
		if err := pp.JSON(map[string]any{"due": due, "summary": summary}); err != nil {
			return false, err
		}
	} else if show {
		pp.CheckIn(summary)
	} else if !c.Quiet {
		_, _ = color.New(color.Faint).Fprintln(writer(c.Out), "Nothing to check in on right now.")
	}

	if c.Dismiss {
		if _, err := c.Tracker.DismissCheckIn(); err != nil {
			return show, err
		}
		if !c.JSON && !c.Quiet {
			_, _ = fmt.Fprintln(writer(c.Out), "Dismissed until tomorrow.")
		}
	}
	return show, nil
}

// SetTime changes when the check-in becomes due.
type SetTime struct {
	Tracker *app.Tracker
	Clock   string
	JSON    bool
	Out     io.Writer
}

func (s *SetTime) Do(_ context.Context) error {
	if s.Tracker == nil {
		return errNoTracker
	}
	settings, err := s.Tracker.SetCheckTime(s.Clock)
	if err != nil {
		return err
	}
	if s.JSON {
		pp := printers.PrettyPrint{Out: s.Out}
		return pp.JSON(settings)
	}
	_, _ = fmt.Fprintf(writer(s.Out), "Check-in time set to %s\n", settings.CheckTime)
	return nil
}

func writer(w io.Writer) io.Writer {
	if w == nil {
		return color.Output
	}
	return w
}
