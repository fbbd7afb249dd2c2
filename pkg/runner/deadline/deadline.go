// Package deadline runs the deadline commands.
package deadline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/rpt/pkg/app"
	"tableflip.dev/rpt/pkg/countdown"
	"tableflip.dev/rpt/pkg/printers"
	"tableflip.dev/rpt/pkg/research"
)

var errNoTracker = errors.New("deadline: no tracker")

func out(w io.Writer) io.Writer {
	if w == nil {
		return color.Output
	}
	return w
}

type Add struct {
	Tracker *app.Tracker
	Input   app.DeadlineInput
	JSON    bool
	Out     io.Writer
}

func (a *Add) Do(_ context.Context) error {
	if a.Tracker == nil {
		return errNoTracker
	}
	if a.Input.ProjectID != "" {
		id, err := a.Tracker.Resolve(app.KindProject, a.Input.ProjectID)
		if err != nil {
			return err
		}
		a.Input.ProjectID = id
	}
	d, err := a.Tracker.AddDeadline(a.Input)
	if err != nil {
		return err
	}
	if a.JSON {
		pp := printers.PrettyPrint{Out: a.Out}
		return pp.JSON(d)
	}
	cd := countdown.Classify(d.Datetime.Time, a.Tracker.Now())
	_, _ = fmt.Fprintf(out(a.Out), "Added %q, %s. %s\n", d.Name, printers.ToneColor(cd.Tone).Sprint(cd.Label), countdown.Message(cd.Tone))
	return nil
}

// List prints deadlines by date. Within limits the list to deadlines due in
// the next window, Project to one project's deadlines, and Calendar draws
// the month of Month instead of a table.
type List struct {
	Tracker  *app.Tracker
	Project  string
	Within   time.Duration
	Calendar bool
	Month    time.Time
	ShowID   bool
	JSON     bool
	Out      io.Writer
}

func (l *List) Do(_ context.Context) error {
	if l.Tracker == nil {
		return errNoTracker
	}
	now := l.Tracker.Now()
	deadlines := l.Tracker.Deadlines()
	if l.Project != "" {
		id, err := l.Tracker.Resolve(app.KindProject, l.Project)
		if err != nil {
			return err
		}
		deadlines = l.Tracker.ProjectDeadlines(id)
	}
	if l.Within > 0 {
		kept := make([]research.Deadline, 0, len(deadlines))
		for _, d := range deadlines {
			if !d.Datetime.After(now.Add(l.Within)) {
				kept = append(kept, d)
			}
		}
		deadlines = kept
	}
	deadlines = app.SortDeadlines(deadlines)

	pp := printers.PrettyPrint{Out: l.Out, ShowID: l.ShowID, Now: now}
	if l.JSON {
		type row struct {
			research.Deadline
			Countdown countdown.Countdown `json:"countdown"`
		}
		rows := make([]row, 0, len(deadlines))
		for _, d := range deadlines {
			rows = append(rows, row{Deadline: d, Countdown: countdown.Classify(d.Datetime.Time, now)})
		}
		return pp.JSON(rows)
	}
	pp.NewLine()
	if l.Calendar {
		month := l.Month
		if month.IsZero() {
			month = now
		}
		pp.Month(month, deadlines)
		return nil
	}
	pp.TitleWithCount("Deadlines", len(deadlines), "deadline")
	pp.Deadlines(deadlines, l.Tracker.Projects())
	return nil
}

type Edit struct {
	Tracker *app.Tracker
	ID      string
	Patch   app.DeadlinePatch
	JSON    bool
	Out     io.Writer
}

func (e *Edit) Do(_ context.Context) error {
	if e.Tracker == nil {
		return errNoTracker
	}
	id, err := e.Tracker.Resolve(app.KindDeadline, e.ID)
	if err != nil {
		return err
	}
	if e.Patch.ProjectID != nil && *e.Patch.ProjectID != "" {
		pid, err := e.Tracker.Resolve(app.KindProject, *e.Patch.ProjectID)
		if err != nil {
			return err
		}
		e.Patch.ProjectID = &pid
	}
	d, ok, err := e.Tracker.UpdateDeadline(id, e.Patch)
	if err != nil {
		return err
	}
	if !ok {
		return missing(e.Out, e.JSON, id)
	}
	if e.JSON {
		pp := printers.PrettyPrint{Out: e.Out}
		return pp.JSON(d)
	}
	_, _ = fmt.Fprintf(out(e.Out), "Updated %q, %s\n", d.Name, countdown.Classify(d.Datetime.Time, e.Tracker.Now()).Label)
	return nil
}

type Remove struct {
	Tracker *app.Tracker
	ID      string
	JSON    bool
	Out     io.Writer
}

func (r *Remove) Do(_ context.Context) error {
	if r.Tracker == nil {
		return errNoTracker
	}
	id, err := r.Tracker.Resolve(app.KindDeadline, r.ID)
	if err != nil {
		return err
	}
	d, _ := r.Tracker.Deadline(id)
	ok, err := r.Tracker.DeleteDeadline(id)
	if err != nil {
		return err
	}
	if !ok {
		return missing(r.Out, r.JSON, id)
	}
	if r.JSON {
		pp := printers.PrettyPrint{Out: r.Out}
		return pp.JSON(map[string]any{"deleted": true, "id": id})
	}
	_, _ = fmt.Fprintf(out(r.Out), "Deleted %q\n", d.Name)
	return nil
}

func missing(w io.Writer, asJSON bool, id string) error {
	if asJSON {
		pp := printers.PrettyPrint{Out: w}
		return pp.JSON(map[string]any{"found": false, "id": id})
	}
	_, _ = color.New(color.Faint).Fprintf(out(w), "No deadline with id %q, nothing to do.\n", id)
	return nil
}
