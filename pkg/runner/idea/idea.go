// Package idea runs the idea bank commands.
package idea

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/rpt/pkg/app"
	"tableflip.dev/rpt/pkg/printers"
	"tableflip.dev/rpt/pkg/research"
)

var errNoTracker = errors.New("idea: no tracker")

func out(w io.Writer) io.Writer {
	if w == nil {
		return color.Output
	}
	return w
}

// Add parks a new idea.
type Add struct {
	Tracker *app.Tracker
	Input   app.IdeaInput
	JSON    bool
	Out     io.Writer
}

func (a *Add) Do(_ context.Context) error {
	if a.Tracker == nil {
		return errNoTracker
	}
	idea, err := a.Tracker.AddIdea(a.Input)
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{Out: a.Out, Now: a.Tracker.Now()}
	if a.JSON {
		return pp.JSON(idea)
	}
	_, _ = fmt.Fprintf(out(a.Out), "Parked %q (%s)\n", idea.Title, idea.ID)
	return nil
}

// List prints ideas matching Filter.
type List struct {
	Tracker *app.Tracker
	Filter  app.IdeaFilter
	ShowID  bool
	JSON    bool
	Out     io.Writer
}

func (l *List) Do(_ context.Context) error {
	if l.Tracker == nil {
		return errNoTracker
	}
	ideas := app.FilterIdeas(l.Tracker.Ideas(), l.Filter)
	pp := printers.PrettyPrint{Out: l.Out, ShowID: l.ShowID, Now: l.Tracker.Now()}
	if l.JSON {
		return pp.JSON(ideas)
	}
	pp.NewLine()
	pp.TitleWithCount("Ideas", len(ideas), "idea")
	pp.Ideas(ideas...)
	return nil
}

// Tags prints every tag in use.
type Tags struct {
	Tracker *app.Tracker
	JSON    bool
	Out     io.Writer
}

func (t *Tags) Do(_ context.Context) error {
	if t.Tracker == nil {
		return errNoTracker
	}
	tags := app.AllTags(t.Tracker.Ideas())
	pp := printers.PrettyPrint{Out: t.Out}
	if t.JSON {
		return pp.JSON(tags)
	}
	pp.Tags(tags)
	return nil
}

// Edit patches an idea.
type Edit struct {
	Tracker *app.Tracker
	ID      string
	Patch   app.IdeaPatch
	JSON    bool
	Out     io.Writer
}

func (e *Edit) Do(_ context.Context) error {
	if e.Tracker == nil {
		return errNoTracker
	}
	id, err := e.Tracker.Resolve(app.KindIdea, e.ID)
	if err != nil {
		return err
	}
	idea, ok, err := e.Tracker.UpdateIdea(id, e.Patch)
	if err != nil {
		return err
	}
	return report(e.Out, e.JSON, ok, id, idea, "Updated %q\n", idea.Title)
}

// Remove deletes an idea.
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
	id, err := r.Tracker.Resolve(app.KindIdea, r.ID)
	if err != nil {
		return err
	}
	idea, _ := r.Tracker.Idea(id)
	ok, err := r.Tracker.DeleteIdea(id)
	if err != nil {
		return err
	}
	return report(r.Out, r.JSON, ok, id, map[string]any{"deleted": ok, "id": id}, "Deleted %q\n", idea.Title)
}

// Convert promotes an idea to a project.
type Convert struct {
	Tracker *app.Tracker
	ID      string
	JSON    bool
	Out     io.Writer
}

func (c *Convert) Do(_ context.Context) error {
	if c.Tracker == nil {
		return errNoTracker
	}
	id, err := c.Tracker.Resolve(app.KindIdea, c.ID)
	if err != nil {
		return err
	}
	project, ok, err := c.Tracker.ConvertIdea(id)
	if err != nil {
		return err
	}
	return report(c.Out, c.JSON, ok, id, project, "Nice, promoted to a project! %q is at stage %s (%s)\n", project.Title, research.StageIdea, project.ID)
}

// report prints the outcome of a by-id operation. A missing id is not an
// error, just a note.
func report(w io.Writer, asJSON, ok bool, id string, v any, format string, args ...any) error {
	if asJSON {
		if !ok {
			v = map[string]any{"found": false, "id": id}
		}
		pp := printers.PrettyPrint{Out: w}
		return pp.JSON(v)
	}
	if !ok {
		_, _ = color.New(color.Faint).Fprintf(out(w), "No idea with id %q, nothing to do.\n", id)
		return nil
	}
	_, _ = fmt.Fprintf(out(w), format, args...)
	return nil
}
