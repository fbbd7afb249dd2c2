// Package project runs the active project commands.
package project

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/rpt/pkg/app"
	"tableflip.dev/rpt/pkg/printers"
)

var errNoTracker = errors.New("project: no tracker")

func out(w io.Writer) io.Writer {
	if w == nil {
		return color.Output
	}
	return w
}

type Add struct {
	Tracker *app.Tracker
	Input   app.ProjectInput
	JSON    bool
	Out     io.Writer
}

func (a *Add) Do(_ context.Context) error {
	if a.Tracker == nil {
		return errNoTracker
	}
	p, err := a.Tracker.AddProject(a.Input)
	if err != nil {
		return err
	}
	if a.JSON {
		pp := printers.PrettyPrint{Out: a.Out}
		return pp.JSON(p)
	}
	_, _ = fmt.Fprintf(out(a.Out), "Started %q at %s (%s)\n", p.Title, p.Stage, p.ID)
	return nil
}

// List prints projects matching Filter. Done projects are hidden unless
// All is set or the filter asks for the Done stage.
type List struct {
	Tracker *app.Tracker
	Filter  app.ProjectFilter
	All     bool
	ShowID  bool
	JSON    bool
	Out     io.Writer
}

func (l *List) Do(_ context.Context) error {
	if l.Tracker == nil {
		return errNoTracker
	}
	projects := app.FilterProjects(l.Tracker.Projects(), l.Filter)
	if !l.All && l.Filter.Stage == "" {
		open := projects[:0]
		for _, p := range projects {
			if !p.Done() {
				open = append(open, p)
			}
		}
		projects = open
	}
	pp := printers.PrettyPrint{Out: l.Out, ShowID: l.ShowID, Now: l.Tracker.Now()}
	if l.JSON {
		return pp.JSON(projects)
	}
	pp.NewLine()
	pp.TitleWithCount("Projects", len(projects), "project")
	pp.Projects(projects...)
	return nil
}

// Show prints a single project with its deadlines.
type Show struct {
	Tracker *app.Tracker
	ID      string
	ShowID  bool
	JSON    bool
	Out     io.Writer
}

func (s *Show) Do(_ context.Context) error {
	if s.Tracker == nil {
		return errNoTracker
	}
	id, err := s.Tracker.Resolve(app.KindProject, s.ID)
	if err != nil {
		return err
	}
	p, ok := s.Tracker.Project(id)
	if !ok {
		return missing(s.Out, s.JSON, id)
	}
	deadlines := app.SortDeadlines(s.Tracker.ProjectDeadlines(id))
	pp := printers.PrettyPrint{Out: s.Out, ShowID: s.ShowID, Now: s.Tracker.Now()}
	if s.JSON {
		return pp.JSON(map[string]any{"project": p, "deadlines": deadlines})
	}
	pp.NewLine()
	pp.Project(p, s.Tracker.Ideas(), deadlines)
	return nil
}

type Edit struct {
	Tracker *app.Tracker
	ID      string
	Patch   app.ProjectPatch
	JSON    bool
	Out     io.Writer
}

func (e *Edit) Do(_ context.Context) error {
	if e.Tracker == nil {
		return errNoTracker
	}
	id, err := e.Tracker.Resolve(app.KindProject, e.ID)
	if err != nil {
		return err
	}
	p, ok, err := e.Tracker.UpdateProject(id, e.Patch)
	if err != nil {
		return err
	}
	if !ok {
		return missing(e.Out, e.JSON, id)
	}
	if e.JSON {
		pp := printers.PrettyPrint{Out: e.Out}
		return pp.JSON(p)
	}
	_, _ = fmt.Fprintf(out(e.Out), "Updated %q, next: %s\n", p.Title, p.NextAction)
	return nil
}

// Advance moves a project to its next stage.
type Advance struct {
	Tracker *app.Tracker
	ID      string
	JSON    bool
	Out     io.Writer
}

func (a *Advance) Do(_ context.Context) error {
	if a.Tracker == nil {
		return errNoTracker
	}
	id, err := a.Tracker.Resolve(app.KindProject, a.ID)
	if err != nil {
		return err
	}
	p, ok, err := a.Tracker.AdvanceStage(id)
	if err != nil {
		return err
	}
	if !ok {
		return missing(a.Out, a.JSON, id)
	}
	if a.JSON {
		pp := printers.PrettyPrint{Out: a.Out}
		return pp.JSON(p)
	}
	_, _ = fmt.Fprintf(out(a.Out), "%s\n%s\n", p.Title, printers.Pipeline(p.Stage))
	return nil
}

// Remove deletes a project along with its deadlines.
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
	id, err := r.Tracker.Resolve(app.KindProject, r.ID)
	if err != nil {
		return err
	}
	p, _ := r.Tracker.Project(id)
	dropped := len(r.Tracker.ProjectDeadlines(id))
	ok, err := r.Tracker.DeleteProject(id)
	if err != nil {
		return err
	}
	if !ok {
		return missing(r.Out, r.JSON, id)
	}
	if r.JSON {
		pp := printers.PrettyPrint{Out: r.Out}
		return pp.JSON(map[string]any{"deleted": true, "id": id, "deadlinesRemoved": dropped})
	}
	_, _ = fmt.Fprintf(out(r.Out), "Deleted %q and %d deadline(s)\n", p.Title, dropped)
	return nil
}

func missing(w io.Writer, asJSON bool, id string) error {
	if asJSON {
		pp := printers.PrettyPrint{Out: w}
		return pp.JSON(map[string]any{"found": false, "id": id})
	}
	_, _ = color.New(color.Faint).Fprintf(out(w), "No project with id %q, nothing to do.\n", id)
	return nil
}
