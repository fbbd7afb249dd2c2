// Package printers renders tracker data for the terminal.
package printers

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/goccy/go-json"
	"github.com/gosuri/uitable"

	"tableflip.dev/rpt/pkg/countdown"
	"tableflip.dev/rpt/pkg/research"
)

// PrettyPrint writes colored tables. Out defaults to color.Output and Now to
// time.Now.
type PrettyPrint struct {
	ShowID bool
	Out    io.Writer
	Now    time.Time
}

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out != nil {
		return pp.Out
	}
	return color.Output
}

func (pp *PrettyPrint) now() time.Time {
	if pp.Now.IsZero() {
		return time.Now()
	}
	return pp.Now
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out())
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.out(), title)
}

// TitleWithCount prints "title - n noun(s)".
func (pp *PrettyPrint) TitleWithCount(title string, count int, noun string) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(pp.out(), title)
	if count == 1 {
		_, _ = c.Fprintf(pp.out(), " - %d %s\n", count, noun)
		return
	}
	_, _ = c.Fprintf(pp.out(), " - %d %ss\n", count, noun)
}

func (pp *PrettyPrint) none() {
	f := color.New(color.Faint, color.Italic)
	_, _ = f.Fprint(pp.out(), " none\n\n")
}

func (pp *PrettyPrint) table() *uitable.Table {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60
	tbl.Wrap = true
	return tbl
}

func (pp *PrettyPrint) flush(tbl *uitable.Table) {
	_, _ = fmt.Fprintln(pp.out(), tbl)
	_, _ = fmt.Fprintln(pp.out())
}

var (
	faint  = color.New(color.Faint)
	idTint = color.New(color.FgHiYellow, color.Italic, color.Faint)
	bold   = color.New(color.Bold)
)

func (pp *PrettyPrint) Ideas(ideas ...research.Idea) {
	if len(ideas) == 0 {
		pp.none()
		return
	}
	tbl := pp.table()
	for _, i := range ideas {
		row := []any{statusColor(i.Status).Sprint(i.Status), bold.Sprint(i.Title), i.OneLinePitch, faint.Sprint(tagList(i.Tags))}
		if pp.ShowID {
			row = append([]any{idTint.Sprint(i.ID)}, row...)
		}
		tbl.AddRow(row...)
	}
	pp.flush(tbl)
}

// Tags prints one tag per line.
func (pp *PrettyPrint) Tags(tags []string) {
	if len(tags) == 0 {
		pp.none()
		return
	}
	for _, t := range tags {
		_, _ = fmt.Fprintf(pp.out(), "  #%s\n", t)
	}
	pp.NewLine()
}

func (pp *PrettyPrint) Projects(projects ...research.Project) {
	if len(projects) == 0 {
		pp.none()
		return
	}
	now := pp.now()
	tbl := pp.table()
	for _, p := range projects {
		row := []any{
			stageColor(p.Stage).Sprint(p.Stage),
			priorityColor(p.Priority).Sprint(p.Priority),
			bold.Sprint(p.Title),
			p.NextAction,
			faint.Sprint(ago(countdown.DaysSince(p.LastUpdated.Time, now))),
		}
		if pp.ShowID {
			row = append([]any{idTint.Sprint(p.ID)}, row...)
		}
		tbl.AddRow(row...)
	}
	pp.flush(tbl)
}

// Project prints one project with its pipeline position, source ideas and
// deadlines.
func (pp *PrettyPrint) Project(p research.Project, ideas []research.Idea, deadlines []research.Deadline) {
	now := pp.now()
	pp.Title(p.Title)

	tbl := pp.table()
	if pp.ShowID {
		tbl.AddRow(faint.Sprint("id"), idTint.Sprint(p.ID))
	}
	tbl.AddRow(faint.Sprint("goal"), p.Goal)
	tbl.AddRow(faint.Sprint("stage"), Pipeline(p.Stage))
	tbl.AddRow(faint.Sprint("priority"), priorityColor(p.Priority).Sprint(p.Priority))
	tbl.AddRow(faint.Sprint("next"), p.NextAction)
	tbl.AddRow(faint.Sprint("updated"), ago(countdown.DaysSince(p.LastUpdated.Time, now)))
	tbl.AddRow(faint.Sprint("created"), p.CreatedDate.Local().Format("Jan 2, 2006"))

	titles := make(map[string]string, len(ideas))
	for _, i := range ideas {
		titles[i.ID] = i.Title
	}
	for _, id := range p.RelatedIdeaIDs {
		title, ok := titles[id]
		if !ok {
			title = faint.Sprint("missing idea " + id)
		}
		tbl.AddRow(faint.Sprint("idea"), title)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()

	pp.TitleWithCount("Deadlines", len(deadlines), "deadline")
	pp.Deadlines(deadlines, nil)
}

// Deadlines prints each deadline with its countdown. projects resolves
// project names; a reference that resolves to nothing prints as "no project".
func (pp *PrettyPrint) Deadlines(deadlines []research.Deadline, projects []research.Project) {
	if len(deadlines) == 0 {
		pp.none()
		return
	}
	names := make(map[string]string, len(projects))
	for _, p := range projects {
		names[p.ID] = p.Title
	}
	now := pp.now()
	tbl := pp.table()
	for _, d := range deadlines {
		cd := countdown.Classify(d.Datetime.Time, now)
		row := []any{
			ToneColor(cd.Tone).Sprint(cd.Label),
			bold.Sprint(d.Name),
			faint.Sprint(d.Type),
			when(d.Datetime),
		}
		if projects != nil {
			name, ok := names[d.ProjectID]
			if !ok {
				name = faint.Sprint("no project")
			}
			row = append(row, name)
		}
		if pp.ShowID {
			row = append([]any{idTint.Sprint(d.ID)}, row...)
		}
		tbl.AddRow(row...)
	}
	pp.flush(tbl)
}

// Pipeline draws every stage, highlighting the current one.
func Pipeline(current research.Stage) string {
	parts := make([]string, 0, len(research.Stages()))
	for _, s := range research.Stages() {
		switch {
		case s == current:
			parts = append(parts, stageColor(s).Add(color.Bold).Sprint(s))
		case current.Index() >= 0 && s.Index() < current.Index():
			parts = append(parts, string(s))
		default:
			parts = append(parts, faint.Sprint(s))
		}
	}
	return strings.Join(parts, " > ")
}

// JSON writes v indented, for --json output.
func (pp *PrettyPrint) JSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(pp.out(), string(b))
	return err
}

func ago(days int) string {
	switch days {
	case 0:
		return "today"
	case 1:
		return "1 day ago"
	default:
		return fmt.Sprintf("%d days ago", days)
	}
}

func tagList(tags []string) string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = "#" + t
	}
	return strings.Join(out, " ")
}

func when(t research.Timestamp) string {
	if t.IsZero() {
		return faint.Sprintf("%q", t.Raw())
	}
	return t.Local().Format("Mon Jan 2 15:04")
}
