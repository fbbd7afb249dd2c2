// Package prompt collects ideas, projects and deadlines interactively with
// huh forms, for commands run with --interactive.
package prompt

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"tableflip.dev/rpt/pkg/app"
	"tableflip.dev/rpt/pkg/research"
	"tableflip.dev/rpt/pkg/timeutil"
)

// ErrAborted is returned when the user backs out of a form.
var ErrAborted = errors.New("prompt: aborted")

// Prompter runs forms against In and Out. Accessible mode swaps the TUI for
// plain line prompts, which also suits piped input.
type Prompter struct {
	In         io.Reader
	Out        io.Writer
	Accessible bool
}

func (p Prompter) run(groups ...*huh.Group) error {
	form := huh.NewForm(groups...).WithAccessible(p.Accessible)
	if p.In != nil {
		form = form.WithInput(p.In)
	}
	if p.Out != nil {
		form = form.WithOutput(p.Out)
	}
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrAborted
		}
		return err
	}
	return nil
}

// Idea asks for a new idea, starting from in.
func (p Prompter) Idea(in app.IdeaInput) (app.IdeaInput, error) {
	tags := strings.Join(in.Tags, ", ")
	status := string(in.Status)
	if status == "" {
		status = string(research.IdeaParked)
	}
	err := p.run(huh.NewGroup(
		huh.NewInput().
			Title("Title").
			Value(&in.Title).
			Validate(requireText("title")),
		huh.NewInput().
			Title("One line pitch").
			Value(&in.OneLinePitch),
		huh.NewInput().
			Title("Tags").
			Description("Comma separated").
			Value(&tags),
		huh.NewSelect[string]().
			Title("Status").
			Options(statusOptions()...).
			Value(&status),
	))
	if err != nil {
		return in, err
	}
	in.Tags = research.SplitTags(tags)
	in.Status = research.IdeaStatus(status)
	return in, nil
}

// Project asks for a new project, starting from in.
func (p Prompter) Project(in app.ProjectInput) (app.ProjectInput, error) {
	stage := string(in.Stage)
	if stage == "" {
		stage = string(research.StageIdea)
	}
	priority := string(in.Priority)
	if priority == "" {
		priority = string(research.PriorityMedium)
	}
	err := p.run(huh.NewGroup(
		huh.NewInput().
			Title("Title").
			Value(&in.Title).
			Validate(requireText("title")),
		huh.NewText().
			Title("Goal").
			Value(&in.Goal),
		huh.NewInput().
			Title("Next action").
			Description("The very next concrete step").
			Value(&in.NextAction).
			Validate(requireText("next action")),
		huh.NewSelect[string]().
			Title("Stage").
			Options(stageOptions()...).
			Value(&stage),
		huh.NewSelect[string]().
			Title("Priority").
			Options(priorityOptions()...).
			Value(&priority),
	))
	if err != nil {
		return in, err
	}
	in.Stage = research.Stage(stage)
	in.Priority = research.Priority(priority)
	return in, nil
}

// Deadline asks for a new deadline. Projects feed the project picker.
func (p Prompter) Deadline(in app.DeadlineInput, projects []research.Project, now time.Time) (app.DeadlineInput, error) {
	var date, clock string
	if !in.Datetime.IsZero() {
		local := in.Datetime.In(now.Location())
		date, clock = local.Format("2006-01-02"), local.Format("15:04")
	}
	kind := string(in.Type)
	if kind == "" {
		kind = string(research.DeadlineHard)
	}
	err := p.run(huh.NewGroup(
		huh.NewInput().
			Title("What is due").
			Value(&in.Name).
			Validate(requireText("name")),
		huh.NewInput().
			Title("Date").
			Placeholder("YYYY-MM-DD").
			Value(&date).
			Validate(validDate),
		huh.NewInput().
			Title("Time").
			Placeholder(timeutil.DefaultDeadlineClock).
			Value(&clock).
			Validate(validClock),
		huh.NewSelect[string]().
			Title("Type").
			Options(
				huh.NewOption("Hard, cannot move", string(research.DeadlineHard)),
				huh.NewOption("Soft, self-imposed", string(research.DeadlineSoft)),
			).
			Value(&kind),
		huh.NewSelect[string]().
			Title("Project").
			Options(projectOptions(projects)...).
			Value(&in.ProjectID),
	))
	if err != nil {
		return in, err
	}
	at, err := timeutil.ResolveDeadline(date, clock, "", now)
	if err != nil {
		return in, err
	}
	in.Datetime = at
	in.Type = research.DeadlineType(kind)
	return in, nil
}

// Choice is one entry offered by Pick.
type Choice struct {
	Label string
	Value string
}

// Pick offers choices and returns the chosen value.
func (p Prompter) Pick(title string, choices []Choice) (string, error) {
	if len(choices) == 0 {
		return "", fmt.Errorf("prompt: nothing to choose from")
	}
	opts := make([]huh.Option[string], 0, len(choices))
	for _, c := range choices {
		opts = append(opts, huh.NewOption(c.Label, c.Value))
	}
	var picked string
	err := p.run(huh.NewGroup(
		huh.NewSelect[string]().
			Title(title).
			Options(opts...).
			Value(&picked),
	))
	return picked, err
}

// Confirm asks a yes or no question, defaulting to no.
func (p Prompter) Confirm(title string) (bool, error) {
	var ok bool
	err := p.run(huh.NewGroup(
		huh.NewConfirm().
			Title(title).
			Affirmative("Yes").
			Negative("No").
			Value(&ok),
	))
	return ok, err
}

// IdeaChoices lists ideas for Pick.
func IdeaChoices(ideas []research.Idea) []Choice {
	out := make([]Choice, 0, len(ideas))
	for _, i := range ideas {
		out = append(out, Choice{Label: fmt.Sprintf("%s [%s]", i.Title, i.Status), Value: i.ID})
	}
	return out
}

// ProjectChoices lists projects for Pick.
func ProjectChoices(projects []research.Project) []Choice {
	out := make([]Choice, 0, len(projects))
	for _, p := range projects {
		out = append(out, Choice{Label: fmt.Sprintf("%s [%s]", p.Title, p.Stage), Value: p.ID})
	}
	return out
}

// DeadlineChoices lists deadlines for Pick.
func DeadlineChoices(deadlines []research.Deadline) []Choice {
	out := make([]Choice, 0, len(deadlines))
	for _, d := range deadlines {
		out = append(out, Choice{Label: fmt.Sprintf("%s (%s)", d.Name, d.Datetime.Local().Format("Jan 2 15:04")), Value: d.ID})
	}
	return out
}

func requireText(field string) func(string) error {
	return func(v string) error {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func validDate(v string) error {
	if _, err := time.Parse("2006-01-02", strings.TrimSpace(v)); err != nil {
		return errors.New("use YYYY-MM-DD")
	}
	return nil
}

func validClock(v string) error {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	if _, _, err := research.ParseClock(v); err != nil {
		return errors.New("use HH:MM, 24h")
	}
	return nil
}

func statusOptions() []huh.Option[string] {
	out := make([]huh.Option[string], 0, 3)
	for _, s := range research.IdeaStatuses() {
		out = append(out, huh.NewOption(string(s), string(s)))
	}
	return out
}

func stageOptions() []huh.Option[string] {
	out := make([]huh.Option[string], 0, len(research.Stages()))
	for _, s := range research.Stages() {
		out = append(out, huh.NewOption(string(s), string(s)))
	}
	return out
}

func priorityOptions() []huh.Option[string] {
	out := make([]huh.Option[string], 0, 3)
	for _, p := range research.Priorities() {
		out = append(out, huh.NewOption(string(p), string(p)))
	}
	return out
}

func projectOptions(projects []research.Project) []huh.Option[string] {
	out := []huh.Option[string]{huh.NewOption("No project", "")}
	for _, p := range projects {
		if p.Done() {
			continue
		}
		out = append(out, huh.NewOption(p.Title, p.ID))
	}
	return out
}
