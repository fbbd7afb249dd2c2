// Package mcp exposes the tracker over the Model Context Protocol.
package mcp

import (
	"errors"
	"fmt"
	"strings"

	"tableflip.dev/rpt/pkg/app"
	"tableflip.dev/rpt/pkg/checkin"
	"tableflip.dev/rpt/pkg/countdown"
	"tableflip.dev/rpt/pkg/research"
)

// Service turns loosely typed tool arguments into tracker operations.
type Service struct {
	Tracker *app.Tracker
}

// ErrNotFound is returned when an id matches nothing. Tools report it as a
// result rather than a failure.
var ErrNotFound = errors.New("not found")

func NewService(t *app.Tracker) *Service {
	return &Service{Tracker: t}
}

// IdeaArgs carries the add_idea arguments. Tags is comma separated.
type IdeaArgs struct {
	Title  string `json:"title"`
	Pitch  string `json:"pitch"`
	Tags   string `json:"tags"`
	Status string `json:"status"`
}

func (s *Service) AddIdea(args IdeaArgs) (research.Idea, error) {
	in := app.IdeaInput{
		Title:        args.Title,
		OneLinePitch: args.Pitch,
		Tags:         research.SplitTags(args.Tags),
	}
	if strings.TrimSpace(args.Status) != "" {
		st, err := research.ParseIdeaStatus(args.Status)
		if err != nil {
			return research.Idea{}, err
		}
		in.Status = st
	}
	return s.Tracker.AddIdea(in)
}

func (s *Service) ConvertIdea(ref string) (research.Project, error) {
	id, err := s.Tracker.Resolve(app.KindIdea, ref)
	if err != nil {
		return research.Project{}, err
	}
	p, ok, err := s.Tracker.ConvertIdea(id)
	if err != nil {
		return research.Project{}, err
	}
	if !ok {
		return research.Project{}, fmt.Errorf("idea %q: %w", ref, ErrNotFound)
	}
	return p, nil
}

// ProjectArgs carries add_project and update_project arguments. Nil fields
// are left unchanged on update.
type ProjectArgs struct {
	ID         string  `json:"id"`
	Title      *string `json:"title"`
	Goal       *string `json:"goal"`
	Stage      *string `json:"stage"`
	Priority   *string `json:"priority"`
	NextAction *string `json:"next_action"`
}

func (s *Service) AddProject(args ProjectArgs) (research.Project, error) {
	in := app.ProjectInput{
		Title:      deref(args.Title),
		Goal:       deref(args.Goal),
		NextAction: deref(args.NextAction),
	}
	var err error
	if v := deref(args.Stage); v != "" {
		if in.Stage, err = research.ParseStage(v); err != nil {
			return research.Project{}, err
		}
	}
	if v := deref(args.Priority); v != "" {
		if in.Priority, err = research.ParsePriority(v); err != nil {
			return research.Project{}, err
		}
	}
	return s.Tracker.AddProject(in)
}

func (s *Service) UpdateProject(args ProjectArgs) (research.Project, error) {
	id, err := s.Tracker.Resolve(app.KindProject, args.ID)
	if err != nil {
		return research.Project{}, err
	}
	patch := app.ProjectPatch{
		Title:      args.Title,
		Goal:       args.Goal,
		NextAction: args.NextAction,
	}
	if args.Stage != nil {
		st, err := research.ParseStage(*args.Stage)
		if err != nil {
			return research.Project{}, err
		}
		patch.Stage = &st
	}
	if args.Priority != nil {
		pr, err := research.ParsePriority(*args.Priority)
		if err != nil {
			return research.Project{}, err
		}
		patch.Priority = &pr
	}
	p, ok, err := s.Tracker.UpdateProject(id, patch)
	if err != nil {
		return research.Project{}, err
	}
	if !ok {
		return research.Project{}, fmt.Errorf("project %q: %w", args.ID, ErrNotFound)
	}
	return p, nil
}

func (s *Service) DeleteProject(ref string) (bool, error) {
	id, err := s.Tracker.Resolve(app.KindProject, ref)
	if err != nil {
		return false, err
	}
	return s.Tracker.DeleteProject(id)
}

// DeadlineArgs carries add_deadline arguments. Datetime is RFC3339 or a
// local "YYYY-MM-DDTHH:MM".
type DeadlineArgs struct {
	Name      string `json:"name"`
	Datetime  string `json:"datetime"`
	Type      string `json:"type"`
	ProjectID string `json:"project_id"`
}

func (s *Service) AddDeadline(args DeadlineArgs) (DeadlineView, error) {
	at, err := research.ParseTime(args.Datetime)
	if err != nil {
		return DeadlineView{}, err
	}
	in := app.DeadlineInput{Name: args.Name, Datetime: at}
	if strings.TrimSpace(args.Type) != "" {
		if in.Type, err = research.ParseDeadlineType(args.Type); err != nil {
			return DeadlineView{}, err
		}
	}
	if strings.TrimSpace(args.ProjectID) != "" {
		if in.ProjectID, err = s.Tracker.Resolve(app.KindProject, args.ProjectID); err != nil {
			return DeadlineView{}, err
		}
	}
	d, err := s.Tracker.AddDeadline(in)
	if err != nil {
		return DeadlineView{}, err
	}
	return s.view(d), nil
}

func (s *Service) DeleteDeadline(ref string) (bool, error) {
	id, err := s.Tracker.Resolve(app.KindDeadline, ref)
	if err != nil {
		return false, err
	}
	return s.Tracker.DeleteDeadline(id)
}

// DeadlineView is a deadline with its countdown, as seen by MCP clients.
type DeadlineView struct {
	research.Deadline
	Countdown countdown.Countdown `json:"countdown"`
	Message   string              `json:"message"`
}

func (s *Service) view(d research.Deadline) DeadlineView {
	cd := countdown.Classify(d.Datetime.Time, s.Tracker.Now())
	return DeadlineView{Deadline: d, Countdown: cd, Message: countdown.Message(cd.Tone)}
}

// Deadlines lists every deadline by date with countdowns.
func (s *Service) Deadlines() []DeadlineView {
	sorted := app.SortDeadlines(s.Tracker.Deadlines())
	out := make([]DeadlineView, 0, len(sorted))
	for _, d := range sorted {
		out = append(out, s.view(d))
	}
	return out
}

// CheckInView is the check-in summary with whether it is currently due.
type CheckInView struct {
	Due      bool                     `json:"due"`
	Settings research.CheckInSettings `json:"settings"`
	Summary  checkin.Summary          `json:"summary"`
}

func (s *Service) CheckIn() CheckInView {
	summary, due := s.Tracker.CheckIn()
	return CheckInView{Due: due, Settings: s.Tracker.Settings(), Summary: summary}
}

func (s *Service) DismissCheckIn() (research.CheckInSettings, error) {
	return s.Tracker.DismissCheckIn()
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
