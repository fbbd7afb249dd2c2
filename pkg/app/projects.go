package app

import (
	"fmt"
	"strings"

	"tableflip.dev/rpt/pkg/research"
	"tableflip.dev/rpt/pkg/store"
)

// ProjectInput describes a new project. Stage defaults to Idea and priority
// to medium.
type ProjectInput struct {
	Title          string
	Goal           string
	Stage          research.Stage
	Priority       research.Priority
	NextAction     string
	RelatedIdeaIDs []string
}

// ProjectPatch changes only the non-nil fields.
type ProjectPatch struct {
	Title          *string
	Goal           *string
	Stage          *research.Stage
	Priority       *research.Priority
	NextAction     *string
	RelatedIdeaIDs *[]string
}

func (t *Tracker) Project(id string) (research.Project, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if i := t.projectIndex(id); i >= 0 {
		return cloneProjects(t.state.Projects[i : i+1])[0], true
	}
	return research.Project{}, false
}

// ProjectDeadlines lists the deadlines that reference projectID, in store order.
func (t *Tracker) ProjectDeadlines(projectID string) []research.Deadline {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]research.Deadline, 0)
	for _, d := range t.state.Deadlines {
		if d.ProjectID == projectID {
			out = append(out, d)
		}
	}
	return out
}

func (t *Tracker) AddProject(in ProjectInput) (research.Project, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return research.Project{}, fmt.Errorf("%w: project title is required", ErrInvalidInput)
	}
	next := strings.TrimSpace(in.NextAction)
	if next == "" {
		return research.Project{}, fmt.Errorf("%w: next action is required", ErrInvalidInput)
	}
	stage := in.Stage
	if stage == "" {
		stage = research.StageIdea
	}
	priority := in.Priority
	if priority == "" {
		priority = research.PriorityMedium
	}
	if err := validateProject(stage, priority); err != nil {
		return research.Project{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	now := research.At(t.now())
	project := research.Project{
		ID:             t.newID(),
		Title:          title,
		Goal:           strings.TrimSpace(in.Goal),
		Stage:          stage,
		Priority:       priority,
		NextAction:     next,
		LastUpdated:    now,
		RelatedIdeaIDs: nonNil(cloneStrings(in.RelatedIdeaIDs)),
		CreatedDate:    now,
	}
	t.state.Projects = append(t.state.Projects, project)
	return cloneProjects([]research.Project{project})[0], t.persist(store.KeyProjects)
}

// UpdateProject applies patch and always refreshes LastUpdated, even when the
// patch changes nothing. Unknown ids are a no-op.
func (t *Tracker) UpdateProject(id string, patch ProjectPatch) (research.Project, bool, error) {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return research.Project{}, false, fmt.Errorf("%w: project title is required", ErrInvalidInput)
	}
	if patch.NextAction != nil && strings.TrimSpace(*patch.NextAction) == "" {
		return research.Project{}, false, fmt.Errorf("%w: next action is required", ErrInvalidInput)
	}
	if patch.Stage != nil {
		if err := validateProject(*patch.Stage, research.PriorityMedium); err != nil {
			return research.Project{}, false, err
		}
	}
	if patch.Priority != nil {
		if err := validateProject(research.StageIdea, *patch.Priority); err != nil {
			return research.Project{}, false, err
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	return t.updateProject(id, func(p *research.Project) {
		if patch.Title != nil {
			p.Title = strings.TrimSpace(*patch.Title)
		}
		if patch.Goal != nil {
			p.Goal = strings.TrimSpace(*patch.Goal)
		}
		if patch.Stage != nil {
			p.Stage = *patch.Stage
		}
		if patch.Priority != nil {
			p.Priority = *patch.Priority
		}
		if patch.NextAction != nil {
			p.NextAction = strings.TrimSpace(*patch.NextAction)
		}
		if patch.RelatedIdeaIDs != nil {
			p.RelatedIdeaIDs = nonNil(cloneStrings(*patch.RelatedIdeaIDs))
		}
	})
}

// AdvanceStage moves a project one step down the pipeline. Done projects
// stay Done but are still touched.
func (t *Tracker) AdvanceStage(id string) (research.Project, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.updateProject(id, func(p *research.Project) {
		p.Stage = p.Stage.Next()
	})
}

func (t *Tracker) updateProject(id string, mutate func(*research.Project)) (research.Project, bool, error) {
	i := t.projectIndex(id)
	if i < 0 {
		return research.Project{}, false, nil
	}
	p := t.state.Projects[i]
	mutate(&p)
	p.LastUpdated = research.At(t.now())
	t.state.Projects[i] = p
	return cloneProjects([]research.Project{p})[0], true, t.persist(store.KeyProjects)
}

// DeleteProject removes a project, every deadline pointing at it, and
// unlinks the ideas it came from, returning them to parked. The three
// collections are written in one batch.
func (t *Tracker) DeleteProject(id string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	i := t.projectIndex(id)
	if i < 0 {
		return false, nil
	}
	t.state.Projects = append(t.state.Projects[:i:i], t.state.Projects[i+1:]...)

	kept := make([]research.Deadline, 0, len(t.state.Deadlines))
	for _, d := range t.state.Deadlines {
		if d.ProjectID != id {
			kept = append(kept, d)
		}
	}
	t.state.Deadlines = kept

	for j := range t.state.Ideas {
		if t.state.Ideas[j].LinkedProjectID == id {
			t.state.Ideas[j].LinkedProjectID = ""
			t.state.Ideas[j].Status = research.IdeaParked
		}
	}
	return true, t.persist(store.KeyProjects, store.KeyDeadlines, store.KeyIdeas)
}

func (t *Tracker) projectIndex(id string) int {
	for i := range t.state.Projects {
		if t.state.Projects[i].ID == id {
			return i
		}
	}
	return -1
}

func validateProject(stage research.Stage, priority research.Priority) error {
	if stage.Index() < 0 {
		return fmt.Errorf("%w: unknown stage %q", ErrInvalidInput, stage)
	}
	if _, err := research.ParsePriority(string(priority)); err != nil {
		return fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, priority)
	}
	return nil
}
