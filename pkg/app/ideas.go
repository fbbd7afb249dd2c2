package app

import (
	"fmt"
	"strings"

	"tableflip.dev/rpt/pkg/research"
	"tableflip.dev/rpt/pkg/store"
)

// IdeaInput describes a new idea. Status defaults to parked.
type IdeaInput struct {
	Title        string
	OneLinePitch string
	Tags         []string
	Status       research.IdeaStatus
}

// IdeaPatch changes only the non-nil fields.
type IdeaPatch struct {
	Title        *string
	OneLinePitch *string
	Tags         *[]string
	Status       *research.IdeaStatus
}

// Idea looks up an idea by id.
func (t *Tracker) Idea(id string) (research.Idea, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if i := t.ideaIndex(id); i >= 0 {
		return cloneIdeas(t.state.Ideas[i : i+1])[0], true
	}
	return research.Idea{}, false
}

// AddIdea parks a new idea.
func (t *Tracker) AddIdea(in IdeaInput) (research.Idea, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return research.Idea{}, fmt.Errorf("%w: idea title is required", ErrInvalidInput)
	}
	status := in.Status
	if status == "" {
		status = research.IdeaParked
	}
	if _, err := research.ParseIdeaStatus(string(status)); err != nil {
		return research.Idea{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	idea := research.Idea{
		ID:           t.newID(),
		Title:        title,
		OneLinePitch: strings.TrimSpace(in.OneLinePitch),
		Tags:         nonNil(cloneStrings(in.Tags)),
		Status:       status,
		CreatedDate:  research.At(t.now()),
	}
	t.state.Ideas = append(t.state.Ideas, idea)
	return idea, t.persist(store.KeyIdeas)
}

// UpdateIdea applies patch to the idea with id. Unknown ids are a no-op.
func (t *Tracker) UpdateIdea(id string, patch IdeaPatch) (research.Idea, bool, error) {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return research.Idea{}, false, fmt.Errorf("%w: idea title is required", ErrInvalidInput)
	}
	if patch.Status != nil {
		if _, err := research.ParseIdeaStatus(string(*patch.Status)); err != nil {
			return research.Idea{}, false, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	i := t.ideaIndex(id)
	if i < 0 {
		return research.Idea{}, false, nil
	}
	idea := t.state.Ideas[i]
	if patch.Title != nil {
		idea.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.OneLinePitch != nil {
		idea.OneLinePitch = strings.TrimSpace(*patch.OneLinePitch)
	}
	if patch.Tags != nil {
		idea.Tags = nonNil(cloneStrings(*patch.Tags))
	}
	if patch.Status != nil {
		idea.Status = *patch.Status
	}
	t.state.Ideas[i] = idea
	return cloneIdeas([]research.Idea{idea})[0], true, t.persist(store.KeyIdeas)
}

// DeleteIdea removes an idea. Projects created from it are left alone.
func (t *Tracker) DeleteIdea(id string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	i := t.ideaIndex(id)
	if i < 0 {
		return false, nil
	}
	t.state.Ideas = append(t.state.Ideas[:i:i], t.state.Ideas[i+1:]...)
	return true, t.persist(store.KeyIdeas)
}

// ConvertNextAction seeds the next action of a project made from an idea.
const ConvertNextAction = "Define first step"

// ConvertIdea promotes an idea into a new project and links the two. Both
// collections are written in a single batch.
func (t *Tracker) ConvertIdea(id string) (research.Project, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	i := t.ideaIndex(id)
	if i < 0 {
		return research.Project{}, false, nil
	}
	idea := t.state.Ideas[i]
	now := research.At(t.now())
	project := research.Project{
		ID:             t.newID(),
		Title:          idea.Title,
		Goal:           idea.OneLinePitch,
		Stage:          research.StageIdea,
		Priority:       research.PriorityMedium,
		NextAction:     ConvertNextAction,
		LastUpdated:    now,
		RelatedIdeaIDs: []string{idea.ID},
		CreatedDate:    now,
	}
	idea.Status = research.IdeaActive
	idea.LinkedProjectID = project.ID

	t.state.Projects = append(t.state.Projects, project)
	t.state.Ideas[i] = idea
	return cloneProjects([]research.Project{project})[0], true, t.persist(store.KeyIdeas, store.KeyProjects)
}

func (t *Tracker) ideaIndex(id string) int {
	for i := range t.state.Ideas {
		if t.state.Ideas[i].ID == id {
			return i
		}
	}
	return -1
}
