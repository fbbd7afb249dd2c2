package app

import (
	"sort"
	"strings"

	"tableflip.dev/rpt/pkg/research"
)

// IdeaFilter narrows an idea list. Zero fields match everything.
type IdeaFilter struct {
	Status research.IdeaStatus
	Tag    string
	Search string
}

// FilterIdeas keeps ideas matching every set field of f, in their original
// order. Search is a case-insensitive substring of title or pitch.
func FilterIdeas(ideas []research.Idea, f IdeaFilter) []research.Idea {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]research.Idea, 0, len(ideas))
	for _, i := range ideas {
		if f.Status != "" && i.Status != f.Status {
			continue
		}
		if f.Tag != "" && !i.HasTag(f.Tag) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(i.Title), search) &&
			!strings.Contains(strings.ToLower(i.OneLinePitch), search) {
			continue
		}
		out = append(out, i)
	}
	return out
}

// AllTags lists every distinct tag in first-seen order.
func AllTags(ideas []research.Idea) []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, i := range ideas {
		for _, tag := range i.Tags {
			if !seen[tag] {
				seen[tag] = true
				out = append(out, tag)
			}
		}
	}
	return out
}

// ProjectFilter narrows a project list. Zero fields match everything.
type ProjectFilter struct {
	Stage    research.Stage
	Priority research.Priority
	Search   string
}

func FilterProjects(projects []research.Project, f ProjectFilter) []research.Project {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]research.Project, 0, len(projects))
	for _, p := range projects {
		if f.Stage != "" && p.Stage != f.Stage {
			continue
		}
		if f.Priority != "" && p.Priority != f.Priority {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Title), search) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// SortDeadlines returns a copy ordered by datetime, earliest first.
func SortDeadlines(deadlines []research.Deadline) []research.Deadline {
	out := make([]research.Deadline, len(deadlines))
	copy(out, deadlines)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Datetime.Before(out[j].Datetime.Time)
	})
	return out
}
