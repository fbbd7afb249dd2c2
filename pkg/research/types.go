// Package research defines the entities tracked by rpt: ideas, projects,
// deadlines and the daily check-in settings.
package research

import (
	"fmt"
	"strings"
)

// Stage is a project's position in the research pipeline.
type Stage string

const (
	StageIdea    Stage = "Idea"
	StageReading Stage = "Reading"
	StageDesign  Stage = "Design"
	StageData    Stage = "Data"
	StageWriting Stage = "Writing"
	StageSubmit  Stage = "Submit"
	StageRevise  Stage = "Revise"
	StageDone    Stage = "Done"
)

// Stages returns the pipeline in order.
func Stages() []Stage {
	return []Stage{
		StageIdea,
		StageReading,
		StageDesign,
		StageData,
		StageWriting,
		StageSubmit,
		StageRevise,
		StageDone,
	}
}

// ParseStage converts raw, ignoring case, into a Stage.
func ParseStage(raw string) (Stage, error) {
	for _, s := range Stages() {
		if strings.EqualFold(string(s), strings.TrimSpace(raw)) {
			return s, nil
		}
	}
	return "", fmt.Errorf("research: unknown stage %q", raw)
}

// Index is the position of s in the pipeline, or -1 for unknown stages.
func (s Stage) Index() int {
	for i, candidate := range Stages() {
		if candidate == s {
			return i
		}
	}
	return -1
}

// Next returns the following stage. Done and unknown stages do not advance.
func (s Stage) Next() Stage {
	all := Stages()
	i := s.Index()
	if i < 0 || i == len(all)-1 {
		return s
	}
	return all[i+1]
}

// Priority ranks projects for the daily focus list.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists priorities from most to least urgent.
func Priorities() []Priority {
	return []Priority{PriorityHigh, PriorityMedium, PriorityLow}
}

func ParsePriority(raw string) (Priority, error) {
	for _, p := range Priorities() {
		if strings.EqualFold(string(p), strings.TrimSpace(raw)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("research: unknown priority %q", raw)
}

// Rank orders priorities high < medium < low. Unknown values sort last.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// IdeaStatus tracks whether an idea is parked, being worked on, or shelved.
type IdeaStatus string

const (
	IdeaParked   IdeaStatus = "parked"
	IdeaActive   IdeaStatus = "active"
	IdeaArchived IdeaStatus = "archived"
)

func IdeaStatuses() []IdeaStatus {
	return []IdeaStatus{IdeaParked, IdeaActive, IdeaArchived}
}

func ParseIdeaStatus(raw string) (IdeaStatus, error) {
	for _, s := range IdeaStatuses() {
		if strings.EqualFold(string(s), strings.TrimSpace(raw)) {
			return s, nil
		}
	}
	return "", fmt.Errorf("research: unknown idea status %q", raw)
}

// DeadlineType separates immovable deadlines from self-imposed ones.
type DeadlineType string

const (
	DeadlineHard DeadlineType = "hard"
	DeadlineSoft DeadlineType = "soft"
)

func ParseDeadlineType(raw string) (DeadlineType, error) {
	switch DeadlineType(strings.ToLower(strings.TrimSpace(raw))) {
	case DeadlineHard:
		return DeadlineHard, nil
	case DeadlineSoft:
		return DeadlineSoft, nil
	}
	return "", fmt.Errorf("research: unknown deadline type %q", raw)
}
