package research

import (
	"fmt"
	"strconv"
	"strings"
)

// Idea is a parked research thought that may later become a project.
type Idea struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	OneLinePitch    string     `json:"oneLinePitch"`
	Tags            []string   `json:"tags"`
	Status          IdeaStatus `json:"status"`
	CreatedDate     Timestamp  `json:"createdDate"`
	LinkedProjectID string     `json:"linkedProjectId,omitempty"`
}

// HasTag reports whether tag is one of the idea's tags.
func (i Idea) HasTag(tag string) bool {
	for _, t := range i.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Project is an idea under active work.
type Project struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Goal           string    `json:"goal"`
	Stage          Stage     `json:"stage"`
	Priority       Priority  `json:"priority"`
	NextAction     string    `json:"nextAction"`
	LastUpdated    Timestamp `json:"lastUpdated"`
	RelatedIdeaIDs []string  `json:"relatedIdeaIds"`
	CreatedDate    Timestamp `json:"createdDate"`
}

// Done reports whether the project reached the end of the pipeline.
func (p Project) Done() bool {
	return p.Stage == StageDone
}

// Deadline is a dated commitment, optionally tied to a project.
type Deadline struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Datetime  Timestamp    `json:"datetime"`
	Type      DeadlineType `json:"type"`
	ProjectID string       `json:"projectId,omitempty"`
}

// CheckInSettings controls when the daily check-in is offered.
type CheckInSettings struct {
	CheckTime     string `json:"checkTime"`
	LastCheckDate string `json:"lastCheckDate"`
}

// DefaultCheckTime is used when no check time is configured.
const DefaultCheckTime = "09:00"

// DefaultCheckInSettings returns the settings for a fresh install.
func DefaultCheckInSettings() CheckInSettings {
	return CheckInSettings{CheckTime: DefaultCheckTime}
}

// ParseClock splits a 24h "HH:MM" value.
func ParseClock(v string) (hour, minute int, err error) {
	parts := strings.Split(strings.TrimSpace(v), ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("research: check time %q is not HH:MM", v)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("research: check time %q has an invalid hour", v)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("research: check time %q has an invalid minute", v)
	}
	return hour, minute, nil
}

// SplitTags turns a comma separated list into trimmed, non-empty tags.
func SplitTags(raw string) []string {
	tags := make([]string, 0)
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
