package app

import (
	"reflect"
	"testing"
	"time"

	"tableflip.dev/rpt/pkg/research"
)

func TestFilterIdeas(t *testing.T) {
	ideas := []research.Idea{
		{ID: "1", Title: "Graph priors", OneLinePitch: "for retrieval", Tags: []string{"ml", "ir"}, Status: research.IdeaParked},
		{ID: "2", Title: "Field notes", OneLinePitch: "Interview GRAPH people", Tags: []string{"hci"}, Status: research.IdeaActive},
		{ID: "3", Title: "Old thing", Tags: []string{"ml"}, Status: research.IdeaArchived},
	}
	tests := []struct {
		name   string
		filter IdeaFilter
		want   []string
	}{
		{"everything", IdeaFilter{}, []string{"1", "2", "3"}},
		{"status", IdeaFilter{Status: research.IdeaArchived}, []string{"3"}},
		{"tag", IdeaFilter{Tag: "ml"}, []string{"1", "3"}},
		{"search title and pitch", IdeaFilter{Search: "graph"}, []string{"1", "2"}},
		{"combined", IdeaFilter{Tag: "ml", Search: "graph"}, []string{"1"}},
		{"nothing", IdeaFilter{Search: "zebra"}, []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := []string{}
			for _, i := range FilterIdeas(ideas, tc.filter) {
				got = append(got, i.ID)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestAllTags(t *testing.T) {
	ideas := []research.Idea{
		{Tags: []string{"ml", "ir"}},
		{Tags: []string{"hci", "ml"}},
		{},
	}
	want := []string{"ml", "ir", "hci"}
	if got := AllTags(ideas); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestFilterProjects(t *testing.T) {
	projects := []research.Project{
		{ID: "a", Title: "Thesis chapter", Stage: research.StageWriting, Priority: research.PriorityHigh},
		{ID: "b", Title: "Replication", Stage: research.StageData, Priority: research.PriorityHigh},
		{ID: "c", Title: "Workshop thesis", Stage: research.StageWriting, Priority: research.PriorityLow},
	}
	got := FilterProjects(projects, ProjectFilter{Stage: research.StageWriting, Search: "THESIS"})
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "c" {
		t.Fatalf("unexpected %+v", got)
	}
	got = FilterProjects(projects, ProjectFilter{Priority: research.PriorityHigh, Stage: research.StageData})
	if len(got) != 1 || got[0].ID != "b" {
		t.Fatalf("unexpected %+v", got)
	}
}

func TestSortDeadlines(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	in := []research.Deadline{
		{ID: "late", Datetime: research.At(base.Add(48 * time.Hour))},
		{ID: "early", Datetime: research.At(base)},
		{ID: "tie", Datetime: research.At(base.Add(48 * time.Hour))},
	}
	got := SortDeadlines(in)
	ids := []string{got[0].ID, got[1].ID, got[2].ID}
	if !reflect.DeepEqual(ids, []string{"early", "late", "tie"}) {
		t.Fatalf("order %v", ids)
	}
	if in[0].ID != "late" {
		t.Fatalf("input mutated")
	}
}
