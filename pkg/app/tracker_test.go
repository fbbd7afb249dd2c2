package app

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"tableflip.dev/rpt/pkg/research"
	"tableflip.dev/rpt/pkg/store"
	"tableflip.dev/rpt/pkg/store/storetest"
)

var fixedNow = time.Date(2025, 5, 12, 10, 30, 0, 0, time.UTC)

func newTestTracker(t *testing.T, seed map[string]string) (*Tracker, *storetest.Memory, *time.Time) {
	t.Helper()
	mem := storetest.NewMemory(seed)
	clock := fixedNow
	n := 0
	tr := Open(mem,
		WithClock(func() time.Time { return clock }),
		WithIDs(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
	)
	return tr, mem, &clock
}

func TestOpenEmpty(t *testing.T) {
	tr, _, _ := newTestTracker(t, nil)
	s := tr.Snapshot()
	if s.Ideas == nil || s.Projects == nil || s.Deadlines == nil {
		t.Fatalf("expected non-nil collections, got %+v", s)
	}
	if len(s.Ideas)+len(s.Projects)+len(s.Deadlines) != 0 {
		t.Fatalf("expected empty state, got %+v", s)
	}
	if s.Settings != research.DefaultCheckInSettings() {
		t.Fatalf("expected default settings, got %+v", s.Settings)
	}
}

func TestOpenMalformedSlotFallsBack(t *testing.T) {
	tr, _, _ := newTestTracker(t, map[string]string{
		store.KeyIdeas:    `{not json`,
		store.KeyProjects: `[{"id":"p1","title":"Kept","stage":"Data","priority":"high","nextAction":"n","lastUpdated":"2025-05-01T00:00:00.000Z","relatedIdeaIds":[],"createdDate":"2025-05-01T00:00:00.000Z"}]`,
		store.KeyCheckIn:  `42`,
	})
	if got := tr.Ideas(); len(got) != 0 {
		t.Fatalf("malformed ideas should fall back to empty, got %v", got)
	}
	if got := tr.Projects(); len(got) != 1 || got[0].Title != "Kept" {
		t.Fatalf("well-formed projects should survive, got %v", got)
	}
	if tr.Settings().CheckTime != research.DefaultCheckTime {
		t.Fatalf("malformed settings should fall back, got %+v", tr.Settings())
	}
}

func TestAddIdeaValidatesAndTrims(t *testing.T) {
	tr, mem, _ := newTestTracker(t, nil)

	if _, err := tr.AddIdea(IdeaInput{Title: "   "}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if mem.Batches() != 0 {
		t.Fatalf("rejected input should not write")
	}

	idea, err := tr.AddIdea(IdeaInput{Title: "  Sparse probes ", OneLinePitch: " why not ", Tags: []string{"nlp"}})
	if err != nil {
		t.Fatalf("AddIdea: %v", err)
	}
	if idea.Title != "Sparse probes" || idea.OneLinePitch != "why not" {
		t.Fatalf("fields not trimmed: %+v", idea)
	}
	if idea.Status != research.IdeaParked {
		t.Fatalf("expected parked default, got %s", idea.Status)
	}
	if !idea.CreatedDate.Equal(fixedNow) {
		t.Fatalf("created date %v", idea.CreatedDate)
	}
	if !strings.Contains(mem.Raw(store.KeyIdeas), `"title":"Sparse probes"`) {
		t.Fatalf("idea not persisted: %s", mem.Raw(store.KeyIdeas))
	}
}

func TestConvertIdea(t *testing.T) {
	tr, mem, _ := newTestTracker(t, nil)
	idea, err := tr.AddIdea(IdeaInput{Title: "X", OneLinePitch: "Y"})
	if err != nil {
		t.Fatal(err)
	}
	before := mem.Batches()

	project, ok, err := tr.ConvertIdea(idea.ID)
	if err != nil || !ok {
		t.Fatalf("ConvertIdea: ok=%v err=%v", ok, err)
	}
	if project.Title != "X" || project.Goal != "Y" {
		t.Fatalf("title/goal not copied: %+v", project)
	}
	if project.Stage != research.StageIdea || project.Priority != research.PriorityMedium {
		t.Fatalf("unexpected stage/priority: %+v", project)
	}
	if project.NextAction != "Define first step" {
		t.Fatalf("next action %q", project.NextAction)
	}
	if len(project.RelatedIdeaIDs) != 1 || project.RelatedIdeaIDs[0] != idea.ID {
		t.Fatalf("related ideas %v", project.RelatedIdeaIDs)
	}
	if !project.CreatedDate.Equal(fixedNow) || !project.LastUpdated.Equal(fixedNow) {
		t.Fatalf("timestamps %+v", project)
	}

	got, _ := tr.Idea(idea.ID)
	if got.Status != research.IdeaActive || got.LinkedProjectID != project.ID {
		t.Fatalf("idea not linked: %+v", got)
	}
	if mem.Batches()-before != 1 {
		t.Fatalf("convert should write one batch, wrote %d", mem.Batches()-before)
	}
	if !strings.Contains(mem.Raw(store.KeyIdeas), `"linkedProjectId":"`+project.ID+`"`) {
		t.Fatalf("ideas slot not updated: %s", mem.Raw(store.KeyIdeas))
	}
}

func TestConvertMissingIdeaIsNoop(t *testing.T) {
	tr, mem, _ := newTestTracker(t, nil)
	_, ok, err := tr.ConvertIdea("nope")
	if ok || err != nil {
		t.Fatalf("expected no-op, got ok=%v err=%v", ok, err)
	}
	if mem.Batches() != 0 || len(tr.Projects()) != 0 {
		t.Fatalf("no-op convert should not touch state")
	}
}

func TestDeleteProjectCascades(t *testing.T) {
	tr, mem, _ := newTestTracker(t, nil)
	idea, _ := tr.AddIdea(IdeaInput{Title: "Seed"})
	p, _, _ := tr.ConvertIdea(idea.ID)
	other, _ := tr.AddProject(ProjectInput{Title: "Other", NextAction: "read"})
	if _, err := tr.AddDeadline(DeadlineInput{Name: "camera ready", Datetime: fixedNow.Add(48 * time.Hour), ProjectID: p.ID}); err != nil {
		t.Fatal(err)
	}
	if _, err := tr.AddDeadline(DeadlineInput{Name: "unrelated", Datetime: fixedNow.Add(24 * time.Hour), ProjectID: other.ID}); err != nil {
		t.Fatal(err)
	}
	before := mem.Batches()

	ok, err := tr.DeleteProject(p.ID)
	if err != nil || !ok {
		t.Fatalf("DeleteProject: ok=%v err=%v", ok, err)
	}
	if mem.Batches()-before != 1 {
		t.Fatalf("cascade should write one batch")
	}
	if _, found := tr.Project(p.ID); found {
		t.Fatalf("project still present")
	}
	if ds := tr.Deadlines(); len(ds) != 1 || ds[0].Name != "unrelated" {
		t.Fatalf("unexpected deadlines after cascade: %+v", ds)
	}
	got, _ := tr.Idea(idea.ID)
	if got.Status != research.IdeaParked || got.LinkedProjectID != "" {
		t.Fatalf("idea not reverted: %+v", got)
	}
	if strings.Contains(mem.Raw(store.KeyDeadlines), "camera ready") {
		t.Fatalf("deadline slot not rewritten: %s", mem.Raw(store.KeyDeadlines))
	}
}

func TestUpdateProjectRefreshesLastUpdated(t *testing.T) {
	tr, _, clock := newTestTracker(t, nil)
	p, err := tr.AddProject(ProjectInput{Title: "Survey", NextAction: "outline"})
	if err != nil {
		t.Fatal(err)
	}
	if p.Stage != research.StageIdea || p.Priority != research.PriorityMedium {
		t.Fatalf("defaults not applied: %+v", p)
	}

	*clock = fixedNow.Add(3 * time.Hour)
	updated, ok, err := tr.UpdateProject(p.ID, ProjectPatch{})
	if err != nil || !ok {
		t.Fatalf("UpdateProject: ok=%v err=%v", ok, err)
	}
	if !updated.LastUpdated.Equal(*clock) {
		t.Fatalf("lastUpdated = %v, want %v", updated.LastUpdated, *clock)
	}

	stage := research.StageWriting
	updated, _, _ = tr.UpdateProject(p.ID, ProjectPatch{Stage: &stage})
	if updated.Stage != research.StageWriting || updated.Title != "Survey" {
		t.Fatalf("patch applied incorrectly: %+v", updated)
	}

	bad := research.Stage("Dreaming")
	if _, _, err := tr.UpdateProject(p.ID, ProjectPatch{Stage: &bad}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAdvanceStage(t *testing.T) {
	tr, _, _ := newTestTracker(t, nil)
	p, _ := tr.AddProject(ProjectInput{Title: "A", NextAction: "b", Stage: research.StageSubmit})
	p, _, _ = tr.AdvanceStage(p.ID)
	if p.Stage != research.StageRevise {
		t.Fatalf("stage %s", p.Stage)
	}
	p, _, _ = tr.AdvanceStage(p.ID)
	p, _, _ = tr.AdvanceStage(p.ID)
	if p.Stage != research.StageDone {
		t.Fatalf("done should stay done, got %s", p.Stage)
	}
}

func TestMissingIDsAreNoops(t *testing.T) {
	tr, mem, _ := newTestTracker(t, nil)
	title := "x"
	if _, ok, err := tr.UpdateIdea("nope", IdeaPatch{Title: &title}); ok || err != nil {
		t.Fatalf("UpdateIdea: ok=%v err=%v", ok, err)
	}
	if _, ok, err := tr.UpdateProject("nope", ProjectPatch{}); ok || err != nil {
		t.Fatalf("UpdateProject: ok=%v err=%v", ok, err)
	}
	if _, ok, err := tr.UpdateDeadline("nope", DeadlinePatch{Name: &title}); ok || err != nil {
		t.Fatalf("UpdateDeadline: ok=%v err=%v", ok, err)
	}
	for name, del := range map[string]func(string) (bool, error){
		"idea":     tr.DeleteIdea,
		"project":  tr.DeleteProject,
		"deadline": tr.DeleteDeadline,
	} {
		if ok, err := del("nope"); ok || err != nil {
			t.Fatalf("delete %s: ok=%v err=%v", name, ok, err)
		}
	}
	if mem.Batches() != 0 {
		t.Fatalf("no-ops wrote %d batches", mem.Batches())
	}
}

func TestDeleteDeadlineLeavesProject(t *testing.T) {
	tr, _, _ := newTestTracker(t, nil)
	p, _ := tr.AddProject(ProjectInput{Title: "A", NextAction: "b"})
	d, err := tr.AddDeadline(DeadlineInput{Name: "draft", Datetime: fixedNow, ProjectID: p.ID})
	if err != nil {
		t.Fatal(err)
	}
	if d.Type != research.DeadlineHard {
		t.Fatalf("type default %s", d.Type)
	}
	if ok, _ := tr.DeleteDeadline(d.ID); !ok {
		t.Fatalf("deadline not deleted")
	}
	if _, found := tr.Project(p.ID); !found {
		t.Fatalf("project removed with deadline")
	}
}

func TestAddDeadlineRequiresNameAndDate(t *testing.T) {
	tr, _, _ := newTestTracker(t, nil)
	if _, err := tr.AddDeadline(DeadlineInput{Datetime: fixedNow}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("missing name: %v", err)
	}
	if _, err := tr.AddDeadline(DeadlineInput{Name: "x"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("missing date: %v", err)
	}
	if _, err := tr.AddDeadline(DeadlineInput{Name: "x", Datetime: fixedNow, Type: "firm"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("bad type: %v", err)
	}
}

func TestCheckInSettings(t *testing.T) {
	tr, mem, _ := newTestTracker(t, nil)
	if _, err := tr.SetCheckTime("25:00"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	s, err := tr.SetCheckTime("7:05")
	if err != nil {
		t.Fatal(err)
	}
	if s.CheckTime != "07:05" {
		t.Fatalf("check time %q", s.CheckTime)
	}
	s, err = tr.DismissCheckIn()
	if err != nil {
		t.Fatal(err)
	}
	if s.LastCheckDate != "2025-05-12" {
		t.Fatalf("last check date %q", s.LastCheckDate)
	}
	if !strings.Contains(mem.Raw(store.KeyCheckIn), `"lastCheckDate":"2025-05-12"`) {
		t.Fatalf("settings not persisted: %s", mem.Raw(store.KeyCheckIn))
	}
}

func TestCheckInDue(t *testing.T) {
	tr, _, clock := newTestTracker(t, nil)
	if _, due := tr.CheckIn(); due {
		t.Fatalf("empty summary should not be due")
	}
	if _, err := tr.AddProject(ProjectInput{Title: "A", NextAction: "b"}); err != nil {
		t.Fatal(err)
	}
	if s, due := tr.CheckIn(); !due || len(s.TopActions) != 1 {
		t.Fatalf("expected due with one action, got due=%v %+v", due, s)
	}
	*clock = time.Date(2025, 5, 12, 8, 0, 0, 0, time.UTC)
	if _, due := tr.CheckIn(); due {
		t.Fatalf("should not be due before check time")
	}
}

func TestWriteFailureKeepsMemory(t *testing.T) {
	tr, mem, _ := newTestTracker(t, nil)
	mem.FailWrites = true
	idea, err := tr.AddIdea(IdeaInput{Title: "volatile"})
	if !errors.Is(err, storetest.ErrWriteFailed) {
		t.Fatalf("expected write failure, got %v", err)
	}
	if _, found := tr.Idea(idea.ID); !found {
		t.Fatalf("in-memory state should still hold the idea")
	}
}

func TestReplacePartial(t *testing.T) {
	tr, mem, _ := newTestTracker(t, nil)
	if _, err := tr.AddIdea(IdeaInput{Title: "keep me"}); err != nil {
		t.Fatal(err)
	}
	err := tr.Replace(State{Deadlines: []research.Deadline{{ID: "d1", Name: "imported", Datetime: research.At(fixedNow)}}}, Present{Deadlines: true})
	if err != nil {
		t.Fatal(err)
	}
	if got := tr.Ideas(); len(got) != 1 || got[0].Title != "keep me" {
		t.Fatalf("ideas changed: %+v", got)
	}
	if got := tr.Deadlines(); len(got) != 1 || got[0].ID != "d1" {
		t.Fatalf("deadlines not replaced: %+v", got)
	}

	reopened := Open(mem)
	if got := reopened.Deadlines(); len(got) != 1 || got[0].Name != "imported" {
		t.Fatalf("replace not persisted: %+v", got)
	}
}

func TestReload(t *testing.T) {
	tr, mem, _ := newTestTracker(t, nil)
	if err := mem.Write(store.KeyIdeas, []byte(`[{"id":"x","title":"from elsewhere","oneLinePitch":"","tags":[],"status":"parked","createdDate":""}]`)); err != nil {
		t.Fatal(err)
	}
	if len(tr.Ideas()) != 0 {
		t.Fatalf("tracker should not see writes before reload")
	}
	tr.Reload()
	if got := tr.Ideas(); len(got) != 1 || got[0].Title != "from elsewhere" {
		t.Fatalf("reload: %+v", got)
	}
}

func TestReloadSeesOtherProcessWrites(t *testing.T) {
	for _, backend := range []store.Backend{store.BackendDiskv, store.BackendSQLite} {
		t.Run(string(backend), func(t *testing.T) {
			cfg := store.NewConfig(t.TempDir(), backend)
			mine, err := store.Load(cfg)
			if err != nil {
				t.Fatal(err)
			}
			defer mine.Close()
			tr := Open(mine, WithClock(func() time.Time { return fixedNow }))
			if _, err := tr.AddIdea(IdeaInput{Title: "local"}); err != nil {
				t.Fatal(err)
			}

			theirs, err := store.Load(cfg)
			if err != nil {
				t.Fatal(err)
			}
			defer theirs.Close()
			other := Open(theirs, WithClock(func() time.Time { return fixedNow }))
			if _, err := other.AddIdea(IdeaInput{Title: "remote"}); err != nil {
				t.Fatal(err)
			}

			tr.Reload()
			got := tr.Ideas()
			if len(got) != 2 || got[1].Title != "remote" {
				t.Fatalf("reload missed the other writer: %+v", got)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	tr, _, _ := newTestTracker(t, nil)
	tr.newID = func() string { return "abc-123" }
	if _, err := tr.AddIdea(IdeaInput{Title: "one"}); err != nil {
		t.Fatal(err)
	}
	tr.newID = func() string { return "abd-456" }
	if _, err := tr.AddIdea(IdeaInput{Title: "two"}); err != nil {
		t.Fatal(err)
	}

	if id, err := tr.Resolve(KindIdea, "abc"); err != nil || id != "abc-123" {
		t.Fatalf("unique prefix: %q %v", id, err)
	}
	if id, err := tr.Resolve(KindIdea, "abd-456"); err != nil || id != "abd-456" {
		t.Fatalf("exact: %q %v", id, err)
	}
	if _, err := tr.Resolve(KindIdea, "ab"); !errors.Is(err, ErrAmbiguous) {
		t.Fatalf("expected ErrAmbiguous, got %v", err)
	}
	if id, err := tr.Resolve(KindProject, "abc"); err != nil || id != "abc" {
		t.Fatalf("no match should pass through: %q %v", id, err)
	}
}
