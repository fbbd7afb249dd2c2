package idea

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/rpt/pkg/app"
	"tableflip.dev/rpt/pkg/research"
	"tableflip.dev/rpt/pkg/store/storetest"
)

func newTracker(t *testing.T) *app.Tracker {
	t.Helper()
	color.NoColor = true
	n := 0
	return app.Open(storetest.NewMemory(nil),
		app.WithClock(func() time.Time { return time.Date(2025, 5, 12, 10, 30, 0, 0, time.UTC) }),
		app.WithIDs(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
	)
}

func TestListAndTags(t *testing.T) {
	tr := newTracker(t)
	for _, in := range []app.IdeaInput{
		{Title: "Probe heads", OneLinePitch: "syntax inside", Tags: []string{"nlp", "interp"}},
		{Title: "Tiny models", Tags: []string{"efficiency", "nlp"}, Status: research.IdeaArchived},
	} {
		if _, err := tr.AddIdea(in); err != nil {
			t.Fatal(err)
		}
	}

	var out bytes.Buffer
	l := List{Tracker: tr, Filter: app.IdeaFilter{Search: "SYNTAX"}, ShowID: true, Out: &out}
	if err := l.Do(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "id-1") || strings.Contains(out.String(), "Tiny models") {
		t.Errorf("unexpected list:\n%s", out.String())
	}

	out.Reset()
	tags := Tags{Tracker: tr, Out: &out}
	if err := tags.Do(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := out.String(); !strings.HasPrefix(got, "  #nlp\n  #interp\n  #efficiency\n") {
		t.Errorf("unexpected tags %q", got)
	}
}

func TestConvertByPrefix(t *testing.T) {
	tr := newTracker(t)
	if _, err := tr.AddIdea(app.IdeaInput{Title: "Probe", OneLinePitch: "why"}); err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	c := Convert{Tracker: tr, ID: "id-1", JSON: true, Out: &out}
	if err := c.Do(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), `"nextAction": "Define first step"`) {
		t.Errorf("unexpected output:\n%s", out.String())
	}

	out.Reset()
	c = Convert{Tracker: tr, ID: "missing", Out: &out}
	if err := c.Do(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "nothing to do") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestEditRejectsBlankTitle(t *testing.T) {
	tr := newTracker(t)
	if _, err := tr.AddIdea(app.IdeaInput{Title: "Probe"}); err != nil {
		t.Fatal(err)
	}
	blank := " "
	e := Edit{Tracker: tr, ID: "id-1", Patch: app.IdeaPatch{Title: &blank}, Out: &bytes.Buffer{}}
	if err := e.Do(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
