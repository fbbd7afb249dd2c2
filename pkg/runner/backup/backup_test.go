package backup

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/rpt/pkg/app"
	"tableflip.dev/rpt/pkg/backup"
	"tableflip.dev/rpt/pkg/research"
	"tableflip.dev/rpt/pkg/store/storetest"
)

var now = time.Date(2025, 5, 12, 10, 30, 0, 0, time.UTC)

func newTracker(t *testing.T) *app.Tracker {
	t.Helper()
	color.NoColor = true
	return app.Open(storetest.NewMemory(nil), app.WithClock(func() time.Time { return now }))
}

func TestCompressedExportRoundTrip(t *testing.T) {
	src := newTracker(t)
	if _, err := src.AddIdea(app.IdeaInput{Title: "Probe", Tags: []string{"nlp"}}); err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json.zst")

	var out bytes.Buffer
	e := Export{Tracker: src, Path: path, Compress: true, Out: &out}
	if err := e.Do(context.Background()); err != nil {
		t.Fatal(err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !backup.IsCompressed(raw) {
		t.Fatalf("export is not zstd")
	}

	dst := newTracker(t)
	out.Reset()
	i := Import{Tracker: dst, Path: path, Out: &out}
	if err := i.Do(context.Background()); err != nil {
		t.Fatal(err)
	}
	if ideas := dst.Ideas(); len(ideas) != 1 || ideas[0].Title != "Probe" {
		t.Errorf("unexpected ideas %+v", ideas)
	}
}

func TestExportToStdout(t *testing.T) {
	tr := newTracker(t)
	var out bytes.Buffer
	e := Export{Tracker: tr, Path: "-", Out: &out}
	if err := e.Do(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), `"exportedAt": "2025-05-12T10:30:00.000Z"`) {
		t.Errorf("unexpected export:\n%s", out.String())
	}

	if err := (&Export{Tracker: tr, Format: FormatCSV, Compress: true, Path: "-", Out: &out}).Do(context.Background()); err == nil {
		t.Errorf("expected error compressing csv")
	}
}

func TestImportStrictWarns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.json")
	doc := `{"deadlines":[{"id":"d1","name":"orphan","datetime":"2025-06-01T00:00:00.000Z","type":"hard","projectId":"gone"}]}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	tr := newTracker(t)
	var out bytes.Buffer
	i := Import{Tracker: tr, Path: path, Strict: true, Out: &out}
	if err := i.Do(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), `warning: deadline "orphan" points at missing project gone`) {
		t.Errorf("unexpected output:\n%s", out.String())
	}
	if d := tr.Deadlines(); len(d) != 1 || d[0].Type != research.DeadlineHard {
		t.Errorf("unexpected deadlines %+v", d)
	}
}

func TestImportMissingFile(t *testing.T) {
	i := Import{Tracker: newTracker(t), Path: filepath.Join(t.TempDir(), "nope.json")}
	if err := i.Do(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
