package info

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/fatih/color"

	"tableflip.dev/rpt/pkg/app"
	"tableflip.dev/rpt/pkg/store"
	"tableflip.dev/rpt/pkg/store/storetest"
)

func TestInfo(t *testing.T) {
	color.NoColor = true
	mem := storetest.NewMemory(nil)
	tr := app.Open(mem)
	if _, err := tr.AddIdea(app.IdeaInput{Title: "one"}); err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	n := Info{
		Config:      store.NewConfig("/tmp/rpt", store.BackendSQLite),
		Persistence: mem,
		Tracker:     tr,
		Out:         &out,
	}
	if err := n.Do(context.Background()); err != nil {
		t.Fatal(err)
	}
	text := out.String()
	for _, want := range []string{"/tmp/rpt", "sqlite", ":memory:", store.KeyIdeas, "1 records", "not written yet"} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q in:\n%s", want, text)
		}
	}
}
