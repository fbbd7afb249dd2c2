// Package info reports where rpt keeps its data.
package info

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/rpt/pkg/app"
	"tableflip.dev/rpt/pkg/store"
)

// Info prints the resolved config and the slots found in persistence.
type Info struct {
	Config      store.Config
	Persistence store.Persistence
	Tracker     *app.Tracker
	Out         io.Writer
}

func (n *Info) Do(ctx context.Context) error {
	w := n.Out
	if w == nil {
		w = color.Output
	}
	bold := color.New(color.Bold)

	if override := os.Getenv("RPT_CONFIG_PATH"); override != "" {
		_, _ = fmt.Fprintln(w, "RPT_CONFIG_PATH found on env, using", override)
	} else {
		_, _ = fmt.Fprintln(w, "RPT_CONFIG_PATH env var not set")
	}

	if n.Config == nil {
		var err error
		n.Config, err = store.LoadConfig()
		if err != nil {
			return err
		}
	}
	if n.Persistence == nil {
		return fmt.Errorf("info: no persistence")
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("path"), n.Config.BasePath())
	tbl.AddRow(bold.Sprint("backend"), n.Config.Backend())
	tbl.AddRow(bold.Sprint("storage"), n.Persistence.Path())
	_, _ = fmt.Fprintln(w, tbl)

	_, _ = fmt.Fprintln(w, "Slots:")
	present := make(map[string]bool)
	for _, k := range n.Persistence.Keys(ctx) {
		present[k] = true
	}
	counts := map[string]int{}
	if n.Tracker != nil {
		s := n.Tracker.Snapshot()
		counts[store.KeyIdeas] = len(s.Ideas)
		counts[store.KeyProjects] = len(s.Projects)
		counts[store.KeyDeadlines] = len(s.Deadlines)
	}
	slots := uitable.New()
	slots.Separator = "  "
	faint := color.New(color.Faint)
	for _, k := range store.SlotKeys() {
		switch {
		case !present[k]:
			slots.AddRow("  "+k, faint.Sprint("not written yet"))
		case k == store.KeyCheckIn:
			slots.AddRow("  "+k, "settings")
		default:
			slots.AddRow("  "+k, fmt.Sprintf("%d records", counts[k]))
		}
	}
	_, _ = fmt.Fprintln(w, slots)
	return nil
}
