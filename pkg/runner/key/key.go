// Package key prints the legend for countdown colors, pipeline stages and
// priorities.
package key

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/rpt/pkg/countdown"
	"tableflip.dev/rpt/pkg/printers"
	"tableflip.dev/rpt/pkg/research"
)

// Key prints the legend.
type Key struct {
	Out io.Writer
}

func (k *Key) Do(_ context.Context) error {
	w := k.Out
	if w == nil {
		w = color.Output
	}
	bold := color.New(color.Bold)

	_, _ = fmt.Fprintln(w, "")
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Countdown"), bold.Sprint("When"), bold.Sprint("Says"))
	for _, row := range []struct {
		tone    countdown.Tone
		example string
		when    string
	}{
		{countdown.Safe, "12 days left", fmt.Sprintf("more than %d days away", countdown.SoonDays)},
		{countdown.Soon, "2d 5h left", fmt.Sprintf("within %d days", countdown.SoonDays)},
		{countdown.Today, "5h left", "within a day"},
		{countdown.Overdue, "2 days ago", "already passed"},
	} {
		tbl.AddRow(printers.ToneColor(row.tone).Sprint(row.example), row.when, countdown.Message(row.tone))
	}
	_, _ = fmt.Fprintln(w, tbl)
	_, _ = fmt.Fprintln(w, "")

	_, _ = fmt.Fprintln(w, bold.Sprint("Pipeline"))
	_, _ = fmt.Fprintln(w, printers.Pipeline(""))
	_, _ = fmt.Fprintln(w, "")

	prio := uitable.New()
	prio.Separator = "  "
	prio.AddRow(bold.Sprint("Priority"), bold.Sprint("Order"))
	for i, p := range research.Priorities() {
		prio.AddRow(p, i+1)
	}
	_, _ = fmt.Fprintln(w, prio)
	_, _ = fmt.Fprintln(w, "")
	return nil
}
