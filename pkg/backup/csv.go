package backup

import (
	"io"
	"strings"

	"tableflip.dev/rpt/pkg/research"
)

// WriteCSV writes the spreadsheet export: a projects section and a deadlines
// section separated by a blank line. Every field is wrapped in double quotes
// as is, so values containing quotes come out unbalanced; spreadsheets cope.
// There is no trailing newline.
func WriteCSV(w io.Writer, projects []research.Project, deadlines []research.Deadline) error {
	lines := []string{
		"--- Projects ---",
		"Title,Goal,Stage,Priority,Next Action,Last Updated",
	}
	for _, p := range projects {
		lines = append(lines, row(p.Title, p.Goal, string(p.Stage), string(p.Priority), p.NextAction, p.LastUpdated.String()))
	}
	lines = append(lines,
		"",
		"--- Deadlines ---",
		"Name,DateTime,Type,ProjectId",
	)
	for _, d := range deadlines {
		lines = append(lines, row(d.Name, d.Datetime.String(), string(d.Type), d.ProjectID))
	}
	_, err := io.WriteString(w, strings.Join(lines, "\n"))
	return err
}

func row(fields ...string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + f + `"`
	}
	return strings.Join(quoted, ",")
}
