// Package backup moves tracker state in and out of portable files: a JSON
// document that round-trips everything, optionally zstd compressed, and a
// read-only CSV of projects and deadlines.
package backup

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/goccy/go-json"

	"tableflip.dev/rpt/pkg/app"
	"tableflip.dev/rpt/pkg/research"
)

// ErrMalformed is returned when an import is not a backup document.
var ErrMalformed = errors.New("backup: malformed document")

// Document is the exported JSON shape.
type Document struct {
	Ideas           []research.Idea          `json:"ideas"`
	Projects        []research.Project       `json:"projects"`
	Deadlines       []research.Deadline      `json:"deadlines"`
	CheckInSettings research.CheckInSettings `json:"checkInSettings"`
	ExportedAt      research.Timestamp       `json:"exportedAt"`
}

// Export captures s as a document stamped with now.
func Export(s app.State, now time.Time) Document {
	return Document{
		Ideas:           nonNil(s.Ideas),
		Projects:        nonNil(s.Projects),
		Deadlines:       nonNil(s.Deadlines),
		CheckInSettings: s.Settings,
		ExportedAt:      research.At(now),
	}
}

// State converts the document back into tracker state.
func (d Document) State() app.State {
	return app.State{
		Ideas:     nonNil(d.Ideas),
		Projects:  nonNil(d.Projects),
		Deadlines: nonNil(d.Deadlines),
		Settings:  d.CheckInSettings,
	}
}

// Encode writes doc as two-space indented JSON.
func Encode(w io.Writer, doc Document) error {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("backup: encode: %w", err)
	}
	_, err = w.Write(b)
	return err
}

// Decode parses a backup. Any of the four collections may be missing, and
// Present reports which ones were there. Unknown keys are ignored and
// records are taken as given. Compressed input is detected and inflated.
func Decode(data []byte) (Document, app.Present, error) {
	var doc Document
	var present app.Present

	if IsCompressed(data) {
		raw, err := Decompress(data)
		if err != nil {
			return doc, present, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		data = raw
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(bytes.TrimSpace(data), &fields); err != nil || fields == nil {
		return doc, present, fmt.Errorf("%w: not a JSON object", ErrMalformed)
	}

	slots := []struct {
		key     string
		target  any
		present *bool
	}{
		{"ideas", &doc.Ideas, &present.Ideas},
		{"projects", &doc.Projects, &present.Projects},
		{"deadlines", &doc.Deadlines, &present.Deadlines},
		{"checkInSettings", &doc.CheckInSettings, &present.Settings},
	}
	for _, s := range slots {
		raw, ok := fields[s.key]
		if !ok || string(bytes.TrimSpace(raw)) == "null" {
			continue
		}
		if err := json.Unmarshal(raw, s.target); err != nil {
			return Document{}, app.Present{}, fmt.Errorf("%w: %s: %v", ErrMalformed, s.key, err)
		}
		*s.present = true
	}
	if raw, ok := fields["exportedAt"]; ok {
		// Informational only, a bad stamp does not reject the backup.
		_ = json.Unmarshal(raw, &doc.ExportedAt)
	}
	return doc, present, nil
}

// Import decodes data and replaces the collections it contains. Nothing
// changes when decoding fails.
func Import(t *app.Tracker, data []byte) (app.Present, error) {
	doc, present, err := Decode(data)
	if err != nil {
		return app.Present{}, err
	}
	if err := t.Replace(doc.State(), present); err != nil {
		return present, err
	}
	return present, nil
}

// Restore is Import reduced to success or failure.
func Restore(t *app.Tracker, data []byte) bool {
	_, err := Import(t, data)
	return err == nil
}

// Dangling lists references in s that point at nothing. They are legal,
// import never rejects them, but they are worth a warning.
func Dangling(s app.State) []string {
	ideas := make(map[string]bool, len(s.Ideas))
	for _, i := range s.Ideas {
		ideas[i.ID] = true
	}
	projects := make(map[string]bool, len(s.Projects))
	for _, p := range s.Projects {
		projects[p.ID] = true
	}

	out := make([]string, 0)
	for _, i := range s.Ideas {
		if i.LinkedProjectID != "" && !projects[i.LinkedProjectID] {
			out = append(out, fmt.Sprintf("idea %q links to missing project %s", i.Title, i.LinkedProjectID))
		}
	}
	for _, p := range s.Projects {
		for _, id := range p.RelatedIdeaIDs {
			if !ideas[id] {
				out = append(out, fmt.Sprintf("project %q relates to missing idea %s", p.Title, id))
			}
		}
	}
	for _, d := range s.Deadlines {
		if d.ProjectID != "" && !projects[d.ProjectID] {
			out = append(out, fmt.Sprintf("deadline %q points at missing project %s", d.Name, d.ProjectID))
		}
	}
	return out
}

// DefaultFilename names a backup taken at now, e.g.
// research-pipeline-2025-05-12.json.
func DefaultFilename(now time.Time, ext string) string {
	return fmt.Sprintf("research-pipeline-%s.%s", now.Format("2006-01-02"), ext)
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return make([]T, 0)
	}
	return in
}
