// Package backup runs the export and import commands.
package backup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"

	"tableflip.dev/rpt/pkg/app"
	"tableflip.dev/rpt/pkg/backup"
)

var errNoTracker = errors.New("backup: no tracker")

// Format selects the export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// Export writes a backup. Path "-" writes to Out; an empty Path picks the
// dated default name in the working directory.
type Export struct {
	Tracker  *app.Tracker
	Format   Format
	Path     string
	Compress bool
	Out      io.Writer
}

func (e *Export) Do(_ context.Context) error {
	if e.Tracker == nil {
		return errNoTracker
	}
	now := e.Tracker.Now()
	state := e.Tracker.Snapshot()

	var buf bytes.Buffer
	ext := string(e.Format)
	switch e.Format {
	case "", FormatJSON:
		ext = string(FormatJSON)
		if err := backup.Encode(&buf, backup.Export(state, now)); err != nil {
			return err
		}
		if e.Compress {
			packed, err := backup.Compress(buf.Bytes())
			if err != nil {
				return err
			}
			buf.Reset()
			buf.Write(packed)
			ext += ".zst"
		}
	case FormatCSV:
		if e.Compress {
			return fmt.Errorf("backup: --compress only applies to json exports")
		}
		if err := backup.WriteCSV(&buf, state.Projects, state.Deadlines); err != nil {
			return err
		}
	default:
		return fmt.Errorf("backup: unknown format %q (expected json or csv)", e.Format)
	}

	if e.Path == "-" {
		_, err := writer(e.Out).Write(buf.Bytes())
		return err
	}
	path := e.Path
	if path == "" {
		path = backup.DefaultFilename(now, ext)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("backup: write %s: %w", path, err)
	}
	log.Debug().Str("path", path).Int("bytes", buf.Len()).Msg("backup written")
	_, _ = fmt.Fprintf(writer(e.Out), "Exported to %s\n", path)
	return nil
}

// Import restores a JSON backup. Strict additionally warns about references
// that point at nothing once the import is applied.
type Import struct {
	Tracker *app.Tracker
	Path    string
	Strict  bool
	Out     io.Writer
}

func (i *Import) Do(_ context.Context) error {
	if i.Tracker == nil {
		return errNoTracker
	}
	data, err := os.ReadFile(i.Path)
	if err != nil {
		return fmt.Errorf("backup: read %s: %w", i.Path, err)
	}
	present, err := backup.Import(i.Tracker, data)
	if errors.Is(err, backup.ErrMalformed) {
		log.Debug().Err(err).Str("path", i.Path).Msg("import rejected")
		return fmt.Errorf("hmm, that file didn't look right, try another one: %w", err)
	}
	if err != nil {
		return err
	}
	log.Debug().Interface("present", present).Msg("import applied")
	_, _ = fmt.Fprintln(writer(i.Out), "Backup restored. Welcome back.")

	if i.Strict {
		warn := color.New(color.FgYellow)
		for _, w := range backup.Dangling(i.Tracker.Snapshot()) {
			_, _ = warn.Fprintf(writer(i.Out), "warning: %s\n", w)
		}
	}
	return nil
}

func writer(w io.Writer) io.Writer {
	if w == nil {
		return color.Output
	}
	return w
}
