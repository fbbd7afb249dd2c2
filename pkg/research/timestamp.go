package research

import (
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// layoutExport matches the millisecond precision instants found in backups.
const layoutExport = "2006-01-02T15:04:05.000Z07:00"

var localLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTime parses an RFC3339 instant. Inputs without a zone are read in the
// local time zone.
func ParseTime(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
		return t, nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, v, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("research: unrecognized time %q", v)
}

// FormatTime renders an instant the way it is persisted.
func FormatTime(v time.Time) string {
	return v.UTC().Format(layoutExport)
}

// Timestamp is a time.Time that persists as an RFC3339 string. The zero value
// round-trips as an empty string. A string that does not parse decodes to the
// zero time and is written back unchanged.
type Timestamp struct {
	time.Time
	raw string
}

// At wraps t at the precision it is persisted with, so a value survives an
// export and import unchanged.
func At(t time.Time) Timestamp {
	if t.IsZero() {
		return Timestamp{}
	}
	return Timestamp{Time: t.UTC().Truncate(time.Millisecond)}
}

// Raw is the unparseable string this timestamp was decoded from, if any.
func (t Timestamp) Raw() string {
	return t.raw
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return json.Marshal(t.raw)
	}
	return []byte(fmt.Sprintf("%q", FormatTime(t.Time))), nil
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	*t = Timestamp{}
	if string(b) == "null" {
		return nil
	}
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parsed, err := ParseTime(raw)
	if err != nil {
		t.raw = raw
		return nil
	}
	*t = At(parsed)
	return nil
}

func (t Timestamp) String() string {
	if t.IsZero() {
		return t.raw
	}
	return FormatTime(t.Time)
}
