package research

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func TestStageNext(t *testing.T) {
	tests := []struct {
		in   Stage
		want Stage
	}{
		{StageIdea, StageReading},
		{StageRevise, StageDone},
		{StageDone, StageDone},
		{Stage("Someday"), Stage("Someday")},
	}
	for _, tc := range tests {
		if got := tc.in.Next(); got != tc.want {
			t.Errorf("%s.Next() = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestParseStageIgnoresCase(t *testing.T) {
	s, err := ParseStage(" writing ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != StageWriting {
		t.Fatalf("expected Writing, got %s", s)
	}
	if _, err := ParseStage("shipping"); err == nil {
		t.Fatal("expected error for unknown stage")
	}
}

func TestPriorityRank(t *testing.T) {
	if !(PriorityHigh.Rank() < PriorityMedium.Rank() && PriorityMedium.Rank() < PriorityLow.Rank()) {
		t.Fatal("expected high < medium < low")
	}
	if Priority("urgent").Rank() <= PriorityLow.Rank() {
		t.Fatal("expected unknown priority to sort after low")
	}
}

func TestTimestampAcceptsExportedInstants(t *testing.T) {
	var d Deadline
	if err := json.Unmarshal([]byte(`{"id":"d1","name":"CHI","datetime":"2025-03-01T23:59:00.000Z","type":"hard"}`), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := time.Date(2025, 3, 1, 23, 59, 0, 0, time.UTC)
	if !d.Datetime.Equal(want) {
		t.Fatalf("expected %v, got %v", want, d.Datetime)
	}

	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Deadline
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal round trip: %v", err)
	}
	if !back.Datetime.Equal(want) {
		t.Fatalf("round trip lost the instant: %v", back.Datetime)
	}
}

func TestTimestampEmpty(t *testing.T) {
	var p Project
	if err := json.Unmarshal([]byte(`{"id":"p1","lastUpdated":""}`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !p.LastUpdated.IsZero() {
		t.Fatalf("expected zero timestamp, got %v", p.LastUpdated)
	}
}

func TestParseClock(t *testing.T) {
	h, m, err := ParseClock("07:45")
	if err != nil || h != 7 || m != 45 {
		t.Fatalf("ParseClock(07:45) = %d, %d, %v", h, m, err)
	}
	for _, bad := range []string{"", "7", "24:00", "12:60", "ab:cd"} {
		if _, _, err := ParseClock(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestSplitTags(t *testing.T) {
	got := SplitTags(" nlp, ,eval,")
	if len(got) != 2 || got[0] != "nlp" || got[1] != "eval" {
		t.Fatalf("unexpected tags %v", got)
	}
}

func TestTimestampKeepsUnparseableText(t *testing.T) {
	var d Deadline
	if err := json.Unmarshal([]byte(`{"id":"d1","name":"CHI","datetime":"next friday","type":"hard"}`), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !d.Datetime.IsZero() || d.Datetime.Raw() != "next friday" {
		t.Fatalf("datetime = %v raw %q", d.Datetime.Time, d.Datetime.Raw())
	}
	b, err := json.Marshal(d.Datetime)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"next friday"` {
		t.Fatalf("expected the text back, got %s", b)
	}
}

func TestAtMatchesPersistedPrecision(t *testing.T) {
	in := time.Date(2025, 5, 12, 10, 30, 0, 123456789, time.FixedZone("CEST", 2*60*60))
	ts := At(in)
	if ts.Location() != time.UTC || ts.Nanosecond() != 123000000 {
		t.Fatalf("At(%v) = %v", in, ts.Time)
	}
	b, err := json.Marshal(ts)
	if err != nil {
		t.Fatal(err)
	}
	var back Timestamp
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatal(err)
	}
	if !back.Equal(ts.Time) || back.Location() != time.UTC {
		t.Fatalf("round trip %v != %v", back.Time, ts.Time)
	}
}
