package countdown

import (
	"testing"
	"time"
)

var now = time.Date(2025, 5, 12, 10, 30, 0, 0, time.UTC)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		target time.Time
		label  string
		tone   Tone
	}{
		{"now", now, "0m left", Today},
		{"minutes", now.Add(42*time.Minute + 30*time.Second), "42m left", Today},
		{"hours", now.Add(5*time.Hour + 59*time.Minute), "5h left", Today},
		{"one day", now.Add(24 * time.Hour), "1d 0h left", Soon},
		{"day and hours", now.Add(49 * time.Hour), "2d 1h left", Soon},
		{"three days inclusive", now.Add(3*day + 23*time.Hour), "3d 23h left", Soon},
		{"four days", now.Add(4 * day), "4 days left", Safe},
		{"a month", now.Add(30*day + time.Hour), "30 days left", Safe},
		{"just past", now.Add(-time.Second), "1 day ago", Overdue},
		{"one day ago", now.Add(-day), "1 day ago", Overdue},
		{"two days ago", now.Add(-2 * day), "2 days ago", Overdue},
		{"a bit over two days", now.Add(-2*day - time.Minute), "3 days ago", Overdue},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(tc.target, now)
			if got.Label != tc.label || got.Tone != tc.tone {
				t.Fatalf("Classify = {%q, %s}, want {%q, %s}", got.Label, got.Tone, tc.label, tc.tone)
			}
		})
	}
}

func TestClassifyWithinThreeDaysIsNeverSafe(t *testing.T) {
	for d := time.Minute; d <= 3*day; d += 17 * time.Minute {
		got := Classify(now.Add(d), now)
		if got.Tone != Soon && got.Tone != Today {
			t.Fatalf("offset %v: expected soon or today, got %s", d, got.Tone)
		}
	}
	if got := Classify(now.Add(3*day+time.Nanosecond), now); got.Tone != Soon {
		t.Fatalf("3 days and change should still be soon by whole days, got %s", got.Tone)
	}
	if got := Classify(now.Add(4*day), now); got.Tone != Safe {
		t.Fatalf("expected safe beyond three whole days, got %s", got.Tone)
	}
}

func TestClassifyPastIsOverdue(t *testing.T) {
	for d := time.Millisecond; d < 20*day; d = d*3 + time.Second {
		if got := Classify(now.Add(-d), now); got.Tone != Overdue {
			t.Fatalf("offset -%v: expected overdue, got %s", d, got.Tone)
		}
	}
}

func TestMessage(t *testing.T) {
	for _, tone := range []Tone{Safe, Soon, Today, Overdue} {
		if Message(tone) == "" {
			t.Errorf("expected a message for %s", tone)
		}
	}
	if Message(Tone("unknown")) != "" {
		t.Error("expected no message for unknown tone")
	}
}

func TestDaysSince(t *testing.T) {
	if got := DaysSince(now.Add(-7*day), now); got != 7 {
		t.Fatalf("expected 7, got %d", got)
	}
	if got := DaysSince(now.Add(-7*day+time.Minute), now); got != 6 {
		t.Fatalf("expected 6, got %d", got)
	}
	if got := DaysSince(now.Add(time.Hour), now); got != -1 {
		t.Fatalf("expected floor of a future instant to be -1, got %d", got)
	}
}
