package timeutil

import (
	"testing"
	"time"
)

func TestParseWindow(t *testing.T) {
	tests := []struct {
		in    string
		want  time.Duration
		label string
	}{
		{"3d", 3 * day, "3d"},
		{"1w2d6h30m", 9*day + 6*time.Hour + 30*time.Minute, "1w2d6h30m"},
		{"2 weeks", 14 * day, "2w"},
		{"36h", 36 * time.Hour, "1d12h"},
	}
	for _, tc := range tests {
		got, label, err := ParseWindow(tc.in)
		if err != nil {
			t.Fatalf("%q: %v", tc.in, err)
		}
		if got != tc.want || label != tc.label {
			t.Fatalf("%q: got %v %q, want %v %q", tc.in, got, label, tc.want, tc.label)
		}
	}
}

func TestParseWindowInvalid(t *testing.T) {
	for _, in := range []string{"", "noop", "3", "3y", "0d"} {
		if _, _, err := ParseWindow(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

func TestResolveDeadline(t *testing.T) {
	now := time.Date(2025, 5, 12, 10, 30, 0, 0, time.UTC)

	got, err := ResolveDeadline("2025-06-01", "", "", now)
	if err != nil {
		t.Fatal(err)
	}
	if want := time.Date(2025, 6, 1, 23, 59, 0, 0, time.UTC); !got.Equal(want) {
		t.Fatalf("default clock: got %v want %v", got, want)
	}

	got, err = ResolveDeadline("2025-06-01", "09:15", "", now)
	if err != nil {
		t.Fatal(err)
	}
	if want := time.Date(2025, 6, 1, 9, 15, 0, 0, time.UTC); !got.Equal(want) {
		t.Fatalf("explicit clock: got %v want %v", got, want)
	}

	got, err = ResolveDeadline("ignored", "", "2d", now)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(now.Add(48 * time.Hour)) {
		t.Fatalf("window: got %v", got)
	}

	got, err = ResolveDeadline("2025-06-01T12:00:00.000Z", "", "", now)
	if err != nil {
		t.Fatal(err)
	}
	if want := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Fatalf("timestamp: got %v", got)
	}

	if _, err := ResolveDeadline("", "", "", now); err == nil {
		t.Fatalf("expected error without date")
	}
	if _, err := ResolveDeadline("June 1", "", "", now); err == nil {
		t.Fatalf("expected error for bad date")
	}
}
