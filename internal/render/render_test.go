package render_test

import (
	"strings"
	"testing"
	"time"

	"stint/internal/config"
	"stint/internal/render"
	"stint/internal/schedule"
)

func newFormatter(t *testing.T) *render.Formatter {
	t.Helper()
	cfg := config.Default()
	cfg.Display.TimeFormat = "2006-01-02 15:04"
	formatter, err := render.New(&cfg)
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}
	return formatter
}

func TestHistoryEmpty(t *testing.T) {
	formatter := newFormatter(t)
	out := formatter.History(nil)
	if !strings.Contains(out, "No Sessions Recorded") {
		t.Fatalf("unexpected empty output: %q", out)
	}
}

func TestHistoryRendersRowsAndSummary(t *testing.T) {
	formatter := newFormatter(t)
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	rating := 5
	items := []*schedule.ScheduleItem{
		{ID: 2, StartTime: start.Add(2 * time.Hour), EndTime: start.Add(2 * time.Hour)},
		{ID: 1, StartTime: start, EndTime: start.Add(90 * time.Minute), QualityRating: &rating},
	}

	out := formatter.History(items)
	if !strings.Contains(out, "Tracking") {
		t.Fatalf("expected unfinished marker in output:\n%s", out)
	}
	if !strings.Contains(out, "1h 30m") {
		t.Fatalf("expected duration in output:\n%s", out)
	}
	if !strings.Contains(out, "5/5") {
		t.Fatalf("expected rating in output:\n%s", out)
	}
	if !strings.Contains(out, "1 session · 1h 30m tracked · Tracking Now") {
		t.Fatalf("expected summary line in output:\n%s", out)
	}
}

func TestDurationFormatting(t *testing.T) {
	formatter := newFormatter(t)
	cases := []struct {
		d    time.Duration
		want string
	}{
		{0, "0m"},
		{20 * time.Second, "<1m"},
		{45 * time.Minute, "45m"},
		{2 * time.Hour, "2h"},
		{3*time.Hour + 5*time.Minute, "3h 5m"},
	}
	for _, tc := range cases {
		if got := formatter.Duration(tc.d); got != tc.want {
			t.Fatalf("Duration(%s) = %q, want %q", tc.d, got, tc.want)
		}
	}
}

func TestNewRejectsBadLocale(t *testing.T) {
	cfg := config.Default()
	cfg.Display.Locale = "??"
	if _, err := render.New(&cfg); err == nil {
		t.Fatal("expected error for invalid locale")
	}
}
