package cmd

import (
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/theirongolddev/messmate/internal/model"
)

func TestParseDayArg(t *testing.T) {
	today := model.NewDate(2024, time.January, 5)
	tests := []struct {
		arg  string
		want model.Date
	}{
		{"today", today},
		{"", today},
		{"Yesterday", model.NewDate(2024, time.January, 4)},
		{"tomorrow", model.NewDate(2024, time.January, 6)},
		{"2024-01-31", model.NewDate(2024, time.January, 31)},
	}
	for _, tt := range tests {
		got, err := parseDayArg(tt.arg, today)
		if err != nil {
			t.Fatalf("parseDayArg(%q): %v", tt.arg, err)
		}
		if got != tt.want {
			t.Errorf("parseDayArg(%q) = %s, want %s", tt.arg, got, tt.want)
		}
	}

	if _, err := parseDayArg("05/01/2024", today); err == nil {
		t.Error("expected error for non-ISO date")
	}
}

func TestParseMealArg(t *testing.T) {
	for arg, want := range map[string]model.MealType{
		"b":      model.Breakfast,
		"Lunch":  model.Lunch,
		" d ":    model.Dinner,
		"DINNER": model.Dinner,
	} {
		got, err := parseMealArg(arg)
		if err != nil || got != want {
			t.Errorf("parseMealArg(%q) = %q, %v; want %q", arg, got, err, want)
		}
	}
	if _, err := parseMealArg("brunch"); err == nil {
		t.Error("expected error for unknown meal")
	}
}

func TestParseRateArg(t *testing.T) {
	v, err := parseRateArg("2,500")
	if err != nil || v != 2500 {
		t.Errorf("parseRateArg(2,500) = %v, %v", v, err)
	}
	for _, bad := range []string{"", "abc", "-1", "NaN", "12abc"} {
		if _, err := parseRateArg(bad); err == nil {
			t.Errorf("parseRateArg(%q): expected error", bad)
		}
	}
}

func TestParseOnOff(t *testing.T) {
	for in, want := range map[string]bool{"on": true, "off": false, "true": true, "0": false} {
		got, err := parseOnOff(in)
		if err != nil || got != want {
			t.Errorf("parseOnOff(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := parseOnOff("maybe"); err == nil {
		t.Error("expected error")
	}
}

func TestWeekAround(t *testing.T) {
	start := model.NewDate(2024, time.January, 1)
	days := make([]model.Day, model.CycleLength)
	for i := range days {
		days[i].Date = start.AddDays(i)
	}

	week := weekAround(days, model.NewDate(2024, time.January, 10))
	if len(week) != 7 || week[3].Date != model.NewDate(2024, time.January, 10) {
		t.Errorf("mid-cycle week = %s..%s", week[0].Date, week[len(week)-1].Date)
	}

	first := weekAround(days, start)
	if first[0].Date != start {
		t.Errorf("week at start begins %s", first[0].Date)
	}

	last := weekAround(days, model.NewDate(2024, time.January, 30))
	if last[6].Date != model.NewDate(2024, time.January, 30) {
		t.Errorf("week at end finishes %s", last[6].Date)
	}

	after := weekAround(days, model.NewDate(2024, time.March, 1))
	if after[6].Date != model.NewDate(2024, time.January, 30) {
		t.Errorf("week after the cycle finishes %s", after[6].Date)
	}
}

func TestFilterDetachArg(t *testing.T) {
	got := filterDetachArg([]string{"daemon", "--detach", "--addr", "127.0.0.1:9000", "--detach=true"})
	want := []string{"daemon", "--addr", "127.0.0.1:9000"}
	if !slices.Equal(got, want) {
		t.Errorf("filterDetachArg = %v, want %v", got, want)
	}
}

func TestPIDFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messmated.pid")
	if err := writePID(path, 4242); err != nil {
		t.Fatal(err)
	}
	pid, err := readPID(path)
	if err != nil || pid != 4242 {
		t.Fatalf("readPID = %d, %v", pid, err)
	}

	if err := ensureDaemonNotRunning(filepath.Join(t.TempDir(), "missing.pid")); err != nil {
		t.Errorf("missing pid file should not be an error: %v", err)
	}
}
