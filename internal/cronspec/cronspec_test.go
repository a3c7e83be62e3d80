package cronspec

import (
	"testing"
	"time"
)

func TestTranslateClassification(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		expr   string
		start  string
		repeat Repeat
	}{
		{name: "hourly wins over other fields", expr: "15 * 1 * 1", start: "00:15", repeat: RepeatHourly},
		{name: "weekly", expr: "0 9 * * 1", start: "09:00", repeat: RepeatWeekly},
		{name: "monthly", expr: "0 0 1 * *", start: "00:00", repeat: RepeatMonthly},
		{name: "daily", expr: "30 14 * * *", start: "14:30", repeat: RepeatDaily},
		{name: "daily with question marks", expr: "5 6 ? * ?", start: "06:05", repeat: RepeatDaily},
		{name: "step prefix collapsed", expr: "*/10 */2 * * *", start: "02:10", repeat: RepeatDaily},
		{name: "wildcard minute", expr: "* 8 * * *", start: "08:00", repeat: RepeatDaily},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got := Translate(tt.expr)
			if got.Repeat != tt.repeat {
				t.Fatalf("Translate(%q).Repeat = %s, want %s", tt.expr, got.Repeat, tt.repeat)
			}
			if got.StartTime != tt.start {
				t.Fatalf("Translate(%q).StartTime = %s, want %s", tt.expr, got.StartTime, tt.start)
			}
		})
	}
}

func TestTranslateFallback(t *testing.T) {
	t.Parallel()
	for _, expr := range []string{"", "bad", "1 2 3 4", "   "} {
		got := Translate(expr)
		if got.Repeat != RepeatOnce || got.StartTime != "09:00" {
			t.Fatalf("Translate(%q) = %+v, want fallback {09:00 once}", expr, got)
		}
	}
}

func TestNext(t *testing.T) {
	t.Parallel()
	from := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	got := Next("30 14 * * *", from)
	want := time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("Next = %v, want %v", got, want)
	}

	if !Next("garbage", from).IsZero() {
		t.Fatal("Next on unparseable expression should be zero")
	}
}
