// Package cronspec translates 5-field cron expressions into the start time
// and repeat class the OS task bridges understand.
package cronspec

import (
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Repeat classifies how often a schedule fires. It is derived from the cron
// expression and cached on the record for display and OS-call convenience.
type Repeat string

const (
	RepeatHourly  Repeat = "hourly"
	RepeatDaily   Repeat = "daily"
	RepeatWeekly  Repeat = "weekly"
	RepeatMonthly Repeat = "monthly"
	// RepeatOnce is the fallback class for expressions we cannot read.
	RepeatOnce Repeat = "once"
)

// Translation is the bridge-facing reading of a cron expression.
type Translation struct {
	// StartTime is "HH:MM", zero-padded.
	StartTime string
	Repeat    Repeat
}

// Translate reads a standard 5-field cron expression
// (minute hour day-of-month month day-of-week).
//
// It never fails: anything with fewer than 5 whitespace-separated fields
// yields the fallback {09:00, once}. Step syntax ("*/N") is accepted but
// collapsed to the literal 0 — only the wildcard/literal distinction is
// honored when deriving the start time.
func Translate(expr string) Translation {
	fields := strings.Fields(expr)
	if len(fields) < 5 {
		return Translation{StartTime: "09:00", Repeat: RepeatOnce}
	}

	minute, hour, dom, dow := fields[0], fields[1], fields[3], fields[4]

	// First matching rule wins.
	repeat := RepeatDaily
	switch {
	case hour == "*":
		repeat = RepeatHourly
	case dow != "*" && dow != "?":
		repeat = RepeatWeekly
	case dom != "*" && dom != "?":
		repeat = RepeatMonthly
	}

	return Translation{
		StartTime: pad2(timeField(hour)) + ":" + pad2(timeField(minute)),
		Repeat:    repeat,
	}
}

// timeField reduces a cron hour/minute field to a literal value.
func timeField(f string) string {
	if f == "*" {
		return "0"
	}
	return strings.TrimPrefix(f, "*/")
}

func pad2(v string) string {
	if len(v) < 2 {
		return "0" + v
	}
	return v
}

// Next returns the next fire time after from, per robfig/cron's standard
// 5-field parser. It is display-only: expressions the parser rejects return
// the zero time, and registration never depends on this value.
func Next(expr string, from time.Time) time.Time {
	sched, err := cron.ParseStandard(expr)
	if err != nil {
		return time.Time{}
	}
	return sched.Next(from)
}
