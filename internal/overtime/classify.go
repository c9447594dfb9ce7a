// Package overtime classifies timestamped work events against a working-hours
// schedule and aggregates them into per-day overtime totals.
package overtime

import (
	"time"

	"github.com/username/git-overtime-tracker/internal/schedule"
	"github.com/username/git-overtime-tracker/pkg/dateutil"
)

// Event is a single timestamped activity: a calendar date plus a zero-padded
// "HH:MM" wall-clock time. The caller owns any surrounding payload (commit
// id, author, stats); the engine only looks at date and time.
type Event struct {
	Date time.Time
	Time string
}

// Info is the classification of one event. At most one of IsSaturday and
// IsSunday is set, and either implies IsOvertime. Minutes is zero for
// weekend and unassigned-day events: their duration is only measurable by
// the daily aggregator, which spans the first and last event of the day.
type Info struct {
	IsOvertime bool
	IsSaturday bool
	IsSunday   bool
	Minutes    int
}

// Classify computes the overtime classification of a single event.
//
// Decision order, first match wins: weekend, unassigned day, night window,
// before morning, lunch break, after work. All boundary comparisons are
// strict, so an event exactly on a shift boundary is on-shift.
func Classify(ev Event, s *schedule.Schedule) Info {
	if dateutil.IsSaturday(ev.Date) {
		return Info{IsOvertime: true, IsSaturday: true}
	}
	if dateutil.IsSunday(ev.Date) {
		return Info{IsOvertime: true, IsSunday: true}
	}

	window, ok := s.WindowFor(ev.Date)
	if !ok {
		// No working hours assigned: the whole day counts as overtime,
		// without a per-event duration.
		return Info{IsOvertime: true}
	}

	if mins := nightMinutes(ev.Time, s.NightStart, s.NightEnd); mins > 0 {
		return Info{IsOvertime: true, Minutes: mins}
	}

	t := ev.Time

	if t < window.MorningStart {
		return Info{IsOvertime: true, Minutes: dateutil.MinutesBetween(t, window.MorningStart)}
	}

	if t > window.MorningEnd && t < window.AfternoonStart {
		return Info{IsOvertime: true, Minutes: lunchMinutes(t, window)}
	}

	if t > window.AfternoonEnd {
		return Info{IsOvertime: true, Minutes: dateutil.MinutesBetween(window.AfternoonEnd, t)}
	}

	return Info{}
}

// inNightWindow reports whether a wall-clock time falls inside the night
// window. The window spans midnight, so the predicate is a disjunction, and
// both comparisons are strict: nightStart itself is "after work" and
// nightEnd itself is "before morning".
func inNightWindow(t, nightStart, nightEnd string) bool {
	return t > nightStart || t < nightEnd
}

// nightMinutes returns how many minutes into the night window the time is,
// or 0 when it is outside the window. For times past midnight the count is
// the segment from nightStart to 23:59 plus the segment from 00:00 to t;
// the evening segment is measured to 23:59, one minute short of the next
// day, so a 22:00 start yields 119 minutes, not 120.
func nightMinutes(t, nightStart, nightEnd string) int {
	if t > nightStart {
		return dateutil.MinutesBetween(nightStart, t)
	}
	if t < nightEnd {
		return dateutil.MinutesBetween(nightStart, "23:59") + dateutil.MinutesBetween("00:00", t)
	}
	return 0
}

// lunchMinutes measures a lunch-break event against the nearer of the two
// break boundaries: minutes since morning end, or minutes until afternoon
// start, whichever is smaller.
func lunchMinutes(t string, w schedule.Window) int {
	sinceMorning := dateutil.MinutesBetween(w.MorningEnd, t)
	untilAfternoon := dateutil.MinutesBetween(t, w.AfternoonStart)
	if sinceMorning < untilAfternoon {
		return sinceMorning
	}
	return untilAfternoon
}
