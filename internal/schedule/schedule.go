// Package schedule resolves which working hours apply to a given calendar
// date. Times of day are zero-padded "HH:MM" strings and are compared
// lexicographically, which for well-formed values is equivalent to comparing
// minute offsets.
package schedule

import "time"

// Window is one working day: a morning block and an afternoon block with a
// lunch break in between. Callers must supply well-formed zero-padded times
// with MorningStart < MorningEnd < AfternoonStart < AfternoonEnd; the
// resolver and the overtime engine do not re-validate this.
type Window struct {
	MorningStart   string
	MorningEnd     string
	AfternoonStart string
	AfternoonEnd   string
}

// Schedule holds the full working-hours policy: a legacy window applied to
// every day before the cutover date, and per-weekday home/office windows
// after it. Weekday indices use Sunday=0 .. Saturday=6.
type Schedule struct {
	Cutover    time.Time
	NightStart string
	NightEnd   string
	Legacy     Window
	Home       Window
	Office     Window
	HomeDays   []int
	OfficeDays []int
}

// WindowFor returns the working hours in effect on the given date, or false
// when no working hours are assigned (weekends, and weekdays that belong to
// neither the home nor the office set).
//
// The cutover rule wins over everything: any date strictly before the
// cutover uses the legacy window regardless of its day of week.
func (s *Schedule) WindowFor(date time.Time) (Window, bool) {
	if date.Before(s.Cutover) {
		return s.Legacy, true
	}

	day := int(date.Weekday())

	if containsDay(s.HomeDays, day) {
		return s.Home, true
	}
	if containsDay(s.OfficeDays, day) {
		return s.Office, true
	}

	return Window{}, false
}

func containsDay(days []int, day int) bool {
	for _, d := range days {
		if d == day {
			return true
		}
	}
	return false
}
